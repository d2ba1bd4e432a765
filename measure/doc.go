// Package measure characterises pedals and chains offline.
//
// Response helpers drive any single-sample processor with test signals.
// Decay analysis estimates reverberation time from a Schroeder backward
// integral, and spectrum and harmonic analysis use a windowed FFT (Hann by
// default) to report harmonic distortion of drive pedals.
package measure
