// Package effects provides the drive-family pedals and the octave divider.
//
// Subpackages:
//   - github.com/cwbudde/algo-pedalboard/dsp/effects/dynamics
//   - github.com/cwbudde/algo-pedalboard/dsp/effects/modulation
//   - github.com/cwbudde/algo-pedalboard/dsp/effects/reverb
//
// Effects in this package:
//   - Overdrive: Pre-emphasis, asymmetric tanh saturation and smoothing.
//   - Distortion: Three-stage clipper with a tilt tone network.
//   - BluesDriver: Asymmetric tube-style drive with a three-band tone stack.
//   - Octave: Flip-flop frequency divider one octave down.
//
// Every pedal processes one sample at a time without allocating, exposes its
// controls as a param.Set and maps a 0..10 knob onto its main control with
// SetParameter. Control writes are atomic and may race with ProcessSample.
package effects
