// Package modulation provides the LFO-driven pedals.
//
// Included processors:
//   - Chorus: single-voice modulated delay with soft-clipped feedback.
//   - Tremolo: LFO amplitude modulation.
package modulation
