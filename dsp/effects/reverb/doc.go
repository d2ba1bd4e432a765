// Package reverb provides the reverb pedal.
//
// Included processors:
//   - Reverb: early-reflection comb bank, allpass diffusion and a late
//     comb bank with a one-pole tone filter.
package reverb
