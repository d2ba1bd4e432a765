// Package dynamics provides the compressor pedal.
//
// Included processors:
//   - Compressor: peak envelope follower with attack/release smoothing and a
//     hard-knee gain computer, followed by makeup gain.
package dynamics
