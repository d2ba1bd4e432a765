// Package effectchain runs the fixed pedal line.
//
// A Chain owns one instance of every registered pedal and processes them in
// category order: modulation, then distortion, then time-based. The order
// is a property of the chain, not of the order pedals were registered or
// restored in. Each enabled pedal's output is attenuated by a per-category
// factor to keep cumulative gain in check, and the result passes through a
// soft limiter and a fixed output trim.
//
// Control methods (SetEnabled, SetBypass, SetParameter, ...) write atomics
// and may be called from any goroutine while ProcessSample runs.
// SetSampleRate reallocates pedal buffers and must not overlap processing.
package effectchain
