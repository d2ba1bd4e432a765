// Package param provides lock-free named parameters for real-time effects.
//
// A Param stores its value as the bit pattern of a float64 inside an
// atomic.Uint64. A control goroutine may call Set while the audio goroutine
// calls Value; the reader observes either the previous or the new value.
// Writes are always clamped to the parameter's range, and NaN writes are
// dropped so reads are defined at all times.
//
// A Set groups the parameters of one effect, resolves them by name and
// exports/imports them as a map snapshot for persistence.
package param
