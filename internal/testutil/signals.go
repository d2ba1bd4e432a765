package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Step generates zeros up to pos and amplitude from pos on.
func Step(length, pos int, amplitude float64) []float64 {
	out := make([]float64, length)
	for i := max(pos, 0); i < length; i++ {
		out[i] = amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Extremes returns inputs that stress saturation stages: silence, full
// scale of both polarities, hot overs and a tiny subnormal-range value.
func Extremes() []float64 {
	return []float64{0, 1, -1, 10, -10, 1e3, -1e3, 1e-300}
}

// Run feeds in through process and returns a new output slice.
func Run(process func(float64) float64, in []float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = process(x)
	}
	return out
}
