package core

import (
	"errors"
	"fmt"
	"math"
)

// NominalSampleRate is the rate every processor assumes until told otherwise.
const NominalSampleRate = 44100.0

// ErrInvalidSampleRate is returned when a sample rate is not a positive finite number.
var ErrInvalidSampleRate = errors.New("sample rate must be > 0 and finite")

// ValidateSampleRate returns a wrapped ErrInvalidSampleRate naming who rejected it.
func ValidateSampleRate(owner string, sampleRate float64) error {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return fmt.Errorf("%s: %w: %f", owner, ErrInvalidSampleRate, sampleRate)
	}

	return nil
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// Feedback paths call it so decaying tails settle on 0 instead of crawling
// through subnormals.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
