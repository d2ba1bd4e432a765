//go:build !fastmath

package fastmath

import "math"

// Tanh computes the hyperbolic tangent using standard library math.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// Exp computes e^x using standard library math.
func Exp(x float64) float64 {
	return math.Exp(x)
}
