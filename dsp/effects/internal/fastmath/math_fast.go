//go:build fastmath

package fastmath

import approx "github.com/meko-christian/algo-approx"

// tanhSaturate is where tanh is within float64 rounding of ±1.
const tanhSaturate = 19.0

// Tanh computes the hyperbolic tangent from a fast exponential.
// Uses the identity: tanh(x) = 1 - 2/(e^(2x) + 1)
func Tanh(x float64) float64 {
	if x > tanhSaturate {
		return 1
	}
	if x < -tanhSaturate {
		return -1
	}
	return 1 - 2/(approx.FastExp(2*x)+1)
}

// Exp computes e^x using fast approximation.
func Exp(x float64) float64 {
	return approx.FastExp(x)
}
