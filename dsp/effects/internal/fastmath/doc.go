// Package fastmath provides the transcendental functions used on the pedal
// hot paths.
//
// The default build forwards to the standard library. Building with the
// `fastmath` tag swaps in approximations from algo-approx, trading a small
// amount of accuracy for cheaper per-sample saturation and coefficient math:
//
//	go build -tags fastmath ./...
//
// Saturation curves are evaluated once or twice per sample per pedal, so the
// approximations keep Tanh bounded to [-1, 1] for every finite input.
package fastmath
