package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireBounded fails t if any element is non-finite or exceeds limit in magnitude.
func RequireBounded(t *testing.T, data []float64, limit float64) {
	t.Helper()
	RequireFinite(t, data)
	for i, v := range data {
		if math.Abs(v) > limit {
			t.Fatalf("index %d: |%v| > %v", i, v, limit)
		}
	}
}

// RequireSilent fails t if any element exceeds eps in magnitude.
func RequireSilent(t *testing.T, data []float64, eps float64) {
	t.Helper()
	for i, v := range data {
		if math.Abs(v) > eps {
			t.Fatalf("index %d: expected silence, got %v", i, v)
		}
	}
}

// PeakAbs returns the largest magnitude in data.
func PeakAbs(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// Energy returns the sum of squares of data.
func Energy(data []float64) float64 {
	e := 0.0
	for _, v := range data {
		e += v * v
	}
	return e
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
