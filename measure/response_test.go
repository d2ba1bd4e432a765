package measure

import (
	"math"
	"testing"
)

func TestImpulseResponseIdentity(t *testing.T) {
	t.Parallel()

	ir := ImpulseResponse(ProcessorFunc(func(x float64) float64 { return x }), 4)
	want := []float64{1, 0, 0, 0}
	for i := range want {
		if ir[i] != want[i] {
			t.Fatalf("ir = %v, want %v", ir, want)
		}
	}
	if got := ImpulseResponse(ProcessorFunc(func(x float64) float64 { return x }), -3); len(got) != 0 {
		t.Fatalf("negative length returned %v", got)
	}
}

func TestStepResponseOnePole(t *testing.T) {
	t.Parallel()

	state := 0.0
	lp := ProcessorFunc(func(x float64) float64 {
		state += 0.5 * (x - state)
		return state
	})

	out := StepResponse(lp, 2, 3)
	want := []float64{1, 1.5, 1.75}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-15 {
			t.Fatalf("out = %v, want %v", out, want)
		}
	}
}

func TestTailLengthAndEnergy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		response   []float64
		threshold  float64
		wantLength int
		wantEnergy float64
	}{
		{"silent", []float64{0, 0, 0}, 1e-3, 0, 0},
		{"single", []float64{0.5, 0, 0}, 1e-3, 1, 0.25},
		{"late", []float64{1, 0.1, 0.0001, -0.2, 0}, 1e-3, 4, 1.05},
		{"empty", nil, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TailLength(tt.response, tt.threshold); got != tt.wantLength {
				t.Errorf("TailLength() = %d, want %d", got, tt.wantLength)
			}
			if got := TailEnergy(tt.response, tt.threshold); math.Abs(got-tt.wantEnergy) > 1e-12 {
				t.Errorf("TailEnergy() = %v, want %v", got, tt.wantEnergy)
			}
		})
	}
}

func TestPeak(t *testing.T) {
	t.Parallel()

	v, i := Peak([]float64{0.1, -0.9, 0.5})
	if v != 0.9 || i != 1 {
		t.Fatalf("Peak() = %v at %d", v, i)
	}
}
