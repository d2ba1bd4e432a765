package modulation

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pedalboard/internal/testutil"
)

func TestTremoloDepthZeroIsTransparent(t *testing.T) {
	tremolo := NewTremolo()
	tremolo.SetDepth(0)
	tremolo.SetMix(1)

	in := testutil.DeterministicNoise(4, 1, 512)
	testutil.RequireSliceNearlyEqual(t, testutil.Run(tremolo.ProcessSample, in), in, 1e-12)
}

func TestTremoloModulationRange(t *testing.T) {
	tremolo := NewTremolo()
	tremolo.SetDepth(1)
	tremolo.SetMix(1)
	tremolo.SetRate(10)

	out := testutil.Run(tremolo.ProcessSample, testutil.DC(1, 4410))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range out {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo < 0 || lo > 1e-3 || hi > 1 || hi < 1-1e-3 {
		t.Fatalf("modulation range = [%v, %v], want about [0, 1]", lo, hi)
	}
}

func TestTremoloKnobMapping(t *testing.T) {
	tests := []struct {
		knob float64
		want float64
	}{
		{0, 0.4},
		{3, 0.6},
		{9, 1},
		{10, 1},
	}
	tremolo := NewTremolo()
	for _, tt := range tests {
		tremolo.SetParameter(tt.knob)
		if got := tremolo.Depth(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("SetParameter(%v): depth = %v, want %v", tt.knob, got, tt.want)
		}
	}
}

func TestTremoloResetRestoresPhase(t *testing.T) {
	tremolo := NewTremolo()
	in := testutil.DeterministicSine(100, 44100, 1, 2000)
	first := testutil.Run(tremolo.ProcessSample, in)
	tremolo.Reset()
	second := testutil.Run(tremolo.ProcessSample, in)
	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestTremoloVolumeScalesWet(t *testing.T) {
	tremolo := NewTremolo()
	tremolo.SetDepth(0)
	tremolo.SetMix(1)
	tremolo.SetVolume(2)
	if got := tremolo.ProcessSample(0.25); got != 0.5 {
		t.Fatalf("ProcessSample(0.25) = %v, want 0.5", got)
	}
	tremolo.SetVolume(9)
	if tremolo.Volume() != 2 {
		t.Fatalf("volume = %v, want clamp to 2", tremolo.Volume())
	}
}
