package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
	"github.com/cwbudde/algo-pedalboard/internal/testutil"
)

type pedal interface {
	ProcessSample(x float64) float64
	ProcessInPlace(buf []float64)
	SetParameter(knob float64)
	SetSampleRate(sampleRate float64) error
	SampleRate() float64
	Params() *param.Set
	Reset()
}

func pedals() map[string]func() pedal {
	return map[string]func() pedal{
		"overdrive":   func() pedal { return NewOverdrive() },
		"distortion":  func() pedal { return NewDistortion() },
		"bluesdriver": func() pedal { return NewBluesDriver() },
		"octave":      func() pedal { return NewOctave() },
	}
}

func TestPedalsStartAtNominalRate(t *testing.T) {
	for name, newPedal := range pedals() {
		if got := newPedal().SampleRate(); got != core.NominalSampleRate {
			t.Errorf("%s: SampleRate() = %v, want %v", name, got, core.NominalSampleRate)
		}
	}
}

func TestPedalsFiniteForExtremeSettings(t *testing.T) {
	in := append(testutil.DeterministicNoise(7, 1, 512), testutil.Extremes()...)

	for name, newPedal := range pedals() {
		t.Run(name, func(t *testing.T) {
			for _, corner := range []float64{0, 1} {
				p := newPedal()
				for _, prm := range p.Params().All() {
					prm.SetNormalized(corner)
				}
				testutil.RequireFinite(t, testutil.Run(p.ProcessSample, in))
			}
		})
	}
}

func TestPedalsKnobClamps(t *testing.T) {
	for name, newPedal := range pedals() {
		t.Run(name, func(t *testing.T) {
			p := newPedal()
			for _, knob := range []float64{-100, 0, 5, 10, 1e9, math.Inf(1), math.NaN()} {
				p.SetParameter(knob)
				for _, prm := range p.Params().All() {
					v := prm.Value()
					if v < prm.Min() || v > prm.Max() || math.IsNaN(v) {
						t.Fatalf("knob %v: %s = %v outside [%v, %v]", knob, prm.Name(), v, prm.Min(), prm.Max())
					}
				}
			}
		})
	}
}

func TestPedalsSnapshotRoundTrip(t *testing.T) {
	for name, newPedal := range pedals() {
		t.Run(name, func(t *testing.T) {
			a := newPedal()
			for i, prm := range a.Params().All() {
				prm.SetNormalized(0.1 + 0.2*float64(i))
			}

			b := newPedal()
			if n := b.Params().Apply(a.Params().Snapshot()); n != a.Params().Len() {
				t.Fatalf("Apply() = %d, want %d", n, a.Params().Len())
			}
			for _, prm := range a.Params().All() {
				got, err := b.Params().Value(prm.Name())
				if err != nil {
					t.Fatalf("Value(%q) error = %v", prm.Name(), err)
				}
				if got != prm.Value() {
					t.Fatalf("%s = %v, want %v", prm.Name(), got, prm.Value())
				}
			}
		})
	}
}

func TestPedalsRejectInvalidSampleRate(t *testing.T) {
	for name, newPedal := range pedals() {
		p := newPedal()
		for _, rate := range []float64{0, -48000, math.NaN(), math.Inf(1)} {
			err := p.SetSampleRate(rate)
			if !errors.Is(err, core.ErrInvalidSampleRate) {
				t.Fatalf("%s: SetSampleRate(%v) error = %v, want ErrInvalidSampleRate", name, rate, err)
			}
		}
		if p.SampleRate() != core.NominalSampleRate {
			t.Fatalf("%s: rate changed after rejected update: %v", name, p.SampleRate())
		}
	}
}

func TestPedalsProcessInPlaceMatchesProcessSample(t *testing.T) {
	in := testutil.DeterministicSine(220, 44100, 0.8, 256)

	for name, newPedal := range pedals() {
		t.Run(name, func(t *testing.T) {
			want := testutil.Run(newPedal().ProcessSample, in)

			got := make([]float64, len(in))
			copy(got, in)
			newPedal().ProcessInPlace(got)

			testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
		})
	}
}

func TestPedalsResetRestoresState(t *testing.T) {
	in := testutil.DeterministicNoise(3, 0.5, 128)

	for name, newPedal := range pedals() {
		t.Run(name, func(t *testing.T) {
			p := newPedal()
			first := testutil.Run(p.ProcessSample, in)
			p.Reset()
			second := testutil.Run(p.ProcessSample, in)
			testutil.RequireSliceNearlyEqual(t, second, first, 1e-12)
		})
	}
}

func TestPedalsSilenceInSilenceOut(t *testing.T) {
	for name, newPedal := range pedals() {
		out := testutil.Run(newPedal().ProcessSample, make([]float64, 256))
		for i, v := range out {
			if v != 0 {
				t.Fatalf("%s: sample %d = %v, want 0", name, i, v)
			}
		}
	}
}
