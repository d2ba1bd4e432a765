package measure

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pedalboard/dsp/effects"
	"github.com/cwbudde/algo-pedalboard/dsp/window"
)

func sine(freq, sampleRate, amp float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}

	return out
}

func TestAnalyzeFindsTone(t *testing.T) {
	t.Parallel()

	const fs = 48000
	sp, err := Analyze(sine(375, fs, 1, 4096), fs)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if sp.FFTSize != 4096 || len(sp.Magnitude) != 2049 {
		t.Fatalf("size = %d, bins = %d", sp.FFTSize, len(sp.Magnitude))
	}
	if got := sp.PeakBin(20, 20000); got != 32 {
		t.Fatalf("PeakBin() = %d, want 32", got)
	}
	if _, err := Analyze(nil, fs); err == nil {
		t.Fatal("expected error for empty signal")
	}
}

func TestHarmonicsPureSine(t *testing.T) {
	t.Parallel()

	res, err := Harmonics(sine(375, 48000, 0.5, 4096), 48000, 375, 5)
	if err != nil {
		t.Fatalf("Harmonics() error = %v", err)
	}
	if math.Abs(res.FundamentalHz-375) > 1e-9 {
		t.Fatalf("fundamental = %v", res.FundamentalHz)
	}
	if res.THD > 1e-3 {
		t.Fatalf("THD of a pure sine = %v", res.THD)
	}
	if len(res.Harmonics) != 5 {
		t.Fatalf("harmonics = %v", res.Harmonics)
	}
}

func TestHarmonicsSymmetricClipperIsOdd(t *testing.T) {
	t.Parallel()

	in := sine(375, 48000, 1, 4096)
	for i, x := range in {
		in[i] = math.Tanh(3 * x)
	}

	res, err := Harmonics(in, 48000, 0, 6)
	if err != nil {
		t.Fatalf("Harmonics() error = %v", err)
	}
	if res.THD < 0.05 {
		t.Fatalf("THD = %v, want audible distortion", res.THD)
	}
	if res.OddHD < 10*res.EvenHD {
		t.Fatalf("odd %v should dominate even %v", res.OddHD, res.EvenHD)
	}
}

func TestHarmonicsWindows(t *testing.T) {
	t.Parallel()

	pure := sine(375, 48000, 0.5, 4096)
	clipped := sine(375, 48000, 1, 4096)
	for i, x := range clipped {
		clipped[i] = math.Tanh(3 * x)
	}

	for _, win := range []window.Type{window.TypeRectangular, window.TypeHann, window.TypeBlackman, window.TypeFlatTop} {
		t.Run(win.String(), func(t *testing.T) {
			t.Parallel()

			res, err := HarmonicsWindow(pure, 48000, 375, 5, win)
			if err != nil {
				t.Fatalf("HarmonicsWindow() error = %v", err)
			}
			if res.THD > 1e-3 {
				t.Fatalf("THD of a pure sine = %v", res.THD)
			}

			res, err = HarmonicsWindow(clipped, 48000, 375, 6, win)
			if err != nil {
				t.Fatalf("HarmonicsWindow() error = %v", err)
			}
			if res.THD < 0.05 || res.OddHD < 10*res.EvenHD {
				t.Fatalf("clipped sine: THD %v odd %v even %v", res.THD, res.OddHD, res.EvenHD)
			}
		})
	}
}

func TestAnalyzeRecordsWindow(t *testing.T) {
	t.Parallel()

	sp, err := AnalyzeWindow(sine(375, 48000, 1, 1024), 48000, window.TypeFlatTop)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Window != window.TypeFlatTop {
		t.Fatalf("Window = %v, want FlatTop", sp.Window)
	}
	sp, _ = Analyze(sine(375, 48000, 1, 1024), 48000)
	if sp.Window != window.TypeHann {
		t.Fatalf("default Window = %v, want Hann", sp.Window)
	}
}

func TestHarmonicsOverdriveAddsEvenHarmonics(t *testing.T) {
	t.Parallel()

	o := effects.NewOverdrive()
	o.SetMix(1)
	o.SetParameter(8)

	res, err := Harmonics(Run(o, sine(375, 44100, 0.8, 8192)), 44100, 375, 6)
	if err != nil {
		t.Fatalf("Harmonics() error = %v", err)
	}
	if res.EvenHD <= 1e-3 {
		t.Fatalf("asymmetric clipper produced no even harmonics: %+v", res)
	}
}
