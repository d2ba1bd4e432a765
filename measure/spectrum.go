package measure

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pedalboard/dsp/window"
)

// Spectrum is the single-sided magnitude spectrum of a windowed signal.
type Spectrum struct {
	Magnitude  []float64 // Bins 0..N/2
	BinHz      float64
	SampleRate float64
	FFTSize    int
	Window     window.Type
}

// Analyze computes the Hann-windowed spectrum of signal, zero-padded to
// the next power of two.
func Analyze(signal []float64, sampleRate float64) (*Spectrum, error) {
	return AnalyzeWindow(signal, sampleRate, window.TypeHann)
}

// AnalyzeWindow is Analyze with a chosen analysis window.
func AnalyzeWindow(signal []float64, sampleRate float64, win window.Type) (*Spectrum, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	size := nextPowerOf2(len(signal))
	if size < 2 {
		size = 2
	}

	windowed := append([]float64(nil), signal...)
	window.Apply(win, windowed, window.WithPeriodic())

	in := make([]complex128, size)
	for i, x := range windowed {
		in[i] = complex(x, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("measure: fft plan: %w", err)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("measure: fft: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return &Spectrum{
		Magnitude:  mag,
		BinHz:      sampleRate / float64(size),
		SampleRate: sampleRate,
		FFTSize:    size,
		Window:     win,
	}, nil
}

// Bin returns the bin index nearest hz, clamped to the spectrum.
func (s *Spectrum) Bin(hz float64) int {
	bin := int(math.Round(hz / s.BinHz))
	return min(max(bin, 0), len(s.Magnitude)-1)
}

// Level sums magnitudes within capture bins of bin.
func (s *Spectrum) Level(bin, capture int) float64 {
	lo := max(bin-capture, 0)
	hi := min(bin+capture, len(s.Magnitude)-1)

	var sum float64
	for i := lo; i <= hi; i++ {
		sum += s.Magnitude[i]
	}

	return sum
}

// PeakBin returns the strongest bin between loHz and hiHz.
func (s *Spectrum) PeakBin(loHz, hiHz float64) int {
	lo, hi := s.Bin(loHz), s.Bin(hiHz)
	best, bestVal := lo, -1.0
	for i := lo; i <= hi; i++ {
		if s.Magnitude[i] > bestVal {
			best, bestVal = i, s.Magnitude[i]
		}
	}

	return best
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
