package measure

import (
	"math"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/window"
)

// HarmonicsResult summarises harmonic distortion relative to the fundamental.
type HarmonicsResult struct {
	FundamentalHz    float64
	FundamentalLevel float64
	Harmonics        []float64 // Level of harmonic k+2 relative to the fundamental
	THD              float64
	THDdB            float64
	OddHD            float64
	EvenHD           float64
}

// Harmonics measures up to count harmonics of fundamentalHz in signal.
// A non-positive fundamentalHz selects the strongest bin above 20 Hz.
func Harmonics(signal []float64, sampleRate, fundamentalHz float64, count int) (HarmonicsResult, error) {
	return HarmonicsWindow(signal, sampleRate, fundamentalHz, count, window.TypeHann)
}

// HarmonicsWindow is Harmonics with a chosen analysis window. Each
// harmonic's level is summed across the window's main lobe.
func HarmonicsWindow(signal []float64, sampleRate, fundamentalHz float64, count int, win window.Type) (HarmonicsResult, error) {
	if err := core.ValidateSampleRate("measure", sampleRate); err != nil {
		return HarmonicsResult{}, err
	}

	sp, err := AnalyzeWindow(signal, sampleRate, win)
	if err != nil {
		return HarmonicsResult{}, err
	}

	nyquist := len(sp.Magnitude) - 1

	var fundamental int
	if fundamentalHz > 0 {
		fundamental = sp.Bin(fundamentalHz)
	} else {
		fundamental = sp.PeakBin(20, sampleRate/2)
	}
	if fundamental < 1 {
		return HarmonicsResult{}, nil
	}

	capture := min(max(window.Info(win).MainLobeBins, 1), fundamental/2)
	res := HarmonicsResult{
		FundamentalHz:    float64(fundamental) * sp.BinHz,
		FundamentalLevel: sp.Level(fundamental, capture),
	}
	if res.FundamentalLevel <= 0 {
		return res, nil
	}

	var total, odd, even float64
	for k := 2; k < count+2; k++ {
		bin := k * fundamental
		if bin > nyquist {
			break
		}

		level := sp.Level(bin, capture) / res.FundamentalLevel
		res.Harmonics = append(res.Harmonics, level)
		total += level
		if k%2 == 0 {
			even += level
		} else {
			odd += level
		}
	}

	res.THD = total
	res.OddHD = odd
	res.EvenHD = even
	res.THDdB = math.Inf(-1)
	if total > 0 {
		res.THDdB = core.LinearToDB(total)
	}

	return res, nil
}
