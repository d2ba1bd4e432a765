package measure

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
)

// ErrNoDecay is returned when a response never falls far enough for a
// reverberation time estimate.
var ErrNoDecay = errors.New("measure: insufficient decay")

const schroederFloorDB = -200

// DecayMetrics describes how a pedal's impulse response dies away.
type DecayMetrics struct {
	EDT        float64 // Early decay time in seconds, 0 to -10 dB extrapolated
	RT60       float64 // Seconds to fall 60 dB, from the -5 to -25 dB slope
	CenterTime float64 // Energy centroid in seconds
	Energy     float64 // Total energy from the peak on
	PeakIndex  int
}

// Decay analyses an impulse response recorded at sampleRate.
// RT60 is 0 when the response does not reach -25 dB.
func Decay(response []float64, sampleRate float64) (DecayMetrics, error) {
	if len(response) == 0 {
		return DecayMetrics{}, ErrEmptySignal
	}
	if err := core.ValidateSampleRate("measure", sampleRate); err != nil {
		return DecayMetrics{}, err
	}

	_, peak := Peak(response)
	tail := response[peak:]

	curve, total := Schroeder(tail)
	m := DecayMetrics{
		PeakIndex:  peak,
		Energy:     total,
		EDT:        slopeTime(curve, 0, -10, sampleRate),
		RT60:       slopeTime(curve, -5, -25, sampleRate),
		CenterTime: centerTime(tail, total, sampleRate),
	}
	if m.EDT == 0 && m.RT60 == 0 {
		return m, ErrNoDecay
	}

	return m, nil
}

// Schroeder returns the backward-integrated energy decay curve of response
// in dB relative to its total energy, and that total.
func Schroeder(response []float64) ([]float64, float64) {
	curve := make([]float64, len(response))

	var sum float64
	for i := len(response) - 1; i >= 0; i-- {
		sum += response[i] * response[i]
		curve[i] = sum
	}

	if sum <= 0 {
		for i := range curve {
			curve[i] = schroederFloorDB
		}
		return curve, 0
	}

	for i, v := range curve {
		if v <= 0 {
			curve[i] = schroederFloorDB
			continue
		}
		curve[i] = 10 * math.Log10(v/sum)
	}

	return curve, sum
}

// slopeTime fits a line to curve between startDB and endDB and returns the
// time it would take to fall 60 dB at that slope.
func slopeTime(curve []float64, startDB, endDB, sampleRate float64) float64 {
	start, end := -1, -1
	for i, v := range curve {
		if start < 0 && v <= startDB {
			start = i
		}
		if start >= 0 && v <= endDB {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64
	for i := start; i <= end; i++ {
		x := float64(i - start)
		y := curve[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	n := float64(end - start + 1)
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	slope := (n*sumXY - sumX*sumY) / denom // dB per sample
	if slope >= 0 {
		return 0
	}

	return -60 / (slope * sampleRate)
}

func centerTime(response []float64, total, sampleRate float64) float64 {
	if total <= 0 {
		return 0
	}

	var weighted float64
	for i, v := range response {
		weighted += float64(i) * v * v
	}

	return weighted / total / sampleRate
}
