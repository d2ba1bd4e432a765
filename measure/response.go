package measure

import (
	"errors"
	"math"
)

// ErrEmptySignal is returned when an analysis receives no samples.
var ErrEmptySignal = errors.New("measure: signal is empty")

// Processor is anything that maps one sample to one sample.
type Processor interface {
	ProcessSample(x float64) float64
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(x float64) float64

// ProcessSample calls f(x).
func (f ProcessorFunc) ProcessSample(x float64) float64 { return f(x) }

// Run feeds in through p and returns a new output slice.
func Run(p Processor, in []float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = p.ProcessSample(x)
	}

	return out
}

// ImpulseResponse returns the first n output samples for a unit impulse.
func ImpulseResponse(p Processor, n int) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		x := 0.0
		if i == 0 {
			x = 1
		}
		out[i] = p.ProcessSample(x)
	}

	return out
}

// StepResponse returns the first n output samples for a step of amplitude a.
func StepResponse(p Processor, a float64, n int) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		out[i] = p.ProcessSample(a)
	}

	return out
}

// TailLength returns the number of samples up to and including the last one
// whose magnitude exceeds threshold. A silent response has length 0.
func TailLength(response []float64, threshold float64) int {
	for i := len(response) - 1; i >= 0; i-- {
		if math.Abs(response[i]) > threshold {
			return i + 1
		}
	}

	return 0
}

// TailEnergy sums the squared samples whose magnitude exceeds threshold.
func TailEnergy(response []float64, threshold float64) float64 {
	var e float64
	for _, v := range response {
		if math.Abs(v) > threshold {
			e += v * v
		}
	}

	return e
}

// Peak returns the largest magnitude in response and its index.
func Peak(response []float64) (float64, int) {
	peak, idx := 0.0, 0
	for i, v := range response {
		if a := math.Abs(v); a > peak {
			peak, idx = a, i
		}
	}

	return peak, idx
}
