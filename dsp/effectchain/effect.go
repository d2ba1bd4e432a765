package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-pedalboard/dsp/param"
)

// Effect is a single-sample pedal processor.
type Effect interface {
	// ProcessSample consumes one input sample and returns one output sample.
	// It never allocates, blocks or panics.
	ProcessSample(x float64) float64
	// SetParameter maps a 0..10 knob onto the pedal's main control.
	SetParameter(knob float64)
	// SetSampleRate resets state and resizes time-based buffers.
	SetSampleRate(sampleRate float64) error
	// Params exposes the pedal's named controls.
	Params() *param.Set
	// Reset clears DSP state and keeps parameter values.
	Reset()
}

// Category fixes where a pedal sits in the chain.
type Category int

// Categories in processing order.
const (
	Modulation Category = iota
	Distortion
	TimeBased
)

const (
	modulationAttenuation = 0.9
	distortionAttenuation = 0.8
	timeBasedAttenuation  = 0.85
)

// Attenuation returns the gain applied after each enabled pedal of c.
func (c Category) Attenuation() float64 {
	switch c {
	case Modulation:
		return modulationAttenuation
	case Distortion:
		return distortionAttenuation
	case TimeBased:
		return timeBasedAttenuation
	default:
		return 1
	}
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	return c >= Modulation && c <= TimeBased
}

func (c Category) String() string {
	switch c {
	case Modulation:
		return "modulation"
	case Distortion:
		return "distortion"
	case TimeBased:
		return "time-based"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}
