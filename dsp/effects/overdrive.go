package effects

import (
	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/effects/internal/fastmath"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
)

const (
	defaultOverdriveGain = 2.0
	defaultOverdriveMix  = 0.8

	minOverdriveGain = 0.1
	maxOverdriveGain = 8.0

	overdrivePreEmphasis   = 0.3
	overdrivePositiveDrive = 0.7
	overdriveNegativeDrive = 0.9
	overdriveSmoothing     = 0.3
	overdriveOutputLevel   = 0.6
)

// Overdrive is a tube-style soft clipper. Positive excursions are driven
// less hard than negative ones, which adds even harmonics.
type Overdrive struct {
	sampleRate float64

	gain   *param.Param
	mix    *param.Param
	params *param.Set

	lastInput  float64
	lastOutput float64
}

// NewOverdrive creates an overdrive at the nominal sample rate.
func NewOverdrive() *Overdrive {
	o := &Overdrive{
		sampleRate: core.NominalSampleRate,
		gain:       param.New("gain", minOverdriveGain, maxOverdriveGain, defaultOverdriveGain),
		mix:        param.New("mix", 0, 1, defaultOverdriveMix),
	}
	o.params = param.NewSet(o.gain, o.mix)
	return o
}

// Params returns the overdrive controls: gain and mix.
func (o *Overdrive) Params() *param.Set { return o.params }

// SetParameter maps a 0..10 drive knob to gain = 0.8*knob + 0.5.
func (o *Overdrive) SetParameter(knob float64) {
	o.gain.Set(knob*0.8 + 0.5)
}

// SetGain sets pre-saturation gain in [0.1, 8].
func (o *Overdrive) SetGain(gain float64) { o.gain.Set(gain) }

// SetMix sets wet amount in [0, 1].
func (o *Overdrive) SetMix(mix float64) { o.mix.Set(mix) }

// Gain returns pre-saturation gain.
func (o *Overdrive) Gain() float64 { return o.gain.Value() }

// Mix returns wet amount.
func (o *Overdrive) Mix() float64 { return o.mix.Value() }

// SampleRate returns sample rate in Hz.
func (o *Overdrive) SampleRate() float64 { return o.sampleRate }

// SetSampleRate updates sample rate and clears filter memory.
func (o *Overdrive) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate("overdrive", sampleRate); err != nil {
		return err
	}
	o.sampleRate = sampleRate
	o.Reset()
	return nil
}

// Reset clears pre-emphasis and smoothing memory.
func (o *Overdrive) Reset() {
	o.lastInput = 0
	o.lastOutput = 0
}

// ProcessSample processes one sample.
func (o *Overdrive) ProcessSample(input float64) float64 {
	gain := o.gain.Value()
	mix := o.mix.Value()

	emphasized := input + overdrivePreEmphasis*(input-o.lastInput)
	o.lastInput = input

	driven := emphasized * gain
	var shaped float64
	if driven > 0 {
		shaped = fastmath.Tanh(driven * overdrivePositiveDrive)
	} else {
		shaped = fastmath.Tanh(driven * overdriveNegativeDrive)
	}

	shaped = (1-overdriveSmoothing)*shaped + overdriveSmoothing*o.lastOutput
	o.lastOutput = core.FlushDenormals(shaped)

	return (1-mix)*input + mix*shaped*overdriveOutputLevel
}

// ProcessInPlace applies overdrive to buf in place.
func (o *Overdrive) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = o.ProcessSample(buf[i])
	}
}
