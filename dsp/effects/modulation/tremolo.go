package modulation

import (
	"math"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
)

const (
	defaultTremoloRateHz = 5.0
	defaultTremoloDepth  = 0.8
	defaultTremoloMix    = 0.75
	defaultTremoloVolume = 1.0

	minTremoloRateHz = 0.1
	maxTremoloRateHz = 20.0
	maxTremoloVolume = 2.0
)

// Tremolo applies sinusoidal amplitude modulation between (1-depth) and 1.
type Tremolo struct {
	sampleRate float64

	rate   *param.Param
	depth  *param.Param
	mix    *param.Param
	volume *param.Param
	params *param.Set

	lfoPhase float64
}

// NewTremolo creates a tremolo at the nominal sample rate.
func NewTremolo() *Tremolo {
	t := &Tremolo{
		sampleRate: core.NominalSampleRate,
		rate:       param.New("rate", minTremoloRateHz, maxTremoloRateHz, defaultTremoloRateHz, param.WithUnit("Hz")),
		depth:      param.New("depth", 0, 1, defaultTremoloDepth),
		mix:        param.New("mix", 0, 1, defaultTremoloMix),
		volume:     param.New("volume", 0, maxTremoloVolume, defaultTremoloVolume),
	}
	t.params = param.NewSet(t.rate, t.depth, t.mix, t.volume)
	return t
}

// Params returns the tremolo controls: rate, depth, mix and volume.
func (t *Tremolo) Params() *param.Set { return t.params }

// SetParameter maps a 0..10 knob to depth = 0.4 + knob/15.
func (t *Tremolo) SetParameter(knob float64) {
	t.depth.Set(0.4 + knob/15)
}

// SetRate sets LFO rate in Hz, [0.1, 20].
func (t *Tremolo) SetRate(hz float64) { t.rate.Set(hz) }

// SetDepth sets modulation depth in [0, 1].
func (t *Tremolo) SetDepth(depth float64) { t.depth.Set(depth) }

// SetMix sets wet amount in [0, 1].
func (t *Tremolo) SetMix(mix float64) { t.mix.Set(mix) }

// SetVolume sets wet output level in [0, 2].
func (t *Tremolo) SetVolume(volume float64) { t.volume.Set(volume) }

// Rate returns LFO rate in Hz.
func (t *Tremolo) Rate() float64 { return t.rate.Value() }

// Depth returns modulation depth.
func (t *Tremolo) Depth() float64 { return t.depth.Value() }

// Mix returns wet amount.
func (t *Tremolo) Mix() float64 { return t.mix.Value() }

// Volume returns wet output level.
func (t *Tremolo) Volume() float64 { return t.volume.Value() }

// SampleRate returns sample rate in Hz.
func (t *Tremolo) SampleRate() float64 { return t.sampleRate }

// SetSampleRate updates sample rate and restarts the LFO.
func (t *Tremolo) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate("tremolo", sampleRate); err != nil {
		return err
	}
	t.sampleRate = sampleRate
	t.Reset()
	return nil
}

// Reset restarts the LFO at phase zero.
func (t *Tremolo) Reset() {
	t.lfoPhase = 0
}

// ProcessSample processes one sample.
func (t *Tremolo) ProcessSample(input float64) float64 {
	depth := t.depth.Value()
	mix := t.mix.Value()

	mod := (math.Sin(t.lfoPhase) + 1) / 2
	t.lfoPhase += 2 * math.Pi * t.rate.Value() / t.sampleRate
	if t.lfoPhase >= 2*math.Pi {
		t.lfoPhase -= 2 * math.Pi
	}

	trem := input * ((1 - depth) + mod*depth)
	return (1-mix)*input + mix*trem*t.volume.Value()
}

// ProcessInPlace applies tremolo to buf in place.
func (t *Tremolo) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = t.ProcessSample(buf[i])
	}
}
