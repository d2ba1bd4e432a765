package effects

import (
	"math"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/effects/internal/fastmath"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
)

const (
	defaultBluesGain   = 2.2
	defaultBluesTone   = 0.65
	defaultBluesVolume = 0.6
	defaultBluesMix    = 0.85

	minBluesGain   = 0.5
	maxBluesGain   = 4.0
	minBluesVolume = 0.1
	maxBluesVolume = 0.7

	bluesPreEmphasis   = 0.4
	bluesPositiveDrive = 0.7
	bluesPositiveLevel = 0.85
	bluesNegativeDrive = 1.3
	bluesNegativeLevel = 0.75
	bluesSecondHarm    = 0.15
	bluesBassCut       = 0.3
	bluesMidLevel      = 0.7
	bluesTrebleLevel   = 1.2
	bluesKnee          = 0.4
	bluesEvenHarm      = 0.05
)

// BluesDriver models a transparent blues overdrive: asymmetric tube-style
// clipping, an added second harmonic, a bass/mid/treble tone stack and a
// soft-knee output compressor.
type BluesDriver struct {
	sampleRate float64

	gain   *param.Param
	tone   *param.Param
	volume *param.Param
	mix    *param.Param
	params *param.Set

	lastInput float64
}

// NewBluesDriver creates a blues driver at the nominal sample rate.
func NewBluesDriver() *BluesDriver {
	b := &BluesDriver{
		sampleRate: core.NominalSampleRate,
		gain:       param.New("gain", minBluesGain, maxBluesGain, defaultBluesGain),
		tone:       param.New("tone", 0, 1, defaultBluesTone),
		volume:     param.New("volume", minBluesVolume, maxBluesVolume, defaultBluesVolume),
		mix:        param.New("mix", 0, 1, defaultBluesMix),
	}
	b.params = param.NewSet(b.gain, b.tone, b.volume, b.mix)
	return b
}

// Params returns the blues driver controls: gain, tone, volume and mix.
func (b *BluesDriver) Params() *param.Set { return b.params }

// SetParameter maps a 0..10 gain knob to gain = 0.4*knob + 1.2.
func (b *BluesDriver) SetParameter(knob float64) {
	b.gain.Set(knob*0.4 + 1.2)
}

// SetGain sets drive in [0.5, 4].
func (b *BluesDriver) SetGain(gain float64) { b.gain.Set(gain) }

// SetTone sets treble presence in [0, 1].
func (b *BluesDriver) SetTone(tone float64) { b.tone.Set(tone) }

// SetVolume sets wet output level in [0.1, 0.7].
func (b *BluesDriver) SetVolume(volume float64) { b.volume.Set(volume) }

// SetMix sets wet amount in [0, 1].
func (b *BluesDriver) SetMix(mix float64) { b.mix.Set(mix) }

// Gain returns drive.
func (b *BluesDriver) Gain() float64 { return b.gain.Value() }

// Tone returns treble presence.
func (b *BluesDriver) Tone() float64 { return b.tone.Value() }

// Volume returns wet output level.
func (b *BluesDriver) Volume() float64 { return b.volume.Value() }

// Mix returns wet amount.
func (b *BluesDriver) Mix() float64 { return b.mix.Value() }

// SampleRate returns sample rate in Hz.
func (b *BluesDriver) SampleRate() float64 { return b.sampleRate }

// SetSampleRate updates sample rate and clears pre-emphasis memory.
func (b *BluesDriver) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate("blues driver", sampleRate); err != nil {
		return err
	}
	b.sampleRate = sampleRate
	b.Reset()
	return nil
}

// Reset clears pre-emphasis memory.
func (b *BluesDriver) Reset() {
	b.lastInput = 0
}

// ProcessSample processes one sample.
func (b *BluesDriver) ProcessSample(input float64) float64 {
	tone := b.tone.Value()
	mix := b.mix.Value()

	emphasized := input + bluesPreEmphasis*(input-b.lastInput)
	b.lastInput = input

	driven := emphasized * b.gain.Value()
	var shaped float64
	if driven > 0 {
		shaped = fastmath.Tanh(driven*bluesPositiveDrive) * bluesPositiveLevel
	} else {
		shaped = fastmath.Tanh(driven*bluesNegativeDrive) * bluesNegativeLevel
	}
	shaped += shaped * shaped * bluesSecondHarm

	bass := shaped * (1 - tone*bluesBassCut)
	mid := shaped * bluesMidLevel
	treble := shaped * tone * bluesTrebleLevel
	toned := bass + mid + treble

	compressed := toned / (1 + math.Abs(toned)*bluesKnee)
	enhanced := compressed * (1 + bluesEvenHarm*compressed*compressed)

	return (1-mix)*input + mix*enhanced*b.volume.Value()
}

// ProcessInPlace applies the blues driver to buf in place.
func (b *BluesDriver) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = b.ProcessSample(buf[i])
	}
}
