package effects

import (
	"math"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/effects/internal/fastmath"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
)

const (
	defaultDistortionGain   = 3.5
	defaultDistortionTone   = 0.7
	defaultDistortionVolume = 0.5
	defaultDistortionMix    = 0.95

	minDistortionGain   = 0.5
	maxDistortionGain   = 6.0
	minDistortionVolume = 0.1
	maxDistortionVolume = 0.8

	distortionStage1Drive = 1.2
	distortionStage2Gain  = 2.0
	distortionKnee        = 0.8
	distortionKneeSlope   = 0.2
	distortionStage3Drive = 1.5
	distortionStage3Level = 0.8
	distortionLowPassPole = 0.4
	distortionHighPassTap = 0.8
	distortionBite        = 1.3
	distortionChaosDepth  = 0.1
	distortionChaosRate   = 50.0
)

// Distortion is an aggressive three-stage clipper: tanh overdrive, a hard
// clip with a soft knee at ±0.8, and tanh saturation, followed by a tilt
// tone network and a small sinusoidal self-modulation.
type Distortion struct {
	sampleRate float64

	gain   *param.Param
	tone   *param.Param
	volume *param.Param
	mix    *param.Param
	params *param.Set

	lastLowPass  float64
	lastHighPass float64
}

// NewDistortion creates a distortion at the nominal sample rate.
func NewDistortion() *Distortion {
	d := &Distortion{
		sampleRate: core.NominalSampleRate,
		gain:       param.New("gain", minDistortionGain, maxDistortionGain, defaultDistortionGain),
		tone:       param.New("tone", 0, 1, defaultDistortionTone),
		volume:     param.New("volume", minDistortionVolume, maxDistortionVolume, defaultDistortionVolume),
		mix:        param.New("mix", 0, 1, defaultDistortionMix),
	}
	d.params = param.NewSet(d.gain, d.tone, d.volume, d.mix)
	return d
}

// Params returns the distortion controls: gain, tone, volume and mix.
func (d *Distortion) Params() *param.Set { return d.params }

// SetParameter maps a 0..10 gain knob to gain = 0.8*knob + 1.5.
func (d *Distortion) SetParameter(knob float64) {
	d.gain.Set(knob*0.8 + 1.5)
}

// SetGain sets pre-clip gain in [0.5, 6].
func (d *Distortion) SetGain(gain float64) { d.gain.Set(gain) }

// SetTone blends low-pass (0) to high-pass bite (1).
func (d *Distortion) SetTone(tone float64) { d.tone.Set(tone) }

// SetVolume sets wet output level in [0.1, 0.8].
func (d *Distortion) SetVolume(volume float64) { d.volume.Set(volume) }

// SetMix sets wet amount in [0, 1].
func (d *Distortion) SetMix(mix float64) { d.mix.Set(mix) }

// Gain returns pre-clip gain.
func (d *Distortion) Gain() float64 { return d.gain.Value() }

// Tone returns the tone blend.
func (d *Distortion) Tone() float64 { return d.tone.Value() }

// Volume returns wet output level.
func (d *Distortion) Volume() float64 { return d.volume.Value() }

// Mix returns wet amount.
func (d *Distortion) Mix() float64 { return d.mix.Value() }

// SampleRate returns sample rate in Hz.
func (d *Distortion) SampleRate() float64 { return d.sampleRate }

// SetSampleRate updates sample rate and clears the tone network.
func (d *Distortion) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate("distortion", sampleRate); err != nil {
		return err
	}
	d.sampleRate = sampleRate
	d.Reset()
	return nil
}

// Reset clears tone network memory.
func (d *Distortion) Reset() {
	d.lastLowPass = 0
	d.lastHighPass = 0
}

// ProcessSample processes one sample.
func (d *Distortion) ProcessSample(input float64) float64 {
	tone := d.tone.Value()
	mix := d.mix.Value()

	stage1 := fastmath.Tanh(input * d.gain.Value() * distortionStage1Drive)

	stage2 := stage1 * distortionStage2Gain
	if stage2 > distortionKnee {
		stage2 = distortionKnee + (stage2-distortionKnee)*distortionKneeSlope
	} else if stage2 < -distortionKnee {
		stage2 = -distortionKnee + (stage2+distortionKnee)*distortionKneeSlope
	}

	stage3 := fastmath.Tanh(stage2*distortionStage3Drive) * distortionStage3Level

	lowPass := (1-distortionLowPassPole)*stage3 + distortionLowPassPole*d.lastLowPass
	d.lastLowPass = core.FlushDenormals(lowPass)

	highPass := stage3 - distortionHighPassTap*d.lastHighPass
	d.lastHighPass = stage3

	toned := tone*(highPass*distortionBite) + (1-tone)*lowPass
	distorted := toned * (1 + distortionChaosDepth*math.Sin(toned*distortionChaosRate))

	return (1-mix)*input + mix*distorted*d.volume.Value()
}

// ProcessInPlace applies distortion to buf in place.
func (d *Distortion) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}
