package dynamics

import (
	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/effects/internal/fastmath"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
)

const (
	defaultThreshold = 0.5
	defaultRatio     = 4.0
	defaultAttack    = 0.003
	defaultRelease   = 0.1
	defaultMakeup    = 2.0

	minThreshold = 0.1
	maxThreshold = 0.9
	minRatio     = 1.0
	maxRatio     = 10.0
	minAttack    = 0.001
	maxAttack    = 0.1
	minRelease   = 0.01
	maxRelease   = 1.0
	minMakeup    = 0.5
	maxMakeup    = 3.0
)

// CompressorMetrics holds metering information for display.
type CompressorMetrics struct {
	Envelope      float64 // Detector level (linear peak)
	GainReduction float64 // Applied gain before makeup, 1 = none
}

// Compressor is a feed-forward peak compressor.
//
// The detector tracks |x| with separate attack and release one-pole
// coefficients:
//
//	coef = 1 - exp(-1 / (time * sampleRate))
//
// Above the threshold T the level is reduced to T + (env-T)/ratio, and the
// result is scaled by makeup gain. Threshold is linear amplitude; attack
// and release are in seconds.
//
// Attack and release coefficients are recomputed on the control goroutine
// whenever the time constants change and are published atomically, so the
// audio goroutine never evaluates exp.
type Compressor struct {
	sampleRate float64

	threshold *param.Param
	ratio     *param.Param
	attack    *param.Param
	release   *param.Param
	makeup    *param.Param
	params    *param.Set

	attackCoeff  param.Float
	releaseCoeff param.Float

	envelope      float64
	meterEnvelope param.Float
	meterGain     param.Float
}

// NewCompressor creates a compressor at the nominal sample rate.
//
// Default parameters:
//   - Threshold: 0.5
//   - Ratio: 4:1
//   - Attack: 3 ms
//   - Release: 100 ms
//   - Makeup: 2x
func NewCompressor() *Compressor {
	c := &Compressor{sampleRate: core.NominalSampleRate}
	c.threshold = param.New("threshold", minThreshold, maxThreshold, defaultThreshold)
	c.ratio = param.New("ratio", minRatio, maxRatio, defaultRatio, param.WithUnit(":1"))
	c.attack = param.New("attack", minAttack, maxAttack, defaultAttack,
		param.WithUnit("s"),
		param.WithOnChange(func(v float64) { c.attackCoeff.Store(coefficient(v, c.sampleRate)) }))
	c.release = param.New("release", minRelease, maxRelease, defaultRelease,
		param.WithUnit("s"),
		param.WithOnChange(func(v float64) { c.releaseCoeff.Store(coefficient(v, c.sampleRate)) }))
	c.makeup = param.New("makeup", minMakeup, maxMakeup, defaultMakeup)
	c.params = param.NewSet(c.threshold, c.ratio, c.attack, c.release, c.makeup)

	c.updateCoefficients()
	c.meterGain.Store(1)

	return c
}

func coefficient(seconds, sampleRate float64) float64 {
	return 1 - fastmath.Exp(-1/(seconds*sampleRate))
}

func (c *Compressor) updateCoefficients() {
	c.attackCoeff.Store(coefficient(c.attack.Value(), c.sampleRate))
	c.releaseCoeff.Store(coefficient(c.release.Value(), c.sampleRate))
}

// Params returns the compressor controls: threshold, ratio, attack, release
// and makeup.
func (c *Compressor) Params() *param.Set { return c.params }

// SetParameter maps a 0..10 knob to threshold = 0.1 + 0.08*knob.
func (c *Compressor) SetParameter(knob float64) {
	c.threshold.Set(minThreshold + knob/10*(maxThreshold-minThreshold))
}

// SetThreshold sets the linear threshold in [0.1, 0.9].
func (c *Compressor) SetThreshold(threshold float64) { c.threshold.Set(threshold) }

// SetRatio sets the compression ratio in [1, 10].
func (c *Compressor) SetRatio(ratio float64) { c.ratio.Set(ratio) }

// SetAttack sets the attack time in seconds, [0.001, 0.1].
func (c *Compressor) SetAttack(seconds float64) { c.attack.Set(seconds) }

// SetRelease sets the release time in seconds, [0.01, 1].
func (c *Compressor) SetRelease(seconds float64) { c.release.Set(seconds) }

// SetMakeupGain sets linear makeup gain in [0.5, 3].
func (c *Compressor) SetMakeupGain(gain float64) { c.makeup.Set(gain) }

// Threshold returns the linear threshold.
func (c *Compressor) Threshold() float64 { return c.threshold.Value() }

// Ratio returns the compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio.Value() }

// Attack returns the attack time in seconds.
func (c *Compressor) Attack() float64 { return c.attack.Value() }

// Release returns the release time in seconds.
func (c *Compressor) Release() float64 { return c.release.Value() }

// MakeupGain returns linear makeup gain.
func (c *Compressor) MakeupGain() float64 { return c.makeup.Value() }

// SampleRate returns sample rate in Hz.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }

// SetSampleRate updates sample rate, recalculates time constants and
// resets the detector.
func (c *Compressor) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate("compressor", sampleRate); err != nil {
		return err
	}
	c.sampleRate = sampleRate
	c.updateCoefficients()
	c.Reset()
	return nil
}

// Reset clears the envelope follower.
func (c *Compressor) Reset() {
	c.envelope = 0
	c.meterEnvelope.Store(0)
	c.meterGain.Store(1)
}

// Metrics returns the most recent detector state. Safe to call from any
// goroutine.
func (c *Compressor) Metrics() CompressorMetrics {
	return CompressorMetrics{
		Envelope:      c.meterEnvelope.Load(),
		GainReduction: c.meterGain.Load(),
	}
}

// ProcessSample processes one sample.
func (c *Compressor) ProcessSample(input float64) float64 {
	level := input
	if level < 0 {
		level = -level
	}

	if level > c.envelope {
		c.envelope += (level - c.envelope) * c.attackCoeff.Load()
	} else {
		c.envelope += (level - c.envelope) * c.releaseCoeff.Load()
	}
	c.envelope = core.FlushDenormals(c.envelope)

	gain := 1.0
	if threshold := c.threshold.Value(); c.envelope > threshold {
		gain = (threshold + (c.envelope-threshold)/c.ratio.Value()) / c.envelope
	}

	c.meterEnvelope.Store(c.envelope)
	c.meterGain.Store(gain)

	return input * gain * c.makeup.Value()
}

// ProcessInPlace applies compression to buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}
