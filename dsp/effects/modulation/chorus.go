package modulation

import (
	"math"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/delay"
	"github.com/cwbudde/algo-pedalboard/dsp/effects/internal/fastmath"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
)

const (
	defaultChorusRateHz   = 0.8
	defaultChorusDepthMs  = 5.0
	defaultChorusDelayMs  = 12.0
	defaultChorusFeedback = 0.0
	defaultChorusMix      = 0.25

	minChorusRateHz   = 0.1
	maxChorusRateHz   = 5.0
	maxChorusDepthMs  = 10.0
	minChorusDelayMs  = 5.0
	maxChorusDelayMs  = 30.0
	maxChorusFeedback = 0.3

	chorusBufferMs      = 50.0
	chorusInputDrive    = 0.95
	chorusInputLevel    = 0.8
	chorusFeedbackScale = 0.5
	chorusFeedbackDrive = 0.9
	chorusWetLevel      = 0.85
)

// Chorus is a single-voice modulated-delay chorus.
//
// Delay time follows:
//
//	d(t) = centre + depth * sin(phase)
//
// in milliseconds, read from a 50 ms circular buffer. The feedback write is
// soft-clipped and the output is clamped to [-1, 1].
type Chorus struct {
	sampleRate float64

	rate     *param.Param
	depth    *param.Param
	centre   *param.Param
	feedback *param.Param
	mix      *param.Param
	params   *param.Set

	lfoPhase float64
	line     *delay.Line
}

// NewChorus creates a chorus at the nominal sample rate.
func NewChorus() *Chorus {
	c := &Chorus{
		rate:     param.New("rate", minChorusRateHz, maxChorusRateHz, defaultChorusRateHz, param.WithUnit("Hz")),
		depth:    param.New("depth", 0, maxChorusDepthMs, defaultChorusDepthMs, param.WithUnit("ms")),
		centre:   param.New("delay", minChorusDelayMs, maxChorusDelayMs, defaultChorusDelayMs, param.WithUnit("ms")),
		feedback: param.New("feedback", 0, maxChorusFeedback, defaultChorusFeedback),
		mix:      param.New("mix", 0, 1, defaultChorusMix),
	}
	c.params = param.NewSet(c.rate, c.depth, c.centre, c.feedback, c.mix)
	c.line, _ = delay.New(1)
	_ = c.SetSampleRate(core.NominalSampleRate)
	return c
}

// Params returns the chorus controls: rate, depth, delay, feedback and mix.
func (c *Chorus) Params() *param.Set { return c.params }

// SetParameter maps a 0..10 knob to depth = 0.5*knob milliseconds.
func (c *Chorus) SetParameter(knob float64) {
	c.depth.Set(knob * 0.5)
}

// SetRate sets LFO rate in Hz, [0.1, 5].
func (c *Chorus) SetRate(hz float64) { c.rate.Set(hz) }

// SetDepth sets modulation depth in milliseconds, [0, 10].
func (c *Chorus) SetDepth(ms float64) { c.depth.Set(ms) }

// SetCentreDelay sets the centre delay in milliseconds, [5, 30].
func (c *Chorus) SetCentreDelay(ms float64) { c.centre.Set(ms) }

// SetFeedback sets feedback in [0, 0.3].
func (c *Chorus) SetFeedback(feedback float64) { c.feedback.Set(feedback) }

// SetMix sets wet amount in [0, 1].
func (c *Chorus) SetMix(mix float64) { c.mix.Set(mix) }

// Rate returns LFO rate in Hz.
func (c *Chorus) Rate() float64 { return c.rate.Value() }

// Depth returns modulation depth in milliseconds.
func (c *Chorus) Depth() float64 { return c.depth.Value() }

// CentreDelay returns the centre delay in milliseconds.
func (c *Chorus) CentreDelay() float64 { return c.centre.Value() }

// Feedback returns feedback amount.
func (c *Chorus) Feedback() float64 { return c.feedback.Value() }

// Mix returns wet amount.
func (c *Chorus) Mix() float64 { return c.mix.Value() }

// SampleRate returns sample rate in Hz.
func (c *Chorus) SampleRate() float64 { return c.sampleRate }

// BufferLen returns the delay buffer capacity in samples.
func (c *Chorus) BufferLen() int { return c.line.Len() }

// SetSampleRate reallocates the delay buffer for sampleRate and resets the LFO.
func (c *Chorus) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate("chorus", sampleRate); err != nil {
		return err
	}
	if err := c.line.Resize(delay.SamplesFor(sampleRate, chorusBufferMs) + 1); err != nil {
		return err
	}
	c.sampleRate = sampleRate
	c.lfoPhase = 0
	return nil
}

// Reset clears the delay buffer and LFO phase.
func (c *Chorus) Reset() {
	c.line.Reset()
	c.lfoPhase = 0
}

// ProcessSample processes one sample.
func (c *Chorus) ProcessSample(input float64) float64 {
	mix := c.mix.Value()

	input = fastmath.Tanh(input * chorusInputDrive)

	lfo := math.Sin(c.lfoPhase) * c.depth.Value()
	c.lfoPhase += 2 * math.Pi * c.rate.Value() / c.sampleRate
	if c.lfoPhase > 2*math.Pi {
		c.lfoPhase -= 2 * math.Pi
	}

	delaySamples := int((c.centre.Value() + lfo) * c.sampleRate / 1000)
	delaySamples = min(max(delaySamples, 1), c.line.Len()-1)

	delayed := c.line.Read(delaySamples)
	c.line.Write(fastmath.Tanh((input*chorusInputLevel + delayed*c.feedback.Value()*chorusFeedbackScale) * chorusFeedbackDrive))

	wet := delayed * chorusWetLevel
	return core.Clamp((1-mix)*input+mix*wet, -1, 1)
}

// ProcessInPlace applies chorus to buf in place.
func (c *Chorus) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}
