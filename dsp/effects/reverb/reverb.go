package reverb

import (
	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/delay"
	"github.com/cwbudde/algo-pedalboard/dsp/effects/internal/fastmath"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
)

const (
	defaultMix   = 0.5
	defaultDecay = 0.6
	defaultTone  = 0.5

	minDecay = 0.1
	maxDecay = 0.85

	inputDrive     = 0.8
	earlySend      = 0.3
	earlyScale     = 0.167
	earlyFeedback  = 0.15
	diffuseDry     = 0.4
	diffuseEarly   = 0.2
	diffusion      = 0.7
	lateSend       = 0.5
	lateScale      = 0.25
	lateFeedback   = 0.35
	toneSpan       = 0.6
	earlyWetWeight = 2.2
	lateWetWeight  = 1.8
	wetLevel       = 0.8
)

var (
	earlyDelaysMs = [...]float64{19.1, 22.6, 28.9, 35.8, 41.2, 47.3}
	earlyGains    = [...]float64{0.3, 0.25, 0.22, 0.18, 0.15, 0.12}
	lateDelaysMs  = [...]float64{89.6, 99.8, 111.3, 125.0}
)

// Reverb is a small algorithmic room.
//
// Six short feedback combs produce early reflections. Their sum and the dry
// input run through four one-sample allpass stages and feed four longer
// combs for the late tail, which is darkened by a one-pole low-pass. Decay
// scales every comb's feedback.
//
// The early combs keep the fixed gain table 0.3, 0.25, 0.22, 0.18, 0.15,
// 0.12 for every decay setting; a decay change never re-derives them as the
// linear ramp 0.3 - 0.03i.
type Reverb struct {
	sampleRate float64

	mix    *param.Param
	decay  *param.Param
	tone   *param.Param
	params *param.Set

	early   [len(earlyDelaysMs)]*delay.Line
	late    [len(lateDelaysMs)]*delay.Line
	allpass [4]float64
	lowpass float64
}

// NewReverb creates a reverb at the nominal sample rate.
func NewReverb() *Reverb {
	r := &Reverb{
		mix:   param.New("mix", 0, 1, defaultMix),
		decay: param.New("decay", minDecay, maxDecay, defaultDecay),
		tone:  param.New("tone", 0, 1, defaultTone),
	}
	r.params = param.NewSet(r.mix, r.decay, r.tone)
	for i := range r.early {
		r.early[i], _ = delay.New(1)
	}
	for i := range r.late {
		r.late[i], _ = delay.New(1)
	}
	_ = r.SetSampleRate(core.NominalSampleRate)
	return r
}

// Params returns the reverb controls: mix, decay and tone.
func (r *Reverb) Params() *param.Set { return r.params }

// SetParameter maps a 0..10 knob to mix = knob/10.
func (r *Reverb) SetParameter(knob float64) {
	r.mix.Set(knob * 0.1)
}

// SetMix sets wet amount in [0, 1].
func (r *Reverb) SetMix(mix float64) { r.mix.Set(mix) }

// SetDecay sets tail length in [0.1, 0.85].
func (r *Reverb) SetDecay(decay float64) { r.decay.Set(decay) }

// SetTone sets tail brightness in [0, 1]; 0 mutes the late tail.
func (r *Reverb) SetTone(tone float64) { r.tone.Set(tone) }

// Mix returns wet amount.
func (r *Reverb) Mix() float64 { return r.mix.Value() }

// Decay returns tail length.
func (r *Reverb) Decay() float64 { return r.decay.Value() }

// Tone returns tail brightness.
func (r *Reverb) Tone() float64 { return r.tone.Value() }

// SampleRate returns sample rate in Hz.
func (r *Reverb) SampleRate() float64 { return r.sampleRate }

// LineLens returns the early and late comb lengths in samples.
func (r *Reverb) LineLens() (early, late []int) {
	early = make([]int, len(r.early))
	for i, l := range r.early {
		early[i] = l.Len()
	}
	late = make([]int, len(r.late))
	for i, l := range r.late {
		late[i] = l.Len()
	}
	return early, late
}

// SetSampleRate reallocates every comb for sampleRate and clears filter state.
func (r *Reverb) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate("reverb", sampleRate); err != nil {
		return err
	}
	for i, ms := range earlyDelaysMs {
		if err := r.early[i].Resize(delay.SamplesFor(sampleRate, ms)); err != nil {
			return err
		}
	}
	for i, ms := range lateDelaysMs {
		if err := r.late[i].Resize(delay.SamplesFor(sampleRate, ms)); err != nil {
			return err
		}
	}
	r.sampleRate = sampleRate
	r.resetFilters()
	return nil
}

// Reset clears every comb and filter.
func (r *Reverb) Reset() {
	for _, l := range r.early {
		l.Reset()
	}
	for _, l := range r.late {
		l.Reset()
	}
	r.resetFilters()
}

func (r *Reverb) resetFilters() {
	r.allpass = [4]float64{}
	r.lowpass = 0
}

// earlyFeedbackFor returns the feedback of early comb i at decay.
func earlyFeedbackFor(i int, decay float64) float64 {
	return earlyGains[i] * decay * earlyFeedback
}

// ProcessSample processes one sample.
func (r *Reverb) ProcessSample(input float64) float64 {
	mix := r.mix.Value()
	decay := r.decay.Value()

	input = fastmath.Tanh(input * inputDrive)

	early := 0.0
	for i, l := range r.early {
		early += l.Recirculate(input*earlySend, earlyFeedbackFor(i, decay)) * earlyScale
	}

	diffused := input*diffuseDry + early*diffuseEarly
	g := diffusion * 0.5
	for i, state := range r.allpass {
		r.allpass[i] = core.FlushDenormals(diffused + state*g)
		diffused = state - diffused*g
	}

	late := 0.0
	fb := decay * lateFeedback
	for _, l := range r.late {
		late += l.Recirculate(diffused*lateSend, fb) * lateScale
	}

	alpha := 1 - r.tone.Value()*toneSpan
	r.lowpass = core.FlushDenormals(alpha*r.lowpass + (1-alpha)*late)

	wet := (early*earlyWetWeight + r.lowpass*lateWetWeight) * wetLevel
	return core.Clamp((1-mix)*input+mix*wet, -1, 1)
}

// ProcessInPlace applies reverb to buf in place.
func (r *Reverb) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = r.ProcessSample(buf[i])
	}
}
