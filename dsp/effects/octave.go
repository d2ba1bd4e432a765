package effects

import (
	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/delay"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
)

const (
	defaultOctaveBlend = 0.5
	defaultOctaveTone  = 0.3
	defaultOctaveLevel = 1.0

	maxOctaveTone  = 0.9
	maxOctaveLevel = 2.0

	octaveHistoryMs = 100.0
)

// Octave generates a sub-octave with a flip-flop divider: the polarity flag
// toggles on every rising zero crossing, so it completes one cycle per two
// input cycles. The divided signal is smoothed by a one-pole low-pass and
// blended with the dry input.
type Octave struct {
	sampleRate float64

	blend  *param.Param
	tone   *param.Param
	level  *param.Param
	params *param.Set

	history      *delay.Line
	phase        float64
	lastInput    float64
	lastFiltered float64
}

// NewOctave creates an octave divider at the nominal sample rate.
func NewOctave() *Octave {
	o := &Octave{
		blend: param.New("blend", 0, 1, defaultOctaveBlend),
		tone:  param.New("tone", 0, maxOctaveTone, defaultOctaveTone),
		level: param.New("level", 0, maxOctaveLevel, defaultOctaveLevel),
	}
	o.params = param.NewSet(o.blend, o.tone, o.level)
	o.history, _ = delay.New(1)
	_ = o.SetSampleRate(core.NominalSampleRate)
	return o
}

// Params returns the octave controls: blend, tone and level.
func (o *Octave) Params() *param.Set { return o.params }

// SetParameter maps a 0..10 blend knob to blend = knob/10.
func (o *Octave) SetParameter(knob float64) {
	o.blend.Set(knob / 10)
}

// SetBlend sets the octave share of the output in [0, 1].
func (o *Octave) SetBlend(blend float64) { o.blend.Set(blend) }

// SetTone sets the octave low-pass pole in [0, 0.9]; higher is darker.
func (o *Octave) SetTone(tone float64) { o.tone.Set(tone) }

// SetLevel sets the octave signal level in [0, 2].
func (o *Octave) SetLevel(level float64) { o.level.Set(level) }

// Blend returns the octave share of the output.
func (o *Octave) Blend() float64 { return o.blend.Value() }

// Tone returns the octave low-pass pole.
func (o *Octave) Tone() float64 { return o.tone.Value() }

// Level returns the octave signal level.
func (o *Octave) Level() float64 { return o.level.Value() }

// SampleRate returns sample rate in Hz.
func (o *Octave) SampleRate() float64 { return o.sampleRate }

// HistoryLen returns the input history capacity in samples.
func (o *Octave) HistoryLen() int { return o.history.Len() }

// History returns the input sample seen delay samples ago.
func (o *Octave) History(delay int) float64 { return o.history.Read(delay) }

// SetSampleRate resizes the 100 ms input history and resets the divider.
func (o *Octave) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate("octave", sampleRate); err != nil {
		return err
	}
	if err := o.history.Resize(delay.SamplesFor(sampleRate, octaveHistoryMs)); err != nil {
		return err
	}
	o.sampleRate = sampleRate
	o.resetDivider()
	return nil
}

// Reset clears history and divider state.
func (o *Octave) Reset() {
	o.history.Reset()
	o.resetDivider()
}

func (o *Octave) resetDivider() {
	o.phase = 0
	o.lastInput = 0
	o.lastFiltered = 0
}

// ProcessSample processes one sample.
func (o *Octave) ProcessSample(input float64) float64 {
	blend := o.blend.Value()
	tone := o.tone.Value()

	o.history.Write(input)

	// Flip only on rising crossings. Flipping on every sign change would
	// full-wave rectify the input (an octave up) instead of dividing it.
	if o.lastInput <= 0 && input > 0 {
		if o.phase > 0 {
			o.phase = -1
		} else {
			o.phase = 1
		}
	}
	o.lastInput = input

	divided := input * o.phase * o.level.Value()
	filtered := divided*(1-tone) + o.lastFiltered*tone
	o.lastFiltered = core.FlushDenormals(filtered)

	return input*(1-blend) + filtered*blend
}

// ProcessInPlace applies the octave divider to buf in place.
func (o *Octave) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = o.ProcessSample(buf[i])
	}
}
