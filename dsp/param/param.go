package param

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
)

// Float is an atomic float64 for values derived from parameters, such as
// filter coefficients shared with the audio goroutine.
type Float struct {
	bits atomic.Uint64
}

// Load returns the stored value.
func (f *Float) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Store replaces the stored value.
func (f *Float) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Option configures a Param at construction.
type Option func(*Param)

// WithUnit attaches a display unit such as "ms" or "Hz".
func WithUnit(unit string) Option {
	return func(p *Param) { p.unit = unit }
}

// WithOnChange registers fn to run on the writing goroutine after every
// successful Set. Effects use it to refresh derived coefficients.
func WithOnChange(fn func(v float64)) Option {
	return func(p *Param) { p.onChange = fn }
}

// Param is a named float64 with a fixed valid range.
type Param struct {
	name     string
	unit     string
	min      float64
	max      float64
	def      float64
	value    Float
	onChange func(v float64)
}

// New creates a parameter holding def clamped into [min, max].
func New(name string, min, max, def float64, opts ...Option) *Param {
	if min > max {
		min, max = max, min
	}

	p := &Param{
		name: name,
		min:  min,
		max:  max,
		def:  core.Clamp(def, min, max),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.value.Store(p.def)

	return p
}

// Name returns the snapshot key.
func (p *Param) Name() string { return p.name }

// Unit returns the display unit, possibly empty.
func (p *Param) Unit() string { return p.unit }

// Min returns the lower bound.
func (p *Param) Min() float64 { return p.min }

// Max returns the upper bound.
func (p *Param) Max() float64 { return p.max }

// Default returns the construction value.
func (p *Param) Default() float64 { return p.def }

// Value returns the current value. Safe to call from the audio goroutine.
func (p *Param) Value() float64 {
	return p.value.Load()
}

// Set clamps v into range, stores it and returns the stored value.
// A NaN write leaves the value unchanged.
func (p *Param) Set(v float64) float64 {
	if math.IsNaN(v) {
		return p.Value()
	}

	v = core.Clamp(v, p.min, p.max)
	p.value.Store(v)
	if p.onChange != nil {
		p.onChange(v)
	}

	return v
}

// SetNormalized maps n in [0, 1] linearly onto the range.
func (p *Param) SetNormalized(n float64) float64 {
	if math.IsNaN(n) {
		return p.Value()
	}

	n = core.Clamp(n, 0, 1)

	return p.Set(p.min + n*(p.max-p.min))
}

// Normalized returns the value mapped linearly into [0, 1].
func (p *Param) Normalized() float64 {
	if p.max == p.min {
		return 0
	}

	return (p.Value() - p.min) / (p.max - p.min)
}

// Reset restores the default value.
func (p *Param) Reset() {
	p.Set(p.def)
}
