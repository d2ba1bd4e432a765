package effectchain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
	"github.com/cwbudde/algo-vecmath"
)

// ErrUnknownEffect is returned when a name does not resolve to a pedal in the chain.
var ErrUnknownEffect = errors.New("unknown effect type")

const (
	defaultInputGain = 0.3

	limiterThreshold = 0.7
	limiterKnee      = 0.7
	outputTrim       = 0.7
)

type slot struct {
	name     string
	category Category
	fx       Effect
	enabled  atomic.Bool
}

// PedalInfo is a read-only view of one chain slot.
type PedalInfo struct {
	Name     string
	Category Category
	Enabled  bool
}

// Chain is the fixed pedal line. Slots are created once in New and never
// added or removed.
type Chain struct {
	slots []*slot
	index map[string]*slot

	inputGain *param.Param
	bypass    atomic.Bool

	sampleRate float64
}

type config struct {
	inputGain  float64
	sampleRate float64
}

// Option configures a Chain at construction.
type Option func(*config)

// WithInputGain sets the initial input gain, clamped to [0, 1].
func WithInputGain(gain float64) Option {
	return func(c *config) { c.inputGain = gain }
}

// WithSampleRate prepares every pedal for sampleRate instead of the nominal rate.
func WithSampleRate(sampleRate float64) Option {
	return func(c *config) { c.sampleRate = sampleRate }
}

// New instantiates every pedal in registry once and orders the slots by
// category. A nil registry means DefaultRegistry.
func New(registry *Registry, opts ...Option) (*Chain, error) {
	cfg := config{
		inputGain:  defaultInputGain,
		sampleRate: core.NominalSampleRate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if registry == nil {
		registry = DefaultRegistry()
	}

	entries := registry.Entries()
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return int(a.Category) - int(b.Category)
	})

	c := &Chain{
		slots:      make([]*slot, 0, len(entries)),
		index:      make(map[string]*slot, len(entries)),
		inputGain:  param.New("input", 0, 1, defaultInputGain),
		sampleRate: core.NominalSampleRate,
	}
	c.inputGain.Set(cfg.inputGain)

	for _, e := range entries {
		fx := e.Factory()
		if fx == nil {
			return nil, fmt.Errorf("effectchain: factory for %s returned nil", e.Name)
		}

		s := &slot{name: e.Name, category: e.Category, fx: fx}
		c.slots = append(c.slots, s)
		c.index[normalizeName(e.Name)] = s
	}

	if cfg.sampleRate != core.NominalSampleRate {
		if err := c.SetSampleRate(cfg.sampleRate); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// SoftLimit passes |x| <= 0.7 unchanged and compresses larger values with
// tanh(0.7x)/0.7, which never exceeds 1/0.7 in magnitude.
func SoftLimit(x float64) float64 {
	if math.Abs(x) > limiterThreshold {
		return math.Tanh(x*limiterKnee) / limiterKnee
	}

	return x
}

// ProcessSample runs one sample through input gain, the enabled pedals,
// the soft limiter and the output trim.
func (c *Chain) ProcessSample(x float64) float64 {
	return c.run(x*c.inputGain.Value()) * outputTrim
}

func (c *Chain) run(s float64) float64 {
	if !c.bypass.Load() {
		for _, sl := range c.slots {
			if !sl.enabled.Load() {
				continue
			}
			s = sl.fx.ProcessSample(s) * sl.category.Attenuation()
		}
	}

	return SoftLimit(s)
}

// ProcessBlock processes buf in place. The result is identical to calling
// ProcessSample on each element.
func (c *Chain) ProcessBlock(buf []float64) {
	if len(buf) == 0 {
		return
	}

	vecmath.ScaleBlockInPlace(buf, c.inputGain.Value())
	for i, s := range buf {
		buf[i] = c.run(s)
	}
	vecmath.ScaleBlockInPlace(buf, outputTrim)
}

// SetSampleRate propagates sampleRate to every pedal, enabled or not.
// It must not run concurrently with ProcessSample or ProcessBlock.
func (c *Chain) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate("effectchain", sampleRate); err != nil {
		return err
	}

	for _, s := range c.slots {
		if err := s.fx.SetSampleRate(sampleRate); err != nil {
			return fmt.Errorf("effectchain: %s: %w", s.name, err)
		}
	}
	c.sampleRate = sampleRate

	return nil
}

// SampleRate returns the rate last applied to the pedals.
func (c *Chain) SampleRate() float64 { return c.sampleRate }

// Reset clears every pedal's DSP state. Parameters and enablement are kept.
func (c *Chain) Reset() {
	for _, s := range c.slots {
		s.fx.Reset()
	}
}

// SetInputGain sets the input gain, clamped to [0, 1].
func (c *Chain) SetInputGain(gain float64) { c.inputGain.Set(gain) }

// InputGain returns the input gain.
func (c *Chain) InputGain() float64 { return c.inputGain.Value() }

// InputGainParam exposes the input gain control.
func (c *Chain) InputGainParam() *param.Param { return c.inputGain }

// SetBypass engages or releases the global bypass.
func (c *Chain) SetBypass(on bool) { c.bypass.Store(on) }

// Bypassed reports whether the global bypass is engaged.
func (c *Chain) Bypassed() bool { return c.bypass.Load() }

// ToggleBypass flips the global bypass and returns the new state.
func (c *Chain) ToggleBypass() bool {
	for {
		old := c.bypass.Load()
		if c.bypass.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (c *Chain) lookup(name string) (*slot, error) {
	s, ok := c.index[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}

	return s, nil
}

// SetEnabled switches one pedal in or out of the signal path.
func (c *Chain) SetEnabled(name string, on bool) error {
	s, err := c.lookup(name)
	if err != nil {
		return err
	}
	s.enabled.Store(on)

	return nil
}

// Toggle flips one pedal's enablement and returns the new state.
func (c *Chain) Toggle(name string) (bool, error) {
	s, err := c.lookup(name)
	if err != nil {
		return false, err
	}
	for {
		old := s.enabled.Load()
		if s.enabled.CompareAndSwap(old, !old) {
			return !old, nil
		}
	}
}

// Enabled reports whether the named pedal is in the signal path. Unknown
// names report false.
func (c *Chain) Enabled(name string) bool {
	s, err := c.lookup(name)
	if err != nil {
		return false
	}

	return s.enabled.Load()
}

// Effect returns the pedal instance called name.
func (c *Chain) Effect(name string) (Effect, error) {
	s, err := c.lookup(name)
	if err != nil {
		return nil, err
	}

	return s.fx, nil
}

// Pedals returns the slots in processing order.
func (c *Chain) Pedals() []PedalInfo {
	out := make([]PedalInfo, len(c.slots))
	for i, s := range c.slots {
		out[i] = PedalInfo{Name: s.name, Category: s.category, Enabled: s.enabled.Load()}
	}

	return out
}

// Len returns the number of pedals.
func (c *Chain) Len() int { return len(c.slots) }

// SetParameter sends a 0..10 knob value to the named pedal's main control.
func (c *Chain) SetParameter(name string, knob float64) error {
	s, err := c.lookup(name)
	if err != nil {
		return err
	}
	s.fx.SetParameter(knob)

	return nil
}

// SetNamedParameter writes one named control of one pedal.
func (c *Chain) SetNamedParameter(name, paramName string, v float64) error {
	s, err := c.lookup(name)
	if err != nil {
		return err
	}

	if err := s.fx.Params().Set(paramName, v); err != nil {
		return fmt.Errorf("effectchain: %s: %w", s.name, err)
	}

	return nil
}
