package effectchain

import (
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/param"
	"github.com/cwbudde/algo-pedalboard/internal/testutil"
)

var defaultOrder = []string{
	TypeChorus, TypeOctave, TypeTremolo,
	TypeOverdrive, TypeDistortion, TypeBluesDriver,
	TypeCompressor, TypeReverb,
}

func newDefaultChain(t *testing.T, opts ...Option) *Chain {
	t.Helper()

	c, err := New(DefaultRegistry(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return c
}

func pedalNames(c *Chain) []string {
	var names []string
	for _, p := range c.Pedals() {
		names = append(names, p.Name)
	}

	return names
}

func enableAll(t *testing.T, c *Chain) {
	t.Helper()

	for _, p := range c.Pedals() {
		if err := c.SetEnabled(p.Name, true); err != nil {
			t.Fatalf("SetEnabled(%q) error = %v", p.Name, err)
		}
	}
}

func TestChainDefaults(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t)

	if got := c.InputGain(); got != 0.3 {
		t.Fatalf("InputGain() = %v, want 0.3", got)
	}
	if c.Bypassed() {
		t.Fatal("chain starts bypassed")
	}
	if c.SampleRate() != core.NominalSampleRate {
		t.Fatalf("SampleRate() = %v", c.SampleRate())
	}
	for _, p := range c.Pedals() {
		if p.Enabled {
			t.Fatalf("%s starts enabled", p.Name)
		}
	}
	if !slices.Equal(pedalNames(c), defaultOrder) {
		t.Fatalf("order = %v, want %v", pedalNames(c), defaultOrder)
	}
}

func TestChainAllDisabledPassThrough(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t)

	for _, x := range []float64{0, 0.5, -1, 1, 2} {
		want := x * 0.3 * 0.7
		if got := c.ProcessSample(x); math.Abs(got-want) > 1e-15 {
			t.Errorf("ProcessSample(%v) = %v, want %v", x, got, want)
		}
	}

	// Above the limiter threshold after input gain.
	x := 3.0
	want := math.Tanh(0.9*0.7) / 0.7 * 0.7
	if got := c.ProcessSample(x); math.Abs(got-want) > 1e-15 {
		t.Fatalf("ProcessSample(%v) = %v, want %v", x, got, want)
	}
}

func TestChainOrderIndependentOfRegistration(t *testing.T) {
	t.Parallel()

	shuffled := NewRegistry()
	entries := DefaultRegistry().Entries()
	for _, i := range []int{7, 3, 0, 5, 2, 6, 1, 4} {
		e := entries[i]
		shuffled.MustRegister(e.Name, e.Category, e.Factory)
	}

	c, err := New(shuffled)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var last Category
	for _, p := range c.Pedals() {
		if p.Category < last {
			t.Fatalf("category order violated at %s: %v", p.Name, c.Pedals())
		}
		last = p.Category
	}
}

func TestChainOrderIndependentOfSnapshotOrder(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t)
	snap := Snapshot{}
	for _, name := range slices.Backward(defaultOrder) {
		snap[name] = PedalState{Enabled: true}
	}
	c.ApplySnapshot(snap)

	if !slices.Equal(pedalNames(c), defaultOrder) {
		t.Fatalf("order = %v, want %v", pedalNames(c), defaultOrder)
	}
}

func TestChainBypassIgnoresEffects(t *testing.T) {
	t.Parallel()

	in := testutil.DeterministicNoise(21, 2, 2048)

	plain := newDefaultChain(t)
	plain.SetBypass(true)
	want := testutil.Run(plain.ProcessSample, in)

	loaded := newDefaultChain(t)
	enableAll(t, loaded)
	for _, p := range loaded.Pedals() {
		fx, _ := loaded.Effect(p.Name)
		for _, prm := range fx.Params().All() {
			prm.SetNormalized(0.9)
		}
	}
	loaded.SetBypass(true)

	testutil.RequireSliceNearlyEqual(t, testutil.Run(loaded.ProcessSample, in), want, 0)

	if on := loaded.ToggleBypass(); on || loaded.Bypassed() {
		t.Fatal("ToggleBypass did not release the bypass")
	}
}

func TestChainOutputBounded(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t, WithInputGain(1))
	enableAll(t, c)
	for _, name := range defaultOrder {
		if err := c.SetParameter(name, 10); err != nil {
			t.Fatalf("SetParameter(%q) error = %v", name, err)
		}
	}

	in := append(testutil.DeterministicNoise(5, 50, 8192), testutil.Extremes()...)
	testutil.RequireBounded(t, testutil.Run(c.ProcessSample, in), 1)
}

func TestChainOverdriveLouderThanDisabled(t *testing.T) {
	t.Parallel()

	step := testutil.Step(4096, 0, 1)

	off := newDefaultChain(t)
	if err := off.SetParameter(TypeOverdrive, 5); err != nil {
		t.Fatalf("SetParameter() error = %v", err)
	}
	dry := testutil.Run(off.ProcessSample, step)

	on := newDefaultChain(t)
	if err := on.SetParameter(TypeOverdrive, 5); err != nil {
		t.Fatalf("SetParameter() error = %v", err)
	}
	if err := on.SetEnabled(TypeOverdrive, true); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}
	wet := testutil.Run(on.ProcessSample, step)

	fx, _ := on.Effect(TypeOverdrive)
	if g, _ := fx.Params().Value("gain"); math.Abs(g-4.5) > 1e-12 {
		t.Fatalf("gain = %v, want 4.5", g)
	}

	testutil.RequireBounded(t, wet, 1)
	last := len(step) - 1
	if math.Abs(dry[last]-0.21) > 1e-12 {
		t.Fatalf("disabled output = %v, want input*0.3*0.7", dry[last])
	}
	if math.Abs(wet[last]) <= math.Abs(dry[last]) {
		t.Fatalf("enabled overdrive %v not louder than disabled %v", wet[last], dry[last])
	}
}

func TestChainAttenuationPerCategory(t *testing.T) {
	t.Parallel()

	// A unity pedal isolates the category attenuation.
	r := NewRegistry()
	r.MustRegister("unity", TimeBased, func() Effect { return &unityEffect{params: param.NewSet()} })

	c, err := New(r, WithInputGain(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.SetEnabled("Unity", true); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}

	if got, want := c.ProcessSample(0.5), 0.5*0.85*0.7; math.Abs(got-want) > 1e-15 {
		t.Fatalf("ProcessSample() = %v, want %v", got, want)
	}
}

func TestCategoryAttenuation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cat  Category
		want float64
		name string
	}{
		{Modulation, 0.9, "modulation"},
		{Distortion, 0.8, "distortion"},
		{TimeBased, 0.85, "time-based"},
		{Category(9), 1, "Category(9)"},
	}
	for _, tt := range tests {
		if got := tt.cat.Attenuation(); got != tt.want {
			t.Errorf("%v.Attenuation() = %v, want %v", tt.cat, got, tt.want)
		}
		if got := tt.cat.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestSoftLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.5, 0.5},
		{-0.7, -0.7},
		{0.8, math.Tanh(0.56) / 0.7},
		{-2, math.Tanh(-1.4) / 0.7},
	}
	for _, tt := range tests {
		if got := SoftLimit(tt.in); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("SoftLimit(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := SoftLimit(1e9); got > 1/0.7 {
		t.Fatalf("SoftLimit(1e9) = %v exceeds 1/0.7", got)
	}
}

func TestChainProcessBlockMatchesProcessSample(t *testing.T) {
	t.Parallel()

	in := testutil.DeterministicSine(196, 44100, 0.9, 1500)

	a := newDefaultChain(t, WithInputGain(0.8))
	b := newDefaultChain(t, WithInputGain(0.8))
	for _, c := range []*Chain{a, b} {
		for _, name := range []string{TypeChorus, TypeBluesDriver, TypeReverb} {
			if err := c.SetEnabled(name, true); err != nil {
				t.Fatalf("SetEnabled() error = %v", err)
			}
		}
	}

	want := testutil.Run(a.ProcessSample, in)

	got := slices.Clone(in)
	b.ProcessBlock(got[:700])
	b.ProcessBlock(got[700:])
	b.ProcessBlock(nil)

	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestChainInputGainClamps(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t, WithInputGain(5))
	if c.InputGain() != 1 {
		t.Fatalf("InputGain() = %v, want 1", c.InputGain())
	}
	c.SetInputGain(-1)
	if c.InputGain() != 0 {
		t.Fatalf("InputGain() = %v, want 0", c.InputGain())
	}
	c.SetInputGain(math.NaN())
	if c.InputGain() != 0 {
		t.Fatalf("NaN write changed input gain to %v", c.InputGain())
	}
}

func TestChainLookupErrors(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t)

	if err := c.SetEnabled("Wah", true); !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("SetEnabled(Wah) error = %v, want ErrUnknownEffect", err)
	}
	if _, err := c.Effect("fuzz"); !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("Effect(fuzz) error = %v", err)
	}
	if err := c.SetNamedParameter(TypeReverb, "size", 1); !errors.Is(err, param.ErrUnknownParameter) {
		t.Fatalf("SetNamedParameter(size) error = %v, want ErrUnknownParameter", err)
	}
	if c.Enabled("nope") {
		t.Fatal("unknown pedal reported enabled")
	}
}

func TestChainNameMatching(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t)
	for _, name := range []string{"Blues Driver", "bluesdriver", "BLUES-DRIVER", "blues_driver"} {
		if err := c.SetNamedParameter(name, "tone", 0.1); err != nil {
			t.Fatalf("SetNamedParameter(%q) error = %v", name, err)
		}
	}
	on, err := c.Toggle("blues driver")
	if err != nil || !on || !c.Enabled(TypeBluesDriver) {
		t.Fatalf("Toggle() = %v, %v", on, err)
	}
}

func TestChainSetSampleRatePropagates(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t)
	if err := c.SetSampleRate(48000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}

	type rated interface{ SampleRate() float64 }
	for _, p := range c.Pedals() {
		fx, _ := c.Effect(p.Name)
		r, ok := fx.(rated)
		if !ok {
			continue
		}
		if r.SampleRate() != 48000 {
			t.Errorf("%s (enabled=%v) rate = %v, want 48000", p.Name, p.Enabled, r.SampleRate())
		}
	}

	if err := c.SetSampleRate(0); !errors.Is(err, core.ErrInvalidSampleRate) {
		t.Fatalf("SetSampleRate(0) error = %v", err)
	}
	if c.SampleRate() != 48000 {
		t.Fatalf("rate changed after rejected update: %v", c.SampleRate())
	}
}

func TestNewWithSampleRate(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t, WithSampleRate(96000))
	if c.SampleRate() != 96000 {
		t.Fatalf("SampleRate() = %v", c.SampleRate())
	}
	if _, err := New(nil, WithSampleRate(-1)); !errors.Is(err, core.ErrInvalidSampleRate) {
		t.Fatalf("New(rate=-1) error = %v", err)
	}
}

func TestChainNoStaleTailAfterRateChange(t *testing.T) {
	t.Parallel()

	used := newDefaultChain(t)
	enableAll(t, used)
	testutil.Run(used.ProcessSample, testutil.DeterministicNoise(3, 1, 10000))

	fresh := newDefaultChain(t)
	enableAll(t, fresh)

	for _, c := range []*Chain{used, fresh} {
		if err := c.SetSampleRate(32000); err != nil {
			t.Fatalf("SetSampleRate() error = %v", err)
		}
	}

	in := testutil.Impulse(8000, 0)
	testutil.RequireSliceNearlyEqual(t, testutil.Run(used.ProcessSample, in), testutil.Run(fresh.ProcessSample, in), 0)
}

func TestChainConcurrentControl(t *testing.T) {
	t.Parallel()

	c := newDefaultChain(t)
	enableAll(t, c)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 2000 {
			knob := float64(i % 11)
			for _, name := range defaultOrder {
				_ = c.SetParameter(name, knob)
			}
			_, _ = c.Toggle(TypeChorus)
			c.SetInputGain(knob / 10)
		}
	}()

	buf := testutil.DeterministicNoise(9, 1, 256)
	for range 200 {
		c.ProcessBlock(buf)
		testutil.RequireBounded(t, buf, 1)
	}
	wg.Wait()
}

type unityEffect struct {
	params *param.Set
}

func (u *unityEffect) ProcessSample(x float64) float64 { return x }

func (u *unityEffect) SetParameter(float64) {}

func (u *unityEffect) SetSampleRate(rate float64) error {
	return core.ValidateSampleRate("unity", rate)
}

func (u *unityEffect) Params() *param.Set { return u.params }

func (u *unityEffect) Reset() {}
