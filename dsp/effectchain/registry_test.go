package effectchain

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-pedalboard/dsp/param"
)

func dummyFactory() Effect {
	return &unityEffect{params: param.NewSet()}
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	t.Run("registers and looks up factory", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		err := r.Register("Wah Wah", Modulation, dummyFactory)
		if err != nil {
			t.Fatalf("Register returned unexpected error: %v", err)
		}

		e, ok := r.Lookup("wahwah")
		if !ok {
			t.Fatal("Lookup failed for registered type")
		}
		if e.Name != "Wah Wah" || e.Category != Modulation {
			t.Fatalf("Lookup = %+v", e)
		}
	})

	t.Run("rejects empty effect type", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		for _, name := range []string{"", " ", "--"} {
			if err := r.Register(name, Modulation, dummyFactory); err == nil {
				t.Fatalf("expected error for effect type %q", name)
			}
		}
	})

	t.Run("rejects nil factory", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		err := r.Register("chorus", Modulation, nil)
		if err == nil {
			t.Fatal("expected error for nil factory")
		}
	})

	t.Run("rejects invalid category", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		err := r.Register("chorus", Category(-1), dummyFactory)
		if err == nil {
			t.Fatal("expected error for invalid category")
		}
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		_ = r.Register("Blues Driver", Distortion, dummyFactory)

		err := r.Register("blues-driver", Distortion, dummyFactory)
		if !errors.Is(err, errDuplicateEffect) {
			t.Fatalf("expected duplicate error, got %v", err)
		}
	})
}

func TestRegistryMustRegisterPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("MustRegister did not panic on nil factory")
		}
	}()

	NewRegistry().MustRegister("x", Modulation, nil)
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	if r.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", r.Len())
	}

	wantCategory := map[string]Category{
		TypeChorus:      Modulation,
		TypeOctave:      Modulation,
		TypeTremolo:     Modulation,
		TypeOverdrive:   Distortion,
		TypeDistortion:  Distortion,
		TypeBluesDriver: Distortion,
		TypeCompressor:  TimeBased,
		TypeReverb:      TimeBased,
	}
	for name, cat := range wantCategory {
		e, ok := r.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if e.Category != cat {
			t.Errorf("%s category = %v, want %v", name, e.Category, cat)
		}
		fx := e.Factory()
		if fx == nil || fx.Params().Len() == 0 {
			t.Errorf("%s factory built %v", name, fx)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Blues Driver": "bluesdriver",
		"OVERDRIVE":    "overdrive",
		" re-verb ":    "reverb",
		"":             "",
	}
	for in, want := range tests {
		if got := normalizeName(in); got != want {
			t.Errorf("normalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
