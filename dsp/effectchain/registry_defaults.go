package effectchain

import (
	"github.com/cwbudde/algo-pedalboard/dsp/effects"
	"github.com/cwbudde/algo-pedalboard/dsp/effects/dynamics"
	"github.com/cwbudde/algo-pedalboard/dsp/effects/modulation"
	"github.com/cwbudde/algo-pedalboard/dsp/effects/reverb"
)

// Built-in pedal type names, as stored in saved boards.
const (
	TypeChorus      = "Chorus"
	TypeOctave      = "Octave"
	TypeTremolo     = "Tremolo"
	TypeOverdrive   = "Overdrive"
	TypeDistortion  = "Distortion"
	TypeBluesDriver = "Blues Driver"
	TypeCompressor  = "Compressor"
	TypeReverb      = "Reverb"
)

// DefaultRegistry returns a Registry holding the eight built-in pedals.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(TypeChorus, Modulation, func() Effect { return modulation.NewChorus() })
	r.MustRegister(TypeOctave, Modulation, func() Effect { return effects.NewOctave() })
	r.MustRegister(TypeTremolo, Modulation, func() Effect { return modulation.NewTremolo() })
	r.MustRegister(TypeOverdrive, Distortion, func() Effect { return effects.NewOverdrive() })
	r.MustRegister(TypeDistortion, Distortion, func() Effect { return effects.NewDistortion() })
	r.MustRegister(TypeBluesDriver, Distortion, func() Effect { return effects.NewBluesDriver() })
	r.MustRegister(TypeCompressor, TimeBased, func() Effect { return dynamics.NewCompressor() })
	r.MustRegister(TypeReverb, TimeBased, func() Effect { return reverb.NewReverb() })

	return r
}
