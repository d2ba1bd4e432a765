package effectchain_test

import (
	"fmt"

	"github.com/cwbudde/algo-pedalboard/dsp/effectchain"
)

func ExampleChain() {
	chain, err := effectchain.New(effectchain.DefaultRegistry())
	if err != nil {
		panic(err)
	}

	_ = chain.SetEnabled(effectchain.TypeOverdrive, true)
	_ = chain.SetEnabled(effectchain.TypeReverb, true)
	_ = chain.SetParameter(effectchain.TypeOverdrive, 7)

	for _, p := range chain.Pedals() {
		fmt.Printf("%-12s %-10s %v\n", p.Name, p.Category, p.Enabled)
	}
	// Output:
	// Chorus       modulation false
	// Octave       modulation false
	// Tremolo      modulation false
	// Overdrive    distortion true
	// Distortion   distortion false
	// Blues Driver distortion false
	// Compressor   time-based false
	// Reverb       time-based true
}

func ExampleSoftLimit() {
	fmt.Printf("%.3f %.3f\n", effectchain.SoftLimit(0.5), effectchain.SoftLimit(2))
	// Output: 0.500 1.265
}
