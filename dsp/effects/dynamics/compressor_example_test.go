package dynamics_test

import (
	"fmt"

	"github.com/cwbudde/algo-pedalboard/dsp/effects/dynamics"
)

func ExampleCompressor() {
	c := dynamics.NewCompressor()
	c.SetParameter(5)

	var y float64
	for range 44100 {
		y = c.ProcessSample(0.9)
	}

	fmt.Printf("threshold=%.2f out=%.3f\n", c.Threshold(), y)
	// Output:
	// threshold=0.50 out=1.200
}
