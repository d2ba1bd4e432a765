package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-pedalboard/dsp/effects"
)

func ExampleDistortion() {
	d := effects.NewDistortion()
	d.SetParameter(5)
	d.SetTone(0.4)

	buf := []float64{0, 0.25, 0.5, -0.5}
	d.ProcessInPlace(buf)

	fmt.Printf("gain=%.1f tone=%.1f first=%.1f\n", d.Gain(), d.Tone(), buf[0])
	// Output:
	// gain=5.5 tone=0.4 first=0.0
}
