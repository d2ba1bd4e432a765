package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)

	// Output:
	// sampleRate=48000 blockSize=256 channels=2
}

func ExampleDownmix() {
	mono := make([]float64, 2)
	n := core.Downmix(mono, []float32{1, 0, 0.5, 0.5}, 2)
	fmt.Println(n, mono)

	// Output:
	// 2 [0.5 0.5]
}
