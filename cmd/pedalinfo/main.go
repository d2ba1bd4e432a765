// Command pedalinfo prints the controls and measured behaviour of the
// pedals.
//
// Usage:
//
//	pedalinfo [flags] [pedal ...]
//
// Without arguments it prints every pedal in chain order.
//
// Examples:
//
//	pedalinfo
//	pedalinfo -measure overdrive reverb
//	pedalinfo -measure -rate 96000 -freq 110
//	pedalinfo -measure -window flattop distortion
//	pedalinfo -cpu
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/effectchain"
	"github.com/cwbudde/algo-pedalboard/dsp/window"
	"github.com/cwbudde/algo-pedalboard/measure"
)

// Impulse response tails end where they fall below -80 dBFS.
var tailThreshold = core.DBToLinear(-80)

func main() {
	rate := flag.Float64("rate", 44100, "sample rate in Hz")
	doMeasure := flag.Bool("measure", false, "measure impulse response and harmonic distortion")
	freq := flag.Float64("freq", 220, "test tone frequency for distortion measurement")
	level := flag.Float64("level", 0.5, "test tone amplitude")
	irSeconds := flag.Float64("ir", 3, "impulse response length in seconds")
	winName := flag.String("window", "hann", "analysis window for distortion: rectangular, hann, blackman, flattop")
	showCPU := flag.Bool("cpu", false, "print detected SIMD features")
	list := flag.Bool("list", false, "list pedal names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pedalinfo [flags] [pedal ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints pedal controls and measured responses.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pedalinfo overdrive\n")
		fmt.Fprintf(os.Stderr, "  pedalinfo -measure -rate 96000 reverb\n")
		fmt.Fprintf(os.Stderr, "  pedalinfo -cpu\n")
	}
	flag.Parse()

	if *showCPU {
		printCPU()
		return
	}

	if err := core.ValidateSampleRate("pedalinfo", *rate); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(*rate))

	win, err := window.ParseType(*winName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	reg := effectchain.DefaultRegistry()
	if *list {
		for _, e := range chainOrder(reg) {
			fmt.Println(e.Name)
		}
		return
	}

	entries := resolveEntries(reg, flag.Args())
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching pedals\n")
		os.Exit(1)
	}

	printParams(entries, cfg.SampleRate)
	if *doMeasure {
		fmt.Println()
		printMeasurements(entries, cfg.SampleRate, *freq, *level, *irSeconds, win)
	}
}

// chainOrder returns the registry entries in the order a chain runs them.
func chainOrder(reg *effectchain.Registry) []effectchain.Entry {
	entries := reg.Entries()
	var ordered []effectchain.Entry
	for _, cat := range []effectchain.Category{effectchain.Modulation, effectchain.Distortion, effectchain.TimeBased} {
		for _, e := range entries {
			if e.Category == cat {
				ordered = append(ordered, e)
			}
		}
	}
	return ordered
}

func resolveEntries(reg *effectchain.Registry, names []string) []effectchain.Entry {
	if len(names) == 0 {
		return chainOrder(reg)
	}

	var result []effectchain.Entry
	for _, name := range names {
		e, ok := reg.Lookup(strings.TrimSpace(name))
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown pedal %q (use -list to see available)\n", name)
			continue
		}
		result = append(result, e)
	}
	return result
}

func newPedal(e effectchain.Entry, rate float64) (effectchain.Effect, error) {
	fx := e.Factory()
	if err := fx.SetSampleRate(rate); err != nil {
		return nil, err
	}
	return fx, nil
}

func printParams(entries []effectchain.Entry, rate float64) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Pedal\tCategory\tAtten\tParam\tMin\tMax\tDefault\tNorm\tUnit\n")
	fmt.Fprintf(tw, "-----\t--------\t-----\t-----\t---\t---\t-------\t----\t----\n")

	for _, e := range entries {
		fx, err := newPedal(e, rate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.Name, err)
			continue
		}
		for i, p := range fx.Params().All() {
			pedal, cat, atten := "", "", ""
			if i == 0 {
				pedal, cat, atten = e.Name, e.Category.String(), fmt.Sprintf("%.2f", e.Category.Attenuation())
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%g\t%g\t%.2f\t%s\n",
				pedal, cat, atten, p.Name(), p.Min(), p.Max(), p.Default(), p.Normalized(), p.Unit())
		}
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printMeasurements(entries []effectchain.Entry, rate, freq, level, irSeconds float64, win window.Type) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Pedal\tIR Peak\tTail [ms]\tTail Energy\tRT60 [s]\tTHD [%%]\tTHD [dB]\tOdd/Even\n")
	fmt.Fprintf(tw, "-----\t-------\t---------\t-----------\t--------\t-------\t--------\t--------\n")

	irLen := int(irSeconds * rate)
	for _, e := range entries {
		fx, err := newPedal(e, rate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", e.Name, err)
			continue
		}

		ir := measure.ImpulseResponse(fx, irLen)
		peak, _ := measure.Peak(ir)
		tail := measure.TailLength(ir, tailThreshold)
		energy := measure.TailEnergy(ir, tailThreshold)

		rt60 := "-"
		if d, err := measure.Decay(ir, rate); err == nil && d.RT60 > 0 {
			rt60 = fmt.Sprintf("%.2f", d.RT60)
		} else if err != nil && !errors.Is(err, measure.ErrNoDecay) {
			rt60 = "err"
		}

		fx.Reset()
		h, err := harmonics(fx, rate, freq, level, win)
		thd, thdDB, balance := "-", "-", "-"
		if err == nil && h.FundamentalLevel > 0 {
			thd = fmt.Sprintf("%.2f", h.THD*100)
			thdDB = fmt.Sprintf("%.1f", h.THDdB)
			balance = oddEven(h)
		}

		fmt.Fprintf(tw, "%s\t%.4f\t%.1f\t%.4f\t%s\t%s\t%s\t%s\n",
			e.Name, peak, float64(tail)/rate*1000, energy, rt60, thd, thdDB, balance)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

// harmonics drives fx with a sine, skips the settling part and analyses the
// rest.
func harmonics(fx measure.Processor, rate, freq, level float64, win window.Type) (measure.HarmonicsResult, error) {
	const settle, analyse = 4096, 16384

	in := make([]float64, settle+analyse)
	step := 2 * math.Pi * freq / rate
	for i := range in {
		in[i] = level * math.Sin(step*float64(i))
	}
	out := measure.Run(fx, in)
	return measure.HarmonicsWindow(out[settle:], rate, freq, 9, win)
}

func oddEven(h measure.HarmonicsResult) string {
	switch {
	case h.OddHD == 0 && h.EvenHD == 0:
		return "-"
	case h.EvenHD == 0:
		return "odd"
	case h.OddHD == 0:
		return "even"
	}
	return fmt.Sprintf("%.2f", h.OddHD/h.EvenHD)
}

func printCPU() {
	f := cpu.DetectFeatures()
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Architecture\t%s\n", f.Architecture)
	fmt.Fprintf(tw, "Best SIMD\t%s\n", bestLevel(f))
	fmt.Fprintf(tw, "SSE2\t%v\n", f.HasSSE2)
	fmt.Fprintf(tw, "AVX\t%v\n", f.HasAVX)
	fmt.Fprintf(tw, "AVX2\t%v\n", f.HasAVX2)
	fmt.Fprintf(tw, "AVX-512\t%v\n", f.HasAVX512)
	fmt.Fprintf(tw, "NEON\t%v\n", f.HasNEON)
	fmt.Fprintf(tw, "Forced generic\t%v\n", f.ForceGeneric)
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func bestLevel(f cpu.Features) cpu.SIMDLevel {
	for _, l := range []cpu.SIMDLevel{cpu.SIMDAVX512, cpu.SIMDAVX2, cpu.SIMDAVX, cpu.SIMDSSE2, cpu.SIMDNEON} {
		if cpu.Supports(f, l) {
			return l
		}
	}
	return cpu.SIMDNone
}
