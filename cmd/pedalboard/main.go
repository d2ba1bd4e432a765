// Command pedalboard runs an instrument signal through the pedal chain.
//
// Usage:
//
//	pedalboard [flags]
//
// Without -in it plays a test tone. With -out it renders offline to a WAV
// file instead of opening the output device.
//
// Examples:
//
//	pedalboard -in riff.wav -enable overdrive,reverb -keys
//	pedalboard -board crunch.json -midi "Launch Control"
//	pedalboard -tone 110 -dur 4 -enable distortion -out dist.wav
//	pedalboard -board crunch.json -keys -save crunch.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-pedalboard/audio"
	"github.com/cwbudde/algo-pedalboard/board"
	"github.com/cwbudde/algo-pedalboard/control"
	"github.com/cwbudde/algo-pedalboard/dsp/effectchain"
	"github.com/cwbudde/algo-pedalboard/host"
)

type config struct {
	in        string
	tone      float64
	dur       float64
	rate      int
	boardPath string
	savePath  string
	out       string
	gain      float64
	bypass    bool
	enable    string
	midiPort  string
	keys      bool
	channels  int
	blockSize int
	latency   time.Duration
	debug     bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.in, "in", "", "input audio file (wav, aiff, mp3, ogg)")
	flag.Float64Var(&cfg.tone, "tone", 110, "test tone frequency in Hz when no -in is given")
	flag.Float64Var(&cfg.dur, "dur", 0, "test tone length in seconds (0 = endless, 5 when rendering)")
	flag.IntVar(&cfg.rate, "rate", 44100, "test tone sample rate in Hz")
	flag.StringVar(&cfg.boardPath, "board", "", "load a saved board")
	flag.StringVar(&cfg.savePath, "save", "", "save the board on exit")
	flag.StringVar(&cfg.out, "out", "", "render offline to this WAV file")
	flag.Float64Var(&cfg.gain, "gain", 0.3, "input gain in [0, 1]")
	flag.BoolVar(&cfg.bypass, "bypass", false, "start with the chain bypassed")
	flag.StringVar(&cfg.enable, "enable", "", "comma separated pedals to switch on")
	flag.StringVar(&cfg.midiPort, "midi", "", "MIDI input port name to listen on")
	flag.BoolVar(&cfg.keys, "keys", false, "control the chain from the keyboard")
	flag.IntVar(&cfg.channels, "channels", 2, "output channels")
	flag.IntVar(&cfg.blockSize, "block", 512, "processing block size in frames")
	flag.DurationVar(&cfg.latency, "latency", 0, "device buffer length (0 = driver default)")
	flag.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pedalboard [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs audio through the guitar pedal chain.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys (with -keys):\n")
		fmt.Fprintf(os.Stderr, "  1-8 select pedal, space on/off, +/- knob, [/] input gain, b bypass, r reset, q quit\n")
	}
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("pedalboard failed")
	}
}

func run(cfg config, log *logrus.Logger) error {
	chain, err := effectchain.New(nil, effectchain.WithInputGain(cfg.gain))
	if err != nil {
		return err
	}

	var (
		name   = "Untitled"
		layout = board.Layout{}
	)
	if cfg.boardPath != "" {
		b, err := board.Load(cfg.boardPath, log)
		if err != nil {
			return err
		}
		b.Apply(chain, log)
		name, layout = b.Name, b.Layout()
	}
	if err := enablePedals(chain, cfg.enable); err != nil {
		return err
	}
	chain.SetBypass(cfg.bypass)

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	mon, err := host.NewMonitor(chain, src,
		host.WithChannels(cfg.channels),
		host.WithBlockSize(cfg.blockSize),
		host.WithLogger(log),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.out != "" {
		err = render(ctx, mon, cfg.out)
	} else {
		err = play(ctx, mon, cfg, log)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if cfg.savePath != "" {
		if err := board.Capture(name, chain, layout).Save(cfg.savePath, log); err != nil {
			return err
		}
		log.WithField("path", cfg.savePath).Info("board saved")
	}
	return nil
}

func enablePedals(chain *effectchain.Chain, list string) error {
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := chain.SetEnabled(name, true); err != nil {
			return fmt.Errorf("-enable %q: %w", name, err)
		}
	}
	return nil
}

func openSource(cfg config) (audio.Source, error) {
	if cfg.in != "" {
		return audio.Open(cfg.in)
	}

	dur := cfg.dur
	if dur <= 0 && cfg.out != "" {
		dur = 5
	}
	frames := int(dur * float64(cfg.rate))
	return audio.NewTone(cfg.tone, 0.8, cfg.rate, 1, frames), nil
}

func render(ctx context.Context, mon *host.Monitor, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mon.Render(ctx, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func play(ctx context.Context, mon *host.Monitor, cfg config, log *logrus.Logger) error {
	player, err := host.NewPlayer(mon, cfg.latency)
	if err != nil {
		return err
	}
	defer player.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	surface := control.NewSurface(mon.Chain(), log)

	if cfg.midiPort != "" {
		stopMIDI, err := control.ListenMIDI(cfg.midiPort, control.NewMIDI(surface, control.DefaultCCMap(surface.Pedals())), log)
		if err != nil {
			return err
		}
		defer stopMIDI()
	}

	if cfg.keys {
		// Log lines need explicit carriage returns in raw mode.
		log.SetFormatter(&rawFormatter{log.Formatter})
		t := control.NewTerminal(os.Stdin, surface, func(ev control.Event) {
			fmt.Fprintf(os.Stderr, "\r%s\r\n", status(surface, ev))
		})
		go func() {
			if err := t.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Warn("keyboard control stopped")
				return
			}
			cancel()
		}()
	}

	player.Play()
	return player.Wait(ctx)
}

func status(s *control.Surface, ev control.Event) string {
	switch ev.Action {
	case control.ActionSelect:
		return fmt.Sprintf("selected %s (knob %.1f)", ev.Pedal, s.Knob(ev.Pedal))
	case control.ActionToggle:
		return fmt.Sprintf("%s %s", ev.Pedal, onOff(ev.On))
	case control.ActionKnob:
		return fmt.Sprintf("%s knob %.1f", ev.Pedal, ev.Value)
	case control.ActionInputGain:
		return fmt.Sprintf("input gain %.2f", ev.Value)
	case control.ActionBypass:
		return fmt.Sprintf("bypass %s", onOff(ev.On))
	case control.ActionReset:
		return fmt.Sprintf("%s reset to defaults", ev.Pedal)
	}
	return ev.Action.String()
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

type rawFormatter struct {
	logrus.Formatter
}

func (f *rawFormatter) Format(e *logrus.Entry) ([]byte, error) {
	b, err := f.Formatter.Format(e)
	if err != nil {
		return nil, err
	}
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = append(b[:n-1], '\r', '\n')
	}
	return b, nil
}
