package audio

import (
	"io"
	"math"
)

// Tone is a sine test signal. It stands in for an instrument input when no
// file is given.
type Tone struct {
	freq       float64
	amplitude  float64
	sampleRate int
	channels   int
	remaining  int
	endless    bool
	phase      float64
	step       float64
}

// NewTone returns a sine source. frames <= 0 makes it endless.
func NewTone(freqHz, amplitude float64, sampleRate, channels, frames int) *Tone {
	if channels < 1 {
		channels = 1
	}
	return &Tone{
		freq:       freqHz,
		amplitude:  amplitude,
		sampleRate: sampleRate,
		channels:   channels,
		remaining:  frames,
		endless:    frames <= 0,
		step:       2 * math.Pi * freqHz / float64(sampleRate),
	}
}

// SampleRate implements Source.
func (t *Tone) SampleRate() int { return t.sampleRate }

// Channels implements Source.
func (t *Tone) Channels() int { return t.channels }

// Close implements Source.
func (t *Tone) Close() error { return nil }

// ReadSamples implements Source. Only whole frames are written.
func (t *Tone) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / t.channels
	if !t.endless {
		if t.remaining <= 0 {
			return 0, io.EOF
		}
		frames = min(frames, t.remaining)
		t.remaining -= frames
	}

	for i := 0; i < frames; i++ {
		v := float32(t.amplitude * math.Sin(t.phase))
		t.phase += t.step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
		base := i * t.channels
		for ch := 0; ch < t.channels; ch++ {
			dst[base+ch] = v
		}
	}
	return frames * t.channels, nil
}
