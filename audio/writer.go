package audio

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVWriter streams interleaved float samples into a 16-bit PCM WAV file.
type WAVWriter struct {
	enc      *wav.Encoder
	buf      *goaudio.IntBuffer
	channels int
	frames   int
}

// NewWAVWriter starts a WAV stream on w. The header is finalized by Close,
// which seeks back into w.
func NewWAVWriter(w io.WriteSeeker, sampleRate, channels int) *WAVWriter {
	if channels < 1 {
		channels = 1
	}
	return &WAVWriter{
		enc: wav.NewEncoder(w, sampleRate, 16, channels, 1),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
		channels: channels,
	}
}

// Write appends interleaved samples. Values outside [-1, 1] are clipped.
func (w *WAVWriter) Write(samples []float32) error {
	if len(samples)%w.channels != 0 {
		return fmt.Errorf("wav: %d samples is not a whole number of %d-channel frames", len(samples), w.channels)
	}
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = toPCM16(s)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	w.frames += len(samples) / w.channels
	return nil
}

// Frames returns the number of frames written so far.
func (w *WAVWriter) Frames() int { return w.frames }

// Close finalizes the header. The underlying writer stays open.
func (w *WAVWriter) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}

func toPCM16(s float32) int {
	switch {
	case s >= 1:
		return 32767
	case s <= -1:
		return -32768
	case s != s:
		return 0
	}
	return int(s * 32767)
}
