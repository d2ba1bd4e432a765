package audio

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// pcmReader is the part of the go-audio container decoders used here.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// intSource converts integer PCM read through go-audio into float32.
type intSource struct {
	dec        pcmReader
	sampleRate int
	channels   int
	scale      float32
	offset     int
	buf        *goaudio.IntBuffer
}

func newIntSource(dec pcmReader, sampleRate, channels, bitDepth int, unsigned8 bool) (*intSource, error) {
	if channels <= 0 || sampleRate <= 0 {
		return nil, ErrInvalidFile
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	s := &intSource{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		scale:      1 / float32(int64(1)<<(bitDepth-1)),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			Data:           make([]int, 4096),
			SourceBitDepth: bitDepth,
		},
	}
	if bitDepth == 8 && unsigned8 {
		s.offset = 128
	}
	return s, nil
}

func (s *intSource) SampleRate() int { return s.sampleRate }
func (s *intSource) Channels() int   { return s.channels }
func (s *intSource) Close() error    { return nil }

func (s *intSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if n <= 0 {
		if err != nil && err != io.EOF {
			return 0, err
		}
		return 0, io.EOF
	}
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = float32(s.buf.Data[i]-s.offset) * s.scale
	}
	return n, nil
}

// WAVDecoder decodes RIFF/WAVE integer PCM with go-audio/wav.
type WAVDecoder struct{}

// Decode implements Decoder.
func (WAVDecoder) Decode(r io.Reader) (Source, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: %w", ErrInvalidFile)
	}
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("wav: %w: format tag %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return newIntSource(dec, int(dec.SampleRate), int(dec.NumChans), int(dec.BitDepth), true)
}

// AIFFDecoder decodes AIFF integer PCM with go-audio/aiff.
type AIFFDecoder struct{}

// Decode implements Decoder.
func (AIFFDecoder) Decode(r io.Reader) (Source, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("aiff: %w", ErrInvalidFile)
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, fmt.Errorf("aiff: %w", ErrInvalidFile)
	}

	return newIntSource(dec, format.SampleRate, format.NumChannels, int(dec.BitDepth), false)
}
