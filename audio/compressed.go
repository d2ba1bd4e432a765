package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// MP3Decoder decodes MPEG-1/2 layer III with go-mp3. The stream is always
// stereo 16-bit.
type MP3Decoder struct{}

// Decode implements Decoder.
func (MP3Decoder) Decode(r io.Reader) (Source, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return &mp3Source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}

type mp3Source struct {
	dec        io.Reader
	sampleRate int
	buf        []byte
	// odd holds a trailing byte when a read ends mid-sample.
	odd    byte
	hasOdd bool
}

func (s *mp3Source) SampleRate() int { return s.sampleRate }
func (s *mp3Source) Channels() int   { return 2 }
func (s *mp3Source) Close() error    { return nil }

func (s *mp3Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	start := 0
	if s.hasOdd {
		buf[0] = s.odd
		start = 1
		s.hasOdd = false
	}
	n, err := s.dec.Read(buf[start:])
	n += start
	if n < 2 {
		if n == 1 {
			s.odd, s.hasOdd = buf[0], true
		}
		if err == nil {
			return 0, nil
		}
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("mp3: %w", err)
	}

	samples := n / 2
	for i := 0; i < samples; i++ {
		v := int16(binary.LittleEndian.Uint16(buf[2*i:]))
		dst[i] = float32(v) / 32768
	}
	if n%2 == 1 {
		s.odd, s.hasOdd = buf[n-1], true
	}
	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("mp3: %w", err)
	}
	return samples, nil
}

// VorbisDecoder decodes Ogg Vorbis with oggvorbis.
type VorbisDecoder struct{}

// Decode implements Decoder.
func (VorbisDecoder) Decode(r io.Reader) (Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}

	return &vorbisSource{dec: dec}, nil
}

type vorbisSource struct {
	dec *oggvorbis.Reader
}

func (s *vorbisSource) SampleRate() int { return s.dec.SampleRate() }
func (s *vorbisSource) Channels() int   { return s.dec.Channels() }
func (s *vorbisSource) Close() error    { return nil }

func (s *vorbisSource) ReadSamples(dst []float32) (int, error) {
	ch := s.dec.Channels()
	whole := len(dst) - len(dst)%ch
	if whole == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:whole])
	if n > 0 {
		if err == io.EOF {
			err = nil
		}
		return n, err
	}
	if err == nil || err == io.EOF {
		return 0, io.EOF
	}
	return 0, fmt.Errorf("ogg: %w", err)
}
