// Package audio provides the sample sources that feed the pedalboard when
// no live input device is attached: decoded audio files and a test tone.
//
// Every source yields interleaved float32 samples in [-1, 1]. Decoders are
// looked up by file extension in a Registry.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnsupportedFormat is returned when no decoder is registered for a
	// file extension.
	ErrUnsupportedFormat = errors.New("audio: unsupported format")
	// ErrUnsupportedBitDepth is returned for PCM files with a bit depth the
	// decoders do not convert.
	ErrUnsupportedBitDepth = errors.New("audio: unsupported bit depth")
	// ErrInvalidFile is returned when a file does not carry the container
	// its extension claims.
	ErrInvalidFile = errors.New("audio: invalid file")
)

// Source is a stream of interleaved PCM samples.
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Channels per frame.
	Channels() int
	// ReadSamples fills dst with interleaved samples and returns the number
	// of values written. A finished stream returns 0, io.EOF.
	ReadSamples(dst []float32) (int, error)
	// Close releases the underlying resources.
	Close() error
}

// Decoder opens a Source over an encoded stream.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(r io.Reader) (Source, error)

// Decode calls f(r).
func (f DecoderFunc) Decode(r io.Reader) (Source, error) { return f(r) }

// Registry maps file extensions to decoders.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

// DefaultRegistry returns a registry with the WAV, AIFF, MP3 and Ogg Vorbis
// decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("wav", WAVDecoder{})
	r.Register("aiff", AIFFDecoder{})
	r.Register("aif", AIFFDecoder{})
	r.Register("mp3", MP3Decoder{})
	r.Register("ogg", VorbisDecoder{})
	return r
}

// Register binds d to an extension. The leading dot and case are ignored.
func (r *Registry) Register(ext string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[normalizeExt(ext)] = d
}

// Lookup returns the decoder for ext.
func (r *Registry) Lookup(ext string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.codecs[normalizeExt(ext)]
	return d, ok
}

// Formats returns the registered extensions in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Open decodes the file at path with the decoder registered for its
// extension. Closing the returned source closes the file.
func (r *Registry) Open(path string) (Source, error) {
	ext := filepath.Ext(path)
	d, ok := r.Lookup(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	src, err := d.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: %s: %w", path, err)
	}

	return &fileSource{Source: src, file: f}, nil
}

// Open decodes path with the default registry.
func Open(path string) (Source, error) {
	return DefaultRegistry().Open(path)
}

type fileSource struct {
	Source
	file *os.File
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// readSeeker returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek.
func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
