// Package host connects a pedal chain to audio sources and sinks.
//
// Monitor is the audio callback: the output device pulls float32LE frames
// from it and each pull runs one block through the chain. Render drives the
// same path offline into a WAV file.
package host

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-pedalboard/audio"
	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/effectchain"
)

const bytesPerSample = 4

// maxEmptyReads bounds how often a source may return no samples and no
// error before a pull gives up with io.ErrNoProgress.
const maxEmptyReads = 100

// Option configures a Monitor.
type Option func(*options)

type options struct {
	proc core.ProcessorConfig
	log  logrus.FieldLogger
}

// WithBlockSize sets the largest number of frames processed per pull.
func WithBlockSize(frames int) Option {
	return func(o *options) { core.WithBlockSize(frames)(&o.proc) }
}

// WithChannels sets the device output channel count.
func WithChannels(channels int) Option {
	return func(o *options) { core.WithChannels(channels)(&o.proc) }
}

// WithLogger sets the logger for stream events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Monitor pulls a source through a chain. All buffers are sized in
// NewMonitor; Read does not allocate.
type Monitor struct {
	chain      *effectchain.Chain
	src        audio.Source
	log        logrus.FieldLogger
	sampleRate int
	inChannels int
	channels   int
	blockSize  int

	in   []float32
	mono []float64
	out  []float32

	frames atomic.Int64
	done   atomic.Bool
}

// NewMonitor prepares chain to run at the source's sample rate. This is the
// only place the chain's buffers are resized.
func NewMonitor(chain *effectchain.Chain, src audio.Source, opts ...Option) (*Monitor, error) {
	o := options{
		proc: core.DefaultProcessorConfig(),
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	inChannels := src.Channels()
	if inChannels < 1 {
		return nil, fmt.Errorf("host: source has %d channels", inChannels)
	}
	rate := src.SampleRate()
	if err := chain.SetSampleRate(float64(rate)); err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	m := &Monitor{
		chain:      chain,
		src:        src,
		log:        o.log,
		sampleRate: rate,
		inChannels: inChannels,
		channels:   o.proc.Channels,
		blockSize:  o.proc.BlockSize,
	}
	m.in = core.EnsureLen32(m.in, m.blockSize*inChannels)
	m.mono = core.EnsureLen(m.mono, m.blockSize)
	m.out = core.EnsureLen32(m.out, m.blockSize*m.channels)

	m.log.WithFields(logrus.Fields{
		"rate":      rate,
		"inputCh":   inChannels,
		"outputCh":  m.channels,
		"blockSize": m.blockSize,
	}).Info("monitor ready")

	return m, nil
}

// SampleRate returns the stream rate in Hz.
func (m *Monitor) SampleRate() int { return m.sampleRate }

// Channels returns the output channel count.
func (m *Monitor) Channels() int { return m.channels }

// BlockSize returns the largest block processed per pull.
func (m *Monitor) BlockSize() int { return m.blockSize }

// Frames returns the number of frames produced so far.
func (m *Monitor) Frames() int64 { return m.frames.Load() }

// Done reports whether the source is exhausted.
func (m *Monitor) Done() bool { return m.done.Load() }

// Chain returns the chain being monitored.
func (m *Monitor) Chain() *effectchain.Chain { return m.chain }

// Read fills p with interleaved float32LE frames. It processes at most one
// block per call and returns io.EOF once the source is exhausted. A source
// that keeps returning no samples without an error yields io.ErrNoProgress.
func (m *Monitor) Read(p []byte) (int, error) {
	frameBytes := m.channels * bytesPerSample
	frames := min(len(p)/frameBytes, m.blockSize)
	if frames == 0 {
		if m.done.Load() {
			return 0, io.EOF
		}
		return 0, io.ErrShortBuffer
	}

	out, err := m.process(frames)
	for i, v := range out {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(v))
	}
	return len(out) * bytesPerSample, err
}

// process runs up to frames frames through the chain and returns the
// interleaved output. At source end it returns what was read and io.EOF.
func (m *Monitor) process(frames int) ([]float32, error) {
	if m.done.Load() {
		return nil, io.EOF
	}

	want := frames * m.inChannels
	got, empty := 0, 0
	var srcErr error
	for got < want {
		n, err := m.src.ReadSamples(m.in[got:want])
		got += n
		if err != nil {
			srcErr = err
			break
		}
		if n > 0 {
			empty = 0
			continue
		}
		// A partial block is processed as is; only a pull that got nothing
		// keeps asking.
		if got > 0 {
			break
		}
		if empty++; empty >= maxEmptyReads {
			m.log.WithField("reads", empty).Warn("source stalled")
			return nil, fmt.Errorf("host: %w", io.ErrNoProgress)
		}
	}

	if srcErr != nil {
		m.done.Store(true)
		if !errors.Is(srcErr, io.EOF) {
			m.log.WithError(srcErr).Error("source read failed")
			return nil, fmt.Errorf("host: %w", srcErr)
		}
		m.log.WithField("frames", m.frames.Load()+int64(got/m.inChannels)).Info("source finished")
	}

	n := core.Downmix(m.mono, m.in[:got], m.inChannels)
	m.chain.ProcessBlock(m.mono[:n])
	core.FanOut(m.out, m.mono[:n], m.channels)
	m.frames.Add(int64(n))

	if srcErr != nil {
		return m.out[:n*m.channels], io.EOF
	}
	return m.out[:n*m.channels], nil
}

// Render streams the whole source through the chain into a 16-bit WAV on
// w. It stops early when ctx is cancelled and still finalizes the file.
func (m *Monitor) Render(ctx context.Context, w io.WriteSeeker) error {
	wav := audio.NewWAVWriter(w, m.sampleRate, m.channels)

	var err error
	for err == nil {
		if cerr := ctx.Err(); cerr != nil {
			err = cerr
			break
		}

		var out []float32
		out, err = m.process(m.blockSize)
		if werr := wav.Write(out); werr != nil {
			err = werr
		}
	}

	if cerr := wav.Close(); cerr != nil && (err == nil || errors.Is(err, io.EOF)) {
		return cerr
	}
	if errors.Is(err, io.EOF) {
		m.log.WithField("frames", wav.Frames()).Info("render finished")
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		m.log.WithField("frames", wav.Frames()).Warn("render cancelled")
	}
	return err
}
