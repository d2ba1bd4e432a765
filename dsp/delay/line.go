// Package delay provides the fixed-capacity circular buffers used by the
// time-based pedals.
package delay

import (
	"fmt"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
)

// Line is a circular delay line. Its capacity changes only through Resize.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// SamplesFor converts a duration in milliseconds to a whole number of
// samples at sampleRate, truncating. The result is at least 1.
func SamplesFor(sampleRate, ms float64) int {
	n := int(ms * sampleRate / 1000)
	if n < 1 {
		n = 1
	}
	return n
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Resize reallocates the line to size samples of silence.
// It must not run concurrently with Write or Read.
func (d *Line) Resize(size int) error {
	if size <= 0 {
		return fmt.Errorf("delay size must be > 0: %d", size)
	}
	d.buffer = make([]float64, size)
	d.writePos = 0
	return nil
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads the sample written delay writes ago. Read(Len()) and Read(0)
// both return the oldest sample, the one the next Write replaces.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	readPos := (d.writePos - delay%size + size) % size
	return d.buffer[readPos]
}

// Recirculate runs one feedback-comb step: it returns the oldest sample and
// replaces it with input + oldest*feedback.
func (d *Line) Recirculate(input, feedback float64) float64 {
	out := d.buffer[d.writePos]
	d.Write(input + out*feedback)
	return out
}

// Reset clears line state.
func (d *Line) Reset() {
	core.Zero(d.buffer)
	d.writePos = 0
}
