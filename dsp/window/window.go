// Package window generates analysis windows for spectrum measurements.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeBlackman
	TypeFlatTop
)

// Metadata holds spectral properties of a window type.
type Metadata struct {
	Name         string
	// MainLobeBins is the main lobe half-width in bins: a tone's energy
	// lands within this many bins of its centre.
	MainLobeBins int
	ENBW         float64
}

var (
	hannCoeffs     = []float64{0.5, -0.5}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
	flatTopCoeffs  = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
)

var metadataByType = map[Type]Metadata{
	TypeRectangular: {Name: "Rectangular", MainLobeBins: 1, ENBW: 1},
	TypeHann:        {Name: "Hann", MainLobeBins: 2, ENBW: 1.5},
	TypeBlackman:    {Name: "Blackman", MainLobeBins: 3, ENBW: 1.7268},
	TypeFlatTop:     {Name: "FlatTop", MainLobeBins: 5, ENBW: 3.7702},
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic generates the periodic (DFT-even) form instead of the
// symmetric one.
func WithPeriodic() Option {
	return func(cfg *config) { cfg.periodic = true }
}

// Generate returns length coefficients of window t. Unknown types yield a
// rectangular window.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}

	return out
}

// Apply multiplies buf in place by window t.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// Info returns the metadata of t, or the zero Metadata for unknown types.
func Info(t Type) Metadata {
	return metadataByType[t]
}

func (t Type) String() string {
	if m, ok := metadataByType[t]; ok {
		return m.Name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType resolves a window name, ignoring case ("hann", "FlatTop").
func ParseType(name string) (Type, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for t, m := range metadataByType {
		if strings.ToLower(m.Name) == want {
			return t, nil
		}
	}
	if want == "rect" {
		return TypeRectangular, nil
	}
	return 0, fmt.Errorf("window: unknown type %q", name)
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeFlatTop:
		return cosineFromCoeffs(x, flatTopCoeffs)
	}
	return 1
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
