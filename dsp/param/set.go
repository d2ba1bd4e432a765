package param

import (
	"errors"
	"fmt"
)

// ErrUnknownParameter is returned when a name does not resolve to a parameter.
var ErrUnknownParameter = errors.New("unknown parameter")

// Set is an ordered, name-indexed group of parameters. Membership is fixed
// at construction.
type Set struct {
	params []*Param
	index  map[string]*Param
}

// NewSet groups params in the given order. Later duplicates of a name are dropped.
func NewSet(params ...*Param) *Set {
	s := &Set{
		params: make([]*Param, 0, len(params)),
		index:  make(map[string]*Param, len(params)),
	}
	for _, p := range params {
		if p == nil {
			continue
		}
		if _, dup := s.index[p.Name()]; dup {
			continue
		}
		s.params = append(s.params, p)
		s.index[p.Name()] = p
	}

	return s
}

// Len returns the number of parameters.
func (s *Set) Len() int { return len(s.params) }

// All returns the parameters in declaration order.
func (s *Set) All() []*Param {
	out := make([]*Param, len(s.params))
	copy(out, s.params)

	return out
}

// Names returns the parameter names in declaration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name()
	}

	return names
}

// Lookup returns the parameter called name.
func (s *Set) Lookup(name string) (*Param, bool) {
	p, ok := s.index[name]
	return p, ok
}

// Set writes v (clamped) to the parameter called name.
func (s *Set) Set(name string, v float64) error {
	p, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	p.Set(v)

	return nil
}

// Value reads the parameter called name.
func (s *Set) Value(name string) (float64, error) {
	p, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	return p.Value(), nil
}

// Snapshot exports every parameter as a name to value map.
func (s *Set) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.params))
	for _, p := range s.params {
		out[p.Name()] = p.Value()
	}

	return out
}

// Apply imports a snapshot. Unknown keys are ignored and missing keys keep
// their current value. It returns how many parameters were written.
func (s *Set) Apply(snapshot map[string]float64) int {
	applied := 0
	for _, p := range s.params {
		v, ok := snapshot[p.Name()]
		if !ok {
			continue
		}
		p.Set(v)
		applied++
	}

	return applied
}

// ResetDefaults restores every parameter to its default.
func (s *Set) ResetDefaults() {
	for _, p := range s.params {
		p.Reset()
	}
}
