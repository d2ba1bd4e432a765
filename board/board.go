// Package board reads and writes saved pedalboards.
//
// A saved board is a JSON document:
//
//	{
//	  "name": "Crunch",
//	  "pedals": [
//	    {"type": "Overdrive", "enabled": true, "x": 40, "y": 120,
//	     "knobStates": {"gain": 4.5, "mix": 0.8}}
//	  ]
//	}
//
// Pedal positions are carried through unchanged for whatever front end
// arranges the pedals; the engine ignores them.
package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-pedalboard/dsp/effectchain"
)

// ErrInvalidBoard is returned when a board document fails validation.
var ErrInvalidBoard = errors.New("invalid board")

// fileMode is the mode of newly saved boards. Existing files keep theirs.
const fileMode os.FileMode = 0o644

func logger(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}

// Pedal is one saved pedal.
type Pedal struct {
	Type       string             `json:"type"`
	Enabled    bool               `json:"enabled"`
	X          int                `json:"x"`
	Y          int                `json:"y"`
	KnobStates map[string]float64 `json:"knobStates,omitempty"`
}

// Board is a named, saved pedal arrangement.
type Board struct {
	Name   string  `json:"name"`
	Pedals []Pedal `json:"pedals"`
}

// Position is a pedal's on-screen location.
type Position struct {
	X, Y int
}

// Layout maps pedal type names to positions.
type Layout map[string]Position

// Capture records chain state as a board, in chain order. Pedals absent
// from layout get a zero position.
func Capture(name string, chain *effectchain.Chain, layout Layout) *Board {
	snap := chain.Snapshot()
	b := &Board{Name: name}
	for _, p := range chain.Pedals() {
		pos := layout[p.Name]
		state := snap[p.Name]
		b.Pedals = append(b.Pedals, Pedal{
			Type:       p.Name,
			Enabled:    state.Enabled,
			X:          pos.X,
			Y:          pos.Y,
			KnobStates: state.Params,
		})
	}

	return b
}

// Snapshot converts the board to chain state. A later entry for the same
// type replaces an earlier one.
func (b *Board) Snapshot() effectchain.Snapshot {
	snap := make(effectchain.Snapshot, len(b.Pedals))
	for _, p := range b.Pedals {
		snap[p.Type] = effectchain.PedalState{Enabled: p.Enabled, Params: p.KnobStates}
	}

	return snap
}

// Layout returns the saved pedal positions.
func (b *Board) Layout() Layout {
	layout := make(Layout, len(b.Pedals))
	for _, p := range b.Pedals {
		layout[p.Type] = Position{X: p.X, Y: p.Y}
	}

	return layout
}

// Apply restores enablement and parameters onto chain and returns the
// pedal types the chain does not have. A nil log uses the standard logger.
func (b *Board) Apply(chain *effectchain.Chain, log logrus.FieldLogger) []string {
	unknown := chain.ApplySnapshot(b.Snapshot())
	if len(unknown) > 0 {
		logger(log).WithFields(logrus.Fields{
			"board":   b.Name,
			"unknown": unknown,
		}).Warn("board references pedals that are not in the chain")
	}

	return unknown
}

// Validate checks that every pedal has a type.
func (b *Board) Validate() error {
	for i, p := range b.Pedals {
		if p.Type == "" {
			return fmt.Errorf("%w: pedal %d has no type", ErrInvalidBoard, i)
		}
	}

	return nil
}

// Decode reads one board document from r.
func Decode(r io.Reader) (*Board, error) {
	var b Board
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("board: decode: %w", err)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &b, nil
}

// Encode writes b to w as indented JSON.
func (b *Board) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("board: encode: %w", err)
	}

	return nil
}

// Load reads a board file.
func Load(path string, log logrus.FieldLogger) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger(log).WithFields(logrus.Fields{
		"path":   path,
		"board":  b.Name,
		"pedals": len(b.Pedals),
	}).Debug("board loaded")

	return b, nil
}

// Save writes b to path, replacing any existing file only once the new
// contents are complete. An existing file keeps its permissions.
func (b *Board) Save(path string, log logrus.FieldLogger) error {
	mode := fileMode
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".board-*.json")
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := b.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	// CreateTemp opens with 0600.
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("board: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("board: %w", err)
	}

	logger(log).WithFields(logrus.Fields{
		"path":   path,
		"board":  b.Name,
		"pedals": len(b.Pedals),
	}).Debug("board saved")

	return nil
}
