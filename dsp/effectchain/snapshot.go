package effectchain

import (
	"maps"
	"slices"
)

// PedalState is the persisted state of one pedal.
type PedalState struct {
	Enabled bool               `json:"enabled"`
	Params  map[string]float64 `json:"params"`
}

// Snapshot maps pedal type names to their state.
type Snapshot map[string]PedalState

// Snapshot exports enablement and parameters for every pedal.
func (c *Chain) Snapshot() Snapshot {
	out := make(Snapshot, len(c.slots))
	for _, s := range c.slots {
		out[s.name] = PedalState{
			Enabled: s.enabled.Load(),
			Params:  s.fx.Params().Snapshot(),
		}
	}

	return out
}

// ApplySnapshot imports snap. Pedals missing from snap keep their state,
// unknown parameter keys are ignored, and the names of entries that match
// no pedal are returned sorted.
func (c *Chain) ApplySnapshot(snap Snapshot) []string {
	var skipped []string
	for _, name := range slices.Sorted(maps.Keys(snap)) {
		s, err := c.lookup(name)
		if err != nil {
			skipped = append(skipped, name)
			continue
		}

		state := snap[name]
		s.fx.Params().Apply(state.Params)
		s.enabled.Store(state.Enabled)
	}

	return skipped
}
