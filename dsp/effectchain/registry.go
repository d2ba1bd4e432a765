package effectchain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Factory builds one pedal instance at the nominal sample rate.
type Factory func() Effect

// Entry describes one registered pedal type.
type Entry struct {
	Name     string
	Category Category
	Factory  Factory
}

// Registry maps pedal type names to their category and factory.
// Names match case- and punctuation-insensitively, so "Blues Driver" and
// "bluesdriver" are the same type.
type Registry struct {
	entries []Entry
	index   map[string]int
}

var errDuplicateEffect = errors.New("duplicate effect type")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a pedal type.
func (r *Registry) Register(name string, category Category, factory Factory) error {
	key := normalizeName(name)
	if key == "" {
		return errors.New("empty effect type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if !category.Valid() {
		return fmt.Errorf("invalid category for %s: %v", name, category)
	}

	if _, exists := r.index[key]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, name)
	}

	r.index[key] = len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Category: category, Factory: factory})

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, category Category, factory Factory) {
	err := r.Register(name, category, factory)
	if err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the entry for name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.index[normalizeName(name)]
	if !ok {
		return Entry{}, false
	}

	return r.entries[i], true
}

// Entries returns the registered types in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)

	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.entries) }

// normalizeName folds a pedal type name to lower-case letters and digits.
func normalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}
