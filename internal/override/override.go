// Package override implements the top-level pin map built
// from a manifest's `overrides` and `resolutions` fields. It reuses the
// catalog package's version-range grammar, since overrides and catalog
// entries share the same validator.
package override

import (
	"github.com/home-lang/pantry/internal/catalog"
	"github.com/home-lang/pantry/internal/manifest"
)

// Map is a mapping package-name -> replacement version-range.
type Map struct {
	entries map[string]string
}

// NewMap constructs an empty override Map.
func NewMap() *Map {
	return &Map{entries: make(map[string]string)}
}

// Set inserts or replaces pkg's override range.
func (m *Map) Set(pkg, rng string) {
	m.entries[pkg] = rng
}

// HasOverride reports whether pkg has a registered override.
func (m *Map) HasOverride(pkg string) bool {
	_, ok := m.entries[pkg]
	return ok
}

// Get returns pkg's override range, if any.
func (m *Map) Get(pkg string) (string, bool) {
	v, ok := m.entries[pkg]
	return v, ok
}

// Len reports how many packages have an override.
func (m *Map) Len() int {
	return len(m.entries)
}

// Apply returns the override for pkg if one is registered, else original.
// Overrides are applied after catalog resolution and before conflict
// reconciliation.
func (m *Map) Apply(pkg, original string) string {
	if v, ok := m.entries[pkg]; ok {
		return v
	}
	return original
}

// FromManifest parses both `overrides` and `resolutions` into a single
// Map. On a name collision between the two sources, `overrides` wins,
// since it is consulted last in the merge below. Order-preserving and
// deterministic.
func FromManifest(m *manifest.Manifest) *Map {
	om := NewMap()
	for pkg, rng := range m.Resolutions {
		if catalog.IsValidRange(rng) {
			om.Set(pkg, rng)
		}
	}
	for pkg, rng := range m.Overrides {
		if catalog.IsValidRange(rng) {
			om.Set(pkg, rng)
		}
	}
	return om
}
