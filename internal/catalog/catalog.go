// Package catalog implements the workspace catalog model:
// named version tables, the `catalog:[name]` reference protocol, and the
// version-range grammar shared with internal/override.
//
// Building a catalog from a parsed manifest never fails on a single entry
// with an invalid range: that entry is dropped and recorded in
// Diagnostics while the rest of the catalog is kept.
package catalog

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/home-lang/pantry/internal/manifest"
)

// catalogPrefix is the exact protocol prefix a version-range string must
// start with to be a catalog reference.
const catalogPrefix = "catalog:"

// DefaultCatalogName is the reserved name of the default (unnamed) catalog.
const DefaultCatalogName = ""

// Catalog is a named version table.
type Catalog struct {
	Name     string
	versions map[string]string
}

// NewCatalog constructs an empty catalog with the given name.
func NewCatalog(name string) *Catalog {
	return &Catalog{Name: name, versions: make(map[string]string)}
}

// AddVersion inserts or replaces pkg's range. Both arguments are copied
// into the catalog's own storage; callers are free to mutate or discard
// the strings they passed in afterwards.
func (c *Catalog) AddVersion(pkg, rng string) {
	p := string([]byte(pkg))
	r := string([]byte(rng))
	c.versions[p] = r
}

// GetVersion returns pkg's stored range, or (..., false) if absent.
func (c *Catalog) GetVersion(pkg string) (string, bool) {
	v, ok := c.versions[pkg]
	return v, ok
}

// HasPackage reports whether pkg has a stored range. Invariant:
// HasPackage(p) <=> GetVersion(p) returns ok=true.
func (c *Catalog) HasPackage(pkg string) bool {
	_, ok := c.versions[pkg]
	return ok
}

// Len returns the number of distinct packages in the catalog.
func (c *Catalog) Len() int {
	return len(c.versions)
}

// IsCatalogReference reports whether s is a catalog reference, i.e.
// begins with the exact 8-byte prefix "catalog:".
func IsCatalogReference(s string) bool {
	return strings.HasPrefix(s, catalogPrefix)
}

// GetCatalogName extracts the catalog name from a reference string,
// trimming ASCII whitespace from both ends of the suffix. Returns
// (name, true) if s is a catalog reference, else ("", false). An empty or
// all-whitespace suffix yields (DefaultCatalogName, true).
func GetCatalogName(s string) (string, bool) {
	if !IsCatalogReference(s) {
		return "", false
	}
	suffix := s[len(catalogPrefix):]
	return strings.Trim(suffix, " \t\r\n"), true
}

// IsValidRange reports whether rng satisfies the version-range grammar:
// exact M.N.P, a comparator-prefixed range, latest/next/*, a GitHub URL
// form, or workspace: followed by *, ^, ~ or any non-empty range.
func IsValidRange(rng string) bool {
	if rng == "" {
		return false
	}
	switch rng {
	case "latest", "next", "*":
		return true
	}
	if strings.HasPrefix(rng, "workspace:") {
		suffix := rng[len("workspace:"):]
		switch suffix {
		case "*", "^", "~":
			return true
		}
		return suffix != "" // workspace:<range> — any non-empty range string
	}
	if strings.HasPrefix(rng, "github:") ||
		strings.HasPrefix(rng, "https://github.com/") ||
		strings.HasPrefix(rng, "git+https://") {
		return true
	}
	for _, prefix := range []string{"^", "~", ">=", "<=", ">", "<", "="} {
		if strings.HasPrefix(rng, prefix) {
			rest := strings.TrimPrefix(rng, prefix)
			_, err := semver.NewVersion(rest)
			return err == nil
		}
	}
	_, err := semver.NewVersion(rng)
	return err == nil
}

// Manager holds at most one default catalog plus zero or more named
// catalogs, keyed case-sensitively by name.
type Manager struct {
	defaultCatalog *Catalog
	named          map[string]*Catalog
	diagnostics    []string
}

// NewManager constructs an empty CatalogManager.
func NewManager() *Manager {
	return &Manager{named: make(map[string]*Catalog)}
}

// Diagnostics returns human-readable notes about entries dropped during
// parsing (invalid ranges, etc).
func (m *Manager) Diagnostics() []string {
	return m.diagnostics
}

func (m *Manager) diagnose(format string, args ...interface{}) {
	m.diagnostics = append(m.diagnostics, fmt.Sprintf(format, args...))
}

// ResolveCatalogReference resolves pkg against ref. Returns (version,
// true) on success; ("", false) if ref is not a catalog reference, or the
// named catalog / package is absent.
func (m *Manager) ResolveCatalogReference(pkg, ref string) (string, bool) {
	name, isRef := GetCatalogName(ref)
	if !isRef {
		return "", false
	}
	cat := m.catalogByName(name)
	if cat == nil {
		return "", false
	}
	return cat.GetVersion(pkg)
}

func (m *Manager) catalogByName(name string) *Catalog {
	if name == DefaultCatalogName {
		return m.defaultCatalog
	}
	return m.named[name]
}

// FromManifest builds a CatalogManager from a parsed manifest, applying
// catalog precedence and soft-parse rules: invalid ranges are dropped
// with a diagnostic rather than failing the whole parse, and catalogs
// left empty are not added. A non-object `workspaces` value is ignored
// by manifest.Parse, but a non-object top-level `catalog`/`catalogs` or
// a non-string version value is not dropped: manifest.Parse rejects the
// whole manifest with InvalidManifest before this function is reached.
func FromManifest(m *manifest.Manifest) *Manager {
	mgr := NewManager()

	if defaultEntries := m.EffectiveCatalog(); len(defaultEntries) > 0 {
		cat := NewCatalog(DefaultCatalogName)
		for pkg, rng := range defaultEntries {
			if IsValidRange(rng) {
				cat.AddVersion(pkg, rng)
			} else {
				mgr.diagnose("catalog: dropping invalid range %q for package %q", rng, pkg)
			}
		}
		if cat.Len() > 0 {
			mgr.defaultCatalog = cat
		}
	}

	for name, entries := range m.EffectiveCatalogs() {
		cat := NewCatalog(name)
		for pkg, rng := range entries {
			if IsValidRange(rng) {
				cat.AddVersion(pkg, rng)
			} else {
				mgr.diagnose("catalog %q: dropping invalid range %q for package %q", name, rng, pkg)
			}
		}
		if cat.Len() > 0 {
			mgr.named[name] = cat
		}
	}

	return mgr
}
