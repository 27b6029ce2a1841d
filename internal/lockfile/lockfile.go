// Package lockfile implements the canonical on-disk dependency lock
// format plus read-only import adapters for foreign lockfile dialects
// (npm's package-lock.json, Yarn classic and Yarn Berry).
package lockfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// FileName is the on-disk name of the canonical lockfile.
const FileName = ".pantry-lock"

// FormatVersion is the lockfile_version field written by this
// implementation.
const FormatVersion = 1

// Entry records one resolved package in the lockfile.
type Entry struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Source       string            `json:"source,omitempty"` // one of: local, pkgx, github, npm
	URL          string            `json:"url,omitempty"`
	Resolved     string            `json:"resolved,omitempty"`
	Integrity    string            `json:"integrity,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Lockfile is the canonical, tool-owned dependency lock.
type Lockfile struct {
	Version         string           `json:"version"`
	LockfileVersion int              `json:"lockfile_version"`
	GeneratedAt     int64            `json:"generated_at"`
	Packages        map[string]Entry `json:"packages"`
}

// New constructs an empty Lockfile stamped with the current format
// version. generatedAt is taken as a parameter (rather than computed
// internally) so callers control the timestamp without this package
// reaching for wall-clock time.
func New(version string, generatedAt int64) *Lockfile {
	return &Lockfile{
		Version:         version,
		LockfileVersion: FormatVersion,
		GeneratedAt:     generatedAt,
		Packages:        make(map[string]Entry),
	}
}

// Put inserts or replaces a package entry, keyed by "{name}@{version}"
// so two versions of the same package coexist (mirrors
// internal/cache.cacheKey's composite keying).
func (l *Lockfile) Put(e Entry) {
	l.Packages[e.Name+"@"+e.Version] = e
}

// Encode serializes l as canonical, sorted JSON: map keys are emitted in
// lexicographic order regardless of Go's (already-sorted) map
// marshaling, making the byte-for-byte output stable across encoder
// implementations.
func (l *Lockfile) Encode() ([]byte, error) {
	keys := make([]string, 0, len(l.Packages))
	for k := range l.Packages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString("{\n")
	fmt.Fprintf(&buf, "  \"version\": %s,\n", mustMarshal(l.Version))
	fmt.Fprintf(&buf, "  \"lockfile_version\": %d,\n", l.LockfileVersion)
	fmt.Fprintf(&buf, "  \"generated_at\": %d,\n", l.GeneratedAt)
	buf.WriteString("  \"packages\": {")
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")
		buf.Write(mustMarshal(k))
		buf.WriteString(": ")
		entryJSON, err := json.Marshal(l.Packages[k])
		if err != nil {
			return nil, err
		}
		buf.Write(entryJSON)
	}
	if len(keys) > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("}\n}\n")
	return buf.Bytes(), nil
}

func mustMarshal(s string) []byte {
	b, _ := json.Marshal(s)
	return b
}

// WriteFile encodes l and writes it to path.
func WriteFile(path string, l *Lockfile) error {
	data, err := l.Encode()
	if err != nil {
		return pantryerr.Wrap(pantryerr.KindLockfileParse, err, "encoding lockfile")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return pantryerr.Wrap(pantryerr.KindLockfileParse, err, "writing lockfile").WithPath(path)
	}
	return nil
}

// Decode parses previously written lockfile bytes. Unknown top-level
// fields are ignored by encoding/json's default decode behavior;
// per-entry unknown fields are likewise dropped, since Entry does not
// preserve arbitrary extra keys.
func Decode(data []byte) (*Lockfile, error) {
	var l Lockfile
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, pantryerr.Wrap(pantryerr.KindLockfileParse, err, "parsing lockfile")
	}
	if l.Packages == nil {
		l.Packages = make(map[string]Entry)
	}
	return &l, nil
}

// ReadFile reads and decodes the lockfile at path.
func ReadFile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pantryerr.Wrap(pantryerr.KindLockfileParse, err, "reading lockfile").WithPath(path)
	}
	return Decode(data)
}

// Equal reports whether a and b agree on version, lockfile_version, and
// every package entry (name, version, source, url, resolved, integrity,
// dependencies). GeneratedAt is deliberately excluded.
func Equal(a, b *Lockfile) bool {
	if a.Version != b.Version || a.LockfileVersion != b.LockfileVersion {
		return false
	}
	if len(a.Packages) != len(b.Packages) {
		return false
	}
	for k, ea := range a.Packages {
		eb, ok := b.Packages[k]
		if !ok {
			return false
		}
		if !entriesEqual(ea, eb) {
			return false
		}
	}
	return true
}

func entriesEqual(a, b Entry) bool {
	if a.Name != b.Name || a.Version != b.Version || a.Source != b.Source ||
		a.URL != b.URL || a.Resolved != b.Resolved || a.Integrity != b.Integrity {
		return false
	}
	if len(a.Dependencies) != len(b.Dependencies) {
		return false
	}
	for k, v := range a.Dependencies {
		if b.Dependencies[k] != v {
			return false
		}
	}
	return true
}

// VersionMismatch records one package installed at a version that
// disagrees with the lockfile's recorded version.
type VersionMismatch struct {
	Package  string
	Expected string
	Actual   string
}

// ValidationResult is the outcome of ValidateAgainstInstalled.
type ValidationResult struct {
	Valid           bool
	Missing         []string
	VersionMismatch []VersionMismatch
}

// ValidateAgainstInstalled checks installed (pkg -> version) against l's
// recorded packages. Valid iff there are no missing packages and no
// version mismatches.
func (l *Lockfile) ValidateAgainstInstalled(installed map[string]string) ValidationResult {
	var result ValidationResult
	keys := make([]string, 0, len(l.Packages))
	for k := range l.Packages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		entry := l.Packages[key]
		actual, ok := installed[entry.Name]
		if !ok {
			result.Missing = append(result.Missing, entry.Name)
			continue
		}
		if actual != entry.Version {
			result.VersionMismatch = append(result.VersionMismatch, VersionMismatch{
				Package:  entry.Name,
				Expected: entry.Version,
				Actual:   actual,
			})
		}
	}
	result.Valid = len(result.Missing) == 0 && len(result.VersionMismatch) == 0
	return result
}
