package lockfile

import (
	"encoding/json"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// npmPackageEntry mirrors the subset of npm's package-lock.json v2+
// "packages" entry shape this importer understands.
type npmPackageEntry struct {
	Version      string            `json:"version"`
	Resolved     string            `json:"resolved"`
	Integrity    string            `json:"integrity"`
	Dependencies map[string]string `json:"dependencies"`
}

// npmLockfile mirrors the top-level shape of package-lock.json.
type npmLockfile struct {
	Name            string                     `json:"name"`
	Version         string                     `json:"version"`
	LockfileVersion int                         `json:"lockfileVersion"`
	Packages        map[string]npmPackageEntry  `json:"packages"`
	Dependencies    map[string]npmPackageEntry  `json:"dependencies"`
}

// ImportNPM parses an npm package-lock.json document and converts it to
// the canonical Lockfile shape. Only read access is supported: the
// result is never round-tripped back to npm's format.
func ImportNPM(data []byte, generatedAt int64) (*Lockfile, error) {
	var npm npmLockfile
	if err := json.Unmarshal(data, &npm); err != nil {
		return nil, pantryerr.Wrap(pantryerr.KindLockfileParse, err, "parsing npm package-lock.json")
	}

	out := New(npm.Version, generatedAt)
	seen := make(map[string]bool)

	// LockfileVersion 2+: packages are keyed by path, "" is the root and
	// node_modules/<name> entries are the resolved dependency tree.
	for path, pkg := range npm.Packages {
		name := npmPackageNameFromPath(path)
		if name == "" {
			continue
		}
		seen[name] = true
		out.Put(Entry{
			Name:         name,
			Version:      pkg.Version,
			Source:       "npm",
			Resolved:     pkg.Resolved,
			Integrity:    pkg.Integrity,
			Dependencies: pkg.Dependencies,
		})
	}

	// Legacy v1 format (npm 5/6): flat "dependencies" map keyed by name.
	// Skipped for any name already captured from the v2+ "packages" block.
	for name, pkg := range npm.Dependencies {
		if seen[name] {
			continue
		}
		out.Put(Entry{
			Name:         name,
			Version:      pkg.Version,
			Source:       "npm",
			Resolved:     pkg.Resolved,
			Integrity:    pkg.Integrity,
			Dependencies: pkg.Dependencies,
		})
	}

	return out, nil
}

// npmPackageNameFromPath extracts a package name from an npm v2+
// "packages" key, which is a node_modules path such as
// "node_modules/lodash" or a nested
// "node_modules/foo/node_modules/lodash".
func npmPackageNameFromPath(path string) string {
	const marker = "node_modules/"
	idx := lastIndex(path, marker)
	if idx == -1 {
		return ""
	}
	name := path[idx+len(marker):]
	if name == "" {
		return ""
	}
	return name
}

func lastIndex(s, substr string) int {
	last := -1
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			last = i
		}
	}
	return last
}
