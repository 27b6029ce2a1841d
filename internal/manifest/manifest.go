// Package manifest parses a workspace manifest file (package.json-shaped
// JSON or JSONC) into the fields the rest of the engine consumes: the four
// dependency maps, scripts, overrides/resolutions, catalog(s), and the
// workspaces block.
//
// Comments are stripped with a JSONC-aware decoder before handing the
// bytes to encoding/json, and a custom UnmarshalJSON is preferred over a
// bespoke parser so callers keep ordinary struct access.
package manifest

import (
	"encoding/json"
	"os"

	"github.com/muhammadmuzzammil1998/jsonc"
	"github.com/pkg/errors"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// Manifest is the parsed form of a project's dependency manifest.
type Manifest struct {
	Name                 string            `json:"name,omitempty"`
	Version               string            `json:"version,omitempty"`
	Dependencies          map[string]string `json:"dependencies,omitempty"`
	DevDependencies       map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies      map[string]string `json:"peerDependencies,omitempty"`
	OptionalDependencies  map[string]string `json:"optionalDependencies,omitempty"`
	TrustedDependencies   []string          `json:"trustedDependencies,omitempty"`
	Scripts               map[string]string `json:"scripts,omitempty"`
	Overrides              map[string]string `json:"overrides,omitempty"`
	Resolutions            map[string]string `json:"resolutions,omitempty"`
	Catalog                map[string]string `json:"catalog,omitempty"`
	Catalogs               map[string]map[string]string `json:"catalogs,omitempty"`
	Workspaces             *WorkspacesField  `json:"workspaces,omitempty"`
}

// WorkspacesField mirrors the `workspaces` block, which can carry its own
// catalog/catalogs/packages.
type WorkspacesField struct {
	Packages []string                      `json:"packages,omitempty"`
	Catalog  map[string]string              `json:"catalog,omitempty"`
	Catalogs map[string]map[string]string   `json:"catalogs,omitempty"`
}

// UnmarshalJSON supports two shapes for `workspaces`: a bare array of glob
// patterns (`"workspaces": ["packages/*"]`), or an object carrying
// `packages`/`catalog`/`catalogs`. A non-array, non-object value is
// silently ignored, per the soft-parse rule callers expect.
func (w *WorkspacesField) UnmarshalJSON(data []byte) error {
	var asArray []string
	if err := json.Unmarshal(data, &asArray); err == nil {
		w.Packages = asArray
		return nil
	}

	type alias WorkspacesField
	var asObject alias
	if err := json.Unmarshal(data, &asObject); err == nil {
		*w = WorkspacesField(asObject)
		return nil
	}

	// Neither shape parsed; leave w zero-valued rather than failing the
	// whole manifest parse.
	return nil
}

// Load reads and parses a manifest file from disk, stripping JSONC
// comments first.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}
	return Parse(raw)
}

// Parse decodes JSON or JSONC manifest bytes into a Manifest. Comments
// (`//` and `/* */`) are stripped before decoding.
func Parse(raw []byte) (*Manifest, error) {
	stripped := jsonc.ToJSON(raw)

	var m Manifest
	if err := json.Unmarshal(stripped, &m); err != nil {
		return nil, pantryerr.Wrap(pantryerr.KindInvalidManifest, err, "manifest is not valid JSON/JSONC")
	}
	return &m, nil
}

// EffectiveCatalog returns the manifest's default catalog table, applying
// the precedence rule: workspaces.catalog wins over the
// top-level catalog when both are present.
func (m *Manifest) EffectiveCatalog() map[string]string {
	if m.Workspaces != nil && len(m.Workspaces.Catalog) > 0 {
		return m.Workspaces.Catalog
	}
	return m.Catalog
}

// EffectiveCatalogs merges named catalogs from both locations, with
// workspaces.catalogs winning per-name on collision.
func (m *Manifest) EffectiveCatalogs() map[string]map[string]string {
	merged := make(map[string]map[string]string, len(m.Catalogs))
	for name, versions := range m.Catalogs {
		merged[name] = versions
	}
	if m.Workspaces != nil {
		for name, versions := range m.Workspaces.Catalogs {
			merged[name] = versions
		}
	}
	return merged
}

// WorkspacePackages returns the glob patterns identifying workspace
// member directories, from either `workspaces` (array or object form).
func (m *Manifest) WorkspacePackages() []string {
	if m.Workspaces == nil {
		return nil
	}
	return m.Workspaces.Packages
}
