package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/home-lang/pantry/internal/manifest"
)

func writeJSON(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverExpandsWorkspaceGlobs(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "packages", "core", "package.json"), `{"name": "@acme/core"}`)
	writeJSON(t, filepath.Join(root, "packages", "ui", "package.json"), `{"name": "@acme/ui"}`)
	writeJSON(t, filepath.Join(root, "apps", "web", "package.json"), `{"name": "@acme/web"}`)

	m, err := manifest.Parse([]byte(`{"workspaces": ["packages/*"]}`))
	require.NoError(t, err)

	members, err := Discover(root, m)
	require.NoError(t, err)
	require.Len(t, members, 2)

	names := map[string]bool{}
	for _, mem := range members {
		names[mem.Name] = true
	}
	require.True(t, names["@acme/core"])
	require.True(t, names["@acme/ui"])
	require.False(t, names["@acme/web"])
}

func TestDiscoverReturnsNilForManifestWithoutWorkspaces(t *testing.T) {
	root := t.TempDir()
	m, err := manifest.Parse([]byte(`{}`))
	require.NoError(t, err)

	members, err := Discover(root, m)
	require.NoError(t, err)
	require.Nil(t, members)
}
