package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("backend unavailable")

type stubBackend struct {
	name      string
	metadata  Metadata
	failErr   error
	versions  []string
}

func (s *stubBackend) Name() string { return s.name }
func (s *stubBackend) FetchMetadata(ctx context.Context, name string) (Metadata, error) {
	if s.failErr != nil {
		return Metadata{}, s.failErr
	}
	return s.metadata, nil
}
func (s *stubBackend) DownloadTarball(ctx context.Context, name, version, url string) ([]byte, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	return []byte("body"), nil
}
func (s *stubBackend) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return nil, s.failErr
}
func (s *stubBackend) ListVersions(ctx context.Context, name string) ([]string, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	return s.versions, nil
}

func TestRegistryManagerTriesHighestPriorityFirst(t *testing.T) {
	primary := &stubBackend{name: "primary", metadata: Metadata{Name: "p", Versions: []VersionInfo{{Version: "1.0.0"}}}}
	secondary := &stubBackend{name: "secondary", failErr: errBoom}

	m := NewRegistryManager()
	m.AddBackend(secondary, 10)
	m.AddBackend(primary, 0)

	meta, result, err := m.FetchMetadata(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "p", meta.Name)
	require.Equal(t, []string{"primary"}, result.Attempted)
}

func TestRegistryManagerFailsOverOnError(t *testing.T) {
	primary := &stubBackend{name: "primary", failErr: errBoom}
	secondary := &stubBackend{name: "secondary", metadata: Metadata{Name: "p"}}

	m := NewRegistryManager()
	m.AddBackend(primary, 0)
	m.AddBackend(secondary, 10)

	meta, result, err := m.FetchMetadata(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "p", meta.Name)
	require.Equal(t, []string{"primary", "secondary"}, result.Attempted)
	require.Contains(t, result.Errors, "primary")
}

func TestRegistryManagerReturnsErrorWhenAllBackendsFail(t *testing.T) {
	primary := &stubBackend{name: "primary", failErr: errBoom}
	m := NewRegistryManager()
	m.AddBackend(primary, 0)

	_, _, err := m.FetchMetadata(context.Background(), "p")
	require.Error(t, err)
}

func TestRegistryManagerSkipsDisabledBackends(t *testing.T) {
	primary := &stubBackend{name: "primary", metadata: Metadata{Name: "wrong"}}
	secondary := &stubBackend{name: "secondary", metadata: Metadata{Name: "p"}}

	m := NewRegistryManager()
	m.AddBackend(primary, 0)
	m.AddBackend(secondary, 10)
	m.SetEnabled("primary", false)

	meta, result, err := m.FetchMetadata(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "p", meta.Name)
	require.Equal(t, []string{"secondary"}, result.Attempted)
}

func TestRegistryManagerListVersionsAndDownloadTarballFailover(t *testing.T) {
	primary := &stubBackend{name: "primary", failErr: errBoom}
	secondary := &stubBackend{name: "secondary", versions: []string{"1.0.0"}}

	m := NewRegistryManager()
	m.AddBackend(primary, 0)
	m.AddBackend(secondary, 10)

	versions, _, err := m.ListVersions(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, []string{"1.0.0"}, versions)

	body, _, err := m.DownloadTarball(context.Background(), "p", "1.0.0", "url")
	require.NoError(t, err)
	require.Equal(t, []byte("body"), body)
}
