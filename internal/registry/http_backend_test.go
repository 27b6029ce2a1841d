package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPBackendFetchMetadataDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Name":"left-pad","Versions":[{"Version":"1.3.0"}],"DistTags":{"latest":"1.3.0"}}`))
	}))
	defer srv.Close()

	b := NewHTTPBackend("test", srv.URL)
	meta, err := b.FetchMetadata(context.Background(), "left-pad")
	require.NoError(t, err)
	require.Equal(t, "left-pad", meta.Name)
	require.Len(t, meta.Versions, 1)
	require.Equal(t, "1.3.0", meta.Versions[0].Version)
}

func TestHTTPBackendFetchMetadataNotFoundIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	b := NewHTTPBackend("test", srv.URL)
	_, err := b.FetchMetadata(context.Background(), "does-not-exist")
	require.Error(t, err)
}

func TestHTTPBackendListVersionsDerivesFromMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Name":"p","Versions":[{"Version":"1.0.0"},{"Version":"2.0.0"}]}`))
	}))
	defer srv.Close()

	b := NewHTTPBackend("test", srv.URL)
	versions, err := b.ListVersions(context.Background(), "p")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"1.0.0", "2.0.0"}, versions)
}

func TestHTTPBackendDownloadTarballReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tarball bytes"))
	}))
	defer srv.Close()

	b := NewHTTPBackend("test", srv.URL)
	body, err := b.DownloadTarball(context.Background(), "p", "1.0.0", srv.URL+"/p-1.0.0.tgz")
	require.NoError(t, err)
	require.Equal(t, []byte("tarball bytes"), body)
}

func TestHTTPBackendBareBackendDoesNotSupportSearch(t *testing.T) {
	b := NewHTTPBackend("test", "https://example.test")
	_, err := b.Search(context.Background(), "left-pad")
	require.Error(t, err)
}
