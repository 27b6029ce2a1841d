package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// newSharedHTTPClient builds the retryablehttp.Client an HTTPBackend is
// constructed on. Every call returns a new client, so each backend has its
// own connection pool; all of them use the same retry policy.
func newSharedHTTPClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	return client
}

// HTTPBackend is a generic JSON-over-HTTP registry backend. npm.go and
// github.go build package-index-specific request/response shapes on top
// of it; a bare HTTPBackend also serves as the "generic custom
// HTTP-based backend" SPEC_FULL.md names.
type HTTPBackend struct {
	name           string
	baseURL        string
	client         *retryablehttp.Client
	metadataPath   func(name string) string
	tarballRequest func(name, version, url string) (*http.Request, error)
}

// NewHTTPBackend constructs a generic backend rooted at baseURL, expecting
// metadata at baseURL/<name> returning the Metadata JSON shape directly.
func NewHTTPBackend(name, baseURL string) *HTTPBackend {
	return &HTTPBackend{
		name:    name,
		baseURL: baseURL,
		client:  newSharedHTTPClient(),
		metadataPath: func(pkg string) string {
			return baseURL + "/" + pkg
		},
	}
}

func (b *HTTPBackend) Name() string { return b.name }

// withBackoff retries op with exponential backoff, bounded to maxElapsed,
// for transient failures op itself reports via a non-nil error. This
// sits above retryablehttp's per-request retries: it covers failures
// that persist across several already-retried requests (e.g. a backend
// that is down for a few seconds), giving RegistryManager a bounded wait
// before it gives up and fails over to the next backend.
func withBackoff(ctx context.Context, maxElapsed time.Duration, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxElapsed
	return backoff.Retry(op, backoff.WithContext(policy, ctx))
}

func (b *HTTPBackend) doJSON(ctx context.Context, url string, out any) error {
	return withBackoff(ctx, 10*time.Second, func() error {
		req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(pantryerr.Wrap(pantryerr.KindNetworkUnavailable, err, "building registry request"))
		}
		req.Request = req.Request.WithContext(ctx)
		resp, err := b.client.Do(req)
		if err != nil {
			return pantryerr.Wrap(pantryerr.KindNetworkUnavailable, err, "requesting "+url)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(pantryerr.New(pantryerr.KindEnvironmentNotFound, "package not found at "+url))
		}
		if resp.StatusCode >= 500 {
			return pantryerr.New(pantryerr.KindNetworkUnavailable, fmt.Sprintf("registry returned %d for %s", resp.StatusCode, url))
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(pantryerr.New(pantryerr.KindNetworkUnavailable, fmt.Sprintf("registry returned %d for %s", resp.StatusCode, url)))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return pantryerr.Wrap(pantryerr.KindNetworkUnavailable, err, "reading response body")
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(pantryerr.Wrap(pantryerr.KindNetworkUnavailable, err, "decoding registry response"))
		}
		return nil
	})
}

func (b *HTTPBackend) FetchMetadata(ctx context.Context, name string) (Metadata, error) {
	var meta Metadata
	if err := b.doJSON(ctx, b.metadataPath(name), &meta); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

func (b *HTTPBackend) ListVersions(ctx context.Context, name string) ([]string, error) {
	meta, err := b.FetchMetadata(ctx, name)
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(meta.Versions))
	for _, v := range meta.Versions {
		versions = append(versions, v.Version)
	}
	return versions, nil
}

func (b *HTTPBackend) DownloadTarball(ctx context.Context, name, version, url string) ([]byte, error) {
	var body []byte
	err := withBackoff(ctx, 30*time.Second, func() error {
		req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(pantryerr.Wrap(pantryerr.KindNetworkUnavailable, err, "building tarball request"))
		}
		req.Request = req.Request.WithContext(ctx)
		resp, err := b.client.Do(req)
		if err != nil {
			return pantryerr.Wrap(pantryerr.KindNetworkUnavailable, err, "downloading "+url)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return pantryerr.New(pantryerr.KindNetworkUnavailable, fmt.Sprintf("registry returned %d for %s", resp.StatusCode, url))
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(pantryerr.New(pantryerr.KindNetworkUnavailable, fmt.Sprintf("registry returned %d for %s", resp.StatusCode, url)))
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return pantryerr.Wrap(pantryerr.KindNetworkUnavailable, err, "reading tarball body")
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Search is not supported by the generic backend. NPMBackend overrides it
// with npm's search endpoint; GitHubBackend overrides it to return no
// results.
func (b *HTTPBackend) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return nil, pantryerr.New(pantryerr.KindNetworkUnavailable, "backend "+b.name+" does not support search")
}
