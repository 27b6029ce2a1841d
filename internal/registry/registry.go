// Package registry adapts pantry's resolution and cache layers to one or
// more package registry backends over HTTP, with priority-ordered
// failover across backends.
//
// The capability-interface shape (Publish/Fetch/Find/List generalized
// here to FetchMetadata/DownloadTarball/Search/ListVersions for an HTTP
// registry rather than an in-memory content store) builds on
// hashicorp/go-retryablehttp + cenkalti/backoff/v4 as the shared HTTP
// transport.
package registry

import "context"

// VersionInfo is one published version of a package.
type VersionInfo struct {
	Version string
	TarballURL string
	SHA256     string
	Deprecated bool
}

// Metadata is a registry's view of a package across all its versions.
type Metadata struct {
	Name     string
	Versions []VersionInfo
	DistTags map[string]string
}

// SearchResult is one hit from Backend.Search.
type SearchResult struct {
	Name        string
	Description string
	Version     string
}

// Backend is the capability interface a registry adapter implements.
// Every method takes a context so a caller can bound or cancel the
// underlying network call.
type Backend interface {
	Name() string
	FetchMetadata(ctx context.Context, name string) (Metadata, error)
	DownloadTarball(ctx context.Context, name, version, url string) ([]byte, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
	ListVersions(ctx context.Context, name string) ([]string, error)
}
