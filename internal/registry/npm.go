package registry

import (
	"context"
	"net/url"
)

// npmPackageDoc is the subset of an npm registry package document this
// backend reads.
type npmPackageDoc struct {
	Name     string `json:"name"`
	DistTags map[string]string `json:"dist-tags"`
	Versions map[string]struct {
		Version string `json:"version"`
		Dist    struct {
			Tarball   string `json:"tarball"`
			Shasum    string `json:"shasum"`
			Integrity string `json:"integrity"`
		} `json:"dist"`
		Deprecated string `json:"deprecated,omitempty"`
	} `json:"versions"`
}

// NPMBackend talks to an npm-registry-shaped HTTP endpoint (the public
// registry, or a private Verdaccio/Artifactory mirror exposing the same
// document shape).
type NPMBackend struct {
	*HTTPBackend
}

// NewNPMBackend constructs a backend rooted at baseURL (e.g.
// "https://registry.npmjs.org").
func NewNPMBackend(baseURL string) *NPMBackend {
	return &NPMBackend{HTTPBackend: NewHTTPBackend("npm", baseURL)}
}

func (b *NPMBackend) FetchMetadata(ctx context.Context, name string) (Metadata, error) {
	var doc npmPackageDoc
	if err := b.doJSON(ctx, b.baseURL+"/"+name, &doc); err != nil {
		return Metadata{}, err
	}

	meta := Metadata{Name: doc.Name, DistTags: doc.DistTags}
	for _, v := range doc.Versions {
		meta.Versions = append(meta.Versions, VersionInfo{
			Version:    v.Version,
			TarballURL: v.Dist.Tarball,
			SHA256:     v.Dist.Shasum,
			Deprecated: v.Deprecated != "",
		})
	}
	return meta, nil
}

// ListVersions lists the versions in the npm package document.
func (b *NPMBackend) ListVersions(ctx context.Context, name string) ([]string, error) {
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

type npmSearchResponse struct {
	Objects []struct {
		Package struct {
			Name        string `json:"name"`
			Version     string `json:"version"`
			Description string `json:"description"`
		} `json:"package"`
	} `json:"objects"`
}

func (b *NPMBackend) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var resp npmSearchResponse
	endpoint := b.baseURL + "/-/v1/search?text=" + url.QueryEscape(query)
	if err := b.doJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(resp.Objects))
	for _, o := range resp.Objects {
		results = append(results, SearchResult{
			Name:        o.Package.Name,
			Description: o.Package.Description,
			Version:     o.Package.Version,
		})
	}
	return results, nil
}
