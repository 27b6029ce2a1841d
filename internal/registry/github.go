package registry

import (
	"context"
	"strings"
)

// githubRelease is the subset of a GitHub releases-API response this
// backend reads.
type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// GitHubBackend resolves package versions from a GitHub repository's
// tagged releases rather than a registry index, for packages pantry
// installs straight from a repo (`owner/repo` dependency source).
type GitHubBackend struct {
	*HTTPBackend
	owner, repo string
}

// NewGitHubBackend constructs a backend for owner/repo against the
// GitHub REST API.
func NewGitHubBackend(owner, repo string) *GitHubBackend {
	return newGitHubBackend(owner, repo, "https://api.github.com")
}

func newGitHubBackend(owner, repo, apiBaseURL string) *GitHubBackend {
	return &GitHubBackend{
		HTTPBackend: NewHTTPBackend("github", apiBaseURL),
		owner:       owner,
		repo:        repo,
	}
}

func (b *GitHubBackend) FetchMetadata(ctx context.Context, name string) (Metadata, error) {
	var releases []githubRelease
	endpoint := b.baseURL + "/repos/" + b.owner + "/" + b.repo + "/releases"
	if err := b.doJSON(ctx, endpoint, &releases); err != nil {
		return Metadata{}, err
	}

	meta := Metadata{Name: name}
	for _, r := range releases {
		version := strings.TrimPrefix(r.TagName, "v")
		tarballURL := ""
		for _, a := range r.Assets {
			if strings.HasSuffix(a.Name, ".tar.gz") || strings.HasSuffix(a.Name, ".tgz") {
				tarballURL = a.BrowserDownloadURL
				break
			}
		}
		meta.Versions = append(meta.Versions, VersionInfo{Version: version, TarballURL: tarballURL})
	}
	return meta, nil
}

// ListVersions lists the release versions FetchMetadata reports.
func (b *GitHubBackend) ListVersions(ctx context.Context, name string) ([]string, error) {
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

// Search is not meaningful for a single pinned owner/repo backend.
func (b *GitHubBackend) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return nil, nil
}
