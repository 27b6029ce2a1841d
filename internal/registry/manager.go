package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/home-lang/pantry/internal/pantryerr"
)

type registeredBackend struct {
	backend  Backend
	priority int
	enabled  bool
}

// RegistryManager holds a priority-ordered set of registry backends and
// fails over across them: a lookup tries the highest-priority enabled
// backend first, then the next, until one succeeds or all are
// exhausted.
type RegistryManager struct {
	mu       sync.RWMutex
	backends []*registeredBackend
}

// NewRegistryManager constructs an empty manager.
func NewRegistryManager() *RegistryManager {
	return &RegistryManager{}
}

// AddBackend registers backend at priority (lower runs first), enabled
// by default.
func (m *RegistryManager) AddBackend(backend Backend, priority int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backends = append(m.backends, &registeredBackend{backend: backend, priority: priority, enabled: true})
	sort.SliceStable(m.backends, func(i, j int) bool {
		return m.backends[i].priority < m.backends[j].priority
	})
}

// SetEnabled toggles whether name participates in failover.
func (m *RegistryManager) SetEnabled(name string, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rb := range m.backends {
		if rb.backend.Name() == name {
			rb.enabled = enabled
		}
	}
}

func (m *RegistryManager) orderedEnabled() []Backend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Backend, 0, len(m.backends))
	for _, rb := range m.backends {
		if rb.enabled {
			out = append(out, rb.backend)
		}
	}
	return out
}

// FailoverResult records which backends a failover attempt consulted
// and how each one fared, so callers can log or surface diagnostics
// beyond the single error FetchMetadata/etc return.
type FailoverResult struct {
	Attempted []string
	Errors    map[string]error
}

func (m *RegistryManager) FetchMetadata(ctx context.Context, name string) (Metadata, FailoverResult, error) {
	result := FailoverResult{Errors: make(map[string]error)}
	for _, b := range m.orderedEnabled() {
		result.Attempted = append(result.Attempted, b.Name())
		meta, err := b.FetchMetadata(ctx, name)
		if err == nil {
			return meta, result, nil
		}
		result.Errors[b.Name()] = err
	}
	return Metadata{}, result, pantryerr.New(pantryerr.KindNetworkUnavailable, "no enabled registry backend could resolve "+name)
}

func (m *RegistryManager) DownloadTarball(ctx context.Context, name, version, url string) ([]byte, FailoverResult, error) {
	result := FailoverResult{Errors: make(map[string]error)}
	for _, b := range m.orderedEnabled() {
		result.Attempted = append(result.Attempted, b.Name())
		body, err := b.DownloadTarball(ctx, name, version, url)
		if err == nil {
			return body, result, nil
		}
		result.Errors[b.Name()] = err
	}
	return nil, result, pantryerr.New(pantryerr.KindNetworkUnavailable, "no enabled registry backend could download "+name+"@"+version)
}

func (m *RegistryManager) ListVersions(ctx context.Context, name string) ([]string, FailoverResult, error) {
	result := FailoverResult{Errors: make(map[string]error)}
	for _, b := range m.orderedEnabled() {
		result.Attempted = append(result.Attempted, b.Name())
		versions, err := b.ListVersions(ctx, name)
		if err == nil {
			return versions, result, nil
		}
		result.Errors[b.Name()] = err
	}
	return nil, result, pantryerr.New(pantryerr.KindNetworkUnavailable, "no enabled registry backend could list versions for "+name)
}

func (m *RegistryManager) Search(ctx context.Context, query string) ([]SearchResult, FailoverResult, error) {
	result := FailoverResult{Errors: make(map[string]error)}
	for _, b := range m.orderedEnabled() {
		result.Attempted = append(result.Attempted, b.Name())
		results, err := b.Search(ctx, query)
		if err == nil && len(results) > 0 {
			return results, result, nil
		}
		if err != nil {
			result.Errors[b.Name()] = err
		}
	}
	return nil, result, nil
}
