package cache

import (
	"path/filepath"
	"sync"

	"github.com/nightlyone/lockfile"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// SharedCache wraps a LocalCache with a process-wide advisory file lock,
// for a cache root multiple pantry processes write to concurrently, via
// github.com/nightlyone/lockfile. Reentrant locking within one process
// is explicitly unsupported.
type SharedCache struct {
	local         *LocalCache
	enableLocking bool

	mu   sync.Mutex
	lock lockfile.Lockfile
	held bool
}

// NewSharedCache wraps local with process-wide locking. When
// enableLocking is false, writers behave exactly like LocalCache and
// readers are never blocked.
func NewSharedCache(local *LocalCache, enableLocking bool) (*SharedCache, error) {
	sc := &SharedCache{local: local, enableLocking: enableLocking}
	if enableLocking {
		lockPath := filepath.Join(local.opts.Root, ".pantry-cache.lock")
		lf, err := lockfile.New(lockPath)
		if err != nil {
			return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "constructing cache lock")
		}
		sc.lock = lf
	}
	return sc, nil
}

func (sc *SharedCache) acquire() error {
	if !sc.enableLocking {
		return nil
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.held {
		return nil
	}
	if err := sc.lock.TryLock(); err != nil {
		return pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "acquiring shared cache lock")
	}
	sc.held = true
	return nil
}

func (sc *SharedCache) release() {
	if !sc.enableLocking {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.held {
		return
	}
	_ = sc.lock.Unlock()
	sc.held = false
}

// Put acquires the shared lock (when enabled) for the duration of the
// write, then delegates to the local tier.
func (sc *SharedCache) Put(name, version, url, sha256 string, body []byte) error {
	if err := sc.acquire(); err != nil {
		return err
	}
	defer sc.release()
	return sc.local.Put(name, version, url, sha256, body)
}

// Has, Get, and Read proceed unlocked: LocalCache's atomic
// write-then-rename writers guarantee readers never observe a partial
// metadata file, so unlocked reads are safe.
func (sc *SharedCache) Has(name, version string) bool {
	return sc.local.Has(name, version)
}

func (sc *SharedCache) Get(name, version string) (*Entry, error) {
	return sc.local.Get(name, version)
}

func (sc *SharedCache) Read(name, version string) ([]byte, error) {
	return sc.local.Read(name, version)
}

// Clean acquires the shared lock for the duration of the wipe.
func (sc *SharedCache) Clean() error {
	if err := sc.acquire(); err != nil {
		return err
	}
	defer sc.release()
	return sc.local.Clean()
}

func (sc *SharedCache) Statistics() (Statistics, error) {
	return sc.local.Statistics()
}
