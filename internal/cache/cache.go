// Package cache implements pantry's content-addressed package cache: an
// optimized local on-disk tier, an optional shared multi-process tier
// built on top of it, compression, TTL, and hit/miss statistics.
//
// Layout: content-addressed directories on disk, a JSON metadata
// sidecar per entry, and an errgroup-backed worker pool for concurrent
// puts. Keying is a (name, version) pair sharded two levels deep by its
// hex hash.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/home-lang/pantry/internal/pantryerr"
)

// Entry is the metadata pantry records for one cached package body.
type Entry struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	URL        string `json:"url"`
	SHA256     string `json:"sha256"`
	BodyBytes  int64  `json:"body_bytes"`
	InsertedAt int64  `json:"inserted_at"`
	Codec      Codec  `json:"compressed,omitempty"`
}

// Statistics summarizes cache usage for one process lifetime.
type Statistics struct {
	TotalPackages   int64
	TotalSize       int64
	AvgPackageSize  float64
	Hits            int64
	Misses          int64
}

// Options configures a LocalCache.
type Options struct {
	Root           string
	Codec          Codec
	MaxAgeSeconds  int64 // 0 means no TTL
}

// LocalCache is pantry's optimized local on-disk cache tier: a
// two-level hex-sharded directory of metadata + body files, keyed by
// (name, version).
type LocalCache struct {
	opts Options

	mu    sync.Mutex
	hits  int64
	misses int64
}

// NewLocalCache constructs a LocalCache rooted at opts.Root, creating
// the root directory if absent.
func NewLocalCache(opts Options) (*LocalCache, error) {
	if opts.Codec == "" {
		opts.Codec = CodecNone
	}
	if err := os.MkdirAll(opts.Root, 0o755); err != nil {
		return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "creating cache root")
	}
	return &LocalCache{opts: opts}, nil
}

func cacheKey(name, version string) string {
	return name + "@" + version
}

// shardDir returns the directory an entry's files live under: a
// two-level shard of the hex hash of (name, version), e.g. root/ab/cd
// for a key hash starting "abcd".
func (c *LocalCache) shardDir(name, version string) string {
	hash := hashHex(cacheKey(name, version))
	return filepath.Join(c.opts.Root, hash[0:2], hash[2:4])
}

func (c *LocalCache) metaPath(name, version string) string {
	return filepath.Join(c.shardDir(name, version), hashHex(cacheKey(name, version))+".json")
}

func (c *LocalCache) bodyPath(name, version string) string {
	return filepath.Join(c.shardDir(name, version), hashHex(cacheKey(name, version))+".body")
}

// Put writes an entry's metadata and (optionally compressed) body,
// atomically: both files are written to temp paths and renamed into
// place only once their contents are fully flushed, so a crash mid-put
// leaves no partial entry visible.
func (c *LocalCache) Put(name, version, url, sha256 string, body []byte) error {
	dir := c.shardDir(name, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "creating cache shard")
	}

	compressed, err := Compress(c.opts.Codec, body)
	if err != nil {
		return err
	}

	entry := Entry{
		Name:       name,
		Version:    version,
		URL:        url,
		SHA256:     sha256,
		BodyBytes:  int64(len(compressed)),
		InsertedAt: time.Now().Unix(),
		Codec:      c.opts.Codec,
	}
	metaBytes, err := json.Marshal(entry)
	if err != nil {
		return pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "marshaling cache metadata")
	}

	if err := writeFileAtomic(c.bodyPath(name, version), compressed); err != nil {
		return err
	}
	if err := writeFileAtomic(c.metaPath(name, version), metaBytes); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "writing cache file")
	}
	if err := os.Rename(tmp, path); err != nil {
		return pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "finalizing cache file")
	}
	return nil
}

// Has reports whether an entry exists and is not expired, without
// reading its body. It does not evict a stale entry or touch hit/miss
// counters; Get is what performs eviction.
func (c *LocalCache) Has(name, version string) bool {
	entry, err := c.readMeta(name, version)
	if err != nil || entry == nil {
		return false
	}
	if c.opts.MaxAgeSeconds > 0 && time.Now().Unix()-entry.InsertedAt > c.opts.MaxAgeSeconds {
		return false
	}
	return true
}

func (c *LocalCache) readMeta(name, version string) (*Entry, error) {
	raw, err := os.ReadFile(c.metaPath(name, version))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "reading cache metadata")
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "parsing cache metadata")
	}
	return &entry, nil
}

// Get returns the metadata for (name, version), respecting TTL: an
// entry older than MaxAgeSeconds is treated as a miss (and evicted).
// Returns (nil, nil) on a clean miss.
func (c *LocalCache) Get(name, version string) (*Entry, error) {
	entry, err := c.readMeta(name, version)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		c.recordMiss()
		return nil, nil
	}
	if c.opts.MaxAgeSeconds > 0 && time.Now().Unix()-entry.InsertedAt > c.opts.MaxAgeSeconds {
		_ = c.evict(name, version)
		c.recordMiss()
		return nil, nil
	}
	c.recordHit()
	return entry, nil
}

// Read returns the decompressed body for (name, version). When the
// SHA-256 of the decompressed body doesn't match the entry's recorded
// checksum, it discards the entry, records a miss, and returns a
// ChecksumMismatch error rather than the corrupted bytes.
func (c *LocalCache) Read(name, version string) ([]byte, error) {
	entry, err := c.Get(name, version)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	raw, err := os.ReadFile(c.bodyPath(name, version))
	if err != nil {
		if os.IsNotExist(err) {
			c.recordMiss()
			return nil, nil
		}
		return nil, pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "reading cache body")
	}

	body, err := Decompress(entry.Codec, raw)
	if err != nil {
		return nil, err
	}

	if entry.SHA256 != "" && sha256Hex(body) != entry.SHA256 {
		_ = c.evict(name, version)
		c.recordMiss()
		return nil, pantryerr.New(pantryerr.KindChecksumMismatch, "cached body for "+name+"@"+version+" failed checksum, entry discarded")
	}
	return body, nil
}

func (c *LocalCache) evict(name, version string) error {
	if err := os.Remove(c.bodyPath(name, version)); err != nil && !os.IsNotExist(err) {
		return pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "evicting cache body")
	}
	if err := os.Remove(c.metaPath(name, version)); err != nil && !os.IsNotExist(err) {
		return pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "evicting cache metadata")
	}
	return nil
}

// Clean removes every entry under the cache root and resets
// process-lifetime counters.
func (c *LocalCache) Clean() error {
	entries, err := os.ReadDir(c.opts.Root)
	if err != nil {
		return pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "reading cache root")
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.opts.Root, e.Name())); err != nil {
			return pantryerr.Wrap(pantryerr.KindCacheCorrupted, err, "cleaning cache root")
		}
	}
	c.mu.Lock()
	c.hits, c.misses = 0, 0
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) recordHit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *LocalCache) recordMiss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

// Statistics walks the cache root to compute current totals, combined
// with this process's monotonic hit/miss counters.
func (c *LocalCache) Statistics() (Statistics, error) {
	var totalSize int64
	var totalPackages int64

	err := walkCacheBodies(c.opts.Root, func(path string, size int64) {
		totalSize += size
		totalPackages++
	})
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		TotalPackages: totalPackages,
		TotalSize:     totalSize,
	}
	if totalPackages > 0 {
		stats.AvgPackageSize = float64(totalSize) / float64(totalPackages)
	}

	c.mu.Lock()
	stats.Hits = c.hits
	stats.Misses = c.misses
	c.mu.Unlock()
	return stats, nil
}
