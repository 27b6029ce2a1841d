// Package environment manages fingerprint-addressed installation
// directories: one directory per resolved dependency-file path, holding
// installed binaries, package payloads, and shims.
package environment

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/home-lang/pantry/internal/pantryerr"
	"github.com/home-lang/pantry/internal/paths"
)

// Environment is a handle to one materialized environment directory.
type Environment struct {
	Hash string
	Root string
}

var hexDirRe = regexp.MustCompile(`^[0-9a-f]{32}$`)

func envsDir(dirs paths.Dirs) string {
	return dirs.EnvsDir()
}

// Create allocates an Environment for depFile, creating its directory
// tree if absent. Re-creating over an existing directory is a no-op
// (idempotent).
func Create(dirs paths.Dirs, depFile string) (*Environment, error) {
	fp := paths.FingerprintPath(depFile)
	hash := paths.HexFingerprint(fp)
	root := filepath.Join(envsDir(dirs), hash)

	for _, sub := range []string{"bin", "pkgs", "stubs"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, pantryerr.Wrap(pantryerr.KindEnvironmentNotFound, err, "creating environment directory").WithPath(root)
		}
	}
	return &Environment{Hash: hash, Root: root}, nil
}

// Load returns the Environment for hash if its directory exists, or nil
// if absent.
func Load(dirs paths.Dirs, hash string) (*Environment, error) {
	root := filepath.Join(envsDir(dirs), hash)
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pantryerr.Wrap(pantryerr.KindEnvironmentNotFound, err, "loading environment").WithPath(root)
	}
	if !info.IsDir() {
		return nil, nil
	}
	return &Environment{Hash: hash, Root: root}, nil
}

// Remove deletes an environment's directory tree. A not-found hash is
// not an error.
func Remove(dirs paths.Dirs, hash string) error {
	root := filepath.Join(envsDir(dirs), hash)
	if err := os.RemoveAll(root); err != nil {
		return pantryerr.Wrap(pantryerr.KindEnvironmentNotFound, err, "removing environment").WithPath(root)
	}
	return nil
}

// List enumerates every 32-char-hex environment directory under
// {data_dir}/envs/.
func List(dirs paths.Dirs) ([]string, error) {
	entries, err := os.ReadDir(envsDir(dirs))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pantryerr.Wrap(pantryerr.KindEnvironmentNotFound, err, "listing environments").WithPath(envsDir(dirs))
	}
	var hashes []string
	for _, e := range entries {
		if e.IsDir() && hexDirRe.MatchString(e.Name()) {
			hashes = append(hashes, e.Name())
		}
	}
	sort.Strings(hashes)
	return hashes, nil
}

// Record is the scanner's per-environment summary.
type Record struct {
	ProjectName string
	Path        string
	SizeBytes   int64
	Packages    int
	Binaries    int
	Created     time.Time
	Modified    time.Time
}

// Scan computes a Record for env, recursively summing regular-file
// sizes and counting pkgs/ and bin/ entries.
func Scan(env *Environment) (Record, error) {
	info, err := os.Stat(env.Root)
	if err != nil {
		return Record{}, pantryerr.Wrap(pantryerr.KindEnvironmentNotFound, err, "scanning environment").WithPath(env.Root)
	}

	rec := Record{
		ProjectName: env.Hash,
		Path:        env.Root,
		Modified:    info.ModTime(),
		Created:     info.ModTime(),
	}

	var size int64
	err = filepath.Walk(env.Root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.Mode().IsRegular() {
			size += fi.Size()
		}
		if fi.ModTime().After(rec.Modified) {
			rec.Modified = fi.ModTime()
		}
		return nil
	})
	if err != nil {
		return Record{}, pantryerr.Wrap(pantryerr.KindEnvironmentNotFound, err, "walking environment").WithPath(env.Root)
	}
	rec.SizeBytes = size
	rec.Packages = countEntries(filepath.Join(env.Root, "pkgs"))
	rec.Binaries = countEntries(filepath.Join(env.Root, "bin"))
	return rec, nil
}

func countEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	return len(entries)
}

// SortByModifiedDesc sorts records by Modified descending.
func SortByModifiedDesc(recs []Record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Modified.After(recs[j].Modified) })
}

// SortBySizeDesc sorts records by SizeBytes descending.
func SortBySizeDesc(recs []Record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].SizeBytes > recs[j].SizeBytes })
}

// SortByNameAsc sorts records by ProjectName ascending.
func SortByNameAsc(recs []Record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].ProjectName < recs[j].ProjectName })
}

// Inspection bundles a scanned Record with optional bin/ and stubs/
// directory listings.
type Inspection struct {
	Record Record
	Bin    []string
	Stubs  []string
}

// Inspect scans env and lists its bin/ and stubs/ directories.
func Inspect(env *Environment) (Inspection, error) {
	rec, err := Scan(env)
	if err != nil {
		return Inspection{}, err
	}
	return Inspection{
		Record: rec,
		Bin:    listNames(filepath.Join(env.Root, "bin")),
		Stubs:  listNames(filepath.Join(env.Root, "stubs")),
	}, nil
}

func listNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// CleanResult summarizes a GC pass.
type CleanResult struct {
	Removed    []string
	FreedBytes int64
	DryRun     bool
}

// Clean lists environments whose Modified time is older than
// olderThanDays and removes them only when force is set and dryRun is
// not; without force, nothing is removed and Removed lists the
// candidates, so a caller that wants a prompt can confirm and call
// again with force.
func Clean(dirs paths.Dirs, olderThanDays int, dryRun bool, force bool) (CleanResult, error) {
	hashes, err := List(dirs)
	if err != nil {
		return CleanResult{}, err
	}

	cutoff := time.Now().Add(-time.Duration(olderThanDays) * 24 * time.Hour)
	result := CleanResult{DryRun: dryRun}

	for _, hash := range hashes {
		env, err := Load(dirs, hash)
		if err != nil || env == nil {
			continue
		}
		rec, err := Scan(env)
		if err != nil {
			continue
		}
		if rec.Modified.After(cutoff) {
			continue
		}
		result.Removed = append(result.Removed, hash)
		result.FreedBytes += rec.SizeBytes
		if dryRun || !force {
			continue
		}
		if err := Remove(dirs, hash); err != nil {
			return result, err
		}
	}
	return result, nil
}
