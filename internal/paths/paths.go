// Package paths resolves pantry's on-disk locations and provides the
// hashing primitives used throughout the engine for short and long keys.
//
// Hash selection splits by key size: FNV-1a for keys under 32 bytes
// (fast, not cryptographic), MD5 above that (still not a cryptographic
// choice — it is only used as a fingerprint, never for integrity or
// trust, which live in internal/trust and use SHA-256).
package paths

import (
	"crypto/md5" //nolint:gosec // fingerprinting only, not a security boundary
	"encoding/hex"
	"hash/fnv"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/yookoala/realpath"
)

// LibraryDynamicPathVar returns the platform-specific dynamic-linker path
// environment variable name.
func LibraryDynamicPathVar() string {
	switch runtime.GOOS {
	case "darwin":
		return "DYLD_LIBRARY_PATH"
	case "windows":
		return "PATH"
	default:
		return "LD_LIBRARY_PATH"
	}
}

// PathListSeparator returns the platform path-list separator: ":" on
// macOS/Linux, ";" on Windows.
func PathListSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

// Dirs holds the three root directories pantry persists state under.
type Dirs struct {
	Data   string // {data_dir}: envs/
	Cache  string // {cache_dir}: objects/, meta/
	Config string // {config_dir}
}

// Resolve computes the default Dirs for the current platform, following
// XDG conventions with a HOME/USERPROFILE fallback, mirroring the
// teacher's DefaultUserConfigPath / GetRepoConfigPath split.
func Resolve() (Dirs, error) {
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return Dirs{}, &HomeNotFoundError{Cause: err}
	}

	dataHome := xdg.DataHome
	cacheHome := xdg.CacheHome
	configHome := xdg.ConfigHome
	if override := os.Getenv("XDG_DATA_HOME"); override != "" {
		dataHome = override
	}
	if override := os.Getenv("XDG_CACHE_HOME"); override != "" {
		cacheHome = override
	}
	if override := os.Getenv("XDG_CONFIG_HOME"); override != "" {
		configHome = override
	}

	return Dirs{
		Data:   filepath.Join(dataHome, "pantry"),
		Cache:  filepath.Join(cacheHome, "pantry"),
		Config: filepath.Join(configHome, "pantry"),
	}, nil
}

// HomeNotFoundError is returned by Resolve when no home directory can be
// located for the current user.
type HomeNotFoundError struct {
	Cause error
}

func (e *HomeNotFoundError) Error() string {
	return "pantry: could not locate a home directory"
}

func (e *HomeNotFoundError) Unwrap() error { return e.Cause }

// EnvsDir returns {data_dir}/envs.
func (d Dirs) EnvsDir() string {
	return filepath.Join(d.Data, "envs")
}

// CacheObjectsDir returns {cache_dir}/objects.
func (d Dirs) CacheObjectsDir() string {
	return filepath.Join(d.Cache, "objects")
}

// CacheMetaDir returns {cache_dir}/meta.
func (d Dirs) CacheMetaDir() string {
	return filepath.Join(d.Cache, "meta")
}

// RealPath resolves symlinks in p before it is used as the basis of a
// content hash, so two paths referring to the same file fingerprint
// identically.
func RealPath(p string) (string, error) {
	rp, err := realpath.Realpath(p)
	if err != nil {
		// Path may not exist yet (e.g. a dep file about to be written);
		// fall back to the cleaned absolute form.
		abs, absErr := filepath.Abs(p)
		if absErr != nil {
			return "", err
		}
		return filepath.Clean(abs), nil
	}
	return rp, nil
}

// ShortKeyThreshold is the byte length at which HashKey switches from
// FNV-1a to MD5.
const ShortKeyThreshold = 32

// HashKey hashes key using FNV-1a when len(key) < ShortKeyThreshold and MD5
// otherwise, returning lowercase hex. This split is a speed optimization,
// not a security decision — see package doc.
func HashKey(key string) string {
	if len(key) < ShortKeyThreshold {
		h := fnv.New64a()
		_, _ = h.Write([]byte(key))
		return hex.EncodeToString(h.Sum(nil))
	}
	sum := md5.Sum([]byte(key)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// FingerprintPath computes the 16-byte MD5 fingerprint of a (resolved)
// dependency-file path, as used by the environment manager to name a
// project's environment directory. Returns the raw 16 bytes; callers hex
// encode with HexFingerprint.
func FingerprintPath(depFilePath string) [16]byte {
	resolved, err := RealPath(depFilePath)
	if err != nil {
		resolved = depFilePath
	}
	return md5.Sum([]byte(resolved)) //nolint:gosec
}

// HexFingerprint renders a 16-byte fingerprint as 32 lowercase hex
// characters.
func HexFingerprint(fp [16]byte) string {
	return hex.EncodeToString(fp[:])
}

// Interner deduplicates hot strings (package names, catalog names) so
// large dependency graphs don't carry thousands of duplicate allocations.
// Not safe for concurrent use; callers needing concurrent interning should
// guard it externally, consistent with the rest of the engine's
// single-writer/many-reader discipline.
type Interner struct {
	table map[string]string
}

// NewInterner constructs an empty Interner.
func NewInterner() *Interner {
	return &Interner{table: make(map[string]string)}
}

// Intern returns the canonical, shared copy of s.
func (in *Interner) Intern(s string) string {
	if existing, ok := in.table[s]; ok {
		return existing
	}
	in.table[s] = s
	return s
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	return len(in.table)
}
