package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultCacheCodec          = "gzip"
	defaultCacheMaxAgeSeconds  = 60 * 60 * 24 * 7 // one week
	defaultSignaturePolicy     = "warn"
)

// RepoConfig is the per-project configuration loaded from
// .pantry/config.json: cache tuning, the trust policy level, and the
// order in which registry backends are tried.
type RepoConfig struct {
	repoViper *viper.Viper
	path      string
}

// CacheWorkers returns the configured cache worker-pool size, or 0 to
// mean "default to hardware concurrency".
func (rc *RepoConfig) CacheWorkers() int {
	return rc.repoViper.GetInt("cache.workers")
}

// CacheCodec returns the configured compression codec name: "none",
// "gzip", or "zstd".
func (rc *RepoConfig) CacheCodec() string {
	return rc.repoViper.GetString("cache.codec")
}

// CacheMaxAgeSeconds returns the configured cache entry TTL in seconds.
func (rc *RepoConfig) CacheMaxAgeSeconds() int64 {
	return rc.repoViper.GetInt64("cache.max_age_seconds")
}

// SignaturePolicyLevel returns the configured trust enforcement level:
// "off", "warn", or "strict".
func (rc *RepoConfig) SignaturePolicyLevel() string {
	return rc.repoViper.GetString("trust.signature_policy")
}

// TrustedKeys returns the configured allowlist of signing key ids. An
// empty list means "no key restriction beyond verification itself".
func (rc *RepoConfig) TrustedKeys() []string {
	return rc.repoViper.GetStringSlice("trust.trusted_keys")
}

// RegistryPriority returns the configured registry backend names in
// the order they should be tried.
func (rc *RepoConfig) RegistryPriority() []string {
	return rc.repoViper.GetStringSlice("registry.priority")
}

// SetRegistryPriority saves a new registry try-order.
func (rc *RepoConfig) SetRegistryPriority(names []string) error {
	if err := rc.repoViper.MergeConfigMap(map[string]interface{}{
		"registry": map[string]interface{}{"priority": names},
	}); err != nil {
		return err
	}
	return rc.write()
}

func (rc *RepoConfig) write() error {
	if err := os.MkdirAll(filepath.Dir(rc.path), 0o755); err != nil {
		return err
	}
	return rc.repoViper.WriteConfig()
}

// Delete removes the repo config file. The RepoConfig shouldn't be
// used afterwards; it needs to be re-initialized.
func (rc *RepoConfig) Delete() error {
	return os.Remove(rc.path)
}

// ReadRepoConfigFile loads a RepoConfig from path, applying defaults
// and any PANTRY_-prefixed environment overrides and flag bindings.
// The path and its parent directories do not need to exist yet; they
// are created on first write.
func ReadRepoConfigFile(path string, flags *pflag.FlagSet) (*RepoConfig, error) {
	repoViper := viper.New()
	repoViper.SetConfigFile(path)
	repoViper.SetConfigType("json")
	repoViper.SetEnvPrefix("pantry")
	repoViper.MustBindEnv("cache.workers", "PANTRY_CACHE_WORKERS")
	repoViper.MustBindEnv("cache.codec", "PANTRY_CACHE_CODEC")
	repoViper.MustBindEnv("cache.max_age_seconds", "PANTRY_CACHE_MAX_AGE")
	repoViper.MustBindEnv("trust.signature_policy", "PANTRY_SIGNATURE_POLICY")

	repoViper.SetDefault("cache.codec", defaultCacheCodec)
	repoViper.SetDefault("cache.max_age_seconds", defaultCacheMaxAgeSeconds)
	repoViper.SetDefault("trust.signature_policy", defaultSignaturePolicy)

	if flags != nil {
		if f := flags.Lookup("signature-policy"); f != nil {
			if err := repoViper.BindPFlag("trust.signature_policy", f); err != nil {
				return nil, err
			}
		}
	}

	if err := repoViper.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return &RepoConfig{repoViper: repoViper, path: path}, nil
}

// AddRepoConfigFlags registers the repo-config-overriding flags onto flags.
func AddRepoConfigFlags(flags *pflag.FlagSet) {
	flags.String("signature-policy", "", "Override the trust signature policy (off, warn, strict)")
}

// GetRepoConfigPath returns the conventional repo config path for a
// project rooted at repoRoot.
func GetRepoConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".pantry", "config.json")
}
