// Package config loads pantry's JSON-backed configuration (a
// repo-level .pantry/config.json and a user-level XDG config file,
// following the same viper-backed, env-var-bindable split as
// RepoConfig/UserConfig) and hands out one named logger per subsystem
// off a shared root hashicorp/go-hclog logger.
package config

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/home-lang/pantry/internal/cache"
	"github.com/home-lang/pantry/internal/trust"
)

// Config aggregates everything a pantry command needs: the repo and
// user configuration layers plus a root logger each subsystem derives
// its own named logger from.
type Config struct {
	Logger hclog.Logger
	Repo   *RepoConfig
	User   *UserConfig
}

// Load reads the repo config at repoRoot and the user config at its
// default XDG location, binding flags (if non-nil) into both layers.
func Load(repoRoot string, flags *pflag.FlagSet) (*Config, error) {
	repo, err := ReadRepoConfigFile(GetRepoConfigPath(repoRoot), flags)
	if err != nil {
		return nil, err
	}

	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return nil, err
	}
	user, err := ReadUserConfigFile(userPath, flags)
	if err != nil {
		return nil, err
	}

	logger := hclog.Default()

	return &Config{Logger: logger, Repo: repo, User: user}, nil
}

// AddFlags registers every flag Load's RepoConfig/UserConfig binding
// steps expect to find, onto flags.
func AddFlags(flags *pflag.FlagSet) {
	AddRepoConfigFlags(flags)
	AddUserConfigFlags(flags)
}

// CacheOptions derives cache.Options for the root cache.Root directory
// from the repo config, falling back to cache's own defaults for
// anything left unset.
func (c *Config) CacheOptions(root string) cache.Options {
	codec := cache.Codec(c.Repo.CacheCodec())
	if codec == "" {
		codec = cache.CodecNone
	}
	return cache.Options{
		Root:          root,
		Codec:         codec,
		MaxAgeSeconds: c.Repo.CacheMaxAgeSeconds(),
	}
}

// SignaturePolicy derives a trust.SignaturePolicy from the repo config.
func (c *Config) SignaturePolicy() trust.SignaturePolicy {
	level := trust.PolicyLevel(c.Repo.SignaturePolicyLevel())
	if level == "" {
		level = trust.LevelWarn
	}
	return trust.SignaturePolicy{
		Level:       level,
		TrustedKeys: c.Repo.TrustedKeys(),
	}
}

// NamedLogger returns the named sub-logger for one of pantry's
// long-running subsystems (e.g. "resolve", "cache", "environment",
// "lifecycle", "trust"), each logging under its own name off the
// shared root logger.
func (c *Config) NamedLogger(subsystem string) hclog.Logger {
	return c.Logger.Named(subsystem)
}
