package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/home-lang/pantry/internal/cache"
	"github.com/home-lang/pantry/internal/trust"
)

func TestReadRepoConfigFileAppliesDefaultsWhenFileAbsent(t *testing.T) {
	dir := t.TempDir()
	rc, err := ReadRepoConfigFile(filepath.Join(dir, ".pantry", "config.json"), nil)
	require.NoError(t, err)

	require.Equal(t, "gzip", rc.CacheCodec())
	require.Equal(t, int64(defaultCacheMaxAgeSeconds), rc.CacheMaxAgeSeconds())
	require.Equal(t, "warn", rc.SignaturePolicyLevel())
	require.Empty(t, rc.RegistryPriority())
}

func TestRepoConfigSetRegistryPriorityPersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pantry", "config.json")

	rc, err := ReadRepoConfigFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, rc.SetRegistryPriority([]string{"npm", "github"}))

	reloaded, err := ReadRepoConfigFile(path, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"npm", "github"}, reloaded.RegistryPriority())
}

func TestGetRepoConfigPathJoinsDotPantry(t *testing.T) {
	require.Equal(t, filepath.Join("myrepo", ".pantry", "config.json"), GetRepoConfigPath("myrepo"))
}

func TestUserConfigSetRegistryTokenPersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	uc, err := ReadUserConfigFile(path, nil)
	require.NoError(t, err)
	require.Empty(t, uc.RegistryToken("npm"))

	require.NoError(t, uc.SetRegistryToken("npm", "s3cr3t"))

	reloaded, err := ReadUserConfigFile(path, nil)
	require.NoError(t, err)
	require.Equal(t, "s3cr3t", reloaded.RegistryToken("npm"))
	require.Empty(t, reloaded.RegistryToken("github"))
}

func TestUserConfigRegistryTokenFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PANTRY_NPM_TOKEN", "from-env")

	uc, err := ReadUserConfigFile(filepath.Join(dir, "config.json"), nil)
	require.NoError(t, err)
	require.Equal(t, "from-env", uc.RegistryToken("npm"))
}

func TestAddFlagsRegistersEveryBoundFlag(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flags)

	require.NotNil(t, flags.Lookup("signature-policy"))
	require.NotNil(t, flags.Lookup("npm-token"))
}

func TestLoadWiresRepoAndUserConfig(t *testing.T) {
	repoRoot := t.TempDir()
	userDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", userDir)

	cfg, err := Load(repoRoot, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.Logger)
	require.Equal(t, "gzip", cfg.Repo.CacheCodec())
	require.Empty(t, cfg.User.RegistryToken("npm"))
}

func TestConfigCacheOptionsDerivesFromRepoConfig(t *testing.T) {
	repoRoot := t.TempDir()
	userDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", userDir)
	t.Setenv("PANTRY_CACHE_CODEC", "zstd")

	cfg, err := Load(repoRoot, nil)
	require.NoError(t, err)

	opts := cfg.CacheOptions(filepath.Join(repoRoot, ".pantry", "cache"))
	require.Equal(t, cache.CodecZstd, opts.Codec)
	require.Equal(t, filepath.Join(repoRoot, ".pantry", "cache"), opts.Root)
}

func TestConfigSignaturePolicyDefaultsToWarn(t *testing.T) {
	repoRoot := t.TempDir()
	userDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", userDir)

	cfg, err := Load(repoRoot, nil)
	require.NoError(t, err)

	policy := cfg.SignaturePolicy()
	require.Equal(t, trust.LevelWarn, policy.Level)
}

func TestNamedLoggerProducesDistinctNames(t *testing.T) {
	repoRoot := t.TempDir()
	userDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", userDir)

	cfg, err := Load(repoRoot, nil)
	require.NoError(t, err)

	resolveLogger := cfg.NamedLogger("resolve")
	cacheLogger := cfg.NamedLogger("cache")
	require.NotEqual(t, resolveLogger.Name(), cacheLogger.Name())
}
