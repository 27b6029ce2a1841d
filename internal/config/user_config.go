package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/home-lang/pantry/internal/paths"
)

// UserConfig wraps the user-specific configuration values shared across
// every project on the machine: registry auth tokens and any
// machine-wide overrides that don't belong in a per-repo file.
type UserConfig struct {
	userViper *viper.Viper
	path      string
}

// RegistryToken returns the stored auth token for the named registry
// backend ("npm", "github", ...), or "" if none is set.
func (uc *UserConfig) RegistryToken(backend string) string {
	return uc.userViper.GetString("registry_tokens." + backend)
}

// SetRegistryToken saves an auth token for the named registry backend,
// writing it to the user config file, creating it if necessary.
func (uc *UserConfig) SetRegistryToken(backend, token string) error {
	tokens := uc.userViper.GetStringMapString("registry_tokens")
	if tokens == nil {
		tokens = map[string]string{}
	}
	tokens[backend] = token
	if err := uc.userViper.MergeConfigMap(map[string]interface{}{"registry_tokens": tokens}); err != nil {
		return err
	}
	return uc.write()
}

func (uc *UserConfig) write() error {
	if err := os.MkdirAll(filepath.Dir(uc.path), 0o755); err != nil {
		return err
	}
	return uc.userViper.WriteConfig()
}

// Delete removes the user config file. The UserConfig shouldn't be used
// afterwards; it needs to be re-initialized.
func (uc *UserConfig) Delete() error {
	return os.Remove(uc.path)
}

// ReadUserConfigFile loads a UserConfig from path. The path and its
// parent directories do not need to exist yet; they are created on
// first write.
func ReadUserConfigFile(path string, flags *pflag.FlagSet) (*UserConfig, error) {
	userViper := viper.New()
	userViper.SetConfigFile(path)
	userViper.SetConfigType("json")
	userViper.SetEnvPrefix("pantry")
	userViper.MustBindEnv("registry_tokens.npm", "PANTRY_NPM_TOKEN")
	userViper.MustBindEnv("registry_tokens.github", "PANTRY_GITHUB_TOKEN")

	if flags != nil {
		if f := flags.Lookup("npm-token"); f != nil {
			if err := userViper.BindPFlag("registry_tokens.npm", f); err != nil {
				return nil, err
			}
		}
	}

	if err := userViper.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return &UserConfig{userViper: userViper, path: path}, nil
}

// AddUserConfigFlags registers the user-config-overriding flags onto flags.
func AddUserConfigFlags(flags *pflag.FlagSet) {
	flags.String("npm-token", "", "Set the auth token used for npm registry requests")
}

// DefaultUserConfigPath returns the default platform-dependent path for
// the user-specific configuration file, under the XDG config directory.
func DefaultUserConfigPath() (string, error) {
	dirs, err := paths.Resolve()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.Config, "config.json"), nil
}
