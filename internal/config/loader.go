package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the per-directory config file name.
	ConfigFileName = ".stackdeck.yaml"
	// GlobalConfigDir is the directory for the user config, relative to $HOME.
	GlobalConfigDir = ".config/stackdeck"
	// GlobalConfigFile is the user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. STACKDECK_DOCKER_BINARY.
	EnvPrefix = "STACKDECK"
)

// Load reads config from path, or from the first file Find locates when path is empty.
// A missing file is not an error when path is empty: defaults plus environment apply.
func Load(path string) (*Config, error) {
	found, err := Find(path)
	if err != nil {
		return nil, err
	}

	v := newViper()
	if found != "" {
		v.SetConfigFile(found)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check "+found+" exists and is valid YAML")
		}
	}

	return parseConfig(v, found)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .stackdeck.yaml in the current directory
// 3. ~/.config/stackdeck/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct, or run 'stackdeck config init'")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	if global := GlobalPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalPath returns the user config location, or "" when $HOME is unknown.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so AutomaticEnv can see them during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("interval", d.Interval.String())
	v.SetDefault("status_ttl", d.StatusTTL.String())
	v.SetDefault("shutdown_grace", d.ShutdownGrace.String())
	v.SetDefault("history_size", d.HistorySize)
	v.SetDefault("docker.binary", d.Docker.Binary)
	v.SetDefault("docker.timeout", d.Docker.Timeout.String())
	v.SetDefault("docker.action_timeout", d.Docker.ActionTimeout.String())
	v.SetDefault("docker.create_timeout", d.Docker.CreateTimeout.String())
	v.SetDefault("kube.binary", d.Kube.Binary)
	v.SetDefault("kube.timeout", d.Kube.Timeout.String())
	v.SetDefault("kube.context", d.Kube.Context)
	v.SetDefault("exec.stderr_tail", d.Exec.StderrTail)
	v.SetDefault("ui.no_color", d.UI.NoColor)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax and duration values in "+where)
	}

	return cfg, nil
}
