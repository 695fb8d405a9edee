package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with durations spelled as strings so the written
// file reads "2s" rather than nanosecond integers.
type fileConfig struct {
	Interval      string `yaml:"interval"`
	StatusTTL     string `yaml:"status_ttl"`
	ShutdownGrace string `yaml:"shutdown_grace"`
	HistorySize   int    `yaml:"history_size"`
	Docker        struct {
		Binary        string `yaml:"binary"`
		Timeout       string `yaml:"timeout"`
		ActionTimeout string `yaml:"action_timeout"`
		CreateTimeout string `yaml:"create_timeout"`
	} `yaml:"docker"`
	Kube struct {
		Binary  string `yaml:"binary"`
		Timeout string `yaml:"timeout"`
		Context string `yaml:"context,omitempty"`
	} `yaml:"kube"`
	Exec struct {
		StderrTail int `yaml:"stderr_tail"`
	} `yaml:"exec"`
	UI struct {
		NoColor bool `yaml:"no_color"`
	} `yaml:"ui"`
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var fc fileConfig
	fc.Interval = cfg.Interval.String()
	fc.StatusTTL = cfg.StatusTTL.String()
	fc.ShutdownGrace = cfg.ShutdownGrace.String()
	fc.HistorySize = cfg.HistorySize
	fc.Docker.Binary = cfg.Docker.Binary
	fc.Docker.Timeout = cfg.Docker.Timeout.String()
	fc.Docker.ActionTimeout = cfg.Docker.ActionTimeout.String()
	fc.Docker.CreateTimeout = cfg.Docker.CreateTimeout.String()
	fc.Kube.Binary = cfg.Kube.Binary
	fc.Kube.Timeout = cfg.Kube.Timeout.String()
	fc.Kube.Context = cfg.Kube.Context
	fc.Exec.StderrTail = cfg.Exec.StderrTail
	fc.UI.NoColor = cfg.UI.NoColor

	return yaml.Marshal(&fc)
}

// Save writes cfg to path, creating parent directories. It refuses to
// overwrite an existing file unless force is set.
func Save(cfg *Config, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
