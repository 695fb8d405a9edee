package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/stackdeck/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %s is too short", cfg.Interval),
			fmt.Sprintf("Minimum interval is %s to avoid spawning a storm of docker/kubectl processes", MinInterval))
	}

	if cfg.StatusTTL <= 0 {
		return errors.New(errors.ErrConfig,
			"status_ttl must be positive",
			"Try something like 5s.")
	}

	if cfg.ShutdownGrace < 0 {
		return errors.New(errors.ErrConfig,
			"shutdown_grace can't be negative",
			"Use 0 to exit without waiting for in-flight commands.")
	}

	if cfg.HistorySize <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history_size must be positive, got %d", cfg.HistorySize),
			fmt.Sprintf("The default is %d samples.", DefaultHistorySize))
	}

	if err := validateTool("docker", cfg.Docker.ToolConfig); err != nil {
		return err
	}
	if cfg.Docker.ActionTimeout <= 0 || cfg.Docker.CreateTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"docker.action_timeout and docker.create_timeout must be positive",
			"docker stop waits 10s before killing a container, so keep action_timeout above that.")
	}
	if err := validateTool("kube", cfg.Kube.ToolConfig); err != nil {
		return err
	}

	if cfg.Exec.StderrTail <= 0 {
		return errors.New(errors.ErrConfig,
			"exec.stderr_tail must be positive",
			fmt.Sprintf("The default is %d bytes.", DefaultStderrTail))
	}

	return nil
}

func validateTool(section string, tool ToolConfig) error {
	if strings.TrimSpace(tool.Binary) == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s.binary is empty", section),
			"Set it to the executable name or an absolute path.")
	}
	if tool.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s.timeout must be positive", section),
			"Try something like 5s.")
	}
	return nil
}
