package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/stackdeck/internal/config"
	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/rileyhilliard/stackdeck/internal/worker"
)

// newFlagCmd returns a bare command carrying the config flags, parsed with args.
func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

// writeConfig writes a config file in a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stackdeck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFileValues(t *testing.T) {
	path := writeConfig(t, `
interval: 5s
docker:
  binary: podman
kube:
  context: staging
`)
	cmd := newFlagCmd(t, "--config", path)

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Equal(t, "podman", cfg.Docker.Binary)
	assert.Equal(t, "staging", cfg.Kube.Context)
	assert.Equal(t, "kubectl", cfg.Kube.Binary)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
interval: 5s
docker:
  binary: podman
`)
	cmd := newFlagCmd(t,
		"--config", path,
		"--interval", "1s",
		"--docker", "/usr/local/bin/docker",
		"--kubectl", "kubectl-1.29",
		"--context", "prod",
		"--no-color",
	)

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, "/usr/local/bin/docker", cfg.Docker.Binary)
	assert.Equal(t, "kubectl-1.29", cfg.Kube.Binary)
	assert.Equal(t, "prod", cfg.Kube.Context)
	assert.True(t, cfg.UI.NoColor)
}

func TestLoadConfigUnsetFlagsKeepFileValues(t *testing.T) {
	path := writeConfig(t, "interval: 7s\n")
	cmd := newFlagCmd(t, "--config", path)

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	// --interval has a default of 2s but was not passed.
	assert.Equal(t, 7*time.Second, cfg.Interval)
}

func TestLoadConfigRejectsShortInterval(t *testing.T) {
	path := writeConfig(t, "interval: 5s\n")
	cmd := newFlagCmd(t, "--config", path, "--interval", "10ms")

	_, err := loadConfig(cmd)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	cmd := newFlagCmd(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := loadConfig(cmd)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestDefaultLogPath(t *testing.T) {
	t.Run("xdg state home", func(t *testing.T) {
		t.Setenv("XDG_STATE_HOME", "/tmp/state")
		assert.Equal(t, filepath.Join("/tmp/state", "stackdeck", "stackdeck.log"), defaultLogPath())
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_STATE_HOME", "")
		t.Setenv("HOME", home)
		assert.Equal(t, filepath.Join(home, ".local", "state", "stackdeck", "stackdeck.log"), defaultLogPath())
	})
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"version", "config", "completion"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommandFlags(t *testing.T) {
	for _, name := range []string{"config", "interval", "docker", "kubectl", "context", "no-color", "log-file"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing flag --%s", name)
	}
}

func TestDashboardOptionsShutdownGrace(t *testing.T) {
	pool := worker.New(t.Context())
	t.Cleanup(func() { pool.Shutdown(time.Second) })

	cfg := config.DefaultConfig()
	opts := dashboardOptions(cfg, pool)
	assert.Equal(t, 3*time.Second, opts.ShutdownGrace)
	assert.Equal(t, cfg.Interval, opts.Interval)
	assert.Equal(t, cfg.HistorySize, opts.HistorySize)
	assert.Same(t, pool, opts.Pool)

	cfg.ShutdownGrace = 0
	opts = dashboardOptions(cfg, pool)
	assert.Less(t, opts.ShutdownGrace, time.Duration(0), "zero grace means don't wait")
}

func TestNewSourcesWiresEveryBackend(t *testing.T) {
	src := newSources(config.DefaultConfig())
	assert.NotNil(t, src.Metrics)
	assert.NotNil(t, src.Containers)
	assert.NotNil(t, src.Cluster)
}

func TestSetupLogging(t *testing.T) {
	t.Run("empty path discards", func(t *testing.T) {
		closeLog, err := setupLogging("")
		require.NoError(t, err)
		closeLog()
	})

	t.Run("creates directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "stackdeck.log")
		closeLog, err := setupLogging(path)
		require.NoError(t, err)
		closeLog()

		_, err = os.Stat(path)
		assert.NoError(t, err)
	})
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			completionCmd.SetOut(&buf)
			t.Cleanup(func() { completionCmd.SetOut(nil) })

			require.NoError(t, completionCmd.RunE(completionCmd, []string{shell}))
			assert.Contains(t, buf.String(), "stackdeck")
		})
	}
}

func TestCompletionCommandRejectsUnknownShell(t *testing.T) {
	err := completionCmd.Args(completionCmd, []string{"tcsh"})
	assert.Error(t, err)
}
