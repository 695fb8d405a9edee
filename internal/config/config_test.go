package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, 5*time.Second, cfg.StatusTTL)
	assert.Equal(t, 3*time.Second, cfg.ShutdownGrace)
	assert.Equal(t, DefaultHistorySize, cfg.HistorySize)
	assert.Equal(t, "docker", cfg.Docker.Binary)
	assert.Equal(t, 5*time.Second, cfg.Docker.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Docker.ActionTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Docker.CreateTimeout)
	assert.Equal(t, "kubectl", cfg.Kube.Binary)
	assert.Equal(t, 8*time.Second, cfg.Kube.Timeout)
	assert.Empty(t, cfg.Kube.Context)
	assert.Equal(t, DefaultStderrTail, cfg.Exec.StderrTail)
	assert.False(t, cfg.UI.NoColor)

	require.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
interval: 1s
status_ttl: 10s
docker:
  binary: /usr/local/bin/docker
  timeout: 3s
  action_timeout: 45s
kube:
  binary: oc
  context: staging
exec:
  stderr_tail: 512
ui:
  no_color: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 10*time.Second, cfg.StatusTTL)
	assert.Equal(t, "/usr/local/bin/docker", cfg.Docker.Binary)
	assert.Equal(t, 3*time.Second, cfg.Docker.Timeout)
	assert.Equal(t, 45*time.Second, cfg.Docker.ActionTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Docker.CreateTimeout)
	assert.Equal(t, "oc", cfg.Kube.Binary)
	assert.Equal(t, "staging", cfg.Kube.Context)
	assert.Equal(t, 8*time.Second, cfg.Kube.Timeout, "unset keys keep their defaults")
	assert.Equal(t, 512, cfg.Exec.StderrTail)
	assert.True(t, cfg.UI.NoColor)
	assert.Equal(t, 3*time.Second, cfg.ShutdownGrace)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("interval: 1s\n"), 0644))

	t.Setenv("STACKDECK_DOCKER_BINARY", "podman")
	t.Setenv("STACKDECK_INTERVAL", "4s")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "podman", cfg.Docker.Binary)
	assert.Equal(t, 4*time.Second, cfg.Interval)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("interval: soon\n"), 0644))

	_, err := Load(configPath)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind_LocalFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	path, err := Find("")
	require.NoError(t, err)
	assert.Empty(t, path, "nothing to find yet")

	local := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(local, []byte("interval: 3s\n"), 0644))

	path, err = Find("")
	require.NoError(t, err)
	assert.Equal(t, ConfigFileName, filepath.Base(path))
}

func TestFind_GlobalFile(t *testing.T) {
	t.Chdir(t.TempDir())
	home := t.TempDir()
	t.Setenv("HOME", home)

	global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(global), 0755))
	require.NoError(t, os.WriteFile(global, []byte("interval: 3s\n"), 0644))

	path, err := Find("")
	require.NoError(t, err)
	assert.Equal(t, global, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Interval)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Interval = 1500 * time.Millisecond
	cfg.Kube.Context = "prod-eu"

	require.NoError(t, Save(cfg, path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "interval: 1.5s")
	assert.Contains(t, string(data), "context: prod-eu")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interval: 2s\n"), 0644))

	err := Save(DefaultConfig(), path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Save(DefaultConfig(), path, true))
}
