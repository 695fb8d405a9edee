package config

import "time"

// Limits enforced by Validate.
const (
	MinInterval        = 500 * time.Millisecond
	DefaultInterval    = 2 * time.Second
	DefaultStderrTail  = 2048
	DefaultHistorySize = 60
)

// Config is the complete stackdeck configuration.
type Config struct {
	// Interval is the refresh tick for the active tab.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// StatusTTL is how long a status banner stays up unless replaced.
	StatusTTL time.Duration `yaml:"status_ttl" mapstructure:"status_ttl"`

	// ShutdownGrace bounds how long quitting waits for in-flight commands.
	ShutdownGrace time.Duration `yaml:"shutdown_grace" mapstructure:"shutdown_grace"`

	// HistorySize is the number of samples kept for the System tab sparklines.
	HistorySize int `yaml:"history_size" mapstructure:"history_size"`

	Docker DockerConfig `yaml:"docker" mapstructure:"docker"`
	Kube   KubeConfig `yaml:"kube" mapstructure:"kube"`
	Exec   ExecConfig `yaml:"exec" mapstructure:"exec"`
	UI     UIConfig   `yaml:"ui" mapstructure:"ui"`
}

// ToolConfig describes an external CLI the dashboard shells out to.
type ToolConfig struct {
	// Binary is the executable name or absolute path.
	Binary string `yaml:"binary" mapstructure:"binary"`

	// Timeout bounds every invocation; the process is killed when it expires.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DockerConfig configures the docker CLI. Timeout applies to listings;
// lifecycle commands wait on the engine and get their own budgets.
type DockerConfig struct {
	ToolConfig `yaml:",inline" mapstructure:",squash"`

	// ActionTimeout bounds start, stop, restart and remove.
	ActionTimeout time.Duration `yaml:"action_timeout" mapstructure:"action_timeout"`

	// CreateTimeout bounds docker run, which may pull the image first.
	CreateTimeout time.Duration `yaml:"create_timeout" mapstructure:"create_timeout"`
}

// KubeConfig configures kubectl.
type KubeConfig struct {
	ToolConfig `yaml:",inline" mapstructure:",squash"`

	// Context selects a kubeconfig context. Empty uses the current one.
	Context string `yaml:"context" mapstructure:"context"`
}

// ExecConfig controls subprocess capture.
type ExecConfig struct {
	// StderrTail is how many trailing stderr bytes are kept for display.
	StderrTail int `yaml:"stderr_tail" mapstructure:"stderr_tail"`
}

// UIConfig controls presentation.
type UIConfig struct {
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Interval:      DefaultInterval,
		StatusTTL:     5 * time.Second,
		ShutdownGrace: 3 * time.Second,
		HistorySize:   DefaultHistorySize,
		Docker: DockerConfig{
			ToolConfig: ToolConfig{
				Binary:  "docker",
				Timeout: 5 * time.Second,
			},
			ActionTimeout: 30 * time.Second,
			CreateTimeout: 5 * time.Minute,
		},
		Kube: KubeConfig{
			ToolConfig: ToolConfig{
				Binary:  "kubectl",
				Timeout: 8 * time.Second,
			},
		},
		Exec: ExecConfig{
			StderrTail: DefaultStderrTail,
		},
	}
}
