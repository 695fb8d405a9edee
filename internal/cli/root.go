package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/stackdeck/internal/config"
)

// rootCmd runs the dashboard when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "stackdeck",
	Short: "Terminal dashboard for host metrics, Docker and Kubernetes",
	Long: `stackdeck shows live CPU, memory and network usage for this machine,
lists Docker containers and images, and lists Kubernetes pods, with
start/stop/restart/remove actions on the selected entry.

Docker and Kubernetes data come from the docker and kubectl CLIs, so both
must be on PATH (or configured with --docker / --kubectl).

Examples:
  stackdeck
  stackdeck --interval 5s --context staging
  stackdeck config init`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logPath, _ := cmd.Flags().GetString("log-file")
		return dashboardCommand(cfg, logPath)
	},
}

func init() {
	addConfigFlags(rootCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

// addConfigFlags registers the flags that override config values.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "config file (default ./"+config.ConfigFileName+", then ~/"+config.GlobalConfigDir+"/"+config.GlobalConfigFile+")")
	f.Duration("interval", config.DefaultInterval, "refresh interval for the visible tab (min "+config.MinInterval.String()+")")
	f.String("docker", "", "docker binary name or path")
	f.String("kubectl", "", "kubectl binary name or path")
	f.String("context", "", "kubeconfig context to use")
	f.Bool("no-color", false, "disable colors")
	f.String("log-file", defaultLogPath(), "write logs to this file; empty disables logging")
}

// loadConfig reads the config file and applies flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Changed("interval") {
		cfg.Interval, _ = flags.GetDuration("interval")
	}
	if flags.Changed("docker") {
		cfg.Docker.Binary, _ = flags.GetString("docker")
	}
	if flags.Changed("kubectl") {
		cfg.Kube.Binary, _ = flags.GetString("kubectl")
	}
	if flags.Changed("context") {
		cfg.Kube.Context, _ = flags.GetString("context")
	}
	if flags.Changed("no-color") {
		cfg.UI.NoColor, _ = flags.GetBool("no-color")
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultLogPath follows the XDG state directory convention.
func defaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return ""
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "stackdeck", "stackdeck.log")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
