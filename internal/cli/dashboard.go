package cli

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/rileyhilliard/stackdeck/internal/config"
	"github.com/rileyhilliard/stackdeck/internal/dashboard"
	"github.com/rileyhilliard/stackdeck/internal/docker"
	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/rileyhilliard/stackdeck/internal/exec"
	"github.com/rileyhilliard/stackdeck/internal/kube"
	"github.com/rileyhilliard/stackdeck/internal/logger"
	"github.com/rileyhilliard/stackdeck/internal/sysmetrics"
	"github.com/rileyhilliard/stackdeck/internal/worker"
)

// dashboardCommand wires the sources to the TUI and runs it until the user quits.
func dashboardCommand(cfg *config.Config, logPath string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"stackdeck needs an interactive terminal",
			"Run it directly in a terminal rather than through a pipe or redirect.")
	}

	if cfg.UI.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	closeLog, err := setupLogging(logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	pool := worker.New(context.Background(), worker.WithLogger(logger.NewEnvLogger("[worker]")))
	model := dashboard.NewModel(newSources(cfg), dashboardOptions(cfg, pool))

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()

	// A normal quit already shut the pool down; this covers a crashed program.
	pool.Shutdown(0)

	if err != nil {
		return errors.Wrap(err, "Dashboard exited with an error")
	}
	return nil
}

// newSources builds the metric, docker and kubectl backends from cfg.
func newSources(cfg *config.Config) dashboard.Sources {
	runner := exec.NewLocalRunner(
		exec.WithStderrTail(cfg.Exec.StderrTail),
		exec.WithLogger(logger.NewEnvLogger("[exec]")),
	)

	return dashboard.Sources{
		Metrics: sysmetrics.NewSampler(sysmetrics.WithLogger(logger.NewEnvLogger("[metrics]"))),
		Containers: docker.NewClient(runner, docker.Config{
			Binary:        cfg.Docker.Binary,
			Timeout:       cfg.Docker.Timeout,
			ActionTimeout: cfg.Docker.ActionTimeout,
			CreateTimeout: cfg.Docker.CreateTimeout,
		}, logger.NewEnvLogger("[docker]")),
		Cluster: kube.NewClient(runner, kube.Config{
			Binary:  cfg.Kube.Binary,
			Timeout: cfg.Kube.Timeout,
			Context: cfg.Kube.Context,
		}, logger.NewEnvLogger("[kube]")),
	}
}

func dashboardOptions(cfg *config.Config, pool *worker.Pool) dashboard.Options {
	grace := cfg.ShutdownGrace
	if grace == 0 {
		grace = -1 // don't wait
	}
	return dashboard.Options{
		Interval:      cfg.Interval,
		StatusTTL:     cfg.StatusTTL,
		ShutdownGrace: grace,
		HistorySize:   cfg.HistorySize,
		Logger:        logger.NewEnvLogger("[dashboard]"),
		Pool:          pool,
	}
}

// setupLogging points the standard logger at path. The TUI owns the terminal,
// so with no path all log output is discarded.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't create log directory "+filepath.Dir(path),
			"Pass --log-file with a writable path, or --log-file \"\" to disable logging.")
	}

	f, err := tea.LogToFile(path, "stackdeck")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log file "+path,
			"Pass --log-file with a writable path, or --log-file \"\" to disable logging.")
	}
	return func() { _ = f.Close() }, nil
}
