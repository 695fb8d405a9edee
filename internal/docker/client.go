package docker

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/rileyhilliard/stackdeck/internal/exec"
	"github.com/rileyhilliard/stackdeck/internal/logger"
)

// Zero-value fallbacks for Config.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultActionTimeout = 30 * time.Second
	DefaultCreateTimeout = 5 * time.Minute
)

// maxStopGrace caps the --time passed to stop and restart. It matches
// docker's own default grace period.
const maxStopGrace = 10

// Config points the client at a docker-compatible CLI. Timeout bounds
// listings, ActionTimeout bounds lifecycle commands and CreateTimeout
// bounds docker run, which may pull an image first.
type Config struct {
	Binary        string
	Timeout       time.Duration
	ActionTimeout time.Duration
	CreateTimeout time.Duration
}

// Client runs the docker CLI through an exec.Runner.
type Client struct {
	runner        exec.Runner
	binary        string
	timeout       time.Duration
	actionTimeout time.Duration
	createTimeout time.Duration
	log           logger.Logger
}

// NewClient creates a client. A nil logger is replaced with a no-op.
func NewClient(runner exec.Runner, cfg Config, log logger.Logger) *Client {
	if cfg.Binary == "" {
		cfg.Binary = "docker"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = DefaultActionTimeout
	}
	if cfg.CreateTimeout <= 0 {
		cfg.CreateTimeout = DefaultCreateTimeout
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Client{
		runner:        runner,
		binary:        cfg.Binary,
		timeout:       cfg.Timeout,
		actionTimeout: cfg.ActionTimeout,
		createTimeout: cfg.CreateTimeout,
		log:           log,
	}
}

func (c *Client) run(ctx context.Context, args ...string) exec.Result {
	return c.runWithin(ctx, c.timeout, args...)
}

func (c *Client) runWithin(ctx context.Context, timeout time.Duration, args ...string) exec.Result {
	return c.runner.Run(ctx, exec.Command{Program: c.binary, Args: args, Timeout: timeout})
}

// act runs a lifecycle command under the action timeout.
func (c *Client) act(ctx context.Context, args ...string) error {
	return resultErr(c.runWithin(ctx, c.actionTimeout, args...))
}

// stopGrace is the --time value for stop and restart. It leaves the engine
// room to SIGKILL and report back before the action timeout fires.
func (c *Client) stopGrace() string {
	grace := int(c.actionTimeout / time.Second / 2)
	grace = max(0, min(grace, maxStopGrace))
	return strconv.Itoa(grace)
}

// ListContainers returns every container, running or not, in engine order.
func (c *Client) ListContainers(ctx context.Context) ([]Container, error) {
	res := c.run(ctx, "ps", "-a", "--format", "{{json .}}")
	if !res.OK() {
		return nil, resultErr(res)
	}
	containers, err := parseContainers(res.Stdout)
	if err != nil {
		c.log.Warn("docker ps: %v", err)
		return nil, resultErr(res.WithParseFailure(err.Error()))
	}
	return containers, nil
}

// ListImages returns local images in engine order.
func (c *Client) ListImages(ctx context.Context) ([]Image, error) {
	res := c.run(ctx, "images", "--format", "{{json .}}")
	if !res.OK() {
		return nil, resultErr(res)
	}
	images, err := parseImages(res.Stdout)
	if err != nil {
		c.log.Warn("docker images: %v", err)
		return nil, resultErr(res.WithParseFailure(err.Error()))
	}
	return images, nil
}

// ListStats samples resource usage of running containers once.
func (c *Client) ListStats(ctx context.Context) ([]Stats, error) {
	res := c.run(ctx, "stats", "--no-stream", "--format", "{{json .}}")
	if !res.OK() {
		return nil, resultErr(res)
	}
	stats, err := parseStats(res.Stdout)
	if err != nil {
		c.log.Warn("docker stats: %v", err)
		return nil, resultErr(res.WithParseFailure(err.Error()))
	}
	return stats, nil
}

// Start starts a stopped container.
func (c *Client) Start(ctx context.Context, id string) error {
	return c.act(ctx, "start", id)
}

// Stop stops a running container.
func (c *Client) Stop(ctx context.Context, id string) error {
	return c.act(ctx, "stop", "--time", c.stopGrace(), id)
}

// Restart restarts a container.
func (c *Client) Restart(ctx context.Context, id string) error {
	return c.act(ctx, "restart", "--time", c.stopGrace(), id)
}

// Remove force-removes a container, stopping it first if needed.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.act(ctx, "rm", "-f", id)
}

// RemoveImage force-removes an image.
func (c *Client) RemoveImage(ctx context.Context, id string) error {
	return c.act(ctx, "rmi", "-f", id)
}

// Create runs a detached container and returns its id.
func (c *Client) Create(ctx context.Context, spec CreateSpec) (string, error) {
	if spec.Image == "" {
		return "", errors.New(errors.ErrConfig, "Image is required", "")
	}
	res := c.runWithin(ctx, c.createTimeout, spec.Args()...)
	if err := resultErr(res); err != nil {
		return "", err
	}
	id := strings.TrimSpace(string(res.Stdout))
	if len(id) > 12 {
		id = id[:12]
	}
	return id, nil
}

// daemonDownMarkers are stderr fragments docker prints when it can't reach the engine.
var daemonDownMarkers = []string{
	"Cannot connect to the Docker daemon",
	"Is the docker daemon running",
	"error during connect",
}

// resultErr refines exec.Result.Err with docker-specific wording.
func resultErr(res exec.Result) error {
	switch res.Outcome.Kind {
	case exec.Success:
		return nil
	case exec.SpawnFailure:
		return errors.New(errors.ErrSpawn,
			"docker not installed",
			"Install Docker or set docker.binary in your config.")
	case exec.OutputParseFailure:
		return errors.New(errors.ErrParse,
			"unexpected docker output: "+res.Outcome.Reason,
			"This docker version may format output differently.")
	case exec.NonZeroExit:
		for _, m := range daemonDownMarkers {
			if strings.Contains(res.StderrTail, m) {
				return errors.New(errors.ErrExit,
					"docker daemon unreachable",
					"Start Docker and try again.")
			}
		}
	}
	return res.Err()
}
