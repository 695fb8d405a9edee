package kube

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/rileyhilliard/stackdeck/internal/exec"
	"github.com/rileyhilliard/stackdeck/internal/logger"
)

// DefaultTimeout applies when Config.Timeout is zero. API servers are slower than a local daemon.
const DefaultTimeout = 8 * time.Second

// Config points the client at kubectl and, optionally, a kubeconfig context.
type Config struct {
	Binary  string
	Timeout time.Duration
	Context string
}

// Client runs kubectl through an exec.Runner.
type Client struct {
	runner exec.Runner
	cfg    Config
	log    logger.Logger
}

// NewClient creates a client. A nil logger is replaced with a no-op.
func NewClient(runner exec.Runner, cfg Config, log logger.Logger) *Client {
	if cfg.Binary == "" {
		cfg.Binary = "kubectl"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Client{runner: runner, cfg: cfg, log: log}
}

func (c *Client) run(ctx context.Context, args ...string) exec.Result {
	if c.cfg.Context != "" {
		args = append([]string{"--context", c.cfg.Context}, args...)
	}
	return c.runner.Run(ctx, exec.Command{Program: c.cfg.Binary, Args: args, Timeout: c.cfg.Timeout})
}

// ListPods returns pods from every namespace in the order the API server sent them.
func (c *Client) ListPods(ctx context.Context) ([]Pod, error) {
	res := c.run(ctx, "get", "pods", "--all-namespaces", "-o", "json")
	if !res.OK() {
		return nil, resultErr(res)
	}

	var list corev1.PodList
	if err := json.Unmarshal(res.Stdout, &list); err != nil {
		c.log.Warn("kubectl get pods: %v", err)
		return nil, resultErr(res.WithParseFailure(err.Error()))
	}
	if list.Kind != "" && list.Kind != "List" && list.Kind != "PodList" {
		return nil, resultErr(res.WithParseFailure("expected a pod list, got " + list.Kind))
	}

	pods := make([]Pod, 0, len(list.Items))
	for _, item := range list.Items {
		pods = append(pods, fromAPI(item))
	}
	return pods, nil
}

// DeletePod asks the API server to delete a pod without waiting for it to terminate.
func (c *Client) DeletePod(ctx context.Context, namespace, name string) error {
	return resultErr(c.run(ctx, "delete", "pod", name, "-n", namespace, "--wait=false"))
}

// unreachableMarkers are stderr fragments kubectl prints when it has no usable API server.
var unreachableMarkers = []string{
	"Unable to connect to the server",
	"The connection to the server",
	"no configuration has been provided",
	"dial tcp",
}

func resultErr(res exec.Result) error {
	switch res.Outcome.Kind {
	case exec.Success:
		return nil
	case exec.SpawnFailure:
		return errors.New(errors.ErrSpawn,
			"kubectl not installed",
			"Install kubectl or set kube.binary in your config.")
	case exec.OutputParseFailure:
		return errors.New(errors.ErrParse,
			"unexpected kubectl output: "+res.Outcome.Reason,
			"This kubectl version may format output differently.")
	case exec.NonZeroExit:
		for _, m := range unreachableMarkers {
			if strings.Contains(res.StderrTail, m) {
				return errors.New(errors.ErrExit,
					"cluster unreachable",
					"Check your kubeconfig context and that the API server is up.")
			}
		}
	}
	return res.Err()
}
