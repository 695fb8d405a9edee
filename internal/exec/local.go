package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"

	"github.com/rileyhilliard/stackdeck/internal/logger"
)

// DefaultWaitDelay bounds how long Run waits for the process's pipes to close
// after the process is killed.
const DefaultWaitDelay = 500 * time.Millisecond

// LocalRunner runs commands on this machine with os/exec.
type LocalRunner struct {
	stderrTail int
	waitDelay  time.Duration
	paths      *pathCache
	log        logger.Logger
}

// Option configures a LocalRunner.
type Option func(*LocalRunner)

// WithStderrTail sets how many trailing bytes of stderr are kept per command.
func WithStderrTail(n int) Option {
	return func(r *LocalRunner) { r.stderrTail = n }
}

// WithWaitDelay overrides DefaultWaitDelay.
func WithWaitDelay(d time.Duration) Option {
	return func(r *LocalRunner) { r.waitDelay = d }
}

// WithLogger routes command tracing to l.
func WithLogger(l logger.Logger) Option {
	return func(r *LocalRunner) { r.log = l }
}

// NewLocalRunner creates a runner with a 2 KiB stderr tail unless overridden.
func NewLocalRunner(opts ...Option) *LocalRunner {
	r := &LocalRunner{
		stderrTail: 2048,
		waitDelay:  DefaultWaitDelay,
		paths:      newPathCache(),
		log:        logger.Noop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cmd and classifies the result. stdin is the null device, so a
// tool that prompts for input reads EOF instead of stealing the terminal.
// The process is killed when cmd.Timeout elapses or ctx is cancelled.
func (r *LocalRunner) Run(ctx context.Context, cmd Command) Result {
	start := time.Now()
	res := Result{Command: cmd}

	path, err := r.paths.LookPath(cmd.Program)
	if err != nil {
		res.Outcome = Outcome{Kind: SpawnFailure, Reason: err.Error()}
		res.Duration = time.Since(start)
		r.log.Debug("%s: lookup failed: %v", cmd.Label(), err)
		return res
	}

	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	stderr := newTailBuffer(r.stderrTail)

	c := exec.CommandContext(ctx, path, cmd.Args...)
	c.Stdin = nil
	c.Stdout = &stdout
	c.Stderr = stderr
	c.WaitDelay = r.waitDelay

	runErr := c.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.Bytes()
	res.StderrTail = stderr.String()
	res.StderrTruncated = stderr.Truncated()
	res.Outcome = classify(ctx, runErr, res.StderrTail)

	if res.Outcome.Kind == SpawnFailure {
		// The binary may have moved; re-resolve on the next call.
		r.paths.Forget(cmd.Program)
	}

	if res.StderrTruncated {
		r.log.Debug("%s: dropped %d bytes of stderr", cmd.Label(), stderr.lost)
	}
	r.log.Debug("%s: %s in %s", cmd.String(), res.Outcome.Kind, res.Duration.Round(time.Millisecond))
	return res
}

func classify(ctx context.Context, runErr error, stderr string) Outcome {
	if runErr == nil {
		return Outcome{Kind: Success}
	}

	// A killed process also surfaces as an ExitError, so check the deadline first.
	if ctxErr := ctx.Err(); ctxErr != nil {
		reason := ReasonDeadline
		if stderrors.Is(ctxErr, context.Canceled) {
			reason = ReasonCancelled
		}
		return Outcome{Kind: Timeout, Reason: reason}
	}

	var exitErr *exec.ExitError
	if stderrors.As(runErr, &exitErr) {
		code := exitErr.ExitCode()
		if name, missing := IsCommandNotFound(stderr, code); missing {
			reason := "command not found"
			if name != "" {
				reason = name + ": command not found"
			}
			return Outcome{Kind: SpawnFailure, ExitCode: code, Reason: reason}
		}
		return Outcome{Kind: NonZeroExit, ExitCode: code, Reason: firstLine(stderr)}
	}

	return Outcome{Kind: SpawnFailure, Reason: runErr.Error()}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
