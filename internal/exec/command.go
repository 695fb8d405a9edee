package exec

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rileyhilliard/stackdeck/internal/errors"
)

// Runner executes an external program and reports how it ended.
// Implementations never return a Go error: every failure is folded into Result.Outcome.
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// Command is one invocation of an external tool. Args are passed as an argv
// vector, never through a shell.
type Command struct {
	Program string
	Args    []string
	Timeout time.Duration
}

// Label is a short human name for the command, e.g. "docker ps".
func (c Command) Label() string {
	name := filepath.Base(c.Program)
	if len(c.Args) > 0 {
		return name + " " + c.Args[0]
	}
	return name
}

// String renders the full argv for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}

// Kind classifies how a command ended.
type Kind int

const (
	Success Kind = iota
	NonZeroExit
	Timeout
	SpawnFailure
	OutputParseFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case NonZeroExit:
		return "non-zero exit"
	case Timeout:
		return "timeout"
	case SpawnFailure:
		return "spawn failure"
	case OutputParseFailure:
		return "output parse failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Reasons attached to a Timeout outcome.
const (
	ReasonDeadline  = "deadline exceeded"
	ReasonCancelled = "cancelled"
)

// Outcome is the classified end state of a command.
// ExitCode is only meaningful for NonZeroExit.
type Outcome struct {
	Kind     Kind
	ExitCode int
	Reason   string
}

// Result carries everything a source needs to turn a finished command into data or an error.
type Result struct {
	Command    Command
	Outcome    Outcome
	Stdout     []byte
	StderrTail string
	// StderrTruncated is set when StderrTail lost earlier output.
	StderrTruncated bool
	Duration        time.Duration
}

// OK reports whether the command exited zero and its output has not been rejected.
func (r Result) OK() bool {
	return r.Outcome.Kind == Success
}

// WithParseFailure downgrades a successful result whose stdout could not be decoded.
func (r Result) WithParseFailure(reason string) Result {
	r.Outcome = Outcome{Kind: OutputParseFailure, Reason: reason}
	return r
}

// Err converts a failed result into a coded error for the status bar.
// It returns nil for Success.
func (r Result) Err() error {
	label := r.Command.Label()
	tool := filepath.Base(r.Command.Program)

	switch r.Outcome.Kind {
	case Success:
		return nil
	case SpawnFailure:
		return errors.New(errors.ErrSpawn,
			fmt.Sprintf("%s not installed or not executable", tool),
			fmt.Sprintf("Install %s or point the config at the right binary.", tool))
	case Timeout:
		if r.Outcome.Reason == ReasonCancelled {
			return errors.New(errors.ErrTimeout,
				fmt.Sprintf("%s cancelled", label),
				"It was stopped before finishing, usually because stackdeck was quitting.")
		}
		msg := fmt.Sprintf("%s timed out", label)
		if r.Command.Timeout > 0 {
			msg += fmt.Sprintf(" after %s", r.Command.Timeout)
		}
		return errors.New(errors.ErrTimeout, msg,
			"The tool may be hung; check that its backend is responding.")
	case OutputParseFailure:
		return errors.New(errors.ErrParse,
			fmt.Sprintf("unexpected %s output: %s", tool, r.Outcome.Reason),
			fmt.Sprintf("Check that your %s version is supported.", tool))
	default:
		msg := fmt.Sprintf("%s exited %d", label, r.Outcome.ExitCode)
		if tail := strings.TrimSpace(r.StderrTail); tail != "" {
			if r.StderrTruncated {
				tail = "…" + tail
			}
			return errors.WrapWithCode(fmt.Errorf("%s", tail), errors.ErrExit, msg, "")
		}
		return errors.New(errors.ErrExit, msg, "")
	}
}
