// Package testing provides test doubles for the exec package.
package testing

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/stackdeck/internal/exec"
)

// Response is a canned result for commands matching a key.
type Response struct {
	Stdout  string
	Stderr  string
	Outcome exec.Outcome

	// Delay simulates a slow tool. A cancelled ctx cuts it short with a Timeout outcome.
	Delay time.Duration
	// Gate, when set, holds the command in flight until the channel is closed.
	Gate chan struct{}
}

// OK is a zero-exit response with the given stdout.
func OK(stdout string) Response {
	return Response{Stdout: stdout, Outcome: exec.Outcome{Kind: exec.Success}}
}

// Fail is a non-zero exit with stderr.
func Fail(code int, stderr string) Response {
	return Response{Stderr: stderr, Outcome: exec.Outcome{Kind: exec.NonZeroExit, ExitCode: code}}
}

// Missing simulates a binary that isn't on PATH.
func Missing() Response {
	return Response{Outcome: exec.Outcome{Kind: exec.SpawnFailure, Reason: "executable file not found in $PATH"}}
}

// TimedOut simulates a command killed at its deadline.
func TimedOut() Response {
	return Response{Outcome: exec.Outcome{Kind: exec.Timeout, Reason: exec.ReasonDeadline}}
}

// FakeRunner answers commands from canned responses instead of spawning processes.
//
// Keys are matched as prefixes of "<program base> <args...>", longest key wins.
// Responses queued for a key are consumed in order; the last one repeats.
// Commands with no matching key fail with SpawnFailure.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string][]Response

	// Tracking for assertions
	Calls []exec.Command
}

// NewFakeRunner creates an empty fake.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string][]Response)}
}

// On queues responses for commands starting with key, e.g. "docker ps".
func (f *FakeRunner) On(key string, resps ...Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key] = append(f.responses[key], resps...)
	return f
}

// Reset replaces any queued responses for key.
func (f *FakeRunner) Reset(key string, resps ...Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key] = resps
	return f
}

// Run implements exec.Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd exec.Command) exec.Result {
	resp, ok := f.next(cmd)
	res := exec.Result{Command: cmd}
	if !ok {
		res.Outcome = exec.Outcome{Kind: exec.SpawnFailure, Reason: "no fake response for " + Line(cmd)}
		return res
	}

	start := time.Now()
	if resp.Gate != nil {
		select {
		case <-resp.Gate:
		case <-ctx.Done():
			res.Outcome = exec.Outcome{Kind: exec.Timeout, Reason: exec.ReasonCancelled}
			res.Duration = time.Since(start)
			return res
		}
	}
	if resp.Delay > 0 {
		t := time.NewTimer(resp.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			res.Outcome = exec.Outcome{Kind: exec.Timeout, Reason: exec.ReasonCancelled}
			res.Duration = time.Since(start)
			return res
		}
	}

	res.Outcome = resp.Outcome
	res.Stdout = []byte(resp.Stdout)
	res.StderrTail = resp.Stderr
	res.Duration = time.Since(start)
	return res
}

// CallCount returns how many commands starting with key were run.
func (f *FakeRunner) CallCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(Line(c), key) {
			n++
		}
	}
	return n
}

// Lines returns every recorded command rendered as Line would.
func (f *FakeRunner) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = Line(c)
	}
	return out
}

func (f *FakeRunner) next(cmd exec.Command) (Response, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, cmd)

	line := Line(cmd)
	best := ""
	found := false
	for key := range f.responses {
		if strings.HasPrefix(line, key) && len(key) >= len(best) && len(f.responses[key]) > 0 {
			best = key
			found = true
		}
	}
	if !found {
		return Response{}, false
	}

	queue := f.responses[best]
	resp := queue[0]
	if len(queue) > 1 {
		f.responses[best] = queue[1:]
	}
	return resp, true
}

// Line renders cmd as "<program base> <args...>".
func Line(cmd exec.Command) string {
	parts := append([]string{filepath.Base(cmd.Program)}, cmd.Args...)
	return strings.Join(parts, " ")
}
