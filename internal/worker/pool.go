// Package worker runs blocking source calls off the UI goroutine and hands
// their results back through a single channel.
package worker

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/rileyhilliard/stackdeck/internal/logger"
)

// ErrClosed is returned by Submit once Shutdown has begun.
var ErrClosed = stderrors.New("worker pool is shut down")

const (
	defaultConcurrency = 8
	defaultBuffer      = 32
	// cancelDrain bounds the wait for jobs to notice cancellation after the grace period.
	cancelDrain = 2 * time.Second
)

// Func is the body of a job. It should return promptly once ctx is done.
type Func func(ctx context.Context) any

// Result is delivered to the UI loop as a tea.Msg when a job finishes.
type Result struct {
	JobID   string
	Name    string
	Payload any
	Elapsed time.Duration
}

// Pool runs jobs in goroutines, at most Concurrency at a time.
type Pool struct {
	ctx      context.Context
	cancel   context.CancelFunc
	results  chan Result
	stopping chan struct{}
	sem      chan struct{}
	wg       sync.WaitGroup
	inFlight atomic.Int64
	log      logger.Logger

	mu     sync.Mutex
	closed bool
}

// Option configures a Pool.
type Option func(*poolOptions)

type poolOptions struct {
	concurrency int
	buffer      int
	log         logger.Logger
}

// WithConcurrency caps how many jobs run at once.
func WithConcurrency(n int) Option {
	return func(o *poolOptions) { o.concurrency = n }
}

// WithBuffer sizes the results channel.
func WithBuffer(n int) Option {
	return func(o *poolOptions) { o.buffer = n }
}

// WithLogger sets the logger used for job tracing.
func WithLogger(l logger.Logger) Option {
	return func(o *poolOptions) { o.log = l }
}

// New creates a pool whose jobs share a context derived from parent.
func New(parent context.Context, opts ...Option) *Pool {
	o := poolOptions{concurrency: defaultConcurrency, buffer: defaultBuffer, log: logger.Noop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}

	ctx, cancel := context.WithCancel(parent)
	return &Pool{
		ctx:      ctx,
		cancel:   cancel,
		results:  make(chan Result, o.buffer),
		stopping: make(chan struct{}),
		sem:      make(chan struct{}, o.concurrency),
		log:      o.log,
	}
}

// Submit starts fn in the background and returns its job id.
func (p *Pool) Submit(name string, fn Func) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return "", ErrClosed
	}

	id := uuid.NewString()
	p.wg.Add(1)
	p.inFlight.Add(1)
	go p.run(id, name, fn)
	return id, nil
}

func (p *Pool) run(id, name string, fn Func) {
	defer p.wg.Done()
	defer p.inFlight.Add(-1)

	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
	case <-p.ctx.Done():
		p.log.Debug("[worker] %s (%s) dropped before start", name, id[:8])
		return
	}

	start := time.Now()
	p.log.Debug("[worker] %s (%s) started", name, id[:8])
	payload := fn(p.ctx)
	res := Result{JobID: id, Name: name, Payload: payload, Elapsed: time.Since(start)}
	p.log.Debug("[worker] %s (%s) finished in %s", name, id[:8], res.Elapsed.Round(time.Millisecond))

	select {
	case p.results <- res:
	case <-p.stopping:
		// Nobody is reading any more.
	}
}

// Next returns a command that waits for the next finished job.
// Re-issue it after every Result. It yields nil once the pool is shutting down.
func (p *Pool) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case res := <-p.results:
			return res
		case <-p.stopping:
			return nil
		}
	}
}

// InFlight reports the number of submitted jobs that have not finished.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}

// Shutdown stops accepting jobs and waits up to grace for running ones.
// Stragglers are then cancelled, which kills their subprocesses.
// It reports whether every job finished within the grace period.
func (p *Pool) Shutdown(grace time.Duration) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return true
	}
	p.closed = true
	close(p.stopping)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	clean := true
	if grace > 0 {
		t := time.NewTimer(grace)
		defer t.Stop()
		select {
		case <-done:
		case <-t.C:
			clean = false
		}
	} else {
		clean = p.InFlight() == 0
	}

	p.cancel()
	if !clean {
		p.log.Warn("[worker] %d job(s) still running after %s, cancelling", p.InFlight(), grace)
		select {
		case <-done:
		case <-time.After(cancelDrain):
			p.log.Warn("[worker] %d job(s) ignored cancellation", p.InFlight())
		}
	}
	return clean
}
