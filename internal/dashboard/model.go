package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/stackdeck/internal/docker"
	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/rileyhilliard/stackdeck/internal/logger"
	"github.com/rileyhilliard/stackdeck/internal/worker"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultInterval      = 2 * time.Second
	DefaultStatusTTL     = 5 * time.Second
	DefaultShutdownGrace = 3 * time.Second
)

// Options configures a Model.
type Options struct {
	Interval  time.Duration
	StatusTTL time.Duration
	// ShutdownGrace bounds the wait for running jobs on quit.
	// Zero means DefaultShutdownGrace; negative means don't wait.
	ShutdownGrace time.Duration
	HistorySize   int
	Logger        logger.Logger

	// Pool runs fetches and commands. NewModel creates one when nil.
	Pool *worker.Pool
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	state   *AppState
	sched   *Scheduler
	disp    *Dispatcher
	keys    keyMap
	pool    *worker.Pool
	sources Sources
	history *History
	spinner spinner.Model

	// Per-container series for the Docker detail pane.
	ctrHistory *ContainerHistory

	// Create dialog; nil when closed.
	form     *huh.Form
	formData *docker.CreateForm

	// Destructive request awaiting y/n.
	confirm *Request

	showHelp bool
	width    int
	height   int

	interval  time.Duration
	statusTTL time.Duration
	grace     time.Duration
	quitting  bool
	now       func() time.Time
	log       logger.Logger
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// clearStatusMsg hides the status if it is still the one numbered seq.
type clearStatusMsg struct{ seq int }

// NewModel creates a dashboard over the given sources.
func NewModel(src Sources, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = DefaultStatusTTL
	}
	switch {
	case opts.ShutdownGrace == 0:
		opts.ShutdownGrace = DefaultShutdownGrace
	case opts.ShutdownGrace < 0:
		opts.ShutdownGrace = 0
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Pool == nil {
		opts.Pool = worker.New(context.Background(), worker.WithLogger(opts.Logger))
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = sp.Style.Foreground(ColorGraph)

	return Model{
		state:      NewAppState(),
		sched:      NewScheduler(),
		disp:       NewDispatcher(opts.StatusTTL),
		keys:       newKeyMap(),
		pool:       opts.Pool,
		sources:    src,
		history:    NewHistory(opts.HistorySize),
		ctrHistory: NewContainerHistory(opts.HistorySize),
		spinner:    sp,
		interval:   opts.Interval,
		statusTTL:  opts.StatusTTL,
		grace:      opts.ShutdownGrace,
		now:        time.Now,
		log:        opts.Logger,
	}
}

// State exposes the application state for rendering and tests.
func (m Model) State() *AppState {
	return m.state
}

// Init starts the tick timer, the result poller and the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.pool.Next(),
		m.fetch(SourcesFor(m.state.Tab)),
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			return m.updateForm(msg)
		}

	case tickMsg:
		m.state.ExpireStatus(time.Time(msg))
		return m, tea.Batch(m.tickCmd(), m.fetch(SourcesFor(m.state.Tab)))

	case clearStatusMsg:
		m.state.ClearStatus(msg.seq)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case worker.Result:
		cmd := m.handleResult(msg)
		return m, tea.Batch(m.pool.Next(), cmd)

	default:
		if m.form != nil {
			return m.updateForm(msg)
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// statusCmd schedules a clear for the current status if it changed since prevSeq.
func (m Model) statusCmd(prevSeq int) tea.Cmd {
	seq := m.state.Status.seq
	if seq == prevSeq || m.state.Status.Text == "" {
		return nil
	}
	return tea.Tick(m.statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// fetch submits a refresh for every source in srcs that isn't already in flight.
// Results arrive later as worker.Result messages.
func (m Model) fetch(srcs []Source) tea.Cmd {
	m.submitFetches(m.sched.Due(srcs))
	return nil
}

// relist is fetch for after a command. A source whose fetch is already
// running gets another one once that result lands, since the running one
// may have read the engine before the command took effect.
func (m Model) relist(srcs []Source) tea.Cmd {
	m.submitFetches(m.sched.Relist(srcs))
	return nil
}

func (m Model) submitFetches(due []Source) {
	for _, src := range due {
		if _, err := m.pool.Submit(src.String(), m.sources.fetchJob(src)); err != nil {
			m.sched.Done(src)
			m.log.Debug("[dashboard] fetch %s not submitted: %v", src, err)
		}
	}
}

// submit hands a lifecycle request to the pool.
func (m Model) submit(req Request) {
	if _, err := m.pool.Submit(req.Describe(), m.sources.commandJob(req)); err != nil {
		m.disp.Finish(m.state, req, err)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := m.state.Status.seq

	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if m.confirm != nil {
		req := *m.confirm
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirm = nil
			cmd := m.apply(m.disp.Confirm(m.state, req))
			return m, tea.Batch(cmd, m.statusCmd(prev))
		case key.Matches(msg, m.keys.Cancel):
			m.confirm = nil
		}
		return m, nil
	}

	action := m.keys.Resolve(msg)
	if m.showHelp {
		switch {
		case action == ActionQuit:
			return m.quit()
		case action == ActionToggleHelp || msg.String() == "esc":
			m.showHelp = false
		}
		return m, nil
	}
	if action == ActionNone {
		return m, nil
	}

	target, ok := m.state.Target()
	if !ok {
		target = Target{}
	}
	effect := m.disp.Dispatch(m.state, action, target)
	if effect.Quit {
		return m.quit()
	}
	cmd := m.apply(effect)
	return m, tea.Batch(cmd, m.statusCmd(prev))
}

// apply carries out an Effect that doesn't end the program.
func (m *Model) apply(e Effect) tea.Cmd {
	if e.ToggleHelp {
		m.showHelp = !m.showHelp
	}
	if e.Confirm != nil {
		m.confirm = e.Confirm
	}
	if e.Request != nil {
		m.submit(*e.Request)
	}
	if e.OpenCreateForm {
		m.formData = &docker.CreateForm{}
		m.form = newCreateForm(m.formData, m.width)
		return m.form.Init()
	}
	return m.fetch(e.Fetch)
}

// updateForm forwards msg to the create dialog and handles submit or abort.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	prev := m.state.Status.seq

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		data := *m.formData
		m.form, m.formData = nil, nil
		spec, err := data.Spec()
		if err != nil {
			m.state.SetStatus(errors.Short(err), SeverityError, m.now(), m.statusTTL)
			return m, m.statusCmd(prev)
		}
		cmd = m.apply(m.disp.Create(m.state, spec))
		return m, tea.Batch(cmd, m.statusCmd(prev))

	case huh.StateAborted:
		m.form, m.formData = nil, nil
		return m, nil
	}
	return m, cmd
}

// handleResult merges a finished job into the state. Results for tabs that
// aren't visible still update their cached data.
func (m *Model) handleResult(res worker.Result) tea.Cmd {
	prev := m.state.Status.seq
	now := m.now()

	m.log.Debug("[dashboard] job %s (%s) finished in %s", res.JobID, res.Name, res.Elapsed.Round(time.Millisecond))

	if src, ok := resultSource(res.Payload); ok && m.sched.Done(src) {
		m.log.Debug("[dashboard] job %s read %s before a command finished; fetching again", res.JobID, src)
		return m.fetch([]Source{src})
	}

	switch p := res.Payload.(type) {
	case metricsResult:
		if p.err != nil {
			m.fetchFailed(SourceMetrics, p.err, now)
			break
		}
		m.state.SetMetrics(p.snap, now)
		m.history.Push(p.snap)

	case containersResult:
		if p.err != nil {
			m.fetchFailed(SourceContainers, p.err, now)
			break
		}
		m.state.SetContainers(p.list, now)

	case imagesResult:
		if p.err != nil {
			m.fetchFailed(SourceImages, p.err, now)
			break
		}
		m.state.SetImages(p.list, now)

	case podsResult:
		if p.err != nil {
			m.fetchFailed(SourcePods, p.err, now)
			break
		}
		m.state.SetPods(p.list, now)

	case statsResult:
		// The containers list reports the same daemon errors, so stats
		// failures only show in the detail pane.
		if p.err != nil {
			m.log.Debug("[dashboard] stats fetch failed: %v", p.err)
			m.state.SetFetchError(SourceStats, errors.Short(p.err))
			break
		}
		m.state.SetStats(p.list, now)
		m.ctrHistory.Push(p.list, now)

	case commandResult:
		if p.err != nil {
			m.log.Warn("[dashboard] %s failed after %s: %v", p.req.Describe(), p.duration.Round(time.Millisecond), p.err)
		} else {
			m.log.Info("[dashboard] %s done in %s", p.req.Describe(), p.duration.Round(time.Millisecond))
		}
		relist := m.disp.Finish(m.state, p.req, p.err)
		return tea.Batch(m.relist(relist), m.statusCmd(prev))
	}

	return m.statusCmd(prev)
}

// fetchFailed keeps the previous data and surfaces the error. A repeat of the
// same error on later ticks doesn't re-raise the banner.
func (m *Model) fetchFailed(src Source, err error, now time.Time) {
	msg := errors.Short(err)
	m.log.Debug("[dashboard] %s fetch failed: %v", src, err)
	if m.state.LastError(src) != msg {
		m.state.SetStatus(msg, SeverityError, now, m.statusTTL)
	}
	m.state.SetFetchError(src, msg)
}

// quit stops accepting work and waits, bounded by the grace period, for jobs
// still running before the program exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	pool, grace, log := m.pool, m.grace, m.log
	return m, func() tea.Msg {
		if !pool.Shutdown(grace) {
			log.Warn("[dashboard] exited with commands still running")
		}
		return tea.Quit()
	}
}
