package dashboard

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/stackdeck/internal/docker"
	"github.com/rileyhilliard/stackdeck/internal/errors"
)

// Effect is what the model must do after a dispatch. The zero value means nothing.
type Effect struct {
	Quit           bool
	Fetch          []Source
	Request        *Request // run now
	Confirm        *Request // ask y/n first, then call Dispatcher.Confirm
	OpenCreateForm bool
	ToggleHelp     bool
}

// Dispatcher turns actions into state changes and lifecycle requests.
// It remembers which (verb, entity) pairs are in flight so repeats are ignored.
type Dispatcher struct {
	pending map[string]bool
	ttl     time.Duration
	now     func() time.Time
}

// NewDispatcher creates a dispatcher whose status messages last ttl.
func NewDispatcher(ttl time.Duration) *Dispatcher {
	return &Dispatcher{pending: make(map[string]bool), ttl: ttl, now: time.Now}
}

// Pending reports how many lifecycle requests are in flight.
func (d *Dispatcher) Pending() int {
	return len(d.pending)
}

// Dispatch applies action to s. target is the entity that was highlighted when
// the key was pressed; it is re-validated by id before any command is issued.
func (d *Dispatcher) Dispatch(s *AppState, action Action, target Target) Effect {
	switch action {
	case ActionQuit:
		return Effect{Quit: true}
	case ActionToggleHelp:
		return Effect{ToggleHelp: true}

	case ActionTabSystem:
		return d.switchTab(s, TabSystem)
	case ActionTabDocker:
		return d.switchTab(s, TabDocker)
	case ActionTabKubernetes:
		return d.switchTab(s, TabKubernetes)
	case ActionNextTab:
		return d.switchTab(s, s.Tab.Next())

	case ActionUp:
		s.Move(-1)
	case ActionDown:
		s.Move(1)
	case ActionFirst:
		s.First()
	case ActionLast:
		s.Last()

	case ActionToggleDockerView:
		if s.Tab == TabDocker {
			s.ToggleDockerView()
		}

	case ActionRefresh:
		return Effect{Fetch: SourcesFor(s.Tab)}

	case ActionStart:
		return d.lifecycle(s, VerbStart, target)
	case ActionStop:
		return d.lifecycle(s, VerbStop, target)
	case ActionRestart:
		return d.lifecycle(s, VerbRestart, target)
	case ActionDelete:
		return d.lifecycle(s, VerbRemove, target)

	case ActionCreate:
		if s.Tab == TabDocker {
			return Effect{OpenCreateForm: true}
		}

	case ActionPresetPostgres, ActionPresetRedis, ActionPresetMongo, ActionPresetGrafana:
		if s.Tab != TabDocker {
			return Effect{}
		}
		preset, ok := docker.LookupPreset(presetKeys[action])
		if !ok {
			return Effect{}
		}
		return d.Create(s, preset.Spec(d.now()))
	}

	return Effect{}
}

func (d *Dispatcher) switchTab(s *AppState, t Tab) Effect {
	if !s.SwitchTab(t) {
		return Effect{}
	}
	return Effect{Fetch: SourcesFor(t)}
}

func (d *Dispatcher) lifecycle(s *AppState, verb Verb, target Target) Effect {
	if s.Tab == TabSystem {
		return Effect{}
	}
	if target.Kind == EntityNone || target.ID == "" {
		s.SetStatus("Nothing selected", SeverityInfo, d.now(), d.ttl)
		return Effect{}
	}
	if target.Kind != EntityContainer && verb != VerbRemove {
		s.SetStatus(fmt.Sprintf("Can't %s %ss", verb, target.Kind), SeverityInfo, d.now(), d.ttl)
		return Effect{}
	}
	if !s.Contains(target) {
		d.noSuchEntity(s, target)
		return Effect{}
	}

	req := Request{Verb: verb, Target: target}
	if req.Destructive() {
		return Effect{Confirm: &req}
	}
	return d.issue(s, req)
}

// Confirm issues a request the user approved. The target is checked again
// because the list may have refreshed while the prompt was open.
func (d *Dispatcher) Confirm(s *AppState, req Request) Effect {
	if !s.Contains(req.Target) {
		d.noSuchEntity(s, req.Target)
		return Effect{}
	}
	return d.issue(s, req)
}

// Create issues a container create request.
func (d *Dispatcher) Create(s *AppState, spec docker.CreateSpec) Effect {
	return d.issue(s, Request{Verb: VerbCreate, Target: Target{Kind: EntityContainer, Name: spec.Name}, Spec: spec})
}

func (d *Dispatcher) issue(s *AppState, req Request) Effect {
	key := req.Key()
	if d.pending[key] {
		s.SetStatus("Already "+req.Describe(), SeverityInfo, d.now(), d.ttl)
		return Effect{}
	}
	d.pending[key] = true
	s.SetStatus(capitalize(req.Describe())+"…", SeverityInfo, d.now(), d.ttl)
	return Effect{Request: &req}
}

func (d *Dispatcher) noSuchEntity(s *AppState, t Target) {
	err := errors.NewNoSuchEntity(t.Kind.String(), t.Label())
	s.SetStatus(errors.Short(err), SeverityError, d.now(), d.ttl)
}

// Finish records a finished request, sets the status and returns the sources to re-list.
func (d *Dispatcher) Finish(s *AppState, req Request, err error) []Source {
	delete(d.pending, req.Key())
	if err != nil {
		s.SetStatus(fmt.Sprintf("Failed to %s %s: %s", req.Verb, req.label(), errors.Short(err)), SeverityError, d.now(), d.ttl)
	} else {
		s.SetStatus(capitalize(req.Done()), SeveritySuccess, d.now(), d.ttl)
	}
	return req.Relist()
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
