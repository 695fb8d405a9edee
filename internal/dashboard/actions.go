package dashboard

import (
	"github.com/rileyhilliard/stackdeck/internal/docker"
)

// Action is a logical user intent, resolved from a key before dispatch.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTabSystem
	ActionTabDocker
	ActionTabKubernetes
	ActionNextTab
	ActionUp
	ActionDown
	ActionFirst
	ActionLast
	ActionToggleDockerView
	ActionRefresh
	ActionStart
	ActionStop
	ActionRestart
	ActionDelete
	ActionCreate
	ActionPresetPostgres
	ActionPresetRedis
	ActionPresetMongo
	ActionPresetGrafana
	ActionToggleHelp
)

// presetKeys maps preset actions to docker.Presets keys.
var presetKeys = map[Action]string{
	ActionPresetPostgres: "postgres",
	ActionPresetRedis:    "redis",
	ActionPresetMongo:    "mongodb",
	ActionPresetGrafana:  "grafana",
}

// EntityKind is the type of thing a lifecycle command targets.
type EntityKind int

const (
	EntityNone EntityKind = iota
	EntityContainer
	EntityImage
	EntityPod
)

func (k EntityKind) String() string {
	switch k {
	case EntityContainer:
		return "container"
	case EntityImage:
		return "image"
	case EntityPod:
		return "pod"
	default:
		return "entity"
	}
}

// Target identifies an entity by id, captured when the key is pressed.
// For pods ID is "namespace/name".
type Target struct {
	Kind      EntityKind
	ID        string
	Name      string
	Namespace string
}

// Label is the name shown in status messages.
func (t Target) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// Verb is a lifecycle operation.
type Verb int

const (
	VerbStart Verb = iota
	VerbStop
	VerbRestart
	VerbRemove
	VerbCreate
)

var verbWords = [...]struct{ base, ing, past string }{
	VerbStart:   {"start", "starting", "started"},
	VerbStop:    {"stop", "stopping", "stopped"},
	VerbRestart: {"restart", "restarting", "restarted"},
	VerbRemove:  {"remove", "removing", "removed"},
	VerbCreate:  {"create", "creating", "created"},
}

func (v Verb) String() string { return verbWords[v].base }

// Request is a lifecycle command ready to hand to a source.
type Request struct {
	Verb   Verb
	Target Target
	Spec   docker.CreateSpec // VerbCreate only
}

// Key identifies the (verb, entity) pair used for debouncing.
func (r Request) Key() string {
	id := r.Target.ID
	if r.Verb == VerbCreate {
		id = r.Spec.Name + "@" + r.Spec.Image
	}
	return r.Verb.String() + ":" + r.Target.Kind.String() + ":" + id
}

// Destructive reports whether the request needs confirmation.
func (r Request) Destructive() bool {
	return r.Verb == VerbRemove
}

// Describe renders e.g. "stopping container db".
func (r Request) Describe() string {
	return verbWords[r.Verb].ing + " " + r.Target.Kind.String() + " " + r.label()
}

// Done renders e.g. "stopped container db".
func (r Request) Done() string {
	return verbWords[r.Verb].past + " " + r.Target.Kind.String() + " " + r.label()
}

func (r Request) label() string {
	if r.Verb == VerbCreate {
		if r.Spec.Name != "" {
			return r.Spec.Name
		}
		return "from " + r.Spec.Image
	}
	return r.Target.Label()
}

// Relist names the sources to refresh after the request finishes.
func (r Request) Relist() []Source {
	switch {
	case r.Verb == VerbCreate:
		// run may pull the image
		return []Source{SourceContainers, SourceImages}
	case r.Target.Kind == EntityImage:
		return []Source{SourceImages}
	case r.Target.Kind == EntityPod:
		return []Source{SourcePods}
	default:
		return []Source{SourceContainers}
	}
}
