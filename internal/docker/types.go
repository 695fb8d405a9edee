// Package docker lists and manages containers and images through the docker CLI.
package docker

import (
	"strings"
	"time"
)

// State is a container's lifecycle state as reported by the engine.
type State string

const (
	StateCreated    State = "created"
	StateRunning    State = "running"
	StatePaused     State = "paused"
	StateRestarting State = "restarting"
	StateExited     State = "exited"
	StateDead       State = "dead"
	StateRemoving   State = "removing"
	StateUnknown    State = "unknown"
)

// Container is one row of `docker ps -a`.
type Container struct {
	ID        string
	Name      string
	Image     string
	State     State
	Status    string // engine's human text, e.g. "Up 2 hours"
	Ports     string
	CreatedAt time.Time
}

// Running reports whether the container is up, including paused and restarting.
func (c Container) Running() bool {
	return c.State == StateRunning || c.State == StatePaused || c.State == StateRestarting
}

// Image is one row of `docker images`.
type Image struct {
	ID         string
	Repository string
	Tag        string
	Size       uint64
	CreatedAt  time.Time
}

// Ref returns repository:tag, or the bare id for dangling images.
func (i Image) Ref() string {
	if i.Repository == "" || i.Repository == "<none>" {
		return i.ID
	}
	if i.Tag == "" || i.Tag == "<none>" {
		return i.Repository
	}
	return i.Repository + ":" + i.Tag
}

// Stats is one sample of `docker stats --no-stream` for a running container.
type Stats struct {
	ID         string
	Name       string
	CPUPercent float64
	MemPercent float64
	MemUsed    uint64
	MemLimit   uint64
	NetRx      uint64
	NetTx      uint64
	BlockRead  uint64
	BlockWrite uint64
	PIDs       int
}

// CreateSpec describes a `docker run -d` invocation.
type CreateSpec struct {
	Image   string
	Name    string
	Ports   []string
	Env     []string
	Volumes []string
	Command []string
}

// Args renders the spec as docker arguments, starting with "run".
func (s CreateSpec) Args() []string {
	args := []string{"run", "-d"}
	if s.Name != "" {
		args = append(args, "--name", s.Name)
	}
	for _, p := range s.Ports {
		args = append(args, "-p", p)
	}
	for _, e := range s.Env {
		args = append(args, "-e", e)
	}
	for _, v := range s.Volumes {
		args = append(args, "-v", v)
	}
	args = append(args, s.Image)
	return append(args, s.Command...)
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
