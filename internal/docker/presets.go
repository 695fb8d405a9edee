package docker

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/stackdeck/internal/errors"
)

// Preset is a one-key container recipe.
type Preset struct {
	Key   string
	Label string
	spec  CreateSpec
}

// Presets are the quick-create recipes offered on the Docker tab.
var Presets = []Preset{
	{Key: "postgres", Label: "PostgreSQL", spec: CreateSpec{
		Image: "postgres:latest",
		Ports: []string{"5432:5432"},
		Env:   []string{"POSTGRES_PASSWORD=password"},
	}},
	{Key: "redis", Label: "Redis", spec: CreateSpec{
		Image: "redis:latest",
		Ports: []string{"6379:6379"},
	}},
	{Key: "mongodb", Label: "MongoDB", spec: CreateSpec{
		Image: "mongo:latest",
		Ports: []string{"27017:27017"},
		Env:   []string{"MONGO_INITDB_ROOT_USERNAME=admin", "MONGO_INITDB_ROOT_PASSWORD=password"},
	}},
	{Key: "grafana", Label: "Grafana", spec: CreateSpec{
		Image: "grafana/grafana:latest",
		Ports: []string{"3000:3000"},
	}},
}

// Spec returns the preset's CreateSpec with a name unique to now, e.g. "redis-1700000000".
func (p Preset) Spec(now time.Time) CreateSpec {
	s := p.spec
	s.Name = fmt.Sprintf("%s-%d", p.Key, now.Unix())
	s.Ports = append([]string(nil), p.spec.Ports...)
	s.Env = append([]string(nil), p.spec.Env...)
	return s
}

// LookupPreset finds a preset by key.
func LookupPreset(key string) (Preset, bool) {
	for _, p := range Presets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}

// CreateForm holds the raw fields of the create dialog.
// Ports, Env and Volumes are comma separated; Command is split on whitespace.
type CreateForm struct {
	Image   string
	Name    string
	Ports   string
	Env     string
	Volumes string
	Command string
}

// Spec validates the form and converts it.
func (f CreateForm) Spec() (CreateSpec, error) {
	image := strings.TrimSpace(f.Image)
	if image == "" {
		return CreateSpec{}, errors.New(errors.ErrConfig,
			"Image is required",
			"Examples: postgres:latest, redis:alpine, nginx:latest")
	}
	if strings.ContainsAny(image, " \t") {
		return CreateSpec{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Image %q contains whitespace", image), "")
	}

	for _, p := range splitList(f.Ports) {
		if !strings.Contains(p, ":") && strings.Trim(p, "0123456789/tcpud") != "" {
			return CreateSpec{}, errors.New(errors.ErrConfig,
				fmt.Sprintf("Port mapping %q isn't valid", p),
				"Use HOST:CONTAINER, e.g. 8080:80")
		}
	}
	for _, e := range splitList(f.Env) {
		if !strings.Contains(e, "=") {
			return CreateSpec{}, errors.New(errors.ErrConfig,
				fmt.Sprintf("Environment entry %q has no '='", e),
				"Use KEY=value, e.g. POSTGRES_PASSWORD=secret")
		}
	}

	spec := CreateSpec{
		Image:   image,
		Name:    strings.TrimSpace(f.Name),
		Ports:   splitList(f.Ports),
		Env:     splitList(f.Env),
		Volumes: splitList(f.Volumes),
	}
	if cmd := strings.Fields(f.Command); len(cmd) > 0 {
		spec.Command = cmd
	}
	return spec, nil
}
