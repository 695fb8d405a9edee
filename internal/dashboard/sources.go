package dashboard

import (
	"context"
	"time"

	"github.com/rileyhilliard/stackdeck/internal/docker"
	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/rileyhilliard/stackdeck/internal/kube"
	"github.com/rileyhilliard/stackdeck/internal/sysmetrics"
	"github.com/rileyhilliard/stackdeck/internal/worker"
)

// MetricsSource produces host metric snapshots.
type MetricsSource interface {
	Sample(ctx context.Context) (*sysmetrics.Snapshot, error)
}

// ContainerSource lists and manages docker containers and images.
type ContainerSource interface {
	ListContainers(ctx context.Context) ([]docker.Container, error)
	ListImages(ctx context.Context) ([]docker.Image, error)
	ListStats(ctx context.Context) ([]docker.Stats, error)
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Restart(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	RemoveImage(ctx context.Context, id string) error
	Create(ctx context.Context, spec docker.CreateSpec) (string, error)
}

// ClusterSource lists and deletes Kubernetes pods.
type ClusterSource interface {
	ListPods(ctx context.Context) ([]kube.Pod, error)
	DeletePod(ctx context.Context, namespace, name string) error
}

// Sources bundles the backends the dashboard reads from.
type Sources struct {
	Metrics    MetricsSource
	Containers ContainerSource
	Cluster    ClusterSource
}

// Job payloads. One per Source plus one for lifecycle commands.
type (
	metricsResult struct {
		snap *sysmetrics.Snapshot
		err  error
	}

	containersResult struct {
		list []docker.Container
		err  error
	}

	imagesResult struct {
		list []docker.Image
		err  error
	}

	podsResult struct {
		list []kube.Pod
		err  error
	}

	statsResult struct {
		list []docker.Stats
		err  error
	}

	commandResult struct {
		req      Request
		id       string // new container id for creates
		err      error
		duration time.Duration
	}
)

// fetchJob returns the worker function that refreshes src.
func (s Sources) fetchJob(src Source) worker.Func {
	switch src {
	case SourceMetrics:
		return func(ctx context.Context) any {
			snap, err := s.Metrics.Sample(ctx)
			return metricsResult{snap: snap, err: err}
		}
	case SourceContainers:
		return func(ctx context.Context) any {
			list, err := s.Containers.ListContainers(ctx)
			return containersResult{list: list, err: err}
		}
	case SourceImages:
		return func(ctx context.Context) any {
			list, err := s.Containers.ListImages(ctx)
			return imagesResult{list: list, err: err}
		}
	case SourceStats:
		return func(ctx context.Context) any {
			list, err := s.Containers.ListStats(ctx)
			return statsResult{list: list, err: err}
		}
	default:
		return func(ctx context.Context) any {
			list, err := s.Cluster.ListPods(ctx)
			return podsResult{list: list, err: err}
		}
	}
}

// resultSource maps a fetch payload back to its Source. Command results have none.
func resultSource(payload any) (Source, bool) {
	switch payload.(type) {
	case metricsResult:
		return SourceMetrics, true
	case containersResult:
		return SourceContainers, true
	case imagesResult:
		return SourceImages, true
	case podsResult:
		return SourcePods, true
	case statsResult:
		return SourceStats, true
	}
	return 0, false
}

// commandJob returns the worker function that executes req.
func (s Sources) commandJob(req Request) worker.Func {
	return func(ctx context.Context) any {
		start := time.Now()
		id, err := s.execute(ctx, req)
		return commandResult{req: req, id: id, err: err, duration: time.Since(start)}
	}
}

func (s Sources) execute(ctx context.Context, req Request) (string, error) {
	t := req.Target
	switch req.Verb {
	case VerbStart:
		return "", s.Containers.Start(ctx, t.ID)
	case VerbStop:
		return "", s.Containers.Stop(ctx, t.ID)
	case VerbRestart:
		return "", s.Containers.Restart(ctx, t.ID)
	case VerbCreate:
		return s.Containers.Create(ctx, req.Spec)
	case VerbRemove:
		switch t.Kind {
		case EntityContainer:
			return "", s.Containers.Remove(ctx, t.ID)
		case EntityImage:
			return "", s.Containers.RemoveImage(ctx, t.ID)
		case EntityPod:
			return "", s.Cluster.DeletePod(ctx, t.Namespace, t.Name)
		}
	}
	return "", errors.New(errors.ErrNoSuchEntity, "unsupported request: "+req.Describe(), "")
}
