package dashboard

// Source is one independently refreshed data feed.
type Source int

const (
	SourceMetrics Source = iota
	SourceContainers
	SourceImages
	SourcePods
	SourceStats
	numSources
)

func (s Source) String() string {
	switch s {
	case SourceMetrics:
		return "metrics"
	case SourceContainers:
		return "containers"
	case SourceImages:
		return "images"
	case SourcePods:
		return "pods"
	case SourceStats:
		return "stats"
	default:
		return "unknown"
	}
}

// SourcesFor lists what a tab polls on each tick. Only the visible tab is polled.
func SourcesFor(tab Tab) []Source {
	switch tab {
	case TabDocker:
		return []Source{SourceContainers, SourceImages, SourceStats}
	case TabKubernetes:
		return []Source{SourcePods}
	default:
		return []Source{SourceMetrics}
	}
}

// Scheduler gates fetches so each source has at most one request in flight.
// A source still running when it comes due again is skipped, not queued.
type Scheduler struct {
	inFlight [numSources]bool
	stale    [numSources]bool

	// Skipped counts due fetches dropped because the previous one hadn't returned.
	Skipped int
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Due marks every idle source in want as in flight and returns them.
func (s *Scheduler) Due(want []Source) []Source {
	var due []Source
	for _, src := range want {
		if s.inFlight[src] {
			s.Skipped++
			continue
		}
		s.inFlight[src] = true
		due = append(due, src)
	}
	return due
}

// Relist asks for a read of every source in want that starts after now.
// Idle sources are marked in flight and returned. A source already in
// flight is marked stale instead: its pending result may predate a change,
// so Done reports it and the caller fetches again.
func (s *Scheduler) Relist(want []Source) []Source {
	var due []Source
	for _, src := range want {
		if s.inFlight[src] {
			s.stale[src] = true
			continue
		}
		s.inFlight[src] = true
		due = append(due, src)
	}
	return due
}

// Done clears the in-flight flag for src. It reports whether the result
// that just landed was marked stale by Relist.
func (s *Scheduler) Done(src Source) (stale bool) {
	stale = s.stale[src]
	s.inFlight[src] = false
	s.stale[src] = false
	return stale
}

// InFlight reports whether src has an outstanding fetch.
func (s *Scheduler) InFlight(src Source) bool {
	return s.inFlight[src]
}

// Busy reports whether any fetch is outstanding.
func (s *Scheduler) Busy() bool {
	for _, f := range s.inFlight {
		if f {
			return true
		}
	}
	return false
}
