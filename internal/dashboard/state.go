package dashboard

import (
	"strings"
	"time"

	"github.com/rileyhilliard/stackdeck/internal/docker"
	"github.com/rileyhilliard/stackdeck/internal/kube"
	"github.com/rileyhilliard/stackdeck/internal/sysmetrics"
)

// Tab is one of the dashboard's top-level panes.
type Tab int

const (
	TabSystem Tab = iota
	TabDocker
	TabKubernetes
	numTabs
)

func (t Tab) String() string {
	switch t {
	case TabSystem:
		return "System"
	case TabDocker:
		return "Docker"
	case TabKubernetes:
		return "Kubernetes"
	default:
		return "?"
	}
}

// Next cycles to the following tab.
func (t Tab) Next() Tab {
	return (t + 1) % numTabs
}

// DockerView selects which list the Docker tab shows.
type DockerView int

const (
	ViewContainers DockerView = iota
	ViewImages
)

// Severity colours the status bar.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

// Status is a transient message shown until it expires or is replaced.
type Status struct {
	Text     string
	Severity Severity
	Expires  time.Time
	seq      int
}

// Active reports whether the status should still be shown at now.
func (s Status) Active(now time.Time) bool {
	return s.Text != "" && now.Before(s.Expires)
}

// AppState is everything the view renders. Only Model.Update mutates it.
type AppState struct {
	Tab        Tab
	DockerView DockerView

	Metrics    *sysmetrics.Snapshot
	Containers []docker.Container
	Images     []docker.Image
	Pods       []kube.Pod

	// Stats holds the latest resource sample per running container, keyed by ID.
	Stats map[string]docker.Stats

	// Selection indexes; -1 when the list is empty.
	ContainerSel int
	ImageSel     int
	PodSel       int

	Status Status

	loaded    [numSources]bool
	lastErr   [numSources]string
	updatedAt [numSources]time.Time
	statusSeq int
}

// NewAppState returns the startup state: System tab, nothing loaded.
func NewAppState() *AppState {
	return &AppState{
		Tab:          TabSystem,
		ContainerSel: -1,
		ImageSel:     -1,
		PodSel:       -1,
	}
}

// Loaded reports whether src has ever been fetched successfully.
func (s *AppState) Loaded(src Source) bool {
	return s.loaded[src]
}

// LastError returns the most recent fetch error for src, cleared on success.
func (s *AppState) LastError(src Source) string {
	return s.lastErr[src]
}

// UpdatedAt returns when src last refreshed successfully.
func (s *AppState) UpdatedAt(src Source) time.Time {
	return s.updatedAt[src]
}

// SetMetrics replaces the metrics snapshot.
func (s *AppState) SetMetrics(snap *sysmetrics.Snapshot, now time.Time) {
	s.Metrics = snap
	s.markLoaded(SourceMetrics, now)
}

// SetContainers replaces the container list and clamps the selection.
func (s *AppState) SetContainers(list []docker.Container, now time.Time) {
	s.ContainerSel = clampSelection(s.ContainerSel, len(s.Containers), len(list))
	s.Containers = list
	s.markLoaded(SourceContainers, now)
}

// SetImages replaces the image list and clamps the selection.
func (s *AppState) SetImages(list []docker.Image, now time.Time) {
	s.ImageSel = clampSelection(s.ImageSel, len(s.Images), len(list))
	s.Images = list
	s.markLoaded(SourceImages, now)
}

// SetPods replaces the pod list and clamps the selection.
func (s *AppState) SetPods(list []kube.Pod, now time.Time) {
	s.PodSel = clampSelection(s.PodSel, len(s.Pods), len(list))
	s.Pods = list
	s.markLoaded(SourcePods, now)
}

// SetStats replaces the per-container stats sample.
func (s *AppState) SetStats(list []docker.Stats, now time.Time) {
	s.Stats = make(map[string]docker.Stats, len(list))
	for _, st := range list {
		s.Stats[st.ID] = st
	}
	s.markLoaded(SourceStats, now)
}

// StatsFor returns the latest sample for a container. docker stats may
// print a shorter or longer ID than docker ps, so prefixes match either way.
func (s *AppState) StatsFor(id string) (docker.Stats, bool) {
	if st, ok := s.Stats[id]; ok {
		return st, true
	}
	if id == "" {
		return docker.Stats{}, false
	}
	for key, st := range s.Stats {
		if strings.HasPrefix(key, id) || strings.HasPrefix(id, key) {
			return st, true
		}
	}
	return docker.Stats{}, false
}

// SetFetchError records a failed fetch. Data from earlier fetches is kept.
func (s *AppState) SetFetchError(src Source, msg string) {
	s.lastErr[src] = msg
}

func (s *AppState) markLoaded(src Source, now time.Time) {
	s.loaded[src] = true
	s.lastErr[src] = ""
	s.updatedAt[src] = now
}

// clampSelection keeps an index inside [0, newLen). An empty list yields -1;
// a list that was empty starts at the top.
func clampSelection(cur, oldLen, newLen int) int {
	switch {
	case newLen == 0:
		return -1
	case oldLen == 0 || cur < 0:
		return 0
	case cur >= newLen:
		return newLen - 1
	default:
		return cur
	}
}

// SetStatus shows text until now+ttl and returns a sequence number for scheduled clears.
func (s *AppState) SetStatus(text string, sev Severity, now time.Time, ttl time.Duration) int {
	s.statusSeq++
	s.Status = Status{Text: text, Severity: sev, Expires: now.Add(ttl), seq: s.statusSeq}
	return s.statusSeq
}

// ExpireStatus clears the status if it has expired. It reports whether anything changed.
func (s *AppState) ExpireStatus(now time.Time) bool {
	if s.Status.Text != "" && !s.Status.Active(now) {
		s.Status = Status{}
		return true
	}
	return false
}

// ClearStatus clears the status only if it is still the one numbered seq.
func (s *AppState) ClearStatus(seq int) {
	if s.Status.seq == seq {
		s.Status = Status{}
	}
}

// SwitchTab changes the active tab. Cached data for every tab is kept.
func (s *AppState) SwitchTab(t Tab) bool {
	if t == s.Tab || t < 0 || t >= numTabs {
		return false
	}
	s.Tab = t
	return true
}

// ToggleDockerView flips between containers and images.
func (s *AppState) ToggleDockerView() {
	if s.DockerView == ViewContainers {
		s.DockerView = ViewImages
	} else {
		s.DockerView = ViewContainers
	}
}

// selection returns a pointer to the active list's index and the list length.
// ok is false on the System tab, which has no list.
func (s *AppState) selection() (sel *int, n int, ok bool) {
	switch s.Tab {
	case TabDocker:
		if s.DockerView == ViewImages {
			return &s.ImageSel, len(s.Images), true
		}
		return &s.ContainerSel, len(s.Containers), true
	case TabKubernetes:
		return &s.PodSel, len(s.Pods), true
	}
	return nil, 0, false
}

// Move shifts the active selection by delta, clamped to the list.
func (s *AppState) Move(delta int) {
	sel, n, ok := s.selection()
	if !ok || n == 0 {
		return
	}
	next := *sel + delta
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	*sel = next
}

// First selects the top of the active list.
func (s *AppState) First() {
	if sel, n, ok := s.selection(); ok && n > 0 {
		*sel = 0
	}
}

// Last selects the bottom of the active list.
func (s *AppState) Last() {
	if sel, n, ok := s.selection(); ok && n > 0 {
		*sel = n - 1
	}
}

// SelectedContainer returns the highlighted container.
func (s *AppState) SelectedContainer() (docker.Container, bool) {
	if s.ContainerSel < 0 || s.ContainerSel >= len(s.Containers) {
		return docker.Container{}, false
	}
	return s.Containers[s.ContainerSel], true
}

// SelectedImage returns the highlighted image.
func (s *AppState) SelectedImage() (docker.Image, bool) {
	if s.ImageSel < 0 || s.ImageSel >= len(s.Images) {
		return docker.Image{}, false
	}
	return s.Images[s.ImageSel], true
}

// SelectedPod returns the highlighted pod.
func (s *AppState) SelectedPod() (kube.Pod, bool) {
	if s.PodSel < 0 || s.PodSel >= len(s.Pods) {
		return kube.Pod{}, false
	}
	return s.Pods[s.PodSel], true
}

// Target captures the highlighted entity by identity.
func (s *AppState) Target() (Target, bool) {
	switch s.Tab {
	case TabDocker:
		if s.DockerView == ViewImages {
			img, ok := s.SelectedImage()
			return Target{Kind: EntityImage, ID: img.ID, Name: img.Ref()}, ok
		}
		c, ok := s.SelectedContainer()
		return Target{Kind: EntityContainer, ID: c.ID, Name: c.Name}, ok
	case TabKubernetes:
		p, ok := s.SelectedPod()
		return Target{Kind: EntityPod, ID: p.Key(), Name: p.Name, Namespace: p.Namespace}, ok
	}
	return Target{}, false
}

// Contains reports whether t is still present in the current lists.
func (s *AppState) Contains(t Target) bool {
	switch t.Kind {
	case EntityContainer:
		for _, c := range s.Containers {
			if c.ID == t.ID {
				return true
			}
		}
	case EntityImage:
		for _, img := range s.Images {
			if img.ID == t.ID {
				return true
			}
		}
	case EntityPod:
		for _, p := range s.Pods {
			if p.Key() == t.ID {
				return true
			}
		}
	}
	return false
}
