package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/stackdeck/internal/docker"
	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/rileyhilliard/stackdeck/internal/kube"
)

func newTestDispatcher() *Dispatcher {
	d := NewDispatcher(5 * time.Second)
	d.now = func() time.Time { return testTime }
	return d
}

func dockerState() *AppState {
	s := NewAppState()
	s.Tab = TabDocker
	s.SetContainers(containers("db", "cache"), testTime)
	s.SetImages([]docker.Image{{ID: "img1", Repository: "redis", Tag: "7"}}, testTime)
	return s
}

func TestDispatch_TabSwitchFetchesNewTab(t *testing.T) {
	tests := []struct {
		action Action
		tab    Tab
		fetch  []Source
	}{
		{ActionTabDocker, TabDocker, []Source{SourceContainers, SourceImages}},
		{ActionTabKubernetes, TabKubernetes, []Source{SourcePods}},
		{ActionNextTab, TabDocker, []Source{SourceContainers, SourceImages}},
	}

	for _, tt := range tests {
		t.Run(tt.tab.String(), func(t *testing.T) {
			s := NewAppState()
			e := newTestDispatcher().Dispatch(s, tt.action, Target{})
			assert.Equal(t, tt.tab, s.Tab)
			assert.Equal(t, tt.fetch, e.Fetch)
		})
	}
}

func TestDispatch_SameTabIsNoop(t *testing.T) {
	s := NewAppState()
	e := newTestDispatcher().Dispatch(s, ActionTabSystem, Target{})
	assert.Equal(t, Effect{}, e)
}

func TestSourcesFor(t *testing.T) {
	assert.Equal(t, []Source{SourceMetrics}, SourcesFor(TabSystem))
	assert.Equal(t, []Source{SourceContainers, SourceImages, SourceStats}, SourcesFor(TabDocker))
	assert.Equal(t, []Source{SourcePods}, SourcesFor(TabKubernetes))
}

func TestDispatch_Refresh(t *testing.T) {
	s := NewAppState()
	s.Tab = TabKubernetes
	e := newTestDispatcher().Dispatch(s, ActionRefresh, Target{})
	assert.Equal(t, []Source{SourcePods}, e.Fetch)
}

func TestDispatch_LifecycleIgnoredOnSystem(t *testing.T) {
	s := NewAppState()
	d := newTestDispatcher()

	e := d.Dispatch(s, ActionStop, Target{Kind: EntityContainer, ID: "x"})

	assert.Equal(t, Effect{}, e)
	assert.Empty(t, s.Status.Text)
}

func TestDispatch_StopIssuesRequest(t *testing.T) {
	s := dockerState()
	d := newTestDispatcher()
	target, ok := s.Target()
	require.True(t, ok)

	e := d.Dispatch(s, ActionStop, target)

	require.NotNil(t, e.Request)
	assert.Equal(t, VerbStop, e.Request.Verb)
	assert.Equal(t, "id-db", e.Request.Target.ID)
	assert.Equal(t, "Stopping container db…", s.Status.Text)
	assert.Equal(t, 1, d.Pending())
}

func TestDispatch_Debounce(t *testing.T) {
	s := dockerState()
	d := newTestDispatcher()
	target, _ := s.Target()

	first := d.Dispatch(s, ActionRestart, target)
	second := d.Dispatch(s, ActionRestart, target)

	assert.NotNil(t, first.Request)
	assert.Nil(t, second.Request)
	assert.Equal(t, "Already restarting container db", s.Status.Text)

	// A different verb on the same entity is not debounced.
	third := d.Dispatch(s, ActionStop, target)
	assert.NotNil(t, third.Request)

	d.Finish(s, *first.Request, nil)
	again := d.Dispatch(s, ActionRestart, target)
	assert.NotNil(t, again.Request)
}

func TestDispatch_StaleTarget(t *testing.T) {
	s := dockerState()
	d := newTestDispatcher()
	target, _ := s.Target()

	s.SetContainers(containers("cache"), testTime)
	e := d.Dispatch(s, ActionStart, target)

	assert.Equal(t, Effect{}, e)
	assert.Equal(t, "container db no longer exists", s.Status.Text)
	assert.Equal(t, SeverityError, s.Status.Severity)
	assert.Zero(t, d.Pending())
}

func TestDispatch_NothingSelected(t *testing.T) {
	s := NewAppState()
	s.Tab = TabDocker

	e := newTestDispatcher().Dispatch(s, ActionStart, Target{})

	assert.Equal(t, Effect{}, e)
	assert.Equal(t, "Nothing selected", s.Status.Text)
}

func TestDispatch_StartOnImageRejected(t *testing.T) {
	s := dockerState()
	s.ToggleDockerView()
	target, _ := s.Target()

	e := newTestDispatcher().Dispatch(s, ActionStart, target)

	assert.Equal(t, Effect{}, e)
	assert.Equal(t, "Can't start images", s.Status.Text)
}

func TestDispatch_RemoveNeedsConfirm(t *testing.T) {
	s := dockerState()
	d := newTestDispatcher()
	target, _ := s.Target()

	e := d.Dispatch(s, ActionDelete, target)

	require.NotNil(t, e.Confirm)
	assert.Nil(t, e.Request)
	assert.Zero(t, d.Pending())

	e = d.Confirm(s, *e.Confirm)
	require.NotNil(t, e.Request)
	assert.Equal(t, "Removing container db…", s.Status.Text)
}

func TestDispatch_DeletePod(t *testing.T) {
	s := NewAppState()
	s.Tab = TabKubernetes
	s.SetPods([]kube.Pod{{Name: "web-1", Namespace: "prod"}}, testTime)
	d := newTestDispatcher()
	target, _ := s.Target()

	e := d.Dispatch(s, ActionDelete, target)
	require.NotNil(t, e.Confirm)
	e = d.Confirm(s, *e.Confirm)

	require.NotNil(t, e.Request)
	assert.Equal(t, []Source{SourcePods}, e.Request.Relist())
	assert.Equal(t, "Removing pod web-1…", s.Status.Text)
}

func TestDispatch_CreateOnlyOnDocker(t *testing.T) {
	d := newTestDispatcher()

	s := NewAppState()
	assert.False(t, d.Dispatch(s, ActionCreate, Target{}).OpenCreateForm)

	s.Tab = TabDocker
	assert.True(t, d.Dispatch(s, ActionCreate, Target{}).OpenCreateForm)
}

func TestDispatch_Preset(t *testing.T) {
	s := dockerState()
	d := newTestDispatcher()

	e := d.Dispatch(s, ActionPresetRedis, Target{})

	require.NotNil(t, e.Request)
	assert.Equal(t, VerbCreate, e.Request.Verb)
	assert.Equal(t, "redis:latest", e.Request.Spec.Image)
	assert.Equal(t, "redis-1709294400", e.Request.Spec.Name)
	assert.Equal(t, []Source{SourceContainers, SourceImages}, e.Request.Relist())
}

func TestFinish(t *testing.T) {
	s := dockerState()
	d := newTestDispatcher()
	target, _ := s.Target()
	e := d.Dispatch(s, ActionStart, target)
	require.NotNil(t, e.Request)

	relist := d.Finish(s, *e.Request, errors.New(errors.ErrExit, "docker start exited 1", ""))

	assert.Equal(t, []Source{SourceContainers}, relist)
	assert.Equal(t, "Failed to start db: docker start exited 1", s.Status.Text)
	assert.Equal(t, SeverityError, s.Status.Severity)
	assert.Zero(t, d.Pending())
}

func TestDispatch_Quit(t *testing.T) {
	e := newTestDispatcher().Dispatch(NewAppState(), ActionQuit, Target{})
	assert.True(t, e.Quit)
}

func TestRequest_Describe(t *testing.T) {
	req := Request{Verb: VerbStop, Target: Target{Kind: EntityContainer, ID: "abc", Name: "db"}}
	assert.Equal(t, "stopping container db", req.Describe())
	assert.Equal(t, "stopped container db", req.Done())
	assert.Equal(t, "stop:container:abc", req.Key())
	assert.False(t, req.Destructive())

	create := Request{Verb: VerbCreate, Target: Target{Kind: EntityContainer}, Spec: docker.CreateSpec{Image: "nginx"}}
	assert.Equal(t, "creating container from nginx", create.Describe())
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Stopped", capitalize("stopped"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Ok", capitalize("Ok"))
}
