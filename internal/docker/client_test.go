package docker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/stackdeck/internal/errors"
	"github.com/rileyhilliard/stackdeck/internal/exec"
	extesting "github.com/rileyhilliard/stackdeck/internal/exec/testing"
)

const psOutput = `{"Command":"\"docker-entrypoint.s…\"","CreatedAt":"2024-03-01 10:00:00 +0000 UTC","ID":"a1b2c3d4e5f6","Image":"postgres:16","Names":"db","Ports":"0.0.0.0:5432->5432/tcp","State":"running","Status":"Up 2 hours"}
{"CreatedAt":"2024-02-28 09:30:00 +0000 UTC","ID":"0f9e8d7c6b5a","Image":"redis:7","Names":"cache","Ports":"","State":"exited","Status":"Exited (0) 3 days ago"}
`

const imagesOutput = `{"CreatedAt":"2024-02-01 08:00:00 +0000 UTC","ID":"sha256abc123","Repository":"postgres","Size":"432MB","Tag":"16"}
{"CreatedAt":"2024-01-15 08:00:00 +0000 UTC","ID":"deadbeef0001","Repository":"<none>","Size":"7.5kB","Tag":"<none>"}
`

const statsOutput = `{"BlockIO":"4.1MB / 0B","CPUPerc":"12.50%","Container":"a1b2c3d4e5f6","ID":"a1b2c3d4e5f6","MemPerc":"0.45%","MemUsage":"35MiB / 8GiB","Name":"db","NetIO":"1.2kB / 648B","PIDs":"6"}
{"BlockIO":"--","CPUPerc":"--","Container":"0f9e8d7c6b5a","ID":"0f9e8d7c6b5a","MemPerc":"--","MemUsage":"-- / --","Name":"web","NetIO":"--","PIDs":"--"}
`

func newTestClient(f *extesting.FakeRunner) *Client {
	return NewClient(f, Config{Binary: "docker", Timeout: 5 * time.Second}, nil)
}

func TestListContainers(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker ps", extesting.OK(psOutput))

	containers, err := newTestClient(f).ListContainers(context.Background())
	require.NoError(t, err)
	require.Len(t, containers, 2)

	assert.Equal(t, "a1b2c3d4e5f6", containers[0].ID)
	assert.Equal(t, "db", containers[0].Name)
	assert.Equal(t, StateRunning, containers[0].State)
	assert.True(t, containers[0].Running())
	assert.Equal(t, "0.0.0.0:5432->5432/tcp", containers[0].Ports)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), containers[0].CreatedAt.UTC())

	assert.Equal(t, StateExited, containers[1].State)
	assert.False(t, containers[1].Running())

	require.Len(t, f.Calls, 1)
	assert.Equal(t, []string{"ps", "-a", "--format", "{{json .}}"}, f.Calls[0].Args)
	assert.Equal(t, 5*time.Second, f.Calls[0].Timeout)
}

func TestListContainers_Empty(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker ps", extesting.OK(""))

	containers, err := newTestClient(f).ListContainers(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, containers)
	assert.Empty(t, containers)
}

func TestListContainers_Errors(t *testing.T) {
	tests := []struct {
		name     string
		resp     extesting.Response
		wantCode string
		wantMsg  string
	}{
		{
			name:     "binary missing",
			resp:     extesting.Missing(),
			wantCode: errors.ErrSpawn,
			wantMsg:  "docker not installed",
		},
		{
			name:     "daemon down",
			resp:     extesting.Fail(1, "Cannot connect to the Docker daemon at unix:///var/run/docker.sock. Is the docker daemon running?"),
			wantCode: errors.ErrExit,
			wantMsg:  "docker daemon unreachable",
		},
		{
			name:     "timeout",
			resp:     extesting.TimedOut(),
			wantCode: errors.ErrTimeout,
			wantMsg:  "timed out",
		},
		{
			name:     "malformed output",
			resp:     extesting.OK("CONTAINER ID   IMAGE\n"),
			wantCode: errors.ErrParse,
			wantMsg:  "unexpected docker output",
		},
		{
			name:     "other failure",
			resp:     extesting.Fail(125, "permission denied while trying to connect"),
			wantCode: errors.ErrExit,
			wantMsg:  "docker ps exited 125",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := extesting.NewFakeRunner().On("docker ps", tt.resp)

			containers, err := newTestClient(f).ListContainers(context.Background())

			assert.Nil(t, containers)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode), "got %s", errors.Code(err))
			assert.Contains(t, errors.Short(err), tt.wantMsg)
		})
	}
}

func TestListImages(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker images", extesting.OK(imagesOutput))

	images, err := newTestClient(f).ListImages(context.Background())
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, "postgres:16", images[0].Ref())
	assert.Equal(t, uint64(432_000_000), images[0].Size)
	assert.Equal(t, "deadbeef0001", images[1].Ref(), "dangling image falls back to its id")
	assert.Equal(t, uint64(7500), images[1].Size)
}

func TestListImages_BadSize(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker images",
		extesting.OK(`{"ID":"abc","Repository":"x","Tag":"1","Size":"lots"}`))

	_, err := newTestClient(f).ListImages(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrParse))
}

func TestLifecycleCommands(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker", extesting.OK("a1\n"))
	c := newTestClient(f)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, "a1"))
	require.NoError(t, c.Stop(ctx, "a1"))
	require.NoError(t, c.Restart(ctx, "a1"))
	require.NoError(t, c.Remove(ctx, "a1"))
	require.NoError(t, c.RemoveImage(ctx, "img1"))

	assert.Equal(t, []string{
		"docker start a1",
		"docker stop --time 10 a1",
		"docker restart --time 10 a1",
		"docker rm -f a1",
		"docker rmi -f img1",
	}, f.Lines())
}

func TestStop_NoSuchContainer(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker stop", extesting.Fail(1, "Error response from daemon: No such container: zz\n"))

	err := newTestClient(f).Stop(context.Background(), "zz")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExit))
	assert.Contains(t, errors.Short(err), "No such container: zz")
}

func TestCreate(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker run", extesting.OK("4f2a9c0e1b3d5f6a7b8c9d0e1f2a3b4c\n"))
	spec := CreateSpec{
		Image:   "nginx:latest",
		Name:    "web",
		Ports:   []string{"8080:80"},
		Env:     []string{"A=1", "B=2"},
		Volumes: []string{"/srv:/usr/share/nginx/html"},
		Command: []string{"nginx", "-g", "daemon off;"},
	}

	id, err := newTestClient(f).Create(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, "4f2a9c0e1b3d", id)
	assert.Equal(t, []string{
		"run", "-d", "--name", "web", "-p", "8080:80", "-e", "A=1", "-e", "B=2",
		"-v", "/srv:/usr/share/nginx/html", "nginx:latest", "nginx", "-g", "daemon off;",
	}, f.Calls[0].Args)
}

func TestCreate_RequiresImage(t *testing.T) {
	f := extesting.NewFakeRunner()

	_, err := newTestClient(f).Create(context.Background(), CreateSpec{Name: "x"})

	require.Error(t, err)
	assert.Empty(t, f.Calls, "nothing spawned")
}

func TestNewClient_Defaults(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker ps", extesting.OK(""))
	c := NewClient(f, Config{}, nil)

	_, err := c.ListContainers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, f.Calls[0].Timeout)
	assert.Equal(t, "docker", f.Calls[0].Program)
}

func TestCommandTimeouts(t *testing.T) {
	f := extesting.NewFakeRunner().
		On("docker", extesting.OK("")).
		On("docker run", extesting.OK("abc\n"))
	c := NewClient(f, Config{Timeout: 5 * time.Second, ActionTimeout: 40 * time.Second, CreateTimeout: 3 * time.Minute}, nil)
	ctx := context.Background()

	_, err := c.ListContainers(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Stop(ctx, "a1"))
	require.NoError(t, c.Remove(ctx, "a1"))
	_, err = c.Create(ctx, CreateSpec{Image: "nginx"})
	require.NoError(t, err)

	require.Len(t, f.Calls, 4)
	assert.Equal(t, 5*time.Second, f.Calls[0].Timeout, "listing")
	assert.Equal(t, 40*time.Second, f.Calls[1].Timeout, "stop")
	assert.Equal(t, 40*time.Second, f.Calls[2].Timeout, "rm")
	assert.Equal(t, 3*time.Minute, f.Calls[3].Timeout, "run")
}

func TestStopGraceFitsActionTimeout(t *testing.T) {
	tests := []struct {
		action time.Duration
		want   string
	}{
		{30 * time.Second, "10"},
		{12 * time.Second, "6"},
		{time.Second, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			f := extesting.NewFakeRunner().On("docker", extesting.OK(""))
			c := NewClient(f, Config{ActionTimeout: tt.action}, nil)

			require.NoError(t, c.Restart(context.Background(), "a1"))
			assert.Equal(t, []string{"restart", "--time", tt.want, "a1"}, f.Calls[0].Args)
		})
	}
}

func TestLifecycleTimeoutIsReported(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker stop", extesting.TimedOut())

	err := newTestClient(f).Stop(context.Background(), "a1")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTimeout))
	assert.Contains(t, errors.Short(err), "timed out after 30s")
}

func TestListStats(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker stats", extesting.OK(statsOutput))

	stats, err := newTestClient(f).ListStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	db := stats[0]
	assert.Equal(t, "a1b2c3d4e5f6", db.ID)
	assert.Equal(t, "db", db.Name)
	assert.InDelta(t, 12.5, db.CPUPercent, 0.001)
	assert.InDelta(t, 0.45, db.MemPercent, 0.001)
	assert.Equal(t, uint64(35*1024*1024), db.MemUsed)
	assert.Equal(t, uint64(8*1024*1024*1024), db.MemLimit)
	assert.Equal(t, uint64(1200), db.NetRx)
	assert.Equal(t, uint64(648), db.NetTx)
	assert.Equal(t, uint64(4_100_000), db.BlockRead)
	assert.Equal(t, uint64(0), db.BlockWrite)
	assert.Equal(t, 6, db.PIDs)

	starting := stats[1]
	assert.Equal(t, "web", starting.Name)
	assert.Zero(t, starting.CPUPercent)
	assert.Zero(t, starting.MemUsed)
	assert.Zero(t, starting.PIDs)

	assert.Equal(t, []string{"stats", "--no-stream", "--format", "{{json .}}"}, f.Calls[0].Args)
}

func TestListStats_BadOutput(t *testing.T) {
	f := extesting.NewFakeRunner().On("docker stats", extesting.OK(`{"ID":"a1","CPUPerc":"lots"}`))

	_, err := newTestClient(f).ListStats(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrParse))
}

var _ exec.Runner = (*extesting.FakeRunner)(nil)
