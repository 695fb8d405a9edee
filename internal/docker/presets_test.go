package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetSpec(t *testing.T) {
	now := time.Unix(1700000000, 0)

	p, ok := LookupPreset("mongodb")
	require.True(t, ok)

	spec := p.Spec(now)
	assert.Equal(t, "mongodb-1700000000", spec.Name)
	assert.Equal(t, "mongo:latest", spec.Image)
	assert.Equal(t, []string{"27017:27017"}, spec.Ports)
	assert.Len(t, spec.Env, 2)

	spec.Env[0] = "MUTATED=1"
	assert.Equal(t, "MONGO_INITDB_ROOT_USERNAME=admin", p.Spec(now).Env[0], "presets are not shared")
}

func TestLookupPreset_Unknown(t *testing.T) {
	_, ok := LookupPreset("mysql")
	assert.False(t, ok)
}

func TestCreateFormSpec(t *testing.T) {
	tests := []struct {
		name    string
		form    CreateForm
		want    CreateSpec
		wantErr string
	}{
		{
			name: "all fields",
			form: CreateForm{
				Image:   " nginx:latest ",
				Name:    "web",
				Ports:   "8080:80, 8443:443",
				Env:     "A=1,,B=two words",
				Volumes: "/data:/data",
				Command: "  nginx  -g 'daemon' ",
			},
			want: CreateSpec{
				Image:   "nginx:latest",
				Name:    "web",
				Ports:   []string{"8080:80", "8443:443"},
				Env:     []string{"A=1", "B=two words"},
				Volumes: []string{"/data:/data"},
				Command: []string{"nginx", "-g", "'daemon'"},
			},
		},
		{
			name: "image only",
			form: CreateForm{Image: "redis"},
			want: CreateSpec{Image: "redis"},
		},
		{
			name: "container port only",
			form: CreateForm{Image: "redis", Ports: "6379/tcp"},
			want: CreateSpec{Image: "redis", Ports: []string{"6379/tcp"}},
		},
		{
			name:    "missing image",
			form:    CreateForm{Name: "x"},
			wantErr: "Image is required",
		},
		{
			name:    "image with spaces",
			form:    CreateForm{Image: "redis latest"},
			wantErr: "whitespace",
		},
		{
			name:    "bad port",
			form:    CreateForm{Image: "redis", Ports: "http"},
			wantErr: "Port mapping",
		},
		{
			name:    "bad env",
			form:    CreateForm{Image: "redis", Env: "NOEQUALS"},
			wantErr: "has no '='",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tt.form.Spec()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec)
		})
	}
}
