package dashboard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/stackdeck/internal/docker"
)

func TestKeyMap_Resolve(t *testing.T) {
	km := newKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want Action
	}{
		{"1", keyRunes("1"), ActionTabSystem},
		{"ctrl+d", tea.KeyMsg{Type: tea.KeyCtrlD}, ActionTabDocker},
		{"ctrl+k", tea.KeyMsg{Type: tea.KeyCtrlK}, ActionTabKubernetes},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, ActionNextTab},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, ActionUp},
		{"j", keyRunes("j"), ActionDown},
		{"home", tea.KeyMsg{Type: tea.KeyHome}, ActionFirst},
		{"G", keyRunes("G"), ActionLast},
		{"s", keyRunes("s"), ActionStart},
		{"x", keyRunes("x"), ActionStop},
		{"t", keyRunes("t"), ActionRestart},
		{"delete", tea.KeyMsg{Type: tea.KeyDelete}, ActionDelete},
		{"D", keyRunes("D"), ActionDelete},
		{"n", keyRunes("n"), ActionCreate},
		{"p", keyRunes("p"), ActionPresetPostgres},
		{"f", keyRunes("f"), ActionPresetGrafana},
		{"v", keyRunes("v"), ActionToggleDockerView},
		{"r", keyRunes("r"), ActionRefresh},
		{"?", keyRunes("?"), ActionToggleHelp},
		{"q", keyRunes("q"), ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, ActionQuit},
		{"unbound", keyRunes("z"), ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, km.Resolve(tt.msg))
		})
	}
}

func TestKeyMap_Help(t *testing.T) {
	help := newKeyMap().Help()

	assert.Len(t, help, len(newKeyMap().bindings))
	assert.Equal(t, "1 / ctrl+s", help[0].Key)
	assert.Equal(t, "Quit", help[len(help)-1].Desc)
}

func TestPresetKeysExist(t *testing.T) {
	for action, key := range presetKeys {
		_, ok := docker.LookupPreset(key)
		assert.True(t, ok, "action %d maps to unknown preset %q", action, key)
	}
}
