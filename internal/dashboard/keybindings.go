package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// binding pairs a key binding with the action it resolves to.
type binding struct {
	key    key.Binding
	action Action
}

// keyMap lists every dashboard binding in the order shown in help.
type keyMap struct {
	bindings []binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func newKeyMap() keyMap {
	b := func(action Action, keys []string, helpKey, desc string) binding {
		return binding{
			key:    key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc)),
			action: action,
		}
	}

	return keyMap{
		bindings: []binding{
			b(ActionTabSystem, []string{"1", "ctrl+s"}, "1 / ctrl+s", "System tab"),
			b(ActionTabDocker, []string{"2", "ctrl+d"}, "2 / ctrl+d", "Docker tab"),
			b(ActionTabKubernetes, []string{"3", "ctrl+k"}, "3 / ctrl+k", "Kubernetes tab"),
			b(ActionNextTab, []string{"tab"}, "tab", "Next tab"),
			b(ActionToggleDockerView, []string{"v"}, "v", "Containers / images"),
			b(ActionUp, []string{"up", "k"}, "up / k", "Select previous"),
			b(ActionDown, []string{"down", "j"}, "down / j", "Select next"),
			b(ActionFirst, []string{"home", "g"}, "home / g", "Select first"),
			b(ActionLast, []string{"end", "G"}, "end / G", "Select last"),
			b(ActionStart, []string{"s"}, "s", "Start container"),
			b(ActionStop, []string{"x"}, "x", "Stop container"),
			b(ActionRestart, []string{"t"}, "t", "Restart container"),
			b(ActionDelete, []string{"delete", "D"}, "del / D", "Remove selected"),
			b(ActionCreate, []string{"n"}, "n", "New container"),
			b(ActionPresetPostgres, []string{"p"}, "p", "Quick PostgreSQL"),
			b(ActionPresetRedis, []string{"e"}, "e", "Quick Redis"),
			b(ActionPresetMongo, []string{"m"}, "m", "Quick MongoDB"),
			b(ActionPresetGrafana, []string{"f"}, "f", "Quick Grafana"),
			b(ActionRefresh, []string{"r"}, "r", "Refresh now"),
			b(ActionToggleHelp, []string{"?"}, "?", "Toggle this help"),
			b(ActionQuit, []string{"q", "ctrl+c"}, "q / ctrl+c", "Quit"),
		},
		Confirm: key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel")),
	}
}

// Resolve maps a key press to an action.
func (k keyMap) Resolve(msg tea.KeyMsg) Action {
	for _, b := range k.bindings {
		if key.Matches(msg, b.key) {
			return b.action
		}
	}
	return ActionNone
}

// Help returns the bindings for the help overlay.
func (k keyMap) Help() []key.Help {
	out := make([]key.Help, 0, len(k.bindings))
	for _, b := range k.bindings {
		out = append(out, b.key.Help())
	}
	return out
}
