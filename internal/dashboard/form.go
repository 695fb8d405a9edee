package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/stackdeck/internal/docker"
)

// newCreateForm builds the create-container dialog bound to data.
// Escape aborts the form instead of quitting the program.
func newCreateForm(data *docker.CreateForm, width int) *huh.Form {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Image").
				Description("Image to run; pulled if missing").
				Placeholder("nginx:latest").
				Value(&data.Image).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("image is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Name").
				Placeholder("optional").
				Value(&data.Name),
			huh.NewInput().
				Title("Ports").
				Description("HOST:CONTAINER, comma separated").
				Placeholder("8080:80").
				Value(&data.Ports),
			huh.NewInput().
				Title("Environment").
				Description("KEY=value, comma separated").
				Value(&data.Env),
			huh.NewInput().
				Title("Volumes").
				Description("HOST:CONTAINER, comma separated").
				Value(&data.Volumes),
			huh.NewInput().
				Title("Command").
				Placeholder("optional").
				Value(&data.Command),
		).Title("New container"),
	).
		WithKeyMap(km).
		WithShowHelp(true)

	if w := formWidth(width); w > 0 {
		form = form.WithWidth(w)
	}
	return form
}

// Bounds for the create dialog's width.
const (
	minFormWidth = 20
	maxFormWidth = 72
)

// formWidth fits the dialog to the terminal. Zero means the size isn't known
// yet and huh picks its own width.
func formWidth(termWidth int) int {
	if termWidth <= 0 {
		return 0
	}
	return max(min(termWidth-4, maxFormWidth), minFormWidth)
}
