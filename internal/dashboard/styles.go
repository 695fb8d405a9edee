package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14") // neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // electric amber
	ColorCritical = lipgloss.Color("#FF0055") // hot red-pink

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97") // neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // neon purple
	ColorGraph     = lipgloss.Color("#00FFFF") // neon cyan
)

// Thresholds for metric severity levels
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 2)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccentDim).
				Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorBorder).
				Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	ConfirmStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)
)

// statusStyles colour the status bar by severity.
var statusStyles = map[Severity]lipgloss.Style{
	SeverityInfo:    lipgloss.NewStyle().Foreground(ColorGraph),
	SeveritySuccess: lipgloss.NewStyle().Foreground(ColorHealthy),
	SeverityError:   lipgloss.NewStyle().Foreground(ColorCritical).Bold(true),
}

// MetricColor returns green below 70%, amber below 90%, red above.
func MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// ThinProgressBar renders a line-based bar using ━ for filled and ─ for empty segments.
func ThinProgressBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	bar := strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
	return lipgloss.NewStyle().Foreground(MetricColor(percent)).Render(bar)
}

// stateColor colours container and pod states.
func stateColor(state string) lipgloss.Color {
	switch strings.ToLower(state) {
	case "running", "succeeded":
		return ColorHealthy
	case "paused", "restarting", "pending", "created", "removing", "terminating":
		return ColorWarning
	case "exited", "dead", "failed", "crashloopbackoff", "error", "imagepullbackoff", "errimagepull":
		return ColorCritical
	default:
		return ColorTextSecondary
	}
}
