package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/stackdeck/internal/docker"
	"github.com/rileyhilliard/stackdeck/internal/sysmetrics"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	// header, blank, status, footer
	chromeLines = 4
	// Container detail pane: blank line, border, title and five rows.
	detailLines = 9
	// Below this height the table keeps every line and the pane is hidden.
	minDetailHeight = 24
)

// column is one table column: header text and fixed width.
type column struct {
	title string
	width int
}

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.form != nil {
		b.WriteString(m.form.View())
	} else {
		b.WriteString(m.renderBody())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// renderHeader renders the title, tab strip and activity spinner.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("stackdeck")

	tabs := make([]string, 0, numTabs)
	for t := TabSystem; t < numTabs; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.state.Tab {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}

	busy := ""
	if m.sched.Busy() || m.disp.Pending() > 0 {
		busy = " " + m.spinner.View()
	}

	return HeaderStyle.Render(title) + " " + strings.Join(tabs, "") + busy
}

func (m Model) renderBody() string {
	switch m.state.Tab {
	case TabDocker:
		if m.state.DockerView == ViewImages {
			return m.renderImages()
		}
		return m.renderContainers()
	case TabKubernetes:
		return m.renderPods()
	default:
		return m.renderSystem()
	}
}

// placeholder renders the body for a source with nothing to show yet.
// ok is false when src has data and the table should be drawn.
func (m Model) placeholder(src Source, empty bool, noun string) (string, bool) {
	if err := m.state.LastError(src); err != "" && !m.state.Loaded(src) {
		return ErrorTextStyle.Render(err) + "\n" + MutedStyle.Render("Retrying every "+m.interval.String()+". Press r to retry now."), true
	}
	if !m.state.Loaded(src) {
		return MutedStyle.Render("Loading " + noun + "…"), true
	}
	if empty {
		return MutedStyle.Render("No " + noun), true
	}
	return "", false
}

func (m Model) renderSystem() string {
	snap := m.state.Metrics
	if snap == nil {
		if text, ok := m.placeholder(SourceMetrics, true, "host metrics"); ok {
			return text
		}
		return ""
	}

	width, _ := m.size()
	barWidth := 20
	graphWidth := width - barWidth - 30
	if graphWidth < 10 {
		graphWidth = 10
	}

	var lines []string

	info := LabelStyle.Render("Host ") + ValueStyle.Render(snap.Hostname) +
		LabelStyle.Render("   Uptime ") + ValueStyle.Render(FormatUptime(snap.Uptime))
	if snap.Load.Available {
		info += LabelStyle.Render("   Load ") +
			ValueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", snap.Load.Load1, snap.Load.Load5, snap.Load.Load15))
	}
	lines = append(lines, info, "")

	lines = append(lines, fmt.Sprintf("%s %s %s  %s",
		LabelStyle.Render("CPU"),
		ThinProgressBar(barWidth, snap.CPU.Total),
		ValueStyle.Render(fmt.Sprintf("%5.1f%%", snap.CPU.Total)),
		RenderSparkline(m.history.CPU(graphWidth), graphWidth, true, MetricColor(snap.CPU.Total)),
	))
	lines = append(lines, renderCores(snap, width)...)

	mem := snap.Memory.Percent()
	lines = append(lines, "", fmt.Sprintf("%s %s %s  %s",
		LabelStyle.Render("RAM"),
		ThinProgressBar(barWidth, mem),
		ValueStyle.Render(fmt.Sprintf("%5.1f%%", mem)),
		RenderSparkline(m.history.RAM(graphWidth), graphWidth, true, MetricColor(mem)),
	))
	lines = append(lines, MutedStyle.Render(fmt.Sprintf("    %s / %s",
		FormatBytes(snap.Memory.UsedBytes), FormatBytes(snap.Memory.TotalBytes))))

	lines = append(lines, "",
		fmt.Sprintf("%s ↓ %-12s %s", LabelStyle.Render("NET"),
			ValueStyle.Render(FormatRate(snap.RxRate())),
			RenderSparkline(m.history.Rx(graphWidth), graphWidth, false, ColorGraph)),
		fmt.Sprintf("%s ↑ %-12s %s", LabelStyle.Render("   "),
			ValueStyle.Render(FormatRate(snap.TxRate())),
			RenderSparkline(m.history.Tx(graphWidth), graphWidth, false, ColorAccentDim)),
	)

	if err := m.state.LastError(SourceMetrics); err != "" {
		lines = append(lines, "", ErrorTextStyle.Render(err))
	}
	return strings.Join(lines, "\n")
}

// renderCores lays out per-core usage, as many per row as fit.
func renderCores(snap *sysmetrics.Snapshot, width int) []string {
	const cell = 18
	perRow := width / cell
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	var row []string
	for i, pct := range snap.CPU.PerCore {
		row = append(row, fmt.Sprintf("%s %s %s",
			MutedStyle.Render(fmt.Sprintf("%3d", i)),
			ThinProgressBar(6, pct),
			lipgloss.NewStyle().Foreground(MetricColor(pct)).Render(fmt.Sprintf("%3.0f%%", pct)),
		))
		if len(row) == perRow {
			rows = append(rows, "    "+strings.Join(row, "  "))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, "    "+strings.Join(row, "  "))
	}
	return rows
}

func (m Model) renderContainers() string {
	s := m.state
	if text, ok := m.placeholder(SourceContainers, len(s.Containers) == 0, "containers"); ok {
		return m.viewSwitcher() + "\n\n" + text
	}

	cols := []column{{"NAME", 24}, {"IMAGE", 28}, {"STATE", 11}, {"STATUS", 24}, {"PORTS", 30}}
	rows := make([][]string, len(s.Containers))
	states := make([]string, len(s.Containers))
	for i, c := range s.Containers {
		rows[i] = []string{c.Name, c.Image, string(c.State), c.Status, c.Ports}
		states[i] = string(c.State)
	}

	_, height := m.size()
	if height < minDetailHeight {
		return m.viewSwitcher() + "\n\n" + m.renderTable(cols, rows, s.ContainerSel, 2, states, 0)
	}
	return m.viewSwitcher() + "\n\n" + m.renderTable(cols, rows, s.ContainerSel, 2, states, detailLines) +
		"\n\n" + m.renderContainerDetail()
}

// renderContainerDetail shows live usage for the selected container.
func (m Model) renderContainerDetail() string {
	width, _ := m.size()
	c, ok := m.state.SelectedContainer()
	if !ok {
		return ""
	}

	ports := c.Ports
	if ports == "" {
		ports = "none"
	}
	lines := []string{
		LabelStyle.Render("Container Details  ") + ValueStyle.Render(c.Name) +
			LabelStyle.Render("   Ports ") + ValueStyle.Render(ports),
	}

	st, ok := m.state.StatsFor(c.ID)
	switch {
	case !c.Running():
		lines = append(lines, MutedStyle.Render("Not running"))
	case !ok && m.state.LastError(SourceStats) != "":
		lines = append(lines, ErrorTextStyle.Render(m.state.LastError(SourceStats)))
	case !ok:
		lines = append(lines, MutedStyle.Render("Collecting stats…"))
	default:
		lines = append(lines, m.statsLines(st, width)...)
	}

	return PanelStyle.Width(max(width-2, 20)).Render(strings.Join(lines, "\n"))
}

func (m Model) statsLines(st docker.Stats, width int) []string {
	const barWidth = 16
	graphWidth := max(width-barWidth-40, 10)
	h := m.ctrHistory

	return []string{
		fmt.Sprintf("%s %s %s  %s",
			LabelStyle.Render("CPU  "),
			ThinProgressBar(barWidth, st.CPUPercent),
			ValueStyle.Render(fmt.Sprintf("%6.1f%%", st.CPUPercent)),
			RenderSparkline(h.CPU(st.ID, graphWidth), graphWidth, true, MetricColor(st.CPUPercent))),
		fmt.Sprintf("%s %s %s  %s",
			LabelStyle.Render("MEM  "),
			ThinProgressBar(barWidth, st.MemPercent),
			ValueStyle.Render(fmt.Sprintf("%6.1f%%", st.MemPercent)),
			RenderSparkline(h.Mem(st.ID, graphWidth), graphWidth, true, MetricColor(st.MemPercent))),
		MutedStyle.Render(fmt.Sprintf("      %s / %s", FormatBytes(st.MemUsed), FormatBytes(st.MemLimit))),
		fmt.Sprintf("%s ↓ %-10s ↑ %-10s %s",
			LabelStyle.Render("NET  "),
			ValueStyle.Render(FormatBytes(st.NetRx)),
			ValueStyle.Render(FormatBytes(st.NetTx)),
			RenderSparkline(h.Net(st.ID, graphWidth), graphWidth, false, ColorGraph)),
		fmt.Sprintf("%s R %-10s W %-10s %s %s",
			LabelStyle.Render("BLOCK"),
			ValueStyle.Render(FormatBytes(st.BlockRead)),
			ValueStyle.Render(FormatBytes(st.BlockWrite)),
			LabelStyle.Render("PIDs"),
			ValueStyle.Render(fmt.Sprint(st.PIDs))),
	}
}

func (m Model) renderImages() string {
	s := m.state
	if text, ok := m.placeholder(SourceImages, len(s.Images) == 0, "images"); ok {
		return m.viewSwitcher() + "\n\n" + text
	}

	now := m.now()
	cols := []column{{"REPOSITORY", 36}, {"TAG", 16}, {"IMAGE ID", 14}, {"SIZE", 10}, {"CREATED", 16}}
	rows := make([][]string, len(s.Images))
	for i, img := range s.Images {
		rows[i] = []string{img.Repository, img.Tag, shortID(img.ID), FormatBytes(img.Size), FormatAgo(img.CreatedAt, now)}
	}
	return m.viewSwitcher() + "\n\n" + m.renderTable(cols, rows, s.ImageSel, -1, nil, 0)
}

func (m Model) renderPods() string {
	s := m.state
	if text, ok := m.placeholder(SourcePods, len(s.Pods) == 0, "pods"); ok {
		return text
	}

	now := m.now()
	cols := []column{{"NAMESPACE", 18}, {"NAME", 40}, {"READY", 7}, {"STATUS", 20}, {"RESTARTS", 9}, {"AGE", 8}, {"NODE", 20}}
	rows := make([][]string, len(s.Pods))
	states := make([]string, len(s.Pods))
	for i, p := range s.Pods {
		rows[i] = []string{p.Namespace, p.Name, p.ReadyString(), p.Status(), fmt.Sprint(p.Restarts), p.Age(now), p.Node}
		states[i] = p.Status()
	}
	return m.renderTable(cols, rows, s.PodSel, 3, states, 0)
}

// viewSwitcher shows which Docker list is active.
func (m Model) viewSwitcher() string {
	containers, images := TabStyle, TabStyle
	if m.state.DockerView == ViewImages {
		images = TabActiveStyle
	} else {
		containers = TabActiveStyle
	}
	return containers.Render(fmt.Sprintf("Containers (%d)", len(m.state.Containers))) +
		images.Render(fmt.Sprintf("Images (%d)", len(m.state.Images))) +
		MutedStyle.Render("  v to switch")
}

// renderTable draws a header and a window of rows that keeps sel visible.
// stateCol names the column coloured by states; -1 for none. reserved is the
// number of body lines drawn below the table.
func (m Model) renderTable(cols []column, rows [][]string, sel, stateCol int, states []string, reserved int) string {
	_, height := m.size()
	visible := height - chromeLines - 4 - reserved
	if visible < 3 {
		visible = 3
	}

	start := 0
	if sel >= visible {
		start = sel - visible + 1
	}
	end := min(start+visible, len(rows))

	var b strings.Builder
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = pad(c.title, c.width)
	}
	b.WriteString(TableHeaderStyle.Render(strings.Join(header, " ")))

	for i := start; i < end; i++ {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = pad(truncate(rows[i][j], c.width), c.width)
		}
		b.WriteString("\n")
		if i == sel {
			b.WriteString(SelectedRowStyle.Render(strings.Join(cells, " ")))
			continue
		}
		if stateCol >= 0 && states != nil {
			cells[stateCol] = lipgloss.NewStyle().Foreground(stateColor(states[i])).Render(cells[stateCol])
		}
		b.WriteString(strings.Join(cells, " "))
	}

	if len(rows) > visible {
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(rows))))
	}
	return b.String()
}

// renderStatus renders the confirm prompt or the current status message.
func (m Model) renderStatus() string {
	if m.confirm != nil {
		return ConfirmStyle.Render(fmt.Sprintf("%s %s %s? ", capitalize(m.confirm.Verb.String()),
			m.confirm.Target.Kind, m.confirm.Target.Label())) + MutedStyle.Render("(y/n)")
	}
	st := m.state.Status
	if !st.Active(m.now()) {
		return ""
	}
	return statusStyles[st.Severity].Render(st.Text)
}

// renderFooter renders the keyboard hints for the active tab.
func (m Model) renderFooter() string {
	hints := []string{"1-3 tabs", "r refresh", "? help", "q quit"}
	switch m.state.Tab {
	case TabDocker:
		hints = append([]string{"↑↓ select", "s start", "x stop", "t restart", "D remove", "n new", "p/e/m/f presets"}, hints...)
	case TabKubernetes:
		hints = append([]string{"↑↓ select", "D delete"}, hints...)
	}
	if m.form != nil {
		hints = []string{"enter next", "esc cancel"}
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

func pad(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func shortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
