// Package ui renders build progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/SunDr17/stencil/internal/buildpipeline"
)

// maxRows caps the artifact list; the rest is summarised.
const maxRows = 12

type progressModel struct {
	title      string
	events     <-chan buildpipeline.Event
	spinner    spinner.Model
	prog       progress.Model
	modes      []modeItem
	modeIndex  map[string]int
	items      []fileItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
	cancel     func()
	cancelling bool
}

type modeItem struct {
	name   string
	status string
}

type fileItem struct {
	path   string
	status string
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders pipeline progress.
// Artifacts and modes are added as their first event arrives; the model quits
// when events is closed. The first ctrl+c calls cancel and keeps draining
// events until the build returns; a second one quits at once.
func NewProgressModel(title string, events <-chan buildpipeline.Event, cancel func()) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:     title,
		events:    events,
		cancel:    cancel,
		spinner:   sp,
		prog:      prog,
		modeIndex: make(map[string]int),
		index:     make(map[string]int),
		width:     80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(buildpipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() != "ctrl+c" {
			return m, nil
		}
		if m.cancelling || m.cancel == nil {
			return m, tea.Quit
		}
		m.cancelling = true
		m.cancel()
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.cancelling {
		header += " - cancelling, ctrl+c again to quit"
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if len(m.modes) > 0 {
		parts := make([]string, 0, len(m.modes))
		for _, mode := range m.modes {
			parts = append(parts, styleStatus(mode.status).Render(mode.name))
		}
		b.WriteString("  modes: ")
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n\n")
	}

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-4, 20)
	shown := m.items
	if len(shown) > maxRows {
		shown = shown[:maxRows]
	}
	for _, item := range shown {
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, truncate(item.path, nameWidth))
	}
	if hidden := len(m.items) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "  %12s and %d more\n", "", hidden)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if label == "" {
		return nil
	}
	switch {
	case ev.File != "":
		idx, ok := m.index[ev.File]
		if !ok {
			idx = len(m.items)
			m.index[ev.File] = idx
			m.items = append(m.items, fileItem{path: ev.File})
		}
		m.items[idx].status = label
	case ev.Mode != "":
		idx, ok := m.modeIndex[ev.Mode]
		if !ok {
			idx = len(m.modes)
			m.modeIndex[ev.Mode] = idx
			m.modes = append(m.modes, modeItem{name: ev.Mode})
		}
		m.modes[idx].status = label
		return nil
	default:
		m.stageLabel = label
		return nil
	}
	return m.prog.SetPercent(m.percent())
}

// percent is the share of artifacts whose write has finished.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	finished := 0
	for _, item := range m.items {
		if item.status == "done" || item.status == "error" {
			finished++
		}
	}
	total, err := safecast.Conv[uint32](len(m.items))
	if err != nil || total == 0 {
		return 0
	}
	return float64(finished) / float64(total)
}

func statusLabel(stage buildpipeline.Stage, status buildpipeline.Status) string {
	switch status {
	case buildpipeline.StatusQueued:
		return "queued"
	case buildpipeline.StatusDone:
		return "done"
	case buildpipeline.StatusError:
		return "error"
	case buildpipeline.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage buildpipeline.Stage) string {
	switch stage {
	case buildpipeline.StageLoad:
		return "loading"
	case buildpipeline.StageTransform:
		return "transforming"
	case buildpipeline.StageWrite:
		return "writing"
	case buildpipeline.StageManifest:
		return "manifest"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "loading", "transforming", "writing", "manifest":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// ширина хвоста уже входит в width
	return runewidth.Truncate(value, width, "...")
}
