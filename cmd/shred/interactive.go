package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adeschamps/shred"
	"github.com/adeschamps/shred/dispatch"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4"))

	dimStageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// interactiveModel steps through the stages of a built plan, showing each
// stage's systems and the guard mode per resource.
type interactiveModel struct {
	filename string
	stages   []dispatch.StageInfo
	selected int
	detail   viewport.Model
	ready    bool
}

func newInteractiveModel(filename string, stages []dispatch.StageInfo) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		stages:   stages,
	}
}

func runInteractive(filename string, d *dispatch.Dispatcher) error {
	m := newInteractiveModel(filename, d.Stages())
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - 6
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.detail = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.detail.Width = msg.Width
			m.detail.Height = height
		}
		m.detail.SetContent(m.stageDetail())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "left", "h":
			if m.selected > 0 {
				m.selected--
				m.detail.SetContent(m.stageDetail())
			}
		case "down", "j", "right", "l":
			if m.selected < len(m.stages)-1 {
				m.selected++
				m.detail.SetContent(m.stageDetail())
			}
		default:
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("shred schedule: " + m.filename))
	b.WriteString("\n\n")

	// Stage ribbon: the selected stage is highlighted; the rest dimmed.
	ribbon := make([]string, 0, len(m.stages))
	for i := range m.stages {
		label := fmt.Sprintf(" stage %d ", i)
		if i == m.selected {
			ribbon = append(ribbon, selectedStageStyle.Render(label))
		} else {
			ribbon = append(ribbon, dimStageStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(ribbon, " "))
	b.WriteString("\n\n")

	if m.ready {
		b.WriteString(m.detail.View())
	} else {
		b.WriteString(m.stageDetail())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ select stage · ↑/↓ scroll · q quit"))
	return b.String()
}

func (m *interactiveModel) stageDetail() string {
	if m.selected >= len(m.stages) {
		return ""
	}
	st := m.stages[m.selected]

	var b strings.Builder
	fmt.Fprintf(&b, "%d system(s) run in parallel:\n\n", len(st.Systems))
	for _, s := range st.Systems {
		b.WriteString("  " + systemStyle.Render(s.Name))
		if s.Affinity == shred.DispatchThread {
			b.WriteString(" " + affineStyle.Render("(dispatch thread)"))
		}
		b.WriteString("\n")
		if w := s.Access.Writes(); len(w) > 0 {
			b.WriteString("    " + writeStyle.Render("writes "+joinIDNames(w)) + "\n")
		}
		if r := s.Access.Reads(); len(r) > 0 {
			b.WriteString("    " + readStyle.Render("reads  "+joinIDNames(r)) + "\n")
		}
	}

	b.WriteString("\nStage guards:\n")
	for _, id := range st.Writes {
		b.WriteString("  " + writeStyle.Render("exclusive ") + joinIDNames([]shred.ResourceID{id}) + "\n")
	}
	for _, id := range st.Reads {
		b.WriteString("  " + readStyle.Render("shared    ") + joinIDNames([]shred.ResourceID{id}) + "\n")
	}
	return b.String()
}
