package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ballpit/internal/config"
)

var presetInfo = map[string]string{
	"classic": "big ball, scatter, shelves",
	"cradle":  "newton's cradle, no drag",
	"rain":    "120 drops over ramps",
	"pinball": "funnel and bumpers",
}

const (
	stateMenu = iota
	stateSim
)

// picker lists the presets and hands the chosen one to a live Model.
type picker struct {
	state, cursor int
	presets       []string
	live          Model
	err           error
}

func NewInteractiveApp() *picker {
	return &picker{state: stateMenu, presets: config.ListPresets()}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.state = stateMenu
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (picker, tea.Cmd) {
	name := m.presets[m.cursor]
	live, err := NewModel(config.GetPreset(name), name)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state, m.err = live, stateSim, nil
	return m, live.Init()
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	h := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	key := lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	cur := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))

	var b strings.Builder
	b.WriteString("\n\n    " + h.Render("BALLPIT") + "\n    " + sub.Render("balls, lines and a mouse") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", key.Render("▸"), cur.Render(fmt.Sprintf("%-10s", name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Render(presetInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dim.Render(fmt.Sprintf("  %-10s", name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(presetInfo[name])))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + key.Render("j/k") + dim.Render(" navigate  ") + key.Render("enter") + dim.Render(" select  ") + key.Render("esc") + dim.Render(" back  ") + key.Render("q") + dim.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
