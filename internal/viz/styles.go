package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors the canvas inks and the side panel.
type Theme struct {
	Name     string
	Body     lipgloss.Color
	Selected lipgloss.Color
	Obstacle lipgloss.Color
	Contact  lipgloss.Color
	Cue      lipgloss.Color
	Accent   lipgloss.Color
	Muted    lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:     "neon",
		Body:     lipgloss.Color("#00ffff"),
		Selected: lipgloss.Color("#ffff00"),
		Obstacle: lipgloss.Color("#ff00ff"),
		Contact:  lipgloss.Color("#ff3030"),
		Cue:      lipgloss.Color("#00ff88"),
		Accent:   lipgloss.Color("86"),
		Muted:    lipgloss.Color("240"),
	}

	ThemeRetro = Theme{
		Name:     "retro",
		Body:     lipgloss.Color("#00ff00"),
		Selected: lipgloss.Color("#88ff88"),
		Obstacle: lipgloss.Color("#00aa00"),
		Contact:  lipgloss.Color("#ffff00"),
		Cue:      lipgloss.Color("#88ff88"),
		Accent:   lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Body:     lipgloss.Color("#ffffff"),
		Selected: lipgloss.Color("#0088ff"),
		Obstacle: lipgloss.Color("#888888"),
		Contact:  lipgloss.Color("#ff0000"),
		Cue:      lipgloss.Color("#0088ff"),
		Accent:   lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
	}

	Themes = []Theme{ThemeNeon, ThemeRetro, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to the first.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) inks() map[Ink]lipgloss.Style {
	return map[Ink]lipgloss.Style{
		InkBody:     lipgloss.NewStyle().Foreground(t.Body),
		InkSelected: lipgloss.NewStyle().Foreground(t.Selected).Bold(true),
		InkObstacle: lipgloss.NewStyle().Foreground(t.Obstacle),
		InkContact:  lipgloss.NewStyle().Foreground(t.Contact),
		InkCue:      lipgloss.NewStyle().Foreground(t.Cue),
	}
}

var (
	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	StatusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
)

// SparklineChart renders the last width values as a one-line sparkline.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}

	return result.String()
}
