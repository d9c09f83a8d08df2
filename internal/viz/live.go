package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/control"
	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
)

const (
	width           = 64
	height          = 24
	historyCapacity = 600

	// canvasStyle padding, in cells.
	padTop  = 1
	padLeft = 2
)

// Snapshot stores the world at a specific time for replay.
type Snapshot struct {
	Bodies    []physics.Body
	Obstacles []physics.Obstacle
	Time      float64
	Energy    float64
}

var (
	canvasStyle = lipgloss.NewStyle().Padding(padTop, padLeft)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model runs a world at the configured frame rate and lets the mouse drag
// and throw bodies and obstacle ends.
type Model struct {
	cfg   *config.Config
	name  string
	world *sim.World
	hand  *control.Manipulator
	held  *control.Button
	dt    float64
	scale float64

	canvas       *Canvas
	running      bool
	showHelp     bool
	showContacts bool
	theme        int

	energyHistory  []float64
	contactHistory []float64
	history        []Snapshot
	playHead       int
	err            error
}

// NewModel builds the scene described by cfg.
func NewModel(cfg *config.Config, name string) (Model, error) {
	w, err := cfg.Build()
	if err != nil {
		return Model{}, err
	}

	p := w.Params()
	return Model{
		cfg:            cfg,
		name:           name,
		world:          w,
		hand:           control.NewManipulator(w),
		dt:             cfg.Run.FrameDt,
		scale:          math.Min(float64(width*2)/p.Width, float64(height*4)/p.Height),
		canvas:         NewCanvas(width, height),
		running:        true,
		showContacts:   true,
		energyHistory:  make([]float64, 0, historyCapacity),
		contactHistory: make([]float64, 0, historyCapacity),
		history:        make([]Snapshot, 0, historyCapacity),
		playHead:       -1,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// World exposes the simulated world.
func (m Model) World() *sim.World { return m.world }

// Err returns the last error raised by a mouse gesture.
func (m Model) Err() error { return m.err }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running && m.playHead == -1 {
				m.step()
			}
		case "r":
			m.reset()
		case "c":
			m.showContacts = !m.showContacts
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// mouse forwards gestures to the manipulator. Gestures are ignored while
// replaying history.
func (m *Model) mouse(msg tea.MouseMsg) {
	if m.playHead != -1 || m.showHelp {
		return
	}
	x, y := m.toWorld(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		var b control.Button
		switch msg.Button {
		case tea.MouseButtonLeft:
			b = control.Primary
		case tea.MouseButtonRight:
			b = control.Secondary
		default:
			return
		}
		m.held = &b
		m.hand.Press(x, y, b)
	case tea.MouseActionMotion:
		if m.held != nil {
			m.err = m.hand.Drag(x, y)
		}
	case tea.MouseActionRelease:
		if m.held != nil {
			m.err = m.hand.Release(x, y, *m.held)
			m.held = nil
		}
	}
}

// toWorld maps a terminal cell to the world point under the middle of its
// braille block.
func (m *Model) toWorld(col, row int) (float64, float64) {
	sx := float64((col-padLeft)*2) + 1
	sy := float64((row-padTop)*4) + 2
	return sx / m.scale, sy / m.scale
}

func (m *Model) project(x, y float64) (int, int) {
	return round(x * m.scale), round(y * m.scale)
}

// step advances the world by one frame and records it.
func (m *Model) step() {
	m.world.Advance(m.dt)

	bodies := m.world.Bodies()
	energy := 0.0
	for i := range bodies {
		energy += bodies[i].KineticEnergy()
	}

	m.energyHistory = pushCapped(m.energyHistory, energy)
	m.contactHistory = pushCapped(m.contactHistory, float64(len(m.world.Collisions())))

	m.history = append(m.history, Snapshot{
		Bodies:    bodies,
		Obstacles: m.world.Obstacles(),
		Time:      m.world.Time(),
		Energy:    energy,
	})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func pushCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the scene from its config.
func (m *Model) reset() {
	w, err := m.cfg.Build()
	if err != nil {
		m.err = err
		return
	}
	m.world = w
	m.hand = control.NewManipulator(w)
	m.held = nil
	m.energyHistory = m.energyHistory[:0]
	m.contactHistory = m.contactHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
}

// draw renders either the live world or the snapshot under the play head.
func (m *Model) draw() {
	m.canvas.Clear()

	bodies, obstacles := m.world.Bodies(), m.world.Obstacles()
	replay := m.playHead != -1 && m.playHead < len(m.history)
	if replay {
		bodies, obstacles = m.history[m.playHead].Bodies, m.history[m.playHead].Obstacles
	}

	m.canvas.SetPen(InkObstacle)
	for _, o := range obstacles {
		m.canvas.DrawCapsule(o.Start[0]*m.scale, o.Start[1]*m.scale, o.End[0]*m.scale, o.End[1]*m.scale, o.Thickness*m.scale)
	}

	selected, hasSel := m.hand.Selected()
	for _, b := range bodies {
		m.canvas.SetPen(InkBody)
		if hasSel && !replay && b.ID == selected {
			m.canvas.SetPen(InkSelected)
		}
		x, y := m.project(b.Pos[0], b.Pos[1])
		m.canvas.DrawCircle(x, y, b.Radius*m.scale)
	}

	if m.showContacts && !replay {
		m.canvas.SetPen(InkContact)
		for _, c := range m.world.Collisions() {
			x0, y0 := m.project(c.From[0], c.From[1])
			x1, y1 := m.project(c.To[0], c.To[1])
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
	}

	if from, to, ok := m.hand.Cue(); ok && !replay && m.held != nil && *m.held == control.Secondary {
		m.canvas.SetPen(InkCue)
		x0, y0 := m.project(from[0], from[1])
		x1, y1 := m.project(to[0], to[1])
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	theme := Themes[m.theme]

	t, energy := m.world.Time(), 0.0
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.playHead != -1:
		snap := m.history[m.playHead]
		t, energy = snap.Time, snap.Energy
		label := "REPLAY"
		if !m.running {
			label = "REPLAY PAUSED"
		}
		status = StatusPaused.Render(fmt.Sprintf("%s (%.1fs)", label, snap.Time-m.world.Time()))
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}

	header := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).MarginBottom(1)
	help := lipgloss.NewStyle().Foreground(theme.Muted).MarginTop(2)

	var s strings.Builder
	s.WriteString(header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(status + "\n\n")
	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", t)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.1f", energy)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.world.NumBodies())) + "\n")
	s.WriteString(labelStyle.Render("Contacts") + SparklineChart(m.contactHistory, 24) + "\n")
	s.WriteString(labelStyle.Render("Theme") + valueStyle.Render(theme.Name) + "\n")
	if m.err != nil {
		s.WriteString(labelStyle.Render("Error") + valueStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(help.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nC:Contacts T:Theme ?:Help\n[ ]:Time-Travel N:Step"))

	canvasView := canvasStyle.Render(m.canvas.Render(theme.inks()))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  N        - Step one frame (paused)  ║
║  R        - Reset scene              ║
║  C        - Toggle contact lines     ║
║  [        - Rewind (time travel)     ║
║  ]        - Forward (time travel)    ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
║                                      ║
║  Left drag  - Move body / line end   ║
║  Right drag - Aim, release to throw  ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// RunLive opens the live view for one scene.
func RunLive(cfg *config.Config, name string) error {
	m, err := NewModel(cfg, name)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
