package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ballpit/internal/config"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	c.SetPen(InkBody)
	c.Set(0, 0)
	c.Set(3, 7)
	c.Set(-1, 0)
	c.Set(8, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 at origin, got %U", c.Grid[0][0])
	}
	if c.Grid[1][1] != 0x2800|0x80 {
		t.Errorf("expected dot 8 in cell (1,1), got %U", c.Grid[1][1])
	}
	if c.Ink[0][0] != InkBody || c.Ink[0][2] != InkNone {
		t.Errorf("unexpected ink %v", c.Ink[0])
	}

	c.Clear()
	if c.Grid[0][0] != 0x2800 || c.Ink[0][0] != InkNone {
		t.Error("expected clear canvas")
	}
}

func TestCanvasDrawCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawCircle(10, 10, 0.2)
	if c.Grid[2][5] == 0x2800 {
		t.Error("expected tiny circle to draw a dot")
	}

	c.Clear()
	c.DrawCircle(10, 10, 4)
	for _, p := range [][2]int{{14, 10}, {6, 10}, {10, 14}, {10, 6}} {
		col, row := p[0]/2, p[1]/4
		if c.Grid[row][col]&rune(pixelMap[p[1]%4][p[0]%2]) == 0 {
			t.Errorf("expected point %v on the circle", p)
		}
	}
	if c.Grid[10/4][10/2]&rune(pixelMap[10%4][10%2]) != 0 {
		t.Error("expected hollow center")
	}
}

func TestCanvasDrawCapsule(t *testing.T) {
	c := NewCanvas(20, 5)
	c.DrawCapsule(6, 10, 30, 10, 3)

	lit := func(x, y int) bool {
		return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
	}
	for _, p := range [][2]int{{18, 7}, {18, 13}, {3, 10}, {33, 10}} {
		if !lit(p[0], p[1]) {
			t.Errorf("expected point %v on the capsule", p)
		}
	}
	if lit(18, 10) {
		t.Error("expected hollow spine")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(6, 2)
	c.SetPen(InkObstacle)
	c.DrawLine(0, 0, 11, 0)

	plain := c.String()
	if c.Render(nil) != plain {
		t.Error("expected unstyled render to match String")
	}
	if lines := strings.Count(plain, "\n"); lines != 2 {
		t.Errorf("expected 2 rows, got %d", lines)
	}
}

func newCradle(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(config.GetPreset("cradle"), "cradle")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTick(t *testing.T) {
	m := newCradle(t)

	m = update(m, TickMsg{})
	m = update(m, TickMsg{})
	if got := m.World().Time(); math.Abs(got-2.0/60) > 1e-12 {
		t.Errorf("expected two frames, got t=%f", got)
	}
	if len(m.history) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(m.history))
	}

	m = update(m, key(" "))
	m = update(m, TickMsg{})
	if len(m.history) != 2 {
		t.Error("expected paused model not to advance")
	}

	m = update(m, key("n"))
	if len(m.history) != 3 {
		t.Error("expected single step while paused")
	}
}

func TestModelScrub(t *testing.T) {
	m := newCradle(t)
	for i := 0; i < 3; i++ {
		m = update(m, TickMsg{})
	}

	m = update(m, key("["))
	if m.playHead != 1 || m.running {
		t.Errorf("expected paused replay at 1, got %d (running=%v)", m.playHead, m.running)
	}
	if !strings.Contains(m.View(), "REPLAY") {
		t.Error("expected replay status in view")
	}

	m = update(m, key("]"))
	m = update(m, key("]"))
	if m.playHead != -1 {
		t.Errorf("expected live view after scrubbing past the end, got %d", m.playHead)
	}
}

func TestModelReset(t *testing.T) {
	m := newCradle(t)
	m = update(m, TickMsg{})
	m = update(m, key("r"))

	if m.World().Time() != 0 || len(m.history) != 0 {
		t.Error("expected fresh scene after reset")
	}
}

func TestModelDragBody(t *testing.T) {
	m := newCradle(t)

	m = update(m, tea.MouseMsg{X: 10, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(m, tea.MouseMsg{X: 30, Y: 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(m, tea.MouseMsg{X: 30, Y: 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
	if m.Err() != nil {
		t.Fatal(m.Err())
	}

	b, err := m.World().Body(0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(b.Pos[0]-142.5) > 1e-9 || math.Abs(b.Pos[1]-35) > 1e-9 {
		t.Errorf("expected body at (142.5,35), got %v", b.Pos)
	}
	if m.held != nil {
		t.Error("expected no button held after release")
	}
}

func TestModelThrowBody(t *testing.T) {
	m := newCradle(t)

	m = update(m, tea.MouseMsg{X: 10, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	m = update(m, tea.MouseMsg{X: 6, Y: 12, Action: tea.MouseActionMotion, Button: tea.MouseButtonRight})
	if !strings.Contains(m.View(), "CRADLE") {
		t.Error("expected scene name in view")
	}
	m = update(m, tea.MouseMsg{X: 6, Y: 12, Action: tea.MouseActionRelease, Button: tea.MouseButtonRight})

	b, _ := m.World().Body(0)
	if math.Abs(b.Vel[0]-87.5) > 1e-9 || math.Abs(b.Vel[1]-25) > 1e-9 {
		t.Errorf("expected throw (87.5,25), got %v", b.Vel)
	}
}

func TestPicker(t *testing.T) {
	var app tea.Model = NewInteractiveApp()

	app, _ = app.Update(key("j"))
	app, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected the live model to start ticking")
	}

	p := app.(picker)
	if p.state != stateSim || p.live.name != config.ListPresets()[1] {
		t.Errorf("expected second preset running, got state %d name %q", p.state, p.live.name)
	}

	app, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if app.(picker).state != stateMenu {
		t.Error("expected esc to return to the menu")
	}
}
