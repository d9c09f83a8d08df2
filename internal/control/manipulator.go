package control

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballpit/internal/physics"
)

// ThrowGain scales the cursor-to-body offset into a throw velocity.
const ThrowGain = 5.0

type Button uint8

const (
	Primary Button = iota
	Secondary
)

// Target is the part of a world a Manipulator edits. *sim.World
// implements it.
type Target interface {
	Bodies() []physics.Body
	Obstacles() []physics.Obstacle
	Body(id physics.BodyID) (physics.Body, error)
	SetPosition(id physics.BodyID, x, y float64) error
	SetVelocity(id physics.BodyID, vx, vy float64) error
	MoveObstacleEnd(id physics.ObstacleID, end physics.End, x, y float64) error
}

type endRef struct {
	id  physics.ObstacleID
	end physics.End
}

type Manipulator struct {
	target Target
	gain   float64

	body   *physics.BodyID
	end    *endRef
	held   *Button
	cursor mgl64.Vec2
}

func NewManipulator(t Target) *Manipulator {
	return &Manipulator{target: t, gain: ThrowGain}
}

// SetGain overrides ThrowGain for this manipulator.
func (m *Manipulator) SetGain(g float64) { m.gain = g }

// Press selects the first body whose circle strictly contains the cursor
// and, independently, the first obstacle end whose cap does. Any previous
// selection is dropped.
func (m *Manipulator) Press(x, y float64, b Button) {
	p := mgl64.Vec2{x, y}
	m.cursor = p
	m.held = &b
	m.body = nil
	m.end = nil

	for _, body := range m.target.Bodies() {
		if body.Contains(p) {
			id := body.ID
			m.body = &id
			break
		}
	}

	for _, o := range m.target.Obstacles() {
		if o.CapContains(physics.StartEnd, p) {
			m.end = &endRef{id: o.ID, end: physics.StartEnd}
			break
		}
		if o.CapContains(physics.FinishEnd, p) {
			m.end = &endRef{id: o.ID, end: physics.FinishEnd}
			break
		}
	}
}

// Drag follows the cursor. While the primary button is held the selected
// body and obstacle end are moved onto it.
func (m *Manipulator) Drag(x, y float64) error {
	m.cursor = mgl64.Vec2{x, y}
	if m.held == nil || *m.held != Primary {
		return nil
	}
	if m.body != nil {
		if err := m.target.SetPosition(*m.body, x, y); err != nil {
			return err
		}
	}
	if m.end != nil {
		if err := m.target.MoveObstacleEnd(m.end.id, m.end.end, x, y); err != nil {
			return err
		}
	}
	return nil
}

// Release ends the gesture. A secondary release throws the selected body.
func (m *Manipulator) Release(x, y float64, b Button) error {
	m.cursor = mgl64.Vec2{x, y}
	defer m.clear()

	if b != Secondary || m.body == nil {
		return nil
	}
	body, err := m.target.Body(*m.body)
	if err != nil {
		return err
	}
	v := body.Pos.Sub(m.cursor).Mul(m.gain)
	return m.target.SetVelocity(*m.body, v[0], v[1])
}

func (m *Manipulator) clear() {
	m.body = nil
	m.end = nil
	m.held = nil
}

// Selected returns the selected body, if any.
func (m *Manipulator) Selected() (physics.BodyID, bool) {
	if m.body == nil {
		return 0, false
	}
	return *m.body, true
}

// SelectedEnd returns the selected obstacle end, if any.
func (m *Manipulator) SelectedEnd() (physics.ObstacleID, physics.End, bool) {
	if m.end == nil {
		return 0, 0, false
	}
	return m.end.id, m.end.end, true
}

// Cue returns the aiming line from the selected body to the cursor.
func (m *Manipulator) Cue() (from, to mgl64.Vec2, ok bool) {
	if m.body == nil {
		return mgl64.Vec2{}, mgl64.Vec2{}, false
	}
	body, err := m.target.Body(*m.body)
	if err != nil {
		return mgl64.Vec2{}, mgl64.Vec2{}, false
	}
	return body.Pos, m.cursor, true
}
