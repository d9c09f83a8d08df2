package metrics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballpit/internal/sim"
)

// Momentum reports the magnitude of the total linear momentum in the last
// observed frame.
type Momentum struct {
	name    string
	current mgl64.Vec2
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(f sim.Frame) {
	var p mgl64.Vec2
	for i := range f.Bodies {
		p = p.Add(f.Bodies[i].Momentum())
	}
	m.current = p
}

func (m *Momentum) Value() float64 { return m.current.Len() }

// Vector returns the last total momentum.
func (m *Momentum) Vector() mgl64.Vec2 { return m.current }

func (m *Momentum) Reset() { m.current = mgl64.Vec2{} }
