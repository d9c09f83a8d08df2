package analysis

import (
	"fmt"

	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
)

// Axis selects one component of a body's state.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisVX
	AxisVY
	AxisSpeed
)

var axisNames = map[string]Axis{
	"x":     AxisX,
	"y":     AxisY,
	"vx":    AxisVX,
	"vy":    AxisVY,
	"speed": AxisSpeed,
}

func ParseAxis(s string) (Axis, error) {
	a, ok := axisNames[s]
	if !ok {
		return 0, fmt.Errorf("analysis: unknown axis %q", s)
	}
	return a, nil
}

func (a Axis) of(b *physics.Body) float64 {
	switch a {
	case AxisX:
		return b.Pos[0]
	case AxisY:
		return b.Pos[1]
	case AxisVX:
		return b.Vel[0]
	case AxisVY:
		return b.Vel[1]
	}
	return b.Speed()
}

// EnergySeries is the total kinetic energy of each frame.
func EnergySeries(frames []sim.Frame) []float64 {
	out := make([]float64, len(frames))
	for i := range frames {
		for j := range frames[i].Bodies {
			out[i] += frames[i].Bodies[j].KineticEnergy()
		}
	}
	return out
}

// BodySeries follows one body through the frames. Frames in which the
// body does not exist yet are skipped.
func BodySeries(frames []sim.Frame, id physics.BodyID, axis Axis) []float64 {
	out := make([]float64, 0, len(frames))
	for i := range frames {
		if b := find(frames[i].Bodies, id); b != nil {
			out = append(out, axis.of(b))
		}
	}
	return out
}

func find(bodies []physics.Body, id physics.BodyID) *physics.Body {
	if int(id) < len(bodies) && bodies[id].ID == id {
		return &bodies[id]
	}
	for i := range bodies {
		if bodies[i].ID == id {
			return &bodies[i]
		}
	}
	return nil
}
