package integrators

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballpit/internal/physics"
)

// Euler advances a body with semi-implicit Euler under linear drag and a
// constant downward pull, then wraps it onto the torus [0,Width)x[0,Height).
type Euler struct {
	Drag        float64 // a = -Drag*v
	Gravity     float64 // added to a.y; screen coordinates, so positive is down
	SnapSpeedSq float64 // |v|^2 below this is snapped to zero
	Width       float64
	Height      float64
}

func NewEuler(drag, gravity, snapSpeedSq, width, height float64) *Euler {
	return &Euler{
		Drag:        drag,
		Gravity:     gravity,
		SnapSpeedSq: snapSpeedSq,
		Width:       width,
		Height:      height,
	}
}

func (e *Euler) Step(b *physics.Body, dt float64) {
	b.Acc = mgl64.Vec2{-b.Vel[0] * e.Drag, -b.Vel[1]*e.Drag + e.Gravity}
	b.Vel = b.Vel.Add(b.Acc.Mul(dt))
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))

	b.Pos[0] = Wrap(b.Pos[0], e.Width)
	b.Pos[1] = Wrap(b.Pos[1], e.Height)

	if b.Vel.Dot(b.Vel) < e.SnapSpeedSq {
		b.Vel = mgl64.Vec2{}
	}
}

// Wrap maps x onto [0,size). A non-positive size leaves x untouched.
func Wrap(x, size float64) float64 {
	if size <= 0 {
		return x
	}
	if x >= 0 && x < size {
		return x
	}
	x = math.Mod(x, size)
	if x < 0 {
		x += size
	}
	// -tiny + size rounds to size
	if x >= size {
		x = 0
	}
	return x
}

// Delta returns the shortest signed offset from a to b on a circle of the
// given size.
func Delta(a, b, size float64) float64 {
	d := b - a
	if size <= 0 {
		return d
	}
	half := size / 2
	if d > half {
		d -= size
	} else if d < -half {
		d += size
	}
	return d
}
