package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MinSeparation is the center distance below which a contact has no usable
// normal.
const MinSeparation = 1e-9

// Contact is the synthetic body standing in for an obstacle at the point
// nearest to a colliding body. It carries the body's mass and the body's
// velocity negated, so the elastic exchange reflects the body's normal
// velocity. A Contact lives for one substep.
type Contact struct {
	Obstacle ObstacleID
	Pos      mgl64.Vec2
	Vel      mgl64.Vec2
	Radius   float64
	Mass     float64
}

type PairKind uint8

const (
	BodyPair PairKind = iota
	ObstaclePair
)

func (k PairKind) String() string {
	switch k {
	case BodyPair:
		return "body"
	case ObstaclePair:
		return "obstacle"
	}
	return "unknown"
}

// Pair is one detected overlap. For ObstaclePair, B is unused and Contact
// holds the proxy.
type Pair struct {
	Kind    PairKind
	A       BodyID
	B       BodyID
	Contact Contact
}

// Overlap reports whether two circles touch or overlap and returns the
// distance between their centers.
func Overlap(a, b *Body) (float64, bool) {
	d := a.Pos.Sub(b.Pos)
	r := a.Radius + b.Radius
	distSq := d.Dot(d)
	if distSq > r*r {
		return 0, false
	}
	return math.Sqrt(distSq), true
}

// Touch tests a body against an obstacle. On overlap it returns the contact
// proxy at the obstacle's nearest point and the center-to-point distance.
func Touch(b *Body, o *Obstacle) (Contact, float64, bool) {
	cp := o.ClosestPoint(b.Pos)
	dist := b.Pos.Sub(cp).Len()
	if dist > b.Radius+o.Thickness {
		return Contact{}, 0, false
	}
	return Contact{
		Obstacle: o.ID,
		Pos:      cp,
		Vel:      b.Vel.Mul(-1),
		Radius:   o.Thickness,
		Mass:     b.Mass,
	}, dist, true
}
