package physics

import "github.com/go-gl/mathgl/mgl64"

const (
	minSpeed = 1e-9

	// minBudget is the remaining time below which a body is considered
	// done for the update. Rounding can otherwise leave a residue too small
	// to move the body at all.
	minBudget = 1e-12
)

// Separate removes the penetration between two overlapping bodies, moving
// each half the depth along the line between their centers. dist is the
// center distance measured at detection.
func Separate(a, b *Body, dist float64) bool {
	if dist <= MinSeparation {
		return false
	}
	overlap := 0.5 * (dist - a.Radius - b.Radius)
	n := a.Pos.Sub(b.Pos).Mul(1 / dist)
	a.Pos = a.Pos.Sub(n.Mul(overlap))
	b.Pos = b.Pos.Add(n.Mul(overlap))
	return true
}

// SeparateFromContact moves the body the full penetration depth away from
// an obstacle contact; the obstacle stays put.
func SeparateFromContact(b *Body, c *Contact, dist float64) bool {
	if dist <= MinSeparation {
		return false
	}
	overlap := dist - b.Radius - c.Radius
	n := b.Pos.Sub(c.Pos).Mul(1 / dist)
	b.Pos = b.Pos.Sub(n.Mul(overlap))
	return true
}

// Exchange applies a perfectly elastic, frictionless collision between two
// masses. Velocities are split into components along the center line and
// perpendicular to it; only the former is exchanged. ok is false when the
// centers coincide, in which case v1 and v2 are returned unchanged.
func Exchange(p1, v1 mgl64.Vec2, m1 float64, p2, v2 mgl64.Vec2, m2 float64) (mgl64.Vec2, mgl64.Vec2, bool) {
	d := p2.Sub(p1)
	dist := d.Len()
	if dist <= MinSeparation {
		return v1, v2, false
	}
	n := d.Mul(1 / dist)
	t := mgl64.Vec2{-n[1], n[0]}

	tan1, tan2 := v1.Dot(t), v2.Dot(t)
	norm1, norm2 := v1.Dot(n), v2.Dot(n)

	sum := m1 + m2
	u1 := (norm1*(m1-m2) + 2*m2*norm2) / sum
	u2 := (norm2*(m2-m1) + 2*m1*norm1) / sum

	return t.Mul(tan1).Add(n.Mul(u1)), t.Mul(tan2).Add(n.Mul(u2)), true
}

// Bounce exchanges normal momentum between two bodies.
func Bounce(a, b *Body) bool {
	va, vb, ok := Exchange(a.Pos, a.Vel, a.Mass, b.Pos, b.Vel, b.Mass)
	if ok {
		a.Vel, b.Vel = va, vb
	}
	return ok
}

// BounceContact reflects a body off an obstacle contact. The contact's
// velocity is updated too, but nothing reads it afterwards.
func BounceContact(b *Body, c *Contact) bool {
	vb, vc, ok := Exchange(b.Pos, b.Vel, b.Mass, c.Pos, c.Vel, c.Mass)
	if ok {
		b.Vel, c.Vel = vb, vc
	}
	return ok
}

// Consume charges the body for moving distance during this substep, at its
// current speed. A body blocked by collisions covers less ground than its
// speed implies and keeps the unspent time. A body at rest that did not
// move has nothing left to simulate.
func (b *Body) Consume(distance float64) {
	speed := b.Speed()
	if speed <= minSpeed {
		if distance <= MinSeparation {
			b.Remaining = 0
		}
		return
	}
	b.Remaining -= distance / speed
	if b.Remaining < minBudget {
		b.Remaining = 0
	}
}
