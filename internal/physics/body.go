package physics

import "github.com/go-gl/mathgl/mgl64"

// BodyID is the stable identity of a body. It doubles as the index into
// the owning [Bodies] store.
type BodyID int

// Body is one movable circular mass.
type Body struct {
	ID BodyID

	Pos  mgl64.Vec2
	Vel  mgl64.Vec2
	Acc  mgl64.Vec2
	Prev mgl64.Vec2 // position before the current substep

	Radius float64
	Mass   float64

	// Remaining is the unspent part of the current update's time slice.
	Remaining float64
}

// Speed returns |v|.
func (b Body) Speed() float64 {
	return b.Vel.Len()
}

// KineticEnergy returns 0.5*m*|v|^2.
func (b Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Vel.Dot(b.Vel)
}

// Momentum returns m*v.
func (b Body) Momentum() mgl64.Vec2 {
	return b.Vel.Mul(b.Mass)
}

// Contains reports whether p lies strictly inside the body's circle.
func (b Body) Contains(p mgl64.Vec2) bool {
	d := p.Sub(b.Pos)
	return d.Dot(d) < b.Radius*b.Radius
}

// Bodies owns the mutable state of every body in a world. Entries are never
// removed, so a BodyID handed out once stays valid for the store's lifetime.
type Bodies struct {
	items []Body
}

func NewBodies(capacity int) *Bodies {
	return &Bodies{items: make([]Body, 0, capacity)}
}

// Spawn appends a resting body at pos. Mass is massPerRadius*radius.
// radius must be positive; the store does not check it.
func (s *Bodies) Spawn(pos mgl64.Vec2, radius, massPerRadius float64) BodyID {
	id := BodyID(len(s.items))
	s.items = append(s.items, Body{
		ID:     id,
		Pos:    pos,
		Prev:   pos,
		Radius: radius,
		Mass:   radius * massPerRadius,
	})
	return id
}

// Get returns a pointer into the store. The pointer is invalidated by the
// next Spawn.
func (s *Bodies) Get(id BodyID) (*Body, bool) {
	if id < 0 || int(id) >= len(s.items) {
		return nil, false
	}
	return &s.items[id], true
}

// At returns the i-th body without bounds translation.
func (s *Bodies) At(i int) *Body { return &s.items[i] }

func (s *Bodies) Len() int { return len(s.items) }

// Snapshot copies every body for readers outside the simulation loop.
func (s *Bodies) Snapshot() []Body {
	out := make([]Body, len(s.items))
	copy(out, s.items)
	return out
}

// ResetBudget sets every body's remaining time to slice.
func (s *Bodies) ResetBudget(slice float64) {
	for i := range s.items {
		s.items[i].Remaining = slice
	}
}
