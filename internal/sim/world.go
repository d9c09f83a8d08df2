package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballpit/internal/integrators"
	"github.com/san-kum/ballpit/internal/physics"
)

type World struct {
	params     Params
	bodies     *physics.Bodies
	obstacles  *physics.Obstacles
	integrator Integrator
	observers  []Observer

	// pairs is the substep's working list; empty between substeps.
	pairs []physics.Pair
	// collisions accumulates every pair detected during the last Advance.
	collisions []Collision

	time   float64
	frames int
}

func NewWorld(p Params) (*World, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &World{
		params:     p,
		bodies:     physics.NewBodies(64),
		obstacles:  physics.NewObstacles(8),
		integrator: integrators.NewEuler(p.Drag, p.Gravity, p.SnapSpeedSq, p.Width, p.Height),
		pairs:      make([]physics.Pair, 0, 64),
	}, nil
}

func (w *World) Params() Params                { return w.params }
func (w *World) Time() float64                 { return w.time }
func (w *World) Frames() int                   { return w.frames }
func (w *World) SetIntegrator(i Integrator)    { w.integrator = i }
func (w *World) AddObserver(o Observer)        { w.observers = append(w.observers, o) }
func (w *World) Bodies() []physics.Body        { return w.bodies.Snapshot() }
func (w *World) Obstacles() []physics.Obstacle { return w.obstacles.Snapshot() }
func (w *World) NumBodies() int                { return w.bodies.Len() }

// Collisions returns the pairs detected during the last Advance.
func (w *World) Collisions() []Collision {
	out := make([]Collision, len(w.collisions))
	copy(out, w.collisions)
	return out
}

// Spawn adds a resting body and returns its handle. radius must be positive.
func (w *World) Spawn(x, y, radius float64) physics.BodyID {
	return w.bodies.Spawn(mgl64.Vec2{x, y}, radius, w.params.MassPerRadius)
}

func (w *World) AddObstacle(sx, sy, ex, ey, thickness float64) physics.ObstacleID {
	return w.obstacles.Add(mgl64.Vec2{sx, sy}, mgl64.Vec2{ex, ey}, thickness)
}

// Body returns a copy of one body.
func (w *World) Body(id physics.BodyID) (physics.Body, error) {
	b, ok := w.bodies.Get(id)
	if !ok {
		return physics.Body{}, fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	return *b, nil
}

func (w *World) Obstacle(id physics.ObstacleID) (physics.Obstacle, error) {
	o, ok := w.obstacles.Get(id)
	if !ok {
		return physics.Obstacle{}, fmt.Errorf("%w: %d", ErrUnknownObstacle, id)
	}
	return *o, nil
}

// SetPosition teleports a body. Used for drag-to-move.
func (w *World) SetPosition(id physics.BodyID, x, y float64) error {
	b, ok := w.bodies.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	b.Pos = mgl64.Vec2{x, y}
	b.Prev = b.Pos
	return nil
}

// SetVelocity overrides a body's velocity. Used for release-to-throw.
func (w *World) SetVelocity(id physics.BodyID, vx, vy float64) error {
	b, ok := w.bodies.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	b.Vel = mgl64.Vec2{vx, vy}
	return nil
}

func (w *World) MoveObstacleEnd(id physics.ObstacleID, end physics.End, x, y float64) error {
	if !w.obstacles.MoveEnd(id, end, mgl64.Vec2{x, y}) {
		return fmt.Errorf("%w: %d", ErrUnknownObstacle, id)
	}
	return nil
}

// Advance runs one frame: Updates equal updates of up to MaxSubsteps
// substeps each. Non-positive, NaN or infinite elapsed times are ignored.
func (w *World) Advance(elapsed float64) {
	if !(elapsed > 0) || math.IsInf(elapsed, 1) {
		return
	}
	w.collisions = w.collisions[:0]

	slice := elapsed / float64(w.params.Updates)
	for u := 0; u < w.params.Updates; u++ {
		w.bodies.ResetBudget(slice)
		for s := 0; s < w.params.MaxSubsteps; s++ {
			w.substep(u, s)
			if w.params.EarlyExit && !w.pending() {
				break
			}
		}
	}

	w.time += elapsed
	w.frames++
}

func (w *World) substep(update, step int) {
	w.integrate()
	w.separate()
	w.exchange()

	for _, o := range w.observers {
		o.OnSubstep(update, step, w.pairs)
	}
	w.pairs = w.pairs[:0]
}

func (w *World) integrate() {
	for i := 0; i < w.bodies.Len(); i++ {
		b := w.bodies.At(i)
		if b.Remaining <= 0 {
			continue
		}
		b.Prev = b.Pos
		w.integrator.Step(b, b.Remaining)
	}
}

// separate detects overlaps body by body, obstacles first, pushing bodies
// apart as it goes. A body can move several times here when it touches
// several things at once. Only bodies with budget left take part: a body
// tests obstacles while it has budget, and a pair is tested while either
// side has. Right after its own tests, each body with budget is charged for
// the distance it actually covered.
func (w *World) separate() {
	n := w.bodies.Len()
	for i := 0; i < n; i++ {
		b := w.bodies.At(i)
		active := b.Remaining > 0

		for k := 0; active && k < w.obstacles.Len(); k++ {
			o := w.obstacles.At(k)
			c, dist, ok := physics.Touch(b, o)
			if !ok {
				continue
			}
			w.record(physics.Pair{Kind: physics.ObstaclePair, A: b.ID, Contact: c})
			physics.SeparateFromContact(b, &c, dist)
		}

		start := 0
		if w.params.Detection == DetectUnique {
			start = i + 1
		}
		for j := start; j < n; j++ {
			if j == i {
				continue
			}
			target := w.bodies.At(j)
			if !active && target.Remaining <= 0 {
				continue
			}
			dist, ok := physics.Overlap(b, target)
			if !ok {
				continue
			}
			w.record(physics.Pair{Kind: physics.BodyPair, A: b.ID, B: target.ID})
			physics.Separate(b, target, dist)
		}

		if active {
			b.Consume(w.traveled(b))
		}
	}

	for i := 0; i < n; i++ {
		b := w.bodies.At(i)
		b.Pos[0] = integrators.Wrap(b.Pos[0], w.params.Width)
		b.Pos[1] = integrators.Wrap(b.Pos[1], w.params.Height)
	}
}

func (w *World) record(p physics.Pair) {
	w.pairs = append(w.pairs, p)

	a := w.bodies.At(int(p.A))
	c := Collision{Kind: p.Kind, A: p.A, B: p.B, From: a.Pos}
	if p.Kind == physics.ObstaclePair {
		c.Obstacle = p.Contact.Obstacle
		c.To = p.Contact.Pos
	} else {
		c.To = w.bodies.At(int(p.B)).Pos
	}
	w.collisions = append(w.collisions, c)
}

// traveled is the distance from Prev to Pos, measured the short way round
// the torus so a body crossing an edge is not charged for the jump.
func (w *World) traveled(b *physics.Body) float64 {
	dx := integrators.Delta(b.Prev[0], b.Pos[0], w.params.Width)
	dy := integrators.Delta(b.Prev[1], b.Pos[1], w.params.Height)
	return math.Hypot(dx, dy)
}

func (w *World) exchange() {
	for i := range w.pairs {
		p := &w.pairs[i]
		a := w.bodies.At(int(p.A))
		if p.Kind == physics.ObstaclePair {
			physics.BounceContact(a, &p.Contact)
			continue
		}
		physics.Bounce(a, w.bodies.At(int(p.B)))
	}
}

func (w *World) pending() bool {
	for i := 0; i < w.bodies.Len(); i++ {
		if w.bodies.At(i).Remaining > 0 {
			return true
		}
	}
	return false
}
