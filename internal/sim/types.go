package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballpit/internal/physics"
)

// Detection selects how body pairs are visited during overlap resolution.
type Detection string

const (
	// DetectUnique visits each unordered pair once (i < j): one
	// displacement and one momentum exchange per overlapping pair.
	DetectUnique Detection = "unique"

	// DetectSymmetric visits every ordered pair, so each overlap is
	// displaced and exchanged from both bodies' perspectives.
	DetectSymmetric Detection = "symmetric"
)

type Integrator interface {
	Step(b *physics.Body, dt float64)
}

// Observer sees the pair list of every substep before it is discarded.
type Observer interface {
	OnSubstep(update, step int, pairs []physics.Pair)
}

// Metric accumulates a scalar over the frames of a run. f.Bodies may be a
// recycled buffer and must not be retained past Observe.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Params struct {
	Width  float64
	Height float64

	Drag        float64
	Gravity     float64
	SnapSpeedSq float64

	Updates     int // simulation updates per frame
	MaxSubsteps int // substeps per update

	MassPerRadius float64
	Detection     Detection
	EarlyExit     bool // stop substepping once every budget is spent
}

func DefaultParams() Params {
	return Params{
		Width:         320,
		Height:        240,
		Drag:          0.8,
		Gravity:       100,
		SnapSpeedSq:   0.01,
		Updates:       4,
		MaxSubsteps:   15,
		MassPerRadius: 10,
		Detection:     DetectUnique,
	}
}

func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: world size %gx%g", ErrInvalidParams, p.Width, p.Height)
	}
	if p.Updates < 1 {
		return fmt.Errorf("%w: updates must be at least 1, got %d", ErrInvalidParams, p.Updates)
	}
	if p.MaxSubsteps < 1 {
		return fmt.Errorf("%w: substeps must be at least 1, got %d", ErrInvalidParams, p.MaxSubsteps)
	}
	if p.MassPerRadius <= 0 {
		return fmt.Errorf("%w: mass per radius must be positive, got %g", ErrInvalidParams, p.MassPerRadius)
	}
	switch p.Detection {
	case DetectUnique, DetectSymmetric:
	default:
		return fmt.Errorf("%w: unknown detection mode %q", ErrInvalidParams, p.Detection)
	}
	return nil
}

// Collision records one detected overlap for debug display. From and To
// are the centers at detection time.
type Collision struct {
	Kind     physics.PairKind
	A        physics.BodyID
	B        physics.BodyID
	Obstacle physics.ObstacleID
	From     mgl64.Vec2
	To       mgl64.Vec2
}

// Frame is the world as seen after one Advance.
type Frame struct {
	Index      int
	Time       float64
	Bodies     []physics.Body
	Collisions int
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Collisions int
}
