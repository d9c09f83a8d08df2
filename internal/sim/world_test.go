package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballpit/internal/physics"
)

const tol = 1e-9

type pairRecorder struct {
	calls  int
	counts []int
	kinds  []physics.PairKind
}

func (r *pairRecorder) OnSubstep(update, step int, pairs []physics.Pair) {
	r.calls++
	r.counts = append(r.counts, len(pairs))
	for _, p := range pairs {
		r.kinds = append(r.kinds, p.Kind)
	}
}

func (r *pairRecorder) total() int {
	n := 0
	for _, c := range r.counts {
		n += c
	}
	return n
}

// pairGuard wraps an integrator and records the size of the world's pair
// list at the start of every integration.
type pairGuard struct {
	world *World
	inner Integrator
	seen  []int
}

func (g *pairGuard) Step(b *physics.Body, dt float64) {
	g.seen = append(g.seen, len(g.world.pairs))
	g.inner.Step(b, dt)
}

// budgetRecorder keeps the remaining budget of each body after every
// substep of the first update.
type budgetRecorder struct {
	world *World
	steps [][]float64
}

func (r *budgetRecorder) OnSubstep(update, step int, pairs []physics.Pair) {
	if update != 0 {
		return
	}
	left := make([]float64, r.world.bodies.Len())
	for i := range left {
		left[i] = r.world.bodies.At(i).Remaining
	}
	r.steps = append(r.steps, left)
}

func mustBody(w *World, id physics.BodyID) physics.Body {
	b, err := w.Body(id)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func totalMomentum(w *World) mgl64.Vec2 {
	var p mgl64.Vec2
	for _, b := range w.Bodies() {
		p = p.Add(b.Momentum())
	}
	return p
}

var _ = Describe("World", func() {
	var (
		params Params
		world  *World
	)

	BeforeEach(func() {
		params = quietParams()
	})

	JustBeforeEach(func() {
		var err error
		world, err = NewWorld(params)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("body collisions", func() {
		It("swaps velocities of equal masses meeting head-on", func() {
			a := world.Spawn(100, 100, 5)
			b := world.Spawn(109, 100, 5)
			Expect(world.SetVelocity(a, 10, 0)).To(Succeed())
			Expect(world.SetVelocity(b, -10, 0)).To(Succeed())

			world.Advance(0.01)

			Expect(mustBody(world, a).Vel[0]).To(BeNumerically("~", -10, tol))
			Expect(mustBody(world, b).Vel[0]).To(BeNumerically("~", 10, tol))
			Expect(mustBody(world, a).Vel[1]).To(BeNumerically("~", 0, tol))
			Expect(world.Collisions()).To(HaveLen(1))
		})

		It("leaves no penetration between a resolved pair", func() {
			a := world.Spawn(100, 100, 8)
			b := world.Spawn(104, 103, 6)

			world.Advance(1.0 / 60)

			ba, bb := mustBody(world, a), mustBody(world, b)
			dist := ba.Pos.Sub(bb.Pos).Len()
			Expect(dist).To(BeNumerically(">=", ba.Radius+bb.Radius-tol))
		})

		It("conserves momentum through an oblique collision", func() {
			a := world.Spawn(100, 100, 10)
			b := world.Spawn(118, 106, 4)
			Expect(world.SetVelocity(a, 30, 5)).To(Succeed())
			Expect(world.SetVelocity(b, -20, 12)).To(Succeed())
			before := totalMomentum(world)

			for i := 0; i < 30; i++ {
				world.Advance(1.0 / 60)
			}

			after := totalMomentum(world)
			Expect(after[0]).To(BeNumerically("~", before[0], 1e-6))
			Expect(after[1]).To(BeNumerically("~", before[1], 1e-6))
		})

		It("does not move or exchange bodies with coincident centers", func() {
			a := world.Spawn(50, 50, 5)
			b := world.Spawn(50, 50, 5)

			world.Advance(1.0 / 60)

			Expect(mustBody(world, a).Pos).To(Equal(mgl64.Vec2{50, 50}))
			Expect(mustBody(world, b).Pos).To(Equal(mgl64.Vec2{50, 50}))
			Expect(world.Collisions()).NotTo(BeEmpty())
		})
	})

	Describe("obstacle collisions", func() {
		It("reflects a body off a horizontal segment at the same speed", func() {
			world.AddObstacle(0, 150, 320, 150, 2)
			id := world.Spawn(160, 140, 5)
			Expect(world.SetVelocity(id, 0, 50)).To(Succeed())

			bounced := false
			for i := 0; i < 60 && !bounced; i++ {
				world.Advance(1.0 / 60)
				bounced = mustBody(world, id).Vel[1] < 0
			}

			Expect(bounced).To(BeTrue())
			b := mustBody(world, id)
			Expect(b.Vel[1]).To(BeNumerically("~", -50, tol))
			Expect(b.Vel[0]).To(BeNumerically("~", 0, tol))
			Expect(b.Pos[1]).To(BeNumerically("<=", 143+tol))
		})

		It("records the obstacle that was hit", func() {
			world.AddObstacle(0, 10, 0, 200, 3)
			obs := world.AddObstacle(100, 100, 200, 100, 4)
			world.Spawn(150, 105, 5)

			world.Advance(1.0 / 60)

			cs := world.Collisions()
			Expect(cs).NotTo(BeEmpty())
			Expect(cs[0].Kind).To(Equal(physics.ObstaclePair))
			Expect(cs[0].Obstacle).To(Equal(obs))
			Expect(cs[0].To[1]).To(BeNumerically("~", 100, tol))
		})
	})

	Describe("drag", func() {
		BeforeEach(func() {
			params.Drag = DefaultParams().Drag
			params.SnapSpeedSq = DefaultParams().SnapSpeedSq
		})

		It("slows a lone body monotonically until it snaps to rest", func() {
			id := world.Spawn(100, 100, 5)
			Expect(world.SetVelocity(id, 30, 0)).To(Succeed())

			last := 30.0
			for i := 0; i < 1000; i++ {
				world.Advance(1.0 / 60)
				speed := mustBody(world, id).Speed()
				Expect(speed).To(BeNumerically("<=", last))
				last = speed
			}

			Expect(mustBody(world, id).Vel).To(Equal(mgl64.Vec2{}))
		})
	})

	Describe("wraparound", func() {
		It("carries a body leaving the right edge to the left edge", func() {
			id := world.Spawn(318, 100, 5)
			Expect(world.SetVelocity(id, 100, 0)).To(Succeed())

			world.Advance(0.1)

			Expect(mustBody(world, id).Pos[0]).To(BeNumerically("~", 8, tol))
		})

		Context("under gravity", func() {
			BeforeEach(func() {
				params.Gravity = DefaultParams().Gravity
			})

			It("keeps every body inside the world", func() {
				for i := 0; i < 10; i++ {
					world.Spawn(float64(i)*31, 235, 3)
				}

				for i := 0; i < 120; i++ {
					world.Advance(1.0 / 60)
				}

				for _, b := range world.Bodies() {
					Expect(b.Pos[0]).To(And(BeNumerically(">=", 0), BeNumerically("<", params.Width)))
					Expect(b.Pos[1]).To(And(BeNumerically(">=", 0), BeNumerically("<", params.Height)))
				}
			})
		})
	})

	Describe("scheduling", func() {
		It("runs updates times substeps per frame by default", func() {
			rec := &pairRecorder{}
			world.AddObserver(rec)
			world.Spawn(10, 10, 3)

			world.Advance(1.0 / 60)

			Expect(rec.calls).To(Equal(params.Updates * params.MaxSubsteps))
		})

		Context("with early exit", func() {
			BeforeEach(func() {
				params.EarlyExit = true
			})

			It("stops substepping once budgets are spent", func() {
				rec := &pairRecorder{}
				world.AddObserver(rec)
				world.Spawn(10, 10, 3)

				world.Advance(1.0 / 60)

				Expect(rec.calls).To(Equal(params.Updates))
			})
		})

		It("starts every substep with an empty pair list", func() {
			guard := &pairGuard{world: world, inner: world.integrator}
			world.SetIntegrator(guard)
			a := world.Spawn(100, 100, 5)
			world.Spawn(108, 100, 5)
			Expect(world.SetVelocity(a, 20, 0)).To(Succeed())

			for i := 0; i < 5; i++ {
				world.Advance(1.0 / 60)
			}

			Expect(guard.seen).NotTo(BeEmpty())
			for _, n := range guard.seen {
				Expect(n).To(BeZero())
			}
			Expect(world.pairs).To(BeEmpty())
		})

		It("lets a body blocked by an obstacle keep its budget for a later substep", func() {
			rec := &budgetRecorder{world: world}
			world.AddObserver(rec)
			world.AddObstacle(50, 100, 150, 100, 2)
			blocked := world.Spawn(100, 93, 5)
			free := world.Spawn(250, 30, 5)
			Expect(world.SetVelocity(blocked, 0, 60)).To(Succeed())
			Expect(world.SetVelocity(free, 0, 60)).To(Succeed())

			world.Advance(0.04)

			slice := 0.04 / float64(params.Updates)
			Expect(rec.steps).To(HaveLen(params.MaxSubsteps))
			Expect(rec.steps[0][blocked]).To(BeNumerically(">", 0.9*slice))
			Expect(rec.steps[0][free]).To(BeNumerically("<", 1e-9))
			Expect(rec.steps[1][blocked]).To(BeNumerically("<", 1e-9))
			Expect(mustBody(world, blocked).Vel[1]).To(BeNumerically("~", -60, tol))
		})

		It("advances time and frame count", func() {
			world.Advance(0.5)
			world.Advance(0.25)

			Expect(world.Time()).To(BeNumerically("~", 0.75, tol))
			Expect(world.Frames()).To(Equal(2))
		})
	})

	Describe("detection modes", func() {
		spawnPair := func() *pairRecorder {
			rec := &pairRecorder{}
			world.AddObserver(rec)
			world.Spawn(100, 100, 5)
			world.Spawn(107, 100, 5)
			world.Advance(1.0 / 60)
			return rec
		}

		It("records one pair per overlap in unique mode", func() {
			rec := spawnPair()
			Expect(rec.counts[0]).To(Equal(1))
			Expect(rec.kinds[0]).To(Equal(physics.BodyPair))
		})

		Context("symmetric", func() {
			BeforeEach(func() {
				params.Detection = DetectSymmetric
			})

			It("records the overlap from both bodies", func() {
				rec := spawnPair()
				Expect(rec.counts[0]).To(Equal(2))
				Expect(rec.total()).To(BeNumerically(">=", 2))
			})
		})
	})

	Describe("manipulation", func() {
		It("teleports a body and keeps its velocity", func() {
			id := world.Spawn(10, 10, 3)
			Expect(world.SetVelocity(id, 6, 0)).To(Succeed())
			Expect(world.SetPosition(id, 200, 100)).To(Succeed())

			world.Advance(0.5)

			b := mustBody(world, id)
			Expect(b.Pos[0]).To(BeNumerically("~", 203, tol))
			Expect(b.Pos[1]).To(BeNumerically("~", 100, tol))
		})

		It("lets obstacle endpoints move while physics leaves them alone", func() {
			obs := world.AddObstacle(30, 30, 100, 30, 10)
			world.Spawn(60, 35, 4)
			Expect(world.MoveObstacleEnd(obs, physics.StartEnd, 20, 40)).To(Succeed())

			world.Advance(1.0 / 60)

			o, err := world.Obstacle(obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(o.Start).To(Equal(mgl64.Vec2{20, 40}))
			Expect(o.End).To(Equal(mgl64.Vec2{100, 30}))
		})
	})

	It("ignores non-finite elapsed times", func() {
		world.Advance(math.NaN())
		Expect(world.Frames()).To(BeZero())
	})
})
