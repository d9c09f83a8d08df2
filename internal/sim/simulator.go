package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/ballpit/internal/physics"
)

// RunConfig drives a batch run at a fixed frame rate.
type RunConfig struct {
	FrameDt     float64
	Duration    float64
	SampleEvery int // keep every n-th frame in the result; 0 keeps none
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		FrameDt:     1.0 / 60,
		Duration:    10.0,
		SampleEvery: 1,
	}
}

// Hook runs before a frame is advanced. Returning an error stops the run.
type Hook func(w *World, frame int, t float64) error

// Runner advances a world for a fixed duration, feeding metrics and
// sampling frames.
type Runner struct {
	world   *World
	metrics []Metric
	hooks   []Hook
	pool    *SnapshotPool
}

func NewRunner(w *World) *Runner {
	return &Runner{
		world:   w,
		metrics: make([]Metric, 0),
		hooks:   make([]Hook, 0),
	}
}

func (r *Runner) AddMetric(m Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) BeforeFrame(h Hook) { r.hooks = append(r.hooks, h) }
func (r *Runner) World() *World      { return r.world }

func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRun(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.FrameDt))
	result := &Result{
		Frames:  make([]Frame, 0, sampledFrames(steps, cfg.SampleEvery)),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	w := r.world
	if r.pool == nil || r.pool.size != w.NumBodies() {
		r.pool = NewSnapshotPool(w.NumBodies())
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, h := range r.hooks {
			if err := h(w, i, w.Time()); err != nil {
				return result, &RunError{Frame: i, Time: w.Time(), Wrapped: err}
			}
		}

		w.Advance(cfg.FrameDt)
		result.StepsTaken++

		keep := cfg.SampleEvery > 0 && i%cfg.SampleEvery == 0
		frame := Frame{Index: i, Time: w.Time(), Collisions: len(w.collisions)}
		if keep {
			frame.Bodies = w.Bodies()
		} else {
			frame.Bodies = r.snapshot()
		}
		result.Collisions += frame.Collisions

		if !validBodies(frame.Bodies) {
			if !keep {
				r.pool.Put(frame.Bodies)
			}
			return result, &RunError{Frame: i, Time: frame.Time, Wrapped: ErrUnstable}
		}

		for _, m := range r.metrics {
			m.Observe(frame)
		}

		if keep {
			result.Frames = append(result.Frames, frame)
		} else {
			r.pool.Put(frame.Bodies)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// snapshot copies the bodies into a pooled buffer; the pool is rebuilt if
// the population grew since the last frame.
func (r *Runner) snapshot() []physics.Body {
	if r.pool.size != r.world.NumBodies() {
		r.pool = NewSnapshotPool(r.world.NumBodies())
	}
	return r.pool.Fill(r.world.bodies)
}

func validateRun(cfg RunConfig) error {
	if cfg.FrameDt <= 0 {
		return fmt.Errorf("%w: frame dt must be positive, got %f", ErrInvalidRun, cfg.FrameDt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidRun, cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidRun, cfg.SampleEvery)
	}
	return nil
}

func sampledFrames(steps, every int) int {
	if every <= 0 {
		return 0
	}
	return (steps + every - 1) / every
}

func validBodies(bodies []physics.Body) bool {
	for i := range bodies {
		b := &bodies[i]
		for _, v := range [4]float64{b.Pos[0], b.Pos[1], b.Vel[0], b.Vel[1]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
