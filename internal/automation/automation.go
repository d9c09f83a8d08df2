package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
	"github.com/san-kum/ballpit/internal/storage"
)

// ErrInvalidScenario is returned for scenarios that name an unknown
// preset, action type or parameter.
var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a scene, how long to run it, and the actions
// to perform along the way.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Duration float64            `yaml:"duration"`
	FrameDt  float64            `yaml:"frame_dt"`
	Params   map[string]float64 `yaml:"params"`
	Actions  []Action           `yaml:"actions"`
	Metrics  []string           `yaml:"metrics"`
	SaveAs   string             `yaml:"save_as"`
}

// Action is applied before the first frame that starts at or after At.
type Action struct {
	At       float64 `yaml:"at"`
	Type     string  `yaml:"type"` // spawn, throw, place, move_obstacle
	Body     int     `yaml:"body"`
	Obstacle int     `yaml:"obstacle"`
	End      string  `yaml:"end"` // start or end
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Radius   float64 `yaml:"radius"`
	VX       float64 `yaml:"vx"`
	VY       float64 `yaml:"vy"`
}

// Options carries the collaborators a scenario run may use. Zero values
// disable logging and saving.
type Options struct {
	Logger *log.Logger
	Store  *storage.Store
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// StepConfig resolves the scene of a step: a config file, else a preset,
// else the default scene, with Params applied on top.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Config != "":
		c, err := config.Load(step.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	case step.Preset != "":
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidScenario, step.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if step.Duration > 0 {
		cfg.Run.Duration = step.Duration
	}
	if step.FrameDt > 0 {
		cfg.Run.FrameDt = step.FrameDt
	}

	names := make([]string, 0, len(step.Params))
	for k := range step.Params {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := SetParam(cfg, k, step.Params[k]); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, opts Options) ([]*sim.Result, error) {
	logger := opts.logger()
	results := make([]*sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("running step", "step", fmt.Sprintf("%d/%d", i+1, len(scenario.Steps)), "preset", step.Preset)

		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		w, err := cfg.Build()
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		runner := sim.NewRunner(w)
		ms, err := metrics.ByName(step.Metrics...)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		for _, m := range ms {
			runner.AddMetric(m)
		}

		sched, err := newSchedule(step.Actions, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		runner.BeforeFrame(sched.hook)

		result, err := runner.Run(ctx, cfg.RunParams())
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		if pending := sched.pending(); pending > 0 {
			logger.Warn("actions never reached", "step", i+1, "count", pending)
		}

		if step.SaveAs != "" && opts.Store != nil {
			info := storage.RunInfo{
				Scene:  step.SaveAs,
				Seed:   cfg.Scene.Random.Seed,
				Params: cfg.Params(),
				Run:    cfg.RunParams(),
			}
			id, err := opts.Store.Save(info, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			logger.Info("saved", "step", i+1, "id", id)
		}

		results = append(results, result)
	}

	return results, nil
}

// schedule hands out actions in time order as frames start.
type schedule struct {
	actions []Action
	next    int
	logger  *log.Logger
}

func newSchedule(actions []Action, logger *log.Logger) (*schedule, error) {
	sorted := append([]Action(nil), actions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	for _, a := range sorted {
		switch a.Type {
		case "spawn":
			if a.Radius <= 0 {
				return nil, fmt.Errorf("%w: spawn at t=%g needs a positive radius", ErrInvalidScenario, a.At)
			}
		case "throw", "place":
		case "move_obstacle":
			if _, err := parseEnd(a.End); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidScenario, a.Type)
		}
	}
	return &schedule{actions: sorted, logger: logger}, nil
}

// timeEps absorbs the rounding in accumulated frame times.
const timeEps = 1e-9

func (s *schedule) hook(w *sim.World, frame int, t float64) error {
	for s.next < len(s.actions) && s.actions[s.next].At <= t+timeEps {
		a := s.actions[s.next]
		s.next++
		if err := apply(w, a); err != nil {
			return fmt.Errorf("action %s at t=%g: %w", a.Type, a.At, err)
		}
		s.logger.Debug("applied action", "type", a.Type, "frame", frame, "t", t)
	}
	return nil
}

func (s *schedule) pending() int { return len(s.actions) - s.next }

func apply(w *sim.World, a Action) error {
	id := physics.BodyID(a.Body)
	switch a.Type {
	case "spawn":
		id = w.Spawn(a.X, a.Y, a.Radius)
		if a.VX != 0 || a.VY != 0 {
			return w.SetVelocity(id, a.VX, a.VY)
		}
		return nil
	case "throw":
		return w.SetVelocity(id, a.VX, a.VY)
	case "place":
		return w.SetPosition(id, a.X, a.Y)
	case "move_obstacle":
		end, err := parseEnd(a.End)
		if err != nil {
			return err
		}
		return w.MoveObstacleEnd(physics.ObstacleID(a.Obstacle), end, a.X, a.Y)
	}
	return fmt.Errorf("%w: unknown action %q", ErrInvalidScenario, a.Type)
}

func parseEnd(s string) (physics.End, error) {
	switch s {
	case "start", "":
		return physics.StartEnd, nil
	case "end":
		return physics.FinishEnd, nil
	}
	return 0, fmt.Errorf("%w: obstacle end %q", ErrInvalidScenario, s)
}

// SetParam sets one tunable by its YAML name.
func SetParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "drag":
		cfg.Physics.Drag = v
	case "gravity":
		cfg.Physics.Gravity = v
	case "snap_speed_sq":
		cfg.Physics.SnapSpeedSq = v
	case "updates":
		cfg.Physics.Updates = int(v)
	case "substeps":
		cfg.Physics.Substeps = int(v)
	case "mass_per_radius":
		cfg.Physics.MassPerRadius = v
	case "random_count":
		cfg.Scene.Random.Count = int(v)
	case "random_radius":
		cfg.Scene.Random.Radius = v
	default:
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidScenario, name)
	}
	return nil
}

// ParameterSweep runs a scene across a range of one parameter's values
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Metrics   []string
}

// SweepResult holds the metrics of one sweep point
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Collisions int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, opts Options) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", ErrInvalidScenario)
	}
	logger := opts.logger()
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := SetParam(cfg, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		w, err := cfg.Build()
		if err != nil {
			return nil, err
		}

		runner := sim.NewRunner(w)
		ms, err := metrics.ByName(sweep.Metrics...)
		if err != nil {
			return nil, err
		}
		for _, m := range ms {
			runner.AddMetric(m)
		}

		result, err := runner.Run(ctx, sim.RunConfig{FrameDt: cfg.Run.FrameDt, Duration: cfg.Run.Duration})
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Collisions: result.Collisions,
		})

		logger.Info("sweep", "point", fmt.Sprintf("%d/%d", i+1, sweep.NumSteps), sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloResult holds the outcome of one seeded trial
type MonteCarloResult struct {
	Seed    int64
	Metrics map[string]float64
	Stable  bool // no body exceeded the speed limit
}

// RunMonteCarlo runs the scene over consecutive scatter seeds in parallel
// and flags the trials in which a body ever exceeded speedLimit.
func RunMonteCarlo(ctx context.Context, base *config.Config, trials int, seedStart int64, speedLimit float64) ([]MonteCarloResult, error) {
	factory := func() []sim.Metric {
		return []sim.Metric{metrics.NewStability(speedLimit), metrics.NewKineticEnergy()}
	}

	ens := sim.NewEnsemble(base.Factory(), factory, trials, seedStart)
	runs, err := ens.Run(ctx, sim.RunConfig{FrameDt: base.Run.FrameDt, Duration: base.Run.Duration})
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			Seed:    seedStart + int64(i),
			Metrics: r.Metrics,
			Stable:  r.Metrics["stability"] == 1,
		}
	}
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
