package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/storage"
)

const cradleScenario = `
name: cradle-poke
description: knock the cradle then drop a ball into it
steps:
  - preset: cradle
    duration: 1
    metrics: [momentum, contact_rate]
    actions:
      - at: 0.5
        type: spawn
        x: 160
        y: 60
        radius: 5
        vy: 40
      - at: 0
        type: place
        body: 0
        x: 50
        y: 120
    save_as: poke
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, cradleScenario))
	if err != nil {
		t.Fatal(err)
	}

	if s.Name != "cradle-poke" || len(s.Steps) != 1 {
		t.Fatalf("unexpected scenario %+v", s)
	}
	step := s.Steps[0]
	if len(step.Actions) != 2 || step.Actions[0].Type != "spawn" || step.Actions[0].VY != 40 {
		t.Errorf("unexpected actions %+v", step.Actions)
	}

	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, cradleScenario))
	if err != nil {
		t.Fatal(err)
	}

	store := storage.New(t.TempDir())
	results, err := RunScenario(context.Background(), s, Options{Store: store})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.StepsTaken != 60 {
		t.Errorf("expected 60 frames, got %d", r.StepsTaken)
	}
	first := r.Frames[0]
	last := r.Frames[len(r.Frames)-1]
	if len(first.Bodies) != 6 {
		t.Errorf("expected 6 bodies before the spawn, got %d", len(first.Bodies))
	}
	if len(last.Bodies) != 7 {
		t.Errorf("expected 7 bodies after the spawn, got %d", len(last.Bodies))
	}
	if _, ok := r.Metrics["momentum"]; !ok {
		t.Errorf("expected momentum metric, got %v", r.Metrics)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Scene != "poke" {
		t.Errorf("expected one saved run named poke, got %+v", runs)
	}
}

func TestRunScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		step ScenarioStep
	}{
		{"unknown preset", ScenarioStep{Preset: "moon"}},
		{"unknown action", ScenarioStep{Duration: 0.1, Actions: []Action{{Type: "explode"}}}},
		{"spawn without radius", ScenarioStep{Duration: 0.1, Actions: []Action{{Type: "spawn"}}}},
		{"bad obstacle end", ScenarioStep{Duration: 0.1, Actions: []Action{{Type: "move_obstacle", End: "middle"}}}},
		{"unknown parameter", ScenarioStep{Duration: 0.1, Params: map[string]float64{"friction": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scenario{Steps: []ScenarioStep{tt.step}}
			_, err := RunScenario(context.Background(), s, Options{})
			if !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("expected ErrInvalidScenario, got %v", err)
			}
		})
	}
}

func TestRunScenario_ActionOnMissingBody(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{{
		Preset:   "cradle",
		Duration: 0.1,
		Actions:  []Action{{Type: "throw", Body: 99, VX: 1}},
	}}}

	if _, err := RunScenario(context.Background(), s, Options{}); err == nil {
		t.Error("expected error when throwing a missing body")
	}
}

func TestMoveObstacleAction(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{{
		Duration: 0.05,
		Actions:  []Action{{Type: "move_obstacle", Obstacle: 2, End: "end", X: 150, Y: 200}},
	}}}

	cfg, err := StepConfig(s.Steps[0])
	if err != nil {
		t.Fatal(err)
	}
	w, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}

	sched, err := newSchedule(s.Steps[0].Actions, Options{}.logger())
	if err != nil {
		t.Fatal(err)
	}
	if err := sched.hook(w, 0, 0); err != nil {
		t.Fatal(err)
	}

	o, err := w.Obstacle(2)
	if err != nil {
		t.Fatal(err)
	}
	if o.End[0] != 150 || o.End[1] != 200 {
		t.Errorf("expected end at (150,200), got %v", o.End)
	}
	if sched.pending() != 0 {
		t.Errorf("expected no pending actions, got %d", sched.pending())
	}
}

func TestStepConfig(t *testing.T) {
	cfg, err := StepConfig(ScenarioStep{
		Preset:   "rain",
		Duration: 2,
		FrameDt:  0.01,
		Params:   map[string]float64{"gravity": 50, "substeps": 8},
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Run.Duration != 2 || cfg.Run.FrameDt != 0.01 {
		t.Errorf("unexpected run config %+v", cfg.Run)
	}
	if cfg.Physics.Gravity != 50 || cfg.Physics.Substeps != 8 {
		t.Errorf("unexpected physics %+v", cfg.Physics)
	}
	if config.GetPreset("rain").Physics.Gravity == 50 {
		t.Error("step params leaked into the preset table")
	}
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("cradle")
	base.Run.Duration = 0.5

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "drag",
		ParamMin:  0,
		ParamMax:  1,
		NumSteps:  3,
		Metrics:   []string{"kinetic_energy"},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 points, got %d", len(results))
	}
	for i, want := range []float64{0, 0.5, 1} {
		if results[i].ParamValue != want {
			t.Errorf("point %d: expected %f, got %f", i, want, results[i].ParamValue)
		}
	}
	if results[2].Metrics["kinetic_energy"] >= results[0].Metrics["kinetic_energy"] {
		t.Errorf("expected drag to lower the mean energy: %f vs %f",
			results[2].Metrics["kinetic_energy"], results[0].Metrics["kinetic_energy"])
	}
	if base.Physics.Drag != 0 {
		t.Error("sweep modified the base config")
	}

	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "drag"}, Options{}); err == nil {
		t.Error("expected error for zero steps")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Run.Duration = 0.25

	results, err := RunMonteCarlo(context.Background(), base, 3, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 trials, got %d", len(results))
	}
	for i, r := range results {
		if r.Seed != int64(10+i) {
			t.Errorf("trial %d: expected seed %d, got %d", i, 10+i, r.Seed)
		}
	}

	stable, unstable := MonteCarloStats(results)
	if stable != 0 || unstable != 3 {
		t.Errorf("expected every trial over a zero speed limit, got %d stable %d unstable", stable, unstable)
	}

	results, err = RunMonteCarlo(context.Background(), base, 2, 1, 1e6)
	if err != nil {
		t.Fatal(err)
	}
	if stable, _ := MonteCarloStats(results); stable != 2 {
		t.Errorf("expected both trials stable, got %d", stable)
	}
}
