package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballpit/internal/sim"
)

const (
	DefaultFrameDt     = 1.0 / 60
	DefaultDuration    = 10.0
	DefaultSampleEvery = 1

	DefaultBigRadius    = 20.0
	DefaultRandomCount  = 40
	DefaultRandomRadius = 4.0
	DefaultThickness    = 10.0
)

// ErrInvalid is returned by Validate and wraps the first problem found.
var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	World   WorldConfig   `yaml:"world"`
	Physics PhysicsConfig `yaml:"physics"`
	Scene   SceneConfig   `yaml:"scene"`
	Run     RunConfig     `yaml:"run"`
}

type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PhysicsConfig struct {
	Drag          float64 `yaml:"drag"`
	Gravity       float64 `yaml:"gravity"`
	SnapSpeedSq   float64 `yaml:"snap_speed_sq"`
	Updates       int     `yaml:"updates"`
	Substeps      int     `yaml:"substeps"`
	MassPerRadius float64 `yaml:"mass_per_radius"`
	Detection     string  `yaml:"detection"`
	EarlyExit     bool    `yaml:"early_exit"`
}

type SceneConfig struct {
	Bodies    []BodyConfig     `yaml:"bodies"`
	Random    RandomConfig     `yaml:"random"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
}

type BodyConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
}

// RandomConfig scatters Count bodies at integer positions across the world.
type RandomConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
	Seed   int64   `yaml:"seed"`
}

type ObstacleConfig struct {
	SX        float64 `yaml:"sx"`
	SY        float64 `yaml:"sy"`
	EX        float64 `yaml:"ex"`
	EY        float64 `yaml:"ey"`
	Thickness float64 `yaml:"thickness"`
}

type RunConfig struct {
	FrameDt     float64 `yaml:"frame_dt"`
	Duration    float64 `yaml:"duration"`
	SampleEvery int     `yaml:"sample_every"`
}

// DefaultConfig returns the classic scene: one large ball, a scatter of
// small ones and four thick shelves in the top-left corner.
func DefaultConfig() *Config {
	p := sim.DefaultParams()
	return &Config{
		World: WorldConfig{Width: p.Width, Height: p.Height},
		Physics: PhysicsConfig{
			Drag:          p.Drag,
			Gravity:       p.Gravity,
			SnapSpeedSq:   p.SnapSpeedSq,
			Updates:       p.Updates,
			Substeps:      p.MaxSubsteps,
			MassPerRadius: p.MassPerRadius,
			Detection:     string(p.Detection),
			EarlyExit:     p.EarlyExit,
		},
		Scene: SceneConfig{
			Bodies: []BodyConfig{
				{X: p.Width * 0.75, Y: p.Height * 0.5, Radius: DefaultBigRadius},
			},
			Random: RandomConfig{Count: DefaultRandomCount, Radius: DefaultRandomRadius, Seed: 1},
			Obstacles: []ObstacleConfig{
				{SX: 30, SY: 30, EX: 100, EY: 30, Thickness: DefaultThickness},
				{SX: 30, SY: 50, EX: 100, EY: 50, Thickness: DefaultThickness},
				{SX: 30, SY: 70, EX: 100, EY: 70, Thickness: DefaultThickness},
				{SX: 30, SY: 90, EX: 100, EY: 90, Thickness: DefaultThickness},
			},
		},
		Run: RunConfig{
			FrameDt:     DefaultFrameDt,
			Duration:    DefaultDuration,
			SampleEvery: DefaultSampleEvery,
		},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys
// it changes. Lists in the file replace the default lists.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Scene.Bodies = append([]BodyConfig(nil), c.Scene.Bodies...)
	out.Scene.Obstacles = append([]ObstacleConfig(nil), c.Scene.Obstacles...)
	return &out
}

func (c *Config) Params() sim.Params {
	return sim.Params{
		Width:         c.World.Width,
		Height:        c.World.Height,
		Drag:          c.Physics.Drag,
		Gravity:       c.Physics.Gravity,
		SnapSpeedSq:   c.Physics.SnapSpeedSq,
		Updates:       c.Physics.Updates,
		MaxSubsteps:   c.Physics.Substeps,
		MassPerRadius: c.Physics.MassPerRadius,
		Detection:     sim.Detection(c.Physics.Detection),
		EarlyExit:     c.Physics.EarlyExit,
	}
}

func (c *Config) RunParams() sim.RunConfig {
	return sim.RunConfig{
		FrameDt:     c.Run.FrameDt,
		Duration:    c.Run.Duration,
		SampleEvery: c.Run.SampleEvery,
	}
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for i, b := range c.Scene.Bodies {
		if b.Radius <= 0 {
			return fmt.Errorf("%w: body %d has radius %g", ErrInvalid, i, b.Radius)
		}
	}
	if c.Scene.Random.Count < 0 {
		return fmt.Errorf("%w: random count %d", ErrInvalid, c.Scene.Random.Count)
	}
	if c.Scene.Random.Count > 0 && c.Scene.Random.Radius <= 0 {
		return fmt.Errorf("%w: random radius %g", ErrInvalid, c.Scene.Random.Radius)
	}
	for i, o := range c.Scene.Obstacles {
		if o.Thickness <= 0 {
			return fmt.Errorf("%w: obstacle %d has thickness %g", ErrInvalid, i, o.Thickness)
		}
	}
	if c.Run.FrameDt <= 0 || c.Run.Duration <= 0 || c.Run.SampleEvery < 0 {
		return fmt.Errorf("%w: run frame_dt=%g duration=%g sample_every=%d",
			ErrInvalid, c.Run.FrameDt, c.Run.Duration, c.Run.SampleEvery)
	}
	return nil
}

// Build validates the config and returns a populated world using the
// scene's own seed.
func (c *Config) Build() (*sim.World, error) {
	return c.BuildSeeded(c.Scene.Random.Seed)
}

// BuildSeeded is Build with the random scatter seeded by seed.
func (c *Config) BuildSeeded(seed int64) (*sim.World, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	w, err := sim.NewWorld(c.Params())
	if err != nil {
		return nil, err
	}

	for _, b := range c.Scene.Bodies {
		id := w.Spawn(b.X, b.Y, b.Radius)
		if b.VX != 0 || b.VY != 0 {
			if err := w.SetVelocity(id, b.VX, b.VY); err != nil {
				return nil, err
			}
		}
	}

	rng := rand.New(rand.NewSource(seed))
	width, height := int(c.World.Width), int(c.World.Height)
	for i := 0; i < c.Scene.Random.Count; i++ {
		x := float64(rng.Intn(max(width, 1)))
		y := float64(rng.Intn(max(height, 1)))
		w.Spawn(x, y, c.Scene.Random.Radius)
	}

	for _, o := range c.Scene.Obstacles {
		w.AddObstacle(o.SX, o.SY, o.EX, o.EY, o.Thickness)
	}
	return w, nil
}

// Factory adapts the config for ensemble runs, one seed per member.
func (c *Config) Factory() sim.Factory {
	return c.BuildSeeded
}
