package config

import "sort"

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"cradle":  cradle(),
	"rain":    rain(),
	"pinball": pinball(),
}

// cradle lines up equal balls on a frictionless, weightless table and
// fires one more into the row.
func cradle() *Config {
	c := DefaultConfig()
	c.Physics.Drag = 0
	c.Physics.Gravity = 0
	c.Scene.Random = RandomConfig{}
	c.Scene.Obstacles = nil
	c.Scene.Bodies = []BodyConfig{{X: 40, Y: 120, Radius: 10, VX: 80}}
	for i := 0; i < 5; i++ {
		c.Scene.Bodies = append(c.Scene.Bodies, BodyConfig{X: 120 + float64(i)*20, Y: 120, Radius: 10})
	}
	return c
}

func rain() *Config {
	c := DefaultConfig()
	c.Physics.Drag = 0.2
	c.Scene.Bodies = nil
	c.Scene.Random = RandomConfig{Count: 120, Radius: 3, Seed: 7}
	c.Scene.Obstacles = []ObstacleConfig{
		{SX: 40, SY: 80, EX: 140, EY: 120, Thickness: 4},
		{SX: 180, SY: 140, EX: 280, EY: 100, Thickness: 4},
		{SX: 100, SY: 200, EX: 220, EY: 200, Thickness: 4},
	}
	c.Run.Duration = 20
	return c
}

// pinball funnels balls past three round bumpers; a zero-length obstacle
// behaves as a circle.
func pinball() *Config {
	c := DefaultConfig()
	c.Physics.Drag = 0.1
	c.Scene.Bodies = []BodyConfig{{X: 160, Y: 10, Radius: 6, VX: 30}}
	c.Scene.Random = RandomConfig{Count: 10, Radius: 4, Seed: 3}
	c.Scene.Obstacles = []ObstacleConfig{
		{SX: 20, SY: 60, EX: 150, EY: 150, Thickness: 6},
		{SX: 300, SY: 60, EX: 170, EY: 150, Thickness: 6},
		{SX: 100, SY: 60, EX: 100, EY: 60, Thickness: 10},
		{SX: 160, SY: 40, EX: 160, EY: 40, Thickness: 10},
		{SX: 220, SY: 60, EX: 220, EY: 60, Thickness: 10},
	}
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
