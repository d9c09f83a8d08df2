package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/ballpit/internal/sim"
)

// DefaultSpeedLimit is the Stability threshold used by ByName.
const DefaultSpeedLimit = 2000.0

var registry = map[string]func() sim.Metric{
	"kinetic_energy": func() sim.Metric { return NewKineticEnergy() },
	"energy_drift":   func() sim.Metric { return NewEnergyDrift() },
	"momentum":       func() sim.Metric { return NewMomentum() },
	"contact_rate":   func() sim.Metric { return NewContactRate() },
	"stability":      func() sim.Metric { return NewStability(DefaultSpeedLimit) },
}

// ByName builds fresh metric instances for the given names.
func ByName(names ...string) ([]sim.Metric, error) {
	out := make([]sim.Metric, 0, len(names))
	for _, n := range names {
		mk, ok := registry[n]
		if !ok {
			return nil, fmt.Errorf("metrics: unknown metric %q", n)
		}
		out = append(out, mk())
	}
	return out, nil
}

// All returns one fresh instance of every metric, sorted by name.
func All() []sim.Metric {
	ms, _ := ByName(Names()...)
	return ms
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
