package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/integrators"
	"github.com/san-kum/physlab/internal/metrics"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["varstep"] = func() dynamo.Integrator { return integrators.NewVarStep() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics are observed over every run; see the metrics name
// constants for their keys in Result.Metrics.
func (r *Registry) DefaultMetrics(h dynamo.Hamiltonian) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergyDrift(h),
		metrics.NewAmplitude(),
		metrics.NewMinStep(),
	}
}
