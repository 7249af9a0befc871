package experiment

import (
	"errors"
	"fmt"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/metrics"
	"github.com/san-kum/physlab/internal/physics"
)

// Result bundles a trajectory with its derived series. Relative is nil
// and Drift is zero when the initial energy is zero; Drift is the
// energy_drift entry of Metrics. Truncated marks a run that hit its step
// budget before the configured duration.
type Result struct {
	Integrator string
	Oscillator *physics.Harmonic
	Trajectory *dynamo.Trajectory
	Energy     []float64
	Relative   []float64
	Drift      float64
	Metrics    map[string]float64
	Truncated  bool
}

type Experiment struct {
	cfg        *config.Config
	registry   *Registry
	oscillator *physics.Harmonic
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	return &Experiment{cfg: cfg, registry: registry}
}

// Setup validates the configuration and resolves the integrator by name.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	e.oscillator = e.cfg.Harmonic()
	e.integrator = integ
	e.metrics = e.registry.DefaultMetrics(e.oscillator)
	return nil
}

// Run integrates the oscillator. On ErrStepBudget the partial result is
// returned together with the error.
func (e *Experiment) Run() (*Result, error) {
	if e.integrator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	tr, runErr := e.integrator.Integrate(e.oscillator, e.cfg.InitialPosition, e.cfg.InitialVelocity, e.cfg.Dynamo())
	if tr == nil {
		return nil, runErr
	}

	res := &Result{
		Integrator: e.cfg.Integrator,
		Oscillator: e.oscillator,
		Trajectory: tr,
		Metrics:    make(map[string]float64, len(e.metrics)),
		Truncated:  errors.Is(runErr, dynamo.ErrStepBudget),
	}

	energy, err := metrics.Energy(e.oscillator.Mass, e.oscillator.K, tr.Positions, tr.Velocities)
	if err != nil {
		return nil, err
	}
	res.Energy = energy
	res.Relative, err = metrics.Relative(energy)
	if err != nil && !errors.Is(err, dynamo.ErrZeroEnergy) {
		return nil, err
	}

	for _, m := range e.metrics {
		m.Reset()
		for i := range tr.Times {
			m.Observe(tr.Times[i], tr.Positions[i], tr.Velocities[i])
		}
		res.Metrics[m.Name()] = m.Value()
	}
	res.Drift = res.Metrics[metrics.EnergyDriftName]

	return res, runErr
}

// Compare runs the same configuration through every named integrator. A
// run that exhausts its step budget is kept with Truncated set.
func Compare(cfg *config.Config, registry *Registry, names []string) ([]*Result, error) {
	results := make([]*Result, 0, len(names))
	for _, name := range names {
		c := *cfg
		c.Integrator = name
		exp := New(&c, registry)
		if err := exp.Setup(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		res, err := exp.Run()
		if err != nil && !(res != nil && res.Truncated) {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		results = append(results, res)
	}
	return results, nil
}
