package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

// Energy returns E[i] = ½·m·v[i]² + ½·k·x[i]² for every sample.
func Energy(m, k float64, x, v []float64) ([]float64, error) {
	if len(x) != len(v) {
		return nil, fmt.Errorf("%w: %d positions, %d velocities", dynamo.ErrDimensionMismatch, len(x), len(v))
	}
	out := make([]float64, len(x))
	for i := range x {
		out[i] = 0.5*m*v[i]*v[i] + 0.5*k*x[i]*x[i]
	}
	return out, nil
}

// Relative returns E[i]/E[0].
func Relative(e []float64) ([]float64, error) {
	if len(e) == 0 {
		return nil, nil
	}
	if e[0] == 0 {
		return nil, dynamo.ErrZeroEnergy
	}
	out := make([]float64, len(e))
	for i, v := range e {
		out[i] = v / e[0]
	}
	return out, nil
}

// MaxDrift returns max |E[i]-E[0]| / |E[0]|.
func MaxDrift(e []float64) (float64, error) {
	if len(e) == 0 {
		return 0, nil
	}
	if e[0] == 0 {
		return 0, dynamo.ErrZeroEnergy
	}
	drift := 0.0
	for _, v := range e {
		drift = math.Max(drift, math.Abs(v-e[0])/math.Abs(e[0]))
	}
	return drift, nil
}

// Names under which the default metrics report.
const (
	EnergyDriftName = "energy_drift"
	AmplitudeName   = "amplitude"
	MinStepName     = "min_step"
)

// EnergyDrift accumulates max |E-E0|/|E0| sample by sample. It stays zero
// when E0 is zero.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	h             dynamo.Hamiltonian
}

func NewEnergyDrift(h dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: EnergyDriftName,
		h:    h,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(t, x, v float64) {
	energy := e.h.Energy(x, v)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
