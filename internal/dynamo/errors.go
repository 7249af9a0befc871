package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrDegenerateStep marks a refinement whose quadratic had no usable
	// forward root; the step fell back to the nominal timestep.
	ErrDegenerateStep = errors.New("dynamo: no non-negative refined step (nominal step used)")

	// ErrZeroVelocity marks a refinement skipped because the velocity was
	// exactly zero; the step kept the nominal timestep.
	ErrZeroVelocity = errors.New("dynamo: zero velocity during refinement (nominal step used)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrStepBudget indicates the run hit its step budget before reaching
	// the configured duration.
	ErrStepBudget = errors.New("dynamo: step budget exhausted before duration")

	// ErrDimensionMismatch indicates series of different lengths.
	ErrDimensionMismatch = errors.New("dynamo: series length mismatch")

	// ErrZeroEnergy indicates a relative quantity was requested against a
	// zero reference energy.
	ErrZeroEnergy = errors.New("dynamo: reference energy is zero")
)

// SimulationError wraps an error with the step at which it happened.
type SimulationError struct {
	Step     int
	Time     float64
	Position float64
	Velocity float64
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// BoundsError reports the parameter that failed validation.
func BoundsError(field string, value float64, rule string) error {
	return fmt.Errorf("%w: %s=%g (%s)", ErrParameterBounds, field, value, rule)
}
