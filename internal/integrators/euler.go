package integrators

import (
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

// Euler advances with the trapezoidal Euler update at a fixed timestep.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f dynamo.Force, x, v, dt float64) (float64, float64) {
	return trapezoid(x, v, f.Acceleration(x), dt)
}

func (e *Euler) Integrate(f dynamo.Force, x0, v0 float64, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	return run(f, x0, v0, cfg, func(x, v float64) StepResult {
		nx, nv := e.Step(f, x, v, cfg.Dt)
		return StepResult{Dt: cfg.Dt, X: nx, V: nv}
	})
}

// trapezoid applies v' = v + a·dt and x' = x + ½(v + v')·dt.
func trapezoid(x, v, a, dt float64) (float64, float64) {
	vNext := v + a*dt
	vAvg := (v + vNext) / 2.0
	return x + vAvg*dt, vNext
}

// run drives a stepping function from t=0 until the configured duration,
// recording every sample and any fallback events.
func run(f dynamo.Force, x0, v0 float64, cfg dynamo.Config, step func(x, v float64) StepResult) (*dynamo.Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !finite(x0) {
		return nil, dynamo.BoundsError("initial_position", x0, "must be finite")
	}
	if !finite(v0) {
		return nil, dynamo.BoundsError("initial_velocity", v0, "must be finite")
	}

	tr := dynamo.NewTrajectory(capacityHint(cfg))
	tr.Start(x0, v0)

	budget := cfg.StepBudget()
	t, x, v := 0.0, x0, v0
	for i := 0; t < cfg.Duration; i++ {
		if i >= budget {
			return tr, &dynamo.SimulationError{Step: i, Time: t, Position: x, Velocity: v, Wrapped: dynamo.ErrStepBudget}
		}

		res := step(x, v)
		if res.Event != 0 {
			tr.Record(dynamo.StepEvent{Step: i, Time: t, Kind: res.Event, Roots: res.Roots})
		}
		if res.Refined {
			tr.Refined++
		}

		tr.Append(res.Dt, res.X, res.V)
		t, x, v = tr.Last()
	}

	return tr, nil
}

const maxPrealloc = 1 << 20

func capacityHint(cfg dynamo.Config) int {
	n := math.Ceil(cfg.Duration/cfg.Dt) + 1
	if n > maxPrealloc {
		return maxPrealloc
	}
	return int(n)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
