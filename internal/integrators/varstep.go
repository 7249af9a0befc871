package integrators

import (
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

// VarStep is a trapezoidal Euler integrator that shortens a step whenever
// the nominal step would move the particle farther than the configured
// maximum displacement.
type VarStep struct{}

func NewVarStep() *VarStep {
	return &VarStep{}
}

type StepResult struct {
	Dt      float64
	X, V    float64
	Refined bool
	Event   dynamo.EventKind
	Roots   [2]float64
}

func (s *VarStep) Integrate(f dynamo.Force, x0, v0 float64, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	return run(f, x0, v0, cfg, func(x, v float64) StepResult {
		return s.Step(f, x, v, cfg.Dt, cfg.MaxDisplacement)
	})
}

// Step advances one step from (x, v). The nominal step dt is kept unless
// its displacement exceeds maxDx, in which case the step is re-solved so
// the displacement equals maxDx.
func (s *VarStep) Step(f dynamo.Force, x, v, dt, maxDx float64) StepResult {
	a := f.Acceleration(x)
	nx, nv := trapezoid(x, v, a, dt)
	res := StepResult{Dt: dt, X: nx, V: nv, Roots: [2]float64{math.NaN(), math.NaN()}}

	if math.Abs(nx-x) <= maxDx {
		return res
	}

	// the direction term is sign(v); with v == 0 there is none to solve for
	if v == 0 {
		res.Event = dynamo.EventZeroVelocity
		return res
	}

	r1, r2 := RefinedRoots(a, v, maxDx)
	res.Roots = [2]float64{r1, r2}

	tau, ok := SelectRoot(r1, r2)
	if !ok {
		res.Event = dynamo.EventDegenerateStep
		return res
	}
	if tau >= dt {
		return res
	}

	res.Dt = tau
	res.X, res.V = trapezoid(x, v, a, tau)
	res.Refined = true
	return res
}

// RefinedRoots solves ½·a·τ² + v·τ - sign(v)·dx = 0, the timestep at which
// the trapezoidal update moves exactly dx in the direction of v. Roots that
// do not exist are NaN. v must be non-zero.
func RefinedRoots(a, v, dx float64) (float64, float64) {
	A := 0.5 * a
	B := v
	C := -math.Copysign(1, v) * dx

	disc := B*B - 4*A*C
	if disc < 0 {
		return math.NaN(), math.NaN()
	}

	// B != 0 and the root term shares its sign, so q != 0
	q := -0.5 * (B + math.Copysign(math.Sqrt(disc), B))
	r2 := C / q
	if A == 0 {
		return math.NaN(), r2
	}
	return q / A, r2
}

// SelectRoot picks the forward step among two candidates: the smaller when
// both are non-negative, the only one when just one is, and reports false
// when neither is.
func SelectRoot(r1, r2 float64) (float64, bool) {
	ok1, ok2 := usable(r1), usable(r2)
	switch {
	case ok1 && ok2:
		return math.Min(r1, r2), true
	case ok1:
		return r1, true
	case ok2:
		return r2, true
	default:
		return 0, false
	}
}

func usable(r float64) bool {
	return r >= 0 && !math.IsInf(r, 1)
}
