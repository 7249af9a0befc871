package dynamo

import (
	"fmt"
	"math"
)

type Force interface {
	Acceleration(x float64) float64
}

type Hamiltonian interface {
	Energy(x, v float64) float64
}

type Integrator interface {
	Integrate(f Force, x0, v0 float64, cfg Config) (*Trajectory, error)
}

// Metric observes samples of a finished or running trajectory.
type Metric interface {
	Name() string
	Observe(t, x, v float64)
	Value() float64
	Reset()
}

const DefaultMaxSteps = 10_000_000

type Config struct {
	Dt              float64
	MaxDisplacement float64
	Duration        float64
	MaxSteps        int
}

func DefaultConfig() Config {
	return Config{
		Dt:              0.01,
		MaxDisplacement: 0.02,
		Duration:        1.0,
		MaxSteps:        DefaultMaxSteps,
	}
}

func (c Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return BoundsError("dt", c.Dt, "must be positive and finite")
	}
	if !(c.MaxDisplacement > 0) {
		return BoundsError("max_displacement", c.MaxDisplacement, "must be positive")
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return BoundsError("duration", c.Duration, "must be positive and finite")
	}
	if c.MaxSteps < 0 {
		return BoundsError("max_steps", float64(c.MaxSteps), "must not be negative")
	}
	return nil
}

// StepBudget returns MaxSteps, or DefaultMaxSteps when unset.
func (c Config) StepBudget() int {
	if c.MaxSteps == 0 {
		return DefaultMaxSteps
	}
	return c.MaxSteps
}

type EventKind int

const (
	EventDegenerateStep EventKind = iota + 1
	EventZeroVelocity
)

func (k EventKind) String() string {
	switch k {
	case EventDegenerateStep:
		return "degenerate_step"
	case EventZeroVelocity:
		return "zero_velocity"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// StepEvent records a step that could not be refined and kept the nominal
// timestep. Roots holds the candidate refined steps (NaN when not real).
type StepEvent struct {
	Step  int
	Time  float64
	Kind  EventKind
	Roots [2]float64
}

func (e StepEvent) Err() error {
	var base error
	switch e.Kind {
	case EventDegenerateStep:
		base = ErrDegenerateStep
	case EventZeroVelocity:
		base = ErrZeroVelocity
	default:
		return nil
	}
	return &SimulationError{Step: e.Step, Time: e.Time, Wrapped: base}
}

// Trajectory holds the index-aligned output series of one run. Steps[i] is
// the timestep that produced sample i+1.
type Trajectory struct {
	Times      []float64
	Positions  []float64
	Velocities []float64
	Steps      []float64
	Events     []StepEvent
	Refined    int
}

func NewTrajectory(capacity int) *Trajectory {
	if capacity < 1 {
		capacity = 1
	}
	return &Trajectory{
		Times:      make([]float64, 0, capacity),
		Positions:  make([]float64, 0, capacity),
		Velocities: make([]float64, 0, capacity),
		Steps:      make([]float64, 0, capacity-1),
	}
}

// Start records the initial sample. It must be called once before Append.
func (tr *Trajectory) Start(x, v float64) {
	tr.Times = append(tr.Times, 0)
	tr.Positions = append(tr.Positions, x)
	tr.Velocities = append(tr.Velocities, v)
}

func (tr *Trajectory) Append(step, x, v float64) {
	t := tr.Times[len(tr.Times)-1] + step
	tr.Times = append(tr.Times, t)
	tr.Positions = append(tr.Positions, x)
	tr.Velocities = append(tr.Velocities, v)
	tr.Steps = append(tr.Steps, step)
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

func (tr *Trajectory) Last() (t, x, v float64) {
	n := len(tr.Times) - 1
	return tr.Times[n], tr.Positions[n], tr.Velocities[n]
}

func (tr *Trajectory) Record(e StepEvent) { tr.Events = append(tr.Events, e) }

// Validate checks the series invariants: equal lengths, a first sample at
// t=0 and strictly increasing times.
func (tr *Trajectory) Validate() error {
	n := len(tr.Times)
	if len(tr.Positions) != n || len(tr.Velocities) != n {
		return fmt.Errorf("%w: times=%d positions=%d velocities=%d",
			ErrDimensionMismatch, n, len(tr.Positions), len(tr.Velocities))
	}
	if n == 0 {
		return nil
	}
	if tr.Times[0] != 0 {
		return fmt.Errorf("trajectory starts at t=%g, want 0", tr.Times[0])
	}
	for i := 1; i < n; i++ {
		if !(tr.Times[i] > tr.Times[i-1]) {
			return fmt.Errorf("time not increasing at sample %d: %g after %g", i, tr.Times[i], tr.Times[i-1])
		}
	}
	return nil
}

// MaxDisplacement returns the largest |x[i+1]-x[i]| over the run.
func (tr *Trajectory) MaxDisplacement() float64 {
	maxDx := 0.0
	for i := 1; i < len(tr.Positions); i++ {
		maxDx = math.Max(maxDx, math.Abs(tr.Positions[i]-tr.Positions[i-1]))
	}
	return maxDx
}

// StepRange returns the smallest and largest timestep taken.
func (tr *Trajectory) StepRange() (minStep, maxStep float64) {
	if len(tr.Steps) == 0 {
		return 0, 0
	}
	minStep, maxStep = tr.Steps[0], tr.Steps[0]
	for _, s := range tr.Steps[1:] {
		minStep = math.Min(minStep, s)
		maxStep = math.Max(maxStep, s)
	}
	return minStep, maxStep
}
