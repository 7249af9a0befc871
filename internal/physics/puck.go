package physics

import (
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

const (
	DefaultPuckMass    = 0.170 // kg
	DefaultIceFriction = 0.06
	DefaultAirDrag     = 0.3 // kg/s
	DefaultGravity     = 9.81
	DefaultPuckTicks   = 20
)

// Puck slides under linear air drag and kinetic ice friction:
// m·dv/dt = -d·v - μ·m·g.
type Puck struct {
	Mass     float64
	Friction float64
	Drag     float64
	Gravity  float64
}

func NewPuck() *Puck {
	return &Puck{
		Mass:     DefaultPuckMass,
		Friction: DefaultIceFriction,
		Drag:     DefaultAirDrag,
		Gravity:  DefaultGravity,
	}
}

func (p *Puck) Validate() error {
	switch {
	case !(p.Mass > 0):
		return dynamo.BoundsError("mass", p.Mass, "must be positive")
	case !(p.Friction > 0):
		return dynamo.BoundsError("friction", p.Friction, "must be positive")
	case !(p.Drag > 0):
		return dynamo.BoundsError("drag", p.Drag, "must be positive")
	case !(p.Gravity > 0):
		return dynamo.BoundsError("gravity", p.Gravity, "must be positive")
	}
	return nil
}

// terminal is the velocity offset c = μ·m·g/d.
func (p *Puck) terminal() float64 {
	return p.Friction * p.Mass * p.Gravity / p.Drag
}

func (p *Puck) StopTime(v0 float64) float64 {
	if v0 <= 0 {
		return 0
	}
	c := p.terminal()
	return p.Mass / p.Drag * math.Log((v0+c)/c)
}

func (p *Puck) Velocity(v0, t float64) float64 {
	c := p.terminal()
	return (v0+c)*math.Exp(-p.Drag*t/p.Mass) - c
}

func (p *Puck) Position(v0, t float64) float64 {
	c := p.terminal()
	tau := p.Mass / p.Drag
	return tau*(v0+c)*(1-math.Exp(-t/tau)) - c*t
}

func (p *Puck) Acceleration(v0, t float64) float64 {
	c := p.terminal()
	return -(p.Drag / p.Mass) * (v0 + c) * math.Exp(-p.Drag*t/p.Mass)
}

type Shot struct {
	V0            float64
	StopTime      float64
	Times         []float64
	Velocities    []float64
	Positions     []float64
	Accelerations []float64
}

func (s *Shot) Distance() float64 {
	if len(s.Positions) == 0 {
		return 0
	}
	return s.Positions[len(s.Positions)-1]
}

// Shoot samples a shot with initial speed v0 at ticks+1 evenly spaced
// instants from launch to rest.
func (p *Puck) Shoot(v0 float64, ticks int) (*Shot, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if v0 < 0 || math.IsNaN(v0) || math.IsInf(v0, 0) {
		return nil, dynamo.BoundsError("v0", v0, "must be non-negative and finite")
	}
	if ticks < 1 {
		return nil, dynamo.BoundsError("ticks", float64(ticks), "must be at least 1")
	}

	stop := p.StopTime(v0)
	shot := &Shot{V0: v0, StopTime: stop}
	if stop == 0 {
		shot.Times = []float64{0}
		shot.Velocities = []float64{0}
		shot.Positions = []float64{0}
		shot.Accelerations = []float64{0}
		return shot, nil
	}

	shot.Times = Linspace(0, stop, ticks+1)
	shot.Velocities = make([]float64, len(shot.Times))
	shot.Positions = make([]float64, len(shot.Times))
	shot.Accelerations = make([]float64, len(shot.Times))
	for i, t := range shot.Times {
		shot.Velocities[i] = p.Velocity(v0, t)
		shot.Positions[i] = p.Position(v0, t)
		shot.Accelerations[i] = p.Acceleration(v0, t)
	}
	// exp rounding can leave a tiny negative residue at rest
	shot.Velocities[ticks] = 0
	return shot, nil
}

type ShotSummary struct {
	V0       float64
	StopTime float64
	Distance float64
}

func (p *Puck) Compare(v0s []float64, ticks int) ([]ShotSummary, error) {
	out := make([]ShotSummary, 0, len(v0s))
	for _, v0 := range v0s {
		shot, err := p.Shoot(v0, ticks)
		if err != nil {
			return nil, err
		}
		out = append(out, ShotSummary{V0: v0, StopTime: shot.StopTime, Distance: shot.Distance()})
	}
	return out, nil
}
