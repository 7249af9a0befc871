package physics

import (
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

const (
	DefaultMass   = 1.0
	DefaultPeriod = 1.0
)

type Harmonic struct {
	Mass float64
	K    float64
}

func NewHarmonic(mass, k float64) *Harmonic {
	return &Harmonic{Mass: mass, K: k}
}

// HarmonicFromPeriod derives the spring constant k = m·(2π/T)².
func HarmonicFromPeriod(mass, period float64) *Harmonic {
	w := 2 * math.Pi / period
	return &Harmonic{Mass: mass, K: mass * w * w}
}

func (h *Harmonic) Validate() error {
	if !(h.Mass > 0) {
		return dynamo.BoundsError("mass", h.Mass, "must be positive")
	}
	if !(h.K > 0) || math.IsInf(h.K, 0) {
		return dynamo.BoundsError("spring_constant", h.K, "must be positive and finite")
	}
	return nil
}

func (h *Harmonic) Acceleration(x float64) float64 {
	return -(h.K * x) / h.Mass
}

func (h *Harmonic) Energy(x, v float64) float64 {
	return 0.5*h.Mass*v*v + 0.5*h.K*x*x
}

func (h *Harmonic) AngularFrequency() float64 {
	return math.Sqrt(h.K / h.Mass)
}

func (h *Harmonic) Period() float64 {
	return 2 * math.Pi / h.AngularFrequency()
}

// Exact returns the analytic position and velocity at time t.
func (h *Harmonic) Exact(x0, v0, t float64) (x, v float64) {
	w := h.AngularFrequency()
	sin, cos := math.Sincos(w * t)
	x = x0*cos + v0/w*sin
	v = -x0*w*sin + v0*cos
	return x, v
}
