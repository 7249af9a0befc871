package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

// Argon-like defaults: σ in nm, ε in meV.
const (
	DefaultSigma   = 0.34
	DefaultEpsilon = 2.844
	DefaultLJMin   = 0.315
	DefaultLJMax   = 1.0
	DefaultLJN     = 51
)

type LennardJones struct {
	Epsilon float64
	Sigma   float64
}

func NewLennardJones() *LennardJones {
	return &LennardJones{Epsilon: DefaultEpsilon, Sigma: DefaultSigma}
}

func (lj *LennardJones) Validate() error {
	if !(lj.Epsilon > 0) {
		return dynamo.BoundsError("epsilon", lj.Epsilon, "must be positive")
	}
	if !(lj.Sigma > 0) {
		return dynamo.BoundsError("sigma", lj.Sigma, "must be positive")
	}
	return nil
}

func (lj *LennardJones) Potential(r float64) float64 {
	sr6 := math.Pow(lj.Sigma/r, 6)
	return 4 * lj.Epsilon * (sr6*sr6 - sr6)
}

// Force is -dU/dr; positive values are repulsive.
func (lj *LennardJones) Force(r float64) float64 {
	sr6 := math.Pow(lj.Sigma/r, 6)
	return 24 * lj.Epsilon / r * (2*sr6*sr6 - sr6)
}

// MinimumDistance is the separation of the potential well, 2^(1/6)·σ.
func (lj *LennardJones) MinimumDistance() float64 {
	return math.Pow(2, 1.0/6.0) * lj.Sigma
}

type Table struct {
	R         []float64
	Potential []float64
	Force     []float64
}

// Table evaluates the potential and force on n evenly spaced separations
// in [rmin, rmax].
func (lj *LennardJones) Table(rmin, rmax float64, n int) (*Table, error) {
	if err := lj.Validate(); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, dynamo.BoundsError("points", float64(n), "need at least 2")
	}
	if !(rmin > 0) || !(rmax > rmin) {
		return nil, fmt.Errorf("%w: range [%g, %g]", dynamo.ErrParameterBounds, rmin, rmax)
	}

	tbl := &Table{
		R:         Linspace(rmin, rmax, n),
		Potential: make([]float64, n),
		Force:     make([]float64, n),
	}
	for i, r := range tbl.R {
		tbl.Potential[i] = lj.Potential(r)
		tbl.Force[i] = lj.Force(r)
	}
	return tbl, nil
}

// ScaledForce returns the force column divided by div, for plotting next to
// the potential.
func (t *Table) ScaledForce(div float64) []float64 {
	out := make([]float64, len(t.Force))
	for i, f := range t.Force {
		out[i] = f / div
	}
	return out
}

func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
