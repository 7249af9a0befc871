package integrators

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
)

type constantForce float64

func (c constantForce) Acceleration(x float64) float64 { return float64(c) }

func referenceConfig() dynamo.Config {
	return dynamo.Config{Dt: 0.01, MaxDisplacement: 0.02, Duration: 1.0}
}

func TestVarStep_ReferenceOscillation(t *testing.T) {
	g := NewWithT(t)
	osc := physics.HarmonicFromPeriod(1.0, 1.0)
	cfg := referenceConfig()

	tr, err := NewVarStep().Integrate(osc, 0.1, 0.0, cfg)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tr.Validate()).To(Succeed())

	tEnd, xEnd, _ := tr.Last()
	g.Expect(tEnd).To(BeNumerically(">=", cfg.Duration))
	g.Expect(tEnd).To(BeNumerically("<", cfg.Duration+cfg.Dt))
	g.Expect(xEnd).To(BeNumerically("~", 0.1, 0.015))
	g.Expect(tr.MaxDisplacement()).To(BeNumerically("<=", cfg.MaxDisplacement+1e-12))
	g.Expect(tr.Events).To(BeEmpty())
	g.Expect(tr.Len()).To(BeNumerically(">=", 101))
}

func TestVarStep_TimeBounds(t *testing.T) {
	tests := []struct {
		name   string
		x0, v0 float64
		cfg    dynamo.Config
	}{
		{"reference", 0.1, 0, referenceConfig()},
		{"fast", 1.0, 5.0, dynamo.Config{Dt: 0.01, MaxDisplacement: 0.02, Duration: 2.0}},
		{"coarse", 0.5, -1.0, dynamo.Config{Dt: 0.05, MaxDisplacement: 0.1, Duration: 3.3}},
		{"long", 0.1, 0, dynamo.Config{Dt: 0.01, MaxDisplacement: 0.02, Duration: 10}},
	}

	osc := physics.HarmonicFromPeriod(1.0, 1.0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			tr, err := NewVarStep().Integrate(osc, tt.x0, tt.v0, tt.cfg)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(tr.Validate()).To(Succeed())

			last := tr.Times[tr.Len()-1]
			g.Expect(last).To(BeNumerically(">=", tt.cfg.Duration))
			g.Expect(last).To(BeNumerically("<", tt.cfg.Duration+tt.cfg.Dt))

			for i, s := range tr.Steps {
				if s <= 0 || s > tt.cfg.Dt {
					t.Fatalf("step %d out of (0, dt]: %g", i, s)
				}
			}
		})
	}
}

func TestVarStep_DisplacementBound(t *testing.T) {
	osc := physics.HarmonicFromPeriod(1.0, 1.0)

	for _, dx := range []float64{0.05, 0.02, 0.01, 0.005} {
		cfg := dynamo.Config{Dt: 0.01, MaxDisplacement: dx, Duration: 2.0}
		tr, err := NewVarStep().Integrate(osc, 1.0, 5.0, cfg)
		if err != nil {
			t.Fatalf("dx=%g: %v", dx, err)
		}
		if got := tr.MaxDisplacement(); got > dx+1e-9 {
			t.Errorf("dx=%g: max displacement %g exceeds threshold", dx, got)
		}
		if tr.Refined == 0 {
			t.Errorf("dx=%g: expected refined steps", dx)
		}
		if len(tr.Events) != 0 {
			t.Errorf("dx=%g: unexpected events %v", dx, tr.Events)
		}
	}
}

// A smaller threshold refines at least as often, so it never yields fewer
// samples. This only holds while no step falls back to the nominal step: a
// fallback can skip refinements a larger threshold would have taken.
func TestVarStep_SmallerThresholdNeverFewerSamples(t *testing.T) {
	osc := physics.HarmonicFromPeriod(1.0, 1.0)
	prev := 0

	for _, dx := range []float64{0.1, 0.05, 0.02, 0.01, 0.005} {
		cfg := dynamo.Config{Dt: 0.01, MaxDisplacement: dx, Duration: 2.0}
		tr, err := NewVarStep().Integrate(osc, 1.0, 5.0, cfg)
		if err != nil {
			t.Fatalf("dx=%g: %v", dx, err)
		}
		if last := tr.Times[tr.Len()-1]; last >= cfg.Duration+cfg.Dt {
			t.Errorf("dx=%g: final time %g overshoots", dx, last)
		}
		if len(tr.Events) > 0 {
			prev = 0
			continue
		}
		if tr.Len() < prev {
			t.Errorf("dx=%g: %d samples, fewer than %d for a larger threshold", dx, tr.Len(), prev)
		}
		prev = tr.Len()
	}
}

func TestVarStep_EnergyConservation(t *testing.T) {
	osc := physics.HarmonicFromPeriod(1.0, 1.0)
	cfg := dynamo.Config{Dt: 1e-5, MaxDisplacement: 0.02, Duration: 1.0}

	tr, err := NewVarStep().Integrate(osc, 0.1, 0.0, cfg)
	if err != nil {
		t.Fatalf("integrate: %v", err)
	}

	e0 := osc.Energy(tr.Positions[0], tr.Velocities[0])
	maxDrift := 0.0
	for i := range tr.Times {
		e := osc.Energy(tr.Positions[i], tr.Velocities[i])
		maxDrift = math.Max(maxDrift, math.Abs(e-e0)/e0)
	}

	if maxDrift >= 1e-3 {
		t.Errorf("energy drift too high: %e", maxDrift)
	}
}

func TestVarStep_Equilibrium(t *testing.T) {
	g := NewWithT(t)
	osc := physics.HarmonicFromPeriod(1.0, 1.0)

	tr, err := NewVarStep().Integrate(osc, 0, 0, referenceConfig())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tr.Events).To(BeEmpty())
	for i := range tr.Times {
		g.Expect(tr.Positions[i]).To(BeZero())
		g.Expect(tr.Velocities[i]).To(BeZero())
	}
}

func TestVarStep_ZeroVelocityKeepsNominalStep(t *testing.T) {
	g := NewWithT(t)
	stiff := physics.NewHarmonic(1.0, 400*math.Pi*math.Pi)
	cfg := dynamo.Config{Dt: 0.01, MaxDisplacement: 0.02, Duration: 0.2}

	tr, err := NewVarStep().Integrate(stiff, 1.0, 0.0, cfg)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tr.Events).NotTo(BeEmpty())

	first := tr.Events[0]
	g.Expect(first.Step).To(Equal(0))
	g.Expect(first.Kind).To(Equal(dynamo.EventZeroVelocity))
	g.Expect(errors.Is(first.Err(), dynamo.ErrZeroVelocity)).To(BeTrue())
	g.Expect(tr.Steps[0]).To(Equal(cfg.Dt))
	g.Expect(tr.Refined).To(BeNumerically(">", 0))
}

func TestVarStep_DegenerateFallsBack(t *testing.T) {
	g := NewWithT(t)

	res := NewVarStep().Step(constantForce(-4), 0, 0.5, 1.0, 0.1)
	g.Expect(res.Event).To(Equal(dynamo.EventDegenerateStep))
	g.Expect(res.Dt).To(Equal(1.0))
	g.Expect(res.Refined).To(BeFalse())
	g.Expect(math.IsNaN(res.Roots[0])).To(BeTrue())

	ev := dynamo.StepEvent{Step: 3, Time: 0.5, Kind: res.Event}
	g.Expect(errors.Is(ev.Err(), dynamo.ErrDegenerateStep)).To(BeTrue())
}

func TestVarStep_StepRefinesToThreshold(t *testing.T) {
	tests := []struct {
		name  string
		a, v  float64
		dt    float64
		maxDx float64
		want  float64
	}{
		{"no acceleration", 0, 1, 1, 0.5, 0.5},
		{"negative velocity", 0, -2, 1, 0.5, 0.25},
		{"decelerating", -4, 1, 1, 0.1, (1 - math.Sqrt(0.2)) / 4},
		{"accelerating", 2, 1, 1, 0.5, (math.Sqrt(3) - 1) / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewVarStep().Step(constantForce(tt.a), 0, tt.v, tt.dt, tt.maxDx)
			if !res.Refined {
				t.Fatalf("expected refined step, got %+v", res)
			}
			if math.Abs(res.Dt-tt.want) > 1e-12 {
				t.Errorf("dt = %.15f, want %.15f", res.Dt, tt.want)
			}
			if math.Abs(math.Abs(res.X)-tt.maxDx) > 1e-12 {
				t.Errorf("displacement = %g, want %g", res.X, tt.maxDx)
			}
		})
	}
}

func TestVarStep_WithinThresholdKeepsNominal(t *testing.T) {
	res := NewVarStep().Step(constantForce(-1), 0, 0.1, 0.01, 0.02)
	if res.Refined || res.Event != 0 || res.Dt != 0.01 {
		t.Errorf("expected untouched nominal step, got %+v", res)
	}
}

func TestRefinedRoots(t *testing.T) {
	g := NewWithT(t)

	r1, r2 := RefinedRoots(0, 2, 0.1)
	g.Expect(math.IsNaN(r1)).To(BeTrue())
	g.Expect(r2).To(BeNumerically("~", 0.05, 1e-15))

	r1, r2 = RefinedRoots(-4, 1, 0.1)
	lo, hi := math.Min(r1, r2), math.Max(r1, r2)
	g.Expect(lo).To(BeNumerically("~", (1-math.Sqrt(0.2))/4, 1e-12))
	g.Expect(hi).To(BeNumerically("~", (1+math.Sqrt(0.2))/4, 1e-12))

	r1, r2 = RefinedRoots(-4, 0.5, 0.1)
	g.Expect(math.IsNaN(r1)).To(BeTrue())
	g.Expect(math.IsNaN(r2)).To(BeTrue())
}

func TestSelectRoot(t *testing.T) {
	tests := []struct {
		name   string
		r1, r2 float64
		want   float64
		ok     bool
	}{
		{"both positive", 0.3, 0.1, 0.1, true},
		{"first only", 0.2, -0.4, 0.2, true},
		{"second only", -0.2, 0.4, 0.4, true},
		{"both negative", -0.2, -0.4, 0, false},
		{"not real", math.NaN(), math.NaN(), 0, false},
		{"one missing", math.NaN(), 0.7, 0.7, true},
		{"infinite", math.Inf(1), -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectRoot(tt.r1, tt.r2)
			if ok != tt.ok || got != tt.want {
				t.Errorf("SelectRoot(%g, %g) = (%g, %v), want (%g, %v)", tt.r1, tt.r2, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestVarStep_StepBudget(t *testing.T) {
	osc := physics.HarmonicFromPeriod(1.0, 1.0)
	cfg := referenceConfig()
	cfg.MaxSteps = 10

	tr, err := NewVarStep().Integrate(osc, 0.1, 0, cfg)
	if !errors.Is(err, dynamo.ErrStepBudget) {
		t.Fatalf("expected ErrStepBudget, got %v", err)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || simErr.Step != 10 {
		t.Errorf("expected SimulationError at step 10, got %v", err)
	}
	if tr.Len() != 11 {
		t.Errorf("expected partial trajectory of 11 samples, got %d", tr.Len())
	}
}

func TestVarStep_InvalidConfig(t *testing.T) {
	osc := physics.HarmonicFromPeriod(1.0, 1.0)

	tests := []struct {
		name string
		cfg  dynamo.Config
		x0   float64
	}{
		{"zero dt", dynamo.Config{Dt: 0, MaxDisplacement: 0.02, Duration: 1}, 0.1},
		{"negative dt", dynamo.Config{Dt: -0.1, MaxDisplacement: 0.02, Duration: 1}, 0.1},
		{"zero threshold", dynamo.Config{Dt: 0.01, MaxDisplacement: 0, Duration: 1}, 0.1},
		{"zero duration", dynamo.Config{Dt: 0.01, MaxDisplacement: 0.02, Duration: 0}, 0.1},
		{"nan position", referenceConfig(), math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVarStep().Integrate(osc, tt.x0, 0, tt.cfg)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}
