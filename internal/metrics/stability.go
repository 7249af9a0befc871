package metrics

import "math"

// Amplitude tracks the largest |x| seen.
type Amplitude struct {
	name string
	max  float64
}

func NewAmplitude() *Amplitude {
	return &Amplitude{name: AmplitudeName}
}

func (a *Amplitude) Name() string { return a.name }

func (a *Amplitude) Observe(t, x, v float64) {
	a.max = math.Max(a.max, math.Abs(x))
}

func (a *Amplitude) Value() float64 { return a.max }

func (a *Amplitude) Reset() { a.max = 0 }

// MinStep tracks the smallest interval between consecutive samples.
type MinStep struct {
	name  string
	last  float64
	min   float64
	count int
}

func NewMinStep() *MinStep {
	return &MinStep{name: MinStepName}
}

func (m *MinStep) Name() string { return m.name }

func (m *MinStep) Observe(t, x, v float64) {
	if m.count > 0 {
		dt := t - m.last
		if m.count == 1 || dt < m.min {
			m.min = dt
		}
	}
	m.last = t
	m.count++
}

func (m *MinStep) Value() float64 { return m.min }

func (m *MinStep) Reset() {
	m.last = 0
	m.min = 0
	m.count = 0
}
