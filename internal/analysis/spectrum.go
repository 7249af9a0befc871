package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooFewSamples = errors.New("analysis: not enough samples")

// Resample linearly interpolates y(t) onto a uniform grid of spacing dt
// covering [t[0], t[len-1]]. t must be strictly increasing.
func Resample(t, y []float64, dt float64) ([]float64, error) {
	if len(t) != len(y) {
		return nil, fmt.Errorf("analysis: %d times, %d values", len(t), len(y))
	}
	if len(t) < 2 {
		return nil, ErrTooFewSamples
	}
	if !(dt > 0) {
		return nil, fmt.Errorf("analysis: resample spacing must be positive, got %g", dt)
	}

	span := t[len(t)-1] - t[0]
	n := int(math.Floor(span/dt)) + 1
	out := make([]float64, n)

	j := 0
	for i := range out {
		ti := t[0] + float64(i)*dt
		for j < len(t)-2 && t[j+1] < ti {
			j++
		}
		frac := (ti - t[j]) / (t[j+1] - t[j])
		frac = math.Max(0, math.Min(1, frac))
		out[i] = y[j] + frac*(y[j+1]-y[j])
	}
	return out, nil
}

// PowerSpectrum returns |X_k| for k in [0, n/2) of the real signal.
func PowerSpectrum(data []float64) []float64 {
	spec := fft.FFTReal(data)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantPeriod estimates the strongest oscillation period of y(t). The
// series is resampled at dt, de-meaned and zero-padded to a power of two;
// the peak bin is refined by parabolic interpolation.
func DominantPeriod(t, y []float64, dt float64) (float64, error) {
	samples, err := Resample(t, y, dt)
	if err != nil {
		return 0, err
	}
	if len(samples) < 4 {
		return 0, ErrTooFewSamples
	}

	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	padded := make([]float64, nextPow2(len(samples)))
	for i, s := range samples {
		padded[i] = s - mean
	}

	ps := PowerSpectrum(padded)
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, errors.New("analysis: signal has no oscillating component")
	}

	bin := float64(peak)
	if peak < len(ps)-1 {
		l, c, r := ps[peak-1], ps[peak], ps[peak+1]
		if den := l - 2*c + r; den != 0 {
			bin += 0.5 * (l - r) / den
		}
	}

	freq := bin / (float64(len(padded)) * dt)
	return 1 / freq, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
