package analysis

import (
	"math"
	"strings"
)

type Point struct{ X, Y float64 }

// PhasePortrait holds (position, velocity) pairs of a trajectory.
type PhasePortrait struct {
	Points []Point
}

func NewPhasePortrait(x, v []float64) *PhasePortrait {
	n := min(len(x), len(v))
	p := &PhasePortrait{Points: make([]Point, n)}
	for i := 0; i < n; i++ {
		p.Points[i] = Point{X: x[i], Y: v[i]}
	}
	return p
}

// Bounds returns the portrait extent padded by 10% on each side.
func (p *PhasePortrait) Bounds() (minX, maxX, minY, maxY float64) {
	if len(p.Points) == 0 {
		return 0, 1, 0, 1
	}
	minX, maxX = p.Points[0].X, p.Points[0].X
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - rangeX*0.1, maxX + rangeX*0.1, minY - rangeY*0.1, maxY + rangeY*0.1
}

// ASCII renders the portrait on a width×height character grid with axes
// drawn where they cross the visible area.
func (p *PhasePortrait) ASCII(width, height int) string {
	if len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := p.Bounds()
	rangeX := maxX - minX
	rangeY := maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// ZeroCrossings returns the interpolated times at which y crosses zero
// going upward.
func ZeroCrossings(t, y []float64) []float64 {
	var out []float64
	for i := 1; i < len(y) && i < len(t); i++ {
		prev, curr := y[i-1], y[i]
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			out = append(out, t[i-1]+frac*(t[i]-t[i-1]))
		}
	}
	return out
}

// CrossingPeriod is the mean interval between upward zero crossings.
func CrossingPeriod(t, y []float64) (float64, error) {
	c := ZeroCrossings(t, y)
	if len(c) < 2 {
		return 0, ErrTooFewSamples
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1), nil
}
