package viz

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/physlab/internal/analysis"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
	"github.com/san-kum/physlab/internal/rdf"
)

const (
	plotWidth  = 70
	plotHeight = 12
)

// palette cycles through series colours; RDF surfaces with more
// temperatures than colours are truncated to the first len(palette).
var palette = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Blue,
	asciigraph.Yellow,
	asciigraph.Cyan,
	asciigraph.Magenta,
	asciigraph.Orange,
	asciigraph.Purple,
}

// FigureSeq hands out increasing figure numbers starting at 1. The zero
// value is ready to use.
type FigureSeq struct {
	n int
}

func NewFigureSeq() *FigureSeq { return &FigureSeq{} }

func (s *FigureSeq) Next() int {
	s.n++
	return s.n
}

// Count is the number of figures handed out so far.
func (s *FigureSeq) Count() int { return s.n }

type Figure struct {
	Number int
	Title  string
	Body   string
}

func (f Figure) String() string {
	return fmt.Sprintf("%s\n%s\n", Title.Render(fmt.Sprintf("Figure %d: %s", f.Number, f.Title)), f.Body)
}

func newFigure(seq *FigureSeq, title, body string) Figure {
	return Figure{Number: seq.Next(), Title: title, Body: body}
}

// Plot draws a single series against sample index.
func Plot(seq *FigureSeq, title string, y []float64, caption string) Figure {
	if len(y) < 2 {
		return newFigure(seq, title, Subtle.Render("(not enough samples)"))
	}
	body := asciigraph.Plot(y,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
	return newFigure(seq, title, body)
}

// PlotMany draws several series on shared axes.
func PlotMany(seq *FigureSeq, title string, series [][]float64, caption string) Figure {
	var data [][]float64
	for _, s := range series {
		if len(s) >= 2 {
			data = append(data, s)
		}
	}
	if len(data) == 0 {
		return newFigure(seq, title, Subtle.Render("(not enough samples)"))
	}
	if len(data) > len(palette) {
		data = data[:len(palette)]
	}
	body := asciigraph.PlotMany(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(palette[:len(data)]...),
	)
	return newFigure(seq, title, body)
}

// TimeSeries resamples y(t) onto a uniform grid before plotting so the
// horizontal axis is linear in time even for adaptive steps.
func TimeSeries(seq *FigureSeq, title string, t, y []float64, caption string) Figure {
	if len(t) < 2 {
		return Plot(seq, title, y, caption)
	}
	span := t[len(t)-1] - t[0]
	uniform, err := analysis.Resample(t, y, span/float64(4*plotWidth))
	if err != nil {
		uniform = y
	}
	return Plot(seq, title, uniform, fmt.Sprintf("%s, t = %.3g..%.3g s", caption, t[0], t[len(t)-1]))
}

// Phase draws the (x, v) portrait.
func Phase(seq *FigureSeq, x, v []float64) Figure {
	p := analysis.NewPhasePortrait(x, v)
	body := p.ASCII(plotWidth, plotHeight+4)
	if body == "" {
		body = Subtle.Render("(no samples)")
	}
	return newFigure(seq, "phase portrait (x, v)", body)
}

// TrajectoryFigures draws x(t), v(t), the phase portrait and E/E0.
// rel may be nil when the initial energy is zero.
func TrajectoryFigures(seq *FigureSeq, tr *dynamo.Trajectory, rel []float64) []Figure {
	figs := []Figure{
		TimeSeries(seq, "position", tr.Times, tr.Positions, "x [m]"),
		TimeSeries(seq, "velocity", tr.Times, tr.Velocities, "v [m/s]"),
		Phase(seq, tr.Positions, tr.Velocities),
	}
	if rel != nil {
		figs = append(figs, TimeSeries(seq, "relative energy", tr.Times, rel, "E/E0"))
	}
	return figs
}

// LennardJonesFigure plots the potential with the force divided by
// forceScale on the same axes.
func LennardJonesFigure(seq *FigureSeq, tbl *physics.Table, forceScale float64) Figure {
	caption := fmt.Sprintf("red: U [meV], green: F/%g [meV/nm], r = %.3g..%.3g nm",
		forceScale, tbl.R[0], tbl.R[len(tbl.R)-1])
	return PlotMany(seq, "Lennard-Jones potential and force", [][]float64{tbl.Potential, tbl.ScaledForce(forceScale)}, caption)
}

// ShotFigures plots velocity, position and acceleration of one shot.
func ShotFigures(seq *FigureSeq, shot *physics.Shot) []Figure {
	label := fmt.Sprintf("v0 = %g m/s", shot.V0)
	return []Figure{
		Plot(seq, "puck velocity, "+label, shot.Velocities, fmt.Sprintf("v [m/s] over %.3g s", shot.StopTime)),
		Plot(seq, "puck position, "+label, shot.Positions, fmt.Sprintf("x [m] over %.3g s", shot.StopTime)),
		Plot(seq, "puck acceleration, "+label, shot.Accelerations, fmt.Sprintf("a [m/s²] over %.3g s", shot.StopTime)),
	}
}

// ShotComparison plots the positions of several shots on a common time axis;
// each puck holds its final position after it stops.
func ShotComparison(seq *FigureSeq, p *physics.Puck, shots []*physics.Shot) Figure {
	horizon := 0.0
	for _, s := range shots {
		horizon = math.Max(horizon, s.StopTime)
	}
	series := make([][]float64, 0, len(shots))
	labels := make([]string, 0, len(shots))
	for _, s := range shots {
		xs := make([]float64, plotWidth)
		for i := range xs {
			t := horizon * float64(i) / float64(plotWidth-1)
			xs[i] = p.Position(s.V0, math.Min(t, s.StopTime))
		}
		series = append(series, xs)
		labels = append(labels, fmt.Sprintf("%g", s.V0))
	}
	caption := fmt.Sprintf("x [m] over %.3g s for v0 = %s m/s", horizon, strings.Join(labels, ", "))
	return PlotMany(seq, "puck shot comparison", series, caption)
}

// ShotSummaryFigure plots stop time and travelled distance against the
// initial speed. The summaries are interpolated onto a uniform v0 axis so
// unevenly spaced speeds keep a linear horizontal scale.
func ShotSummaryFigure(seq *FigureSeq, summaries []physics.ShotSummary) Figure {
	sorted := slices.Clone(summaries)
	slices.SortStableFunc(sorted, func(a, b physics.ShotSummary) int { return cmp.Compare(a.V0, b.V0) })
	sorted = slices.CompactFunc(sorted, func(a, b physics.ShotSummary) bool { return a.V0 == b.V0 })

	v0 := make([]float64, len(sorted))
	stop := make([]float64, len(sorted))
	dist := make([]float64, len(sorted))
	for i, s := range sorted {
		v0[i], stop[i], dist[i] = s.V0, s.StopTime, s.Distance
	}

	title := "stop time and distance against initial speed"
	if len(v0) < 2 {
		return PlotMany(seq, title, [][]float64{stop, dist}, "")
	}
	dv := (v0[len(v0)-1] - v0[0]) / float64(plotWidth-1)
	stopCurve, err := analysis.Resample(v0, stop, dv)
	if err != nil {
		stopCurve = stop
	}
	distCurve, err := analysis.Resample(v0, dist, dv)
	if err != nil {
		distCurve = dist
	}
	caption := fmt.Sprintf("red: stop time [s], green: distance [m], v0 = %g..%g m/s", v0[0], v0[len(v0)-1])
	return PlotMany(seq, title, [][]float64{stopCurve, distCurve}, caption)
}

// SurfaceFigure plots g(r) for each temperature of an RDF surface.
func SurfaceFigure(seq *FigureSeq, s *rdf.Surface) Figure {
	n := min(len(s.Temperatures), len(palette))
	series := make([][]float64, n)
	temps := make([]string, n)
	for i := 0; i < n; i++ {
		series[i] = s.Series(i)
		temps[i] = fmt.Sprintf("%g", s.Temperatures[i])
	}
	caption := fmt.Sprintf("g(r) for T = %s", strings.Join(temps, ", "))
	if len(s.Distances) > 0 {
		caption += fmt.Sprintf(", r = %.3g..%.3g", s.Distances[0], s.Distances[len(s.Distances)-1])
	}
	if len(s.Temperatures) > n {
		caption += fmt.Sprintf(" (%d more not shown)", len(s.Temperatures)-n)
	}
	return PlotMany(seq, "radial distribution function", series, caption)
}
