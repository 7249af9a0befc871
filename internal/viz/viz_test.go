package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
	"github.com/san-kum/physlab/internal/rdf"
)

func sampleTrajectory(n int) *dynamo.Trajectory {
	tr := dynamo.NewTrajectory(n)
	tr.Start(0.1, 0)
	dt := 0.01
	for i := 1; i < n; i++ {
		t := float64(i) * dt
		tr.Append(dt, 0.1*math.Cos(2*math.Pi*t), -0.2*math.Pi*math.Sin(2*math.Pi*t))
	}
	return tr
}

func TestFigureSeq(t *testing.T) {
	g := NewWithT(t)

	var seq FigureSeq
	g.Expect(seq.Next()).To(Equal(1))
	g.Expect(seq.Next()).To(Equal(2))
	g.Expect(seq.Count()).To(Equal(2))

	other := NewFigureSeq()
	g.Expect(other.Next()).To(Equal(1))
	g.Expect(seq.Next()).To(Equal(3))
}

func TestTrajectoryFigures(t *testing.T) {
	g := NewWithT(t)

	tr := sampleTrajectory(101)
	rel := make([]float64, tr.Len())
	for i := range rel {
		rel[i] = 1
	}

	seq := NewFigureSeq()
	figs := TrajectoryFigures(seq, tr, rel)
	g.Expect(figs).To(HaveLen(4))
	for i, f := range figs {
		g.Expect(f.Number).To(Equal(i + 1))
		g.Expect(f.Body).NotTo(BeEmpty())
	}
	g.Expect(figs[0].String()).To(ContainSubstring("Figure 1: position"))
	g.Expect(figs[3].Body).To(ContainSubstring("E/E0"))

	g.Expect(TrajectoryFigures(seq, tr, nil)).To(HaveLen(3))
	g.Expect(seq.Count()).To(Equal(7))
}

func TestPlot_TooShort(t *testing.T) {
	g := NewWithT(t)

	seq := NewFigureSeq()
	f := Plot(seq, "single", []float64{1}, "x")
	g.Expect(f.Number).To(Equal(1))
	g.Expect(f.Body).To(ContainSubstring("not enough samples"))

	f = PlotMany(seq, "none", [][]float64{{1}, nil}, "x")
	g.Expect(f.Number).To(Equal(2))
	g.Expect(f.Body).To(ContainSubstring("not enough samples"))
}

func TestDomainFigures(t *testing.T) {
	g := NewWithT(t)
	seq := NewFigureSeq()

	tbl, err := physics.NewLennardJones().Table(0.315, 1.0, 51)
	g.Expect(err).NotTo(HaveOccurred())
	lj := LennardJonesFigure(seq, tbl, 50)
	g.Expect(lj.Body).To(ContainSubstring("F/50"))

	p := physics.NewPuck()
	s1, err := p.Shoot(10, 20)
	g.Expect(err).NotTo(HaveOccurred())
	s2, err := p.Shoot(20, 20)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ShotFigures(seq, s1)).To(HaveLen(3))
	cmp := ShotComparison(seq, p, []*physics.Shot{s1, s2})
	g.Expect(cmp.Body).To(ContainSubstring("v0 = 10, 20 m/s"))

	surf := rdf.Build(rdf.DefaultColumns(), []rdf.Point{
		{Distance: 0.3, Temperature: 100, Value: 0},
		{Distance: 0.4, Temperature: 100, Value: 2.5},
		{Distance: 0.5, Temperature: 100, Value: 1},
		{Distance: 0.3, Temperature: 200, Value: 0},
		{Distance: 0.5, Temperature: 200, Value: 1.2},
	})
	fig := SurfaceFigure(seq, surf)
	g.Expect(fig.Body).To(ContainSubstring("T = 100, 200"))
	g.Expect(seq.Count()).To(Equal(6))
}

func TestCanvasPolyline(t *testing.T) {
	g := NewWithT(t)

	c := NewCanvas(10, 5)
	vp := Viewport{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}
	c.Polyline(vp, []float64{-1, 1}, []float64{-1, 1})

	out := c.String()
	g.Expect(strings.Count(out, "\n")).To(Equal(5))
	g.Expect(c.Grid[0][9]).NotTo(Equal(rune(blank)))
	g.Expect(c.Grid[4][0]).NotTo(Equal(rune(blank)))

	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			g.Expect(r).To(Equal(rune(blank)))
		}
	}

	c.Set(-1, 3)
	c.Set(100, 100)
	g.Expect(c.String()).To(Equal(NewCanvas(10, 5).String()))
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReplayUpdate(t *testing.T) {
	g := NewWithT(t)

	tr := sampleTrajectory(10)
	var m tea.Model = NewReplay("oscillator", tr, nil)

	m, cmd := m.Update(TickMsg{})
	g.Expect(cmd).NotTo(BeNil())
	g.Expect(m.(Replay).Frame()).To(Equal(1))

	m, _ = m.Update(key("+"))
	m, _ = m.Update(TickMsg{})
	g.Expect(m.(Replay).Frame()).To(Equal(3))

	m, _ = m.Update(key(" "))
	g.Expect(m.(Replay).Running()).To(BeFalse())
	m, _ = m.Update(TickMsg{})
	g.Expect(m.(Replay).Frame()).To(Equal(3))

	m, _ = m.Update(key("["))
	g.Expect(m.(Replay).Frame()).To(Equal(2))

	m, _ = m.Update(key("r"))
	g.Expect(m.(Replay).Frame()).To(Equal(0))
	for i := 0; i < 20; i++ {
		m, _ = m.Update(key("]"))
	}
	g.Expect(m.(Replay).Frame()).To(Equal(9))

	g.Expect(m.View()).To(ContainSubstring("OSCILLATOR"))
	g.Expect(m.View()).To(ContainSubstring("10/10"))

	_, cmd = m.Update(key("q"))
	g.Expect(cmd).NotTo(BeNil())
}

func TestReplayStopsAtEnd(t *testing.T) {
	g := NewWithT(t)

	var m tea.Model = NewReplay("osc", sampleTrajectory(3), nil)
	for i := 0; i < 5; i++ {
		m, _ = m.Update(TickMsg{})
	}
	g.Expect(m.(Replay).Frame()).To(Equal(2))
	g.Expect(m.(Replay).Running()).To(BeFalse())
}

func TestShotSummaryFigure(t *testing.T) {
	g := NewWithT(t)
	seq := NewFigureSeq()

	p := physics.NewPuck()
	summaries, err := p.Compare([]float64{20, 1, 10, 10}, 20)
	g.Expect(err).NotTo(HaveOccurred())

	fig := ShotSummaryFigure(seq, summaries)
	g.Expect(fig.Number).To(Equal(1))
	g.Expect(fig.Body).To(ContainSubstring("red: stop time [s], green: distance [m]"))
	g.Expect(fig.Body).To(ContainSubstring("v0 = 1..20 m/s"))
	g.Expect(summaries[0].V0).To(Equal(20.0))

	single := ShotSummaryFigure(seq, summaries[:1])
	g.Expect(single.Number).To(Equal(2))
	g.Expect(single.Body).To(ContainSubstring("not enough samples"))
}
