package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/physlab/internal/analysis"
	"github.com/san-kum/physlab/internal/dynamo"
)

const (
	canvasWidth  = 48
	canvasHeight = 18
	trailLength  = 120
	frameRate    = time.Second / 30
	maxSpeed     = 64
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpText    = `
╔════════════════════════════════════╗
║          KEYBOARD SHORTCUTS        ║
╠════════════════════════════════════╣
║  Space  - Pause/Resume playback    ║
║  R      - Rewind to first sample   ║
║  [ / ]  - Step back/forward        ║
║  + / -  - Faster/slower playback   ║
║  ?      - Toggle this help         ║
║  Q      - Quit                     ║
╚════════════════════════════════════╝
`
)

type TickMsg time.Time

// Replay plays back a finished trajectory: a Braille phase-space trail on
// the left, the current sample and relative energy on the right.
type Replay struct {
	title    string
	tr       *dynamo.Trajectory
	rel      []float64
	viewport Viewport
	canvas   *Canvas
	frame    int
	speed    int
	running  bool
	showHelp bool
}

// NewReplay prepares a replay; rel is the E/E0 series and may be nil.
func NewReplay(title string, tr *dynamo.Trajectory, rel []float64) Replay {
	minX, maxX, minY, maxY := analysis.NewPhasePortrait(tr.Positions, tr.Velocities).Bounds()
	return Replay{
		title:    title,
		tr:       tr,
		rel:      rel,
		viewport: Viewport{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY},
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		speed:    1,
		running:  true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Replay) Init() tea.Cmd {
	return tick()
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.frame = 0
		case "[":
			m.running = false
			m.seek(-1)
		case "]":
			m.running = false
			m.seek(1)
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.seek(m.speed)
			if m.frame == m.tr.Len()-1 {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

// Frame is the index of the sample currently shown.
func (m Replay) Frame() int { return m.frame }

func (m Replay) Running() bool { return m.running }

func (m *Replay) seek(delta int) {
	m.frame = max(0, min(m.frame+delta, m.tr.Len()-1))
}

func (m *Replay) draw() {
	m.canvas.Clear()
	m.canvas.Axes(m.viewport)
	from := max(0, m.frame-trailLength)
	m.canvas.Polyline(m.viewport, m.tr.Positions[from:m.frame+1], m.tr.Velocities[from:m.frame+1])
}

func (m Replay) View() string {
	if m.tr.Len() == 0 {
		return Subtle.Render("empty trajectory") + "\n"
	}
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	status := StatusRunning.Render(fmt.Sprintf("PLAYING x%d", m.speed))
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}

	t, x, v := m.tr.Times[m.frame], m.tr.Positions[m.frame], m.tr.Velocities[m.frame]
	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(status + "\n\n")
	if m.rel != nil && m.frame > 0 {
		from := max(0, m.frame-4*plotWidth)
		chart := asciigraph.Plot(m.rel[from:m.frame+1], asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("E/E0"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(MetricLabel.Render("Sample") + MetricValue.Render(fmt.Sprintf("%d/%d", m.frame+1, m.tr.Len())) + "\n")
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.4f s", t)) + "\n")
	s.WriteString(MetricLabel.Render("Position") + MetricValue.Render(fmt.Sprintf("%+.5f m", x)) + "\n")
	s.WriteString(MetricLabel.Render("Velocity") + MetricValue.Render(fmt.Sprintf("%+.5f m/s", v)) + "\n")
	if m.rel != nil {
		s.WriteString(MetricLabel.Render("E/E0") + MetricValue.Render(fmt.Sprintf("%.6f", m.rel[m.frame])) + "\n")
	}
	if m.frame > 0 {
		s.WriteString(MetricLabel.Render("Step") + MetricValue.Render(fmt.Sprintf("%.3e s", m.tr.Steps[m.frame-1])) + "\n")
	}
	progress := float64(m.frame) / float64(max(m.tr.Len()-1, 1))
	s.WriteString("\n" + ProgressBar(progress, 30) + "\n")
	s.WriteString(KeyHint.Render("\nSP:Pause R:Rewind [ ]:Step\n+/-:Speed ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

// RunReplay blocks until the user quits the replay.
func RunReplay(title string, tr *dynamo.Trajectory, rel []float64) error {
	if tr.Len() == 0 {
		return fmt.Errorf("replay: empty trajectory")
	}
	_, err := tea.NewProgram(NewReplay(title, tr, rel), tea.WithAltScreen()).Run()
	return err
}
