package viz

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/threephase/internal/config"
	"github.com/san-kum/threephase/internal/export"
	"github.com/san-kum/threephase/internal/loads"
	"github.com/san-kum/threephase/internal/render"
	"github.com/san-kum/threephase/internal/sim"
)

const (
	panelWidth    = 44
	defaultWidth  = 80
	defaultHeight = 24
	barWidth      = 14
	graphPoints   = 36
	coarseSteps   = 10
)

type TickMsg time.Time

type Options struct {
	Theme  string
	Preset string
	FPS    int
}

// Model is the terminal front end. The canvas shows the lower half of the
// window layout: phasor diagram on the left, waveforms on the right.
type Model struct {
	session  *sim.Session
	canvas   *Canvas
	frame    render.Frame
	theme    Theme
	st       styles
	events   []sim.Event
	last     time.Time
	interval time.Duration

	selected      int
	preset        int
	width, height int
	showHelp      bool
	status        string
}

func NewModel(opts Options) (Model, error) {
	theme, ok := GetTheme(opts.Theme)
	if !ok && opts.Theme != "" {
		return Model{}, fmt.Errorf("unknown theme %q (available: %v)", opts.Theme, ThemeNames())
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	m := Model{
		session:  sim.NewSession(1, 1),
		theme:    theme,
		st:       newStyles(theme),
		interval: time.Second / time.Duration(fps),
		preset:   -1,
	}
	if opts.Preset != "" {
		p, err := config.GetPreset(opts.Preset)
		if err != nil {
			return Model{}, err
		}
		m.events = append(m.events, sim.Event{Kind: sim.EventApplyLoads, PY: p.Y, PDelta: p.Delta})
		m.status = "preset " + opts.Preset
	}
	m.resize(defaultWidth, defaultHeight)
	m.frame = m.session.Frame(m.events, 0)
	m.events = nil
	m.draw()
	return m, nil
}

// Session exposes the simulation context, mainly for tests.
func (m Model) Session() *sim.Session { return m.session }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		now := time.Time(msg)
		elapsed := 0.0
		if !m.last.IsZero() {
			elapsed = now.Sub(m.last).Seconds()
		}
		m.last = now
		m.frame = m.session.Frame(m.events, elapsed)
		m.events = nil
		m.draw()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.session.Loads.Sliders())
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.events = append(m.events, sim.Event{Kind: sim.EventToggleClock})
	case "r":
		m.events = append(m.events, sim.Event{Kind: sim.EventResetLoads})
		m.preset = -1
		m.status = "loads reset"
	case "tab", "down", "j":
		m.selected = (m.selected + 1) % n
	case "shift+tab", "up", "k":
		m.selected = (m.selected + n - 1) % n
	case "right", "l":
		m.nudge(1)
	case "left", "h":
		m.nudge(-1)
	case "L", "shift+right":
		m.nudge(coarseSteps)
	case "H", "shift+left":
		m.nudge(-coarseSteps)
	case "p":
		names := config.ListPresets()
		m.preset = (m.preset + 1) % len(names)
		p := config.Presets[names[m.preset]]
		m.events = append(m.events, sim.Event{Kind: sim.EventApplyLoads, PY: p.Y, PDelta: p.Delta})
		m.status = "preset " + names[m.preset]
	case "t":
		m.theme = nextTheme(m.theme)
		m.st = newStyles(m.theme)
		m.status = "theme " + m.theme.Name
	case "s":
		m.status = m.snapshot()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) nudge(steps int) {
	m.events = append(m.events, sim.Event{Kind: sim.EventNudge, Slider: m.selected, Steps: steps})
}

func (m *Model) snapshot() string {
	name := fmt.Sprintf("threephase-%d.svg", time.Now().Unix())
	f, err := os.Create(name)
	if err != nil {
		return "snapshot failed: " + err.Error()
	}
	defer f.Close()
	if err := export.FrameToSVG(f, m.frame); err != nil {
		return "snapshot failed: " + err.Error()
	}
	return "saved " + name
}

// resize fits the canvas beside the side panel. The session viewport is
// twice the canvas height so its lower half lands on the canvas.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-panelWidth-6, 20)
	rows := max(h-2, 6)
	m.canvas = NewCanvas(cols, rows)
	dw, dh := m.canvas.Dots()
	m.session.Resize(dw, 2*dh)
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	f := m.frame
	if f.Viewport.Height == 0 {
		return
	}
	off := float64(f.Viewport.Height) / 2
	l := f.Layout

	ctr := l.DiagramCenter
	c.Segment(render.Segment{From: render.Point{X: ctr.X - l.AxisLength, Y: ctr.Y}, To: render.Point{X: ctr.X + l.AxisLength, Y: ctr.Y}}, off)
	c.Segment(render.Segment{From: render.Point{X: ctr.X, Y: ctr.Y - l.AxisLength}, To: render.Point{X: ctr.X, Y: ctr.Y + l.AxisLength}}, off)
	for _, ref := range f.References {
		for _, d := range render.Dashes(ref.Segment, 1, 3) {
			c.Segment(d, off)
		}
	}
	for k, a := range f.Phasors {
		m.arrow(a.Segment, off)
		for _, d := range render.Dashes(f.Guides[k], 1, 2) {
			c.Segment(d, off)
		}
	}
	if f.Neutral.Visible {
		m.arrow(f.Neutral.Segment, off)
	}

	o := l.WaveOrigin
	c.Segment(render.Segment{From: o, To: render.Point{X: o.X + l.WaveWidth, Y: o.Y}}, off)
	for _, tr := range f.Traces {
		c.Polyline(tr, off)
	}
}

func (m *Model) arrow(s render.Segment, off float64) {
	m.canvas.Segment(s, off)
	left, right, ok := render.ArrowHead(s, 3, 4)
	if !ok {
		return
	}
	m.canvas.Segment(render.Segment{From: s.To, To: left}, off)
	m.canvas.Segment(render.Segment{From: s.To, To: right}, off)
}

func (m Model) View() string {
	st := m.st
	var s strings.Builder

	s.WriteString(st.header.Render(fmt.Sprintf("THREE-PHASE LOADS  %.0f V", m.session.Voltage)) + "\n")
	clock := m.session.Clock
	if clock.Paused() {
		s.WriteString(st.paused.Render("STOPPED"))
	} else {
		s.WriteString(st.running.Render("RUNNING"))
	}
	s.WriteString(st.label.Render(fmt.Sprintf("  phase %.3f rad", clock.Phase())) + "\n\n")

	for i, sl := range m.session.Loads.Sliders() {
		fill := st.traces[i%3]
		if sl.Topology == loads.Delta {
			fill = st.deltaFg[i%3]
		}
		line := fmt.Sprintf("%-12s %s %5.0f W", sl.Label, st.bar(sl.Ratio(), barWidth, fill), sl.Value)
		if i == m.selected {
			s.WriteString(st.active.Render("> ") + line + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	s.WriteString(st.label.Render(fmt.Sprintf("  total %.0f W", m.session.Loads.TotalPower())) + "\n")
	s.WriteString(st.separator(panelWidth-4) + "\n")

	for i, p := range m.frame.Currents.All() {
		name := "i" + render.TraceNames[i]
		s.WriteString(st.traces[i].Render(fmt.Sprintf("%-4s", name)) +
			st.value.Render(fmt.Sprintf(" %6.2f A  %7.1f°", p.Magnitude, p.Degrees())) + "\n")
	}

	if g := m.graph(); g != "" {
		s.WriteString("\n" + g + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + st.label.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("\nSPC stop/start  R reset  P preset\n←→ adjust  ↑↓ select  ? help  Q quit"))

	panel := st.panel.Render(s.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, st.canvas.Render(m.canvas.String()), panel)
	if m.showHelp {
		return m.helpView() + "\n" + main
	}
	return main
}

// graph plots one period of every current, starting at the clock phase.
func (m Model) graph() string {
	all := m.frame.Currents.All()
	peak := 0.0
	for _, p := range all {
		peak = math.Max(peak, p.Magnitude)
	}
	if peak < 1e-9 {
		return ""
	}
	series := make([][]float64, len(all))
	for i, p := range all {
		series[i] = make([]float64, graphPoints)
		for j := range series[i] {
			theta := m.frame.Phase + 2*math.Pi*float64(j)/graphPoints
			series[i][j] = p.Instant(theta)
		}
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(6),
		asciigraph.Width(panelWidth-12),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.White),
		asciigraph.Caption("i(θ) [A]"))
}

func (m Model) helpView() string {
	return m.st.panel.Render(strings.Join([]string{
		m.st.header.Render("KEYS"),
		"Space        stop / start the rotation",
		"R            reset all loads to 0 W",
		"Tab ↑ ↓      select a load",
		"← →          adjust by 10 W",
		"Shift ← →    adjust by 100 W",
		"P            cycle presets",
		"T            cycle themes",
		"S            save SVG snapshot",
		"Q            quit",
	}, "\n"))
}
