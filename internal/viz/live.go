package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/palette"
)

const (
	historyCapacity = 600
	maxStepsPerTick = 1000
	panelWidth      = 46
	minCanvasWidth  = 20
	minCanvasHeight = 8
)

// Options configures the live view.
type Options struct {
	Name          string
	Dt            float64
	StepsPerFrame int
	FrameRate     int
	Width, Height int
	Theme         string
}

func DefaultOptions() Options {
	return Options{
		Name:          "system",
		Dt:            orbit.DefaultTimestep,
		StepsPerFrame: 1,
		FrameRate:     60,
		Width:         80,
		Height:        24,
		Theme:         ThemeDeepSpace.Name,
	}
}

type TickMsg time.Time

// Model steps an integrator on every tick and draws the system as braille.
type Model struct {
	integ    *orbit.Integrator
	reg      *orbit.Registry
	opts     Options
	canvas   *Canvas
	extent   float64
	zoom     float64
	running  bool
	trails   bool
	showHelp bool
	theme    int
	st       styles
	drift    *metrics.EnergyDrift
	energy   []float64
	err      error
}

// NewModel wraps integ for interactive display. Zero-valued options take
// their defaults.
func NewModel(integ *orbit.Integrator, opts Options) Model {
	def := DefaultOptions()
	if opts.Dt <= 0 {
		opts.Dt = def.Dt
	}
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = def.StepsPerFrame
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = def.FrameRate
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.Name == "" {
		opts.Name = def.Name
	}

	theme := 0
	for i, t := range Themes {
		if t.Name == opts.Theme {
			theme = i
		}
	}

	m := Model{
		integ:   integ,
		reg:     integ.Registry(),
		opts:    opts,
		canvas:  NewCanvas(opts.Width-panelWidth, opts.Height-4),
		zoom:    1,
		running: true,
		trails:  true,
		theme:   theme,
		st:      newStyles(Themes[theme]),
		drift:   metrics.NewEnergyDrift(integ.G()),
		energy:  make([]float64, 0, historyCapacity),
	}
	if m.canvas.Width < minCanvasWidth || m.canvas.Height < minCanvasHeight {
		m.canvas = NewCanvas(max(m.canvas.Width, minCanvasWidth), max(m.canvas.Height, minCanvasHeight))
	}
	m.observe()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FrameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := max(msg.Width-panelWidth-4, minCanvasWidth)
		h := max(msg.Height-4, minCanvasHeight)
		m.canvas = NewCanvas(w, h)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			if m.err == nil {
				m.running = !m.running
			}
		case "s":
			if !m.running && m.err == nil {
				m.step(1)
			}
		case "r":
			m.reset()
		case "+", "=":
			m.zoom *= 1.25
		case "-", "_":
			m.zoom /= 1.25
		case "]":
			m.opts.StepsPerFrame = min(m.opts.StepsPerFrame*2, maxStepsPerTick)
		case "[":
			m.opts.StepsPerFrame = max(m.opts.StepsPerFrame/2, 1)
		case "t":
			m.trails = !m.trails
		case "c":
			m.theme = (m.theme + 1) % len(Themes)
			m.st = newStyles(Themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step(m.opts.StepsPerFrame)
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances n integrator steps, stopping at the first failure.
func (m *Model) step(n int) {
	for i := 0; i < n; i++ {
		if err := m.integ.Step(m.opts.Dt); err != nil {
			m.err = err
			m.running = false
			return
		}
	}
	m.observe()
}

func (m *Model) observe() {
	m.extent = math.Max(m.extent, SystemExtent(m.reg))
	m.drift.Observe(m.reg, m.integ.Time())
	// non-strict runs can go non-finite, which asciigraph cannot plot
	if e := totalEnergy(m.integ); !math.IsNaN(e) && !math.IsInf(e, 0) {
		m.energy = append(m.energy, e)
	}
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) reset() {
	m.integ.Reset()
	m.drift.Reset()
	m.energy = m.energy[:0]
	m.extent = 0
	m.err = nil
	m.running = true
	m.observe()
}

// totalEnergy sums m*ε over the orbiters.
func totalEnergy(integ *orbit.Integrator) float64 {
	reg := integ.Registry()
	e := 0.0
	for _, b := range reg.Orbiters() {
		e += b.Mass() * metrics.SpecificEnergy(integ.G(), reg.Central(), b)
	}
	return e
}

// draw renders the system into the canvas. The extent only ever widens so
// the view does not jitter as bodies move.
func (m Model) draw() {
	proj := FitProjection(m.reg.Central().Position, m.extent, m.canvas.SubWidth(), m.canvas.SubHeight()).Zoom(m.zoom)

	m.canvas.Clear()
	DrawSystem(m.canvas, proj, m.reg, m.trails, Themes[m.theme].BackgroundColor())
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := m.st.canvas.Render(m.canvas.Render())

	theme := Themes[m.theme]
	var s strings.Builder
	s.WriteString(m.st.header.Render(GradientText(strings.ToUpper(m.opts.Name), theme.Primary, theme.Accent)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(m.st.failed.Render("HALTED") + "\n")
	case m.running:
		s.WriteString(m.st.status.Render("RUNNING") + "\n")
	default:
		s.WriteString(m.st.paused.Render("PAUSED") + "\n")
	}
	s.WriteString("\n")

	s.WriteString(m.st.label.Render("Time") + m.st.value.Render(fmt.Sprintf("%.3f yr", m.integ.Time())) + "\n")
	s.WriteString(m.st.label.Render("Steps") + m.st.value.Render(fmt.Sprintf("%d", m.integ.Steps())) + "\n")
	s.WriteString(m.st.label.Render("Speed") + m.st.value.Render(fmt.Sprintf("%d × %g yr", m.opts.StepsPerFrame, m.opts.Dt)) + "\n")
	s.WriteString(m.st.label.Render("Drift") + m.st.value.Render(fmt.Sprintf("%.2e", m.drift.Value())) + "\n\n")

	central := m.reg.Central()
	for _, b := range m.reg.Orbiters() {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Hex(b.Color(), b.Name()))).Width(10).Render(b.Name())
		s.WriteString(name + m.st.value.Render(fmt.Sprintf("r = %.3f AU", metrics.Radius(central, b))) + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(m.st.graph.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + m.st.failed.Width(panelWidth-6).Render(m.err.Error()) + "\n")
	}

	s.WriteString(m.st.help.Render("SP:Pause S:Step R:Reset Q:Quit\n+/-:Zoom [ ]:Speed T:Trails ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.panel.Render(s.String()))

	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  S        - Single step when paused  ║
║  R        - Reset to initial state   ║
║  Q        - Quit                     ║
║  + / -    - Zoom in / out            ║
║  ] / [    - Double / halve speed     ║
║  T        - Toggle trails            ║
║  C        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Err is the step failure that halted the view, if any.
func (m Model) Err() error { return m.err }

// Run opens the live view in the alternate screen and blocks until quit.
func Run(integ *orbit.Integrator, opts Options) error {
	final, err := tea.NewProgram(NewModel(integ, opts), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
