package viz

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/orbit"
)

func newModel(t *testing.T, preset string, opts Options) Model {
	t.Helper()
	_, integ, err := config.GetPreset(preset).Build()
	if err != nil {
		t.Fatalf("build %s: %v", preset, err)
	}
	return NewModel(integ, opts)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_TickSteps(t *testing.T) {
	m := newModel(t, "solar", Options{StepsPerFrame: 5})

	m = update(m, TickMsg{})
	m = update(m, TickMsg{})

	if got := m.integ.Steps(); got != 10 {
		t.Errorf("expected 10 steps after two ticks, got %d", got)
	}
	if earth, _ := m.reg.Lookup("Earth"); earth.TrailLen() != 10 {
		t.Errorf("expected 10 trail samples, got %d", earth.TrailLen())
	}
}

func TestModel_PauseAndStep(t *testing.T) {
	m := newModel(t, "earth", Options{StepsPerFrame: 3})

	m = update(m, key(" "))
	if m.running {
		t.Fatal("expected model to pause")
	}
	m = update(m, TickMsg{})
	if m.integ.Steps() != 0 {
		t.Errorf("paused model advanced %d steps", m.integ.Steps())
	}

	m = update(m, key("s"))
	if m.integ.Steps() != 1 {
		t.Errorf("single step advanced %d steps", m.integ.Steps())
	}

	m = update(m, key(" "))
	if !m.running {
		t.Error("expected model to resume")
	}
}

func TestModel_Reset(t *testing.T) {
	m := newModel(t, "earth", Options{StepsPerFrame: 50})
	for i := 0; i < 4; i++ {
		m = update(m, TickMsg{})
	}

	m = update(m, key("r"))

	if m.integ.Steps() != 0 || m.integ.Time() != 0 {
		t.Errorf("counters not reset: %d, %f", m.integ.Steps(), m.integ.Time())
	}
	earth, _ := m.reg.Lookup("Earth")
	if earth.Position != (r2.Vec{X: 1, Y: 0}) || earth.TrailLen() != 0 {
		t.Errorf("Earth not reset: %v, trail %d", earth.Position, earth.TrailLen())
	}
	if len(m.energy) != 1 {
		t.Errorf("expected energy history to restart, got %d points", len(m.energy))
	}
}

func TestModel_SpeedAndZoom(t *testing.T) {
	m := newModel(t, "earth", Options{StepsPerFrame: 4})

	m = update(m, key("]"))
	if m.opts.StepsPerFrame != 8 {
		t.Errorf("expected 8 steps per frame, got %d", m.opts.StepsPerFrame)
	}
	for i := 0; i < 5; i++ {
		m = update(m, key("["))
	}
	if m.opts.StepsPerFrame != 1 {
		t.Errorf("expected speed floor of 1, got %d", m.opts.StepsPerFrame)
	}

	m = update(m, key("+"))
	if m.zoom != 1.25 {
		t.Errorf("expected zoom 1.25, got %f", m.zoom)
	}
	m = update(m, key("-"))
	if m.zoom != 1 {
		t.Errorf("expected zoom 1, got %f", m.zoom)
	}
}

func TestModel_ToggleAndTheme(t *testing.T) {
	m := newModel(t, "earth", Options{})

	m = update(m, key("t"))
	if m.trails {
		t.Error("expected trails off")
	}
	m = update(m, key("c"))
	if m.theme != 1 {
		t.Errorf("expected second theme, got %d", m.theme)
	}
	m = update(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help overlay")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, "earth", Options{})
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_HaltsOnStepError(t *testing.T) {
	reg, err := orbit.NewRegistry(
		orbit.BodySpec{Name: "Sun", Mass: 1},
		[]orbit.BodySpec{{Name: "Probe", Mass: 1e-9, Position: r2.Vec{X: 1}}},
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	m := NewModel(orbit.NewIntegrator(reg), Options{StepsPerFrame: 10})
	probe, _ := reg.Lookup("Probe")
	probe.Position = r2.Vec{}

	m = update(m, TickMsg{})

	if m.Err() == nil || !errors.Is(m.Err(), orbit.ErrDegenerateConfiguration) {
		t.Fatalf("expected degenerate configuration, got %v", m.Err())
	}
	if m.running {
		t.Error("expected model to stop running")
	}
	if !strings.Contains(m.View(), "HALTED") {
		t.Error("expected halted status in view")
	}
	m = update(m, key(" "))
	if m.running {
		t.Error("halted model must not resume")
	}
}

func TestModel_View(t *testing.T) {
	m := newModel(t, "solar", Options{Name: "solar", StepsPerFrame: 20})
	for i := 0; i < 5; i++ {
		m = update(m, TickMsg{})
	}

	view := m.View()
	for _, want := range []string{"RUNNING", "Earth", "Mars", "Venus", "Mercury", "AU", "Energy"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_WindowResize(t *testing.T) {
	m := newModel(t, "earth", Options{})
	m = update(m, tea.WindowSizeMsg{Width: 150, Height: 40})

	if m.canvas.Width != 150-panelWidth-4 || m.canvas.Height != 36 {
		t.Errorf("unexpected canvas size %dx%d", m.canvas.Width, m.canvas.Height)
	}

	m = update(m, tea.WindowSizeMsg{Width: 10, Height: 5})
	if m.canvas.Width != minCanvasWidth || m.canvas.Height != minCanvasHeight {
		t.Errorf("expected minimum canvas, got %dx%d", m.canvas.Width, m.canvas.Height)
	}
}

func TestDrawSystem(t *testing.T) {
	m := newModel(t, "earth", Options{StepsPerFrame: 100})
	m = update(m, TickMsg{})

	c := NewCanvas(40, 20)
	proj := FitProjection(r2.Vec{}, SystemExtent(m.reg), c.SubWidth(), c.SubHeight())
	DrawSystem(c, proj, m.reg, true, ThemeDeepSpace.BackgroundColor())

	cx, cy := proj.ToScreen(r2.Vec{})
	if !c.Lit(cx, cy) {
		t.Error("central body not drawn")
	}
	earth, _ := m.reg.Lookup("Earth")
	ex, ey := proj.ToScreen(earth.Position)
	if !c.Lit(ex, ey) {
		t.Error("Earth not drawn")
	}
	oldest, _ := earth.Trail().Oldest()
	ox, oy := proj.ToScreen(oldest)
	if !c.Lit(ox, oy) {
		t.Error("trail start not drawn")
	}
	if c.Ink[cy/4][cx/2] != "#ffd23f" {
		t.Errorf("expected the Sun in yellow, got %q", c.Ink[cy/4][cx/2])
	}
}

func TestWatcher(t *testing.T) {
	m := newModel(t, "earth", Options{})

	var buf bytes.Buffer
	w := NewWatcher(&buf, "earth", 0, 30, 10)
	w.Start()
	for i := 1; i <= 3; i++ {
		if err := m.integ.Step(0.002); err != nil {
			t.Fatal(err)
		}
		w.OnStep(m.reg, i, m.integ.Time())
	}
	w.Stop()

	if w.Frames != 3 {
		t.Errorf("expected 3 frames, got %d", w.Frames)
	}
	out := buf.String()
	if !strings.Contains(out, "earth  t=0.006 yr  step 3") {
		t.Errorf("missing frame header in output")
	}
	if !strings.HasPrefix(out, hideCursor) || !strings.HasSuffix(out, showCursor) {
		t.Error("cursor not hidden and restored")
	}
}

func TestWatcher_FrameRateLimit(t *testing.T) {
	m := newModel(t, "earth", Options{})

	var buf bytes.Buffer
	w := NewWatcher(&buf, "earth", 1, 30, 10)
	for i := 0; i < 50; i++ {
		w.OnStep(m.reg, i, 0)
	}
	if w.Frames != 1 {
		t.Errorf("expected a single frame within one second, got %d", w.Frames)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8); got != "▁▂▃▄▅▆▇█" {
		t.Errorf("unexpected sparkline %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("unexpected empty sparkline %q", got)
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("retro").Name != "retro" {
		t.Error("expected retro theme")
	}
	if GetTheme("nope").Name != ThemeDeepSpace.Name {
		t.Error("expected fallback to the default theme")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}
