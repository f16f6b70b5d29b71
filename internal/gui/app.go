package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/palette"
)

const (
	screenWidth      = 1280
	screenHeight     = 720
	maxTelemetry     = 400
	maxStepsPerFrame = 1000
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColError   = rl.NewColor(228, 87, 46, 255)
)

// App draws one system in a raylib window and steps it every frame.
type App struct {
	Integ         *orbit.Integrator
	Name          string
	Dt            float64
	StepsPerFrame int
	Running       bool
	ShowTrails    bool
	Zoom          float64
	Telemetry     []float64
	Font          rl.Font
	Err           error

	extent float64
	drift  *metrics.EnergyDrift
	logger log.Logger
}

func initWindow(title string) {
	rl.InitWindow(screenWidth, screenHeight, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(integ *orbit.Integrator, name string, dt float64, stepsPerFrame int, logger log.Logger) *App {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	a := &App{
		Integ:         integ,
		Name:          name,
		Dt:            dt,
		StepsPerFrame: max(stepsPerFrame, 1),
		Running:       true,
		ShowTrails:    true,
		Zoom:          1,
		Telemetry:     make([]float64, 0, maxTelemetry),
		Font:          rl.GetFontDefault(),
		drift:         metrics.NewEnergyDrift(integ.G()),
		logger:        log.With(logger, "component", "gui"),
	}
	a.observe()
	return a
}

// Run opens the window and blocks until it is closed. The returned error is
// the step failure that halted the system, if any.
func Run(integ *orbit.Integrator, name string, dt float64, stepsPerFrame int, logger log.Logger) error {
	initWindow("orbitsim :: " + name)
	defer rl.CloseWindow()

	app := NewApp(integ, name, dt, stepsPerFrame, logger)
	app.RunLoop()
	return app.Err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and advances the system. It returns false on quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) && a.Err == nil {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		a.ShowTrails = !a.ShowTrails
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		a.StepsPerFrame = min(a.StepsPerFrame*2, maxStepsPerFrame)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		a.StepsPerFrame = max(a.StepsPerFrame/2, 1)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Zoom *= math.Pow(1.1, float64(wheel))
	}

	if a.Running {
		a.step()
	}
	return true
}

func (a *App) step() {
	for i := 0; i < a.StepsPerFrame; i++ {
		if err := a.Integ.Step(a.Dt); err != nil {
			a.Err = err
			a.Running = false
			level.Error(a.logger).Log("msg", "simulation halted", "err", err)
			return
		}
	}
	a.observe()
}

func (a *App) observe() {
	reg := a.Integ.Registry()
	for _, b := range reg.Orbiters() {
		a.extent = math.Max(a.extent, r2.Norm(r2.Sub(b.Position, reg.Central().Position)))
	}
	a.drift.Observe(reg, a.Integ.Time())
	if v := a.drift.Value(); !math.IsNaN(v) && !math.IsInf(v, 0) {
		a.Telemetry = append(a.Telemetry, v)
	}
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) reset() {
	a.Integ.Reset()
	a.drift.Reset()
	a.Telemetry = a.Telemetry[:0]
	a.extent = 0
	a.Err = nil
	a.Running = true
	a.observe()
}

// toScreen maps AU to pixels, keeping the whole system inside the shorter
// screen side.
func (a *App) toScreen(p r2.Vec) rl.Vector2 {
	extent := a.extent
	if !(extent > 0) {
		extent = 1
	}
	scale := 0.45 * float64(min(screenWidth, screenHeight)) / extent * a.Zoom
	d := r2.Sub(p, a.Integ.Registry().Central().Position)
	return rl.NewVector2(
		float32(screenWidth/2+d.X*scale),
		float32(screenHeight/2-d.Y*scale),
	)
}

func bodyColor(b *orbit.Body) rl.Color {
	r, g, bl, al := palette.RGBA8(palette.Resolve(b.Color(), b.Name()))
	return rl.NewColor(r, g, bl, al)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawSystem()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) drawSystem() {
	reg := a.Integ.Registry()

	if a.ShowTrails {
		for _, b := range reg.Orbiters() {
			tr := b.Trail()
			if tr == nil || tr.Len() < 2 {
				continue
			}
			points := make([]rl.Vector2, 0, tr.Len())
			tr.Each(func(_ int, p r2.Vec) { points = append(points, a.toScreen(p)) })
			rl.DrawLineStrip(points, rl.Fade(bodyColor(b), 0.6))
		}
	}

	central := reg.Central()
	rl.DrawCircleV(a.toScreen(central.Position), 14, bodyColor(central))
	for _, b := range reg.Orbiters() {
		pos := a.toScreen(b.Position)
		rl.DrawCircleV(pos, 5, bodyColor(b))
		a.drawText(b.Name(), int(pos.X)+8, int(pos.Y)-8, 14, ColText)
	}
}

func (a *App) DrawHUD() {
	a.drawText("orbitsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Name), 150, 34, 16, ColText)
	a.drawText(fmt.Sprintf("t = %.3f yr   steps %d   %d/frame", a.Integ.Time(), a.Integ.Steps(), a.StepsPerFrame), 30, 64, 16, ColText)

	a.DrawTelemetry()

	status, col := "RUNNING", ColSelect
	switch {
	case a.Err != nil:
		status, col = "HALTED", ColError
		a.drawText(a.Err.Error(), 30, 620, 14, ColError)
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	a.drawText("[SPACE] PAUSE  [R] RESET  [T] TRAILS  [ ] SPEED  [WHEEL] ZOOM  [Q] QUIT", 640, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the energy drift history as a normalized line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 520
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal, maxVal = math.Min(minVal, v), math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("dE/E: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
