package viz

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/san-kum/orbitsim/internal/orbit"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Watcher redraws a plain braille frame to w while a headless run
// progresses. It implements sim.Observer.
type Watcher struct {
	name      string
	w         io.Writer
	interval  time.Duration
	lastFrame time.Time
	canvas    *Canvas
	extent    float64
	Frames    int
}

// NewWatcher draws at most frameRate frames per second; zero or less draws
// every step.
func NewWatcher(w io.Writer, name string, frameRate, width, height int) *Watcher {
	var interval time.Duration
	if frameRate > 0 {
		interval = time.Second / time.Duration(frameRate)
	}
	return &Watcher{
		name:     name,
		w:        w,
		interval: interval,
		canvas:   NewCanvas(width, height),
	}
}

func (r *Watcher) OnStep(reg *orbit.Registry, step int, t float64) {
	if r.interval > 0 && time.Since(r.lastFrame) < r.interval {
		return
	}
	r.lastFrame = time.Now()

	r.extent = math.Max(r.extent, SystemExtent(reg))
	proj := FitProjection(reg.Central().Position, r.extent, r.canvas.SubWidth(), r.canvas.SubHeight())

	r.canvas.Clear()
	DrawSystem(r.canvas, proj, reg, true, ThemeMinimal.BackgroundColor())
	r.render(step, t)
}

func (r *Watcher) render(step int, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.3f yr  step %d\n", r.name, t, step))
	b.WriteString("  " + strings.Repeat("-", r.canvas.Width) + "\n")

	for _, row := range r.canvas.Grid {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", r.canvas.Width) + "\n")
	io.WriteString(r.w, b.String())
	r.Frames++
}

func (r *Watcher) Start() { io.WriteString(r.w, hideCursor) }
func (r *Watcher) Stop()  { io.WriteString(r.w, showCursor) }
