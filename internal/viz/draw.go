package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/palette"
)

// trailFade is how far the oldest trail segment is blended into the
// background.
const trailFade = 0.7

// SystemExtent is the largest distance of any body or trail sample from the
// central body, used to fit the view.
func SystemExtent(reg *orbit.Registry) float64 {
	center := reg.Central().Position
	extent := 0.0
	grow := func(p r2.Vec) {
		d := r2.Sub(p, center)
		extent = math.Max(extent, math.Max(math.Abs(d.X), math.Abs(d.Y)))
	}
	for _, b := range reg.Orbiters() {
		grow(b.Position)
		if tr := b.Trail(); tr != nil {
			tr.Each(func(_ int, p r2.Vec) { grow(p) })
		}
	}
	return extent
}

// DrawSystem draws trails first and bodies on top. Trails fade from the
// body's colour toward bg as they age.
func DrawSystem(c *Canvas, proj Projection, reg *orbit.Registry, trails bool, bg colorful.Color) {
	if trails {
		for _, b := range reg.Orbiters() {
			drawTrail(c, proj, b, bg)
		}
	}

	central := reg.Central()
	c.Pen(palette.Hex(central.Color(), central.Name()))
	x, y := proj.ToScreen(central.Position)
	c.DrawDisc(x, y, 2)

	for _, b := range reg.Orbiters() {
		c.Pen(palette.Hex(b.Color(), b.Name()))
		x, y := proj.ToScreen(b.Position)
		c.DrawDisc(x, y, 1)
	}
	c.Pen("")
}

func drawTrail(c *Canvas, proj Projection, b *orbit.Body, bg colorful.Color) {
	tr := b.Trail()
	if tr == nil || tr.Len() == 0 {
		return
	}

	base := palette.Resolve(b.Color(), b.Name())
	n := tr.Len()
	px, py := proj.ToScreen(tr.At(0))
	for i := 0; i < n; i++ {
		age := 1 - float64(i)/float64(n)
		c.Pen(palette.Fade(base, bg, age*trailFade).Hex())
		x, y := proj.ToScreen(tr.At(i))
		// skip segments that wrap far off-canvas
		if absInt(x-px) < proj.W && absInt(y-py) < proj.H {
			c.DrawLine(px, py, x, y)
		}
		px, py = x, y
	}
}
