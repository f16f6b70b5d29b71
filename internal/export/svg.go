package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/palette"
)

const svgBackground = "#0a0a0a"

// TrailsToSVG draws every tracked trail as a polyline in its body's colour,
// with each body's current position as a disc. The view is square, centred
// on the central body and padded by 10%.
func TrailsToSVG(reg *orbit.Registry, width, height int) string {
	if reg == nil || width <= 0 || height <= 0 {
		return ""
	}

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
	if extent == 0 {
		extent = 1
	}
	extent *= 1.1

	scale := math.Min(float64(width), float64(height)) / (2 * extent)
	project := func(p r2.Vec) (float64, float64) {
		d := r2.Sub(p, center)
		return float64(width)/2 + d.X*scale, float64(height)/2 - d.Y*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, svgBackground)

	for _, b := range reg.Orbiters() {
		tr := b.Trail()
		if tr == nil || tr.Len() < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<polyline id="trail-%s" fill="none" stroke="%s" stroke-width="1.5" stroke-opacity="0.8" points="`,
			html.EscapeString(b.Name()), palette.Hex(b.Color(), b.Name()))
		tr.Each(func(i int, p r2.Vec) {
			x, y := project(p)
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		})
		sb.WriteString("\"/>\n")
	}

	c := reg.Central()
	cx, cy := project(c.Position)
	fmt.Fprintf(&sb, `<circle id="body-%s" cx="%.1f" cy="%.1f" r="8" fill="%s"/>
`, html.EscapeString(c.Name()), cx, cy, palette.Hex(c.Color(), c.Name()))

	for _, b := range reg.Orbiters() {
		x, y := project(b.Position)
		fmt.Fprintf(&sb, `<circle id="body-%s" cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, html.EscapeString(b.Name()), x, y, palette.Hex(b.Color(), b.Name()))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
