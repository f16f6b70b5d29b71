package analysis

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/sim"
)

// PhasePortrait holds (radius, radial velocity) pairs of one body.
type PhasePortrait struct {
	Body   string
	Points []r2.Vec
}

// RadialPhase builds the (r, dr/dt) portrait of a body relative to the
// central body from the samples of a run. A closed loop means a bound orbit.
func RadialPhase(res *sim.Result, body string) (*PhasePortrait, error) {
	series := res.Series(body)
	if series == nil {
		return nil, fmt.Errorf("analysis: unknown body %q", body)
	}

	portrait := &PhasePortrait{Body: body, Points: make([]r2.Vec, len(series))}
	for i, s := range series {
		c := res.Samples[i].Bodies[0]
		d := r2.Sub(s.Position, c.Position)
		r := r2.Norm(d)
		vr := 0.0
		if r > 0 {
			vr = r2.Dot(d, r2.Sub(s.Velocity, c.Velocity)) / r
		}
		portrait.Points[i] = r2.Vec{X: r, Y: vr}
	}
	return portrait, nil
}

// ToASCII plots points on a width x height character grid with 10% padding.
func ToASCII(points []r2.Vec, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Apsides summarizes the closest and farthest approach of a body and the
// times it passed periapsis.
type Apsides struct {
	Periapsis float64
	Apoapsis  float64
	Passages  []float64
}

// FindApsides scans the radial velocity of a body for negative-to-positive
// crossings. Passage times are linearly interpolated between samples.
func FindApsides(res *sim.Result, body string) (Apsides, error) {
	portrait, err := RadialPhase(res, body)
	if err != nil {
		return Apsides{}, err
	}
	if len(portrait.Points) == 0 {
		return Apsides{}, ErrTooFewSamples
	}

	a := Apsides{Periapsis: math.Inf(1), Apoapsis: 0}
	for i, p := range portrait.Points {
		a.Periapsis = math.Min(a.Periapsis, p.X)
		a.Apoapsis = math.Max(a.Apoapsis, p.X)
		if i == 0 {
			continue
		}

		prev := portrait.Points[i-1].Y
		if prev < 0 && p.Y >= 0 {
			frac := -prev / (p.Y - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			t0, t1 := res.Samples[i-1].Time, res.Samples[i].Time
			a.Passages = append(a.Passages, t0+frac*(t1-t0))
		}
	}
	return a, nil
}

// Period is the mean interval between periapsis passages.
func (a Apsides) Period() (float64, bool) {
	if len(a.Passages) < 2 {
		return 0, false
	}
	return (a.Passages[len(a.Passages)-1] - a.Passages[0]) / float64(len(a.Passages)-1), true
}

func (a Apsides) SemiMajorAxis() float64 {
	return (a.Periapsis + a.Apoapsis) / 2
}

func (a Apsides) Eccentricity() float64 {
	if a.Apoapsis+a.Periapsis == 0 {
		return 0
	}
	return (a.Apoapsis - a.Periapsis) / (a.Apoapsis + a.Periapsis)
}
