package orbit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// BodySpec is the initial condition of one body.
type BodySpec struct {
	Name       string
	Mass       float64
	Position   r2.Vec
	Velocity   r2.Vec
	Color      string
	TrackTrail bool
}

// Body is one celestial object. Position and Velocity are mutated in place by
// the Integrator; everything else is fixed at construction.
type Body struct {
	Position r2.Vec
	Velocity r2.Vec

	name       string
	mass       float64
	color      string
	trackTrail bool
	trail      *Trail

	initPos r2.Vec
	initVel r2.Vec
}

func newBody(s BodySpec, capacity int) *Body {
	b := &Body{
		Position:   s.Position,
		Velocity:   s.Velocity,
		name:       s.Name,
		mass:       s.Mass,
		color:      s.Color,
		trackTrail: s.TrackTrail,
		initPos:    s.Position,
		initVel:    s.Velocity,
	}
	if s.TrackTrail {
		b.trail = NewTrail(capacity)
	}
	return b
}

func (b *Body) Name() string     { return b.name }
func (b *Body) Mass() float64    { return b.mass }
func (b *Body) Color() string    { return b.color }
func (b *Body) TrackTrail() bool { return b.trackTrail }

// Trail returns the body's trail, or nil when the body is not tracked.
func (b *Body) Trail() *Trail { return b.trail }

// TrailLen is zero for untracked bodies.
func (b *Body) TrailLen() int {
	if b.trail == nil {
		return 0
	}
	return b.trail.Len()
}

// AppendTrailSample records p if the body tracks its trail and is a no-op
// otherwise.
func (b *Body) AppendTrailSample(p r2.Vec) {
	if !b.trackTrail {
		return
	}
	b.trail.Push(p)
}

// Spec returns the body's construction-time initial condition.
func (b *Body) Spec() BodySpec {
	return BodySpec{
		Name:       b.name,
		Mass:       b.mass,
		Position:   b.initPos,
		Velocity:   b.initVel,
		Color:      b.color,
		TrackTrail: b.trackTrail,
	}
}

func (b *Body) reset() {
	b.Position = b.initPos
	b.Velocity = b.initVel
	if b.trail != nil {
		b.trail.Reset()
	}
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
