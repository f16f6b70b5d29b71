package orbit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Registry owns the central body and the bodies orbiting it.
// Bodies are never added or removed after construction.
type Registry struct {
	central  *Body
	orbiters []*Body
	byName   map[string]*Body

	trailCap int
	minSep   float64
}

type registryOptions struct {
	trailCap int
	minSep   float64
}

// RegistryOption configures NewRegistry.
type RegistryOption func(*registryOptions)

// WithTrailCapacity sets the per-body trail capacity. The default is 500.
func WithTrailCapacity(n int) RegistryOption {
	return func(o *registryOptions) { o.trailCap = n }
}

// WithMinSeparation sets the smallest accepted orbiter distance to the
// central body, both at construction and in strict stepping.
func WithMinSeparation(eps float64) RegistryOption {
	return func(o *registryOptions) { o.minSep = eps }
}

// NewRegistry validates the initial conditions and builds the registry.
// The first failing body is reported as a *ConfigError.
func NewRegistry(central BodySpec, orbiters []BodySpec, opts ...RegistryOption) (*Registry, error) {
	o := registryOptions{trailCap: DefaultTrailCapacity, minSep: DefaultMinSeparation}
	for _, opt := range opts {
		opt(&o)
	}
	if o.trailCap < 1 {
		return nil, &ConfigError{Wrapped: ErrInvalidCapacity}
	}
	if o.minSep < 0 || math.IsNaN(o.minSep) {
		o.minSep = 0
	}

	if err := validateSpec(central); err != nil {
		return nil, err
	}
	if central.Velocity != (r2.Vec{}) {
		return nil, &ConfigError{Body: central.Name, Wrapped: ErrCentralMoving}
	}

	r := &Registry{
		central:  newBody(central, o.trailCap),
		orbiters: make([]*Body, 0, len(orbiters)),
		byName:   make(map[string]*Body, len(orbiters)+1),
		trailCap: o.trailCap,
		minSep:   o.minSep,
	}
	r.byName[central.Name] = r.central

	for _, s := range orbiters {
		if err := validateSpec(s); err != nil {
			return nil, err
		}
		if _, dup := r.byName[s.Name]; dup {
			return nil, &ConfigError{Body: s.Name, Wrapped: ErrDuplicateName}
		}
		if s.Mass >= central.Mass {
			return nil, &ConfigError{Body: s.Name, Wrapped: ErrMassOrdering}
		}
		if sep := r2.Norm(r2.Sub(central.Position, s.Position)); sep <= o.minSep {
			return nil, &ConfigError{Body: s.Name, Wrapped: ErrDegenerateConfiguration}
		}
		b := newBody(s, o.trailCap)
		r.orbiters = append(r.orbiters, b)
		r.byName[s.Name] = b
	}

	return r, nil
}

func validateSpec(s BodySpec) error {
	if s.Name == "" {
		return &ConfigError{Wrapped: ErrEmptyName}
	}
	if !(s.Mass > 0) || math.IsInf(s.Mass, 0) {
		return &ConfigError{Body: s.Name, Wrapped: ErrInvalidMass}
	}
	if !finite(s.Position) || !finite(s.Velocity) {
		return &ConfigError{Body: s.Name, Wrapped: ErrNonFinite}
	}
	return nil
}

// Central returns the central body. Callers must not mutate it.
func (r *Registry) Central() *Body { return r.central }

// Orbiters returns the non-central bodies in registry order.
func (r *Registry) Orbiters() []*Body { return r.orbiters }

// Bodies returns every body, central first.
func (r *Registry) Bodies() []*Body {
	all := make([]*Body, 0, len(r.orbiters)+1)
	all = append(all, r.central)
	return append(all, r.orbiters...)
}

// Lookup finds a body by name.
func (r *Registry) Lookup(name string) (*Body, bool) {
	b, ok := r.byName[name]
	return b, ok
}

func (r *Registry) Len() int               { return len(r.orbiters) + 1 }
func (r *Registry) TrailCapacity() int     { return r.trailCap }
func (r *Registry) MinSeparation() float64 { return r.minSep }

// Reset restores every body's initial position and velocity and clears trails.
func (r *Registry) Reset() {
	r.central.reset()
	for _, b := range r.orbiters {
		b.reset()
	}
}
