package orbit

import (
	"errors"
	"fmt"
)

// Domain errors for registry construction and stepping.
var (
	// ErrDegenerateConfiguration indicates a body at (or too close to) the central body.
	ErrDegenerateConfiguration = errors.New("orbit: degenerate configuration (body coincides with central body)")

	// ErrInvalidMass indicates a non-positive or non-finite mass.
	ErrInvalidMass = errors.New("orbit: mass must be positive and finite")

	// ErrMassOrdering indicates an orbiter at least as heavy as the central body.
	ErrMassOrdering = errors.New("orbit: orbiter mass must be below central mass")

	// ErrInvalidTimestep indicates a non-positive or non-finite dt.
	ErrInvalidTimestep = errors.New("orbit: timestep must be positive and finite")

	// ErrNonFinite indicates a NaN or Inf component in a position or velocity.
	ErrNonFinite = errors.New("orbit: non-finite vector component")

	ErrEmptyName     = errors.New("orbit: body name is empty")
	ErrDuplicateName = errors.New("orbit: duplicate body name")

	// ErrCentralMoving indicates a central body with a non-zero initial velocity.
	ErrCentralMoving = errors.New("orbit: central body must start at rest")

	ErrInvalidCapacity = errors.New("orbit: trail capacity must be at least 1")
)

// ConfigError reports a construction-time violation for a single body.
type ConfigError struct {
	Body    string
	Wrapped error
}

func (e *ConfigError) Error() string {
	if e.Body == "" {
		return e.Wrapped.Error()
	}
	return fmt.Sprintf("body %q: %v", e.Body, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

// StepError reports a failed step. No body was advanced.
type StepError struct {
	Step       int
	Time       float64
	Body       string
	Separation float64
	Wrapped    error
}

func (e *StepError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f): body %q at r=%g: %v", e.Step, e.Time, e.Body, e.Separation, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
