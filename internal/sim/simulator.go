package sim

import (
	"context"
	"math"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/san-kum/orbitsim/internal/orbit"
)

// Runner is the headless driver: it calls Step in a loop and samples the
// registry between steps.
type Runner struct {
	integ     *orbit.Integrator
	metrics   []Metric
	observers []Observer
	logger    log.Logger
}

func New(integ *orbit.Integrator, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{
		integ:     integ,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.With(logger, "component", "runner"),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Integrator() *orbit.Integrator { return r.integ }

// Run advances cfg.Steps steps. The initial state is always sampled, then
// every cfg.SampleEvery steps, and the final state once more if it was not
// already on the sampling grid. On a step failure the partial result is
// returned along with the error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	reg := r.integ.Registry()
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Samples: make([]Snapshot, 0, cfg.Steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
		m.Observe(reg, r.integ.Time())
	}
	result.Samples = append(result.Samples, Capture(reg, r.integ.Steps(), r.integ.Time()))

	level.Info(r.logger).Log("msg", "run started", "bodies", reg.Len(), "steps", cfg.Steps, "dt", cfg.Dt)
	start := time.Now()

	var runErr error
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			r.collect(result)
			level.Warn(r.logger).Log("msg", "run canceled", "step", result.StepsTaken)
			return result, ctx.Err()
		default:
		}

		if err := r.integ.Step(cfg.Dt); err != nil {
			result.Errors = append(result.Errors, err)
			level.Error(r.logger).Log("msg", "step failed", "step", r.integ.Steps(), "err", err)
			runErr = err
			break
		}
		result.StepsTaken++

		t := r.integ.Time()
		for _, m := range r.metrics {
			m.Observe(reg, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(reg, r.integ.Steps(), t)
		}

		if result.StepsTaken%every == 0 {
			result.Samples = append(result.Samples, Capture(reg, r.integ.Steps(), t))
		}
	}

	if runErr == nil && result.StepsTaken%every != 0 {
		result.Samples = append(result.Samples, Capture(reg, r.integ.Steps(), r.integ.Time()))
	}

	result.Elapsed = time.Since(start)
	r.collect(result)

	level.Info(r.logger).Log("msg", "run finished", "steps", result.StepsTaken, "samples", len(result.Samples), "elapsed", result.Elapsed)
	return result, runErr
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return ConfigError{Field: "dt", Value: cfg.Dt}
	}
	if cfg.Steps <= 0 {
		return ConfigError{Field: "steps", Value: cfg.Steps}
	}
	return nil
}
