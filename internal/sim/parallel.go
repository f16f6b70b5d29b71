package sim

import (
	"context"
	"sync"

	"github.com/go-kit/kit/log"

	"github.com/san-kum/orbitsim/internal/orbit"
)

// Factory builds a fresh, independent integrator for one ensemble member.
type Factory func() (*orbit.Integrator, error)

// Ensemble runs the same system under several run configs concurrently.
// Every member owns its own registry, so no state is shared between goroutines.
type Ensemble struct {
	factory Factory
	metrics func(*orbit.Integrator) []Metric
	logger  log.Logger
}

func NewEnsemble(factory Factory, metrics func(*orbit.Integrator) []Metric, logger log.Logger) *Ensemble {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Ensemble{factory: factory, metrics: metrics, logger: logger}
}

// Run returns one result per config, in the same order.
func (e *Ensemble) Run(ctx context.Context, cfgs []Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			integ, err := e.factory()
			if err != nil {
				errs[idx] = err
				return
			}
			r := New(integ, log.With(e.logger, "member", idx))
			if e.metrics != nil {
				for _, m := range e.metrics(integ) {
					r.AddMetric(m)
				}
			}
			results[idx], errs[idx] = r.Run(ctx, cfgs[idx])
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
