package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-kit/kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

func standardMetrics(integ *orbit.Integrator) []sim.Metric {
	return []sim.Metric{
		metrics.NewRadiusDrift(),
		metrics.NewEnergyDrift(integ.G()),
		metrics.NewAngularMomentumDrift(),
		metrics.NewMinSeparation(),
	}
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// simulate builds cfg and runs it headless with the standard metrics.
func simulate(cfg *config.Config, observers ...sim.Observer) (*orbit.Registry, *sim.Result, error) {
	reg, integ, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}

	runner := sim.New(integ, logger)
	for _, m := range standardMetrics(integ) {
		runner.AddMetric(m)
	}
	for _, o := range observers {
		runner.AddObserver(o)
	}

	ctx, stop := interruptContext()
	defer stop()
	res, err := runner.Run(ctx, cfg.RunConfig())
	return reg, res, err
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var fmtSel export.Format
	if save {
		if fmtSel, err = export.ParseFormat(saveFormat); err != nil {
			return err
		}
	}

	var observers []sim.Observer
	if watch {
		w := viz.NewWatcher(os.Stdout, cfg.Name, watchFPS, 60, 20)
		w.Start()
		defer w.Stop()
		observers = append(observers, w)
	}

	fmt.Printf("running %s (%d bodies, dt=%g yr, %d steps)...\n", cfg.Name, len(cfg.Bodies), cfg.Dt, cfg.Steps)
	reg, res, runErr := simulate(cfg, observers...)
	if res == nil {
		return runErr
	}

	printSummary(reg, res)
	if plot {
		plotRadii(res)
	}

	if save {
		st := export.NewStore(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(export.NewMetadata(cfg.Name, cfg.G, cfg.RunConfig(), res), fmtSel, res, reg)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return runErr
}

func printSummary(reg *orbit.Registry, res *sim.Result) {
	fmt.Printf("completed %d steps in %v\n\n", res.StepsTaken, res.Elapsed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tX\tY\tRADIUS\tTRAIL")
	central := reg.Central()
	for _, b := range reg.Orbiters() {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%d\n",
			b.Name(), b.Position.X, b.Position.Y, metrics.Radius(central, b), b.TrailLen())
	}
	w.Flush()

	fmt.Println("\nmetrics:")
	for _, name := range []string{"radius_drift", "energy_drift", "angular_momentum_drift", "min_separation"} {
		if v, ok := res.Metrics[name]; ok {
			fmt.Printf("  %-24s %.6e\n", name, v)
		}
	}
}

func radiusSeries(res *sim.Result) map[string][]float64 {
	out := make(map[string][]float64)
	if len(res.Samples) == 0 {
		return out
	}
	for _, s := range res.Samples {
		c := s.Bodies[0].Position
		for _, b := range s.Bodies[1:] {
			out[b.Name] = append(out[b.Name], r2.Norm(r2.Sub(b.Position, c)))
		}
	}
	return out
}

func plotRadii(res *sim.Result) {
	if len(res.Samples) < 2 {
		return
	}
	series := radiusSeries(res)
	for _, b := range res.Samples[0].Bodies[1:] {
		graph := asciigraph.Plot(series[b.Name],
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(b.Name+" radius (AU)"),
		)
		fmt.Printf("\n%s\n", graph)
	}
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmtSel, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	reg, res, runErr := simulate(cfg)
	if res == nil {
		return runErr
	}

	st := export.NewStore(outDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(export.NewMetadata(cfg.Name, cfg.G, cfg.RunConfig(), res), fmtSel, res, reg)
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", st.Dir(runID))
	return runErr
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := export.NewStore(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tDURATION\tDT\tSTEPS\tBODIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3fyr\t%g\t%d\t%d\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.StepsTaken,
			len(run.Bodies),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := export.NewStore(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("samples: %d\n", len(samples))

	plotRadii(&sim.Result{Samples: samples})
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, res, runErr := simulate(cfg)
	if runErr != nil {
		return runErr
	}
	central, _, err := cfg.Specs()
	if err != nil {
		return err
	}

	sampleDt := cfg.Dt * float64(max(cfg.SampleEvery, 1))
	fmt.Printf("%s: %d samples every %g yr\n\n", cfg.Name, len(res.Samples), sampleDt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tA (AU)\tECC\tT_FFT\tT_APSIS\tT_KEPLER\tERR")
	for _, b := range res.Samples[0].Bodies[1:] {
		series := res.Series(b.Name)
		xs := make([]float64, len(series))
		for i, s := range series {
			xs[i] = s.Position.X
		}

		fftPeriod, err := analysis.DominantPeriod(xs, sampleDt)
		if err != nil {
			level.Warn(logger).Log("msg", "period estimate failed", "body", b.Name, "err", err)
			continue
		}
		aps, err := analysis.FindApsides(res, b.Name)
		if err != nil {
			return err
		}
		kepler := analysis.KeplerPeriod(cfg.G, central.Mass, aps.SemiMajorAxis())

		apsis := "-"
		if p, ok := aps.Period(); ok {
			apsis = fmt.Sprintf("%.4f", p)
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%s\t%.4f\t%.2f%%\n",
			b.Name, aps.SemiMajorAxis(), aps.Eccentricity(), fftPeriod, apsis, kepler,
			100*math.Abs(fftPeriod-kepler)/kepler)
	}
	w.Flush()

	if perturbation > 0 {
		factory := func() (*orbit.Integrator, error) {
			_, integ, err := cfg.Build()
			return integ, err
		}
		fmt.Println("\ndivergence after", cfg.Steps, "steps:")
		for _, b := range res.Samples[0].Bodies[1:] {
			d, err := analysis.MeasureDivergence(factory, b.Name, perturbation, cfg.Dt, cfg.Steps)
			if err != nil {
				return err
			}
			fmt.Printf("  %-10s growth %.3g  rate %.3g /yr\n", b.Name, d.Growth(), d.Rate)
		}
	}

	if phaseBody != "" {
		portrait, err := analysis.RadialPhase(res, phaseBody)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s radial phase (r vs dr/dt):\n", phaseBody)
		fmt.Print(analysis.ToASCII(portrait.Points, 70, 20))
	}
	return nil
}

func compareTimesteps(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(dts) == 0 {
		return fmt.Errorf("no timesteps given")
	}

	duration := cfg.RunConfig().Duration()
	runs := make([]sim.Config, len(dts))
	for i, h := range dts {
		n := int(math.Round(duration / h))
		runs[i] = sim.Config{Dt: h, Steps: max(n, 1), SampleEvery: max(n/300, 1)}
	}

	factory := func() (*orbit.Integrator, error) {
		_, integ, err := cfg.Build()
		return integ, err
	}
	ensemble := sim.NewEnsemble(factory, standardMetrics, logger)

	ctx, stop := interruptContext()
	defer stop()
	results, err := ensemble.Run(ctx, runs)
	if err != nil {
		return err
	}

	fmt.Printf("comparing timesteps for %s over %g yr\n\n", cfg.Name, duration)
	fmt.Printf("%-10s  %-8s  %-14s  %-14s  %-10s\n", "dt", "steps", "radius_drift", "energy_drift", "time")
	fmt.Println(strings.Repeat("-", 64))
	for i, res := range results {
		fmt.Printf("%-10g  %-8d  %-14.4e  %-14.4e  %-10v\n",
			runs[i].Dt, res.StepsTaken, res.Metrics["radius_drift"], res.Metrics["energy_drift"], res.Elapsed.Round(time.Microsecond))
	}
	return nil
}
