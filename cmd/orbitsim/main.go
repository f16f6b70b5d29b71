package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/gui"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	dt          float64
	steps       int
	sampleEvery int
	strict      bool

	plot         bool
	watch        bool
	watchFPS     int
	save         bool
	saveFormat   string
	exportFormat string
	outDir       string
	frameRate    int
	speed        int
	theme        string
	menu         bool

	phaseBody    string
	perturbation float64
	dts          []float64

	logger log.Logger = log.NewNopLogger()
)

// main registers the commands and flags. With no subcommand the live
// terminal view of the solar preset is opened.
func main() {
	rootCmd := &cobra.Command{
		Use:           "orbitsim",
		Short:         "central-body orbit simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory for saved runs")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "system file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "solar", "built-in system to use when no config is given")
	addRunFlags(rootCmd)
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation headless and report metrics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot per-body radius after the run")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw frames to the terminal while running")
	runCmd.Flags().IntVar(&watchFPS, "fps", 30, "frame rate for --watch")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run under the data directory")
	runCmd.Flags().StringVar(&saveFormat, "format", "csv", "artifacts to save (csv, json, svg, all)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	addLiveFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a raylib window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addRunFlags(guiCmd)
	guiCmd.Flags().IntVar(&speed, "speed", 1, "steps per frame")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "run a simulation and write its artifacts",
		Args:  cobra.NoArgs,
		RunE:  exportRun,
	}
	addRunFlags(exportCmd)
	exportCmd.Flags().StringVar(&outDir, "out", "out", "output directory")
	exportCmd.Flags().StringVar(&exportFormat, "format", "all", "artifacts to write (csv, json, svg, all)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the radius of every body in a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "estimate orbital periods and compare with Kepler's third law",
		Args:  cobra.NoArgs,
		RunE:  analyzeRun,
	}
	addRunFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&phaseBody, "phase", "", "print the radial phase portrait of this body")
	analyzeCmd.Flags().Float64Var(&perturbation, "perturb", 1e-6, "initial offset (AU) for the divergence estimate")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run the same system with several timesteps concurrently",
		Args:  cobra.NoArgs,
		RunE:  compareTimesteps,
	}
	addRunFlags(compareCmd)
	compareCmd.Flags().Float64SliceVar(&dts, "dts", []float64{0.008, 0.004, 0.002, 0.001}, "timesteps to compare")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in systems",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				bodies := make([]string, len(p.Bodies))
				for i, b := range p.Bodies {
					bodies[i] = b.Name
				}
				fmt.Printf("  %-10s dt=%-7g steps=%-6d %s\n", name, p.Dt, p.Steps, strings.Join(bodies, ", "))
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage system files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the selected preset as an editable system file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(preset)
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, exportCmd, listCmd, plotCmd, analyzeCmd, compareCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		level.Error(logger).Log("err", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", 0.002, "timestep (years)")
	cmd.Flags().IntVar(&steps, "steps", 3000, "number of steps")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 10, "record a sample every N steps")
	cmd.Flags().BoolVar(&strict, "strict", true, "fail on degenerate configurations instead of producing NaN")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	cmd.Flags().IntVar(&speed, "speed", 1, "steps per frame")
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeDeepSpace.Name, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	cmd.Flags().BoolVar(&menu, "menu", false, "pick a preset from a menu first")
}

func newLogger(lvl string) (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}

	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return level.NewFilter(l, opt), nil
}

// loadConfig resolves the system from --config or --preset, then applies
// any run flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = strict
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level.Debug(logger).Log("msg", "config resolved", "system", cfg.Name, "dt", cfg.Dt, "steps", cfg.Steps, "bodies", len(cfg.Bodies))
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	opts := viz.DefaultOptions()
	opts.FrameRate = frameRate
	opts.StepsPerFrame = speed
	opts.Theme = theme

	if menu {
		return viz.RunPicker(opts)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	_, integ, err := cfg.Build()
	if err != nil {
		return err
	}

	opts.Name = cfg.Name
	opts.Dt = cfg.Dt
	return viz.Run(integ, opts)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	_, integ, err := cfg.Build()
	if err != nil {
		return err
	}
	return gui.Run(integ, cfg.Name, cfg.Dt, speed, logger)
}
