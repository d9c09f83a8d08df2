package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballpit/internal/analysis"
	"github.com/san-kum/ballpit/internal/automation"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/export"
	"github.com/san-kum/ballpit/internal/gui"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
	"github.com/san-kum/ballpit/internal/storage"
	"github.com/san-kum/ballpit/internal/viz"
)

var (
	dataDir string
	verbose bool
	logger  *log.Logger

	// scene selection and overrides
	configFile string
	preset     string
	frameDt    float64
	duration   float64
	seed       int64
	sample     int
	drag       float64
	gravity    float64
	updates    int
	substeps   int
	detection  string
	earlyExit  bool

	// run outputs
	dbFile      string
	dbEvery     int
	dump        bool
	metricNames []string

	// analysis
	bodyID int
	axis   string
	xAxis  string
	yAxis  string
	line   float64

	// export
	outFile string
	scale   float64

	// batch
	runs       int
	trials     int
	paramName  string
	paramMin   float64
	paramMax   float64
	paramSteps int
	speedLimit float64
)

// main registers commands and flags, opens the preset picker when no
// subcommand is given and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "ballpit",
		Short: "2d ball and capsule physics sandbox",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "ballpit",
			})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballpit", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene headless and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().StringVar(&dbFile, "db", "", "also record frames into this sqlite file")
	runCmd.Flags().IntVar(&dbEvery, "db-every", 1, "record every n-th frame into --db")
	runCmd.Flags().BoolVar(&dump, "dump", false, "dump the final bodies")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", metrics.Names(), "metrics to compute")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := loadScene(cmd, args)
			if err != nil {
				return err
			}
			return viz.RunLive(cfg, name)
		},
	}
	sceneFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "run a scene in a window (needs -tags raylib)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := loadScene(cmd, args)
			if err != nil {
				return err
			}
			return gui.Run(cfg, name)
		},
	}
	sceneFlags(guiCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "pick a preset and run it in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "time a scene and run it over several seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	sceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 4, "ensemble size")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and contacts of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyID, "body", 0, "body id")
	analyzeCmd.Flags().StringVar(&axis, "axis", "y", "x, y, vx, vy or speed")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&bodyID, "body", 0, "body id")
	phaseCmd.Flags().StringVar(&xAxis, "x-axis", "x", "x, y, vx, vy or speed")
	phaseCmd.Flags().StringVar(&yAxis, "y-axis", "vx", "x, y, vx, vy or speed")
	phaseCmd.Flags().Float64Var(&line, "section", -1, "plot crossings of x=section instead")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [preset]",
		Short: "run a scene and draw its final frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	sceneFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().Float64Var(&scale, "scale", 2, "pixels per world unit")

	trailCmd := &cobra.Command{
		Use:   "trail [db_file]",
		Short: "draw one body's recorded path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportTrail,
	}
	trailCmd.Flags().IntVar(&bodyID, "body", 0, "body id")
	trailCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tOBSTACLES\tDRAG\tGRAVITY")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.1f\n", name,
					len(p.Scene.Bodies)+p.Scene.Random.Count, len(p.Scene.Obstacles),
					p.Physics.Drag, p.Physics.Gravity)
			}
			return w.Flush()
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one physics parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&paramName, "param", "drag", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&paramSteps, "steps", 5, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "check a scene for runaway speeds over many seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	sceneFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 16, "number of seeds")
	monteCarloCmd.Flags().Float64Var(&speedLimit, "limit", metrics.DefaultSpeedLimit, "speed counted as runaway")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, tuiCmd, benchCmd, listCmd, plotCmd, analyzeCmd, phaseCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, trailCmd, presetsCmd, scenarioCmd, sweepCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scene")
	cmd.Flags().Float64Var(&frameDt, "dt", config.DefaultFrameDt, "frame time")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 1, "scatter seed")
	cmd.Flags().IntVar(&sample, "sample", config.DefaultSampleEvery, "keep every n-th frame")
	cmd.Flags().Float64Var(&drag, "drag", 0, "drag coefficient")
	cmd.Flags().Float64Var(&gravity, "gravity", 0, "downward acceleration")
	cmd.Flags().IntVar(&updates, "updates", 0, "updates per frame")
	cmd.Flags().IntVar(&substeps, "substeps", 0, "substeps per update")
	cmd.Flags().StringVar(&detection, "detection", "", "unique or symmetric")
	cmd.Flags().BoolVar(&earlyExit, "early-exit", false, "stop substepping once every budget is spent")
}

// loadScene resolves the scene: --config, else a preset from the argument
// or --preset, else classic. Flags that were set override the scene.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := preset
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		if name == "" {
			name = strings.TrimSuffix(configFile[strings.LastIndex(configFile, "/")+1:], ".yaml")
		}
	case name != "":
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	default:
		name = "classic"
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Run.FrameDt = frameDt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Scene.Random.Seed = seed
	}
	if flags.Changed("sample") {
		cfg.Run.SampleEvery = sample
	}
	if flags.Changed("drag") {
		cfg.Physics.Drag = drag
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("updates") {
		cfg.Physics.Updates = updates
	}
	if flags.Changed("substeps") {
		cfg.Physics.Substeps = substeps
	}
	if flags.Changed("detection") {
		cfg.Physics.Detection = detection
	}
	if flags.Changed("early-exit") {
		cfg.Physics.EarlyExit = earlyExit
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	logger.Debug("scene", "name", name, "seed", cfg.Scene.Random.Seed, "detection", cfg.Physics.Detection)
	return cfg, name, nil
}

func openStore() *storage.Store {
	st := storage.New(dataDir)
	st.SetLogger(logger)
	return st
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	w, err := cfg.Build()
	if err != nil {
		return err
	}

	runner := sim.NewRunner(w)
	ms, err := metrics.ByName(metricNames...)
	if err != nil {
		return err
	}
	for _, m := range ms {
		runner.AddMetric(m)
	}

	if dbFile != "" {
		db, err := storage.CreateFrameDB(dbFile)
		if err != nil {
			return err
		}
		defer db.Close()
		runner.BeforeFrame(db.Hook(dbEvery))
		logger.Info("recording frames", "db", dbFile, "every", dbEvery)
	}

	logger.Info("running", "scene", name, "bodies", w.NumBodies(), "duration", cfg.Run.Duration)
	start := time.Now()

	result, err := runner.Run(context.Background(), cfg.RunParams())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := openStore()
	runID, err := st.Save(storage.RunInfo{
		Scene:  name,
		Seed:   cfg.Scene.Random.Seed,
		Params: cfg.Params(),
		Run:    cfg.RunParams(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.StepsTaken)
	fmt.Printf("collisions: %d\n", result.Collisions)
	fmt.Println("\nmetrics:")
	for _, name := range metricNames {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if dump {
		fmt.Println()
		spew.Fdump(os.Stdout, w.Bodies())
	}

	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DETECTION\tSUBSTEPS\tFRAMES\tTIME\tFRAMES/SEC")

	for _, det := range []sim.Detection{sim.DetectUnique, sim.DetectSymmetric} {
		for _, n := range []int{5, 15, 30} {
			c := cfg.Clone()
			c.Physics.Detection = string(det)
			c.Physics.Substeps = n

			world, err := c.Build()
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := sim.NewRunner(world).Run(context.Background(), sim.RunConfig{FrameDt: c.Run.FrameDt, Duration: c.Run.Duration})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
				det, n, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nensemble of %d seeds from %d\n\n", runs, cfg.Scene.Random.Seed)
	ens := sim.NewEnsemble(cfg.Factory(), metrics.All, runs, cfg.Scene.Random.Seed)
	results, err := ens.Run(context.Background(), sim.RunConfig{FrameDt: cfg.Run.FrameDt, Duration: cfg.Run.Duration})
	if err != nil {
		return err
	}

	names := metrics.Names()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\t"+strings.ToUpper(strings.Join(names, "\t")))
	for i, r := range results {
		row := make([]string, len(names))
		for j, n := range names {
			row[j] = fmt.Sprintf("%.4g", r.Metrics[n])
		}
		fmt.Fprintf(w, "%d\t%s\n", cfg.Scene.Random.Seed+int64(i), strings.Join(row, "\t"))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tBODIES\tCOLLISIONS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FrameDt,
			run.Bodies,
			run.Collisions,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(frames))

	fmt.Println(asciigraph.Plot(analysis.EnergySeries(frames),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	))
	fmt.Println()

	speeds := make([]float64, len(frames))
	for i := range frames {
		for j := range frames[i].Bodies {
			speeds[i] = max(speeds[i], frames[i].Bodies[j].Speed())
		}
	}
	fmt.Println(asciigraph.Plot(speeds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("fastest body"),
	))

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	ax, err := analysis.ParseAxis(axis)
	if err != nil {
		return err
	}

	data := analysis.BodySeries(frames, physics.BodyID(bodyID), ax)
	if len(data) < 4 {
		return fmt.Errorf("body %d has %d samples, need at least 4", bodyID, len(data))
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("body %d, %s\n\n", bodyID, axis)

	ps := analysis.PowerSpectrum(data)
	fmt.Println(asciigraph.Plot(ps[:max(len(ps)/4, 2)],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", axis)),
	))
	fmt.Println()

	sampleDt := meta.FrameDt * float64(max(meta.SampleEvery, 1))
	freq, power := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.3f hz (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	id := physics.BodyID(bodyID)

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("scene: %s, body %d\n\n", meta.Scene, bodyID)

	if line >= 0 {
		fmt.Printf("crossings of x=%.1f (y vs vy)\n\n", line)
		fmt.Print(analysis.CrossingsToASCII(analysis.Crossings(frames, id, line, meta.Width), 70, 20))
		return nil
	}

	xa, err := analysis.ParseAxis(xAxis)
	if err != nil {
		return err
	}
	ya, err := analysis.ParseAxis(yAxis)
	if err != nil {
		return err
	}

	portrait := analysis.BodyPortrait(frames, id, xa, ya)
	if portrait == nil {
		return fmt.Errorf("body %d not found in run", bodyID)
	}
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", xAxis, yAxis)
	fmt.Print(analysis.PortraitToASCII(portrait, 70, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := openStore().Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, &sim.Result{Frames: frames})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	info := storage.RunInfo{
		Scene:  meta.Scene,
		Seed:   meta.Seed,
		Params: sim.Params{
			Width:     meta.Width,
			Height:    meta.Height,
			Detection: sim.Detection(meta.Detection),
		},
		Run:    sim.RunConfig{FrameDt: meta.FrameDt, Duration: meta.Duration, SampleEvery: meta.SampleEvery},
	}
	result := &sim.Result{
		Frames:     frames,
		Metrics:    meta.Metrics,
		StepsTaken: int(meta.Duration/meta.FrameDt + 0.5),
		Collisions: meta.Collisions,
	}
	return storage.WriteJSON(os.Stdout, info, result)
}

func writeOut(content string) error {
	if outFile == "" {
		_, err := fmt.Println(content)
		return err
	}
	if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
		return err
	}
	logger.Info("wrote", "file", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	w, err := cfg.Build()
	if err != nil {
		return err
	}

	run := cfg.RunParams()
	run.SampleEvery = 0
	if _, err := sim.NewRunner(w).Run(context.Background(), run); err != nil {
		return err
	}
	logger.Debug("rendering", "scene", name, "t", w.Time())

	return writeOut(export.SceneToSVG(export.WorldScene(w), scale))
}

func exportTrail(cmd *cobra.Command, args []string) error {
	db, err := storage.OpenFrameDB(args[0])
	if err != nil {
		return err
	}
	defer db.Close()

	points, _, err := db.Track(physics.BodyID(bodyID))
	if err != nil {
		return err
	}
	if len(points) < 2 {
		return fmt.Errorf("body %d has %d recorded points", bodyID, len(points))
	}

	path := make([]analysis.Point, len(points))
	for i, p := range points {
		// SVG y grows downward like the world's, the plot's grows upward.
		path[i] = analysis.Point{X: p[0], Y: -p[1]}
	}
	return writeOut(export.TrajectoryToSVG(path, 640, 480, "#00ff88"))
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	logger.Info("scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	results, err := automation.RunScenario(context.Background(), scenario, automation.Options{
		Logger: logger,
		Store:  openStore(),
	})
	if err != nil {
		return err
	}

	for i, r := range results {
		fmt.Printf("step %d: %d frames, %d collisions\n", i+1, r.StepsTaken, r.Collisions)
		for name, v := range r.Metrics {
			fmt.Printf("  %s: %.6f\n", name, v)
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	names := []string{"kinetic_energy", "contact_rate"}
	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  paramSteps,
		Metrics:   names,
	}, automation.Options{Logger: logger})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOLLISIONS\t%s\n", strings.ToUpper(paramName), strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%.4g\t%.4g\n", r.ParamValue, r.Collisions, r.Metrics[names[0]], r.Metrics[names[1]])
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	logger.Info("monte carlo", "scene", name, "trials", trials, "limit", speedLimit)
	results, err := automation.RunMonteCarlo(context.Background(), cfg, trials, cfg.Scene.Random.Seed, speedLimit)
	if err != nil {
		return err
	}

	for _, r := range results {
		if !r.Stable {
			fmt.Printf("seed %d: runaway (stability %.3f)\n", r.Seed, r.Metrics["stability"])
		}
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("stable: %d, runaway: %d\n", stable, unstable)
	return nil
}
