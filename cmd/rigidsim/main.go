package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/ensemble"
	"github.com/san-kum/rigidsim/internal/export"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/phys"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/storage"
	"github.com/san-kum/rigidsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	dt         float64
	steps      int
	seed       int64
	density    float64
	dropHeight float64
	noSpin     bool
	frameRate  int
	sweepRuns  int
	svgOut     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rigidsim",
		Short: "rigid-body drop simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigidsim", "data directory")

	dropCmd := &cobra.Command{
		Use:   "drop",
		Short: "run the drop scenario, one position line per tick",
		RunE:  runDrop,
	}
	addScenarioFlags(dropCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the drop scenario and record the trajectory",
		RunE:  runRecorded,
	}
	addScenarioFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a recorded run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a recorded run's height trajectory to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default <run_id>.svg)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the scenario across consecutive seeds in parallel",
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 8, "number of seeds to run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the drop scenario live in the terminal",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	rootCmd.AddCommand(dropCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, sweepCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for the initial rotation")
	cmd.Flags().Float64Var(&density, "density", 0.5, "box density")
	cmd.Flags().Float64Var(&dropHeight, "height", 10.0, "initial box height")
	cmd.Flags().BoolVar(&noSpin, "no-spin", false, "start the box without initial rotation")
}

// loadConfig resolves the scenario config: file values over defaults,
// explicitly set CLI flags over both.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("density") {
		cfg.Box.Density = density
	}
	if cmd.Flags().Changed("height") {
		cfg.Box.Position.Y = dropHeight
	}
	if noSpin {
		cfg.Box.RandomSpin = false
	}

	return cfg, cfg.Validate()
}

func runDrop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sc, err := scene.Build(cfg)
	if err != nil {
		return err
	}

	for i := 0; i < cfg.Steps; i++ {
		p := sc.Box.Position
		fmt.Printf("%.6g, %.6g, %.6g\n", p.X(), p.Y(), p.Z())

		if err := sc.Step(cfg.Dt); err != nil {
			return err
		}
	}

	return nil
}

func runRecorded(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sc, err := scene.Build(cfg)
	if err != nil {
		return err
	}

	mp, err := phys.BoxMass(cfg.Box.Density, cfg.Box.HalfExtents.Vec())
	if err != nil {
		return err
	}
	collector := metrics.NewCollector(
		metrics.NewEnergy(mp, cfg.World.Gravity.Vec()),
		metrics.NewMinHeight(),
		metrics.NewFinalHeight(),
		metrics.NewSettleTime(cfg.World.DisableLinThreshold, cfg.World.DisableAngThreshold),
	)

	fmt.Println("running drop scenario...")
	start := time.Now()

	samples := make([]storage.Sample, 0, cfg.Steps)
	for i := 0; i < cfg.Steps; i++ {
		sample := storage.Sample{
			Time:        sc.World.Time(),
			Position:    sc.Box.Position,
			Orientation: sc.Box.Orientation,
			LinearVel:   sc.Box.LinearVel,
			AngularVel:  sc.Box.AngularVel,
			Contacts:    sc.World.ContactCount(),
		}
		samples = append(samples, sample)
		collector.Observe(sample)

		if err := sc.Step(cfg.Dt); err != nil {
			return err
		}
	}

	elapsed := time.Since(start)

	vals := collector.Values()
	runID, err := st.Save(cfg.Dt, cfg.Seed, vals, samples)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(samples))
	fmt.Println("\nmetrics:")
	printMetrics("  ", vals)

	return nil
}

func printMetrics(indent string, vals map[string]float64) {
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s%s: %.6f\n", indent, name, vals[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tDT\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4fs\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(samples))

	fmt.Println(viz.PlotHeight(samples))
	fmt.Println()
	fmt.Println(viz.PlotVerticalSpeed(samples))
	fmt.Println()
	fmt.Println(viz.PlotSpeed(samples))

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSVStdout(samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONStdout(meta, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(export.TrajectorySVG(samples)), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", out)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := ensemble.New(cfg, sweepRuns, cfg.Seed).Run(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFINAL_HEIGHT\tMIN_HEIGHT\tSETTLE_TIME\tMEAN_ENERGY")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.6f\t%.6f\t%.6f\t%.6f\n",
			r.Seed,
			r.Metrics["final_height"],
			r.Metrics["min_height"],
			r.Metrics["settle_time"],
			r.Metrics["mean_energy"],
		)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg, frameRate)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
