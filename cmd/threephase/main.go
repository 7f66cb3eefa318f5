package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/threephase/internal/analysis"
	"github.com/san-kum/threephase/internal/api"
	"github.com/san-kum/threephase/internal/automation"
	"github.com/san-kum/threephase/internal/config"
	"github.com/san-kum/threephase/internal/export"
	"github.com/san-kum/threephase/internal/gui"
	"github.com/san-kum/threephase/internal/loads"
	"github.com/san-kum/threephase/internal/optim"
	"github.com/san-kum/threephase/internal/phasor"
	"github.com/san-kum/threephase/internal/render"
	"github.com/san-kum/threephase/internal/storage"
	"github.com/san-kum/threephase/internal/viewport"
	"github.com/san-kum/threephase/internal/viz"
)

var (
	configFile string
	envFile    string
	dataDir    string
	logLevel   string
	cfg        *config.Config

	preset   string
	yLoads   string
	dLoads   string
	voltage  float64
	asJSON   bool
	save     string
	inspectN int
	csvN     int
	phase    float64
	runID    string
	onScreen bool
	vary     []string
	sweepOn  string
	sweepMin float64
	sweepMax float64
	steps    int
	step     float64
	target   string

	width, height, fps int
	svgW, svgH         int
	image              string
	theme              string
	addr               string
	rateLimit          float64
	burst              int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "threephase",
		Short:             "three-phase load current visualizer",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runGUI,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".threephase", "snapshot directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	windowFlags(rootCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the simulator window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	windowFlags(guiCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the simulator in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&preset, "preset", "", "initial load preset")
	tuiCmd.Flags().StringVar(&theme, "theme", "", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	tuiCmd.Flags().IntVar(&fps, "fps", 0, "frame rate")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the calculation API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")
	serveCmd.Flags().Float64Var(&rateLimit, "rate", 0, "requests per second per client (0 disables)")
	serveCmd.Flags().IntVar(&burst, "burst", 0, "rate limit burst")
	serveCmd.Flags().Float64Var(&voltage, "voltage", phasor.VoltageRMS, "phase voltage (V rms)")

	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "print line and neutral currents",
		Args:  cobra.NoArgs,
		RunE:  runCalc,
	}
	loadFlags(calcCmd)
	calcCmd.Flags().BoolVar(&asJSON, "json", false, "print the API response body")
	calcCmd.Flags().StringVar(&save, "save", "", "store the result under this label")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot one period of every current",
		Args:  cobra.NoArgs,
		RunE:  runPlot,
	}
	loadFlags(plotCmd)
	plotCmd.Flags().StringVar(&runID, "run", "", "plot a stored snapshot")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "check sampled waveforms against their phasors with an FFT",
		Args:  cobra.NoArgs,
		RunE:  runInspect,
	}
	loadFlags(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectN, "samples", 256, "samples per period")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [file]",
		Short: "render one frame to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportSVG,
	}
	loadFlags(exportSVGCmd)
	exportSVGCmd.Flags().Float64Var(&phase, "phase", 0, "clock phase (rad)")
	exportSVGCmd.Flags().IntVar(&svgW, "width", config.DefaultWidth, "canvas width")
	exportSVGCmd.Flags().IntVar(&svgH, "height", config.DefaultHeight, "canvas height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [file]",
		Short: "export sampled waveforms to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportCSV,
	}
	loadFlags(exportCSVCmd)
	exportCSVCmd.Flags().IntVar(&csvN, "samples", 360, "samples per period")
	exportCSVCmd.Flags().BoolVar(&onScreen, "frame", false, "export the on-screen waveform panel instead of one period")
	exportCSVCmd.Flags().Float64Var(&phase, "phase", 0, "clock phase (rad) for --frame")

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "search load values that minimise the neutral current",
		Args:  cobra.NoArgs,
		RunE:  runBalance,
	}
	loadFlags(balanceCmd)
	balanceCmd.Flags().StringSliceVar(&vary, "vary", []string{"p3"}, "loads to search (p1, p2, p3, p12, p23, p31)")
	balanceCmd.Flags().Float64Var(&step, "step", loads.Step, "search step (W)")
	balanceCmd.Flags().StringVar(&target, "target", "neutral", "objective: neutral or spread")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "tabulate the currents while one load varies",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	loadFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepOn, "load", "p3", "load to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value (W)")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", loads.MaxY, "last value (W)")
	sweepCmd.Flags().IntVar(&steps, "steps", 11, "number of points")

	scenarioCmd := &cobra.Command{
		Use:   "scenario <file>",
		Short: "run a YAML scenario of operating points",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list load presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored snapshots",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, serveCmd, calcCmd, plotCmd, inspectCmd, exportSVGCmd, exportCSVCmd, balanceCmd, sweepCmd, scenarioCmd, presetsCmd, runsCmd)
	return rootCmd
}

func windowFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", 0, "window width")
	cmd.Flags().IntVar(&height, "height", 0, "window height")
	cmd.Flags().IntVar(&fps, "fps", 0, "frame rate")
	cmd.Flags().StringVar(&preset, "preset", "", "initial load preset")
	cmd.Flags().StringVar(&image, "image", "", "circuit diagram image")
}

func loadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "load preset")
	cmd.Flags().StringVar(&yLoads, "y", "", "Y loads P1,P2,P3 in watts")
	cmd.Flags().StringVar(&dLoads, "delta", "", "Delta loads P12,P23,P31 in watts")
	cmd.Flags().Float64Var(&voltage, "voltage", phasor.VoltageRMS, "phase voltage (V rms)")
}

// setup loads .env, the config file and the logger, in that order.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(envFile); err != nil {
		return err
	}
	cfg = config.DefaultConfig()
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if logLevel != "" {
		if _, err := config.ParseLevel(logLevel); err != nil {
			return err
		}
		cfg.LogLevel = logLevel
	}
	slog.SetDefault(cfg.Logger(cmd.ErrOrStderr()))
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	opts := gui.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		FPS:    cfg.Window.FPS,
		Image:  cfg.Window.Image,
		Preset: cfg.Preset,
		Log:    slog.Default(),
	}
	if width > 0 {
		opts.Width = width
	}
	if height > 0 {
		opts.Height = height
	}
	if fps > 0 {
		opts.FPS = fps
	}
	if image != "" {
		opts.Image = image
	}
	if preset != "" {
		opts.Preset = preset
	}
	slog.Debug("opening window", "width", opts.Width, "height", opts.Height, "fps", opts.FPS)
	return gui.Run(opts)
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts := viz.Options{Theme: cfg.TUI.Theme, Preset: cfg.Preset, FPS: cfg.Window.FPS}
	if theme != "" {
		opts.Theme = theme
	}
	if preset != "" {
		opts.Preset = preset
	}
	if fps > 0 {
		opts.FPS = fps
	}
	m, err := viz.NewModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	sc := cfg.Server
	if addr != "" {
		sc.Addr = addr
	}
	if cmd.Flags().Changed("rate") {
		sc.Rate = rateLimit
	}
	if cmd.Flags().Changed("burst") {
		sc.Burst = burst
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return api.NewServer(sc, voltage, slog.Default()).Run(ctx)
}

// resolveLoads starts from the preset (flag, then config) and lets --y and
// --delta override it.
func resolveLoads(cmd *cobra.Command) (y, delta [3]float64, err error) {
	name := preset
	if name == "" {
		name = cfg.Preset
	}
	if name != "" {
		p, err := config.GetPreset(name)
		if err != nil {
			return y, delta, err
		}
		y, delta = p.Y, p.Delta
	}
	if cmd.Flags().Changed("y") {
		if y, err = parseTriple(yLoads); err != nil {
			return y, delta, fmt.Errorf("--y: %w", err)
		}
	}
	if cmd.Flags().Changed("delta") {
		if delta, err = parseTriple(dLoads); err != nil {
			return y, delta, fmt.Errorf("--delta: %w", err)
		}
	}
	return y, delta, nil
}

// parseTriple reads up to three comma separated watt values. Missing
// entries are zero.
func parseTriple(s string) ([3]float64, error) {
	var out [3]float64
	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > 3 {
		return out, fmt.Errorf("expected at most 3 values, got %d", len(parts))
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func compute(cmd *cobra.Command) (export.Snapshot, error) {
	y, delta, err := resolveLoads(cmd)
	if err != nil {
		return export.Snapshot{}, err
	}
	return export.Snapshot{
		Voltage:  voltage,
		PY:       y,
		PDelta:   delta,
		Phase:    phase,
		Currents: phasor.Compute(y, delta, voltage),
	}, nil
}

func runCalc(cmd *cobra.Command, args []string) error {
	snap, err := compute(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if asJSON {
		if err := export.WriteJSON(out, snap.Currents); err != nil {
			return err
		}
	} else {
		printCurrents(out, snap)
	}

	if save != "" {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(save, snap, 360)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved: %s\n", id)
	}
	return nil
}

func printCurrents(out io.Writer, snap export.Snapshot) {
	fmt.Fprintf(out, "U = %.0f V  Y = %v W  Delta = %v W\n\n", snap.Voltage, snap.PY, snap.PDelta)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CURRENT\tMAGNITUDE\tANGLE")
	for i, p := range snap.Currents.All() {
		fmt.Fprintf(w, "i%s\t%.3f A\t%.1f°\n", render.TraceNames[i], p.Magnitude, p.Degrees())
	}
	w.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	var series [][]float64
	caption := "i(θ) over one period [A]"

	if runID != "" {
		st := storage.New(dataDir)
		rec, err := st.Load(runID)
		if err != nil {
			return err
		}
		wave, err := st.LoadWaveform(runID)
		if err != nil {
			return err
		}
		series = wave.Traces[:]
		caption = fmt.Sprintf("%s (%s)", caption, rec.Label)
	} else {
		snap, err := compute(cmd)
		if err != nil {
			return err
		}
		for _, p := range snap.Currents.All() {
			series = append(series, analysis.Sample(p, 80))
		}
	}

	flat := true
	for _, s := range series {
		for _, v := range s {
			if math.Abs(v) > 1e-9 {
				flat = false
			}
		}
	}
	if flat {
		fmt.Fprintln(cmd.OutOrStdout(), "all currents are zero")
		return nil
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.White),
		asciigraph.Caption(caption),
	)
	fmt.Fprintln(cmd.OutOrStdout(), graph)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	snap, err := compute(cmd)
	if err != nil {
		return err
	}
	in, err := analysis.Inspect(snap.Currents, inspectN)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRACE\tPHASOR\tFFT\tANGLE\tFFT ANGLE\tRMS\tTHD")
	for _, r := range in.Traces {
		fmt.Fprintf(w, "%s\t%.4f A\t%.4f A\t%.2f°\t%.2f°\t%.4f A\t%.2e\n",
			r.Name, r.Expected.Magnitude, r.Measured.Magnitude,
			r.Expected.Degrees(), r.Measured.Degrees(), r.RMS, r.THD)
	}
	w.Flush()
	fmt.Fprintf(out, "\nKCL residual: %.3e A over %d samples\n", in.KCLResidual, in.Samples)

	if !in.OK(1e-6) {
		return errors.New("sampled waveforms disagree with phasors")
	}
	return nil
}

// output opens args[0] for writing, or stdout when absent or "-".
func output(cmd *cobra.Command, args []string) (io.Writer, func() error, error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func runExportSVG(cmd *cobra.Command, args []string) error {
	snap, err := compute(cmd)
	if err != nil {
		return err
	}
	frame := render.Render(snap.Currents, phase, viewport.Recompute(svgW, svgH))

	w, closeFn, err := output(cmd, args)
	if err != nil {
		return err
	}
	if err := export.FrameToSVG(w, frame); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	snap, err := compute(cmd)
	if err != nil {
		return err
	}
	w, closeFn, err := output(cmd, args)
	if err != nil {
		return err
	}
	if onScreen {
		frame := render.Render(snap.Currents, phase, viewport.Default())
		err = export.TracesToCSV(w, frame)
	} else {
		err = export.PeriodToCSV(w, snap.Currents, csvN)
	}
	if err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func runBalance(cmd *cobra.Command, args []string) error {
	y, delta, err := resolveLoads(cmd)
	if err != nil {
		return err
	}

	var obj optim.Objective
	switch target {
	case "neutral":
		obj = optim.NeutralObjective(voltage)
	case "spread":
		obj = optim.UnbalanceObjective(voltage)
	default:
		return fmt.Errorf("unknown objective %q", target)
	}

	ranges := make([][]float64, len(vary))
	for i, id := range vary {
		ranges[i] = optim.Range(0, optim.MaxFor(id), step)
	}
	g, err := optim.NewGridSearch(vary, ranges)
	if err != nil {
		return err
	}

	base := optim.FromPowers(y, delta)
	before := obj(base)
	slog.Debug("grid search", "loads", vary, "points", g.Size())
	res, err := g.Search(cmd.Context(), base, obj)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LOAD\tCURRENT (W)\tBEST (W)")
	for _, id := range vary {
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\n", id, base[id], res.Params[id])
	}
	w.Flush()
	fmt.Fprintf(out, "\n%s: %.3f A -> %.3f A (%d points)\n", target, before, res.Value, res.Evaluated)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	y, delta, err := resolveLoads(cmd)
	if err != nil {
		return err
	}
	sw := automation.Sweep{Load: sweepOn, Min: sweepMin, Max: sweepMax, Steps: steps}
	pts, err := automation.RunSweep(cmd.Context(), sw, optim.FromPowers(y, delta), voltage)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s (W)\tiL1\tiL2\tiL3\tiN\n", strings.ToUpper(sweepOn))
	for _, p := range pts {
		fmt.Fprintf(w, "%.0f", p.Value)
		for _, c := range p.Currents.All() {
			fmt.Fprintf(w, "\t%.3f", c.Magnitude)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	res, err := automation.RunScenario(cmd.Context(), sc, st, slog.Default())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tiL1\tiL2\tiL3\tiN\tSAVED")
	for _, r := range res {
		fmt.Fprint(w, r.Name)
		for _, c := range r.Snapshot.Currents.All() {
			fmt.Fprintf(w, "\t%.3f A", c.Magnitude)
		}
		fmt.Fprintf(w, "\t%s\n", r.ID)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tY (W)\tDELTA (W)\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%v\t%v\t%s\n", name, p.Y, p.Delta, p.Description)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	recs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tAGE\tY (W)\tDELTA (W)\tiN")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\t%.2f A\n",
			r.ID,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			humanize.Time(r.Timestamp),
			r.Snapshot.PY,
			r.Snapshot.PDelta,
			r.Snapshot.Currents.Neutral.Magnitude,
		)
	}
	return w.Flush()
}
