package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/physlab/internal/analysis"
	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/metrics"
	"github.com/san-kum/physlab/internal/physics"
	"github.com/san-kum/physlab/internal/storage"
	"github.com/san-kum/physlab/internal/viz"
)

// simulate runs the configured oscillator. A step-budget overrun is
// logged and the partial result returned so it can still be inspected.
func simulate() (*experiment.Result, error) {
	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := exp.Run()
	if res != nil && res.Truncated {
		slog.Warn("step budget exhausted, trajectory truncated", "err", err, "samples", res.Trajectory.Len())
		err = nil
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("integration finished",
		"integrator", res.Integrator,
		"samples", res.Trajectory.Len(),
		"refined", res.Trajectory.Refined,
		"elapsed", time.Since(start),
	)
	return res, nil
}

func logEvents(tr *dynamo.Trajectory, limit int) {
	for i, e := range tr.Events {
		if limit >= 0 && i >= limit {
			slog.Warn("further step fallbacks not logged", "count", len(tr.Events)-limit)
			return
		}
		slog.Warn("step fallback",
			"step", e.Step,
			"time", e.Time,
			"kind", e.Kind.String(),
			"roots", fmt.Sprintf("%.6g, %.6g", e.Roots[0], e.Roots[1]),
			"err", e.Err(),
		)
	}
}

func oscillatorSummary(res *experiment.Result) string {
	tr := res.Trajectory
	t, x, v := tr.Last()
	_, maxStep := tr.StepRange()
	rows := []viz.Metric{
		viz.M("integrator", "%s", res.Integrator),
		viz.M("k", "%.6g N/m", res.Oscillator.K),
		viz.M("period", "%.6g s", res.Oscillator.Period()),
		viz.M("samples", "%d", tr.Len()),
		viz.M("refined", "%d", tr.Refined),
		viz.M("events", "%d", len(tr.Events)),
		viz.M("step range", "%.3e .. %.3e s", res.Metrics[metrics.MinStepName], maxStep),
		viz.M("amplitude", "%.6g m", res.Metrics[metrics.AmplitudeName]),
		viz.M("max |dx|", "%.6g m", tr.MaxDisplacement()),
		viz.M("final", "t=%.6f x=%+.6f v=%+.6f", t, x, v),
	}
	if res.Relative != nil {
		rows = append(rows, viz.M("energy drift", "%.3e", res.Drift))
	} else {
		rows = append(rows, viz.M("energy drift", "n/a (E0 = 0)"))
	}
	if res.Truncated {
		rows = append(rows, viz.M("status", "truncated by step budget"))
	}
	return viz.Summary("harmonic oscillator", rows)
}

func runOscillate(cmd *cobra.Command, args []string) error {
	res, err := simulate()
	if err != nil {
		return err
	}
	logEvents(res.Trajectory, maxEventLogs)

	fmt.Println(oscillatorSummary(res))

	if exportPath != "" {
		meta := storage.RunMetadata{
			Integrator:      res.Integrator,
			Timestamp:       time.Now().UTC(),
			Mass:            res.Oscillator.Mass,
			SpringConstant:  res.Oscillator.K,
			NominalDt:       cfg.NominalDt,
			MaxDisplacement: cfg.MaxDisplacement,
			Duration:        cfg.Duration,
			Samples:         res.Trajectory.Len(),
			Refined:         res.Trajectory.Refined,
			EnergyDrift:     res.Drift,
		}
		if err := storage.Export(exportPath, meta, res.Trajectory, res.Energy); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		slog.Info("trajectory exported", "path", exportPath, "samples", res.Trajectory.Len())
	}

	if noPlot {
		return nil
	}
	seq := viz.NewFigureSeq()
	for _, fig := range viz.TrajectoryFigures(seq, res.Trajectory, res.Relative) {
		fmt.Println(fig)
	}
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	names := args
	if len(names) == 0 {
		names = registry.ListIntegrators()
	}

	results, err := experiment.Compare(cfg, registry, names)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Truncated {
			slog.Warn("step budget exhausted, trajectory truncated", "integrator", res.Integrator, "samples", res.Trajectory.Len())
		}
	}
	return writeComparison(os.Stdout, results)
}

func writeComparison(out io.Writer, results []*experiment.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSAMPLES\tREFINED\tEVENTS\tAMPLITUDE\tMAX |DX|\tMIN STEP\tFINAL T\tDRIFT\tSTATUS")
	for _, res := range results {
		tr := res.Trajectory
		t, _, _ := tr.Last()
		drift := "n/a"
		if res.Relative != nil {
			drift = fmt.Sprintf("%.3e", res.Drift)
		}
		status := "complete"
		if res.Truncated {
			status = "truncated"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.4g\t%.4g\t%.3e\t%.6f\t%s\t%s\n",
			res.Integrator, tr.Len(), tr.Refined, len(tr.Events),
			res.Metrics[metrics.AmplitudeName], tr.MaxDisplacement(), res.Metrics[metrics.MinStepName],
			t, drift, status)
	}
	return w.Flush()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	osc := cfg.Harmonic()
	var tr *dynamo.Trajectory
	if fromPath != "" {
		loaded, err := loadTrajectory(fromPath)
		if err != nil {
			return err
		}
		slog.Debug("trajectory loaded", "path", fromPath, "samples", loaded.Len())
		tr = loaded
	} else {
		res, err := simulate()
		if err != nil {
			return err
		}
		tr, osc = res.Trajectory, res.Oscillator
	}
	fmt.Println(viz.Summary("period estimate", periodEstimate(tr, osc)))
	return nil
}

func loadTrajectory(path string) (*dynamo.Trajectory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	tr, err := storage.LoadTrajectory(file)
	if err != nil {
		return nil, fmt.Errorf("load trajectory %s: %w", path, err)
	}
	return tr, nil
}

// periodEstimate compares the FFT and zero-crossing periods of tr with the
// period of osc. The spectrum is resampled at the largest step in tr, which
// is the nominal step of the run that produced it.
func periodEstimate(tr *dynamo.Trajectory, osc *physics.Harmonic) []viz.Metric {
	want := osc.Period()
	rows := []viz.Metric{
		viz.M("samples", "%d", tr.Len()),
		viz.M("expected", "%.6f s", want),
	}

	_, dt := tr.StepRange()
	fftPeriod, err := analysis.DominantPeriod(tr.Times, tr.Positions, dt)
	if err != nil {
		slog.Warn("spectrum unavailable", "err", err)
	} else {
		rows = append(rows,
			viz.M("fft", "%.6f s", fftPeriod),
			viz.M("fft error", "%.2f%%", 100*(fftPeriod-want)/want))
	}
	crossing, err := analysis.CrossingPeriod(tr.Times, tr.Positions)
	if err != nil {
		slog.Warn("zero crossings unavailable", "err", err)
	} else {
		rows = append(rows,
			viz.M("crossings", "%.6f s", crossing),
			viz.M("crossing error", "%.2f%%", 100*(crossing-want)/want))
	}

	energy, err := metrics.Energy(osc.Mass, osc.K, tr.Positions, tr.Velocities)
	if err == nil {
		drift, err := metrics.MaxDrift(energy)
		if err == nil {
			rows = append(rows, viz.M("energy drift", "%.3e", drift))
		}
	}
	return rows
}

func runLive(cmd *cobra.Command, args []string) error {
	res, err := simulate()
	if err != nil {
		return err
	}
	logEvents(res.Trajectory, 0)
	return viz.RunReplay(fmt.Sprintf("oscillator (%s)", res.Integrator), res.Trajectory, res.Relative)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tX0\tV0\tDT\tMAX DX\tDURATION\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%s\n",
			name, p.InitialPosition, p.InitialVelocity, p.NominalDt, p.MaxDisplacement, p.Duration, p.Description)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	slog.Info("configuration written", "path", args[0])
	return nil
}
