package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/physlab/internal/physics"
	"github.com/san-kum/physlab/internal/rdf"
	"github.com/san-kum/physlab/internal/viz"
)

func runLennardJones(cmd *cobra.Command, args []string) error {
	lj := cfg.LennardJones()
	if err := lj.Validate(); err != nil {
		return err
	}
	if !(cfg.LJ.ForceScale > 0) {
		return fmt.Errorf("force scale must be positive, got %g", cfg.LJ.ForceScale)
	}
	tbl, err := lj.Table(cfg.LJ.RMin, cfg.LJ.RMax, cfg.LJ.Points)
	if err != nil {
		return err
	}

	rm := lj.MinimumDistance()
	fmt.Println(viz.Summary("Lennard-Jones pair", []viz.Metric{
		viz.M("sigma", "%g nm", lj.Sigma),
		viz.M("epsilon", "%g meV (%.4g J, %.2f K)", lj.Epsilon, physics.MeVToJoule(lj.Epsilon), physics.MeVToKelvin(lj.Epsilon)),
		viz.M("minimum", "r=%.5f nm U=%.5f meV", rm, lj.Potential(rm)),
	}))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "R [nm]\tU [meV]\tF [meV/nm]")
	for i, r := range tbl.R {
		fmt.Fprintf(w, "%.4f\t%.5f\t%.5f\n", r, tbl.Potential[i], tbl.Force[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if noPlot {
		return nil
	}
	fmt.Println(viz.LennardJonesFigure(viz.NewFigureSeq(), tbl, cfg.LJ.ForceScale))
	return nil
}

func parseSpeeds(args []string) ([]float64, error) {
	speeds := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid initial speed %q: %w", a, err)
		}
		speeds[i] = v
	}
	return speeds, nil
}

func runShoot(cmd *cobra.Command, args []string) error {
	speeds, err := parseSpeeds(args)
	if err != nil {
		return err
	}
	p := cfg.PuckModel()

	seq := viz.NewFigureSeq()
	for _, v0 := range speeds {
		shot, err := p.Shoot(v0, cfg.Puck.Ticks)
		if err != nil {
			return fmt.Errorf("shot v0=%g: %w", v0, err)
		}
		slog.Debug("shot sampled", "v0", v0, "stop_time", shot.StopTime, "samples", len(shot.Times))

		fmt.Println(viz.Summary(fmt.Sprintf("shot v0 = %g m/s", v0), []viz.Metric{
			viz.M("stop time", "%.4f s", shot.StopTime),
			viz.M("distance", "%.4f m", shot.Distance()),
			viz.M("launch decel", "%.4f m/s²", -p.Acceleration(v0, 0)),
		}))
		if noPlot || len(shot.Times) < 2 {
			continue
		}
		for _, fig := range viz.ShotFigures(seq, shot) {
			fmt.Println(fig)
		}
	}
	return nil
}

func runPuckCompare(cmd *cobra.Command, args []string) error {
	speeds, err := parseSpeeds(args)
	if err != nil {
		return err
	}
	p := cfg.PuckModel()

	summaries, err := p.Compare(speeds, cfg.Puck.Ticks)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "V0 [m/s]\tSTOP [s]\tDISTANCE [m]")
	for _, s := range summaries {
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\n", s.V0, s.StopTime, s.Distance)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if noPlot {
		return nil
	}
	shots := make([]*physics.Shot, 0, len(speeds))
	for _, v0 := range speeds {
		shot, err := p.Shoot(v0, cfg.Puck.Ticks)
		if err != nil {
			return err
		}
		shots = append(shots, shot)
	}
	seq := viz.NewFigureSeq()
	fmt.Println(viz.ShotSummaryFigure(seq, summaries))
	fmt.Println(viz.ShotComparison(seq, p, shots))
	return nil
}

func runRDF(cmd *cobra.Command, args []string) error {
	cols := rdf.Columns{Distance: distanceCol, Temperature: temperatureCol, Value: valueCol}
	surface, err := rdf.Load(args[0], cols)
	if err != nil {
		return err
	}
	if missing := surface.Missing(); missing > 0 {
		slog.Warn("surface has missing cells", "count", missing, "file", args[0])
	}

	fmt.Println(viz.Summary("RDF surface", []viz.Metric{
		viz.M("samples", "%d", len(surface.Points)),
		viz.M("distances", "%d", len(surface.Distances)),
		viz.M("temperatures", "%d", len(surface.Temperatures)),
	}))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEMPERATURE\tPEAK R\tPEAK G(R)")
	for i, temp := range surface.Temperatures {
		r, g := surface.Peak(i)
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\n", temp, r, g)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if noPlot {
		return nil
	}
	fmt.Println(viz.SurfaceFigure(viz.NewFigureSeq(), surface))
	return nil
}
