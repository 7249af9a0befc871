package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/logging"
	"github.com/san-kum/physlab/internal/rdf"
)

var (
	// Config sources
	configFile string
	preset     string
	envFile    string
	logLevel   string
	logFormat  string
	// Oscillator
	integrator     string
	mass           float64
	period         float64
	springConstant float64
	x0             float64
	v0             float64
	dt             float64
	maxDx          float64
	duration       float64
	maxSteps       int
	exportPath     string
	fromPath       string
	noPlot         bool
	maxEventLogs   int
	// Lennard-Jones
	epsilon    float64
	sigma      float64
	rMin       float64
	rMax       float64
	points     int
	forceScale float64
	// Puck
	puckMass float64
	friction float64
	drag     float64
	gravity  float64
	ticks    int
	// RDF columns
	distanceCol    string
	temperatureCol string
	valueCol       string

	cfg *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers the physlab commands on a fresh root.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "physlab",
		Short:             "small physics lab: adaptive oscillator, Lennard-Jones, hockey puck, RDF",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "oscillator preset (see physlab presets)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file with PHYSLAB_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	oscillateCmd := &cobra.Command{
		Use:   "oscillate",
		Short: "integrate the harmonic oscillator with adaptive steps",
		Args:  cobra.NoArgs,
		RunE:  runOscillate,
	}
	addOscillatorFlags(oscillateCmd)
	oscillateCmd.Flags().StringVar(&exportPath, "export", "", "write the trajectory to a .csv or .json file")
	oscillateCmd.Flags().BoolVar(&noPlot, "no-plot", false, "print the summary only")
	oscillateCmd.Flags().IntVar(&maxEventLogs, "max-event-logs", 20, "log at most this many step fallbacks")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare fixed and adaptive integrators on the same oscillator",
		RunE:  runCompare,
	}
	addOscillatorFlags(compareCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "estimate the oscillation period by FFT and zero crossings",
		Args:  cobra.NoArgs,
		RunE:  runAnalyze,
	}
	addOscillatorFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&fromPath, "from", "", "analyze a trajectory CSV written by oscillate --export instead of integrating")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "replay an oscillator trajectory in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addOscillatorFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list oscillator presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	addOscillatorFlags(configCmd)

	ljCmd := &cobra.Command{
		Use:   "lj",
		Short: "Lennard-Jones potential and force table",
		Args:  cobra.NoArgs,
		RunE:  runLennardJones,
	}
	ljCmd.Flags().Float64Var(&epsilon, "epsilon", 0, "well depth [meV]")
	ljCmd.Flags().Float64Var(&sigma, "sigma", 0, "zero-crossing distance [nm]")
	ljCmd.Flags().Float64Var(&rMin, "rmin", 0, "first grid distance [nm]")
	ljCmd.Flags().Float64Var(&rMax, "rmax", 0, "last grid distance [nm]")
	ljCmd.Flags().IntVar(&points, "points", 0, "grid points")
	ljCmd.Flags().Float64Var(&forceScale, "force-scale", 0, "divisor applied to the plotted force")
	ljCmd.Flags().BoolVar(&noPlot, "no-plot", false, "print the table only")

	puckCmd := &cobra.Command{
		Use:   "puck",
		Short: "hockey puck sliding with air drag and ice friction",
		Long: `Hockey puck sliding with linear air drag and kinetic ice friction:

  m·dv/dt = -d·v - μ·m·g

The friction force is μ·m·g. Formulations that write it as μ·m, without g,
stop the puck later: about 3.22 s instead of 1.95 s for v0 = 10 m/s with
the default parameters. Their numbers are not directly comparable.`,
	}
	shootCmd := &cobra.Command{
		Use:   "shoot V0...",
		Short: "velocity, position and acceleration of each shot",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runShoot,
	}
	addPuckFlags(shootCmd)
	shootCmd.Flags().BoolVar(&noPlot, "no-plot", false, "print the summary only")
	puckCompareCmd := &cobra.Command{
		Use:   "compare V0...",
		Short: "stop time and distance for several initial speeds",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPuckCompare,
	}
	addPuckFlags(puckCompareCmd)
	puckCompareCmd.Flags().BoolVar(&noPlot, "no-plot", false, "print the table only")
	puckCmd.AddCommand(shootCmd, puckCompareCmd)

	rdfCmd := &cobra.Command{
		Use:   "rdf [file.csv]",
		Short: "radial distribution function surface from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  runRDF,
	}
	rdfCmd.Flags().StringVar(&distanceCol, "distance-col", rdf.DefaultDistanceColumn, "distance column header")
	rdfCmd.Flags().StringVar(&temperatureCol, "temperature-col", rdf.DefaultTemperatureColumn, "temperature column header")
	rdfCmd.Flags().StringVar(&valueCol, "value-col", rdf.DefaultValueColumn, "g(r) column header")
	rdfCmd.Flags().BoolVar(&noPlot, "no-plot", false, "print the summary only")

	rootCmd.AddCommand(oscillateCmd, compareCmd, analyzeCmd, liveCmd, presetsCmd, configCmd, ljCmd, puckCmd, rdfCmd)
	return rootCmd
}

func addOscillatorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator: varstep or euler")
	cmd.Flags().Float64Var(&mass, "mass", 1.0, "mass [kg]")
	cmd.Flags().Float64Var(&period, "period", 1.0, "period [s], sets k = m(2π/T)²")
	cmd.Flags().Float64Var(&springConstant, "k", 0, "spring constant [N/m], overrides --period when positive")
	cmd.Flags().Float64Var(&x0, "x0", config.DefaultPosition, "initial position [m]")
	cmd.Flags().Float64Var(&v0, "v0", 0, "initial velocity [m/s]")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "nominal timestep [s]")
	cmd.Flags().Float64Var(&maxDx, "max-dx", config.DefaultMaxDisplacement, "maximum displacement per step [m]")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step budget (0 uses the default)")
}

func addPuckFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&puckMass, "mass", 0, "puck mass [kg]")
	cmd.Flags().Float64Var(&friction, "friction", 0, "ice friction coefficient")
	cmd.Flags().Float64Var(&drag, "drag", 0, "air drag coefficient [kg/s]")
	cmd.Flags().Float64Var(&gravity, "gravity", 0, "gravitational acceleration [m/s²]")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "samples per shot")
}

// setup resolves the configuration for every command. Precedence from
// lowest to highest: defaults, preset, config file, environment, flags.
func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}

	c := config.DefaultConfig()
	if preset != "" {
		p, ok := config.Presets[preset]
		if !ok {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		p.Apply(c)
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, c); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if err := config.ApplyEnv(c); err != nil {
		return err
	}
	applyFlags(cmd, c)

	if err := logging.Init(os.Stderr, c.Log.Level, c.Log.Format); err != nil {
		return err
	}
	slog.Debug("configuration resolved", "command", cmd.Name(), "preset", preset, "config", configFile)
	cfg = c
	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if f.Changed("log-format") {
		c.Log.Format = logFormat
	}

	if f.Lookup("x0") != nil {
		if f.Changed("integrator") {
			c.Integrator = integrator
		}
		if f.Changed("mass") {
			c.Mass = mass
		}
		if f.Changed("period") {
			c.Period = period
		}
		if f.Changed("k") {
			c.SpringConstant = springConstant
		}
		if f.Changed("x0") {
			c.InitialPosition = x0
		}
		if f.Changed("v0") {
			c.InitialVelocity = v0
		}
		if f.Changed("dt") {
			c.NominalDt = dt
		}
		if f.Changed("max-dx") {
			c.MaxDisplacement = maxDx
		}
		if f.Changed("time") {
			c.Duration = duration
		}
		if f.Changed("max-steps") {
			c.MaxSteps = maxSteps
		}
	}

	if f.Lookup("ticks") != nil {
		if f.Changed("mass") {
			c.Puck.Mass = puckMass
		}
		if f.Changed("friction") {
			c.Puck.Friction = friction
		}
		if f.Changed("drag") {
			c.Puck.Drag = drag
		}
		if f.Changed("gravity") {
			c.Puck.Gravity = gravity
		}
		if f.Changed("ticks") {
			c.Puck.Ticks = ticks
		}
	}

	if f.Changed("epsilon") {
		c.LJ.Epsilon = epsilon
	}
	if f.Changed("sigma") {
		c.LJ.Sigma = sigma
	}
	if f.Changed("rmin") {
		c.LJ.RMin = rMin
	}
	if f.Changed("rmax") {
		c.LJ.RMax = rMax
	}
	if f.Changed("points") {
		c.LJ.Points = points
	}
	if f.Changed("force-scale") {
		c.LJ.ForceScale = forceScale
	}
}
