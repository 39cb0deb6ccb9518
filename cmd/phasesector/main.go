package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	configFile   string
	preset       string
	integrator   string
	rule         string
	seed         uint64
	samples      int
	workers      int
	sweepWorkers int
	kRots        []float64
	massFrom     float64
	massTo       float64
	massStep     float64
	nMax         float64

	mass      float64
	kRot      float64
	phi0      float64
	outFile   string
	compareTo []string
	plot      bool
)

// main registers the phasesector commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "phasesector",
		Short:         "phase-sector bifurcation study of a rotating scalar field",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".phasesector", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the full (k_rot, mass) sweep and store the tables",
		Args:  cobra.NoArgs,
		RunE:  runStudy,
	}
	studyFlags(runCmd)
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot P_A against m_phi for each k_rot")

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "sample one ensemble at a single (mass, k_rot) point",
		Args:  cobra.NoArgs,
		RunE:  sampleCommand,
	}
	studyFlags(sampleCmd)
	pointFlags(sampleCmd)

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "integrate and classify a single trajectory",
		Args:  cobra.NoArgs,
		RunE:  traceCommand,
	}
	studyFlags(traceCmd)
	pointFlags(traceCmd)
	traceCmd.Flags().Float64Var(&phi0, "phi0", 1.0, "initial phase")
	traceCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the trace as CSV")
	traceCmd.Flags().BoolVar(&plot, "plot", false, "plot phi(N) in the terminal")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare integrators on the same ensemble",
		Args:  cobra.NoArgs,
		RunE:  compareCommand,
	}
	studyFlags(compareCmd)
	pointFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&compareTo, "with", []string{"rk4", "rk45", "heun"}, "integrators to compare")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the tables of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&plot, "plot", false, "plot P_A against m_phi for each k_rot")

	exportCmd := &cobra.Command{
		Use:   "export-json",
		Short: "run the sweep and stream the full report as JSON",
		Args:  cobra.NoArgs,
		RunE:  exportJSON,
	}
	studyFlags(exportCmd)
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	fitCmd := &cobra.Command{
		Use:   "fit [run_id]",
		Short: "fit a parabola through the critical-mass curve of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  fitRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets and selectable components",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, sampleCmd, traceCmd, compareCmd, listCmd, showCmd, exportCmd, fitCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func studyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "study config file (yaml)")
	f.StringVar(&preset, "preset", "", "start from a named preset")
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
	f.StringVar(&rule, "rule", "grid", "phase sampling rule (grid, random, stratified)")
	f.Uint64Var(&seed, "seed", 42, "sampling seed")
	f.IntVar(&samples, "samples", 64, "trajectories per ensemble")
	f.IntVar(&workers, "workers", 0, "trajectory workers per ensemble (0 = one per CPU)")
	f.IntVar(&sweepWorkers, "sweep-workers", 0, "concurrent sweep points (0 = one per CPU)")
	f.Float64SliceVar(&kRots, "k-rot", []float64{0.33}, "rotation couplings")
	f.Float64Var(&massFrom, "mass-from", 0.5, "first mass of the sweep")
	f.Float64Var(&massTo, "mass-to", 3.0, "last mass of the sweep")
	f.Float64Var(&massStep, "mass-step", 0.1, "mass step of the sweep")
	f.Float64Var(&nMax, "n-max", 60, "e-folds to integrate")
}

func pointFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&mass, "mass", 1.9, "field mass m_phi")
	cmd.Flags().Float64Var(&kRot, "k", 0.33, "rotation coupling k_rot")
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      lvl,
			TimeFormat: "15:04:05",
		}),
	))
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
