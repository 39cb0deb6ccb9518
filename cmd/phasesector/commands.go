package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/phasesector/internal/analysis"
	"github.com/san-kum/phasesector/internal/config"
	"github.com/san-kum/phasesector/internal/experiment"
	"github.com/san-kum/phasesector/internal/storage"
)

// loadConfig resolves preset, file and environment, then applies the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(preset, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("rule") {
		cfg.Sampling.Rule = rule
	}
	if flags.Changed("seed") {
		cfg.Sampling.Seed = seed
	}
	if flags.Changed("samples") {
		cfg.Sampling.Samples = samples
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("sweep-workers") {
		cfg.SweepWorkers = sweepWorkers
	}
	if flags.Changed("k-rot") {
		cfg.Sweep.KRot = kRots
	}
	if flags.Changed("mass-from") {
		cfg.Sweep.MassFrom = massFrom
	}
	if flags.Changed("mass-to") {
		cfg.Sweep.MassTo = massTo
	}
	if flags.Changed("mass-step") {
		cfg.Sweep.MassStep = massStep
	}
	if flags.Changed("n-max") {
		cfg.NMax = nMax
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newExperiment(cmd *cobra.Command) (*experiment.Experiment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return experiment.New(cfg, slog.Default())
}

func runStudy(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	runID, err := st.Save(report)
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)
	if plot {
		plotPA(os.Stdout, report.Rows())
	}
	fmt.Printf("\n%s %s\n", labelStyle.Render("run id:"), runID)
	return nil
}

func sampleCommand(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := exp.Sample(ctx, mass, kRot)
	if err != nil {
		return err
	}
	printRows(os.Stdout, []experiment.Row{experiment.RowOf(res)})
	return nil
}

func traceCommand(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	pp, verdict, err := exp.Trace(ctx, mass, kRot, phi0)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", labelStyle.Render("sector:"), sectorStyle(verdict.Label).Render(verdict.Label.String()))
	if verdict.Err != nil {
		fmt.Printf("%s %v\n", warnStyle.Render("note:"), verdict.Err)
	}
	fmt.Printf("  rotation_share:    %.4f\n", verdict.Diagnostics.RotationShare)
	fmt.Printf("  outbound_fraction: %.4f\n", verdict.Diagnostics.OutboundFraction)
	fmt.Printf("  decay_rate:        %.4f\n", verdict.Diagnostics.DecayRate)
	if plot {
		plotTrace(os.Stdout, pp)
	}

	if outFile == "" {
		return nil
	}
	if err := storage.ExportTraceCSV(outFile, pp); err != nil {
		return err
	}
	fmt.Printf("%s %d points to %s\n", labelStyle.Render("wrote"), len(pp.Points), outFile)
	return nil
}

func compareCommand(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	out, err := exp.Compare(ctx, mass, kRot, compareTo)
	if err != nil {
		return err
	}
	printComparison(os.Stdout, out)
	return nil
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
	printRuns(os.Stdout, runs)
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadTable(args[0])
	if err != nil {
		return err
	}

	printMetadata(os.Stdout, meta)
	fmt.Println()
	printRows(os.Stdout, rows)
	fmt.Println()
	printEstimates(os.Stdout, meta.Estimates)

	fit, err := st.LoadFit(args[0])
	if err != nil {
		return err
	}
	if fit != nil {
		fmt.Println()
		printFit(os.Stdout, fit)
	}
	if plot {
		plotPA(os.Stdout, rows)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	report, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	if outFile == "" {
		return storage.ExportJSON(os.Stdout, report)
	}
	if err := storage.ExportJSONFile(outFile, report); err != nil {
		return err
	}
	slog.Info("report exported", "path", outFile)
	return nil
}

func fitRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	curve, err := st.LoadCurve(args[0])
	if err != nil {
		return err
	}

	k, m := curve.Defined()
	fit, err := analysis.FitQuadratic(k, m)
	if err != nil {
		return err
	}
	printFit(os.Stdout, fit)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	printRegistry(os.Stdout, experiment.NewRegistry())
	return nil
}
