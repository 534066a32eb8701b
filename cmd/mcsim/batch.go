package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/san-kum/mcsim/internal/analysis"
	"github.com/san-kum/mcsim/internal/experiment"
	"github.com/san-kum/mcsim/internal/viz"
	"github.com/spf13/cobra"
)

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ens := experiment.NewEnsemble(cfg, replicas, parallel, slog.Default())
	results, err := ens.Run(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPLICA\tSEED\tFINAL\tDRIFT\tACCEPT")
	finals := make([]float64, len(results))
	for i, res := range results {
		finals[i] = res.Final
		fmt.Fprintf(w, "%d\t%v\t%.6f\t%.2e\t%.4f\n", i, ens.ReplicaConfig(i).Seed, res.Final, res.Drift, res.AcceptanceRatio())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sum, err := analysis.Summarize(finals)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(viz.Table("Ensemble", []viz.Field{
		viz.F("Replicas", "%d", sum.N),
		viz.F("Mean final", "%.6f", sum.Mean),
		viz.F("Std dev", "%.6f", sum.StdDev),
		viz.F("Min / Max", "%.4f / %.4f", sum.Min, sum.Max),
	}))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	values := experiment.Linspace(sweepFrom, sweepTo, sweepSteps)
	points, err := experiment.Sweep(cmd.Context(), cfg, sweepParam, values, parallel, slog.Default())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tINITIAL\tFINAL\tACCEPT\n", sweepParam)
	finals := make([]float64, len(points))
	for i, p := range points {
		finals[i] = p.Result.Final
		fmt.Fprintf(w, "%.4f\t%.6f\t%.6f\t%.4f\n", p.Value, p.Result.Initial, p.Result.Final, p.Result.AcceptanceRatio())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(finals) > 1 {
		fmt.Println()
		fmt.Println(viz.Plot(finals, "final energy vs "+sweepParam, 10, 60))
	}
	return nil
}
