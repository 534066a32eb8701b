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
	"text/tabwriter"
	"time"

	"github.com/san-kum/mcsim/internal/analysis"
	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/coords"
	"github.com/san-kum/mcsim/internal/experiment"
	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/storage"
	"github.com/san-kum/mcsim/internal/viz"
	"github.com/spf13/cobra"
)

// setup builds the experiment with every registered metric attached and
// opens a run directory whose sink receives the reported energies.
func setup(cmd *cobra.Command) (*experiment.Experiment, *storage.Run, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	exp, err := experiment.New(cfg, slog.Default())
	if err != nil {
		return nil, nil, err
	}

	registry := experiment.NewRegistry()
	for _, name := range registry.ListMetrics() {
		m, err := registry.GetMetric(name)
		if err != nil {
			return nil, nil, err
		}
		exp.AddMetric(m)
	}

	st := storage.New(cfg.Output)
	if err := st.Init(); err != nil {
		return nil, nil, err
	}
	run, err := st.Create()
	if err != nil {
		return nil, nil, err
	}
	exp.AddObserver(run.Sink)
	slog.Debug("opened run directory", "id", run.ID, "dir", run.Dir)

	return exp, run, nil
}

func metadata(exp *experiment.Experiment, res *mc.Result, runErr error) storage.RunMetadata {
	n := exp.NumParticles()
	meta := storage.RunMetadata{
		Config:    exp.Config(),
		Particles: n,
		Density:   exp.Box().Density(n),
		Volume:    exp.Box().Volume(),
	}
	meta.Describe(exp.Potential())
	meta.Fill(res)
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	return meta
}

func summary(runID string, exp *experiment.Experiment, res *mc.Result, elapsed time.Duration) string {
	n := exp.NumParticles()
	fields := []viz.Field{
		viz.F("Run", "%s", runID),
		viz.F("Potential", "%s", exp.Potential().Name()),
		viz.F("Particles", "%d", n),
		viz.F("Density", "%.4f", exp.Box().Density(n)),
		viz.F("Volume", "%.4f", exp.Box().Volume()),
		viz.F("Initial energy", "%.6f", res.Initial),
		viz.F("Final energy", "%.6f", res.Final),
		viz.F("Drift", "%e", res.Drift),
		viz.F("Acceptance", "%.4f", res.AcceptanceRatio()),
		viz.F("Cycles", "%d", res.Cycles),
		viz.F("Elapsed", "%v", elapsed.Round(time.Millisecond)),
	}
	return viz.Table("Monte-Carlo run", fields)
}

func runSimulation(cmd *cobra.Command, args []string) (err error) {
	var extra *storage.TextSink
	if energyOut != "" {
		f, ferr := os.Create(energyOut)
		if ferr != nil {
			return ferr
		}
		extra = storage.NewTextSink(f)
		defer func() {
			if cerr := extra.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close %s: %w", energyOut, cerr))
			}
		}()
	}

	exp, run, err := setup(cmd)
	if err != nil {
		return err
	}
	if extra != nil {
		exp.AddObserver(extra)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, runErr := exp.Run(ctx)
	elapsed := time.Since(start)

	if err := run.Finish(metadata(exp, res, runErr), exp.Engine().Particles()); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}

	fmt.Println(summary(run.ID, exp, res, elapsed))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, run, err := setup(cmd)
	if err != nil {
		return err
	}
	if frameRate <= 0 {
		return fmt.Errorf("fps must be positive, got %d", frameRate)
	}

	eng := exp.Engine()
	model := viz.NewLiveModel(exp.Potential().Name(), eng, exp.Box(), run.Sink).
		WithInterval(time.Second / time.Duration(frameRate))

	start := time.Now()
	final, err := viz.RunLive(model)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runErr := final.Err()
	if runErr == nil && !eng.Done() {
		runErr = fmt.Errorf("stopped at cycle %d of %d", eng.Cycle(), eng.Config().Cycles)
	}
	res := eng.Result()
	if err := run.Finish(metadata(exp, res, runErr), eng.Particles()); err != nil {
		return err
	}

	fmt.Println(summary(run.ID, exp, res, elapsed))
	if energies := final.Energies(); len(energies) > 1 {
		fmt.Println(viz.Plot(energies, "total energy vs report", 10, 60))
	}
	return final.Err()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(storeDir())
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPOTENTIAL\tN\tT\tCYCLES\tFINAL\tACCEPT\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = run.Error
		}
		temp := 0.0
		if run.Config != nil {
			temp = run.Config.Temperature
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%d\t%.4f\t%.3f\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Potential,
			run.Particles,
			temp,
			run.Cycles,
			run.Final,
			run.Acceptance,
			status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(storeDir())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	energies, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}
	if len(energies) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("samples: %d\n\n", len(energies))
	fmt.Println(viz.Plot(energies, "total energy vs report", 12, 80))
	return nil
}

func statsRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(storeDir())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	energies, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}

	prod := analysis.Discard(energies, discard)
	sum, err := analysis.Summarize(prod)
	if err != nil {
		return err
	}
	tau := analysis.CorrelationTime(prod)

	nb := blocks
	if nb == 0 {
		nb = len(prod) / int(math.Ceil(10*tau))
		nb = min(max(nb, 2), len(prod))
	}

	fields := []viz.Field{
		viz.F("Samples", "%d of %d", sum.N, len(energies)),
		viz.F("Mean", "%.6f", sum.Mean),
		viz.F("Std dev", "%.6f", sum.StdDev),
		viz.F("Min / Max", "%.4f / %.4f", sum.Min, sum.Max),
		viz.F("Corr. time", "%.2f reports", tau),
	}
	if ba, err := analysis.BlockAverage(prod, nb); err == nil {
		fields = append(fields, viz.F("Block error", "%.6f (%d blocks of %d)", ba.StdErr, ba.Blocks, ba.BlockSize))
	} else {
		slog.Warn("block average unavailable", "error", err)
	}
	if meta.Particles > 0 {
		fields = append(fields, viz.F("Mean per particle", "%.6f", sum.Mean/float64(meta.Particles)))
	}
	fields = append(fields, viz.F("Relative drift", "%e", analysis.RelativeDrift(meta.Final, meta.Recomputed)))

	fmt.Println(viz.Table("Energy statistics", fields))
	fmt.Println(viz.Sparkline(prod, 60))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(storeDir())
	if outFile == "" {
		return st.Export(os.Stdout, args[0])
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := st.Export(f, args[0]); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPOTENTIAL\tN\tBOX\tRC²\tT\tCYCLES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		pot := p.Potential.Name
		if pot == "mie" {
			pot = fmt.Sprintf("mie %d-%d", p.Potential.N, p.Potential.M)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%d\n",
			name, pot, p.Init.Lattice, p.BoxLength, p.Rc2(), p.Temperature, p.Cycles)
	}
	return w.Flush()
}

func writeLattice(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("particle count: %w", err)
	}
	l, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("box length: %w", err)
	}

	ps, err := coords.Lattice(n, l)
	if err != nil {
		return err
	}
	if outFile == "" {
		return coords.Write(os.Stdout, ps)
	}
	if err := coords.WriteFile(outFile, ps); err != nil {
		return err
	}
	slog.Info("wrote lattice", "particles", n, "box_length", l, "path", outFile)
	return nil
}

func benchEnergy(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, slog.Default())
	if err != nil {
		return err
	}
	eval := exp.Evaluator()
	ps := exp.InitialParticles()
	ctx := cmd.Context()

	fmt.Printf("benchmarking %d particles, %s potential\n\n", len(ps), exp.Potential().Name())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OPERATION\tCALLS\tTIME\tPER CALL")

	const reps = 5
	start := time.Now()
	var serial float64
	for i := 0; i < reps; i++ {
		serial = eval.Total(ps)
	}
	row(w, "total (serial)", reps, time.Since(start))

	for _, n := range []int{2, 4, 8} {
		start = time.Now()
		for i := 0; i < reps; i++ {
			par, err := eval.TotalParallel(ctx, ps, n)
			if err != nil {
				return err
			}
			if par != serial {
				slog.Warn("parallel total differs from serial", "workers", n, "serial", serial, "parallel", par)
			}
		}
		row(w, fmt.Sprintf("total (%d workers)", n), reps, time.Since(start))
	}

	start = time.Now()
	for i := 0; i < reps; i++ {
		check, err := exp.Verify(ctx)
		if err != nil {
			return err
		}
		if check != serial {
			slog.Warn("verified total differs from serial", "workers", cfg.Workers, "serial", serial, "parallel", check)
		}
	}
	row(w, "total (configured workers)", reps, time.Since(start))

	start = time.Now()
	for i := 0; i < benchTrials; i++ {
		exp.Engine().Trial()
	}
	row(w, "trial move", benchTrials, time.Since(start))

	return w.Flush()
}

func row(w io.Writer, op string, calls int, elapsed time.Duration) {
	fmt.Fprintf(w, "%s\t%d\t%v\t%v\n", op, calls, elapsed.Round(time.Microsecond), elapsed/time.Duration(max(calls, 1)))
}
