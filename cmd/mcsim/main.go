package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool
	// Run configuration
	configFile  string
	preset      string
	boxLength   float64
	cutoff      float64
	cutoff2     float64
	temperature float64
	cycles      int
	moves       int
	delta       float64
	every       int
	seed        []uint
	workers     int
	// Potential
	potName string
	sigma   float64
	epsilon float64
	mieN    int
	mieM    int
	// Initial configuration
	initFile string
	lattice  int
	// Extra energy file alongside the run directory
	energyOut string
	// Analysis
	discard float64
	blocks  int
	// Output file for export and lattice
	outFile string
	// Benchmark
	benchTrials int
	// Live view
	frameRate int
	// Ensemble and sweep
	replicas   int
	parallel   int
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcsim",
		Short: "Metropolis Monte-Carlo sampling of Lennard-Jones and Mie fluids",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "run directory root (default: config output)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its energy series",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&energyOut, "energy-out", "", "also write reported energies to this file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [run_id]",
		Short: "energy statistics with block-averaged error",
		Args:  cobra.ExactArgs(1),
		RunE:  statsRun,
	}
	statsCmd.Flags().Float64Var(&discard, "discard", 0.2, "leading fraction of the series treated as equilibration")
	statsCmd.Flags().IntVar(&blocks, "blocks", 0, "number of blocks (default: from correlation time)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and energies as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "cycles per second")

	latticeCmd := &cobra.Command{
		Use:   "lattice [n] [box_length]",
		Short: "write a simple cubic starting configuration",
		Args:  cobra.ExactArgs(2),
		RunE:  writeLattice,
	}
	latticeCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time trial moves and total energy evaluation",
		Args:  cobra.NoArgs,
		RunE:  benchEnergy,
	}
	addConfigFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchTrials, "trials", 100000, "trial moves to time")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run independent replicas with consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addConfigFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&replicas, "replicas", 4, "number of replicas")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", 0, "replicas running at once (0: one per CPU)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per value of a parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "temperature", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.8, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 2.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "runs at once (0: one per CPU)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, statsCmd, exportCmd, presetsCmd, liveCmd, latticeCmd, benchCmd, ensembleCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&boxLength, "box", 10, "box side length")
	f.Float64Var(&cutoff, "cutoff", 0, "cutoff radius")
	f.Float64Var(&cutoff2, "cutoff2", 9, "squared cutoff radius")
	f.Float64Var(&temperature, "temperature", 1, "temperature")
	f.IntVar(&cycles, "cycles", 1000, "number of cycles")
	f.IntVar(&moves, "moves", 0, "trial moves per cycle (0: one per particle)")
	f.Float64Var(&delta, "delta", 0.3, "maximum displacement per coordinate")
	f.IntVar(&every, "every", 10, "report every n cycles")
	f.UintSliceVar(&seed, "seed", []uint{1, 2, 3, 4}, "four 32-bit seed words")
	f.IntVar(&workers, "workers", 0, "workers for parallel energy checks (0: one per CPU)")
	f.StringVar(&potName, "potential", "lj", "pair potential (lj, mie)")
	f.Float64Var(&sigma, "sigma", 1, "potential length scale")
	f.Float64Var(&epsilon, "epsilon", 1, "potential energy scale")
	f.IntVar(&mieN, "n", 12, "Mie repulsive exponent")
	f.IntVar(&mieM, "m", 6, "Mie attractive exponent")
	f.StringVar(&initFile, "init", "", "initial coordinate file (excludes --lattice)")
	f.IntVar(&lattice, "lattice", 500, "particles on a cubic lattice (excludes --init)")
}
