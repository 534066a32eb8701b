package main

import (
	"fmt"
	"math"

	"github.com/san-kum/mcsim/internal/config"
	"github.com/spf13/cobra"
)

// resolveConfig layers defaults, a preset, a config file and finally any
// flags set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	f := cmd.Flags()
	if f.Changed("init") && f.Changed("lattice") {
		return nil, fmt.Errorf("--init and --lattice are mutually exclusive")
	}
	if f.Changed("box") {
		cfg.BoxLength = boxLength
	}
	if f.Changed("cutoff2") {
		cfg.Cutoff, cfg.Cutoff2 = 0, cutoff2
	}
	if f.Changed("cutoff") {
		cfg.Cutoff = cutoff
	}
	if f.Changed("temperature") {
		cfg.Temperature = temperature
	}
	if f.Changed("cycles") {
		cfg.Cycles = cycles
	}
	if f.Changed("moves") {
		cfg.MovesPerCycle = moves
	}
	if f.Changed("delta") {
		cfg.MaxDisplacement = delta
	}
	if f.Changed("every") {
		cfg.ReportEvery = every
	}
	if f.Changed("seed") {
		cfg.Seed = make([]uint32, len(seed))
		for i, s := range seed {
			if s > math.MaxUint32 {
				return nil, fmt.Errorf("seed word %d out of range: %d", i, s)
			}
			cfg.Seed[i] = uint32(s)
		}
	}
	if f.Changed("workers") {
		cfg.Workers = workers
	}
	if f.Changed("potential") {
		cfg.Potential.Name = potName
	}
	if f.Changed("sigma") {
		cfg.Potential.Sigma = sigma
	}
	if f.Changed("epsilon") {
		cfg.Potential.Epsilon = epsilon
	}
	if cfg.Potential.Name == "mie" {
		if f.Changed("n") || cfg.Potential.N == 0 {
			cfg.Potential.N = mieN
		}
		if f.Changed("m") || cfg.Potential.M == 0 {
			cfg.Potential.M = mieM
		}
	}
	if f.Changed("init") {
		cfg.Init = config.InitConfig{File: initFile}
	}
	if f.Changed("lattice") {
		cfg.Init = config.InitConfig{Lattice: lattice}
	}
	if dataDir != "" {
		cfg.Output = dataDir
	}

	return cfg, cfg.Validate()
}

// storeDir is where list, plot, stats and export look for runs.
func storeDir() string {
	if dataDir != "" {
		return dataDir
	}
	return config.DefaultOutput
}
