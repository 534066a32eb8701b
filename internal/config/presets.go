package config

import "sort"

// Presets are complete run configurations addressed by name.
var Presets = map[string]*Config{
	// NIST SRSW Lennard-Jones reference state: 800 particles in L=10, rc=3.
	"nist": {
		BoxLength: 10, Cutoff2: 9, Temperature: 0.9, Cycles: 2000, MaxDisplacement: 0.15, ReportEvery: 10,
		Potential: PotentialConfig{Name: "lj", Sigma: 1, Epsilon: 1},
		Init:      InitConfig{Lattice: 800},
	},
	"dilute": {
		BoxLength: 10, Cutoff2: 9, Temperature: 2.0, Cycles: 1000, MaxDisplacement: 1.0, ReportEvery: 10,
		Potential: PotentialConfig{Name: "lj", Sigma: 1, Epsilon: 1},
		Init:      InitConfig{Lattice: 100},
	},
	"dense": {
		BoxLength: 8, Cutoff2: 6.25, Temperature: 1.2, Cycles: 1000, MaxDisplacement: 0.1, ReportEvery: 10,
		Potential: PotentialConfig{Name: "lj", Sigma: 1, Epsilon: 1},
		Init:      InitConfig{Lattice: 460},
	},
	"mie-12-6": {
		BoxLength: 10, Cutoff2: 9, Temperature: 1.0, Cycles: 1000, MaxDisplacement: 0.3, ReportEvery: 10,
		Potential: PotentialConfig{Name: "mie", Sigma: 1, Epsilon: 1, N: 12, M: 6},
		Init:      InitConfig{Lattice: 500},
	},
	"mie-14-7": {
		BoxLength: 10, Cutoff2: 9, Temperature: 1.0, Cycles: 1000, MaxDisplacement: 0.3, ReportEvery: 10,
		Potential: PotentialConfig{Name: "mie", Sigma: 1, Epsilon: 1, N: 14, M: 7},
		Init:      InitConfig{Lattice: 500},
	},
}

// GetPreset returns a copy of the named preset with the default seed and
// output directory filled in, or nil if no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	def := DefaultConfig()
	cfg.Seed = def.Seed
	cfg.Output = def.Output
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
