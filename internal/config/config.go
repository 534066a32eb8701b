package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/potential"
	"github.com/san-kum/mcsim/internal/rng"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBoxLength       = 10.0
	DefaultCutoff2         = 9.0
	DefaultTemperature     = 1.0
	DefaultCycles          = 1000
	DefaultMaxDisplacement = 0.3
	DefaultReportEvery     = 10
	DefaultLattice         = 500
	DefaultOutput          = "runs"
)

var ErrInvalid = errors.New("config: invalid configuration")

// Config describes one simulation run. Cutoff is the cutoff radius; when it
// is zero the squared radius Cutoff2 is used instead.
type Config struct {
	BoxLength       float64         `yaml:"box_length" toml:"box_length" json:"box_length"`
	Cutoff          float64         `yaml:"cutoff,omitempty" toml:"cutoff,omitempty" json:"cutoff,omitempty"`
	Cutoff2         float64         `yaml:"cutoff2" toml:"cutoff2" json:"cutoff2"`
	Temperature     float64         `yaml:"temperature" toml:"temperature" json:"temperature"`
	Cycles          int             `yaml:"cycles" toml:"cycles" json:"cycles"`
	MovesPerCycle   int             `yaml:"moves_per_cycle" toml:"moves_per_cycle" json:"moves_per_cycle"`
	MaxDisplacement float64         `yaml:"max_displacement" toml:"max_displacement" json:"max_displacement"`
	ReportEvery     int             `yaml:"report_every" toml:"report_every" json:"report_every"`
	Seed            []uint32        `yaml:"seed,flow" toml:"seed" json:"seed"`
	Workers         int             `yaml:"workers,omitempty" toml:"workers,omitempty" json:"workers,omitempty"`
	Potential       PotentialConfig `yaml:"potential" toml:"potential" json:"potential"`
	Init            InitConfig      `yaml:"init" toml:"init" json:"init"`
	Output          string          `yaml:"output" toml:"output" json:"output"`
}

type PotentialConfig struct {
	Name    string  `yaml:"name" toml:"name" json:"name"`
	Sigma   float64 `yaml:"sigma" toml:"sigma" json:"sigma"`
	Epsilon float64 `yaml:"epsilon" toml:"epsilon" json:"epsilon"`
	N       int     `yaml:"n,omitempty" toml:"n,omitempty" json:"n,omitempty"`
	M       int     `yaml:"m,omitempty" toml:"m,omitempty" json:"m,omitempty"`
}

// InitConfig selects the starting configuration: a coordinate file when File
// is set, otherwise a simple cubic lattice of Lattice particles.
type InitConfig struct {
	File    string `yaml:"file,omitempty" toml:"file,omitempty" json:"file,omitempty"`
	Lattice int    `yaml:"lattice,omitempty" toml:"lattice,omitempty" json:"lattice,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		BoxLength:       DefaultBoxLength,
		Cutoff2:         DefaultCutoff2,
		Temperature:     DefaultTemperature,
		Cycles:          DefaultCycles,
		MaxDisplacement: DefaultMaxDisplacement,
		ReportEvery:     DefaultReportEvery,
		Seed:            append([]uint32(nil), rng.DefaultSeed[:]...),
		Potential: PotentialConfig{
			Name:    "lj",
			Sigma:   1,
			Epsilon: 1,
		},
		Init: InitConfig{
			Lattice: DefaultLattice,
		},
		Output: DefaultOutput,
	}
}

// Load decodes a YAML or TOML file, chosen by extension, over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes a YAML or TOML file over cfg. Keys absent from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	if isTOML(path) {
		_, err := toml.DecodeFile(path, cfg)
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := toml.NewEncoder(f).Encode(cfg); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Rc2 is the squared cutoff radius.
func (c *Config) Rc2() float64 {
	if c.Cutoff != 0 {
		return c.Cutoff * c.Cutoff
	}
	return c.Cutoff2
}

func (c *Config) MC() mc.Config {
	return mc.Config{
		Temperature:     c.Temperature,
		MaxDisplacement: c.MaxDisplacement,
		Cycles:          c.Cycles,
		MovesPerCycle:   c.MovesPerCycle,
		ReportEvery:     c.ReportEvery,
	}
}

func (c *Config) RNGSeed() (rng.Seed, error) {
	var s rng.Seed
	if len(c.Seed) != len(s) {
		return s, fmt.Errorf("%w: seed needs %d words, got %d", ErrInvalid, len(s), len(c.Seed))
	}
	copy(s[:], c.Seed)
	if s == (rng.Seed{}) {
		return s, fmt.Errorf("%w: %w", ErrInvalid, rng.ErrZeroSeed)
	}
	return s, nil
}

func (c *Config) PotentialParams() potential.Params {
	return potential.Params{
		"sigma":   c.Potential.Sigma,
		"epsilon": c.Potential.Epsilon,
		"n":       float64(c.Potential.N),
		"m":       float64(c.Potential.M),
	}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if !(c.BoxLength > 0) || math.IsInf(c.BoxLength, 0) {
		bad("box_length must be positive and finite, got %v", c.BoxLength)
	}
	if !(c.Cutoff >= 0) {
		bad("cutoff must be non-negative, got %v", c.Cutoff)
	}
	if !(c.Cutoff2 >= 0) {
		bad("cutoff2 must be non-negative, got %v", c.Cutoff2)
	}
	if c.Workers < 0 {
		bad("workers must be non-negative, got %d", c.Workers)
	}
	if err := c.MC().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.RNGSeed(); err != nil {
		errs = append(errs, err)
	}
	if _, err := potential.NewRegistry().Get(c.Potential.Name, c.PotentialParams()); err != nil {
		errs = append(errs, fmt.Errorf("%w: potential: %w", ErrInvalid, err))
	}
	if c.Init.File == "" && c.Init.Lattice <= 0 {
		bad("init needs a coordinate file or a positive lattice count")
	}
	if c.Output == "" {
		bad("output directory must be set")
	}

	return errors.Join(errs...)
}
