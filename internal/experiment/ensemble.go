package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/mc"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent replicas of one configuration concurrently.
// Replica i uses the base seed with i added to its last word, so replica 0
// reproduces a plain run. Each chain stays strictly serial.
type Ensemble struct {
	base     *config.Config
	replicas int
	parallel int
	logger   *slog.Logger
}

func NewEnsemble(base *config.Config, replicas, parallel int, logger *slog.Logger) *Ensemble {
	if logger == nil {
		logger = slog.Default()
	}
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{base: base, replicas: replicas, parallel: parallel, logger: logger}
}

// ReplicaConfig returns the configuration of replica i.
func (e *Ensemble) ReplicaConfig(i int) *config.Config {
	cfg := *e.base
	cfg.Seed = append([]uint32(nil), e.base.Seed...)
	if n := len(cfg.Seed); n > 0 {
		cfg.Seed[n-1] += uint32(i)
	}
	return &cfg
}

func (e *Ensemble) Run(ctx context.Context) ([]*mc.Result, error) {
	if e.replicas <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one replica, got %d", e.replicas)
	}

	configs := make([]*config.Config, e.replicas)
	for i := range configs {
		configs[i] = e.ReplicaConfig(i)
	}
	return runAll(ctx, configs, e.parallel, e.logger.With("ensemble", e.replicas))
}

// SweepPoint is the outcome of one value of a parameter sweep.
type SweepPoint struct {
	Value  float64
	Result *mc.Result
}

var sweepParams = map[string]func(*config.Config, float64){
	"temperature":      func(c *config.Config, v float64) { c.Temperature = v },
	"box_length":       func(c *config.Config, v float64) { c.BoxLength = v },
	"max_displacement": func(c *config.Config, v float64) { c.MaxDisplacement = v },
	"cutoff":           func(c *config.Config, v float64) { c.Cutoff = v },
	"epsilon":          func(c *config.Config, v float64) { c.Potential.Epsilon = v },
	"sigma":            func(c *config.Config, v float64) { c.Potential.Sigma = v },
}

func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sweep runs base once per value of the named parameter, concurrently, and
// returns the points in the order of values.
func Sweep(ctx context.Context, base *config.Config, param string, values []float64, parallel int, logger *slog.Logger) ([]SweepPoint, error) {
	set, ok := sweepParams[param]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter: %s (available: %v)", param, SweepParams())
	}
	if logger == nil {
		logger = slog.Default()
	}
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	configs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := *base
		cfg.Seed = append([]uint32(nil), base.Seed...)
		set(&cfg, v)
		configs[i] = &cfg
	}

	results, err := runAll(ctx, configs, parallel, logger.With("sweep", param))
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(values))
	for i, v := range values {
		points[i] = SweepPoint{Value: v, Result: results[i]}
	}
	return points, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// runAll builds and runs one experiment per config with at most parallel
// running at once. The first failure cancels the rest.
func runAll(ctx context.Context, configs []*config.Config, parallel int, logger *slog.Logger) ([]*mc.Result, error) {
	results := make([]*mc.Result, len(configs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, cfg := range configs {
		g.Go(func() error {
			exp, err := New(cfg, logger.With("index", i))
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
