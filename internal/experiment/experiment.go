package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/mcsim/internal/box"
	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/coords"
	"github.com/san-kum/mcsim/internal/energy"
	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/potential"
	"github.com/san-kum/mcsim/internal/rng"
	"github.com/san-kum/mcsim/internal/vec"
)

// DriftTolerance bounds |running - recomputed| before a finished run is
// logged as inconsistent.
const DriftTolerance = 1e-6

type Experiment struct {
	cfg       *config.Config
	box       box.Box
	pot       potential.PairPotential
	eval      *energy.Evaluator
	engine    *mc.Engine
	initial   []vec.Vec3
	logger    *slog.Logger
	metrics   []mc.Metric
	observers []mc.Observer
}

// New validates cfg and assembles the box, potential, evaluator, starting
// configuration, random source and engine. Every configuration error
// surfaces here, before any trial move runs.
func New(cfg *config.Config, logger *slog.Logger) (*Experiment, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b, err := box.New(cfg.BoxLength)
	if err != nil {
		return nil, err
	}
	pot, err := potential.NewRegistry().Get(cfg.Potential.Name, cfg.PotentialParams())
	if err != nil {
		return nil, err
	}
	eval, err := energy.New(b, pot, cfg.Rc2())
	if err != nil {
		return nil, err
	}
	if rc := math.Sqrt(cfg.Rc2()); rc > b.L/2 {
		logger.Warn("cutoff exceeds half the box length; minimum image misses periodic neighbors",
			"cutoff", rc, "half_box", b.L/2)
	}

	particles, err := initialParticles(cfg, b)
	if err != nil {
		return nil, err
	}

	seed, err := cfg.RNGSeed()
	if err != nil {
		return nil, err
	}
	src, err := rng.NewXorShift(seed)
	if err != nil {
		return nil, err
	}

	engine, err := mc.New(eval, particles, src, cfg.MC())
	if err != nil {
		return nil, err
	}

	return &Experiment{
		cfg:     cfg,
		box:     b,
		pot:     pot,
		eval:    eval,
		engine:  engine,
		initial: particles,
		logger:  logger,
	}, nil
}

func initialParticles(cfg *config.Config, b box.Box) ([]vec.Vec3, error) {
	if cfg.Init.File != "" {
		ps, err := coords.ReadFile(cfg.Init.File)
		if err != nil {
			return nil, fmt.Errorf("load initial configuration: %w", err)
		}
		return ps, nil
	}
	return coords.Lattice(cfg.Init.Lattice, b.L)
}

func (e *Experiment) Config() *config.Config             { return e.cfg }
func (e *Experiment) Box() box.Box                       { return e.box }
func (e *Experiment) Potential() potential.PairPotential { return e.pot }
func (e *Experiment) Evaluator() *energy.Evaluator       { return e.eval }
func (e *Experiment) Engine() *mc.Engine                 { return e.engine }
func (e *Experiment) InitialParticles() []vec.Vec3       { return vec.Clone(e.initial) }
func (e *Experiment) NumParticles() int                  { return len(e.initial) }
func (e *Experiment) AddObserver(o mc.Observer)          { e.observers = append(e.observers, o) }

// AddMetric attaches a metric to the engine and remembers it for logging.
func (e *Experiment) AddMetric(m mc.Metric) {
	e.metrics = append(e.metrics, m)
	e.engine.AddMetric(m)
}

// Run drives the engine to completion and warns when the running energy has
// drifted from the recomputed total.
func (e *Experiment) Run(ctx context.Context) (*mc.Result, error) {
	n := len(e.initial)
	e.logger.InfoContext(ctx, "starting run",
		"particles", n,
		"density", e.box.Density(n),
		"volume", e.box.Volume(),
		"potential", e.pot.Name(),
		"initial_energy", e.engine.InitialEnergy(),
		"cycles", e.cfg.Cycles,
		"moves_per_cycle", e.engine.MovesPerCycle(),
	)

	res, err := e.engine.Run(ctx, e.observers...)
	if err != nil {
		e.logger.ErrorContext(ctx, "run aborted", "error", err)
		return res, err
	}

	if Drifted(res) {
		e.logger.WarnContext(ctx, "running energy drifted from recomputed total",
			"running", res.Final, "recomputed", res.Recomputed)
	}

	attrs := []any{
		"final_energy", res.Final,
		"drift", res.Drift,
		"acceptance", res.AcceptanceRatio(),
		"reports", res.Reports,
	}
	for _, m := range e.metrics {
		attrs = append(attrs, m.Name(), m.Value())
	}
	e.logger.InfoContext(ctx, "run finished", attrs...)
	return res, nil
}

// Drifted reports whether the running energy of res differs from its
// recomputed total by more than DriftTolerance, relative to the total once it
// exceeds one in magnitude.
func Drifted(res *mc.Result) bool {
	return math.Abs(res.Drift) > DriftTolerance*math.Max(1, math.Abs(res.Recomputed))
}

// Verify recomputes the total energy of the current configuration using the
// configured number of workers; zero means one per CPU.
func (e *Experiment) Verify(ctx context.Context) (float64, error) {
	return e.eval.TotalParallel(ctx, e.engine.Particles(), e.cfg.Workers)
}
