package mc

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/mcsim/internal/energy"
	"github.com/san-kum/mcsim/internal/rng"
	"github.com/san-kum/mcsim/internal/vec"
)

type Engine struct {
	eval      *energy.Evaluator
	src       rng.Source
	cfg       Config
	beta      float64
	moves     int
	particles []vec.Vec3
	metrics   []Metric

	initial   float64
	energy    float64
	cycle     int
	attempted int
	accepted  int
	reports   int
}

// New validates the configuration and computes the initial total energy.
// The engine keeps its own copy of particles.
func New(eval *energy.Evaluator, particles []vec.Vec3, src rng.Source, cfg Config) (*Engine, error) {
	if eval == nil || src == nil {
		return nil, ErrMissingDependency
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(particles) == 0 {
		return nil, ErrNoParticles
	}
	for i, p := range particles {
		if !p.IsFinite() {
			return nil, fmt.Errorf("%w: particle %d = %v", ErrNonFinite, i, p)
		}
	}

	moves := cfg.MovesPerCycle
	if moves == 0 {
		moves = len(particles)
	}

	ps := vec.Clone(particles)
	initial := eval.Total(ps)

	return &Engine{
		eval:      eval,
		src:       src,
		cfg:       cfg,
		beta:      cfg.Beta(),
		moves:     moves,
		particles: ps,
		metrics:   make([]Metric, 0),
		initial:   initial,
		energy:    initial,
	}, nil
}

func (e *Engine) AddMetric(m Metric) { e.metrics = append(e.metrics, m) }

func (e *Engine) Config() Config         { return e.cfg }
func (e *Engine) MovesPerCycle() int     { return e.moves }
func (e *Engine) InitialEnergy() float64 { return e.initial }
func (e *Engine) Attempted() int         { return e.attempted }
func (e *Engine) Accepted() int          { return e.accepted }

// Energy is the running total: the initial energy plus every accepted delta.
func (e *Engine) Energy() float64 { return e.energy }

// Cycle is the number of completed cycles.
func (e *Engine) Cycle() int { return e.cycle }

func (e *Engine) Done() bool { return e.cycle >= e.cfg.Cycles }

// Particles returns a copy of the current configuration.
func (e *Engine) Particles() []vec.Vec3 { return vec.Clone(e.particles) }

// Trial performs one Metropolis single-particle displacement. On rejection
// the particle is restored to its exact previous coordinate and the returned
// Delta is zero.
func (e *Engine) Trial() Move {
	idx := e.src.IntN(len(e.particles))
	old := e.particles[idx]

	before := e.eval.Particle(e.particles, idx)

	d := e.cfg.MaxDisplacement
	dx := rng.Uniform(e.src, -d, d)
	dy := rng.Uniform(e.src, -d, d)
	dz := rng.Uniform(e.src, -d, d)
	e.particles[idx] = old.Add(vec.Vec3{X: dx, Y: dy, Z: dz})

	after := e.eval.Particle(e.particles, idx)

	delta := after - before
	move := Move{Index: idx, Before: before, After: after}
	if e.accept(delta) {
		move.Accepted = true
		move.Delta = delta
	} else {
		e.particles[idx] = old
	}

	e.attempted++
	if move.Accepted {
		e.accepted++
	}
	e.energy += move.Delta
	for _, m := range e.metrics {
		m.Observe(move)
	}
	return move
}

// accept applies the Metropolis criterion. Downhill moves are accepted
// without consuming a random number.
func (e *Engine) accept(delta float64) bool {
	bd := e.beta * delta
	if bd <= 0 {
		return true
	}
	return e.src.Float64() < math.Exp(-bd)
}

// Step runs one cycle of trial moves and reports whether this cycle falls on
// the reporting cadence. The returned energy is the running total after the
// full cycle.
func (e *Engine) Step() (cycle int, running float64, report bool) {
	cycle = e.cycle
	for i := 0; i < e.moves; i++ {
		e.Trial()
	}
	e.cycle++
	report = cycle%e.cfg.ReportEvery == 0
	if report {
		e.reports++
	}
	return cycle, e.energy, report
}

// Run executes the remaining cycles. The context is only consulted between
// cycles. An observer error aborts the run with a *RunError.
func (e *Engine) Run(ctx context.Context, observers ...Observer) (*Result, error) {
	for !e.Done() {
		select {
		case <-ctx.Done():
			return e.result(), &RunError{Cycle: e.cycle, Wrapped: ctx.Err()}
		default:
		}

		cycle, en, report := e.Step()
		if !report {
			continue
		}
		for _, obs := range observers {
			if err := obs.OnReport(cycle, en); err != nil {
				return e.result(), &RunError{Cycle: cycle, Wrapped: err}
			}
		}
	}

	return e.result(), nil
}

// Result summarizes the engine state so far. It recomputes the total energy,
// so it costs O(N²).
func (e *Engine) Result() *Result { return e.result() }

func (e *Engine) result() *Result {
	recomputed := e.eval.Total(e.particles)
	res := &Result{
		Initial:    e.initial,
		Final:      e.energy,
		Recomputed: recomputed,
		Drift:      e.energy - recomputed,
		Cycles:     e.cycle,
		Attempted:  e.attempted,
		Accepted:   e.accepted,
		Reports:    e.reports,
		Metrics:    make(map[string]float64, len(e.metrics)),
	}
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}
