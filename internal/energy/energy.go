// Package energy evaluates configurational energy of a periodic particle
// system under a pair potential with a spherical cutoff.
//
// Two forms are provided. [Evaluator.Total] enumerates every unordered pair
// and is O(N²); it is meant for the start and end of a run. [Evaluator.Particle]
// sums the interactions of a single particle with the rest of the system in
// O(N), which is all a single-particle trial move needs.
//
// The cutoff is inclusive: a pair at exactly d² == rc² contributes.
package energy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/mcsim/internal/box"
	"github.com/san-kum/mcsim/internal/potential"
	"github.com/san-kum/mcsim/internal/vec"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCutoff    = errors.New("energy: squared cutoff must be non-negative")
	ErrPotential = errors.New("energy: nil pair potential")
	ErrIndex     = errors.New("energy: particle index out of range")
)

type Evaluator struct {
	box box.Box
	pot potential.PairPotential
	rc2 float64
}

func New(b box.Box, p potential.PairPotential, rc2 float64) (*Evaluator, error) {
	if p == nil {
		return nil, ErrPotential
	}
	if !(rc2 >= 0) {
		return nil, fmt.Errorf("%w: got %v", ErrCutoff, rc2)
	}
	if _, err := box.New(b.L); err != nil {
		return nil, err
	}
	return &Evaluator{box: b, pot: p, rc2: rc2}, nil
}

func (e *Evaluator) Box() box.Box                       { return e.box }
func (e *Evaluator) Potential() potential.PairPotential { return e.pot }
func (e *Evaluator) Cutoff2() float64                   { return e.rc2 }

// Pair returns the energy of a pair at squared distance d2 and whether the
// pair lies inside the cutoff.
func (e *Evaluator) Pair(d2 float64) (float64, bool) {
	if d2 > e.rc2 {
		return 0, false
	}
	return e.pot.Energy(d2), true
}

// Total returns the energy summed over all pairs i<j. Systems with fewer
// than two particles have zero energy.
func (e *Evaluator) Total(ps []vec.Vec3) float64 {
	total := 0.0
	for i := 0; i+1 < len(ps); i++ {
		total += e.row(ps, i)
	}
	return total
}

// row sums the pairs (i, j) for j > i.
func (e *Evaluator) row(ps []vec.Vec3, i int) float64 {
	sum := 0.0
	pi := ps[i]
	for j := i + 1; j < len(ps); j++ {
		if u, ok := e.Pair(e.box.Dist2(pi, ps[j])); ok {
			sum += u
		}
	}
	return sum
}

// Particle returns the interaction energy of particle idx with every other
// particle. It panics if idx is out of range.
func (e *Evaluator) Particle(ps []vec.Vec3, idx int) float64 {
	if idx < 0 || idx >= len(ps) {
		panic(fmt.Sprintf("%v: %d of %d", ErrIndex, idx, len(ps)))
	}
	sum := 0.0
	p := ps[idx]
	for j := 0; j < idx; j++ {
		if u, ok := e.Pair(e.box.Dist2(p, ps[j])); ok {
			sum += u
		}
	}
	for j := idx + 1; j < len(ps); j++ {
		if u, ok := e.Pair(e.box.Dist2(p, ps[j])); ok {
			sum += u
		}
	}
	return sum
}

// TotalParallel computes the same sum as Total, splitting rows across
// workers. Row sums are combined in row order, so the result is bit-identical
// to Total. workers <= 0 selects runtime.NumCPU().
func (e *Evaluator) TotalParallel(ctx context.Context, ps []vec.Vec3, workers int) (float64, error) {
	n := len(ps)
	if n < 2 {
		return 0, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	rows := make([]float64, n-1)
	// rows shrink with i, so hand out several small chunks per worker
	chunk := (n - 1 + 4*workers - 1) / (4 * workers)
	if chunk < 1 {
		chunk = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n-1; start += chunk {
		end := min(start+chunk, n-1)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				rows[i] = e.row(ps, i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return math.NaN(), err
	}

	total := 0.0
	for _, r := range rows {
		total += r
	}
	return total, nil
}
