package mc_test

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/rng"
	"pgregory.net/rapid"
)

func drawSeed(t *rapid.T) rng.Seed {
	var s rng.Seed
	for i := range s {
		s[i] = rapid.Uint32().Draw(t, "seed")
	}
	if s == (rng.Seed{}) {
		s[0] = 1
	}
	return s
}

func TestRun_ReproducibleForFixedSeed(t *testing.T) {
	eval := ljEvaluator(5, 6.25)
	start := cubic(3, 5.0/3.0)

	rapid.Check(t, func(t *rapid.T) {
		seed := drawSeed(t)
		cfg := mc.DefaultConfig()
		cfg.Cycles = rapid.IntRange(0, 6).Draw(t, "cycles")
		cfg.Temperature = rapid.Float64Range(0.5, 3).Draw(t, "temperature")

		run := func() ([]mc.Move, *mc.Result) {
			src, err := rng.NewXorShift(seed)
			if err != nil {
				t.Fatal(err)
			}
			eng, err := mc.New(eval, start, src, cfg)
			if err != nil {
				t.Fatal(err)
			}
			var moves []mc.Move
			eng.AddMetric(&recorder{moves: &moves})
			res, err := eng.Run(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			return moves, res
		}

		m1, r1 := run()
		m2, r2 := run()
		if len(m1) != len(m2) {
			t.Fatalf("move counts differ: %d vs %d", len(m1), len(m2))
		}
		for i := range m1 {
			if m1[i] != m2[i] {
				t.Fatalf("move %d differs: %+v vs %+v", i, m1[i], m2[i])
			}
		}
		if r1.Final != r2.Final {
			t.Fatalf("final energies differ: %v vs %v", r1.Final, r2.Final)
		}
	})
}

func TestTrial_DeltaAndRollback(t *testing.T) {
	eval := ljEvaluator(5, 6.25)

	rapid.Check(t, func(t *rapid.T) {
		src, _ := rng.NewXorShift(drawSeed(t))
		cfg := mc.DefaultConfig()
		cfg.MaxDisplacement = rapid.Float64Range(0, 1).Draw(t, "delta")
		eng, err := mc.New(eval, cubic(3, 5.0/3.0), src, cfg)
		if err != nil {
			t.Fatal(err)
		}

		trials := rapid.IntRange(1, 60).Draw(t, "trials")
		for i := 0; i < trials; i++ {
			pre := eng.Particles()
			energyBefore := eng.Energy()
			move := eng.Trial()
			post := eng.Particles()

			if want := eval.Particle(pre, move.Index); move.Before != want {
				t.Fatalf("Before = %v, recomputed %v", move.Before, want)
			}
			if !move.Accepted {
				if move.Delta != 0 {
					t.Fatalf("rejected move has delta %v", move.Delta)
				}
				for j := range pre {
					if pre[j] != post[j] {
						t.Fatalf("rejected move changed particle %d: %v -> %v", j, pre[j], post[j])
					}
				}
				if eng.Energy() != energyBefore {
					t.Fatal("rejected move changed running energy")
				}
				continue
			}

			want := eval.Particle(post, move.Index) - eval.Particle(pre, move.Index)
			if move.Delta != want {
				t.Fatalf("Delta = %v, recomputed %v", move.Delta, want)
			}
			for j := range pre {
				if j != move.Index && pre[j] != post[j] {
					t.Fatalf("move of %d touched particle %d", move.Index, j)
				}
			}
		}

		res, _ := eng.Run(context.Background())
		if math.Abs(res.Final-eval.Total(eng.Particles())) > 1e-8 {
			t.Fatalf("running energy %v drifted from total %v", res.Final, res.Recomputed)
		}
	})
}

// recorder is a metric that keeps every move it sees.
type recorder struct {
	moves *[]mc.Move
}

func (r *recorder) Name() string      { return "recorder" }
func (r *recorder) Observe(m mc.Move) { *r.moves = append(*r.moves, m) }
func (r *recorder) Value() float64    { return float64(len(*r.moves)) }
func (r *recorder) Reset()            { *r.moves = (*r.moves)[:0] }
