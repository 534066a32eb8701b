package mc_test

import (
	"github.com/san-kum/mcsim/internal/box"
	"github.com/san-kum/mcsim/internal/energy"
	"github.com/san-kum/mcsim/internal/potential"
	"github.com/san-kum/mcsim/internal/vec"
)

// scriptedSource replays fixed draws and counts how many were consumed.
type scriptedSource struct {
	ints   []int
	floats []float64
	fcalls int
	icalls int
}

func (s *scriptedSource) IntN(n int) int {
	v := s.ints[s.icalls]
	s.icalls++
	return v
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[s.fcalls]
	s.fcalls++
	return v
}

func ljEvaluator(l, rc2 float64) *energy.Evaluator {
	b, err := box.New(l)
	if err != nil {
		panic(err)
	}
	lj, err := potential.NewLennardJones(1, 1)
	if err != nil {
		panic(err)
	}
	e, err := energy.New(b, lj, rc2)
	if err != nil {
		panic(err)
	}
	return e
}

// cubic places k³ particles on a lattice with the given spacing.
func cubic(k int, spacing float64) []vec.Vec3 {
	ps := make([]vec.Vec3, 0, k*k*k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			for l := 0; l < k; l++ {
				ps = append(ps, vec.Vec3{X: float64(i) * spacing, Y: float64(j) * spacing, Z: float64(l) * spacing})
			}
		}
	}
	return ps
}
