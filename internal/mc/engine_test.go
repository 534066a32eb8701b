package mc_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mcsim/internal/energy"
	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/rng"
	"github.com/san-kum/mcsim/internal/vec"
)

var _ = Describe("Engine", func() {
	var (
		eval *energy.Evaluator
		cfg  mc.Config
	)

	BeforeEach(func() {
		eval = ljEvaluator(10, 9)
		cfg = mc.DefaultConfig()
	})

	Describe("construction", func() {
		It("rejects an empty particle system", func() {
			src, _ := rng.NewXorShift(rng.DefaultSeed)
			_, err := mc.New(eval, nil, src, cfg)
			Expect(err).To(MatchError(mc.ErrNoParticles))
		})

		It("rejects a non-positive temperature", func() {
			src, _ := rng.NewXorShift(rng.DefaultSeed)
			cfg.Temperature = 0
			_, err := mc.New(eval, []vec.Vec3{{}}, src, cfg)
			Expect(errors.Is(err, mc.ErrInvalidTemperature)).To(BeTrue())
		})

		It("rejects non-finite coordinates", func() {
			src, _ := rng.NewXorShift(rng.DefaultSeed)
			_, err := mc.New(eval, []vec.Vec3{{X: math.NaN()}}, src, cfg)
			Expect(errors.Is(err, mc.ErrNonFinite)).To(BeTrue())
		})

		It("rejects missing dependencies", func() {
			_, err := mc.New(eval, []vec.Vec3{{}}, nil, cfg)
			Expect(err).To(MatchError(mc.ErrMissingDependency))
		})

		It("defaults moves per cycle to the particle count", func() {
			src, _ := rng.NewXorShift(rng.DefaultSeed)
			eng, err := mc.New(eval, cubic(2, 1.5), src, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(eng.MovesPerCycle()).To(Equal(8))
		})

		It("does not alias the caller's particles", func() {
			src, _ := rng.NewXorShift(rng.DefaultSeed)
			ps := []vec.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1.5}}
			eng, _ := mc.New(eval, ps, src, cfg)
			ps[0].X = 5
			Expect(eng.Particles()[0].X).To(Equal(0.0))
		})
	})

	Describe("Run with zero cycles", func() {
		It("leaves the running energy at its initial value", func() {
			src, _ := rng.NewXorShift(rng.DefaultSeed)
			cfg.Cycles = 0
			eng, err := mc.New(eval, []vec.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}}, src, cfg)
			Expect(err).NotTo(HaveOccurred())

			res, err := eng.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Initial).To(BeNumerically("~", 0, 1e-12))
			Expect(res.Final).To(Equal(res.Initial))
			Expect(res.Attempted).To(BeZero())
			Expect(res.Reports).To(BeZero())
		})
	})

	Describe("Trial", func() {
		It("rolls back a rejected uphill move bit for bit", func() {
			start := []vec.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0.1, Y: 0.2, Z: 1.12}}
			src := &scriptedSource{ints: []int{1}, floats: []float64{0.5, 0.5, 0.0, 0.999}}
			eng, err := mc.New(eval, start, src, cfg)
			Expect(err).NotTo(HaveOccurred())

			move := eng.Trial()
			Expect(move.Accepted).To(BeFalse())
			Expect(move.Delta).To(BeZero())
			Expect(move.After).To(BeNumerically(">", move.Before))
			Expect(eng.Particles()).To(Equal(start))
			Expect(eng.Energy()).To(Equal(eng.InitialEnergy()))
			Expect(src.fcalls).To(Equal(4))
		})

		It("accepts a downhill move without an acceptance draw", func() {
			src := &scriptedSource{ints: []int{1}, floats: []float64{0.5, 0.5, 0.0}}
			eng, _ := mc.New(eval, []vec.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1.5}}, src, cfg)

			move := eng.Trial()
			Expect(move.Accepted).To(BeTrue())
			Expect(move.Delta).To(BeNumerically("<", 0))
			Expect(src.fcalls).To(Equal(3))
			Expect(eng.Particles()[1].Z).To(BeNumerically("~", 1.2, 1e-12))
		})

		It("returns the independently recomputed delta for an accepted uphill move", func() {
			src := &scriptedSource{ints: []int{1}, floats: []float64{0.5, 0.5, 1.0, 0.1}}
			start := []vec.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1.2}}
			eng, _ := mc.New(eval, start, src, cfg)

			move := eng.Trial()
			Expect(move.Accepted).To(BeTrue())

			moved := vec.Clone(start)
			moved[1].Z += 0.3
			want := eval.Particle(moved, 1) - eval.Particle(start, 1)
			Expect(move.Delta).To(BeNumerically(">", 0))
			Expect(move.Delta).To(BeNumerically("~", want, 1e-12))
			Expect(eng.Energy()).To(BeNumerically("~", eng.InitialEnergy()+want, 1e-12))
		})

		It("rejects moves that produce a NaN energy change", func() {
			// overlapping particles have NaN energy before and after
			src := &scriptedSource{ints: []int{1}, floats: []float64{0.5, 0.5, 0.5, 0.0}}
			start := []vec.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}}
			eng, _ := mc.New(eval, start, src, cfg)

			move := eng.Trial()
			Expect(move.Accepted).To(BeFalse())
			Expect(eng.Particles()).To(Equal(start))
		})
	})

	Describe("reporting", func() {
		It("reports after the sweep on every tenth cycle, starting at cycle zero", func() {
			src, _ := rng.NewXorShift(rng.DefaultSeed)
			cfg.Cycles = 21
			eng, _ := mc.New(eval, cubic(2, 1.5), src, cfg)

			var cycles []int
			var energies []float64
			res, err := eng.Run(context.Background(), mc.ObserverFunc(func(c int, e float64) error {
				cycles = append(cycles, c)
				energies = append(energies, e)
				return nil
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(cycles).To(Equal([]int{0, 10, 20}))
			Expect(res.Reports).To(Equal(3))
			Expect(res.Attempted).To(Equal(21 * 8))
			Expect(energies[2]).To(Equal(res.Final))
		})

		It("aborts with a RunError when an observer fails", func() {
			src, _ := rng.NewXorShift(rng.DefaultSeed)
			cfg.Cycles = 30
			eng, _ := mc.New(eval, cubic(2, 1.5), src, cfg)
			sinkErr := errors.New("disk full")

			_, err := eng.Run(context.Background(), mc.ObserverFunc(func(c int, e float64) error {
				if c == 10 {
					return sinkErr
				}
				return nil
			}))

			var runErr *mc.RunError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Cycle).To(Equal(10))
			Expect(errors.Is(err, sinkErr)).To(BeTrue())
			Expect(eng.Cycle()).To(Equal(11))
		})

		It("stops between cycles when the context is canceled", func() {
			src, _ := rng.NewXorShift(rng.DefaultSeed)
			eng, _ := mc.New(eval, cubic(2, 1.5), src, cfg)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := eng.Run(ctx)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(res.Attempted).To(BeZero())
		})
	})

	Describe("long runs", func() {
		It("keeps the running energy in step with a fresh total", func() {
			src, _ := rng.NewXorShift(rng.DefaultSeed)
			cfg.Cycles = 50
			eng, _ := mc.New(ljEvaluator(5, 6.25), cubic(3, 5.0/3.0), src, cfg)

			res, err := eng.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Attempted).To(Equal(50 * 27))
			Expect(res.Accepted).To(BeNumerically(">", 0))
			Expect(math.Abs(res.Drift)).To(BeNumerically("<", 1e-8))
			Expect(res.Recomputed).To(BeNumerically("~", res.Final, 1e-8))
		})
	})
})
