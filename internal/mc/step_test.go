package mc_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/rng"
)

var _ = Describe("Manual stepping", func() {
	newEngine := func() *mc.Engine {
		src, _ := rng.NewXorShift(rng.DefaultSeed)
		cfg := mc.DefaultConfig()
		cfg.Cycles = 12
		cfg.ReportEvery = 4
		eng, err := mc.New(ljEvaluator(5, 6.25), cubic(3, 5.0/3.0), src, cfg)
		Expect(err).NotTo(HaveOccurred())
		return eng
	}

	It("matches Run cycle for cycle", func() {
		stepped := newEngine()
		var reported []int
		for !stepped.Done() {
			cycle, _, report := stepped.Step()
			if report {
				reported = append(reported, cycle)
			}
		}

		ran := newEngine()
		res, err := ran.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(reported).To(Equal([]int{0, 4, 8}))
		got := stepped.Result()
		Expect(got.Final).To(Equal(res.Final))
		Expect(got.Reports).To(Equal(res.Reports))
		Expect(got.Attempted).To(Equal(res.Attempted))
		Expect(stepped.Accepted()).To(Equal(res.Accepted))
		Expect(stepped.Attempted()).To(Equal(12 * 27))
	})

	It("resumes Run after manual steps", func() {
		eng := newEngine()
		eng.Step()
		eng.Step()

		res, err := eng.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Cycles).To(Equal(12))
		Expect(res.Reports).To(Equal(3))
	})
})
