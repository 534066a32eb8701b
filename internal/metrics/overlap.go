package metrics

import (
	"math"

	"github.com/san-kum/mcsim/internal/mc"
)

// Overlap is the fraction of trials whose proposed position had an energy
// above threshold or non-finite, i.e. proposals landing inside the core of a
// neighbor.
type Overlap struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewOverlap(threshold float64) *Overlap {
	return &Overlap{
		name:      "overlap",
		threshold: threshold,
	}
}

func (o *Overlap) Name() string {
	return o.name
}

func (o *Overlap) Observe(m mc.Move) {
	o.samples++
	if math.IsNaN(m.After) || m.After > o.threshold {
		o.violations++
	}
}

func (o *Overlap) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return float64(o.violations) / float64(o.samples)
}

func (o *Overlap) Reset() {
	o.violations = 0
	o.samples = 0
}
