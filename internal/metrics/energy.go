package metrics

import (
	"math"

	"github.com/san-kum/mcsim/internal/mc"
)

// MeanDelta averages the applied energy change per trial, rejected trials
// counting as zero.
type MeanDelta struct {
	name    string
	sum     float64
	samples int
}

func NewMeanDelta() *MeanDelta {
	return &MeanDelta{
		name: "mean_delta",
	}
}

func (d *MeanDelta) Name() string { return d.name }

func (d *MeanDelta) Observe(m mc.Move) {
	d.sum += m.Delta
	d.samples++
}

func (d *MeanDelta) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *MeanDelta) Reset() {
	d.sum = 0
	d.samples = 0
}

// MaxUphill tracks the largest accepted energy increase.
type MaxUphill struct {
	name string
	max  float64
}

func NewMaxUphill() *MaxUphill {
	return &MaxUphill{
		name: "max_uphill",
	}
}

func (u *MaxUphill) Name() string { return u.name }

func (u *MaxUphill) Observe(m mc.Move) {
	if m.Accepted {
		u.max = math.Max(u.max, m.Delta)
	}
}

func (u *MaxUphill) Value() float64 {
	return u.max
}

func (u *MaxUphill) Reset() {
	u.max = 0
}
