package metrics

import "github.com/san-kum/mcsim/internal/mc"

// Acceptance is the fraction of trial moves that were accepted.
type Acceptance struct {
	name     string
	accepted int
	samples  int
}

func NewAcceptance() *Acceptance {
	return &Acceptance{
		name: "acceptance",
	}
}

func (a *Acceptance) Name() string {
	return a.name
}

func (a *Acceptance) Observe(m mc.Move) {
	a.samples++
	if m.Accepted {
		a.accepted++
	}
}

func (a *Acceptance) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.accepted) / float64(a.samples)
}

func (a *Acceptance) Reset() {
	a.accepted = 0
	a.samples = 0
}
