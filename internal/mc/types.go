package mc

import (
	"fmt"
	"math"
)

// Config holds the sampling policy. A zero MovesPerCycle means one move per
// particle, i.e. one sweep per cycle.
type Config struct {
	Temperature     float64
	MaxDisplacement float64
	Cycles          int
	MovesPerCycle   int
	ReportEvery     int
}

func DefaultConfig() Config {
	return Config{
		Temperature:     1.0,
		MaxDisplacement: 0.3,
		Cycles:          1000,
		MovesPerCycle:   0,
		ReportEvery:     10,
	}
}

func (c Config) Validate() error {
	if !(c.Temperature > 0) || math.IsInf(c.Temperature, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidTemperature, c.Temperature)
	}
	if !(c.MaxDisplacement >= 0) || math.IsInf(c.MaxDisplacement, 0) {
		return fmt.Errorf("%w: max displacement must be non-negative, got %v", ErrInvalidConfig, c.MaxDisplacement)
	}
	if c.Cycles < 0 {
		return fmt.Errorf("%w: cycles must be non-negative, got %d", ErrInvalidConfig, c.Cycles)
	}
	if c.MovesPerCycle < 0 {
		return fmt.Errorf("%w: moves per cycle must be non-negative, got %d", ErrInvalidConfig, c.MovesPerCycle)
	}
	if c.ReportEvery <= 0 {
		return fmt.Errorf("%w: report interval must be positive, got %d", ErrInvalidConfig, c.ReportEvery)
	}
	return nil
}

// Beta is the inverse temperature 1/T.
func (c Config) Beta() float64 { return 1 / c.Temperature }

// Move describes one trial. Delta is the energy change applied to the
// system: after-before when accepted, zero when rejected.
type Move struct {
	Index    int
	Before   float64
	After    float64
	Delta    float64
	Accepted bool
}

// Observer receives the running energy after every reported cycle.
type Observer interface {
	OnReport(cycle int, energy float64) error
}

type ObserverFunc func(cycle int, energy float64) error

func (f ObserverFunc) OnReport(cycle int, energy float64) error { return f(cycle, energy) }

// Metric accumulates a statistic over trial moves.
type Metric interface {
	Name() string
	Observe(m Move)
	Value() float64
	Reset()
}

type Result struct {
	Initial    float64
	Final      float64
	Recomputed float64
	Drift      float64
	Cycles     int
	Attempted  int
	Accepted   int
	Reports    int
	Metrics    map[string]float64
}

func (r *Result) AcceptanceRatio() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Attempted)
}
