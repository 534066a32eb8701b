// Package potential defines the pair interaction capability and its
// Lennard-Jones and Mie implementations.
//
// Every potential takes the squared separation r² so the common
// Lennard-Jones path never needs a square root:
//
//	lj, _ := potential.NewLennardJones(1, 1)
//	u := lj.Energy(1.2 * 1.2)
//
// New variants only have to implement [PairPotential]; the energy evaluator
// never switches on concrete types.
package potential

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrSigma     = errors.New("potential: sigma must be positive and finite")
	ErrEpsilon   = errors.New("potential: epsilon must be positive and finite")
	ErrExponents = errors.New("potential: mie exponents must satisfy n > m > 0")
)

// PairPotential returns the interaction energy of two particles at squared
// separation r2.
type PairPotential interface {
	Energy(r2 float64) float64
	Name() string
}

// Parameterized is implemented by potentials that can report their
// parameters. Run metadata records them.
type Parameterized interface {
	Params() Params
}

type LennardJones struct {
	sigma2  float64
	epsilon float64
}

func NewLennardJones(sigma, epsilon float64) (*LennardJones, error) {
	if err := checkScale(sigma, epsilon); err != nil {
		return nil, err
	}
	return &LennardJones{sigma2: sigma * sigma, epsilon: epsilon}, nil
}

func (lj *LennardJones) Name() string { return "lj" }

func (lj *LennardJones) Energy(r2 float64) float64 {
	inv2 := lj.sigma2 / r2
	inv6 := inv2 * inv2 * inv2
	return 4 * lj.epsilon * (inv6*inv6 - inv6)
}

func (lj *LennardJones) Params() Params {
	return Params{"sigma": math.Sqrt(lj.sigma2), "epsilon": lj.epsilon}
}

// Mie is the generalized Lennard-Jones form with repulsive exponent n and
// attractive exponent m. With n=12, m=6 it reduces to Lennard-Jones.
type Mie struct {
	sigma   float64
	epsilon float64
	n, m    int
	prefac  float64
}

func NewMie(sigma, epsilon float64, n, m int) (*Mie, error) {
	if err := checkScale(sigma, epsilon); err != nil {
		return nil, err
	}
	if m <= 0 || n <= m {
		return nil, fmt.Errorf("%w: got n=%d m=%d", ErrExponents, n, m)
	}
	nf, mf := float64(n), float64(m)
	prefac := nf / (nf - mf) * math.Pow(nf/mf, mf/(nf-mf))
	return &Mie{sigma: sigma, epsilon: epsilon, n: n, m: m, prefac: prefac}, nil
}

func (p *Mie) Name() string { return "mie" }

// Prefactor is n/(n-m) * (n/m)^(m/(n-m)).
func (p *Mie) Prefactor() float64 { return p.prefac }

func (p *Mie) Energy(r2 float64) float64 {
	inv := p.sigma / math.Sqrt(r2)
	return p.prefac * p.epsilon * (powi(inv, p.n) - powi(inv, p.m))
}

func (p *Mie) Params() Params {
	return Params{"sigma": p.sigma, "epsilon": p.epsilon, "n": float64(p.n), "m": float64(p.m)}
}

// powi raises x to a non-negative integer power by repeated squaring.
func powi(x float64, k int) float64 {
	result := 1.0
	for k > 0 {
		if k&1 == 1 {
			result *= x
		}
		x *= x
		k >>= 1
	}
	return result
}

func checkScale(sigma, epsilon float64) error {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: got %v", ErrSigma, sigma)
	}
	if !(epsilon > 0) || math.IsInf(epsilon, 0) {
		return fmt.Errorf("%w: got %v", ErrEpsilon, epsilon)
	}
	return nil
}
