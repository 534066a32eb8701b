// Package rng provides the seedable random source the Monte-Carlo engine
// draws from. Reproducibility matters more than statistical strength here: a
// fixed seed must replay the exact same chain on every platform, so the
// generator is implemented in full rather than taken from math/rand.
package rng

import (
	"errors"
	"math"
)

var ErrZeroSeed = errors.New("rng: xorshift seed must not be all zero")

// Source produces uniform reals in [0, 1) and uniform integers in [0, n).
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Seed is the 128-bit generator state as four 32-bit words.
type Seed [4]uint32

var DefaultSeed = Seed{1, 2, 3, 4}

// XorShift is Marsaglia's xorshift128 generator.
type XorShift struct {
	x, y, z, w uint32
}

func NewXorShift(seed Seed) (*XorShift, error) {
	if seed == (Seed{}) {
		return nil, ErrZeroSeed
	}
	return &XorShift{x: seed[0], y: seed[1], z: seed[2], w: seed[3]}, nil
}

func (r *XorShift) Uint32() uint32 {
	t := r.x ^ (r.x << 11)
	r.x, r.y, r.z = r.y, r.z, r.w
	r.w = r.w ^ (r.w >> 19) ^ (t ^ (t >> 8))
	return r.w
}

// Uint64 joins two consecutive 32-bit outputs, high word first.
func (r *XorShift) Uint64() uint64 {
	hi := uint64(r.Uint32())
	return hi<<32 | uint64(r.Uint32())
}

// Float64 fills the 52-bit mantissa of a float in [1, 2) and subtracts one.
func (r *XorShift) Float64() float64 {
	const (
		upper = 0x3FF0000000000000
		lower = 0x000FFFFFFFFFFFFF
	)
	return math.Float64frombits(upper|(r.Uint64()&lower)) - 1
}

// IntN returns a uniform integer in [0, n) by rejection, so there is no
// modulo bias. It panics if n <= 0.
func (r *XorShift) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN called with n <= 0")
	}
	span := uint64(n)
	zone := math.MaxUint64 - math.MaxUint64%span
	for {
		if v := r.Uint64(); v < zone {
			return int(v % span)
		}
	}
}

// State returns the current generator words, suitable for NewXorShift to
// resume the stream.
func (r *XorShift) State() Seed { return Seed{r.x, r.y, r.z, r.w} }

// Uniform draws from [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}
