// Package box implements the cubic periodic simulation cell and the
// minimum-image distance metric.
package box

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/mcsim/internal/vec"
)

var ErrInvalidLength = errors.New("box: side length must be positive and finite")

// Box is a cube of side L, periodic along all three axes.
type Box struct {
	L float64
}

func New(l float64) (Box, error) {
	if !(l > 0) || math.IsInf(l, 0) {
		return Box{}, fmt.Errorf("%w: got %v", ErrInvalidLength, l)
	}
	return Box{L: l}, nil
}

// MinImage maps a raw separation along one axis onto its nearest periodic
// image. Rounding is to nearest, half away from zero.
func (b Box) MinImage(d float64) float64 {
	return d - math.Round(d/b.L)*b.L
}

// Dist2 returns the squared minimum-image distance between a and c.
func (b Box) Dist2(a, c vec.Vec3) float64 {
	dx := b.MinImage(a.X - c.X)
	dy := b.MinImage(a.Y - c.Y)
	dz := b.MinImage(a.Z - c.Z)
	return dx*dx + dy*dy + dz*dz
}

func (b Box) Volume() float64 { return b.L * b.L * b.L }

// Density is the number density of n particles in the box.
func (b Box) Density(n int) float64 { return float64(n) / b.Volume() }

// Wrap folds v back into [0, L) on every axis. The engine never wraps
// coordinates; this is for writing configurations out.
func (b Box) Wrap(v vec.Vec3) vec.Vec3 {
	return vec.Vec3{X: b.wrap(v.X), Y: b.wrap(v.Y), Z: b.wrap(v.Z)}
}

func (b Box) wrap(x float64) float64 {
	x = math.Mod(x, b.L)
	if x < 0 {
		x += b.L
	}
	// -tiny + L can round up to L
	if x >= b.L {
		x = 0
	}
	return x
}
