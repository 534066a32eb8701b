package potential

import (
	"fmt"
	"math"
	"sort"
)

// Params holds named potential parameters: sigma, epsilon and, for Mie,
// the exponents n and m.
type Params map[string]float64

type Constructor func(Params) (PairPotential, error)

type Registry struct {
	ctors map[string]Constructor
}

func NewRegistry() *Registry {
	r := &Registry{ctors: make(map[string]Constructor)}

	lj := func(p Params) (PairPotential, error) {
		return NewLennardJones(p.get("sigma", 1), p.get("epsilon", 1))
	}
	r.ctors["lj"] = lj
	r.ctors["lennard-jones"] = lj

	r.ctors["mie"] = func(p Params) (PairPotential, error) {
		n, err := p.exponent("n")
		if err != nil {
			return nil, err
		}
		m, err := p.exponent("m")
		if err != nil {
			return nil, err
		}
		return NewMie(p.get("sigma", 1), p.get("epsilon", 1), n, m)
	}

	return r
}

func (r *Registry) Get(name string, p Params) (PairPotential, error) {
	fn, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("unknown potential: %s (available: %v)", name, r.Names())
	}
	return fn(p)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p Params) get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func (p Params) exponent(key string) (int, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing exponent %q", ErrExponents, key)
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: exponent %q must be an integer, got %v", ErrExponents, key, v)
	}
	return int(v), nil
}
