package potential

import (
	"errors"
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestLennardJones_Energy(t *testing.T) {
	lj, err := NewLennardJones(1, 1)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		r2   float64
		want float64
	}{
		{"at sigma", 1, 0},
		{"minimum", math.Pow(2, 1.0/3.0), -1},
		{"r=2", 4, 4 * (math.Pow(0.25, 6) - math.Pow(0.25, 3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lj.Energy(tt.r2); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Energy(%v) = %v, want %v", tt.r2, got, tt.want)
			}
		})
	}
}

func TestLennardJones_Scaling(t *testing.T) {
	lj, _ := NewLennardJones(2, 3)
	// at r = 2^(1/6) sigma the well depth is -epsilon
	rmin := math.Pow(2, 1.0/6.0) * 2
	if got := lj.Energy(rmin * rmin); math.Abs(got+3) > 1e-12 {
		t.Errorf("well depth = %v, want -3", got)
	}
}

func TestNewMie_RejectsBadExponents(t *testing.T) {
	tests := []struct {
		name string
		n, m int
	}{
		{"equal", 6, 6},
		{"inverted", 6, 12},
		{"zero m", 12, 0},
		{"negative m", 12, -6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMie(1, 1, tt.n, tt.m)
			if !errors.Is(err, ErrExponents) {
				t.Errorf("expected ErrExponents, got %v", err)
			}
		})
	}
}

func TestNew_RejectsBadScale(t *testing.T) {
	if _, err := NewLennardJones(0, 1); !errors.Is(err, ErrSigma) {
		t.Errorf("expected ErrSigma, got %v", err)
	}
	if _, err := NewLennardJones(1, -1); !errors.Is(err, ErrEpsilon) {
		t.Errorf("expected ErrEpsilon, got %v", err)
	}
	if _, err := NewMie(math.NaN(), 1, 12, 6); !errors.Is(err, ErrSigma) {
		t.Errorf("expected ErrSigma, got %v", err)
	}
}

func TestMie_Prefactor(t *testing.T) {
	mie, _ := NewMie(1, 1, 12, 6)
	if math.Abs(mie.Prefactor()-4) > 1e-12 {
		t.Errorf("12-6 prefactor = %v, want 4", mie.Prefactor())
	}
}

func TestMie_DegeneratesToLennardJones(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sigma := rapid.Float64Range(0.5, 3).Draw(t, "sigma")
		epsilon := rapid.Float64Range(0.1, 5).Draw(t, "epsilon")
		r2 := rapid.Float64Range(0.5*sigma*sigma, 9*sigma*sigma).Draw(t, "r2")

		lj, err := NewLennardJones(sigma, epsilon)
		if err != nil {
			t.Fatal(err)
		}
		mie, err := NewMie(sigma, epsilon, 12, 6)
		if err != nil {
			t.Fatal(err)
		}

		a, b := lj.Energy(r2), mie.Energy(r2)
		if math.Abs(a-b) > 1e-9*math.Max(1, math.Abs(a)) {
			t.Fatalf("lj=%v mie=%v at r2=%v", a, b, r2)
		}
	})
}

func TestPowi(t *testing.T) {
	for k := 0; k <= 14; k++ {
		if got, want := powi(1.3, k), math.Pow(1.3, float64(k)); math.Abs(got-want) > 1e-12*want {
			t.Errorf("powi(1.3, %d) = %v, want %v", k, got, want)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	p, err := r.Get("lj", Params{"sigma": 1, "epsilon": 1})
	if err != nil {
		t.Fatalf("get lj: %v", err)
	}
	if p.Name() != "lj" {
		t.Errorf("expected lj, got %s", p.Name())
	}

	p, err = r.Get("mie", Params{"n": 14, "m": 7})
	if err != nil {
		t.Fatalf("get mie: %v", err)
	}
	if got := p.(Parameterized).Params()["n"]; got != 14 {
		t.Errorf("expected n=14, got %v", got)
	}

	if _, err := r.Get("mie", Params{"n": 12.5, "m": 6}); !errors.Is(err, ErrExponents) {
		t.Errorf("expected ErrExponents for fractional n, got %v", err)
	}
	if _, err := r.Get("mie", Params{"m": 6}); !errors.Is(err, ErrExponents) {
		t.Errorf("expected ErrExponents for missing n, got %v", err)
	}
	if _, err := r.Get("buckingham", nil); err == nil {
		t.Error("expected error for unknown potential")
	}
}
