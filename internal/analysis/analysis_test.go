package analysis

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if err != nil {
		t.Fatal(err)
	}
	if s.N != 8 || s.Mean != 5 || s.Min != 2 || s.Max != 9 {
		t.Errorf("unexpected summary %+v", s)
	}
	// sample standard deviation
	if math.Abs(s.StdDev-math.Sqrt(32.0/7)) > 1e-12 {
		t.Errorf("expected std %f, got %f", math.Sqrt(32.0/7), s.StdDev)
	}
}

func TestSummarize_Edge(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	s, err := Summarize([]float64{-3})
	if err != nil {
		t.Fatal(err)
	}
	if s.StdDev != 0 || s.Mean != -3 {
		t.Errorf("unexpected single-sample summary %+v", s)
	}
}

func TestBlockAverage(t *testing.T) {
	series := []float64{100, 1, 1, 3, 3, 5, 5}
	res, err := BlockAverage(series, 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.BlockSize != 2 {
		t.Errorf("expected block size 2, got %d", res.BlockSize)
	}
	// the leading remainder (100) is dropped
	if res.Mean != 3 {
		t.Errorf("expected mean 3, got %f", res.Mean)
	}
	if math.Abs(res.StdErr-2/math.Sqrt(3)) > 1e-12 {
		t.Errorf("expected stderr %f, got %f", 2/math.Sqrt(3), res.StdErr)
	}
}

func TestBlockAverage_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		nblocks int
	}{
		{"one block", 10, 1},
		{"more blocks than samples", 3, 4},
		{"empty", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BlockAverage(make([]float64, tt.n), tt.nblocks)
			if !errors.Is(err, ErrBlocks) {
				t.Errorf("expected ErrBlocks, got %v", err)
			}
		})
	}
}

func TestRelativeDrift(t *testing.T) {
	tests := []struct {
		running, recomputed, want float64
	}{
		{-100, -100, 0},
		{-101, -100, 0.01},
		{1e-9, 0, 1e-9},
	}
	for _, tt := range tests {
		if got := RelativeDrift(tt.running, tt.recomputed); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("RelativeDrift(%v, %v) = %v, want %v", tt.running, tt.recomputed, got, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	s := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := Discard(s, 0.2); len(got) != 8 || got[0] != 3 {
		t.Errorf("unexpected %v", got)
	}
	if got := Discard(s, 0); len(got) != 10 {
		t.Errorf("expected full series, got %v", got)
	}
	if got := Discard(s, 1); len(got) != 0 {
		t.Errorf("expected empty series, got %v", got)
	}
}

func TestAutocorrelation(t *testing.T) {
	series := []float64{1, -1, 1, -1, 1, -1, 1, -1}
	rho := Autocorrelation(series, 3)
	if len(rho) != 4 {
		t.Fatalf("expected 4 lags, got %d", len(rho))
	}

	// direct linear estimate: Σ x_i x_{i+k} / Σ x_i²
	want := []float64{1, -7.0 / 8, 6.0 / 8, -5.0 / 8}
	for k := range want {
		if math.Abs(rho[k]-want[k]) > 1e-12 {
			t.Errorf("rho[%d] = %f, want %f", k, rho[k], want[k])
		}
	}
}

func TestAutocorrelation_Constant(t *testing.T) {
	rho := Autocorrelation([]float64{2, 2, 2}, 5)
	if len(rho) != 3 || rho[0] != 1 {
		t.Errorf("unexpected %v", rho)
	}
	if Autocorrelation(nil, 3) != nil {
		t.Error("expected nil for empty series")
	}
}

func TestCorrelationTime(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	white := make([]float64, 4096)
	for i := range white {
		white[i] = r.NormFloat64()
	}
	if tau := CorrelationTime(white); tau < 0.5 || tau > 2 {
		t.Errorf("white noise tau = %f, expected about 1", tau)
	}

	// AR(1) with phi = 0.9 has tau = (1+phi)/(1-phi) = 19
	ar := make([]float64, 1<<15)
	for i := 1; i < len(ar); i++ {
		ar[i] = 0.9*ar[i-1] + r.NormFloat64()
	}
	if tau := CorrelationTime(ar); tau < 10 || tau > 30 {
		t.Errorf("AR(1) tau = %f, expected about 19", tau)
	}
}
