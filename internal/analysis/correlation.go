package analysis

import (
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Autocorrelation returns the normalized autocorrelation ρ(0..maxLag) of
// series. The series is zero padded to twice its length so the FFT yields the
// linear rather than the circular correlation.
func Autocorrelation(series []float64, maxLag int) []float64 {
	n := len(series)
	if n == 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		maxLag = 0
	}

	mean := stat.Mean(series, nil)
	padded := make([]float64, 2*n)
	copy(padded, series)
	floats.AddConst(-mean, padded[:n])

	fft := fourier.NewFFT(len(padded))
	coeff := fft.Coefficients(nil, padded)
	for i, c := range coeff {
		coeff[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	acf := fft.Sequence(nil, coeff)

	rho := make([]float64, maxLag+1)
	if acf[0] == 0 {
		rho[0] = 1
		return rho
	}
	for k := range rho {
		rho[k] = acf[k] / acf[0]
	}
	return rho
}

// CorrelationTime is the integrated autocorrelation time 1 + 2Σρ(k), summed
// until ρ first drops to zero or below. Uncorrelated data gives about 1.
func CorrelationTime(series []float64) float64 {
	rho := Autocorrelation(series, len(series)/2)
	tau := 1.0
	for k := 1; k < len(rho); k++ {
		if rho[k] <= 0 {
			break
		}
		tau += 2 * rho[k]
	}
	return tau
}
