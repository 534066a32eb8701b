package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmpty  = errors.New("analysis: empty series")
	ErrBlocks = errors.New("analysis: invalid block count")
)

type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(series []float64) (Summary, error) {
	if len(series) == 0 {
		return Summary{}, ErrEmpty
	}
	mean, std := stat.MeanStdDev(series, nil)
	if len(series) == 1 {
		std = 0
	}
	return Summary{
		N:      len(series),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(series),
		Max:    floats.Max(series),
	}, nil
}

type BlockResult struct {
	Blocks    int
	BlockSize int
	Mean      float64
	StdErr    float64
}

// BlockAverage splits series into nblocks equal blocks, dropping the
// remainder at the start so the most equilibrated samples are kept, and
// returns the mean of block means with its standard error.
func BlockAverage(series []float64, nblocks int) (BlockResult, error) {
	if nblocks < 2 || nblocks > len(series) {
		return BlockResult{}, fmt.Errorf("%w: %d blocks for %d samples", ErrBlocks, nblocks, len(series))
	}

	size := len(series) / nblocks
	offset := len(series) - size*nblocks
	means := make([]float64, nblocks)
	for b := range means {
		start := offset + b*size
		means[b] = stat.Mean(series[start:start+size], nil)
	}

	mean, std := stat.MeanStdDev(means, nil)
	return BlockResult{
		Blocks:    nblocks,
		BlockSize: size,
		Mean:      mean,
		StdErr:    std / math.Sqrt(float64(nblocks)),
	}, nil
}

// RelativeDrift is |running - recomputed| relative to |recomputed|, or the
// absolute difference when recomputed is zero.
func RelativeDrift(running, recomputed float64) float64 {
	diff := math.Abs(running - recomputed)
	if recomputed == 0 {
		return diff
	}
	return diff / math.Abs(recomputed)
}

// Discard drops the leading fraction of a series, typically the
// equilibration phase.
func Discard(series []float64, fraction float64) []float64 {
	if fraction <= 0 {
		return series
	}
	if fraction >= 1 {
		return series[:0]
	}
	return series[int(fraction*float64(len(series))):]
}
