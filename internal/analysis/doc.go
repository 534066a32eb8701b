// Package analysis provides statistics for Monte-Carlo energy series.
//
// The package includes tools for judging a finished run:
//
//   - [Summarize]: mean, standard deviation and range of a series
//   - [BlockAverage]: mean with a block-averaged standard error
//   - [Autocorrelation]: normalized autocorrelation function via FFT
//   - [CorrelationTime]: integrated autocorrelation time
//   - [RelativeDrift]: running versus recomputed energy consistency
//
// # Error Estimates
//
// Successive reports of a Markov chain are correlated, so the naive standard
// error underestimates the uncertainty. Block averaging removes most of that
// bias once blocks are longer than the correlation time:
//
//	tau := analysis.CorrelationTime(series)
//	blocks := len(series) / int(math.Ceil(10*tau))
//	res, err := analysis.BlockAverage(series, blocks)
package analysis
