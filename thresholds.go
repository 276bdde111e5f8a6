package grove

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

/*
uniformThresholds takes the responses observed at a node and a number n
and returns n thresholds evenly spaced inside the range of the responses:
the range is divided in n+2 steps and a threshold is placed at the end of
each of the first n ones.
*/
func uniformThresholds(responses []float64, n int) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range responses {
		lo = math.Min(lo, r)
		hi = math.Max(hi, r)
	}
	step := (hi - lo) / float64(n+2)
	thresholds := make([]float64, n)
	for i := range thresholds {
		thresholds[i] = lo + step*float64(i+1)
	}
	return thresholds
}

/*
quantileThresholds takes the responses observed at a node and a number n
and returns the n empirical quantiles of the responses at i/(n+1) for i in
[1, n].
*/
func quantileThresholds(responses []float64, n int) []float64 {
	sorted := make([]float64, len(responses))
	copy(sorted, responses)
	sort.Float64s(sorted)
	thresholds := make([]float64, n)
	for i := range thresholds {
		thresholds[i] = stat.Quantile(float64(i+1)/float64(n+1), stat.Empirical, sorted, nil)
	}
	return thresholds
}

// thresholds returns the candidate thresholds for a feature given its
// responses at a node.
func (c *Config) thresholds(responses []float64) []float64 {
	if c.Thresholds == 0 {
		return c.ExplicitThresholds
	}
	if c.strategy() == QuantileThresholds {
		return quantileThresholds(responses, c.Thresholds)
	}
	return uniformThresholds(responses, c.Thresholds)
}
