/*
Package stats provides the Estimator capability a forest trainer uses to
score candidate splits and to summarize the labels of the examples that
reach a leaf, along with default estimators for classification (entropy
and Gini impurity) and regression (variance) and the aggregation of leaf
statistics across the trees of a forest.
*/
package stats

import (
	"math"

	"github.com/pbanos/grove/dataset"
)

/*
Stats is an estimator-defined summary of the labels of the examples that
reached a leaf. The default estimators produce *Histogram and *Moments
values.
*/
type Stats interface{}

/*
Estimator is the interface for the capability that computes leaf
statistics and split quality.

NodeStatistics takes the examples that reached a leaf and their labels and
returns their statistics.

SplitQuality takes the examples and labels of both sides of a candidate
bipartition and returns its score. Higher scores are better. A NaN score
signals the split cannot be scored and makes the trainer ignore it.

Both methods must be deterministic and safe for concurrent use.
*/
type Estimator interface {
	NodeStatistics(examples []dataset.Example, labels []dataset.Label) Stats
	SplitQuality(leftExamples []dataset.Example, leftLabels []dataset.Label, rightExamples []dataset.Example, rightLabels []dataset.Label) float64
}

// Error represents an error related with statistics
type Error string

/*
ErrUnsupportedStats is the error returned when aggregating statistics of a
type the aggregation does not know how to handle.
*/
const ErrUnsupportedStats = Error("unsupported type of statistics")

// ErrNoStats is the error returned when aggregating an empty set of statistics.
const ErrNoStats = Error("no statistics to aggregate")

func (e Error) Error() string {
	return string(e)
}

// gainTolerance is the magnitude under which a gain is considered
// rounding noise.
const gainTolerance = 1e-12

// weightedGain returns the decrease of an impurity measure from a parent
// of n examples to its children, weighting each child by its size.
func weightedGain(parent, left, right float64, nl, nr int) float64 {
	n := float64(nl + nr)
	var result = parent
	if nl > 0 {
		result -= float64(nl) / n * left
	}
	if nr > 0 {
		result -= float64(nr) / n * right
	}
	if math.Abs(result) < gainTolerance {
		return 0
	}
	return result
}
