/*
Package forest provides the trained decision forest: an ordered sequence of
binary decision trees, and the traversal protocol to obtain, for an
example, the leaf statistics of every tree and aggregate them.

A Forest is not modified after training and is safe for concurrent reads.
*/
package forest

import (
	"fmt"
	"math"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/stats"
)

// Forest is an ordered sequence of trees.
type Forest struct {
	Trees []*Tree
}

// New takes a slice of trees and returns a forest with them.
func New(trees []*Tree) *Forest {
	return &Forest{Trees: trees}
}

// Size returns the number of trees in the forest.
func (f *Forest) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Trees)
}

/*
Leaves takes an Evaluator for an example and returns the statistics of the
leaf the example reaches on every tree of the forest, in tree order.
*/
func (f *Forest) Leaves(eval Evaluator) ([]stats.Stats, error) {
	if f.Size() == 0 {
		return nil, fmt.Errorf("empty forest has no leaves")
	}
	result := make([]stats.Stats, len(f.Trees))
	for i, t := range f.Trees {
		n, err := t.Leaf(eval)
		if err != nil {
			return nil, fmt.Errorf("traversing tree %d: %v", i, err)
		}
		result[i] = n.Stats
	}
	return result, nil
}

/*
Classify takes an Evaluator for an example and returns the class voted by
most trees of the forest and the share of votes it received. The leaves of
the forest must hold *stats.Histogram statistics.
*/
func (f *Forest) Classify(eval Evaluator) (string, float64, error) {
	leaves, err := f.Leaves(eval)
	if err != nil {
		return "", 0, err
	}
	votes, err := stats.Vote(leaves)
	if err != nil {
		return "", 0, err
	}
	value, share := votes.PredictedValue()
	return value, share, nil
}

/*
Regress takes an Evaluator for an example and returns the average of the
leaf means reached on every tree. The leaves of the forest must hold
*stats.Moments statistics.
*/
func (f *Forest) Regress(eval Evaluator) ([]float64, error) {
	leaves, err := f.Leaves(eval)
	if err != nil {
		return nil, err
	}
	return stats.Average(leaves)
}

// EvaluatorFor takes a feature.Generator, a corpus and an example and
// returns an Evaluator of features on the example.
func EvaluatorFor(g feature.Generator, c dataset.Corpus, e dataset.Example) Evaluator {
	return func(f feature.Feature) float64 {
		return g.Evaluate(f, c, e)
	}
}

/*
Accuracy takes a labeled set and the feature.Generator the forest was
trained with and returns the ratio of examples of the set whose label is
the class voted by the forest.
*/
func (f *Forest) Accuracy(ts *dataset.TrainingSet, g feature.Generator) (float64, error) {
	if ts.Count() == 0 {
		return 0, fmt.Errorf("cannot test forest against an empty set")
	}
	var hits int
	for i, e := range ts.Examples {
		v, _, err := f.Classify(EvaluatorFor(g, ts.Corpus, e))
		if err != nil {
			return 0, fmt.Errorf("classifying example %d: %v", i, err)
		}
		if v == stats.ClassOf(ts.Labels[i]) {
			hits++
		}
	}
	return float64(hits) / float64(ts.Count()), nil
}

/*
RMSE takes a labeled set with numeric targets and the feature.Generator
the forest was trained with and returns the root mean squared error of the
forest's regression over the set, computed over every target dimension.
*/
func (f *Forest) RMSE(ts *dataset.TrainingSet, g feature.Generator) (float64, error) {
	if ts.Count() == 0 {
		return 0, fmt.Errorf("cannot test forest against an empty set")
	}
	var sum float64
	var n int
	for i, e := range ts.Examples {
		prediction, err := f.Regress(EvaluatorFor(g, ts.Corpus, e))
		if err != nil {
			return 0, fmt.Errorf("regressing example %d: %v", i, err)
		}
		target, ok := stats.Vector(ts.Labels[i])
		if !ok || len(target) != len(prediction) {
			return 0, fmt.Errorf("example %d: label %v does not match prediction %v", i, ts.Labels[i], prediction)
		}
		for d := range target {
			diff := prediction[d] - target[d]
			sum += diff * diff
			n++
		}
	}
	return math.Sqrt(sum / float64(n)), nil
}

func (f *Forest) String() string {
	var result string
	for i, t := range f.Trees {
		result += fmt.Sprintf("Tree %d:\n%v\n", i, t)
	}
	return result
}
