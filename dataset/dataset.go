/*
Package dataset defines the data forests are trained on: an opaque corpus,
references to the examples in it and the labels for those examples, along
with the Provider capability that resolves the training data of each tree.
*/
package dataset

import "fmt"

// Corpus is an opaque backing store of examples. The training core never
// looks into it, only feature generators do.
type Corpus interface{}

// Example references one example inside a Corpus.
type Example interface{}

// Label is the ground truth for an example: a class value (string or int),
// a continuous target (float64) or a vector target ([]float64).
type Label interface{}

// Error is the type of the errors defined by this package
type Error string

// ErrMisalignedLabels is returned when a training set does not hold
// exactly one label per example.
const ErrMisalignedLabels = Error("examples and labels are not aligned")

func (e Error) Error() string {
	return string(e)
}

/*
TrainingSet groups a corpus, a sequence of examples in it and a parallel
sequence of labels: Labels[i] is the label for Examples[i].

A TrainingSet is read-only while a forest is being trained on it.
*/
type TrainingSet struct {
	Corpus   Corpus
	Examples []Example
	Labels   []Label
}

// New takes a corpus, a slice of examples and a slice of labels and
// returns a TrainingSet with them.
func New(c Corpus, examples []Example, labels []Label) *TrainingSet {
	return &TrainingSet{Corpus: c, Examples: examples, Labels: labels}
}

// Count returns the number of examples in the training set. A nil
// training set has no examples.
func (ts *TrainingSet) Count() int {
	if ts == nil {
		return 0
	}
	return len(ts.Examples)
}

// Validate returns an error wrapping ErrMisalignedLabels if the number
// of labels differs from the number of examples.
func (ts *TrainingSet) Validate() error {
	if len(ts.Examples) != len(ts.Labels) {
		return fmt.Errorf("%w: %d examples, %d labels", ErrMisalignedLabels, len(ts.Examples), len(ts.Labels))
	}
	return nil
}

// Pick takes a slice of positions in the training set and returns a new
// training set on the same corpus with the examples and labels at those
// positions, in the given order. Positions may repeat.
func (ts *TrainingSet) Pick(positions []int) *TrainingSet {
	examples := make([]Example, len(positions))
	labels := make([]Label, len(positions))
	for i, p := range positions {
		examples[i] = ts.Examples[p]
		labels[i] = ts.Labels[p]
	}
	return &TrainingSet{Corpus: ts.Corpus, Examples: examples, Labels: labels}
}

func (ts *TrainingSet) String() string {
	return fmt.Sprintf("{TrainingSet %d examples}", ts.Count())
}
