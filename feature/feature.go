/*
Package feature defines the Generator capability a forest trainer uses to
obtain candidate features and evaluate their responses on examples.
*/
package feature

import (
	"math/rand/v2"

	"github.com/pbanos/grove/dataset"
)

/*
Feature is an opaque, generator-defined description of what to measure on
an example. Only the Generator that produced a feature knows how to
evaluate it. Its Name method returns a human readable description.
*/
type Feature interface {
	Name() string
}

/*
Generator is the interface for the capability that produces and evaluates
features.

Generate takes a random stream and a number n and returns up to n candidate
features drawn with the stream. It may return fewer candidates when it
cannot produce n, or none at all, which makes the node being split a leaf.

Evaluate takes a feature, a corpus and an example in it and returns the
response of the feature for the example. It must be a deterministic
function of its inputs and safe for concurrent use. A NaN response signals
the feature cannot be evaluated on the example.
*/
type Generator interface {
	Generate(rng *rand.Rand, n int) []Feature
	Evaluate(f Feature, c dataset.Corpus, e dataset.Example) float64
}
