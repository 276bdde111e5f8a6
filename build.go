package grove

import (
	"context"
	"math"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/forest"
	"github.com/pbanos/grove/internal/metrics"
	"github.com/pbanos/grove/stats"
	"github.com/sirupsen/logrus"
)

// Reasons for which a node that could be split becomes a leaf.
const (
	reasonNoCandidates = "no candidates"
	reasonNoSplit      = "degenerate split"
)

// builder grows a single tree into its node arena.
type builder struct {
	config     *Config
	generator  feature.Generator
	estimator  stats.Estimator
	corpus     dataset.Corpus
	candidates []feature.Feature
	logger     logrus.FieldLogger
	metrics    *metrics.Metrics
	nodes      []forest.Node
}

// split is the best split found at a node.
type split struct {
	feature   feature.Feature
	threshold float64
	score     float64
	responses []float64
}

/*
build takes a context, the examples and labels of a tree's training set and
the seed of the root node, and returns the tree grown from them.
*/
func (b *builder) build(ctx context.Context, examples []dataset.Example, labels []dataset.Label, seed uint64) (*forest.Tree, error) {
	b.nodes = nil
	if _, err := b.grow(ctx, examples, labels, 0, seed); err != nil {
		return nil, err
	}
	return &forest.Tree{Nodes: b.nodes}, nil
}

/*
grow appends a node for the given examples at the given depth to the arena
and returns its position. The node becomes a leaf when it has fewer examples
than required to split, sits at the maximum depth or no candidate split
improves on it. Otherwise it becomes an internal node and its children are
grown with the examples on each side of the best split, left first.
*/
func (b *builder) grow(ctx context.Context, examples []dataset.Example, labels []dataset.Label, depth int, seed uint64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	i := len(b.nodes)
	b.nodes = append(b.nodes, forest.Node{Depth: depth, Count: len(examples)})
	if len(examples) == 0 || len(examples) < b.config.MinExamplesForSplit || depth >= b.config.MaxDepth {
		b.leaf(i, examples, labels)
		return i, nil
	}
	s := b.bestSplit(examples, labels, depth, seed)
	if s == nil {
		b.leaf(i, examples, labels)
		return i, nil
	}
	var le, re []dataset.Example
	var ll, rl []dataset.Label
	for j, r := range s.responses {
		if r <= s.threshold {
			le = append(le, examples[j])
			ll = append(ll, labels[j])
		} else {
			re = append(re, examples[j])
			rl = append(rl, labels[j])
		}
	}
	b.nodes[i].Feature = s.feature
	b.nodes[i].Threshold = s.threshold
	b.metrics.NodeBuilt(false)
	left, err := b.grow(ctx, le, ll, depth+1, derive(seed, leftBranch))
	if err != nil {
		return 0, err
	}
	right, err := b.grow(ctx, re, rl, depth+1, derive(seed, rightBranch))
	if err != nil {
		return 0, err
	}
	b.nodes[i].Left = left
	b.nodes[i].Right = right
	return i, nil
}

func (b *builder) leaf(i int, examples []dataset.Example, labels []dataset.Label) {
	b.nodes[i].Stats = b.estimator.NodeStatistics(examples, labels)
	b.metrics.NodeBuilt(true)
}

/*
bestSplit returns the (feature, threshold) pair with the highest split
quality at a node, or nil if none has a score greater than 0. Candidates
are evaluated in generation order and thresholds in ascending position, and
a pair replaces the best one only if its score is strictly greater, so the
first pair wins ties. Features with a NaN response on any example, pairs
that leave a side empty and NaN scores are skipped.
*/
func (b *builder) bestSplit(examples []dataset.Example, labels []dataset.Label, depth int, seed uint64) *split {
	candidates := b.candidates
	if b.config.RandomFeaturesPerSplit {
		candidates = b.generator.Generate(newRand(derive(seed, candidatesBranch)), b.config.Features)
	}
	if len(candidates) == 0 {
		b.shortfall(reasonNoCandidates, depth, len(examples), 0)
		return nil
	}
	n := len(examples)
	responses := make([]float64, n)
	le := make([]dataset.Example, 0, n)
	re := make([]dataset.Example, 0, n)
	ll := make([]dataset.Label, 0, n)
	rl := make([]dataset.Label, 0, n)
	var best *split
	var unusable, unscorable int
	for _, f := range candidates {
		if !b.evaluate(f, examples, responses) {
			unusable++
			continue
		}
		for _, t := range b.config.thresholds(responses) {
			le, ll, re, rl = le[:0], ll[:0], re[:0], rl[:0]
			for j, r := range responses {
				if r <= t {
					le = append(le, examples[j])
					ll = append(ll, labels[j])
				} else {
					re = append(re, examples[j])
					rl = append(rl, labels[j])
				}
			}
			if len(le) == 0 || len(re) == 0 {
				continue
			}
			score := b.estimator.SplitQuality(le, ll, re, rl)
			if math.IsNaN(score) {
				unscorable++
				continue
			}
			if (best == nil && score > 0) || (best != nil && score > best.score) {
				if best == nil {
					best = &split{responses: make([]float64, n)}
				}
				best.feature = f
				best.threshold = t
				best.score = score
				copy(best.responses, responses)
			}
		}
	}
	if best == nil {
		b.shortfall(reasonNoSplit, depth, n, len(candidates))
		return nil
	}
	if unusable > 0 || unscorable > 0 {
		b.logger.WithFields(logrus.Fields{
			"depth":      depth,
			"examples":   n,
			"unusable":   unusable,
			"unscorable": unscorable,
		}).Debug("skipped candidates without usable responses or scores")
	}
	return best
}

// evaluate fills responses with the responses of the examples to a
// feature and returns false if any of them is NaN.
func (b *builder) evaluate(f feature.Feature, examples []dataset.Example, responses []float64) bool {
	for j, e := range examples {
		r := b.generator.Evaluate(f, b.corpus, e)
		if math.IsNaN(r) {
			return false
		}
		responses[j] = r
	}
	return true
}

func (b *builder) shortfall(reason string, depth, examples, candidates int) {
	b.metrics.Shortfall(reason)
	b.logger.WithError(ErrCapability).WithFields(logrus.Fields{
		"reason":     reason,
		"depth":      depth,
		"examples":   examples,
		"candidates": candidates,
	}).Debug("node turned into a leaf")
}
