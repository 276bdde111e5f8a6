/*
Package grove trains decision forests: ensembles of independent randomized
binary decision trees grown from labeled examples of an opaque corpus.

The trainer never inspects examples directly. Candidate features and their
responses come from a feature.Generator, and split scores and leaf
statistics from a stats.Estimator. The training data of every tree comes
either from a single shared dataset.TrainingSet or from a dataset.Provider
called once per tree, which allows bagging and out-of-core corpora.

Training is reproducible: every random stream is derived from the
configured seed, the tree index and the position of nodes in the tree, so
the forest does not depend on how trees are scheduled among workers.
*/
package grove

import (
	"context"
	"fmt"
	"time"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/forest"
	"github.com/pbanos/grove/internal/metrics"
	"github.com/pbanos/grove/stats"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Trainer trains decision forests with a configuration, a feature
// generator, a statistics estimator and a source of training data.
type Trainer struct {
	config    Config
	generator feature.Generator
	estimator stats.Estimator
	set       *dataset.TrainingSet
	provider  dataset.Provider
	logger    logrus.FieldLogger
	metrics   *metrics.Metrics
}

// Option configures optional collaborators of a Trainer
type Option func(*Trainer)

// WithTrainingSet makes the trainer use the given training set for
// every tree.
func WithTrainingSet(ts *dataset.TrainingSet) Option {
	return func(t *Trainer) {
		t.set = ts
	}
}

// WithProvider makes the trainer obtain the training set of every tree
// from the given provider. It takes precedence over WithTrainingSet.
func WithProvider(p dataset.Provider) Option {
	return func(t *Trainer) {
		t.provider = p
	}
}

// WithLogger sets the logger of the trainer.
func WithLogger(l logrus.FieldLogger) Option {
	return func(t *Trainer) {
		t.logger = l
	}
}

// WithMetrics makes the trainer report to the given metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Trainer) {
		t.metrics = m
	}
}

/*
New takes a Config, a feature.Generator, a stats.Estimator and a set of
options and returns a Trainer with them. The configuration is validated
when Train is called.
*/
func New(config Config, g feature.Generator, e stats.Estimator, opts ...Option) *Trainer {
	t := &Trainer{
		config:    config,
		generator: g,
		estimator: e,
		logger:    logrus.WithField("module", "grove.trainer"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

/*
Train takes a context and trains a forest with exactly as many trees as
configured, building up to Workers trees concurrently. It returns an error
wrapping:
  * ErrConfiguration if the configuration is invalid, a capability is
    missing or there is neither a training set nor a provider
  * ErrProvider if the provider fails to supply the training set of a tree
  * ErrEmptyDataset if the training set of a tree has no examples
  * the context error if the context is cancelled or times out
A failure training any tree aborts the whole training, and no forest is
returned along with an error.
*/
func (t *Trainer) Train(ctx context.Context) (f *forest.Forest, err error) {
	defer func() {
		t.metrics.Training(err)
	}()
	if err = t.validate(); err != nil {
		return nil, err
	}
	var candidates []feature.Feature
	if !t.config.RandomFeaturesPerSplit {
		candidates = t.generator.Generate(newRand(derive(t.config.Seed, sharedCandidatesStream)), t.config.Features)
		t.logger.WithField("candidates", len(candidates)).Debug("generated shared candidate features")
	}
	trees := make([]*forest.Tree, t.config.Trees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.config.workers())
	start := time.Now()
	for i := range trees {
		g.Go(func() error {
			tree, err := t.trainTree(gctx, i, candidates)
			if err != nil {
				return err
			}
			trees[i] = tree
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		t.logger.WithError(err).Warn("training aborted")
		return nil, err
	}
	t.logger.WithFields(logrus.Fields{
		"trees":    len(trees),
		"duration": time.Since(start),
	}).Info("forest trained")
	return forest.New(trees), nil
}

func (t *Trainer) validate() error {
	if err := t.config.Validate(); err != nil {
		return err
	}
	if t.generator == nil {
		return fmt.Errorf("no feature generator: %w", ErrConfiguration)
	}
	if t.estimator == nil {
		return fmt.Errorf("no statistics estimator: %w", ErrConfiguration)
	}
	if t.provider != nil {
		return nil
	}
	if t.set == nil {
		return fmt.Errorf("no training set or provider: %w", ErrConfiguration)
	}
	if err := t.set.Validate(); err != nil {
		return fmt.Errorf("training set: %v: %w", err, ErrConfiguration)
	}
	return nil
}

/*
trainTree resolves the training set of the i-th tree and builds the tree
from it with the streams derived from the tree seed.
*/
func (t *Trainer) trainTree(ctx context.Context, i int, candidates []feature.Feature) (*forest.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("training tree %d: %w", i, err)
	}
	start := time.Now()
	seed := derive(t.config.Seed, uint64(i))
	logger := t.logger.WithField("tree", i)
	ts, err := t.trainingSet(ctx, i, seed)
	if err != nil {
		return nil, err
	}
	if ts.Count() == 0 {
		return nil, fmt.Errorf("tree %d: %w", i, ErrEmptyDataset)
	}
	b := &builder{
		config:     &t.config,
		generator:  t.generator,
		estimator:  t.estimator,
		corpus:     ts.Corpus,
		candidates: candidates,
		logger:     logger,
		metrics:    t.metrics,
	}
	tree, err := b.build(ctx, ts.Examples, ts.Labels, derive(seed, rootStream))
	if err != nil {
		return nil, fmt.Errorf("training tree %d: %w", i, err)
	}
	d := time.Since(start)
	t.metrics.TreeTrained(d)
	logger.WithFields(logrus.Fields{
		"examples": ts.Count(),
		"nodes":    len(tree.Nodes),
		"depth":    tree.Depth(),
		"duration": d,
	}).Debug("tree trained")
	return tree, nil
}

func (t *Trainer) trainingSet(ctx context.Context, i int, seed uint64) (*dataset.TrainingSet, error) {
	if t.provider == nil {
		return t.set, nil
	}
	ts, err := t.provider.TrainingSet(ctx, i, newRand(derive(seed, providerStream)))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("training tree %d: %w", i, ctx.Err())
		}
		return nil, fmt.Errorf("tree %d: %w: %w", i, ErrProvider, err)
	}
	if ts == nil {
		return nil, fmt.Errorf("tree %d: nil training set: %w", i, ErrProvider)
	}
	if err = ts.Validate(); err != nil {
		return nil, fmt.Errorf("tree %d: %w: %w", i, ErrProvider, err)
	}
	return ts, nil
}
