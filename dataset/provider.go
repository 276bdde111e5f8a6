package dataset

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
)

/*
Provider is the interface wrapping the TrainingSet method, used by a
forest trainer to obtain the training data of each tree. It allows
resampling the data for every tree (bagging) or streaming it from
storage that does not fit in memory.

TrainingSet takes a context, the index of the tree about to be trained
and a random stream owned by that tree, and returns the training set
for it or an error. Implementations are called concurrently for
different trees and must only use the given random stream for
randomness so that training stays reproducible.
*/
type Provider interface {
	TrainingSet(ctx context.Context, tree int, rng *rand.Rand) (*TrainingSet, error)
}

// ProviderFunc wraps a function with the TrainingSet method signature
// to implement the Provider interface
type ProviderFunc func(ctx context.Context, tree int, rng *rand.Rand) (*TrainingSet, error)

// TrainingSet calls the ProviderFunc with the given parameters and
// returns its results.
func (pf ProviderFunc) TrainingSet(ctx context.Context, tree int, rng *rand.Rand) (*TrainingSet, error) {
	return pf(ctx, tree, rng)
}

/*
Sampling describes how the examples of every tree are drawn from a set of
n: a Fraction in (0, 1] of n, rounded up, drawn uniformly with or without
replacement.
*/
type Sampling struct {
	Fraction    float64
	Replacement bool
}

// Validate returns an error if the sampling fraction is not in (0, 1].
func (s Sampling) Validate() error {
	if s.Fraction <= 0 || s.Fraction > 1 || math.IsNaN(s.Fraction) {
		return fmt.Errorf("sampling fraction must be in (0, 1], got %v", s.Fraction)
	}
	return nil
}

/*
Draw takes a number n and a random stream and returns the positions in
[0, n) drawn according to the sampling. Non-empty sets always produce
non-empty samples.
*/
func (s Sampling) Draw(n int, rng *rand.Rand) []int {
	if n == 0 {
		return nil
	}
	size := int(math.Ceil(s.Fraction * float64(n)))
	if !s.Replacement {
		return rng.Perm(n)[:size]
	}
	positions := make([]int, size)
	for i := range positions {
		positions[i] = rng.IntN(n)
	}
	return positions
}

/*
Resample takes a training set and a Sampling and returns a Provider that
gives every tree a sample of the training set drawn with the tree's random
stream. An error is returned if the sampling is not valid.
*/
func Resample(ts *TrainingSet, s Sampling) (Provider, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return ProviderFunc(func(ctx context.Context, tree int, rng *rand.Rand) (*TrainingSet, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return ts.Pick(s.Draw(ts.Count(), rng)), nil
	}), nil
}

/*
Bootstrap takes a training set and returns a Provider that gives every
tree a bootstrap sample of it: as many examples as the training set has,
drawn uniformly with replacement.
*/
func Bootstrap(ts *TrainingSet) Provider {
	p, _ := Resample(ts, Sampling{Fraction: 1, Replacement: true})
	return p
}

/*
Subsample takes a training set and a fraction in (0, 1] and returns a
Provider that gives every tree a sample of the given fraction of the
training set examples drawn without replacement. The sample size is
rounded up, so non-empty training sets always produce non-empty samples.
*/
func Subsample(ts *TrainingSet, fraction float64) (Provider, error) {
	return Resample(ts, Sampling{Fraction: fraction})
}

// Fixed takes a training set and returns a Provider that gives the same
// training set to every tree.
func Fixed(ts *TrainingSet) Provider {
	return ProviderFunc(func(ctx context.Context, tree int, rng *rand.Rand) (*TrainingSet, error) {
		return ts, nil
	})
}
