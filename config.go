package grove

import (
	"fmt"
	"runtime"
)

// ThresholdStrategy identifies how candidate thresholds are synthesized
// from the responses observed at a node.
type ThresholdStrategy string

const (
	// UniformThresholds spaces thresholds evenly over the range of responses
	UniformThresholds = ThresholdStrategy("uniform")
	// QuantileThresholds places thresholds at empirical quantiles of responses
	QuantileThresholds = ThresholdStrategy("quantile")
)

/*
Config holds the parameters of a forest training. It is validated when
Train is called and is not modified during training.
*/
type Config struct {
	// Number of trees of the forest
	Trees int
	// Maximum depth of the trees, the root being at depth 0
	MaxDepth int
	// Number of candidate features requested at every split
	Features int
	// Number of candidate thresholds synthesized per feature at every split.
	// When 0, ExplicitThresholds are used instead.
	Thresholds int
	// Minimum number of examples a node needs to be split
	MinExamplesForSplit int
	// Whether candidate features are generated afresh at every node. When
	// false a single set of candidates is generated per training and used
	// on every node of every tree.
	RandomFeaturesPerSplit bool
	// Thresholds tested at every split when Thresholds is 0
	ExplicitThresholds []float64
	// How thresholds are synthesized when Thresholds is not 0. Defaults to
	// UniformThresholds.
	ThresholdStrategy ThresholdStrategy
	// Seed from which every random stream of the training is derived
	Seed uint64
	// Maximum number of trees built concurrently. Defaults to the number
	// of CPUs.
	Workers int
}

/*
DefaultConfig returns a Config with the default values of every
parameter.
*/
func DefaultConfig() Config {
	return Config{
		Trees:                  10,
		MaxDepth:               15,
		Features:               1000,
		Thresholds:             10,
		MinExamplesForSplit:    2,
		RandomFeaturesPerSplit: true,
		ThresholdStrategy:      UniformThresholds,
	}
}

/*
Validate returns an error wrapping ErrConfiguration if the configuration
is not valid.
*/
func (c *Config) Validate() error {
	switch {
	case c.Trees <= 0:
		return fmt.Errorf("number of trees must be positive, got %d: %w", c.Trees, ErrConfiguration)
	case c.MaxDepth <= 0:
		return fmt.Errorf("maximum tree depth must be positive, got %d: %w", c.MaxDepth, ErrConfiguration)
	case c.Features <= 0:
		return fmt.Errorf("number of candidate features must be positive, got %d: %w", c.Features, ErrConfiguration)
	case c.Thresholds < 0:
		return fmt.Errorf("number of candidate thresholds must not be negative, got %d: %w", c.Thresholds, ErrConfiguration)
	case c.Thresholds == 0 && len(c.ExplicitThresholds) == 0:
		return fmt.Errorf("explicit thresholds are required when the number of candidate thresholds is 0: %w", ErrConfiguration)
	case c.MinExamplesForSplit < 1:
		return fmt.Errorf("minimum examples for split must be at least 1, got %d: %w", c.MinExamplesForSplit, ErrConfiguration)
	case c.Workers < 0:
		return fmt.Errorf("number of workers must not be negative, got %d: %w", c.Workers, ErrConfiguration)
	}
	switch c.ThresholdStrategy {
	case "", UniformThresholds, QuantileThresholds:
	default:
		return fmt.Errorf("unknown threshold strategy %q: %w", c.ThresholdStrategy, ErrConfiguration)
	}
	return nil
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

func (c *Config) strategy() ThresholdStrategy {
	if c.ThresholdStrategy == "" {
		return UniformThresholds
	}
	return c.ThresholdStrategy
}
