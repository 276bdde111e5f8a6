package grove

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	assert.NoError(t, valid.Validate())
	for name, mutate := range map[string]func(*Config){
		"no trees":             func(c *Config) { c.Trees = 0 },
		"no depth":             func(c *Config) { c.MaxDepth = 0 },
		"no features":          func(c *Config) { c.Features = 0 },
		"negative thresholds":  func(c *Config) { c.Thresholds = -1 },
		"no thresholds at all": func(c *Config) { c.Thresholds = 0 },
		"no min split":         func(c *Config) { c.MinExamplesForSplit = 0 },
		"negative workers":     func(c *Config) { c.Workers = -2 },
		"unknown strategy":     func(c *Config) { c.ThresholdStrategy = "median" },
	} {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			mutate(&c)
			err := c.Validate()
			assert.True(t, errors.Is(err, ErrConfiguration), err)
		})
	}
	explicit := DefaultConfig()
	explicit.Thresholds = 0
	explicit.ExplicitThresholds = []float64{1, 2}
	assert.NoError(t, explicit.Validate())
	assert.Equal(t, []float64{1, 2}, explicit.thresholds([]float64{5, 6}))
}

func TestUniformThresholds(t *testing.T) {
	th := uniformThresholds([]float64{4, 0, 2}, 2)
	assert.InDeltaSlice(t, []float64{1, 2}, th, 1e-12)
	assert.Equal(t, []float64{3, 3, 3}, uniformThresholds([]float64{3, 3}, 3))
}

func TestQuantileThresholds(t *testing.T) {
	responses := []float64{8, 1, 7, 2, 6, 3, 5, 4}
	assert.Equal(t, []float64{2, 4, 6}, quantileThresholds(responses, 3))
	assert.Equal(t, []float64{8, 1, 7, 2, 6, 3, 5, 4}, responses)

	c := Config{Thresholds: 3, ThresholdStrategy: QuantileThresholds}
	assert.Equal(t, []float64{2, 4, 6}, c.thresholds(responses))
	c.ThresholdStrategy = ""
	assert.InDeltaSlice(t, []float64{2.4, 3.8, 5.2}, c.thresholds(responses), 1e-12)
}

func TestDerive(t *testing.T) {
	assert.Equal(t, derive(42, 3), derive(42, 3))
	seen := map[uint64]bool{}
	for _, seed := range []uint64{0, 1, 42} {
		for i := uint64(0); i < 100; i++ {
			d := derive(seed, i)
			assert.False(t, seen[d], "seed %d index %d collides", seed, i)
			seen[d] = true
		}
	}
	a, b := newRand(7), newRand(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}
