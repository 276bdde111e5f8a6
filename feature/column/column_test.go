package column

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pbanos/grove/dataset/table"
	"github.com/pbanos/grove/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []table.Column{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "label", Values: []string{"x", "y"}}}

func rng() *rand.Rand {
	return rand.New(rand.NewPCG(3, 4))
}

func names(fs []feature.Feature) []string {
	result := make([]string, len(fs))
	for i, f := range fs {
		result[i] = f.Name()
	}
	return result
}

func TestNewGenerator(t *testing.T) {
	_, err := NewGenerator(columns, []int{0, 4}, Single)
	assert.Error(t, err)
	_, err = NewGenerator(columns, []int{0}, Kind("ratio"))
	assert.Error(t, err)
}

func TestGenerateSingle(t *testing.T) {
	g, err := NewGenerator(columns, []int{0, 1, 2}, Single)
	require.NoError(t, err)
	fs := g.Generate(rng(), 2)
	require.Len(t, fs, 2)
	assert.NotEqual(t, fs[0].Name(), fs[1].Name())
	assert.Equal(t, names(fs), names(g.Generate(rng(), 2)))

	all := g.Generate(rng(), 10)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, names(all))
	assert.Empty(t, g.Generate(rng(), 0))
}

func TestGeneratePairwise(t *testing.T) {
	g, err := NewGenerator(columns, []int{0, 1, 2}, Pairwise)
	require.NoError(t, err)
	all := g.Generate(rng(), 100)
	assert.ElementsMatch(t, []string{"a - b", "a - c", "b - a", "b - c", "c - a", "c - b"}, names(all))

	few := g.Generate(rng(), 2)
	require.Len(t, few, 2)
	assert.NotEqual(t, few[0].Name(), few[1].Name())
	for _, f := range few {
		d := f.(*Difference)
		assert.NotEqual(t, d.A, d.B)
	}

	single, err := NewGenerator(columns, []int{2}, Pairwise)
	require.NoError(t, err)
	assert.Empty(t, single.Generate(rng(), 3))
}

func TestEvaluate(t *testing.T) {
	tb := table.New(columns)
	require.NoError(t, tb.Append([]float64{1, 4, math.NaN(), 0}))
	g, err := NewGenerator(columns, []int{0, 1, 2}, Single)
	require.NoError(t, err)

	assert.Equal(t, 4.0, g.Evaluate(&Column{Index: 1, Header: "b"}, tb, 0))
	assert.Equal(t, -3.0, g.Evaluate(&Difference{A: 0, B: 1}, tb, 0))
	assert.True(t, math.IsNaN(g.Evaluate(&Column{Index: 2}, tb, 0)))
	assert.True(t, math.IsNaN(g.Evaluate(&Difference{A: 0, B: 2}, tb, 0)))
	assert.True(t, math.IsNaN(g.Evaluate(&Column{Index: 9}, tb, 0)))
	assert.True(t, math.IsNaN(g.Evaluate(&Column{Index: 0}, tb, 1)))
	assert.True(t, math.IsNaN(g.Evaluate(&Column{Index: 0}, tb, "0")))
	assert.True(t, math.IsNaN(g.Evaluate(&Column{Index: 0}, "corpus", 0)))
}
