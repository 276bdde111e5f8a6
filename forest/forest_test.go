package forest

import (
	"math"
	"strings"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/table"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/feature/column"
	"github.com/pbanos/grove/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var x = &column.Column{Index: 0, Header: "x"}

func histogram(class string, n int) *stats.Histogram {
	return &stats.Histogram{Classes: map[string]int{class: n}, Total: n}
}

// stump splits on x <= 0.5 into a "low" and a "high" leaf.
func stump(low, high string) *Tree {
	return &Tree{Nodes: []Node{
		{Feature: x, Threshold: 0.5, Left: 1, Right: 2, Count: 4},
		{Depth: 1, Count: 2, Stats: histogram(low, 2)},
		{Depth: 1, Count: 2, Stats: histogram(high, 2)},
	}}
}

func constant(v float64) Evaluator {
	return func(feature.Feature) float64 { return v }
}

func TestTreeLeaf(t *testing.T) {
	tr := stump("a", "b")
	n, err := tr.Leaf(constant(0.5))
	require.NoError(t, err)
	assert.Equal(t, &tr.Nodes[1], n)
	n, err = tr.Leaf(constant(0.7))
	require.NoError(t, err)
	assert.Equal(t, &tr.Nodes[2], n)
	n, err = tr.Leaf(constant(math.NaN()))
	require.NoError(t, err)
	assert.Equal(t, &tr.Nodes[2], n)
}

func TestTreeLeafMalformed(t *testing.T) {
	_, err := (&Tree{}).Leaf(constant(0))
	assert.Error(t, err)
	tr := &Tree{Nodes: []Node{{Feature: x, Left: 1, Right: 5}, {}}}
	_, err = tr.Leaf(constant(1))
	assert.Error(t, err)
	cyclic := &Tree{Nodes: []Node{{Feature: x, Left: 1, Right: 1}, {Feature: x, Left: 1, Right: 1}}}
	_, err = cyclic.Leaf(constant(0))
	assert.Error(t, err)
}

func TestTreeTraverse(t *testing.T) {
	var visited []int
	err := stump("a", "b").Traverse(func(i int, n *Node) error {
		visited = append(visited, i)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, visited)
	assert.Equal(t, 1, stump("a", "b").Depth())
}

func TestTreeString(t *testing.T) {
	s := stump("a", "b").String()
	assert.True(t, strings.HasPrefix(s, "[0]\n{ x <= 0.5 n=4 }\n|\n|__[1]\n"), s)
	assert.Contains(t, s, "[a:2]")
	assert.Contains(t, s, "[b:2]")
}

func TestForestClassify(t *testing.T) {
	f := New([]*Tree{stump("a", "b"), stump("a", "c"), stump("b", "c")})
	assert.Equal(t, 3, f.Size())
	class, share, err := f.Classify(constant(0))
	require.NoError(t, err)
	assert.Equal(t, "a", class)
	assert.InDelta(t, 2.0/3.0, share, 1e-12)
	class, _, err = f.Classify(constant(1))
	require.NoError(t, err)
	assert.Equal(t, "c", class)

	_, _, err = (&Forest{}).Classify(constant(0))
	assert.Error(t, err)
}

func TestForestRegress(t *testing.T) {
	tr := &Tree{Nodes: []Node{
		{Feature: x, Threshold: 0.5, Left: 1, Right: 2},
		{Depth: 1, Stats: &stats.Moments{Count: 1, Mean: []float64{1}, Variance: []float64{0}}},
		{Depth: 1, Stats: &stats.Moments{Count: 1, Mean: []float64{3}, Variance: []float64{0}}},
	}}
	leafOnly := &Tree{Nodes: []Node{{Stats: &stats.Moments{Count: 1, Mean: []float64{5}, Variance: []float64{0}}}}}
	f := New([]*Tree{tr, leafOnly})
	v, err := f.Regress(constant(0))
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, v)
}

func testSet(t *testing.T) (*dataset.TrainingSet, feature.Generator) {
	columns := []table.Column{{Name: "x"}, {Name: "y", Values: []string{"a", "b"}}}
	tb := table.New(columns)
	require.NoError(t, tb.Append([]float64{0, 0}))
	require.NoError(t, tb.Append([]float64{1, 1}))
	require.NoError(t, tb.Append([]float64{1, 0}))
	ts, err := tb.TrainingSet("y")
	require.NoError(t, err)
	g, err := column.NewGenerator(columns, []int{0}, column.Single)
	require.NoError(t, err)
	return ts, g
}

func TestForestAccuracy(t *testing.T) {
	ts, g := testSet(t)
	acc, err := New([]*Tree{stump("a", "b")}).Accuracy(ts, g)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, acc, 1e-12)
}

func TestForestRMSE(t *testing.T) {
	columns := []table.Column{{Name: "x"}, {Name: "y"}}
	tb := table.New(columns)
	require.NoError(t, tb.Append([]float64{0, 1}))
	require.NoError(t, tb.Append([]float64{1, 5}))
	ts, err := tb.TrainingSet("y")
	require.NoError(t, err)
	g, err := column.NewGenerator(columns, []int{0}, column.Single)
	require.NoError(t, err)
	tr := &Tree{Nodes: []Node{
		{Feature: x, Threshold: 0.5, Left: 1, Right: 2},
		{Depth: 1, Stats: &stats.Moments{Count: 1, Mean: []float64{2}}},
		{Depth: 1, Stats: &stats.Moments{Count: 1, Mean: []float64{5}}},
	}}
	rmse, err := New([]*Tree{tr}).RMSE(ts, g)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5), rmse, 1e-12)
}
