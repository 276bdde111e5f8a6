package json

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pbanos/grove/dataset/table"
	featurejson "github.com/pbanos/grove/feature/json"
	"github.com/pbanos/grove/feature/column"
	"github.com/pbanos/grove/forest"
	"github.com/pbanos/grove/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []table.Column{{Name: "x"}, {Name: "y"}, {Name: "class", Values: []string{"a", "b"}}}

func codec() EncodeDecoder {
	return NewEncodeDecoder(NewTreeEncodeDecoder(featurejson.NewEncodeDecoder(columns), NewStatsEncodeDecoder()))
}

func TestForestRoundTrip(t *testing.T) {
	f := forest.New([]*forest.Tree{
		{Nodes: []forest.Node{
			{Feature: &column.Column{Index: 0, Header: "x"}, Threshold: 0.5, Left: 1, Right: 2, Count: 3},
			{Depth: 1, Count: 1, Stats: &stats.Histogram{Classes: map[string]int{"a": 1}, Total: 1}},
			{Feature: &column.Difference{A: 1, B: 0, HeaderA: "y", HeaderB: "x"}, Threshold: -2, Left: 3, Right: 4, Depth: 1, Count: 2},
			{Depth: 2, Count: 1, Stats: &stats.Histogram{Classes: map[string]int{"b": 1}, Total: 1}},
			{Depth: 2, Count: 1, Stats: &stats.Histogram{Classes: map[string]int{"a": 1}, Total: 1}},
		}},
		{Nodes: []forest.Node{
			{Count: 2, Stats: &stats.Moments{Count: 2, Mean: []float64{1.5}, Variance: []float64{0.25}}},
		}},
	})
	data, err := codec().Encode(f)
	require.NoError(t, err)
	decoded, err := codec().Decode(data)
	require.NoError(t, err)
	if diff := cmp.Diff(f, decoded); diff != "" {
		t.Errorf("decoded forest differs (-want +got):\n%s", diff)
	}
}

func TestEncodeFormat(t *testing.T) {
	f := forest.New([]*forest.Tree{{Nodes: []forest.Node{
		{Count: 1, Stats: &stats.Histogram{Classes: map[string]int{"a": 1}, Total: 1}},
	}}})
	data, err := codec().Encode(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"trees":[{"nodes":[{"d":0,"n":1,"s":{"k":"histogram","h":{"a":1},"n":1}}]}]}`, string(data))
}

func TestDecodeErrors(t *testing.T) {
	for name, data := range map[string]string{
		"invalid json":      `{"trees":`,
		"unknown column":    `{"trees":[{"nodes":[{"f":{"t":"column","a":"z"},"l":1,"r":2,"d":0,"n":0}]}]}`,
		"children in range": `{"trees":[{"nodes":[{"f":{"t":"column","a":"x"},"l":1,"r":2,"d":0,"n":0}]}]}`,
		"no stats":          `{"trees":[{"nodes":[{"d":0,"n":1}]}]}`,
		"unknown stats":     `{"trees":[{"nodes":[{"d":0,"n":1,"s":{"k":"z","n":1}}]}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := codec().Decode([]byte(data))
			assert.Error(t, err)
		})
	}
}
