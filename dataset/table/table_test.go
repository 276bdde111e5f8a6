package table

import (
	"math"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []Column{{Name: "x"}, {Name: "color", Values: []string{"red", "green"}}}

func TestColumnParseFormat(t *testing.T) {
	v, err := columns[0].Parse("1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
	v, err = columns[1].Parse("green")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = columns[1].Parse(UndefinedValue)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
	_, err = columns[1].Parse("blue")
	assert.Error(t, err)
	_, err = columns[0].Parse("abc")
	assert.Error(t, err)

	assert.Equal(t, "1.5", columns[0].Format(1.5))
	assert.Equal(t, "red", columns[1].Format(0))
	assert.Equal(t, UndefinedValue, columns[1].Format(7))
	assert.Equal(t, UndefinedValue, columns[0].Format(math.NaN()))
}

func TestTable(t *testing.T) {
	tb := New(columns)
	require.NoError(t, tb.Append([]float64{0.5, 1}))
	require.NoError(t, tb.Append([]float64{2, math.NaN()}))
	require.NoError(t, tb.Append([]float64{3, 0}))
	assert.Error(t, tb.Append([]float64{1}))

	assert.Equal(t, 3, tb.Len())
	assert.Equal(t, 2.0, tb.Value(1, 0))
	assert.Equal(t, 1, tb.Index("color"))
	assert.Equal(t, -1, tb.Index("size"))
	assert.Equal(t, []int{0}, tb.Without("color"))
	assert.Equal(t, []dataset.Example{0, 1, 2}, tb.Examples())
	assert.Equal(t, "green", tb.Label(0, 1))
	assert.Equal(t, 3.0, tb.Label(2, 0))

	ts, err := tb.TrainingSet("color")
	require.NoError(t, err)
	assert.Same(t, tb, ts.Corpus)
	assert.Equal(t, []dataset.Example{0, 2}, ts.Examples)
	assert.Equal(t, []dataset.Label{"green", "red"}, ts.Labels)

	_, err = tb.TrainingSet("size")
	assert.Error(t, err)
}
