package csv

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/pbanos/grove/dataset/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []table.Column{{Name: "x"}, {Name: "color", Values: []string{"red", "green"}}}

func TestReadTable(t *testing.T) {
	input := "id,color,x\n1,green,0.5\n2,?,3\n"
	tb, err := ReadTable(strings.NewReader(input), columns)
	require.NoError(t, err)
	require.Equal(t, 2, tb.Len())
	assert.Equal(t, []float64{0.5, 1}, tb.Rows[0])
	assert.Equal(t, 3.0, tb.Rows[1][0])
	assert.True(t, math.IsNaN(tb.Rows[1][1]))
}

func TestReadTableErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":          "",
		"missing column": "x\n1\n",
		"invalid value":  "x,color\n1,blue\n",
		"ragged row":     "x,color\n1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(input), columns)
			assert.Error(t, err)
		})
	}
}

func TestReadRowsStops(t *testing.T) {
	var seen []int
	err := ReadRows(strings.NewReader("x,color\n1,red\n2,red\n3,red\n"), columns, func(i int, row []float64) (bool, error) {
		seen = append(seen, i)
		return i < 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, seen)
}

func TestWriteTable(t *testing.T) {
	tb := table.New(columns)
	require.NoError(t, tb.Append([]float64{1.25, 0}))
	require.NoError(t, tb.Append([]float64{math.NaN(), 1}))
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, tb))
	assert.Equal(t, "x,color\n1.25,red\n?,green\n", buf.String())

	back, err := ReadTable(&buf, columns)
	require.NoError(t, err)
	assert.Equal(t, 2, back.Len())
	assert.Equal(t, 1.25, back.Rows[0][0])
}
