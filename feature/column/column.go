/*
Package column provides features and a feature.Generator for table
corpora: single column features, whose response is a cell value, and
difference features, whose response is the difference between two cells
of the same row.
*/
package column

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/table"
	"github.com/pbanos/grove/feature"
)

// Kind identifies the kind of features a Generator produces.
type Kind string

const (
	// Single generators produce Column features
	Single = Kind("column")
	// Pairwise generators produce Difference features
	Pairwise = Kind("difference")
)

// Column is a feature whose response is the value of a table cell.
type Column struct {
	Index  int
	Header string
}

// Difference is a feature whose response is the value of the cell in
// column A minus the value of the cell in column B.
type Difference struct {
	A, B             int
	HeaderA, HeaderB string
}

// Name returns the column name.
func (c *Column) Name() string {
	return c.Header
}

func (c *Column) String() string {
	return c.Header
}

// Name returns a description of the difference.
func (d *Difference) Name() string {
	return fmt.Sprintf("%s - %s", d.HeaderA, d.HeaderB)
}

func (d *Difference) String() string {
	return d.Name()
}

/*
Generator is a feature.Generator over table corpora. It draws its candidate
features from a fixed set of columns.
*/
type Generator struct {
	kind    Kind
	columns []int
	headers []string
}

/*
NewGenerator takes a slice of table columns, the positions of the columns
candidate features may be built on and a Kind, and returns a Generator for
that kind of features. It returns an error if the kind is unknown or a
position is out of range.
*/
func NewGenerator(columns []table.Column, positions []int, kind Kind) (*Generator, error) {
	if kind != Single && kind != Pairwise {
		return nil, fmt.Errorf("unknown kind of column feature %q", kind)
	}
	g := &Generator{kind: kind, columns: positions}
	for _, p := range positions {
		if p < 0 || p >= len(columns) {
			return nil, fmt.Errorf("column position %d out of range [0, %d)", p, len(columns))
		}
		g.headers = append(g.headers, columns[p].Name)
	}
	return g, nil
}

/*
Generate takes a random stream and a number n and returns up to n
different features. Single generators return at most one feature per
column, and pairwise generators one per ordered pair of different columns.
*/
func (g *Generator) Generate(rng *rand.Rand, n int) []feature.Feature {
	if n <= 0 {
		return nil
	}
	if g.kind == Single {
		perm := rng.Perm(len(g.columns))
		if n < len(perm) {
			perm = perm[:n]
		}
		result := make([]feature.Feature, 0, len(perm))
		for _, i := range perm {
			result = append(result, &Column{Index: g.columns[i], Header: g.headers[i]})
		}
		return result
	}
	return g.generatePairs(rng, n)
}

func (g *Generator) generatePairs(rng *rand.Rand, n int) []feature.Feature {
	p := len(g.columns)
	total := p * (p - 1)
	if total <= 0 {
		return nil
	}
	var picks []int
	if n >= total/2 {
		picks = rng.Perm(total)
		if n < len(picks) {
			picks = picks[:n]
		}
	} else {
		seen := make(map[int]bool, n)
		for len(picks) < n {
			k := rng.IntN(total)
			if seen[k] {
				continue
			}
			seen[k] = true
			picks = append(picks, k)
		}
	}
	result := make([]feature.Feature, 0, len(picks))
	for _, k := range picks {
		a := k / (p - 1)
		b := k % (p - 1)
		if b >= a {
			b++
		}
		result = append(result, &Difference{
			A:       g.columns[a],
			B:       g.columns[b],
			HeaderA: g.headers[a],
			HeaderB: g.headers[b],
		})
	}
	return result
}

/*
Evaluate takes a feature, a corpus and an example and returns the response
of the feature. The corpus is expected to be a *table.Table and the example
a row index in it. NaN is returned for any other kind of corpus, example or
feature, for out of range rows and for undefined cells.
*/
func (g *Generator) Evaluate(f feature.Feature, c dataset.Corpus, e dataset.Example) float64 {
	t, ok := c.(*table.Table)
	if !ok {
		return math.NaN()
	}
	row, ok := e.(int)
	if !ok || row < 0 || row >= t.Len() {
		return math.NaN()
	}
	switch f := f.(type) {
	case *Column:
		return cell(t, row, f.Index)
	case *Difference:
		return cell(t, row, f.A) - cell(t, row, f.B)
	default:
		return math.NaN()
	}
}

func cell(t *table.Table, row, column int) float64 {
	if column < 0 || column >= len(t.Columns) {
		return math.NaN()
	}
	return t.Value(row, column)
}
