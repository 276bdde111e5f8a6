/*
Package table provides an in-memory tabular corpus: rows of numeric cells
under named columns. Continuous columns hold their float64 value, discrete
columns hold the index of their value among the column's available values,
and undefined cells hold NaN.

Examples in a table corpus are row indices (int).
*/
package table

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pbanos/grove/dataset"
)

// UndefinedValue is the raw value used to represent an undefined cell.
const UndefinedValue = "?"

/*
Column describes a column of a table. A column with available values is
discrete: its cells can only take one of those values. A column without
them is continuous and its cells take any real number.
*/
type Column struct {
	Name   string
	Values []string
}

// Discrete returns whether the column is discrete.
func (c Column) Discrete() bool {
	return len(c.Values) > 0
}

/*
Parse takes a raw string value and returns the cell value for the column:
the parsed number for continuous columns, the index of the value among the
available ones for discrete columns, and NaN for UndefinedValue. An error
is returned if the raw value is not valid for the column.
*/
func (c Column) Parse(raw string) (float64, error) {
	if raw == UndefinedValue {
		return math.NaN(), nil
	}
	if !c.Discrete() {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: converting %q to float64: %v", c.Name, raw, err)
		}
		return v, nil
	}
	for i, v := range c.Values {
		if v == raw {
			return float64(i), nil
		}
	}
	return 0, fmt.Errorf("column %s: unknown value %q", c.Name, raw)
}

// Format takes a cell value and returns its raw string representation for
// the column.
func (c Column) Format(v float64) string {
	if math.IsNaN(v) {
		return UndefinedValue
	}
	if !c.Discrete() {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	i := int(v)
	if i < 0 || i >= len(c.Values) {
		return UndefinedValue
	}
	return c.Values[i]
}

// Table is a corpus of rows of float64 cells.
type Table struct {
	Columns []Column
	Rows    [][]float64
}

// New takes a slice of columns and returns an empty table with them.
func New(columns []Column) *Table {
	return &Table{Columns: columns}
}

// Append takes a row of cells and adds it to the table. It returns an
// error if the row does not have a cell per column.
func (t *Table) Append(row []float64) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("appending row with %d cells to table with %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Value returns the cell at the given row and column.
func (t *Table) Value(row, column int) float64 {
	return t.Rows[row][column]
}

// Index takes a column name and returns its position in the table, or
// -1 if the table has no column with that name.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Examples returns a slice with one example (its row index) per row.
func (t *Table) Examples() []dataset.Example {
	examples := make([]dataset.Example, len(t.Rows))
	for i := range t.Rows {
		examples[i] = i
	}
	return examples
}

/*
Label takes a row index and a column position and returns the label held
by the cell: its string value for discrete columns and its float64 value
for continuous ones.
*/
func (t *Table) Label(row, column int) dataset.Label {
	c := t.Columns[column]
	v := t.Rows[row][column]
	if c.Discrete() {
		return c.Format(v)
	}
	return v
}

/*
TrainingSet takes the name of the label column and returns a training set
with every row of the table as example, labeled with its cell on the label
column. Rows with an undefined label are left out. An error is returned if
the table has no such column.
*/
func (t *Table) TrainingSet(label string) (*dataset.TrainingSet, error) {
	li := t.Index(label)
	if li < 0 {
		return nil, fmt.Errorf("label column %q is not defined", label)
	}
	ts := &dataset.TrainingSet{Corpus: t}
	for i, row := range t.Rows {
		if math.IsNaN(row[li]) {
			continue
		}
		ts.Examples = append(ts.Examples, i)
		ts.Labels = append(ts.Labels, t.Label(i, li))
	}
	return ts, nil
}

// Without takes a column name and returns the positions of every other
// column in the table.
func (t *Table) Without(name string) []int {
	var positions []int
	for i, c := range t.Columns {
		if c.Name != name {
			positions = append(positions, i)
		}
	}
	return positions
}
