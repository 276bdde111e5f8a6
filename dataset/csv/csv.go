/*
Package csv reads table corpora from CSV streams.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/grove/dataset/table"
)

/*
ReadTable takes an io.Reader for a CSV stream and a slice of columns and
returns a table with those columns and a row for each record on the stream
or an error.

The header or first row of the CSV content is expected to name every given
column, in any order. Header entries naming no given column are ignored.
The rest of the rows should consist of valid values for the columns and/or
the '?' string to indicate an undefined value.
*/
func ReadTable(reader io.Reader, columns []table.Column) (*table.Table, error) {
	t := table.New(columns)
	err := ReadRows(reader, columns, func(_ int, row []float64) (bool, error) {
		return true, t.Append(row)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

/*
ReadRows takes an io.Reader for a CSV stream, a slice of columns and a
lambda function on an integer and a row of cells that returns a boolean
value. It parses the rows from the reader and for each it calls the lambda
function with its index and cells, ordered as the given columns. If the
lambda function returns true, it will continue processing the next row,
otherwise it will stop. An error is returned if something goes wrong when
reading the stream or parsing a row.
*/
func ReadRows(reader io.Reader, columns []table.Column, lambda func(int, []float64) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	positions, err := parseHeader(header, columns)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		row := make([]float64, len(columns))
		for i, c := range columns {
			row[i], err = c.Parse(record[positions[i]])
			if err != nil {
				return fmt.Errorf("parsing line %d: %v", l, err)
			}
		}
		ok, err := lambda(l-2, row)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadTableFromFilePath takes a filepath string and a slice of columns,
opens the file the filepath points to (os.Stdin if the filepath is "") and
uses ReadTable to return the table read from it or an error.
*/
func ReadTableFromFilePath(filepath string, columns []table.Column) (*table.Table, error) {
	f := os.Stdin
	if filepath != "" {
		var err error
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("opening CSV file: %v", err)
		}
		defer f.Close()
	}
	t, err := ReadTable(f, columns)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return t, err
}

// WriteTable takes an io.Writer and a table and dumps the table on the
// writer in CSV format, header included.
func WriteTable(writer io.Writer, t *table.Table) error {
	w := csv.NewWriter(writer)
	record := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		record[i] = c.Name
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("writing CSV header: %v", err)
	}
	for r, row := range t.Rows {
		for i, c := range t.Columns {
			record[i] = c.Format(row[i])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %d: %v", r+1, err)
		}
	}
	w.Flush()
	return w.Error()
}

func parseHeader(header []string, columns []table.Column) ([]int, error) {
	positions := make([]int, len(columns))
	for i, c := range columns {
		positions[i] = -1
		for j, name := range header {
			if name == c.Name {
				positions[i] = j
				break
			}
		}
		if positions[i] < 0 {
			return nil, fmt.Errorf("parsing header: column %s not found", c.Name)
		}
	}
	return positions, nil
}
