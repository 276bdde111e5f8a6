package sqlcorpus

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/pbanos/grove/dataset/table"
)

const (
	/*
		MaxCellsPerStatement is the maximum number of cells
		inserted with a single insert command by the AddSamples
		method of the adapter. Trying to add more will result in
		making more insertion commands
	*/
	MaxCellsPerStatement = 900
	/*
		MaxIDsPerQuery is the maximum number of sample ids
		requested with a single query by the IterateOnSamples
		method of the adapter. Requesting more will result in
		making more queries
	*/
	MaxIDsPerQuery = 500
)

/*
Adapter is an interface providing the methods
needed to use a database table as a corpus.
*/
type Adapter interface {
	ColumnName(string) (string, error)

	CreateSampleTable(ctx context.Context, columns []table.Column) error
	AddSamples(ctx context.Context, columns []table.Column, rows [][]float64) (int, error)

	ListIDs(ctx context.Context) ([]int64, error)
	CountSamples(ctx context.Context) (int, error)
	IterateOnSamples(ctx context.Context, ids []int64, columns []table.Column, lambda func(int64, []float64) (bool, error)) error

	Close() error
}

/*
Dialect is an interface for the details that differ between the SQL
databases an adapter may work on.
*/
type Dialect interface {
	// Placeholder returns the placeholder for the i-th (0-based) parameter
	// of a statement.
	Placeholder(i int) string
	// IDColumn returns the declaration of the autoincremented primary
	// key column.
	IDColumn() string
	// ContinuousType returns the column type for continuous cells.
	ContinuousType() string
}

type adapter struct {
	db *sql.DB
	Dialect
}

/*
NewAdapter takes a *sql.DB and a Dialect and returns an Adapter that
stores samples on the db's samples table, one row per sample with an
autoincremented "id" column and one column per table column: discrete
cells hold their value as text and continuous cells their number, with
NULL for undefined cells.
*/
func NewAdapter(db *sql.DB, d Dialect) Adapter {
	return &adapter{db, d}
}

func (a *adapter) ColumnName(name string) (string, error) {
	if name == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as column name`, name)
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`column name '%s' contains invalid character '"'`, name)
	}
	return name, nil
}

func (a *adapter) quotedColumns(columns []table.Column) (string, error) {
	names := make([]string, len(columns))
	for i, c := range columns {
		name, err := a.ColumnName(c.Name)
		if err != nil {
			return "", err
		}
		names[i] = name
	}
	return `"` + strings.Join(names, `", "`) + `"`, nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, columns []table.Column) error {
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString("CREATE TABLE IF NOT EXISTS samples(")
	for _, c := range columns {
		name, err := a.ColumnName(c.Name)
		if err != nil {
			return err
		}
		if c.Discrete() {
			createStmtBuf.WriteString(fmt.Sprintf(`"%s" TEXT NULL, `, name))
		} else {
			createStmtBuf.WriteString(fmt.Sprintf(`"%s" %s NULL, `, name, a.ContinuousType()))
		}
	}
	createStmtBuf.WriteString(a.IDColumn())
	createStmtBuf.WriteString(")")
	_, err := a.db.ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddSamples(ctx context.Context, columns []table.Column, rows [][]float64) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("no columns to store")
	}
	names, err := a.quotedColumns(columns)
	if err != nil {
		return 0, err
	}
	perStatement := MaxCellsPerStatement / len(columns)
	if perStatement == 0 {
		perStatement = 1
	}
	var added int
	for added < len(rows) {
		end := added + perStatement
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[added:end]
		var insertStmtBuf bytes.Buffer
		insertStmtBuf.WriteString(fmt.Sprintf("INSERT INTO samples (%s) VALUES ", names))
		values := make([]interface{}, 0, len(chunk)*len(columns))
		for r, row := range chunk {
			if len(row) != len(columns) {
				return added, fmt.Errorf("sample %d has %d cells for %d columns", added+r, len(row), len(columns))
			}
			if r > 0 {
				insertStmtBuf.WriteString(", ")
			}
			insertStmtBuf.WriteString("(")
			for i, c := range columns {
				if i > 0 {
					insertStmtBuf.WriteString(", ")
				}
				insertStmtBuf.WriteString(a.Placeholder(len(values)))
				values = append(values, cellValue(c, row[i]))
			}
			insertStmtBuf.WriteString(")")
		}
		_, err = a.db.ExecContext(ctx, insertStmtBuf.String(), values...)
		if err != nil {
			return added, fmt.Errorf("inserting samples %d to %d: %v", added, end, err)
		}
		added = end
	}
	return added, nil
}

func cellValue(c table.Column, v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	if c.Discrete() {
		return c.Format(v)
	}
	return v
}

func (a *adapter) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT "id" FROM samples ORDER BY "id"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []int64
	for rows.Next() {
		var id int64
		err = rows.Scan(&id)
		if err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, rows.Err()
}

func (a *adapter) CountSamples(ctx context.Context) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

/*
IterateOnSamples takes a context, a slice of sample ids, a slice of columns
and a lambda function and calls the lambda with the id and the cells of
every sample whose id is in the slice, or of every sample if the slice is
nil, in increasing id order. It stops when the lambda returns false or an
error.
*/
func (a *adapter) IterateOnSamples(ctx context.Context, ids []int64, columns []table.Column, lambda func(int64, []float64) (bool, error)) error {
	names, err := a.quotedColumns(columns)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`SELECT "id", %s FROM samples`, names)
	if ids == nil {
		_, err = a.iterate(ctx, query+` ORDER BY "id"`, nil, columns, lambda)
		return err
	}
	for start := 0; start < len(ids); start += MaxIDsPerQuery {
		end := start + MaxIDsPerQuery
		if end > len(ids) {
			end = len(ids)
		}
		placeholders := make([]string, 0, end-start)
		values := make([]interface{}, 0, end-start)
		for _, id := range ids[start:end] {
			placeholders = append(placeholders, a.Placeholder(len(values)))
			values = append(values, id)
		}
		q := fmt.Sprintf(`%s WHERE "id" IN (%s) ORDER BY "id"`, query, strings.Join(placeholders, ", "))
		ok, err := a.iterate(ctx, q, values, columns, lambda)
		if err != nil || !ok {
			return err
		}
	}
	return nil
}

func (a *adapter) iterate(ctx context.Context, query string, values []interface{}, columns []table.Column, lambda func(int64, []float64) (bool, error)) (bool, error) {
	rows, err := a.db.QueryContext(ctx, query, values...)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		discreteValues := make([]sql.NullString, len(columns))
		continuousValues := make([]sql.NullFloat64, len(columns))
		dest := make([]interface{}, 0, len(columns)+1)
		dest = append(dest, &id)
		for i, c := range columns {
			if c.Discrete() {
				dest = append(dest, &discreteValues[i])
			} else {
				dest = append(dest, &continuousValues[i])
			}
		}
		err = rows.Scan(dest...)
		if err != nil {
			return false, err
		}
		row := make([]float64, len(columns))
		for i, c := range columns {
			row[i] = math.NaN()
			if c.Discrete() && discreteValues[i].Valid {
				row[i], err = c.Parse(discreteValues[i].String)
				if err != nil {
					return false, fmt.Errorf("sample %d: %v", id, err)
				}
			}
			if !c.Discrete() && continuousValues[i].Valid {
				row[i] = continuousValues[i].Float64
			}
		}
		ok, err := lambda(id, row)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, rows.Err()
}

func (a *adapter) Close() error {
	return a.db.Close()
}
