package sqlite3adapter

import (
	"database/sql"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbanos/grove/dataset/sqlcorpus"
)

type dialect struct{}

func (dialect) Placeholder(int) string {
	return "?"
}

func (dialect) IDColumn() string {
	return `"id" INTEGER PRIMARY KEY AUTOINCREMENT`
}

func (dialect) ContinuousType() string {
	return "REAL"
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqlcorpus.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return sqlcorpus.NewAdapter(db, dialect{}), nil
}
