package pgadapter

import (
	"database/sql"
	"fmt"

	// Import of postgresql driver
	_ "github.com/lib/pq"
	"github.com/pbanos/grove/dataset/sqlcorpus"
)

type dialect struct{}

func (dialect) Placeholder(i int) string {
	return fmt.Sprintf("$%d", i+1)
}

func (dialect) IDColumn() string {
	return `"id" BIGSERIAL PRIMARY KEY`
}

func (dialect) ContinuousType() string {
	return "DOUBLE PRECISION"
}

/*
New takes a PostgreSQL connection URL and returns an Adapter that works on
the database it points to or an error if the URL cannot be used to open it.
*/
func New(url string) (sqlcorpus.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgresql: %v", err)
	}
	return sqlcorpus.NewAdapter(db, dialect{}), nil
}
