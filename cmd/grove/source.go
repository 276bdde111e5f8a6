package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/csv"
	"github.com/pbanos/grove/dataset/mongocorpus"
	"github.com/pbanos/grove/dataset/sqlcorpus"
	"github.com/pbanos/grove/dataset/sqlcorpus/pgadapter"
	"github.com/pbanos/grove/dataset/sqlcorpus/sqlite3adapter"
	"github.com/pbanos/grove/dataset/table"
	mgo "gopkg.in/mgo.v2"
)

/*
source is the location of a table corpus: a PostgreSQL DB connection URL,
a MongoDB connection URL, a SQLite3 (.db) file or otherwise a CSV file.
The empty source stands for STDIN when reading and STDOUT when writing,
in CSV format.
*/
type source string

func (s source) isPostgreSQL() bool {
	return strings.HasPrefix(string(s), "postgresql://") || strings.HasPrefix(string(s), "postgres://")
}

func (s source) isMongoDB() bool {
	return strings.HasPrefix(string(s), "mongodb://")
}

func (s source) isSQLite3() bool {
	return strings.HasSuffix(string(s), ".db")
}

func (s source) String() string {
	if s == "" {
		return "STDIN/STDOUT"
	}
	return string(s)
}

// adapter returns the SQL adapter for the source, or nil if the source is
// not a SQL database.
func (s source) adapter() (sqlcorpus.Adapter, error) {
	switch {
	case s.isPostgreSQL():
		log.Debugf("creating PostgreSQL adapter for url %s", s)
		return pgadapter.New(string(s))
	case s.isSQLite3():
		log.Debugf("creating SQLite3 adapter for file %s", s)
		return sqlite3adapter.New(string(s))
	}
	return nil, nil
}

func (s source) mongoCorpus(columns []table.Column) (*mongocorpus.Corpus, func(), error) {
	log.Debugf("dialing MongoDB at %s", s)
	session, err := mgo.Dial(string(s))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %v", s, err)
	}
	c, err := mongocorpus.Open(session, columns)
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	return c, session.Close, nil
}

// ReadTable reads every sample on the source into a table with the given
// columns.
func (s source) ReadTable(ctx context.Context, columns []table.Column) (*table.Table, error) {
	if s.isMongoDB() {
		c, closer, err := s.mongoCorpus(columns)
		if err != nil {
			return nil, err
		}
		defer closer()
		return c.ReadTable(ctx)
	}
	a, err := s.adapter()
	if err != nil {
		return nil, err
	}
	if a != nil {
		defer a.Close()
		return sqlcorpus.ReadTable(ctx, a, columns)
	}
	return csv.ReadTableFromFilePath(string(s), columns)
}

// WriteTable stores the rows of the table as samples on the source.
func (s source) WriteTable(ctx context.Context, t *table.Table) error {
	if s.isMongoDB() {
		c, closer, err := s.mongoCorpus(t.Columns)
		if err != nil {
			return err
		}
		defer closer()
		_, err = c.Write(ctx, t)
		return err
	}
	a, err := s.adapter()
	if err != nil {
		return err
	}
	if a != nil {
		defer a.Close()
		return sqlcorpus.Write(ctx, a, t)
	}
	f := os.Stdout
	if s != "" {
		f, err = os.Create(string(s))
		if err != nil {
			return err
		}
		defer f.Close()
	}
	return csv.WriteTable(f, t)
}

/*
Provider returns a dataset.Provider that draws the training set of every
tree from the source according to the given sampling, and a function to
release the source once training is done. Database sources load only the
drawn samples of every tree, CSV sources are read once and resampled in
memory.
*/
func (s source) Provider(ctx context.Context, columns []table.Column, label string, sampling dataset.Sampling) (dataset.Provider, func(), error) {
	if s.isMongoDB() {
		c, closer, err := s.mongoCorpus(columns)
		if err != nil {
			return nil, nil, err
		}
		p, err := c.Provider(label, sampling)
		if err != nil {
			closer()
			return nil, nil, err
		}
		return p, closer, nil
	}
	a, err := s.adapter()
	if err != nil {
		return nil, nil, err
	}
	if a != nil {
		p, err := sqlcorpus.NewProvider(a, columns, label, sampling)
		if err != nil {
			a.Close()
			return nil, nil, err
		}
		return p, func() { a.Close() }, nil
	}
	t, err := s.ReadTable(ctx, columns)
	if err != nil {
		return nil, nil, err
	}
	ts, err := t.TrainingSet(label)
	if err != nil {
		return nil, nil, err
	}
	p, err := dataset.Resample(ts, sampling)
	if err != nil {
		return nil, nil, err
	}
	return p, func() {}, nil
}

// TrainingSet reads every sample on the source and returns them as a
// training set labeled with the given column.
func (s source) TrainingSet(ctx context.Context, columns []table.Column, label string) (*dataset.TrainingSet, error) {
	t, err := s.ReadTable(ctx, columns)
	if err != nil {
		return nil, fmt.Errorf("reading samples from %s: %v", s, err)
	}
	return t.TrainingSet(label)
}
