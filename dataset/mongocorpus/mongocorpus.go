/*
Package mongocorpus provides table corpora stored on a MongoDB collection
and a dataset.Provider that loads the training set of every tree from it.
Every sample is a document of the samples collection with a field per
defined cell: discrete cells hold their value as a string and continuous
cells their number.
*/
package mongocorpus

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/table"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	samplesCollectionName = "samples"
	// MaxIDsPerQuery is the maximum number of sample ids requested with
	// a single query when loading drawn samples.
	MaxIDsPerQuery = 1000
)

// Corpus is a collection of samples on a MongoDB database.
type Corpus struct {
	session *mgo.Session
	columns []table.Column
}

/*
Open takes a MongoDB database session and a slice of columns and returns a
Corpus that works on the default database for that session or an error if
a column name cannot be used as a document field.
*/
func Open(session *mgo.Session, columns []table.Column) (*Corpus, error) {
	for _, c := range columns {
		if c.Name == "_id" {
			return nil, fmt.Errorf("invalid column name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(c.Name, ".$") {
			return nil, fmt.Errorf("invalid column name %q: contains reserved characters %q or %q", c.Name, ".", "$")
		}
	}
	return &Corpus{session, columns}, nil
}

/*
Write takes a context and a table with the corpus columns and inserts a
document per row on the samples collection. It returns the number of
inserted documents or an error.
*/
func (c *Corpus) Write(ctx context.Context, t *table.Table) (int, error) {
	docs := make([]interface{}, 0, t.Len())
	for _, row := range t.Rows {
		doc := make(bson.M)
		for i, col := range c.columns {
			j := t.Index(col.Name)
			if j < 0 {
				return 0, fmt.Errorf("writing samples: table has no column %q", col.Name)
			}
			v := row[j]
			if math.IsNaN(v) {
				continue
			}
			if c.columns[i].Discrete() {
				doc[col.Name] = col.Format(v)
			} else {
				doc[col.Name] = v
			}
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err := c.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, fmt.Errorf("writing samples: %v", err)
	}
	return len(docs), nil
}

// ReadTable takes a context and returns a table with every sample of the
// corpus.
func (c *Corpus) ReadTable(ctx context.Context) (*table.Table, error) {
	t := table.New(c.columns)
	err := c.iterate(ctx, c.samplesCollection().Find(nil).Sort("_id"), func(_ bson.ObjectId, row []float64) error {
		return t.Append(row)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Count returns the number of samples in the corpus.
func (c *Corpus) Count(ctx context.Context) (int, error) {
	return c.samplesCollection().Find(nil).Count()
}

/*
Provider takes the name of the label column and a dataset.Sampling and
returns a dataset.Provider that, for every tree, draws sample ids with the
tree's random stream and loads only the drawn samples into a fresh table
corpus. Examples of the training set are row indices on that table,
repeated for samples drawn more than once, and samples with an undefined
label are left out.
*/
func (c *Corpus) Provider(label string, s dataset.Sampling) (dataset.Provider, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	li := table.New(c.columns).Index(label)
	if li < 0 {
		return nil, fmt.Errorf("label column %q is not defined", label)
	}
	return dataset.ProviderFunc(func(ctx context.Context, tree int, rng *rand.Rand) (*dataset.TrainingSet, error) {
		ids, err := c.ids(ctx)
		if err != nil {
			return nil, err
		}
		positions := s.Draw(len(ids), rng)
		var distinct []bson.ObjectId
		seen := make(map[bson.ObjectId]bool, len(positions))
		for _, p := range positions {
			if !seen[ids[p]] {
				seen[ids[p]] = true
				distinct = append(distinct, ids[p])
			}
		}
		t := table.New(c.columns)
		rowFor := make(map[bson.ObjectId]int, len(distinct))
		for start := 0; start < len(distinct); start += MaxIDsPerQuery {
			end := start + MaxIDsPerQuery
			if end > len(distinct) {
				end = len(distinct)
			}
			q := c.samplesCollection().Find(bson.M{"_id": bson.M{"$in": distinct[start:end]}}).Sort("_id")
			err = c.iterate(ctx, q, func(id bson.ObjectId, row []float64) error {
				rowFor[id] = t.Len()
				return t.Append(row)
			})
			if err != nil {
				return nil, fmt.Errorf("loading samples for tree %d: %v", tree, err)
			}
		}
		ts := dataset.New(t, nil, nil)
		for _, p := range positions {
			r, ok := rowFor[ids[p]]
			if !ok {
				return nil, fmt.Errorf("loading samples for tree %d: sample %s not found", tree, ids[p].Hex())
			}
			if math.IsNaN(t.Value(r, li)) {
				continue
			}
			ts.Examples = append(ts.Examples, r)
			ts.Labels = append(ts.Labels, t.Label(r, li))
		}
		return ts, nil
	}), nil
}

func (c *Corpus) ids(ctx context.Context) ([]bson.ObjectId, error) {
	iter := c.samplesCollection().Find(nil).Select(bson.M{"_id": 1}).Sort("_id").Iter()
	defer iter.Close()
	var doc struct {
		ID bson.ObjectId `bson:"_id"`
	}
	var result []bson.ObjectId
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result = append(result, doc.ID)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("listing sample ids: %v", err)
	}
	return result, nil
}

func (c *Corpus) iterate(ctx context.Context, q *mgo.Query, lambda func(bson.ObjectId, []float64) error) error {
	iter := q.Iter()
	defer iter.Close()
	var doc bson.M
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			return err
		}
		id, _ := doc["_id"].(bson.ObjectId)
		row, err := c.Row(doc)
		if err != nil {
			return fmt.Errorf("sample %s: %v", id.Hex(), err)
		}
		if err = lambda(id, row); err != nil {
			return err
		}
		doc = nil
	}
	return iter.Err()
}

/*
Row takes a sample document and returns its cells for the corpus columns.
Missing and null fields are undefined cells. An error is returned if a
field holds a value that is not valid for its column.
*/
func (c *Corpus) Row(doc bson.M) ([]float64, error) {
	row := make([]float64, len(c.columns))
	for i, col := range c.columns {
		row[i] = math.NaN()
		v, ok := doc[col.Name]
		if !ok || v == nil {
			continue
		}
		var err error
		switch n := v.(type) {
		case float64:
			row[i] = n
		case int:
			row[i] = float64(n)
		case int64:
			row[i] = float64(n)
		default:
			row[i], err = col.Parse(fmt.Sprintf("%v", v))
		}
		if col.Discrete() {
			row[i], err = col.Parse(fmt.Sprintf("%v", v))
		}
		if err != nil {
			return nil, err
		}
	}
	return row, nil
}

func (c *Corpus) samplesCollection() *mgo.Collection {
	return c.session.DB("").C(samplesCollectionName)
}
