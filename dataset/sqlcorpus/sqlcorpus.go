/*
Package sqlcorpus provides table corpora stored on SQL databases and a
dataset.Provider that loads the training set of every tree from them.

Samples are stored on a samples table, one row per sample, with an
autoincremented id. Database specifics live on adapter implementations
such as the ones in the sqlite3adapter and pgadapter packages.
*/
package sqlcorpus

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/table"
)

/*
Write takes a context, an Adapter and a table and stores the rows of the
table as samples on the adapter's database, creating the samples table if
it does not exist. It returns an error if the table or the samples cannot
be created.
*/
func Write(ctx context.Context, a Adapter, t *table.Table) error {
	err := a.CreateSampleTable(ctx, t.Columns)
	if err != nil {
		return err
	}
	_, err = a.AddSamples(ctx, t.Columns, t.Rows)
	return err
}

/*
ReadTable takes a context, an Adapter and a slice of columns and returns a
table with every sample stored on the adapter's database.
*/
func ReadTable(ctx context.Context, a Adapter, columns []table.Column) (*table.Table, error) {
	t := table.New(columns)
	err := a.IterateOnSamples(ctx, nil, columns, func(_ int64, row []float64) (bool, error) {
		return true, t.Append(row)
	})
	if err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	return t, nil
}

type provider struct {
	adapter  Adapter
	columns  []table.Column
	label    int
	sampling dataset.Sampling
}

/*
NewProvider takes an Adapter, the columns of the stored samples, the name
of the label column and a dataset.Sampling and returns a dataset.Provider that,
for every tree, draws sample ids with the tree's random stream and loads
only the drawn samples into a fresh table corpus. Examples of the training
set are row indices on that table, repeated for samples drawn more than
once, and samples with an undefined label are left out.
An error is returned if the label column is not among the columns or the
sampling fraction is not in (0, 1].
*/
func NewProvider(a Adapter, columns []table.Column, label string, s dataset.Sampling) (dataset.Provider, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	li := table.New(columns).Index(label)
	if li < 0 {
		return nil, fmt.Errorf("label column %q is not defined", label)
	}
	return &provider{a, columns, li, s}, nil
}

func (p *provider) TrainingSet(ctx context.Context, tree int, rng *rand.Rand) (*dataset.TrainingSet, error) {
	ids, err := p.adapter.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sample ids: %v", err)
	}
	drawn := p.draw(ids, rng)
	distinct := make([]int64, 0, len(drawn))
	seen := make(map[int64]bool, len(drawn))
	for _, id := range drawn {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}
	t := table.New(p.columns)
	rowFor := make(map[int64]int, len(distinct))
	err = p.adapter.IterateOnSamples(ctx, distinct, p.columns, func(id int64, row []float64) (bool, error) {
		rowFor[id] = t.Len()
		return true, t.Append(row)
	})
	if err != nil {
		return nil, fmt.Errorf("loading samples for tree %d: %v", tree, err)
	}
	ts := dataset.New(t, nil, nil)
	for _, id := range drawn {
		r, ok := rowFor[id]
		if !ok {
			return nil, fmt.Errorf("loading samples for tree %d: sample %d not found", tree, id)
		}
		if math.IsNaN(t.Value(r, p.label)) {
			continue
		}
		ts.Examples = append(ts.Examples, r)
		ts.Labels = append(ts.Labels, t.Label(r, p.label))
	}
	return ts, nil
}

func (p *provider) draw(ids []int64, rng *rand.Rand) []int64 {
	positions := p.sampling.Draw(len(ids), rng)
	drawn := make([]int64, len(positions))
	for i, j := range positions {
		drawn[i] = ids[j]
	}
	return drawn
}
