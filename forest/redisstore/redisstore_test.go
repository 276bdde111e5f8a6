package redisstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/pbanos/grove/dataset/table"
	featurejson "github.com/pbanos/grove/feature/json"
	"github.com/pbanos/grove/feature/column"
	"github.com/pbanos/grove/forest"
	forestjson "github.com/pbanos/grove/forest/json"
	"github.com/pbanos/grove/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/redis.v5"
)

func newStore(t *testing.T) (Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })
	columns := []table.Column{{Name: "x"}}
	ted := forestjson.NewTreeEncodeDecoder(featurejson.NewEncodeDecoder(columns), forestjson.NewStatsEncodeDecoder())
	return New(rc, "grove", ted), mr
}

func testForest() *forest.Forest {
	stump := &forest.Tree{Nodes: []forest.Node{
		{Feature: &column.Column{Index: 0, Header: "x"}, Threshold: 0.5, Left: 1, Right: 2, Count: 2},
		{Depth: 1, Count: 1, Stats: &stats.Histogram{Classes: map[string]int{"a": 1}, Total: 1}},
		{Depth: 1, Count: 1, Stats: &stats.Histogram{Classes: map[string]int{"b": 1}, Total: 1}},
	}}
	leaf := &forest.Tree{Nodes: []forest.Node{
		{Count: 2, Stats: &stats.Histogram{Classes: map[string]int{"a": 1, "b": 1}, Total: 2}},
	}}
	return forest.New([]*forest.Tree{stump, leaf})
}

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)
	f := testForest()
	id, err := s.Save(ctx, f)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	count, err := mr.Get("grove:" + id + ":trees")
	require.NoError(t, err)
	assert.Equal(t, "2", count)
	assert.True(t, mr.Exists("grove:"+id+":tree:1"))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("retrieved forest differs (-want +got):\n%s", diff)
	}

	require.NoError(t, s.Delete(ctx, id))
	assert.Empty(t, mr.Keys())
	_, err = s.Get(ctx, id)
	assert.True(t, errors.Is(err, ErrNotFound), err)
}

func TestSaveUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	id1, err := s.Save(ctx, testForest())
	require.NoError(t, err)
	id2, err := s.Save(ctx, testForest())
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestGetErrors(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)
	_, err := s.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound), err)

	require.NoError(t, mr.Set("grove:partial:trees", "2"))
	require.NoError(t, mr.Set("grove:partial:tree:0", `{"nodes":[{"d":0,"n":1,"s":{"k":"histogram","h":{"a":1},"n":1}}]}`))
	_, err = s.Get(ctx, "partial")
	assert.True(t, errors.Is(err, ErrNotFound), err)

	require.NoError(t, mr.Set("grove:bad:trees", "x"))
	_, err = s.Get(ctx, "bad")
	assert.Error(t, err)

	require.NoError(t, mr.Set("grove:garbled:trees", "1"))
	require.NoError(t, mr.Set("grove:garbled:tree:0", "{"))
	_, err = s.Get(ctx, "garbled")
	assert.Error(t, err)
}

func TestSaveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, mr := newStore(t)
	_, err := s.Save(ctx, testForest())
	assert.Equal(t, context.Canceled, err)
	assert.Empty(t, mr.Keys())
}
