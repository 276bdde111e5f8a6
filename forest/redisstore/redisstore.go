/*
Package redisstore persists forests in a redis DB. Every tree of a forest
is stored encoded under its own key, and the number of trees under the
forest key:

  prefix:forestID:trees  -> number of trees
  prefix:forestID:tree:i -> encoded i-th tree
*/
package redisstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/pbanos/grove/forest"
	"gopkg.in/redis.v5"
)

/*
TreeEncodeDecoder is an interface for objects
that allow encoding trees into slices of
bytes and decoding them back to trees.
*/
type TreeEncodeDecoder interface {
	Encode(*forest.Tree) ([]byte, error)
	Decode([]byte) (*forest.Tree, error)
}

// Error represents an error related with the store
type Error string

// ErrNotFound is the error returned when a forest is not in the store.
const ErrNotFound = Error("forest not found")

func (e Error) Error() string {
	return string(e)
}

/*
Store is the interface for forest stores.

Save takes a context and a forest, stores it under a new ID and returns
the ID.

Get takes a context and an ID and returns the forest stored under it or an
error wrapping ErrNotFound if there is none.

Delete takes a context and an ID and removes the forest stored under it.
*/
type Store interface {
	Save(context.Context, *forest.Forest) (string, error)
	Get(context.Context, string) (*forest.Forest, error)
	Delete(context.Context, string) error
}

type redisStore struct {
	rc      *redis.Client
	prefix  string
	tencdec TreeEncodeDecoder
}

// New builds a Store backed by a redis DB
func New(rc *redis.Client, prefix string, tencdec TreeEncodeDecoder) Store {
	return &redisStore{rc, prefix, tencdec}
}

func (rs *redisStore) Save(ctx context.Context, f *forest.Forest) (string, error) {
	trees := make([][]byte, f.Size())
	for i, t := range f.Trees {
		data, err := rs.tencdec.Encode(t)
		if err != nil {
			return "", fmt.Errorf("saving forest: encoding tree %d: %v", i, err)
		}
		trees[i] = data
	}
	var id string
	for ok := false; !ok; {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		id = uuid.New().String()
		var err error
		ok, err = rs.rc.SetNX(rs.countKeyFor(id), len(trees), 0).Result()
		if err != nil {
			return "", fmt.Errorf("saving forest in redis: %v", err)
		}
	}
	_, err := rs.rc.TxPipelined(func(pipe *redis.Pipeline) error {
		for i, data := range trees {
			pipe.Set(rs.treeKeyFor(id, i), data, 0)
		}
		return nil
	})
	if err != nil {
		rs.Delete(ctx, id)
		return "", fmt.Errorf("saving forest %q in redis: %v", id, err)
	}
	return id, nil
}

func (rs *redisStore) Get(ctx context.Context, id string) (*forest.Forest, error) {
	count, err := rs.count(id)
	if err != nil {
		return nil, err
	}
	trees := make([]*forest.Tree, count)
	for i := range trees {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		key := rs.treeKeyFor(id, i)
		data, err := rs.rc.Get(key).Bytes()
		if err == redis.Nil {
			return nil, fmt.Errorf("retrieving forest %q: tree %d: %w", id, i, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("retrieving tree %q: %v", key, err)
		}
		trees[i], err = rs.tencdec.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("retrieving tree %q: decoding: %v", key, err)
		}
	}
	return forest.New(trees), nil
}

func (rs *redisStore) Delete(ctx context.Context, id string) error {
	count, err := rs.count(id)
	if err != nil {
		return err
	}
	keys := []string{rs.countKeyFor(id)}
	for i := 0; i < count; i++ {
		keys = append(keys, rs.treeKeyFor(id, i))
	}
	_, err = rs.rc.Del(keys...).Result()
	if err != nil {
		return fmt.Errorf("deleting forest %q from redis: %v", id, err)
	}
	return nil
}

func (rs *redisStore) count(id string) (int, error) {
	data, err := rs.rc.Get(rs.countKeyFor(id)).Result()
	if err == redis.Nil {
		return 0, fmt.Errorf("forest %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("retrieving forest %q: %v", id, err)
	}
	count, err := strconv.Atoi(data)
	if err != nil || count < 0 {
		return 0, fmt.Errorf("retrieving forest %q: invalid number of trees %q", id, data)
	}
	return count, nil
}

func (rs *redisStore) countKeyFor(id string) string {
	return fmt.Sprintf("%s:%s:trees", rs.prefix, id)
}

func (rs *redisStore) treeKeyFor(id string, i int) string {
	return fmt.Sprintf("%s:%s:tree:%d", rs.prefix, id, i)
}
