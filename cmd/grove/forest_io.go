package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/grove/dataset/table"
	featurejson "github.com/pbanos/grove/feature/json"
	"github.com/pbanos/grove/forest"
	forestjson "github.com/pbanos/grove/forest/json"
	"github.com/pbanos/grove/forest/redisstore"
	"github.com/spf13/pflag"
	"gopkg.in/redis.v5"
)

const defaultRedisPrefix = "grove"

/*
forestLocation tells where a forest is read from or written to: a JSON
file (STDIN/STDOUT if empty) or, when a redis address is given, a redis
DB where the forest is identified by its ID.
*/
type forestLocation struct {
	path        string
	redisAddr   string
	redisPrefix string
}

func (fl *forestLocation) addFlags(fs *pflag.FlagSet, pathUsage string) {
	fs.StringVarP(&(fl.path), "forest", "f", "", pathUsage)
	fs.StringVar(&(fl.redisAddr), "redis", "", "address (host:port) of a redis DB where forests are stored, identified by the forest flag")
	fs.StringVar(&(fl.redisPrefix), "redis-prefix", defaultRedisPrefix, "prefix for the keys of forests stored on redis")
}

func treeEncodeDecoder(columns []table.Column) forestjson.TreeEncodeDecoder {
	return forestjson.NewTreeEncodeDecoder(featurejson.NewEncodeDecoder(columns), forestjson.NewStatsEncodeDecoder())
}

func (fl *forestLocation) store(columns []table.Column) (redisstore.Store, *redis.Client) {
	rc := redis.NewClient(&redis.Options{Addr: fl.redisAddr})
	return redisstore.New(rc, fl.redisPrefix, treeEncodeDecoder(columns)), rc
}

/*
Load takes a context and the columns the forest features refer to and
returns the forest at the location.
*/
func (fl *forestLocation) Load(ctx context.Context, columns []table.Column) (*forest.Forest, error) {
	if fl.redisAddr != "" {
		if fl.path == "" {
			return nil, fmt.Errorf("a forest ID is required to load a forest from redis")
		}
		s, rc := fl.store(columns)
		defer rc.Close()
		f, err := s.Get(ctx, fl.path)
		if err != nil {
			return nil, fmt.Errorf("loading forest %s from redis at %s: %w", fl.path, fl.redisAddr, err)
		}
		return f, nil
	}
	r := io.Reader(os.Stdin)
	if fl.path != "" {
		file, err := os.Open(fl.path)
		if err != nil {
			return nil, fmt.Errorf("reading forest in JSON from %s: %v", fl.path, err)
		}
		defer file.Close()
		r = file
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading forest in JSON: %v", err)
	}
	f, err := forestjson.NewEncodeDecoder(treeEncodeDecoder(columns)).Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing forest in JSON from %s: %v", fl.path, err)
	}
	return f, nil
}

/*
Save takes a context, the columns the forest features refer to and a
forest, and writes the forest to the location. It returns the ID of the
forest when it is stored on redis, and an empty string otherwise.
*/
func (fl *forestLocation) Save(ctx context.Context, columns []table.Column, f *forest.Forest) (string, error) {
	if fl.redisAddr != "" {
		s, rc := fl.store(columns)
		defer rc.Close()
		id, err := s.Save(ctx, f)
		if err != nil {
			return "", fmt.Errorf("storing forest on redis at %s: %v", fl.redisAddr, err)
		}
		return id, nil
	}
	data, err := forestjson.NewEncodeDecoder(treeEncodeDecoder(columns)).Encode(f)
	if err != nil {
		return "", fmt.Errorf("encoding forest in JSON: %v", err)
	}
	w := os.Stdout
	if fl.path != "" {
		w, err = os.Create(fl.path)
		if err != nil {
			return "", err
		}
		defer w.Close()
	}
	_, err = w.Write(append(data, '\n'))
	return "", err
}
