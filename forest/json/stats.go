package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/grove/stats"
)

/*
StatsEncodeDecoder is an interface for objects
that allow encoding leaf statistics into slices of
bytes and decoding them back to statistics.
*/
type StatsEncodeDecoder interface {
	Encode(stats.Stats) ([]byte, error)
	Decode([]byte) (stats.Stats, error)
}

const (
	histogram = "histogram"
	moments   = "moments"
)

type statsEncodeDecoder struct{}

type jsonStats struct {
	Kind     string         `json:"k"`
	Classes  map[string]int `json:"h,omitempty"`
	Count    int            `json:"n"`
	Mean     []float64      `json:"m,omitempty"`
	Variance []float64      `json:"v,omitempty"`
}

/*
NewStatsEncodeDecoder returns a StatsEncodeDecoder for the statistics of
the default estimators. *stats.Histogram values are encoded as an object
with the class counts under "h" and the total under "n", and *stats.Moments
values as an object with the count under "n" and the per-dimension means
and variances under "m" and "v". The kind of statistics is stored under
"k" as "histogram" or "moments".
*/
func NewStatsEncodeDecoder() StatsEncodeDecoder {
	return statsEncodeDecoder{}
}

func (statsEncodeDecoder) Encode(s stats.Stats) ([]byte, error) {
	switch s := s.(type) {
	case *stats.Histogram:
		if s == nil {
			return nil, fmt.Errorf("nil histogram")
		}
		return json.Marshal(&jsonStats{Kind: histogram, Classes: s.Classes, Count: s.Total})
	case *stats.Moments:
		if s == nil {
			return nil, fmt.Errorf("nil moments")
		}
		return json.Marshal(&jsonStats{Kind: moments, Count: s.Count, Mean: s.Mean, Variance: s.Variance})
	default:
		return nil, fmt.Errorf("unknown type of stats.Stats %T", s)
	}
}

func (statsEncodeDecoder) Decode(data []byte) (stats.Stats, error) {
	js := &jsonStats{}
	err := json.Unmarshal(data, js)
	if err != nil {
		return nil, err
	}
	switch js.Kind {
	case histogram:
		classes := js.Classes
		if classes == nil {
			classes = map[string]int{}
		}
		return &stats.Histogram{Classes: classes, Total: js.Count}, nil
	case moments:
		if len(js.Mean) != len(js.Variance) {
			return nil, fmt.Errorf("moments with %d means and %d variances", len(js.Mean), len(js.Variance))
		}
		return &stats.Moments{Count: js.Count, Mean: js.Mean, Variance: js.Variance}, nil
	}
	return nil, fmt.Errorf("unknown kind of statistics '%s'", js.Kind)
}
