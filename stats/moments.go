package stats

import (
	"fmt"
	"math"

	"github.com/pbanos/grove/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

/*
Moments represents the distribution of the numeric targets of a set of
examples: their number and the mean and population variance of each
dimension of the targets.
*/
type Moments struct {
	Count    int
	Mean     []float64
	Variance []float64
}

func (m *Moments) String() string {
	return fmt.Sprintf("[n:%d mean:%v var:%v]", m.Count, m.Mean, m.Variance)
}

/*
Vector takes a label and returns it as a slice of float64: float64 and int
labels are vectors of one dimension and []float64 labels are returned as
they are. It returns false for any other kind of label.
*/
func Vector(l dataset.Label) ([]float64, bool) {
	switch v := l.(type) {
	case float64:
		return []float64{v}, true
	case float32:
		return []float64{float64(v)}, true
	case int:
		return []float64{float64(v)}, true
	case []float64:
		return v, true
	}
	return nil, false
}

/*
NewMoments takes a slice of labels and returns their Moments. It returns
an error if a label cannot be converted into a vector or its dimension
differs from that of the first label.
*/
func NewMoments(labels []dataset.Label) (*Moments, error) {
	m := &Moments{Count: len(labels)}
	if len(labels) == 0 {
		return m, nil
	}
	var columns [][]float64
	for i, l := range labels {
		v, ok := Vector(l)
		if !ok {
			return nil, fmt.Errorf("label %d: %T is not a numeric target", i, l)
		}
		if columns == nil {
			columns = make([][]float64, len(v))
		}
		if len(v) != len(columns) {
			return nil, fmt.Errorf("label %d: expected %d dimensions, got %d", i, len(columns), len(v))
		}
		for d, x := range v {
			columns[d] = append(columns[d], x)
		}
	}
	m.Mean = make([]float64, len(columns))
	m.Variance = make([]float64, len(columns))
	for d, c := range columns {
		m.Mean[d], m.Variance[d] = stat.PopMeanVariance(c, nil)
	}
	return m, nil
}

type regressor struct{}

/*
Variance returns an Estimator for regression over scalar or vector targets
that scores splits by the decrease of the sum of per-dimension variances
and summarizes leaves as Moments. Non numeric labels make splits unscorable
and leaves summarized with a nil *Moments.
*/
func Variance() Estimator {
	return regressor{}
}

func (regressor) NodeStatistics(examples []dataset.Example, labels []dataset.Label) Stats {
	m, err := NewMoments(labels)
	if err != nil {
		return (*Moments)(nil)
	}
	return m
}

func (regressor) SplitQuality(le []dataset.Example, ll []dataset.Label, re []dataset.Example, rl []dataset.Label) float64 {
	if len(ll)+len(rl) == 0 {
		return math.NaN()
	}
	all := make([]dataset.Label, 0, len(ll)+len(rl))
	all = append(all, ll...)
	all = append(all, rl...)
	parent, err := NewMoments(all)
	if err != nil {
		return math.NaN()
	}
	left, err := NewMoments(ll)
	if err != nil {
		return math.NaN()
	}
	right, err := NewMoments(rl)
	if err != nil {
		return math.NaN()
	}
	return weightedGain(
		floats.Sum(parent.Variance),
		floats.Sum(left.Variance),
		floats.Sum(right.Variance),
		left.Count, right.Count,
	)
}
