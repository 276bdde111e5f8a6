package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pbanos/grove/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

/*
Histogram represents the class distribution of a set of labeled examples:
the number of examples per class and their total.
Class labels are identified by their default string formatting.
*/
type Histogram struct {
	Classes map[string]int
	Total   int
}

/*
NewHistogram takes a slice of labels and returns a Histogram counting them.
*/
func NewHistogram(labels []dataset.Label) *Histogram {
	h := &Histogram{Classes: make(map[string]int)}
	for _, l := range labels {
		h.Classes[ClassOf(l)]++
		h.Total++
	}
	return h
}

// ClassOf returns the class identifier of a label.
func ClassOf(l dataset.Label) string {
	if s, ok := l.(string); ok {
		return s
	}
	return fmt.Sprint(l)
}

// Keys returns the classes of the histogram in increasing order.
func (h *Histogram) Keys() []string {
	keys := make([]string, 0, len(h.Classes))
	for k := range h.Classes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

/*
Probabilities returns the relative frequency of each class in the histogram,
in the order returned by Keys.
*/
func (h *Histogram) Probabilities() []float64 {
	keys := h.Keys()
	p := make([]float64, len(keys))
	for i, k := range keys {
		p[i] = float64(h.Classes[k])
	}
	if h.Total > 0 {
		floats.Scale(1/float64(h.Total), p)
	}
	return p
}

/*
ProbabilityOf takes a class and returns its relative frequency in the
histogram.
*/
func (h *Histogram) ProbabilityOf(class string) float64 {
	if h.Total == 0 {
		return 0
	}
	return float64(h.Classes[class]) / float64(h.Total)
}

/*
PredictedValue returns the most frequent class and its relative frequency.
Ties are resolved in favor of the smallest class in Keys order.
*/
func (h *Histogram) PredictedValue() (value string, prob float64) {
	for _, k := range h.Keys() {
		if p := h.ProbabilityOf(k); p > prob {
			value = k
			prob = p
		}
	}
	return
}

func (h *Histogram) String() string {
	parts := make([]string, 0, len(h.Classes))
	for _, k := range h.Keys() {
		parts = append(parts, fmt.Sprintf("%s:%d", k, h.Classes[k]))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}

type impurity func(p []float64) float64

type classifier struct {
	impurity impurity
}

/*
Entropy returns an Estimator for classification that scores splits by
their information gain (in nats) and summarizes leaves as Histograms.
*/
func Entropy() Estimator {
	return &classifier{stat.Entropy}
}

/*
Gini returns an Estimator for classification that scores splits by the
decrease of Gini impurity and summarizes leaves as Histograms.
*/
func Gini() Estimator {
	return &classifier{gini}
}

func gini(p []float64) float64 {
	result := 1.0
	for _, v := range p {
		result -= v * v
	}
	return result
}

func (c *classifier) NodeStatistics(examples []dataset.Example, labels []dataset.Label) Stats {
	return NewHistogram(labels)
}

func (c *classifier) SplitQuality(le []dataset.Example, ll []dataset.Label, re []dataset.Example, rl []dataset.Label) float64 {
	if len(ll)+len(rl) == 0 {
		return math.NaN()
	}
	left := NewHistogram(ll)
	right := NewHistogram(rl)
	parent := &Histogram{Classes: make(map[string]int), Total: left.Total + right.Total}
	for k, v := range left.Classes {
		parent.Classes[k] += v
	}
	for k, v := range right.Classes {
		parent.Classes[k] += v
	}
	return weightedGain(
		c.impurity(parent.Probabilities()),
		c.impurity(left.Probabilities()),
		c.impurity(right.Probabilities()),
		left.Total, right.Total,
	)
}
