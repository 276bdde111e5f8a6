/*
Package metrics provides the Prometheus collectors a forest trainer
reports its progress to.
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of forest trainings. A nil *Metrics
// discards every observation.
type Metrics struct {
	TreesTrained prometheus.Counter
	TreeDuration prometheus.Histogram
	Nodes        *prometheus.CounterVec
	Shortfalls   *prometheus.CounterVec
	Trainings    *prometheus.CounterVec
}

/*
New takes a prometheus.Registerer and returns Metrics whose collectors are
registered on it. It returns an error if any of the collectors cannot be
registered.
*/
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		TreesTrained: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grove_trees_trained_total",
			Help: "Total number of trees trained",
		}),
		TreeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grove_tree_duration_seconds",
			Help:    "Duration of tree trainings, including the provider call",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		Nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grove_nodes_total",
			Help: "Total number of tree nodes built by kind",
		}, []string{"kind"}),
		Shortfalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grove_capability_shortfalls_total",
			Help: "Total number of nodes turned into leaves because of a capability shortfall by reason",
		}, []string{"reason"}),
		Trainings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grove_trainings_total",
			Help: "Total number of forest trainings by result",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{m.TreesTrained, m.TreeDuration, m.Nodes, m.Shortfalls, m.Trainings} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// TreeTrained records a tree trained in the given duration.
func (m *Metrics) TreeTrained(d time.Duration) {
	if m == nil {
		return
	}
	m.TreesTrained.Inc()
	m.TreeDuration.Observe(d.Seconds())
}

// NodeBuilt records a node built, either a leaf or a split.
func (m *Metrics) NodeBuilt(leaf bool) {
	if m == nil {
		return
	}
	kind := "split"
	if leaf {
		kind = "leaf"
	}
	m.Nodes.WithLabelValues(kind).Inc()
}

// Shortfall records a capability shortfall for the given reason.
func (m *Metrics) Shortfall(reason string) {
	if m == nil {
		return
	}
	m.Shortfalls.WithLabelValues(reason).Inc()
}

// Training records the result of a training.
func (m *Metrics) Training(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.Trainings.WithLabelValues(result).Inc()
}
