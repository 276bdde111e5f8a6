package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.TreeTrained(time.Millisecond)
	m.TreeTrained(time.Second)
	m.NodeBuilt(true)
	m.NodeBuilt(true)
	m.NodeBuilt(false)
	m.Shortfall("no candidates")
	m.Training(nil)
	m.Training(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TreesTrained))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Nodes.WithLabelValues("leaf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Nodes.WithLabelValues("split")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Shortfalls.WithLabelValues("no candidates")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Trainings.WithLabelValues("failure")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TreeDuration))
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TreeTrained(time.Second)
		m.NodeBuilt(true)
		m.Shortfall("x")
		m.Training(nil)
	})
}
