package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGeneration(t *testing.T) {
	c := NewCollector("test")

	c.ObserveGeneration(OutcomeOK, time.Second, 3, 1)
	c.ObserveGeneration(OutcomeMalformed, time.Second, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Generations.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Generations.WithLabelValues(OutcomeMalformed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.ShapesGenerated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ShapesDropped))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveGeneration(OutcomeOK, time.Second, 1, 0)
		c.ObserveSave()
		c.ObserveHTTP("GET", "/health", "200", time.Millisecond)
	})
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("test")
	b := NewCollector("test")

	a.ObserveSave()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.CanvasesSaved))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CanvasesSaved))
}
