package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	m := New()

	assert.NotNil(t, m.Registry)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.DirectionsRequestsTotal)
	assert.NotNil(t, m.DirectionsDuration)
	assert.NotNil(t, m.CacheReadsTotal)
	assert.NotNil(t, m.BatchDuration)
	assert.NotNil(t, m.DBConnectionsTotal)
	assert.NotNil(t, m.DBConnectionsAcquired)
	assert.NotNil(t, m.DBConnectionsIdle)
	assert.NotNil(t, m.DBAcquireSecondsTotal)
}

func TestNewWithLogger(t *testing.T) {
	m := NewWithLogger(nil)
	assert.NotNil(t, m)
	assert.Nil(t, m.logger)
}

func TestDirectionsCounterLabels(t *testing.T) {
	m := New()

	m.DirectionsRequestsTotal.WithLabelValues("driving", "ok").Inc()
	m.DirectionsRequestsTotal.WithLabelValues("driving", "ok").Inc()
	m.DirectionsRequestsTotal.WithLabelValues("transit", "no_route").Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.DirectionsRequestsTotal.WithLabelValues("driving", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DirectionsRequestsTotal.WithLabelValues("transit", "no_route")))
}

func TestCacheReadsCounter(t *testing.T) {
	m := New()

	m.CacheReadsTotal.WithLabelValues("hit").Inc()
	m.CacheReadsTotal.WithLabelValues("miss").Inc()
	m.CacheReadsTotal.WithLabelValues("miss").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheReadsTotal.WithLabelValues("hit")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheReadsTotal.WithLabelValues("miss")))
}

func TestStartPoolStatsCollector_NilPool(t *testing.T) {
	m := New()
	// Should not panic with nil pool
	m.StartPoolStatsCollector(nil, time.Second)
	// Collector should not be marked as started
	assert.False(t, m.collectorStarted.Load())
}

func TestShutdownWithoutCollector(t *testing.T) {
	m := New()
	// Safe even when no collector was started
	m.Shutdown()
	m.Shutdown()
}
