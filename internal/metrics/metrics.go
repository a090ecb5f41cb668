// Package metrics provides Prometheus metrics for the travel schedule API.
package metrics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Routing provider metrics
	DirectionsRequestsTotal *prometheus.CounterVec
	DirectionsDuration      prometheus.Histogram

	// Schedule cache metrics
	CacheReadsTotal *prometheus.CounterVec

	// Batch generation metrics
	BatchDuration prometheus.Histogram

	// Database pool metrics
	DBConnectionsTotal    prometheus.Gauge
	DBConnectionsAcquired prometheus.Gauge
	DBConnectionsIdle     prometheus.Gauge
	DBAcquireSecondsTotal prometheus.Counter

	// logger for error reporting
	logger *slog.Logger

	// collectorStarted prevents spawning multiple collector goroutines
	collectorStarted atomic.Bool

	// cancel stops the pool stats collector goroutine
	cancel context.CancelFunc

	// wg tracks the pool stats collector goroutine for graceful shutdown
	wg sync.WaitGroup
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	return NewWithLogger(nil)
}

// NewWithLogger creates metrics with a logger for error reporting.
func NewWithLogger(logger *slog.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapevent_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snapevent_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	directionsRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapevent_directions_requests_total",
			Help: "Total number of routing provider calls",
		},
		[]string{"mode", "status"},
	)

	directionsDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapevent_directions_request_duration_seconds",
		Help:    "Routing provider call latency distribution",
		Buckets: prometheus.DefBuckets,
	})

	cacheReadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapevent_schedule_cache_reads_total",
			Help: "Schedule cache reads by result (hit, miss, forced, bypass)",
		},
		[]string{"result"},
	)

	batchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapevent_schedule_batch_duration_seconds",
		Help:    "End-to-end schedule batch generation latency",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	dbConnectionsTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapevent_db_connections_total",
		Help: "Number of connections in the database pool",
	})

	dbConnectionsAcquired := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapevent_db_connections_acquired",
		Help: "Number of database connections currently acquired",
	})

	dbConnectionsIdle := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapevent_db_connections_idle",
		Help: "Number of idle database connections",
	})

	dbAcquireSecondsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapevent_db_acquire_seconds_total",
		Help: "Total time spent acquiring database connections",
	})

	// Register all metrics with the custom registry
	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		directionsRequestsTotal,
		directionsDuration,
		cacheReadsTotal,
		batchDuration,
		dbConnectionsTotal,
		dbConnectionsAcquired,
		dbConnectionsIdle,
		dbAcquireSecondsTotal,
	)

	return &Metrics{
		Registry:                registry,
		HTTPRequestsTotal:       httpRequestsTotal,
		HTTPRequestDuration:     httpRequestDuration,
		DirectionsRequestsTotal: directionsRequestsTotal,
		DirectionsDuration:      directionsDuration,
		CacheReadsTotal:         cacheReadsTotal,
		BatchDuration:           batchDuration,
		DBConnectionsTotal:      dbConnectionsTotal,
		DBConnectionsAcquired:   dbConnectionsAcquired,
		DBConnectionsIdle:       dbConnectionsIdle,
		DBAcquireSecondsTotal:   dbAcquireSecondsTotal,
		logger:                  logger,
	}
}

// StartPoolStatsCollector starts a goroutine that periodically collects
// database pool statistics and updates the corresponding metrics.
// The interval specifies how often to collect stats.
// This method is idempotent - calling it multiple times has no effect after the first call.
// Call Shutdown() to stop the collector.
func (m *Metrics) StartPoolStatsCollector(pool *pgxpool.Pool, interval time.Duration) {
	if pool == nil {
		return
	}

	// Prevent spawning multiple collectors
	if !m.collectorStarted.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	var lastAcquireDuration time.Duration

	// Add to WaitGroup BEFORE exposing cancel to avoid race with Shutdown
	m.wg.Add(1)
	m.cancel = cancel

	go func() {
		defer m.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				if m.logger != nil {
					m.logger.Error("panic in pool stats collector", "error", r)
				}
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats := pool.Stat()
				m.DBConnectionsTotal.Set(float64(stats.TotalConns()))
				m.DBConnectionsAcquired.Set(float64(stats.AcquiredConns()))
				m.DBConnectionsIdle.Set(float64(stats.IdleConns()))

				// Add the delta of acquire duration since last check
				acquireDelta := stats.AcquireDuration() - lastAcquireDuration
				if acquireDelta > 0 {
					m.DBAcquireSecondsTotal.Add(acquireDelta.Seconds())
				}
				lastAcquireDuration = stats.AcquireDuration()

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Shutdown stops the pool stats collector goroutine and waits for it to exit.
// This method is safe to call multiple times.
func (m *Metrics) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}
