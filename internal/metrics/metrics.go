// Package metrics provides Prometheus instrumentation for the scoring engine.
package metrics

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pdie"

var (
	// RecordsScored counts customer-weeks scored.
	RecordsScored = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_scored_total",
		Help:      "Total customer-week signal records scored.",
	})

	// InputRejected counts datasets rejected before scoring, by field.
	InputRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "input_rejected_total",
		Help:      "Signal datasets rejected by validation, by offending field.",
	}, []string{"field"})

	// CustomersByTier tracks the latest-week tier distribution.
	CustomersByTier = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "customers_by_tier",
		Help:      "Customers per risk tier at the latest week.",
	}, []string{"tier"})

	// CustomersByTrend tracks the latest-week trend distribution.
	CustomersByTrend = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "customers_by_trend",
		Help:      "Customers per trend label at the latest week.",
	}, []string{"trend"})

	// RecommendationsTotal counts recommendations by rule.
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Intervention recommendations issued, by rule id.",
	}, []string{"rule"})

	// SnapshotDuration observes portfolio snapshot latency.
	SnapshotDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "snapshot_duration_seconds",
		Help:      "Time to score and analyze the whole portfolio.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	// SimulationsTotal counts impact simulations by result.
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "impact_simulations_total",
		Help:      "Portfolio impact simulations, by result.",
	}, []string{"result"})

	// ProjectedNetSavings holds the net savings of the last simulation.
	ProjectedNetSavings = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "projected_net_savings_inr",
		Help:      "Net savings projected by the most recent impact simulation.",
	})

	// ScheduledRuns counts scheduled scoring runs by status.
	ScheduledRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "runs_total",
		Help:      "Scheduled job runs, by job and status.",
	}, []string{"job", "status"})

	// HTTPRequestsTotal counts API requests by method, route and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route template and status code.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes request latency.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ActiveStreamClients tracks connected websocket clients.
	ActiveStreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_stream_clients",
		Help:      "Number of connected snapshot stream clients.",
	})

	// DBPoolConnections tracks feed pool connections by state.
	DBPoolConnections = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "db_pool_connections",
		Help:      "Postgres feed pool connections by state.",
	}, []string{"state"})

	// GoroutineCount tracks the current number of goroutines.
	GoroutineCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "goroutines",
		Help:      "Current number of goroutines.",
	})
)

func init() {
	prometheus.MustRegister(
		RecordsScored,
		InputRejected,
		CustomersByTier,
		CustomersByTrend,
		RecommendationsTotal,
		SnapshotDuration,
		SimulationsTotal,
		ProjectedNetSavings,
		ScheduledRuns,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ActiveStreamClients,
		DBPoolConnections,
		GoroutineCount,
	)
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartPoolStatsCollector samples pgxpool stats into gauges until ctx is done.
// Call in a goroutine.
func StartPoolStatsCollector(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stat := pool.Stat()
			DBPoolConnections.WithLabelValues("total").Set(float64(stat.TotalConns()))
			DBPoolConnections.WithLabelValues("idle").Set(float64(stat.IdleConns()))
			DBPoolConnections.WithLabelValues("acquired").Set(float64(stat.AcquiredConns()))
			GoroutineCount.Set(float64(runtime.NumGoroutine()))
		}
	}
}
