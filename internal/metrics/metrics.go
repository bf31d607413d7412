// Package metrics exposes Prometheus collectors for the radar service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	signalsTotal        *prometheus.CounterVec
	fetchFailuresTotal  *prometheus.CounterVec
	intakeHandoffsTotal prometheus.Counter
	migratedTotal       prometheus.Counter
	runDurationSeconds  prometheus.Histogram
	storeSize           prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		signalsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radar_signals_total",
				Help: "Total number of new signals ingested, labeled by trigger.",
			},
			[]string{"trigger"},
		)

		fetchFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radar_fetch_failures_total",
				Help: "Total number of failed feed fetches, labeled by engine.",
			},
			[]string{"engine"},
		)

		intakeHandoffsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "radar_intake_handoffs_total",
				Help: "Total number of signals appended to the intake queue.",
			},
		)

		migratedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "radar_signals_migrated_total",
				Help: "Total number of signals backfilled during schema migration.",
			},
		)

		runDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "radar_run_duration_seconds",
				Help:    "Histogram of full pipeline run durations.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		)

		storeSize = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "radar_store_signals",
				Help: "Number of signals currently in the persisted store.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSignal increments the new-signal counter for the given trigger.
func ObserveSignal(trigger string) {
	if signalsTotal != nil {
		signalsTotal.WithLabelValues(trigger).Inc()
	}
}

// ObserveFetchFailure increments the fetch failure counter for an engine.
func ObserveFetchFailure(engine string) {
	if fetchFailuresTotal != nil {
		fetchFailuresTotal.WithLabelValues(engine).Inc()
	}
}

// ObserveIntakeHandoff increments the intake handoff counter.
func ObserveIntakeHandoff() {
	if intakeHandoffsTotal != nil {
		intakeHandoffsTotal.Inc()
	}
}

// ObserveMigrated counts signals backfilled at load time.
func ObserveMigrated(count int) {
	if migratedTotal != nil && count > 0 {
		migratedTotal.Add(float64(count))
	}
}

// ObserveRunDuration records a full run duration.
func ObserveRunDuration(d time.Duration) {
	if runDurationSeconds != nil {
		runDurationSeconds.Observe(d.Seconds())
	}
}

// SetStoreSize records the current store cardinality.
func SetStoreSize(n int) {
	if storeSize != nil {
		storeSize.Set(float64(n))
	}
}
