package optimizer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// optimizeRequests counts optimize operations by terminal outcome.
	optimizeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_requests_total",
		Help: "Total optimize requests by outcome",
	}, []string{"outcome"})

	// optimizeDuration tracks time spent per optimize stage.
	optimizeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimizer_stage_duration_seconds",
		Help:    "Time spent per optimize stage",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"stage"}) // stage: snapshot, plans

	// snapshotStores tracks the number of stores in loaded snapshots.
	snapshotStores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_snapshot_stores_count",
		Help:    "Number of stores per catalog snapshot",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	// snapshotOffers tracks the number of matched offers in loaded snapshots.
	snapshotOffers = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_snapshot_offers_count",
		Help:    "Number of matched offers per catalog snapshot",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
	})

	// storeGeocodeFailures counts store postal codes that failed to geocode
	// and degraded to an unknown distance.
	storeGeocodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optimizer_store_geocode_failures_total",
		Help: "Store postal codes that failed to geocode",
	})
)

// MetricsRecorder records optimizer metrics to prometheus.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordOutcome records the terminal outcome of an optimize operation.
func (m *MetricsRecorder) RecordOutcome(outcome string) {
	optimizeRequests.WithLabelValues(outcome).Inc()
}

// RecordStageDuration records how long an optimize stage took.
func (m *MetricsRecorder) RecordStageDuration(stage string, d time.Duration) {
	optimizeDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordSnapshot records the size of a loaded snapshot.
func (m *MetricsRecorder) RecordSnapshot(stores, offers int) {
	snapshotStores.Observe(float64(stores))
	snapshotOffers.Observe(float64(offers))
}

// RecordStoreGeocodeFailure records a store postal code that could not be
// geocoded.
func (m *MetricsRecorder) RecordStoreGeocodeFailure() {
	storeGeocodeFailures.Inc()
}
