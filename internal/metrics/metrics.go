// Package metrics exposes Prometheus instrumentation for the simulator
// backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shved/plantwatch/internal/alerts"
)

var (
	snapshotsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "plantwatch",
			Name:      "snapshots_total",
			Help:      "Total number of fleet telemetry snapshots generated.",
		},
	)

	alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plantwatch",
			Name:      "alerts_total",
			Help:      "Total number of alerts emitted, partitioned by severity.",
		},
		[]string{"severity"},
	)

	snapshotDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "plantwatch",
			Name:      "snapshot_seconds",
			Help:      "Snapshot generation latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
)

// Register attaches plantwatch collectors to the supplied registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		snapshotsTotal,
		alertsTotal,
		snapshotDurationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveSnapshot records one snapshot generation and its duration.
func ObserveSnapshot(duration time.Duration) {
	snapshotsTotal.Inc()
	if duration < 0 {
		duration = 0
	}
	snapshotDurationSeconds.Observe(duration.Seconds())
}

// CountAlerts bumps the per-severity alert counters.
func CountAlerts(list []alerts.Alert) {
	for _, a := range list {
		alertsTotal.WithLabelValues(string(a.Severity)).Inc()
	}
}
