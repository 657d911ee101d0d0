package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Export outcomes.
const (
	OutcomeDone     = "done"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

var (
	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvcrafter",
			Subsystem: "export",
			Name:      "runs_total",
			Help:      "Export runs by outcome.",
		},
		[]string{"outcome"},
	)

	exportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cvcrafter",
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "Time from capture start to assembled document.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 32},
		},
	)

	exportPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cvcrafter",
			Subsystem: "export",
			Name:      "pages",
			Help:      "Pages per exported document.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8},
		},
	)

	exportsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cvcrafter",
			Subsystem: "export",
			Name:      "in_progress",
			Help:      "Exports currently holding the busy flag.",
		},
	)
)

// ExportStarted marks a pipeline as busy.
func ExportStarted() { exportsRunning.Inc() }

// ExportFinished records the outcome of a run that held the busy flag.
func ExportFinished(outcome string, pages int, elapsed time.Duration) {
	exportsRunning.Dec()
	exportsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeDone {
		exportDuration.Observe(elapsed.Seconds())
		exportPages.Observe(float64(pages))
	}
}

// ExportRejected counts a run refused before it started.
func ExportRejected() {
	exportsTotal.WithLabelValues(OutcomeRejected).Inc()
}
