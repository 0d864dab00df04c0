package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is
// valid and records nothing, so tests can pass nil.
type Metrics struct {
	VerificationsTotal *prometheus.CounterVec
	ExtractionFailures *prometheus.CounterVec
	RequestDuration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "label_verifications_total",
			Help: "Verification requests processed, by outcome",
		}, []string{"outcome"}), // 'match', 'mismatch', 'error'
		ExtractionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "label_extraction_failures_total",
			Help: "Degraded extraction calls, by source",
		}, []string{"source"}), // 'vision', 'ocr'
		RequestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "label_verification_duration_seconds",
			Help:    "End-to-end verification request duration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncVerification(outcome string) {
	if m == nil {
		return
	}
	m.VerificationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncExtractionFailure(source string) {
	if m == nil {
		return
	}
	m.ExtractionFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}
