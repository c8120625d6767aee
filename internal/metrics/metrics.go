package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeAdmitted  = "admitted"
	OutcomeForbidden = "forbidden"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
)

type Metrics struct {
	admissions *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// New registers the booking collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		admissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "admissions_total",
			Help:      "Booking operations by outcome.",
		}, []string{"operation", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "booking",
			Name:      "operation_duration_seconds",
			Help:      "Time spent in booking operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) Observe(operation, outcome string, seconds float64) {
	m.admissions.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(seconds)
}

// Admissions exposes the counter for one operation and outcome.
func (m *Metrics) Admissions(operation, outcome string) prometheus.Counter {
	return m.admissions.WithLabelValues(operation, outcome)
}
