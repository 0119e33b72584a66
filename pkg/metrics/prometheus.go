package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	observations  *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	entityMetrics *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		observations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "laborpulse_observations_total",
				Help: "Total number of observations routed to a backend",
			},
			[]string{"backend", "entity"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "laborpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		entityMetrics: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "laborpulse_entity_metric",
				Help: "Last computed analytic value for an entity",
			},
			[]string{"entity", "metric"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "laborpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordObservation records an observation routed to a backend.
func (r *Recorder) RecordObservation(backend, entity string) {
	r.observations.WithLabelValues(backend, entity).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordEntityMetric records the latest analytic value for an entity.
func (r *Recorder) RecordEntityMetric(entity, metric string, value float64) {
	r.entityMetrics.WithLabelValues(entity, metric).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
