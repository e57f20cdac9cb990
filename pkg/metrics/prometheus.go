package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	trendsDetected  *prometheus.CounterVec
	alertsTriggered *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastValue       *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		trendsDetected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpulse_trends_detected_total",
				Help: "Total trend candidates produced by detectors",
			},
			[]string{"detector", "metric"},
		),
		alertsTriggered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpulse_alerts_triggered_total",
				Help: "Total alert subscriptions triggered",
			},
			[]string{"alert_type"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastValue: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trendpulse_last_value",
				Help: "Last observed value for a metric",
			},
			[]string{"metric"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTrendDetected records a detector candidate for a metric.
func (r *Recorder) RecordTrendDetected(detector, metric string) {
	r.trendsDetected.WithLabelValues(detector, metric).Inc()
}

// RecordAlertTriggered records a triggered alert subscription.
func (r *Recorder) RecordAlertTriggered(alertType string) {
	r.alertsTriggered.WithLabelValues(alertType).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastValue records the last observed value for a metric.
func (r *Recorder) RecordLastValue(metric string, value float64) {
	r.lastValue.WithLabelValues(metric).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
