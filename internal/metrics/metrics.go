// Package metrics holds the prometheus collectors for the HTTP API and the
// upload pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	uploads        *prometheus.CounterVec
	duplicates     prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "screenshots",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "screenshots",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "screenshots",
			Name:      "uploads_total",
			Help:      "Uploads by outcome",
		}, []string{"result"}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "screenshots",
			Name:      "duplicates_total",
			Help:      "Uploads whose fingerprint matched an earlier screenshot",
		}),
	}

	collectors := []prometheus.Collector{m.requestTotal, m.requestLatency, m.uploads, m.duplicates}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestTotal.With(labels).Inc()
	m.requestLatency.With(labels).Observe(duration.Seconds())
}

// UploadSucceeded records a stored upload.
func (m *Metrics) UploadSucceeded(duplicate bool) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues("ok").Inc()
	if duplicate {
		m.duplicates.Inc()
	}
}

// UploadFailed records an upload that could not be processed or stored.
func (m *Metrics) UploadFailed() {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues("failed").Inc()
}
