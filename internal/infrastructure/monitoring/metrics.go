// Package monitoring provides Prometheus metrics for the terminal bridge.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter

	// Frame metrics, labeled by frame type and direction
	// (direction: "client_to_server" or "server_to_client")
	FramesTotal    *prometheus.CounterVec
	BytesForwarded *prometheus.CounterVec
	FramesDropped  prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector backed by its own registry, so
// multiple instances (e.g. in tests) never collide.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termbridge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termbridge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "termbridge_sessions_active",
				Help: "Number of live terminal sessions",
			},
		),
		SessionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termbridge_sessions_total",
				Help: "Total number of terminal sessions created",
			},
		),
		FramesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termbridge_frames_total",
				Help: "Total number of protocol frames forwarded",
			},
			[]string{"type", "direction"},
		),
		BytesForwarded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termbridge_bytes_forwarded_total",
				Help: "Total payload bytes forwarded between pty and stream",
			},
			[]string{"direction"},
		),
		FramesDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termbridge_frames_dropped_total",
				Help: "Total number of malformed frames dropped",
			},
		),
		registry: registry,
	}
}

// Handler returns the /metrics HTTP handler for this collector.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SessionStarted records a new terminal session.
func (m *Metrics) SessionStarted() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// SessionEnded records a terminated terminal session.
func (m *Metrics) SessionEnded() {
	m.SessionsActive.Dec()
}

// RecordFrame records a forwarded frame and its payload size.
func (m *Metrics) RecordFrame(frameType, direction string, bytes int) {
	m.FramesTotal.WithLabelValues(frameType, direction).Inc()
	if bytes > 0 {
		m.BytesForwarded.WithLabelValues(direction).Add(float64(bytes))
	}
}
