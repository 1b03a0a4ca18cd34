package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	events          *prometheus.CounterVec
}

// NewMetrics registers collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_desk_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "support_desk_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	errors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_desk_http_errors_total",
			Help: "Error responses by route, method and error code",
		},
		[]string{"route", "method", "code"},
	)
	notifications := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_desk_notifications_total",
			Help: "Notification emails by event type and outcome",
		},
		[]string{"event", "outcome"},
	)
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_desk_events_published_total",
			Help: "Domain events handed to the dispatcher by type and outcome",
		},
		[]string{"event", "outcome"},
	)

	registry.MustRegister(
		requests,
		requestDuration,
		errors,
		notifications,
		events,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		requests:        requests,
		requestDuration: requestDuration,
		errors:          errors,
		notifications:   notifications,
		events:          events,
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordNotification counts one email attempt. outcome is sent, failed or skipped.
func (m *Metrics) RecordNotification(event, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(event, outcome).Inc()
}

// RecordEvent counts one publish attempt.
func (m *Metrics) RecordEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event, outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
