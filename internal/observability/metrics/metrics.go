// Package metrics exposes Prometheus instruments for the booking platform.
// Every method is safe on a nil receiver so code under test can skip
// instrumentation entirely.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BookingMetrics counts booking admissions by outcome and status transitions
// by target status.
type BookingMetrics struct {
	createTotal     *prometheus.CounterVec
	transitionTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	factory := promauto.With(reg)
	return &BookingMetrics{
		createTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_create_total",
			Help: "Booking attempts by outcome (created, conflict, contended, error).",
		}, []string{"outcome"}),
		transitionTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_status_transition_total",
			Help: "Applied status transitions by target status.",
		}, []string{"target"}),
	}
}

func (m *BookingMetrics) ObserveCreate(outcome string) {
	if m == nil {
		return
	}
	m.createTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveTransition(target string) {
	if m == nil {
		return
	}
	m.transitionTotal.WithLabelValues(target).Inc()
}

// HTTPMetrics records request durations per route and status class.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	return &HTTPMetrics{
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *HTTPMetrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(method, route, status).Observe(seconds)
}
