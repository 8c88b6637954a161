package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics exposes counters and histograms for the appointment flows.
// A nil *BookingMetrics is a valid no-op.
type BookingMetrics struct {
	bookingsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	slotLookups      prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "appointments",
			Name:      "booking_attempts_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "appointments",
			Name:      "status_transitions_total",
			Help:      "Appointment status transitions",
		}, []string{"from", "to"}),
		slotLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "availability",
			Name:      "slot_lookups_total",
			Help:      "Open slot computations served",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hospital",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.transitionsTotal, m.slotLookups, m.httpRequests, m.httpLatency)
	return m
}

// Booking outcomes
const (
	OutcomeCreated     = "created"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeConflict    = "conflict"
	OutcomeError       = "error"
)

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveSlotLookup() {
	if m == nil {
		return
	}
	m.slotLookups.Inc()
}

func (m *BookingMetrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(seconds)
}
