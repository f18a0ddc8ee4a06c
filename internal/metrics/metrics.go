// Package metrics holds the Prometheus instruments of the booking core.
// A nil *Metrics is valid and records nothing, which keeps tests and the
// CLI free of registry plumbing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tablebook"

// Metrics groups the counters and histograms.
type Metrics struct {
	AvailabilityQuery  *prometheus.HistogramVec
	BookingsCreated    prometheus.Counter
	BookingsCancelled  prometheus.Counter
	BookingTransitions *prometheus.CounterVec
	BookingConflicts   prometheus.Counter
	ValidationFailures *prometheus.CounterVec
}

// New registers the instruments with reg.  Pass prometheus.DefaultRegisterer
// in the server and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AvailabilityQuery: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_query_seconds",
			Help:      "Latency of availability queries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
		BookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings persisted.",
		}),
		BookingsCancelled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled.",
		}),
		BookingTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Administrative status changes by target status.",
		}, []string{"status"}),
		BookingConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Create attempts that lost a race for a table or the slot lock.",
		}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_validation_failures_total",
			Help:      "Booking requests rejected by validation, by rule.",
		}, []string{"rule"}),
	}
}

// ObserveAvailability records the duration of an availability query
// started at start.
func (m *Metrics) ObserveAvailability(query string, start time.Time) {
	if m == nil {
		return
	}
	m.AvailabilityQuery.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncCreated() {
	if m != nil {
		m.BookingsCreated.Inc()
	}
}

func (m *Metrics) IncCancelled() {
	if m != nil {
		m.BookingsCancelled.Inc()
	}
}

func (m *Metrics) IncTransition(status string) {
	if m != nil {
		m.BookingTransitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncConflict() {
	if m != nil {
		m.BookingConflicts.Inc()
	}
}

func (m *Metrics) IncValidationFailure(rule string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(rule).Inc()
	}
}
