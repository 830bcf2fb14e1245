package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Scheduling metrics
	AppointmentsCreated *prometheus.CounterVec
	ConflictsRejected   *prometheus.CounterVec
	AppointmentsMoved   *prometheus.CounterVec

	// Reminder metrics
	RemindersSent       prometheus.Counter
	RemindersFailed     prometheus.Counter
	DispatchDuration    prometheus.Histogram
	RepliesConfirmed    prometheus.Counter
	RepliesCancelled    prometheus.Counter
	RepliesUnrecognized prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AppointmentsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Total number of appointments created",
		}, []string{"org_id"}),
		ConflictsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_conflicts_rejected_total",
			Help:      "Total number of bookings rejected due to interval overlap",
		}, []string{"org_id"}),
		AppointmentsMoved: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_moved_total",
			Help:      "Total number of appointments rescheduled",
		}, []string{"org_id"}),
		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Total number of reminders delivered to the transport",
		}),
		RemindersFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_failed_total",
			Help:      "Total number of reminder transport failures",
		}),
		DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reminder_dispatch_duration_seconds",
			Help:      "Time spent running a reminder dispatch batch",
			Buckets:   prometheus.DefBuckets,
		}),
		RepliesConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_replies_confirmed_total",
			Help:      "Inbound replies that confirmed an appointment",
		}),
		RepliesCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_replies_cancelled_total",
			Help:      "Inbound replies that cancelled an appointment",
		}),
		RepliesUnrecognized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_replies_unrecognized_total",
			Help:      "Inbound replies that matched no keyword set",
		}),
	}
}
