package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Appointment lifecycle event types published on the tenant channel.
const (
	EventAppointmentCreated   = "appointment.created"
	EventAppointmentMoved     = "appointment.moved"
	EventAppointmentUpdated   = "appointment.updated"
	EventAppointmentCancelled = "appointment.cancelled"
	EventReminderSent         = "reminder.sent"
	EventReplyReceived        = "reply.received"
)

type Event struct {
	Type    string      `json:"type"`
	OrgID   string      `json:"org_id"`
	Payload interface{} `json:"payload"`
}
