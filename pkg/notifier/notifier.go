package notifier

import (
	"context"
)

// SendResult reports the transport outcome for one message.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"sid,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Notifier delivers a message to a patient's phone. Implementations must
// not retry; the caller records the per-message outcome.
type Notifier interface {
	Send(ctx context.Context, phone, message string) SendResult
}
