package notifier

import (
	"context"

	"github.com/rs/zerolog/log"
)

// NoopNotifier logs the message instead of sending it. Used when the
// gateway is not configured, mirroring a dry-run deployment.
type NoopNotifier struct{}

func (NoopNotifier) Send(_ context.Context, phone, message string) SendResult {
	log.Info().Str("phone", phone).Str("message", message).Msg("notifier not configured, message dropped")
	return SendResult{Success: false, Error: "notifier not configured"}
}
