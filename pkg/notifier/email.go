package notifier

import (
	"context"

	"gopkg.in/gomail.v2"
)

// EmailNotifier is the fallback channel for patients without a reachable
// phone. The "phone" argument carries the recipient email address.
type EmailNotifier struct {
	dialer  *gomail.Dialer
	from    string
	subject string
}

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Subject  string
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	subject := cfg.Subject
	if subject == "" {
		subject = "Recordatorio de cita"
	}
	return &EmailNotifier{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		subject: subject,
	}
}

func (n *EmailNotifier) Send(_ context.Context, recipient, message string) SendResult {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", n.subject)
	m.SetBody("text/plain", message)

	if err := n.dialer.DialAndSend(m); err != nil {
		return SendResult{Success: false, Error: err.Error()}
	}
	return SendResult{Success: true}
}
