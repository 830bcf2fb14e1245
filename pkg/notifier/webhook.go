package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WebhookNotifier posts messages to an SMS/WhatsApp gateway webhook. The
// gateway answers with a provider message id ("sid") on success.
type WebhookNotifier struct {
	url      string
	token    string
	whatsapp bool
	http     *http.Client
}

type WebhookConfig struct {
	URL      string
	Token    string
	WhatsApp bool
	Timeout  time.Duration
}

func NewWebhookNotifier(cfg WebhookConfig) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		url:      strings.TrimSpace(cfg.URL),
		token:    strings.TrimSpace(cfg.Token),
		whatsapp: cfg.WhatsApp,
		http:     &http.Client{Timeout: timeout},
	}
}

func (n *WebhookNotifier) Send(ctx context.Context, phone, message string) SendResult {
	if n.url == "" {
		return SendResult{Success: false, Error: "notifier webhook url not configured"}
	}

	to := phone
	if n.whatsapp && !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}

	payload := map[string]string{
		"to":   to,
		"body": message,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return SendResult{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(raw))
	if err != nil {
		return SendResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return SendResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SendResult{
			Success: false,
			Error:   fmt.Sprintf("gateway returned status %d", resp.StatusCode),
		}
	}

	var ack struct {
		SID string `json:"sid"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(body, &ack)

	return SendResult{Success: true, MessageID: ack.SID}
}
