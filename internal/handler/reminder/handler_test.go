package reminder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/internal/service/reminder"
	"github.com/smilesync/booking-api/pkg/metrics"
	"github.com/smilesync/booking-api/pkg/notifier"
)

var testMetrics = metrics.NewMetrics("reminder_handler_test")

// unknownPhoneRepo matches no patient, so the webhook path ends before
// touching any other repository.
type unknownPhoneRepo struct{}

func (unknownPhoneRepo) Create(context.Context, *model.Patient) error { return nil }
func (unknownPhoneRepo) Get(context.Context, uuid.UUID, uuid.UUID) (*model.Patient, error) {
	return nil, nil
}
func (unknownPhoneRepo) Update(context.Context, *model.Patient) error       { return nil }
func (unknownPhoneRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (unknownPhoneRepo) List(context.Context, uuid.UUID) ([]*model.Patient, error) {
	return nil, nil
}
func (unknownPhoneRepo) GetByPhone(context.Context, uuid.UUID, string) (*model.Patient, error) {
	return nil, nil
}
func (unknownPhoneRepo) FindByPhone(context.Context, string) (*model.Patient, error) {
	return nil, nil
}

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := reminder.NewService(nil, unknownPhoneRepo{}, nil, nil, notifier.NoopNotifier{}, nil, testMetrics)
	h := NewHandler(svc)

	engine := gin.New()
	h.RegisterWebhookRoutes(engine.Group("/api/v1"))
	return engine
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	router := webhookRouter()

	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{"form reply", "From=whatsapp%3A%2B5215512345678&Body=SI", "application/x-www-form-urlencoded"},
		{"json reply", `{"From": "+5215512345678", "Body": "NO"}`, "application/json"},
		{"missing sender", "Body=SI", "application/x-www-form-urlencoded"},
		{"malformed json", `{"From": `, "application/json"},
		{"empty body", "", "application/x-www-form-urlencoded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/messages", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Anything but 200 makes the provider retry delivery.
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
