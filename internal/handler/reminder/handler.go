package reminder

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smilesync/booking-api/internal/handler"
	"github.com/smilesync/booking-api/internal/service/reminder"
)

type Handler struct {
	service *reminder.Service
}

func NewHandler(service *reminder.Service) *Handler {
	return &Handler{service: service}
}

// DispatchReminders triggers the reminder batch for tomorrow's
// appointments. Safe to call more than once per day.
func (h *Handler) DispatchReminders(c *gin.Context) {
	summary, err := h.service.DispatchReminders(c.Request.Context(), handler.OrgID(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(summary))
}

func (h *Handler) PendingReminders(c *gin.Context) {
	pending, err := h.service.PendingReminders(c.Request.Context(), handler.OrgID(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(pending))
}

// inboundMessage matches the form fields messaging providers POST on an
// incoming SMS or WhatsApp reply.
type inboundMessage struct {
	From string `form:"From" json:"From"`
	Body string `form:"Body" json:"Body"`
}

// HandleInboundMessage is the public webhook for patient replies. It
// always acknowledges with 200 regardless of outcome, otherwise the
// provider retries the delivery indefinitely.
func (h *Handler) HandleInboundMessage(c *gin.Context) {
	var msg inboundMessage
	if err := c.ShouldBind(&msg); err != nil || msg.From == "" {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
		return
	}

	h.service.HandleInboundMessage(c.Request.Context(), msg.From, msg.Body)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reminders := r.Group("/reminders")
	{
		reminders.POST("/dispatch", h.DispatchReminders)
		reminders.GET("/pending", h.PendingReminders)
	}
}

// RegisterWebhookRoutes wires the unauthenticated inbound endpoint.
func (h *Handler) RegisterWebhookRoutes(r *gin.RouterGroup) {
	r.POST("/webhooks/messages", h.HandleInboundMessage)
}
