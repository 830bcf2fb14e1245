package calendar

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smilesync/booking-api/internal/handler"
	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/internal/service/calendar"
)

type Handler struct {
	service *calendar.Service
}

func NewHandler(service *calendar.Service) *Handler {
	return &Handler{service: service}
}

// GetCalendar returns the aggregated view for a day, week or month
// anchored at the given date. Week views start on Monday.
func (h *Handler) GetCalendar(c *gin.Context) {
	view := model.CalendarView(c.DefaultQuery("view", string(model.CalendarViewWeek)))

	anchor := time.Now()
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date format, expected YYYY-MM-DD"))
			return
		}
		anchor = parsed
	}

	var dentistID *uuid.UUID
	if id := c.Query("dentist_id"); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dentist ID"))
			return
		}
		dentistID = &parsed
	}

	cal, err := h.service.GetCalendar(c.Request.Context(), handler.OrgID(c), view, anchor, dentistID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(cal))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/calendar", h.GetCalendar)
}
