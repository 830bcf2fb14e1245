package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smilesync/booking-api/internal/middleware"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// OrgID returns the tenant set by the auth middleware. The zero UUID
// means the route was wired outside the authenticated group, which is a
// routing bug, not a client error.
func OrgID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(middleware.ContextOrgID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func UserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
