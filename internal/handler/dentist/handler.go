package dentist

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smilesync/booking-api/internal/handler"
	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/internal/service/directory"
)

type Handler struct {
	service   *directory.Service
	adminOnly gin.HandlerFunc
}

// NewHandler builds the dentist handler. adminOnly gates staff
// mutations; reads stay open to every authenticated role because the
// booking flow needs the dentist list.
func NewHandler(service *directory.Service, adminOnly gin.HandlerFunc) *Handler {
	return &Handler{service: service, adminOnly: adminOnly}
}

func (h *Handler) CreateDentist(c *gin.Context) {
	var req model.CreateDentistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dentist, err := h.service.CreateDentist(c.Request.Context(), handler.OrgID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(dentist))
}

func (h *Handler) GetDentist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dentist ID"))
		return
	}

	dentist, err := h.service.GetDentist(c.Request.Context(), handler.OrgID(c), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(dentist))
}

func (h *Handler) ListDentists(c *gin.Context) {
	dentists, err := h.service.ListDentists(c.Request.Context(), handler.OrgID(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(dentists))
}

func (h *Handler) UpdateDentist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dentist ID"))
		return
	}

	var req model.UpdateDentistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dentist, err := h.service.UpdateDentist(c.Request.Context(), handler.OrgID(c), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(dentist))
}

func (h *Handler) DeleteDentist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dentist ID"))
		return
	}

	if err := h.service.DeleteDentist(c.Request.Context(), handler.OrgID(c), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	dentists := r.Group("/dentists")
	{
		dentists.POST("", h.adminOnly, h.CreateDentist)
		dentists.GET("", h.ListDentists)
		dentists.GET("/:id", h.GetDentist)
		dentists.PUT("/:id", h.adminOnly, h.UpdateDentist)
		dentists.DELETE("/:id", h.adminOnly, h.DeleteDentist)
	}
}
