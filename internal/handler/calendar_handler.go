package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/service"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
	"github.com/registrar-office/portal-api/pkg/response"
)

// CalendarHandler wires HTTP endpoints to the academic calendar service.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler creates a new handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// List godoc
// @Summary List calendar events
// @Description Return all academic calendar events ordered by start date
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) List(c *gin.Context) {
	events, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events)
}

// Create godoc
// @Summary Create calendar event
// @Description Add an academic calendar entry
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body dto.CreateCalendarEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	var req dto.CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	event, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}
