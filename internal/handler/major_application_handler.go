package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/service"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
	"github.com/registrar-office/portal-api/pkg/response"
)

// MajorApplicationHandler wires HTTP endpoints to the major application service.
type MajorApplicationHandler struct {
	service *service.MajorApplicationService
}

// NewMajorApplicationHandler creates a new handler.
func NewMajorApplicationHandler(svc *service.MajorApplicationService) *MajorApplicationHandler {
	return &MajorApplicationHandler{service: svc}
}

// List godoc
// @Summary List major applications
// @Description Students see their own applications, admins see all
// @Tags Major Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /major-applications [get]
func (h *MajorApplicationHandler) List(c *gin.Context) {
	apps, err := h.service.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps)
}

// Create godoc
// @Summary File major application
// @Description Declare or change the calling student's major
// @Tags Major Applications
// @Accept json
// @Produce json
// @Param payload body dto.CreateMajorApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /major-applications [post]
func (h *MajorApplicationHandler) Create(c *gin.Context) {
	var req dto.CreateMajorApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	app, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// Get godoc
// @Summary Get major application
// @Tags Major Applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /major-applications/{id} [get]
func (h *MajorApplicationHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	app, err := h.service.Get(c.Request.Context(), id, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app)
}

// UpdateStatus godoc
// @Summary Review major application
// @Description Apply an admin decision to an application
// @Tags Major Applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param payload body dto.UpdateMajorApplicationStatusRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /major-applications/{id}/status [patch]
func (h *MajorApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	var req dto.UpdateMajorApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	app, err := h.service.UpdateStatus(c.Request.Context(), id, req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app)
}
