package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/service"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
	"github.com/registrar-office/portal-api/pkg/response"
)

// PetitionHandler wires HTTP endpoints to the grade-change petition service.
type PetitionHandler struct {
	service *service.PetitionService
}

// NewPetitionHandler creates a new handler.
func NewPetitionHandler(svc *service.PetitionService) *PetitionHandler {
	return &PetitionHandler{service: svc}
}

// List godoc
// @Summary List petitions
// @Description Instructors see their own petitions, admins see all
// @Tags Petitions
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /petitions [get]
func (h *PetitionHandler) List(c *gin.Context) {
	petitions, err := h.service.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, petitions)
}

// Create godoc
// @Summary File petition
// @Description File a grade-change petition for a student
// @Tags Petitions
// @Accept json
// @Produce json
// @Param payload body dto.CreatePetitionRequest true "Petition payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /petitions [post]
func (h *PetitionHandler) Create(c *gin.Context) {
	var req dto.CreatePetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	petition, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, petition)
}

// Get godoc
// @Summary Get petition
// @Tags Petitions
// @Produce json
// @Param id path int true "Petition ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /petitions/{id} [get]
func (h *PetitionHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	petition, err := h.service.Get(c.Request.Context(), id, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, petition)
}

// UpdateStatus godoc
// @Summary Review petition
// @Description Apply an admin decision to a petition
// @Tags Petitions
// @Accept json
// @Produce json
// @Param id path int true "Petition ID"
// @Param payload body dto.UpdatePetitionStatusRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /petitions/{id}/status [patch]
func (h *PetitionHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	var req dto.UpdatePetitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	petition, err := h.service.UpdateStatus(c.Request.Context(), id, req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, petition)
}
