package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/service"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
	"github.com/registrar-office/portal-api/pkg/response"
)

// DocumentRequestHandler wires HTTP endpoints to the document workflow.
type DocumentRequestHandler struct {
	service *service.DocumentService
	exports *service.ExportService
}

// NewDocumentRequestHandler creates a new handler.
func NewDocumentRequestHandler(svc *service.DocumentService, exports *service.ExportService) *DocumentRequestHandler {
	return &DocumentRequestHandler{service: svc, exports: exports}
}

// List godoc
// @Summary List document requests
// @Description Students see their own requests, admins see all
// @Tags Document Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /document-requests [get]
func (h *DocumentRequestHandler) List(c *gin.Context) {
	requests, err := h.service.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests)
}

// Create godoc
// @Summary Create document request
// @Description Open a new document request for the calling student
// @Tags Document Requests
// @Accept json
// @Produce json
// @Param payload body dto.CreateDocumentRequestRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /document-requests [post]
func (h *DocumentRequestHandler) Create(c *gin.Context) {
	var req dto.CreateDocumentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	request, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// Get godoc
// @Summary Get document request
// @Description Fetch a single request with its payment
// @Tags Document Requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /document-requests/{id} [get]
func (h *DocumentRequestHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	request, err := h.service.Get(c.Request.Context(), id, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request)
}

// UpdateStatus godoc
// @Summary Review document request
// @Description Apply an admin decision to a request
// @Tags Document Requests
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param payload body dto.UpdateDocumentStatusRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /document-requests/{id}/status [patch]
func (h *DocumentRequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	var req dto.UpdateDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	request, err := h.service.UpdateStatus(c.Request.Context(), id, req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request)
}

// Export godoc
// @Summary Export document request register
// @Description Download the full register as CSV or PDF
// @Tags Document Requests
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /document-requests/export [get]
func (h *DocumentRequestHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))

	result, err := h.exports.GenerateRegister(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
