package dto

import "github.com/registrar-office/portal-api/internal/models"

// CreateDocumentRequestRequest is the student-facing create payload. The
// owning user is always taken from the caller's claims, never from the body.
type CreateDocumentRequestRequest struct {
	Type    models.DocumentType `json:"type" validate:"required"`
	Urgency models.Urgency      `json:"urgency"`
	Copies  int                 `json:"copies" validate:"omitempty,min=1"`
	Amount  *int64              `json:"amount" validate:"omitempty,min=1"`
}

// UpdateDocumentStatusRequest is the admin review payload.
type UpdateDocumentStatusRequest struct {
	Status       models.DocumentStatus `json:"status" validate:"required"`
	AdminComment string                `json:"adminComment"`
}
