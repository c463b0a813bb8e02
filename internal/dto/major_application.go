package dto

import "github.com/registrar-office/portal-api/internal/models"

// CreateMajorApplicationRequest declares or changes a student's major.
type CreateMajorApplicationRequest struct {
	CurrentMajor   string `json:"currentMajor"`
	RequestedMajor string `json:"requestedMajor" validate:"required"`
	School         string `json:"school" validate:"required"`
	Statement      string `json:"statement"`
}

// UpdateMajorApplicationStatusRequest is the admin review payload.
type UpdateMajorApplicationStatusRequest struct {
	Status       models.MajorApplicationStatus `json:"status" validate:"required"`
	AdminComment string                        `json:"adminComment"`
}
