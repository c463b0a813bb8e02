package dto

import "github.com/registrar-office/portal-api/internal/models"

// CreatePetitionRequest files a grade-change petition. StudentID is free text
// (roll number or similar), intentionally not validated against users.
type CreatePetitionRequest struct {
	StudentID     string `json:"studentId" validate:"required"`
	CourseCode    string `json:"courseCode" validate:"required"`
	CurrentGrade  string `json:"currentGrade" validate:"required"`
	NewGrade      string `json:"newGrade" validate:"required"`
	Justification string `json:"justification" validate:"required"`
}

// UpdatePetitionStatusRequest is the admin review payload.
type UpdatePetitionStatusRequest struct {
	Status       models.PetitionStatus `json:"status" validate:"required"`
	AdminComment string                `json:"adminComment"`
}
