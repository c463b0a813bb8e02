package dto

import "github.com/registrar-office/portal-api/internal/models"

// CreateCalendarEventRequest adds an academic calendar entry. Dates are
// RFC 3339 strings; past dates are allowed (historical entries are legal).
type CreateCalendarEventRequest struct {
	Title       string                   `json:"title" validate:"required"`
	Description string                   `json:"description"`
	StartDate   string                   `json:"startDate" validate:"required"`
	EndDate     string                   `json:"endDate"`
	Type        models.CalendarEventType `json:"type" validate:"required"`
}
