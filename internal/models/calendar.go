package models

import "time"

// CalendarEventType enumerates academic calendar entry kinds.
type CalendarEventType string

const (
	CalendarEventHoliday  CalendarEventType = "holiday"
	CalendarEventExam     CalendarEventType = "exam"
	CalendarEventDeadline CalendarEventType = "deadline"
	CalendarEventGeneric  CalendarEventType = "event"
)

// Valid reports enum membership.
func (t CalendarEventType) Valid() bool {
	switch t {
	case CalendarEventHoliday, CalendarEventExam, CalendarEventDeadline, CalendarEventGeneric:
		return true
	}
	return false
}

// CalendarEvent is an academic calendar entry, visible to every authenticated
// role and immutable after creation.
type CalendarEvent struct {
	ID          int64             `db:"id" json:"id"`
	Title       string            `db:"title" json:"title"`
	Description *string           `db:"description" json:"description,omitempty"`
	StartDate   time.Time         `db:"start_date" json:"startDate"`
	EndDate     *time.Time        `db:"end_date" json:"endDate,omitempty"`
	Type        CalendarEventType `db:"type" json:"type"`
	CreatedBy   *string           `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
}
