package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/registrar-office/portal-api/internal/models"
)

const calendarColumns = `id, title, description, start_date, end_date, type, created_by, created_at`

// CalendarRepository persists academic calendar events.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs the repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// List returns all events ordered by start date ascending.
func (r *CalendarRepository) List(ctx context.Context) ([]models.CalendarEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM calendar_events ORDER BY start_date ASC`, calendarColumns)
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

// Create inserts an event and populates the generated id.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO calendar_events (title, description, start_date, end_date, type, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		event.Title, event.Description, event.StartDate, event.EndDate, event.Type, event.CreatedBy, event.CreatedAt,
	).Scan(&event.ID); err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}
