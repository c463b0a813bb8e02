package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-office/portal-api/internal/models"
)

func TestCalendarList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "start_date", "end_date", "type", "created_by", "created_at"}).
		AddRow(1, "Spring Semester Begins", nil, now, nil, "event", nil, now).
		AddRow(2, "Midterm Examinations", nil, now.Add(48*time.Hour), nil, "exam", nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_events ORDER BY start_date ASC")).
		WillReturnRows(rows)

	events, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.CalendarEventExam, events[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	mock.ExpectQuery("INSERT INTO calendar_events").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	event := &models.CalendarEvent{
		Title:     "Add/Drop Deadline",
		StartDate: time.Now(),
		Type:      models.CalendarEventDeadline,
	}
	err := repo.Create(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, int64(5), event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
