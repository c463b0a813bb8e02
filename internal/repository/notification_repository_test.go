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

func TestNotificationCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	kind := "payment"
	n := &models.Notification{
		UserID:  "u1",
		Title:   "Payment received",
		Message: "Payment of 500 received for your transcript request.",
		Type:    &kind,
	}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(n.UserID, n.Title, n.Message, n.Type, false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	require.NoError(t, repo.Create(context.Background(), n))
	assert.Equal(t, int64(9), n.ID)
	assert.False(t, n.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationListByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "message", "type", "is_read", "created_at"}).
		AddRow(2, "u1", "Payment received", "Payment of 500 received.", "payment", false, now).
		AddRow(1, "u1", "Document request update", "Your transcript request is now approved.", "document_request", true, now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE user_id = $1 ORDER BY created_at DESC")).
		WithArgs("u1").
		WillReturnRows(rows)

	notifications, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.False(t, notifications[0].IsRead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationMarkRead(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("UPDATE notifications SET is_read").
		WithArgs(int64(2), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.MarkRead(context.Background(), 2, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationMarkReadWrongOwner(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("UPDATE notifications SET is_read").
		WithArgs(int64(2), "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkRead(context.Background(), 2, "intruder")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
