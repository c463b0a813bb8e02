package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-office/portal-api/internal/models"
)

func TestPaymentCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectQuery("INSERT INTO payments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	payment := &models.Payment{
		RequestID:     3,
		Amount:        500,
		Status:        models.PaymentStatusPaid,
		TransactionID: "9F3A21BC",
		Method:        models.PaymentMethodOnline,
	}
	err := repo.Create(context.Background(), payment)
	require.NoError(t, err)
	assert.Equal(t, int64(21), payment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentFindPaidByRequestID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "request_id", "amount", "status", "transaction_id", "method", "created_at"}).
		AddRow(21, 3, 500, "paid", "9F3A21BC", "online", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE request_id = $1 AND status = $2 ORDER BY created_at ASC, id ASC LIMIT 1")).
		WithArgs(int64(3), models.PaymentStatusPaid).
		WillReturnRows(rows)

	payment, err := repo.FindPaidByRequestID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentFindPaidByRequestIDNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectQuery("FROM payments WHERE request_id").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindPaidByRequestID(context.Background(), 3)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
