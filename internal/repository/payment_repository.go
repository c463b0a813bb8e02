package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/registrar-office/portal-api/internal/models"
)

const paymentColumns = `id, request_id, amount, status, transaction_id, method, created_at`

// PaymentRepository persists payments. Rows are immutable once created.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment and populates the generated id.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO payments (request_id, amount, status, transaction_id, method, created_at)
	VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		payment.RequestID, payment.Amount, payment.Status, payment.TransactionID, payment.Method, payment.CreatedAt,
	).Scan(&payment.ID); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// FindByID fetches a payment by identifier.
func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &payment, nil
}

// FindByRequestID returns the earliest payment recorded for a request, or
// sql.ErrNoRows when none exists. At most one paid row exists per request in
// normal operation; the deterministic ordering keeps retries stable.
func (r *PaymentRepository) FindByRequestID(ctx context.Context, requestID int64) (*models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE request_id = $1 ORDER BY created_at ASC, id ASC LIMIT 1`, paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, requestID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find payment by request: %w", err)
	}
	return &payment, nil
}

// FindPaidByRequestID returns the paid payment for a request if one exists.
func (r *PaymentRepository) FindPaidByRequestID(ctx context.Context, requestID int64) (*models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE request_id = $1 AND status = $2 ORDER BY created_at ASC, id ASC LIMIT 1`, paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, requestID, models.PaymentStatusPaid); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find paid payment by request: %w", err)
	}
	return &payment, nil
}
