package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/registrar-office/portal-api/internal/models"
)

const documentRequestColumns = `id, user_id, type, urgency, status, copies, amount, admin_comment, created_at, updated_at`

// DocumentRequestRepository persists document requests.
type DocumentRequestRepository struct {
	db *sqlx.DB
}

// NewDocumentRequestRepository constructs the repository.
func NewDocumentRequestRepository(db *sqlx.DB) *DocumentRequestRepository {
	return &DocumentRequestRepository{db: db}
}

// Create inserts a new request and populates the generated id.
func (r *DocumentRequestRepository) Create(ctx context.Context, req *models.DocumentRequest) error {
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	const query = `INSERT INTO document_requests (user_id, type, urgency, status, copies, amount, admin_comment, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		req.UserID, req.Type, req.Urgency, req.Status, req.Copies, req.Amount, req.AdminComment, req.CreatedAt, req.UpdatedAt,
	).Scan(&req.ID); err != nil {
		return fmt.Errorf("create document request: %w", err)
	}
	return nil
}

// FindByID fetches a request by identifier.
func (r *DocumentRequestRepository) FindByID(ctx context.Context, id int64) (*models.DocumentRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM document_requests WHERE id = $1`, documentRequestColumns)
	var req models.DocumentRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find document request: %w", err)
	}
	return &req, nil
}

// List returns requests newest first, scoped to a user when userID is set.
func (r *DocumentRequestRepository) List(ctx context.Context, userID string) ([]models.DocumentRequest, error) {
	var (
		query string
		args  []interface{}
	)
	if userID != "" {
		query = fmt.Sprintf(`SELECT %s FROM document_requests WHERE user_id = $1 ORDER BY created_at DESC`, documentRequestColumns)
		args = append(args, userID)
	} else {
		query = fmt.Sprintf(`SELECT %s FROM document_requests ORDER BY created_at DESC`, documentRequestColumns)
	}

	var requests []models.DocumentRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list document requests: %w", err)
	}
	return requests, nil
}

// ExistsPendingForUser reports whether the user already has a request in a
// non-terminal status.
func (r *DocumentRequestRepository) ExistsPendingForUser(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM document_requests WHERE user_id = $1 AND status = ANY($2))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, pq.Array(documentStatusStrings(models.DocumentPendingStatuses))); err != nil {
		return false, fmt.Errorf("check pending document request: %w", err)
	}
	return exists, nil
}

// UpdateStatusParams groups the inputs of the conditional status update.
type UpdateStatusParams struct {
	ID           int64
	Status       models.DocumentStatus
	Sources      []models.DocumentStatus
	AdminComment *string
}

// UpdateStatus performs a compare-and-swap on status: the row is only updated
// when its current status is in Sources. Returns false when no row matched,
// which callers interpret as an invalid transition (or a lost race).
func (r *DocumentRequestRepository) UpdateStatus(ctx context.Context, params UpdateStatusParams) (bool, error) {
	const query = `UPDATE document_requests
	SET status = $1, admin_comment = COALESCE($2, admin_comment), updated_at = $3
	WHERE id = $4 AND status = ANY($5)`
	res, err := r.db.ExecContext(ctx, query,
		params.Status, params.AdminComment, time.Now().UTC(), params.ID, pq.Array(documentStatusStrings(params.Sources)),
	)
	if err != nil {
		return false, fmt.Errorf("update document request status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update document request status: %w", err)
	}
	return affected > 0, nil
}

func documentStatusStrings(statuses []models.DocumentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
