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

const majorApplicationColumns = `id, student_id, current_major, requested_major, school, statement, status, admin_comment, created_at, updated_at`

// MajorApplicationRepository persists major declaration applications.
type MajorApplicationRepository struct {
	db *sqlx.DB
}

// NewMajorApplicationRepository constructs the repository.
func NewMajorApplicationRepository(db *sqlx.DB) *MajorApplicationRepository {
	return &MajorApplicationRepository{db: db}
}

// Create inserts an application and populates the generated id.
func (r *MajorApplicationRepository) Create(ctx context.Context, app *models.MajorApplication) error {
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now

	const query = `INSERT INTO major_applications (student_id, current_major, requested_major, school, statement, status, admin_comment, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		app.StudentID, app.CurrentMajor, app.RequestedMajor, app.School, app.Statement,
		app.Status, app.AdminComment, app.CreatedAt, app.UpdatedAt,
	).Scan(&app.ID); err != nil {
		return fmt.Errorf("create major application: %w", err)
	}
	return nil
}

// FindByID fetches an application by identifier.
func (r *MajorApplicationRepository) FindByID(ctx context.Context, id int64) (*models.MajorApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM major_applications WHERE id = $1`, majorApplicationColumns)
	var app models.MajorApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find major application: %w", err)
	}
	return &app, nil
}

// List returns applications newest first, scoped to a student when set.
func (r *MajorApplicationRepository) List(ctx context.Context, studentID string) ([]models.MajorApplication, error) {
	var (
		query string
		args  []interface{}
	)
	if studentID != "" {
		query = fmt.Sprintf(`SELECT %s FROM major_applications WHERE student_id = $1 ORDER BY created_at DESC`, majorApplicationColumns)
		args = append(args, studentID)
	} else {
		query = fmt.Sprintf(`SELECT %s FROM major_applications ORDER BY created_at DESC`, majorApplicationColumns)
	}

	var apps []models.MajorApplication
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, fmt.Errorf("list major applications: %w", err)
	}
	return apps, nil
}

// ExistsPendingForStudent reports whether the student already has an
// application awaiting review. Enforced server-side; the client check alone
// is not trustworthy.
func (r *MajorApplicationRepository) ExistsPendingForStudent(ctx context.Context, studentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM major_applications WHERE student_id = $1 AND status = ANY($2))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, pq.Array(majorApplicationStatusStrings(models.MajorApplicationPendingStatuses))); err != nil {
		return false, fmt.Errorf("check pending major application: %w", err)
	}
	return exists, nil
}

// UpdateMajorApplicationStatusParams groups the inputs of the conditional update.
type UpdateMajorApplicationStatusParams struct {
	ID           int64
	Status       models.MajorApplicationStatus
	Sources      []models.MajorApplicationStatus
	AdminComment *string
}

// UpdateStatus performs a compare-and-swap on status. Returns false when the
// current status was not in Sources.
func (r *MajorApplicationRepository) UpdateStatus(ctx context.Context, params UpdateMajorApplicationStatusParams) (bool, error) {
	const query = `UPDATE major_applications
	SET status = $1, admin_comment = COALESCE($2, admin_comment), updated_at = $3
	WHERE id = $4 AND status = ANY($5)`
	res, err := r.db.ExecContext(ctx, query,
		params.Status, params.AdminComment, time.Now().UTC(), params.ID, pq.Array(majorApplicationStatusStrings(params.Sources)),
	)
	if err != nil {
		return false, fmt.Errorf("update major application status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update major application status: %w", err)
	}
	return affected > 0, nil
}

func majorApplicationStatusStrings(statuses []models.MajorApplicationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
