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

const petitionColumns = `id, instructor_id, student_id, course_code, current_grade, new_grade, justification, status, admin_comment, created_at, updated_at`

// PetitionRepository persists grade-change petitions.
type PetitionRepository struct {
	db *sqlx.DB
}

// NewPetitionRepository constructs the repository.
func NewPetitionRepository(db *sqlx.DB) *PetitionRepository {
	return &PetitionRepository{db: db}
}

// Create inserts a petition and populates the generated id.
func (r *PetitionRepository) Create(ctx context.Context, petition *models.Petition) error {
	now := time.Now().UTC()
	if petition.CreatedAt.IsZero() {
		petition.CreatedAt = now
	}
	petition.UpdatedAt = now

	const query = `INSERT INTO grade_change_petitions (instructor_id, student_id, course_code, current_grade, new_grade, justification, status, admin_comment, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		petition.InstructorID, petition.StudentID, petition.CourseCode, petition.CurrentGrade,
		petition.NewGrade, petition.Justification, petition.Status, petition.AdminComment,
		petition.CreatedAt, petition.UpdatedAt,
	).Scan(&petition.ID); err != nil {
		return fmt.Errorf("create petition: %w", err)
	}
	return nil
}

// FindByID fetches a petition by identifier.
func (r *PetitionRepository) FindByID(ctx context.Context, id int64) (*models.Petition, error) {
	query := fmt.Sprintf(`SELECT %s FROM grade_change_petitions WHERE id = $1`, petitionColumns)
	var petition models.Petition
	if err := r.db.GetContext(ctx, &petition, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find petition: %w", err)
	}
	return &petition, nil
}

// List returns petitions newest first, scoped to an instructor when set.
func (r *PetitionRepository) List(ctx context.Context, instructorID string) ([]models.Petition, error) {
	var (
		query string
		args  []interface{}
	)
	if instructorID != "" {
		query = fmt.Sprintf(`SELECT %s FROM grade_change_petitions WHERE instructor_id = $1 ORDER BY created_at DESC`, petitionColumns)
		args = append(args, instructorID)
	} else {
		query = fmt.Sprintf(`SELECT %s FROM grade_change_petitions ORDER BY created_at DESC`, petitionColumns)
	}

	var petitions []models.Petition
	if err := r.db.SelectContext(ctx, &petitions, query, args...); err != nil {
		return nil, fmt.Errorf("list petitions: %w", err)
	}
	return petitions, nil
}

// ExistsPendingForInstructor reports whether the instructor already has an
// unreviewed petition.
func (r *PetitionRepository) ExistsPendingForInstructor(ctx context.Context, instructorID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM grade_change_petitions WHERE instructor_id = $1 AND status = ANY($2))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, instructorID, pq.Array(petitionStatusStrings(models.PetitionPendingStatuses))); err != nil {
		return false, fmt.Errorf("check pending petition: %w", err)
	}
	return exists, nil
}

// UpdatePetitionStatusParams groups the inputs of the conditional update.
type UpdatePetitionStatusParams struct {
	ID           int64
	Status       models.PetitionStatus
	Sources      []models.PetitionStatus
	AdminComment *string
}

// UpdateStatus performs a compare-and-swap on status. Returns false when the
// current status was not in Sources.
func (r *PetitionRepository) UpdateStatus(ctx context.Context, params UpdatePetitionStatusParams) (bool, error) {
	const query = `UPDATE grade_change_petitions
	SET status = $1, admin_comment = COALESCE($2, admin_comment), updated_at = $3
	WHERE id = $4 AND status = ANY($5)`
	res, err := r.db.ExecContext(ctx, query,
		params.Status, params.AdminComment, time.Now().UTC(), params.ID, pq.Array(petitionStatusStrings(params.Sources)),
	)
	if err != nil {
		return false, fmt.Errorf("update petition status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update petition status: %w", err)
	}
	return affected > 0, nil
}

func petitionStatusStrings(statuses []models.PetitionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
