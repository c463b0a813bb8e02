package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/models"
	"github.com/registrar-office/portal-api/internal/repository"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
)

type majorApplicationStore interface {
	Create(ctx context.Context, app *models.MajorApplication) error
	FindByID(ctx context.Context, id int64) (*models.MajorApplication, error)
	List(ctx context.Context, studentID string) ([]models.MajorApplication, error)
	ExistsPendingForStudent(ctx context.Context, studentID string) (bool, error)
	UpdateStatus(ctx context.Context, params repository.UpdateMajorApplicationStatusParams) (bool, error)
}

// MajorApplicationService handles major declaration and change applications.
type MajorApplicationService struct {
	repo      majorApplicationStore
	notifier  workflowNotifier
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMajorApplicationService constructs the service.
func NewMajorApplicationService(repo majorApplicationStore, notifier workflowNotifier, audit auditLogger, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *MajorApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MajorApplicationService{repo: repo, notifier: notifier, audit: audit, metrics: metrics, validator: validate, logger: logger}
}

// List returns applications visible to the caller: admins see all, students
// only their own.
func (s *MajorApplicationService) List(ctx context.Context, actor *models.JWTClaims) ([]models.MajorApplication, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	scope := actor.UserID
	if actor.Role == models.RoleAdmin {
		scope = ""
	}
	apps, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list major applications")
	}
	if apps == nil {
		apps = []models.MajorApplication{}
	}
	return apps, nil
}

// Create files an application for the calling student. A student with an
// application still under review may not file another.
func (s *MajorApplicationService) Create(ctx context.Context, req dto.CreateMajorApplicationRequest, actor *models.JWTClaims) (*models.MajorApplication, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid major application payload")
	}

	pending, err := s.repo.ExistsPendingForStudent(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending applications")
	}
	if pending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you already have a pending major application")
	}

	app := &models.MajorApplication{
		StudentID:      actor.UserID,
		CurrentMajor:   optionalString(req.CurrentMajor),
		RequestedMajor: req.RequestedMajor,
		School:         req.School,
		Statement:      optionalString(req.Statement),
		Status:         models.MajorApplicationStatusSubmitted,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create major application")
	}
	return app, nil
}

// Get returns a single application. Out-of-scope ids report NotFound.
func (s *MajorApplicationService) Get(ctx context.Context, id int64, actor *models.JWTClaims) (*models.MajorApplication, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load major application")
	}
	if actor.Role != models.RoleAdmin && app.StudentID != actor.UserID {
		return nil, appErrors.ErrNotFound
	}
	return app, nil
}

// UpdateStatus applies an admin decision on an application.
func (s *MajorApplicationService) UpdateStatus(ctx context.Context, id int64, req dto.UpdateMajorApplicationStatusRequest, reviewer *models.JWTClaims) (*models.MajorApplication, error) {
	if reviewer == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status")
	}
	sources, ok := models.MajorApplicationTransitionSources(req.Status)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("status %s cannot be entered by review", req.Status))
	}

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load major application")
	}

	comment := optionalString(req.AdminComment)
	updated, err := s.repo.UpdateStatus(ctx, repository.UpdateMajorApplicationStatusParams{
		ID:           id,
		Status:       req.Status,
		Sources:      sources,
		AdminComment: comment,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update major application")
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move application from %s to %s", app.Status, req.Status))
	}

	app.Status = req.Status
	if comment != nil {
		app.AdminComment = comment
	}

	s.metrics.RecordWorkflowTransition("major_application", string(app.Status))
	s.notifier.Notify(ctx, app.StudentID, "major_application",
		"Major application update",
		fmt.Sprintf("Your application for %s is now %s.", app.RequestedMajor, app.Status))
	if s.audit != nil {
		emitStatusAudit(ctx, s.audit, s.logger, reviewer, "major_application", app.ID, string(app.Status))
	}

	return app, nil
}
