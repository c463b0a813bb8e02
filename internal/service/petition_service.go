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

type petitionStore interface {
	Create(ctx context.Context, petition *models.Petition) error
	FindByID(ctx context.Context, id int64) (*models.Petition, error)
	List(ctx context.Context, instructorID string) ([]models.Petition, error)
	ExistsPendingForInstructor(ctx context.Context, instructorID string) (bool, error)
	UpdateStatus(ctx context.Context, params repository.UpdatePetitionStatusParams) (bool, error)
}

// PetitionService handles grade-change petitions filed by instructors and
// reviewed by admins.
type PetitionService struct {
	repo      petitionStore
	notifier  workflowNotifier
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPetitionService constructs the service.
func NewPetitionService(repo petitionStore, notifier workflowNotifier, audit auditLogger, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PetitionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PetitionService{repo: repo, notifier: notifier, audit: audit, metrics: metrics, validator: validate, logger: logger}
}

// List returns petitions visible to the caller: admins see all, instructors
// only their own filings.
func (s *PetitionService) List(ctx context.Context, actor *models.JWTClaims) ([]models.Petition, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	scope := actor.UserID
	if actor.Role == models.RoleAdmin {
		scope = ""
	}
	petitions, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list petitions")
	}
	if petitions == nil {
		petitions = []models.Petition{}
	}
	return petitions, nil
}

// Create files a petition on behalf of the calling instructor. An instructor
// with a petition still under review may not file another.
func (s *PetitionService) Create(ctx context.Context, req dto.CreatePetitionRequest, actor *models.JWTClaims) (*models.Petition, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid petition payload")
	}

	pending, err := s.repo.ExistsPendingForInstructor(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending petitions")
	}
	if pending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you already have a pending petition")
	}

	petition := &models.Petition{
		InstructorID:  actor.UserID,
		StudentID:     req.StudentID,
		CourseCode:    req.CourseCode,
		CurrentGrade:  req.CurrentGrade,
		NewGrade:      req.NewGrade,
		Justification: req.Justification,
		Status:        models.PetitionStatusSubmitted,
	}
	if err := s.repo.Create(ctx, petition); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create petition")
	}
	return petition, nil
}

// Get returns a single petition. Out-of-scope ids report NotFound.
func (s *PetitionService) Get(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Petition, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	petition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load petition")
	}
	if actor.Role != models.RoleAdmin && petition.InstructorID != actor.UserID {
		return nil, appErrors.ErrNotFound
	}
	return petition, nil
}

// UpdateStatus applies an admin decision on a petition.
func (s *PetitionService) UpdateStatus(ctx context.Context, id int64, req dto.UpdatePetitionStatusRequest, reviewer *models.JWTClaims) (*models.Petition, error) {
	if reviewer == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status")
	}
	sources, ok := models.PetitionTransitionSources(req.Status)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("status %s cannot be entered by review", req.Status))
	}

	petition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load petition")
	}

	comment := optionalString(req.AdminComment)
	updated, err := s.repo.UpdateStatus(ctx, repository.UpdatePetitionStatusParams{
		ID:           id,
		Status:       req.Status,
		Sources:      sources,
		AdminComment: comment,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update petition")
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move petition from %s to %s", petition.Status, req.Status))
	}

	petition.Status = req.Status
	if comment != nil {
		petition.AdminComment = comment
	}

	s.metrics.RecordWorkflowTransition("petition", string(petition.Status))
	s.notifier.Notify(ctx, petition.InstructorID, "petition",
		"Grade change petition update",
		fmt.Sprintf("Your petition for %s is now %s.", petition.CourseCode, petition.Status))
	s.emitPetitionAudit(ctx, reviewer, petition)

	return petition, nil
}

func (s *PetitionService) emitPetitionAudit(ctx context.Context, actor *models.JWTClaims, petition *models.Petition) {
	if s.audit == nil {
		return
	}
	emitStatusAudit(ctx, s.audit, s.logger, actor, "petition", petition.ID, string(petition.Status))
}
