package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/models"
	"github.com/registrar-office/portal-api/internal/repository"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
)

type documentRequestStore interface {
	Create(ctx context.Context, req *models.DocumentRequest) error
	FindByID(ctx context.Context, id int64) (*models.DocumentRequest, error)
	List(ctx context.Context, userID string) ([]models.DocumentRequest, error)
	ExistsPendingForUser(ctx context.Context, userID string) (bool, error)
	UpdateStatus(ctx context.Context, params repository.UpdateStatusParams) (bool, error)
}

type paymentReader interface {
	FindByRequestID(ctx context.Context, requestID int64) (*models.Payment, error)
}

type workflowNotifier interface {
	Notify(ctx context.Context, userID, kind, title, message string)
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// DocumentService orchestrates the document request workflow.
type DocumentService struct {
	repo      documentRequestStore
	payments  paymentReader
	notifier  workflowNotifier
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDocumentService constructs the service.
func NewDocumentService(repo documentRequestStore, payments paymentReader, notifier workflowNotifier, audit auditLogger, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DocumentService{repo: repo, payments: payments, notifier: notifier, audit: audit, metrics: metrics, validator: validate, logger: logger}
}

// List returns document requests visible to the caller: admins see all,
// students only their own. Each record carries its payment when one exists.
func (s *DocumentService) List(ctx context.Context, actor *models.JWTClaims) ([]models.DocumentRequestWithPayment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	scope := actor.UserID
	if actor.Role == models.RoleAdmin {
		scope = ""
	}

	requests, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list document requests")
	}

	result := make([]models.DocumentRequestWithPayment, 0, len(requests))
	for _, req := range requests {
		result = append(result, models.DocumentRequestWithPayment{
			DocumentRequest: req,
			Payment:         s.lookupPayment(ctx, req.ID),
		})
	}
	return result, nil
}

// Create validates the payload, stamps ownership from the caller and stores
// the request in its starting status. A student with a request still in
// flight may not open another one.
func (s *DocumentService) Create(ctx context.Context, req dto.CreateDocumentRequestRequest, actor *models.JWTClaims) (*models.DocumentRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document request payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid document type")
	}
	urgency := req.Urgency
	if urgency == "" {
		urgency = models.UrgencyNormal
	}
	if !urgency.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid urgency")
	}
	copies := req.Copies
	if copies == 0 {
		copies = 1
	}
	if copies < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "copies must be at least 1")
	}

	pending, err := s.repo.ExistsPendingForUser(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending requests")
	}
	if pending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you already have a pending document request")
	}

	request := &models.DocumentRequest{
		UserID:  actor.UserID,
		Type:    req.Type,
		Urgency: urgency,
		Status:  models.DocumentStatusSubmitted,
		Copies:  copies,
		Amount:  req.Amount,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create document request")
	}
	return request, nil
}

// Get returns a single request with its payment. Ids outside the caller's
// scope report NotFound, indistinguishable from ids that do not exist.
func (s *DocumentService) Get(ctx context.Context, id int64, actor *models.JWTClaims) (*models.DocumentRequestWithPayment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document request")
	}
	if actor.Role != models.RoleAdmin && request.UserID != actor.UserID {
		return nil, appErrors.ErrNotFound
	}
	return &models.DocumentRequestWithPayment{
		DocumentRequest: *request,
		Payment:         s.lookupPayment(ctx, request.ID),
	}, nil
}

// UpdateStatus applies an admin decision. The transition is a conditional
// update keyed on the allowed source statuses, so two concurrent reviews of
// the same request cannot both win.
func (s *DocumentService) UpdateStatus(ctx context.Context, id int64, req dto.UpdateDocumentStatusRequest, reviewer *models.JWTClaims) (*models.DocumentRequest, error) {
	if reviewer == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status")
	}
	sources, ok := models.DocumentTransitionSources(req.Status)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("status %s cannot be entered by review", req.Status))
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document request")
	}

	comment := optionalString(req.AdminComment)
	updated, err := s.repo.UpdateStatus(ctx, repository.UpdateStatusParams{
		ID:           id,
		Status:       req.Status,
		Sources:      sources,
		AdminComment: comment,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update document request")
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move request from %s to %s", request.Status, req.Status))
	}

	request.Status = req.Status
	if comment != nil {
		request.AdminComment = comment
	}

	s.metrics.RecordWorkflowTransition("document_request", string(request.Status))
	s.notifier.Notify(ctx, request.UserID, "document_request",
		"Document request update",
		fmt.Sprintf("Your %s request is now %s.", request.Type, request.Status))
	s.emitAudit(ctx, reviewer, "document_request", request.ID, string(request.Status))

	return request, nil
}

func (s *DocumentService) lookupPayment(ctx context.Context, requestID int64) *models.Payment {
	payment, err := s.payments.FindByRequestID(ctx, requestID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load payment for request", zap.Int64("request_id", requestID), zap.Error(err))
		}
		return nil
	}
	return payment
}

func (s *DocumentService) emitAudit(ctx context.Context, actor *models.JWTClaims, resource string, id int64, status string) {
	if s.audit == nil {
		return
	}
	emitStatusAudit(ctx, s.audit, s.logger, actor, resource, id, status)
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
