package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/models"
	"github.com/registrar-office/portal-api/internal/repository"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
	"github.com/registrar-office/portal-api/pkg/export"
)

type paymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id int64) (*models.Payment, error)
	FindPaidByRequestID(ctx context.Context, requestID int64) (*models.Payment, error)
}

type paymentRequestStore interface {
	FindByID(ctx context.Context, id int64) (*models.DocumentRequest, error)
	UpdateStatus(ctx context.Context, params repository.UpdateStatusParams) (bool, error)
}

type receiptRenderer interface {
	RenderReceipt(title string, fields [][2]string) ([]byte, error)
}

// PaymentService records fee payments against document requests. The
// processor is a mock: every accepted payment settles immediately.
type PaymentService struct {
	payments  paymentStore
	requests  paymentRequestStore
	receipts  receiptRenderer
	notifier  workflowNotifier
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs the service.
func NewPaymentService(payments paymentStore, requests paymentRequestStore, receipts receiptRenderer, notifier workflowNotifier, audit auditLogger, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if receipts == nil {
		receipts = export.NewPDFExporter()
	}
	return &PaymentService{payments: payments, requests: requests, receipts: receipts, notifier: notifier, audit: audit, metrics: metrics, validator: validate, logger: logger}
}

// Process settles a payment for the caller's document request and advances
// the request to pending approval. Replays are idempotent: if the request is
// already paid the stored payment is returned untouched (created=false) and
// the status advance is re-attempted so a retry recovers a request stranded
// by an earlier partial failure.
func (s *PaymentService) Process(ctx context.Context, req dto.ProcessPaymentRequest, actor *models.JWTClaims) (*models.Payment, bool, error) {
	if actor == nil {
		return nil, false, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if !req.Method.Valid() {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "invalid payment method")
	}

	request, err := s.requests.FindByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.ErrNotFound
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document request")
	}
	if actor.Role != models.RoleAdmin && request.UserID != actor.UserID {
		return nil, false, appErrors.ErrNotFound
	}

	if existing, err := s.payments.FindPaidByRequestID(ctx, req.RequestID); err == nil {
		if err := s.advanceToPending(ctx, req.RequestID); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing payment")
	}

	if !documentStatusIn(request.Status, models.DocumentPayableStatuses) {
		return nil, false, appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("request in status %s cannot be paid", request.Status))
	}

	payment := &models.Payment{
		RequestID:     req.RequestID,
		Amount:        req.Amount,
		Status:        models.PaymentStatusPaid,
		TransactionID: newTransactionID(),
		Method:        req.Method,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	if err := s.advanceToPending(ctx, req.RequestID); err != nil {
		return nil, false, err
	}

	s.notifier.Notify(ctx, request.UserID, "payment",
		"Payment received",
		fmt.Sprintf("Payment of %d received for your %s request.", payment.Amount, request.Type))
	s.emitAudit(ctx, actor, payment)

	return payment, true, nil
}

// advanceToPending moves the paid request to pending_approval. A lost CAS is
// not an error: the request was reviewed between our read and the update, and
// the reviewer's decision supersedes the pending-approval step.
func (s *PaymentService) advanceToPending(ctx context.Context, requestID int64) error {
	moved, err := s.requests.UpdateStatus(ctx, repository.UpdateStatusParams{
		ID:      requestID,
		Status:  models.DocumentStatusPendingApproval,
		Sources: models.DocumentPayableStatuses,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to advance document request")
	}
	if moved {
		s.metrics.RecordWorkflowTransition("document_request", string(models.DocumentStatusPendingApproval))
	} else {
		s.logger.Warn("payment recorded but request status already advanced",
			zap.Int64("request_id", requestID))
	}
	return nil
}

// newTransactionID mirrors the legacy portal's format: the first eight hex
// characters of a UUID, uppercased.
func newTransactionID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// Receipt renders a PDF receipt for a settled payment. Students can only
// fetch receipts for their own requests.
func (s *PaymentService) Receipt(ctx context.Context, paymentID int64, actor *models.JWTClaims) ([]byte, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}

	request, err := s.requests.FindByID(ctx, payment.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document request")
	}
	if actor.Role != models.RoleAdmin && request.UserID != actor.UserID {
		return nil, appErrors.ErrNotFound
	}

	fields := [][2]string{
		{"Transaction", payment.TransactionID},
		{"Request", strconv.FormatInt(payment.RequestID, 10)},
		{"Document", string(request.Type)},
		{"Amount", strconv.FormatInt(payment.Amount, 10)},
		{"Method", string(payment.Method)},
		{"Status", string(payment.Status)},
		{"Paid at", payment.CreatedAt.Format(time.RFC3339)},
	}
	data, err := s.receipts.RenderReceipt("Payment Receipt", fields)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}
	return data, nil
}

func (s *PaymentService) emitAudit(ctx context.Context, actor *models.JWTClaims, payment *models.Payment) {
	if s.audit == nil {
		return
	}
	resourceID := strconv.FormatInt(payment.ID, 10)
	payload, _ := json.Marshal(map[string]any{
		"request_id": payment.RequestID,
		"amount":     payment.Amount,
		"method":     payment.Method,
	})
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionPaymentProcess,
		Resource:   "payment",
		ResourceID: &resourceID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func documentStatusIn(status models.DocumentStatus, set []models.DocumentStatus) bool {
	for _, candidate := range set {
		if status == candidate {
			return true
		}
	}
	return false
}
