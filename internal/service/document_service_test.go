package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/models"
	"github.com/registrar-office/portal-api/internal/repository"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
)

type mockDocumentStore struct {
	requests      map[int64]*models.DocumentRequest
	pendingExists bool
	nextID        int64
	updateResult  bool
	lastUpdate    repository.UpdateStatusParams
}

func (m *mockDocumentStore) Create(ctx context.Context, req *models.DocumentRequest) error {
	m.nextID++
	req.ID = m.nextID
	if m.requests == nil {
		m.requests = make(map[int64]*models.DocumentRequest)
	}
	m.requests[req.ID] = req
	return nil
}

func (m *mockDocumentStore) FindByID(ctx context.Context, id int64) (*models.DocumentRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (m *mockDocumentStore) List(ctx context.Context, userID string) ([]models.DocumentRequest, error) {
	var out []models.DocumentRequest
	for _, req := range m.requests {
		if userID == "" || req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (m *mockDocumentStore) ExistsPendingForUser(ctx context.Context, userID string) (bool, error) {
	return m.pendingExists, nil
}

func (m *mockDocumentStore) UpdateStatus(ctx context.Context, params repository.UpdateStatusParams) (bool, error) {
	m.lastUpdate = params
	if m.updateResult {
		if req, ok := m.requests[params.ID]; ok {
			req.Status = params.Status
		}
	}
	return m.updateResult, nil
}

type mockPaymentReader struct {
	payments map[int64]*models.Payment
}

func (m *mockPaymentReader) FindByRequestID(ctx context.Context, requestID int64) (*models.Payment, error) {
	payment, ok := m.payments[requestID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return payment, nil
}

type mockNotifier struct {
	notified []string
}

func (m *mockNotifier) Notify(ctx context.Context, userID, kind, title, message string) {
	m.notified = append(m.notified, userID+":"+kind)
}

type mockAudit struct {
	logs []*models.AuditLog
}

func (m *mockAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func studentClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleStudent, Username: "student1"}
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "a1", Role: models.RoleAdmin, Username: "admin1"}
}

func newDocumentService(store *mockDocumentStore, payments *mockPaymentReader, notifier *mockNotifier, audit *mockAudit) *DocumentService {
	if payments == nil {
		payments = &mockPaymentReader{}
	}
	if notifier == nil {
		notifier = &mockNotifier{}
	}
	if audit == nil {
		audit = &mockAudit{}
	}
	return NewDocumentService(store, payments, notifier, audit, nil, nil, nil)
}

func TestDocumentCreateDefaults(t *testing.T) {
	store := &mockDocumentStore{}
	svc := newDocumentService(store, nil, nil, nil)

	req, err := svc.Create(context.Background(), dto.CreateDocumentRequestRequest{
		Type: models.DocumentTypeTranscript,
	}, studentClaims("u1"))
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusSubmitted, req.Status)
	assert.Equal(t, models.UrgencyNormal, req.Urgency)
	assert.Equal(t, 1, req.Copies)
	assert.Equal(t, "u1", req.UserID)
}

func TestDocumentCreateRejectsSecondPending(t *testing.T) {
	store := &mockDocumentStore{pendingExists: true}
	svc := newDocumentService(store, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateDocumentRequestRequest{
		Type: models.DocumentTypeDegree,
	}, studentClaims("u1"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestDocumentCreateInvalidType(t *testing.T) {
	svc := newDocumentService(&mockDocumentStore{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateDocumentRequestRequest{
		Type: "passport",
	}, studentClaims("u1"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestDocumentGetOutOfScopeIsNotFound(t *testing.T) {
	store := &mockDocumentStore{requests: map[int64]*models.DocumentRequest{
		1: {ID: 1, UserID: "owner", Status: models.DocumentStatusSubmitted},
	}}
	svc := newDocumentService(store, nil, nil, nil)

	_, err := svc.Get(context.Background(), 1, studentClaims("intruder"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	// admin sees everything
	got, err := svc.Get(context.Background(), 1, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
}

func TestDocumentGetAttachesPayment(t *testing.T) {
	store := &mockDocumentStore{requests: map[int64]*models.DocumentRequest{
		1: {ID: 1, UserID: "u1", Status: models.DocumentStatusPendingApproval},
	}}
	payments := &mockPaymentReader{payments: map[int64]*models.Payment{
		1: {ID: 9, RequestID: 1, Amount: 500, Status: models.PaymentStatusPaid},
	}}
	svc := newDocumentService(store, payments, nil, nil)

	got, err := svc.Get(context.Background(), 1, studentClaims("u1"))
	require.NoError(t, err)
	require.NotNil(t, got.Payment)
	assert.Equal(t, int64(9), got.Payment.ID)
}

func TestDocumentUpdateStatusApprove(t *testing.T) {
	store := &mockDocumentStore{
		requests: map[int64]*models.DocumentRequest{
			1: {ID: 1, UserID: "u1", Type: models.DocumentTypeTranscript, Status: models.DocumentStatusPendingApproval},
		},
		updateResult: true,
	}
	notifier := &mockNotifier{}
	audit := &mockAudit{}
	svc := newDocumentService(store, nil, notifier, audit)

	updated, err := svc.UpdateStatus(context.Background(), 1, dto.UpdateDocumentStatusRequest{
		Status:       models.DocumentStatusApproved,
		AdminComment: "verified",
	}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusApproved, updated.Status)
	require.NotNil(t, updated.AdminComment)
	assert.Equal(t, "verified", *updated.AdminComment)
	assert.Contains(t, store.lastUpdate.Sources, models.DocumentStatusPendingApproval)
	assert.Equal(t, []string{"u1:document_request"}, notifier.notified)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionStatusReview, audit.logs[0].Action)
}

func TestDocumentUpdateStatusLostRace(t *testing.T) {
	store := &mockDocumentStore{
		requests: map[int64]*models.DocumentRequest{
			1: {ID: 1, UserID: "u1", Status: models.DocumentStatusApproved},
		},
		updateResult: false,
	}
	svc := newDocumentService(store, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, dto.UpdateDocumentStatusRequest{
		Status: models.DocumentStatusApproved,
	}, adminClaims())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestDocumentUpdateStatusSubmittedNotReachable(t *testing.T) {
	store := &mockDocumentStore{requests: map[int64]*models.DocumentRequest{
		1: {ID: 1, UserID: "u1", Status: models.DocumentStatusApproved},
	}}
	svc := newDocumentService(store, nil, nil, nil)

	// submitted has no review sources, it is only ever an initial state
	_, err := svc.UpdateStatus(context.Background(), 1, dto.UpdateDocumentStatusRequest{
		Status: models.DocumentStatusSubmitted,
	}, adminClaims())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestDocumentUpdateStatusUnknownID(t *testing.T) {
	svc := newDocumentService(&mockDocumentStore{}, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), 42, dto.UpdateDocumentStatusRequest{
		Status: models.DocumentStatusApproved,
	}, adminClaims())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDocumentListScope(t *testing.T) {
	store := &mockDocumentStore{requests: map[int64]*models.DocumentRequest{
		1: {ID: 1, UserID: "u1", Status: models.DocumentStatusSubmitted},
		2: {ID: 2, UserID: "u2", Status: models.DocumentStatusApproved},
	}}
	svc := newDocumentService(store, nil, nil, nil)

	mine, err := svc.List(context.Background(), studentClaims("u1"))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(context.Background(), adminClaims())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
