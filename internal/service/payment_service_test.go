package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/models"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
)

type mockPaymentStore struct {
	payments map[int64]*models.Payment
	paid     map[int64]*models.Payment
	nextID   int64
}

func (m *mockPaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	m.nextID++
	payment.ID = m.nextID
	if m.payments == nil {
		m.payments = make(map[int64]*models.Payment)
	}
	if m.paid == nil {
		m.paid = make(map[int64]*models.Payment)
	}
	m.payments[payment.ID] = payment
	if payment.Status == models.PaymentStatusPaid {
		m.paid[payment.RequestID] = payment
	}
	return nil
}

func (m *mockPaymentStore) FindByID(ctx context.Context, id int64) (*models.Payment, error) {
	payment, ok := m.payments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return payment, nil
}

func (m *mockPaymentStore) FindPaidByRequestID(ctx context.Context, requestID int64) (*models.Payment, error) {
	payment, ok := m.paid[requestID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return payment, nil
}

func newPaymentService(payments *mockPaymentStore, requests *mockDocumentStore) (*PaymentService, *mockNotifier, *mockAudit) {
	notifier := &mockNotifier{}
	audit := &mockAudit{}
	svc := NewPaymentService(payments, requests, nil, notifier, audit, nil, nil, nil)
	return svc, notifier, audit
}

func TestPaymentProcessAdvancesRequest(t *testing.T) {
	requests := &mockDocumentStore{
		requests: map[int64]*models.DocumentRequest{
			1: {ID: 1, UserID: "u1", Type: models.DocumentTypeTranscript, Status: models.DocumentStatusSubmitted},
		},
		updateResult: true,
	}
	payments := &mockPaymentStore{}
	svc, notifier, audit := newPaymentService(payments, requests)

	payment, created, err := svc.Process(context.Background(), dto.ProcessPaymentRequest{
		RequestID: 1,
		Amount:    500,
		Method:    models.PaymentMethodOnline,
	}, studentClaims("u1"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	assert.Len(t, payment.TransactionID, 8)
	assert.Equal(t, strings.ToUpper(payment.TransactionID), payment.TransactionID)
	assert.Equal(t, models.DocumentStatusPendingApproval, requests.lastUpdate.Status)
	assert.Equal(t, []string{"u1:payment"}, notifier.notified)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionPaymentProcess, audit.logs[0].Action)
}

func TestPaymentProcessIdempotentReplay(t *testing.T) {
	requests := &mockDocumentStore{
		requests: map[int64]*models.DocumentRequest{
			1: {ID: 1, UserID: "u1", Status: models.DocumentStatusSubmitted},
		},
		updateResult: true,
	}
	payments := &mockPaymentStore{}
	svc, _, _ := newPaymentService(payments, requests)

	first, created, err := svc.Process(context.Background(), dto.ProcessPaymentRequest{
		RequestID: 1, Amount: 500, Method: models.PaymentMethodOnline,
	}, studentClaims("u1"))
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Process(context.Background(), dto.ProcessPaymentRequest{
		RequestID: 1, Amount: 500, Method: models.PaymentMethodOnline,
	}, studentClaims("u1"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, payments.payments, 1)
}

func TestPaymentProcessWrongStatus(t *testing.T) {
	requests := &mockDocumentStore{
		requests: map[int64]*models.DocumentRequest{
			1: {ID: 1, UserID: "u1", Status: models.DocumentStatusRejected},
		},
	}
	svc, _, _ := newPaymentService(&mockPaymentStore{}, requests)

	_, _, err := svc.Process(context.Background(), dto.ProcessPaymentRequest{
		RequestID: 1, Amount: 500, Method: models.PaymentMethodVoucher,
	}, studentClaims("u1"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErr.Code)
}

func TestPaymentProcessForeignRequestIsNotFound(t *testing.T) {
	requests := &mockDocumentStore{
		requests: map[int64]*models.DocumentRequest{
			1: {ID: 1, UserID: "owner", Status: models.DocumentStatusSubmitted},
		},
	}
	svc, _, _ := newPaymentService(&mockPaymentStore{}, requests)

	_, _, err := svc.Process(context.Background(), dto.ProcessPaymentRequest{
		RequestID: 1, Amount: 500, Method: models.PaymentMethodOnline,
	}, studentClaims("intruder"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPaymentProcessInvalidMethod(t *testing.T) {
	svc, _, _ := newPaymentService(&mockPaymentStore{}, &mockDocumentStore{})

	_, _, err := svc.Process(context.Background(), dto.ProcessPaymentRequest{
		RequestID: 1, Amount: 500, Method: "cheque",
	}, studentClaims("u1"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestPaymentReceiptScope(t *testing.T) {
	requests := &mockDocumentStore{
		requests: map[int64]*models.DocumentRequest{
			1: {ID: 1, UserID: "u1", Type: models.DocumentTypeTranscript, Status: models.DocumentStatusPendingApproval},
		},
	}
	payments := &mockPaymentStore{
		payments: map[int64]*models.Payment{
			9: {ID: 9, RequestID: 1, Amount: 500, Status: models.PaymentStatusPaid, TransactionID: "1A2B3C4D", Method: models.PaymentMethodOnline},
		},
	}
	svc, _, _ := newPaymentService(payments, requests)

	data, err := svc.Receipt(context.Background(), 9, studentClaims("u1"))
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	_, err = svc.Receipt(context.Background(), 9, studentClaims("intruder"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
