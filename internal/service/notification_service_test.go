package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-office/portal-api/internal/models"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
)

type mockNotificationStore struct {
	notifications []models.Notification
	markReadOK    bool
}

func (m *mockNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	n.ID = int64(len(m.notifications) + 1)
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *mockNotificationStore) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, id int64, userID string) (bool, error) {
	return m.markReadOK, nil
}

func TestNotifyInsertsRow(t *testing.T) {
	store := &mockNotificationStore{}
	svc := NewNotificationService(store, nil, true)

	svc.Notify(context.Background(), "u1", "payment", "Payment received", "Payment of 500 received.")
	require.Len(t, store.notifications, 1)
	assert.Equal(t, "u1", store.notifications[0].UserID)
	require.NotNil(t, store.notifications[0].Type)
	assert.Equal(t, "payment", *store.notifications[0].Type)
}

func TestNotifyDisabledIsNoop(t *testing.T) {
	store := &mockNotificationStore{}
	svc := NewNotificationService(store, nil, false)

	svc.Notify(context.Background(), "u1", "payment", "Payment received", "ignored")
	assert.Empty(t, store.notifications)
}

func TestListForUserNeverReturnsNil(t *testing.T) {
	svc := NewNotificationService(&mockNotificationStore{}, nil, true)

	notifications, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, notifications)
	assert.Empty(t, notifications)
}

func TestMarkReadUnknownIsNotFound(t *testing.T) {
	svc := NewNotificationService(&mockNotificationStore{markReadOK: false}, nil, true)

	err := svc.MarkRead(context.Background(), 42, "u1")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
