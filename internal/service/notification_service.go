package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/registrar-office/portal-api/internal/models"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
)

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64, userID string) (bool, error)
}

// NotificationService manages in-app notifications. Workflow services call
// Notify best-effort: a failed insert is logged and never fails the
// originating operation.
type NotificationService struct {
	repo    notificationStore
	logger  *zap.Logger
	enabled bool
}

// NewNotificationService constructs the service.
func NewNotificationService(repo notificationStore, logger *zap.Logger, enabled bool) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, logger: logger, enabled: enabled}
}

// ListForUser returns the caller's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead flags the caller's notification as read. Ids outside the caller's
// scope report NotFound.
func (s *NotificationService) MarkRead(ctx context.Context, id int64, userID string) error {
	ok, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	if !ok {
		return appErrors.ErrNotFound
	}
	return nil
}

// Notify inserts a workflow notification row for the user. Failures are
// swallowed after logging; notification rows are advisory.
func (s *NotificationService) Notify(ctx context.Context, userID, kind, title, message string) {
	if !s.enabled || userID == "" {
		return
	}
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    &kind,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("failed to create notification",
			zap.String("user_id", userID),
			zap.String("kind", kind),
			zap.Error(err))
	}
}
