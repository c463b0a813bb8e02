package service

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/registrar-office/portal-api/internal/models"
)

// emitStatusAudit records a review decision. Audit writes are best effort
// and never fail the operation that triggered them.
func emitStatusAudit(ctx context.Context, audit auditLogger, logger *zap.Logger, actor *models.JWTClaims, resource string, id int64, status string) {
	resourceID := strconv.FormatInt(id, 10)
	payload, _ := json.Marshal(map[string]string{"status": status})
	if err := audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionStatusReview,
		Resource:   resource,
		ResourceID: &resourceID,
		NewValues:  payload,
	}); err != nil {
		logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
