package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/registrar-office/portal-api/internal/models"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
	"github.com/registrar-office/portal-api/pkg/response"
)

// ContextUserKey is the gin context key storing the resolved principal claims.
const ContextUserKey = "currentUser"

// PrincipalResolver validates a bearer token and resolves it to live claims.
// Tokens for deactivated accounts must not resolve: deactivation is treated
// identically to having no session at all.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid access token bound to an active
// account. Each request resolves its own principal; nothing is shared across
// callers.
func JWT(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := resolver.ResolvePrincipal(c.Request.Context(), parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
