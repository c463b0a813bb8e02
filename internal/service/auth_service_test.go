package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/registrar-office/portal-api/internal/models"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
)

type mockAuthRepo struct {
	userByUsername *models.User
	userByID       *models.User
	findByIDErr    error
	refreshTokens  map[string]*models.RefreshToken
	auditLogs      []*models.AuditLog
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.userByUsername == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByUsername, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.userByID != nil {
		return m.userByID, nil
	}
	if m.userByUsername != nil {
		return m.userByUsername, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.refreshTokens == nil {
		m.refreshTokens = make(map[string]*models.RefreshToken)
	}
	m.refreshTokens[token.Token] = token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := m.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rt, nil
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, token := range m.refreshTokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for _, token := range m.refreshTokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "registrar-portal",
	})
}

func activeStudent(t *testing.T) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &models.User{ID: "u1", Username: "student1", PasswordHash: string(hash), Role: models.RoleStudent, IsActive: true}
}

func TestAuthLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{userByUsername: activeStudent(t)}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "student1", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "student1", res.User.Username)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{userByUsername: activeStudent(t)}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "student1", Password: "nope"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthLoginUnknownUser(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "password"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	user := activeStudent(t)
	user.IsActive = false
	svc := newAuthService(&mockAuthRepo{userByUsername: user})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "student1", Password: "password"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthRefreshRotatesToken(t *testing.T) {
	repo := &mockAuthRepo{userByUsername: activeStudent(t)}
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "student1", Password: "password"})
	require.NoError(t, err)

	res, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, res.RefreshToken)
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)

	// the used token cannot be exchanged again
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthResolvePrincipalRefreshesRole(t *testing.T) {
	user := activeStudent(t)
	repo := &mockAuthRepo{userByUsername: user}
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "student1", Password: "password"})
	require.NoError(t, err)

	// role change in the store wins over the role baked into the token
	user.Role = models.RoleAdmin
	claims, err := svc.ResolvePrincipal(context.Background(), login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "u1", claims.UserID)
}

func TestAuthResolvePrincipalInactiveAccount(t *testing.T) {
	user := activeStudent(t)
	repo := &mockAuthRepo{userByUsername: user}
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "student1", Password: "password"})
	require.NoError(t, err)

	user.IsActive = false
	_, err = svc.ResolvePrincipal(context.Background(), login.AccessToken)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthResolvePrincipalGarbageToken(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{})

	_, err := svc.ResolvePrincipal(context.Background(), "not-a-jwt")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthLogoutRejectsForeignToken(t *testing.T) {
	repo := &mockAuthRepo{userByUsername: activeStudent(t)}
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "student1", Password: "password"})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, "u1"))
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)
}
