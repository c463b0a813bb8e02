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

type mockMajorStore struct {
	apps          map[int64]*models.MajorApplication
	pendingExists bool
	nextID        int64
	updateResult  bool
}

func (m *mockMajorStore) Create(ctx context.Context, app *models.MajorApplication) error {
	m.nextID++
	app.ID = m.nextID
	if m.apps == nil {
		m.apps = make(map[int64]*models.MajorApplication)
	}
	m.apps[app.ID] = app
	return nil
}

func (m *mockMajorStore) FindByID(ctx context.Context, id int64) (*models.MajorApplication, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *app
	return &copied, nil
}

func (m *mockMajorStore) List(ctx context.Context, studentID string) ([]models.MajorApplication, error) {
	var out []models.MajorApplication
	for _, app := range m.apps {
		if studentID == "" || app.StudentID == studentID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (m *mockMajorStore) ExistsPendingForStudent(ctx context.Context, studentID string) (bool, error) {
	return m.pendingExists, nil
}

func (m *mockMajorStore) UpdateStatus(ctx context.Context, params repository.UpdateMajorApplicationStatusParams) (bool, error) {
	if m.updateResult {
		if app, ok := m.apps[params.ID]; ok {
			app.Status = params.Status
		}
	}
	return m.updateResult, nil
}

func newMajorService(store *mockMajorStore) *MajorApplicationService {
	return NewMajorApplicationService(store, &mockNotifier{}, &mockAudit{}, nil, nil, nil)
}

func TestMajorApplicationCreate(t *testing.T) {
	store := &mockMajorStore{}
	svc := newMajorService(store)

	app, err := svc.Create(context.Background(), dto.CreateMajorApplicationRequest{
		RequestedMajor: "Computer Science",
		School:         "SSE",
	}, studentClaims("u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", app.StudentID)
	assert.Equal(t, models.MajorApplicationStatusSubmitted, app.Status)
	assert.Nil(t, app.CurrentMajor)
}

func TestMajorApplicationCreateRejectsSecondPending(t *testing.T) {
	svc := newMajorService(&mockMajorStore{pendingExists: true})

	_, err := svc.Create(context.Background(), dto.CreateMajorApplicationRequest{
		RequestedMajor: "Economics",
		School:         "HSS",
	}, studentClaims("u1"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestMajorApplicationCreateMissingSchool(t *testing.T) {
	svc := newMajorService(&mockMajorStore{})

	_, err := svc.Create(context.Background(), dto.CreateMajorApplicationRequest{
		RequestedMajor: "Economics",
	}, studentClaims("u1"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestMajorApplicationGetScope(t *testing.T) {
	store := &mockMajorStore{apps: map[int64]*models.MajorApplication{
		1: {ID: 1, StudentID: "owner", Status: models.MajorApplicationStatusSubmitted},
	}}
	svc := newMajorService(store)

	_, err := svc.Get(context.Background(), 1, studentClaims("intruder"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestMajorApplicationReject(t *testing.T) {
	store := &mockMajorStore{
		apps: map[int64]*models.MajorApplication{
			1: {ID: 1, StudentID: "u1", RequestedMajor: "Physics", Status: models.MajorApplicationStatusPendingApproval},
		},
		updateResult: true,
	}
	svc := newMajorService(store)

	app, err := svc.UpdateStatus(context.Background(), 1, dto.UpdateMajorApplicationStatusRequest{
		Status:       models.MajorApplicationStatusRejected,
		AdminComment: "prerequisites not met",
	}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.MajorApplicationStatusRejected, app.Status)
	require.NotNil(t, app.AdminComment)
	assert.Equal(t, "prerequisites not met", *app.AdminComment)
}
