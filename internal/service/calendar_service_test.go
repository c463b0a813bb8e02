package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/models"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
)

type mockCalendarStore struct {
	events    []models.CalendarEvent
	listCalls int
	nextID    int64
}

func (m *mockCalendarStore) List(ctx context.Context) ([]models.CalendarEvent, error) {
	m.listCalls++
	return m.events, nil
}

func (m *mockCalendarStore) Create(ctx context.Context, event *models.CalendarEvent) error {
	m.nextID++
	event.ID = m.nextID
	m.events = append(m.events, *event)
	return nil
}

type mockCalendarCache struct {
	store   map[string][]models.CalendarEvent
	deletes []string
}

func (m *mockCalendarCache) Get(ctx context.Context, key string, dest interface{}) error {
	events, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*[]models.CalendarEvent)) = events
	return nil
}

func (m *mockCalendarCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]models.CalendarEvent)
	}
	m.store[key] = value.([]models.CalendarEvent)
	return nil
}

func (m *mockCalendarCache) Delete(ctx context.Context, key string) {
	m.deletes = append(m.deletes, key)
	delete(m.store, key)
}

func TestCalendarListPopulatesCache(t *testing.T) {
	store := &mockCalendarStore{events: []models.CalendarEvent{
		{ID: 1, Title: "Spring Semester Begins", Type: models.CalendarEventGeneric},
	}}
	cache := &mockCalendarCache{}
	svc := NewCalendarService(store, cache, time.Minute, nil, nil, nil)

	events, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, 1, store.listCalls)

	// second read is served from cache
	events, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, 1, store.listCalls)
}

func TestCalendarCreateInvalidatesCache(t *testing.T) {
	store := &mockCalendarStore{}
	cache := &mockCalendarCache{store: map[string][]models.CalendarEvent{
		calendarCacheKey: {{ID: 1, Title: "stale"}},
	}}
	svc := NewCalendarService(store, cache, time.Minute, nil, nil, nil)

	event, err := svc.Create(context.Background(), dto.CreateCalendarEventRequest{
		Title:     "Final Examinations",
		StartDate: "2026-05-10T00:00:00Z",
		EndDate:   "2026-05-20T00:00:00Z",
		Type:      models.CalendarEventExam,
	}, adminClaims())
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	require.NotNil(t, event.EndDate)
	assert.Contains(t, cache.deletes, calendarCacheKey)
}

func TestCalendarCreateAllowsPastDates(t *testing.T) {
	svc := NewCalendarService(&mockCalendarStore{}, nil, time.Minute, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateCalendarEventRequest{
		Title:     "Founding Day",
		StartDate: "1990-03-01T00:00:00Z",
		Type:      models.CalendarEventHoliday,
	}, adminClaims())
	assert.NoError(t, err)
}

func TestCalendarCreateRejectsBadDates(t *testing.T) {
	svc := NewCalendarService(&mockCalendarStore{}, nil, time.Minute, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateCalendarEventRequest{
		Title:     "Broken",
		StartDate: "tomorrow",
		Type:      models.CalendarEventGeneric,
	}, adminClaims())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.Create(context.Background(), dto.CreateCalendarEventRequest{
		Title:     "Inverted",
		StartDate: "2026-05-10T00:00:00Z",
		EndDate:   "2026-05-01T00:00:00Z",
		Type:      models.CalendarEventGeneric,
	}, adminClaims())
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCalendarCreateRejectsUnknownType(t *testing.T) {
	svc := NewCalendarService(&mockCalendarStore{}, nil, time.Minute, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateCalendarEventRequest{
		Title:     "Mystery",
		StartDate: "2026-05-10T00:00:00Z",
		Type:      "festival",
	}, adminClaims())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
