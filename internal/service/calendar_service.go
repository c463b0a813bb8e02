package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/registrar-office/portal-api/internal/dto"
	"github.com/registrar-office/portal-api/internal/models"
	appErrors "github.com/registrar-office/portal-api/pkg/errors"
)

const calendarCacheKey = "calendar:events"

type calendarStore interface {
	List(ctx context.Context) ([]models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
}

type calendarCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string)
}

// CalendarService serves the academic calendar. The event list is cached in
// Redis and invalidated whenever an admin adds an entry.
type CalendarService struct {
	repo      calendarStore
	cache     calendarCache
	cacheTTL  time.Duration
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs the service. A nil cache disables caching.
func NewCalendarService(repo calendarStore, cache calendarCache, cacheTTL time.Duration, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CalendarService{repo: repo, cache: cache, cacheTTL: cacheTTL, metrics: metrics, validator: validate, logger: logger}
}

// List returns all calendar events ordered by start date. The calendar is
// visible to every authenticated role.
func (s *CalendarService) List(ctx context.Context) ([]models.CalendarEvent, error) {
	if s.cache != nil {
		var cached []models.CalendarEvent
		err := s.cache.Get(ctx, calendarCacheKey, &cached)
		if err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached, nil
		}
		s.metrics.RecordCacheOperation(false)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("calendar cache read failed", zap.Error(err))
		}
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendar events")
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, calendarCacheKey, events, s.cacheTTL); err != nil {
			s.logger.Warn("calendar cache write failed", zap.Error(err))
		}
	}
	return events, nil
}

// Create adds a calendar event and invalidates the cached list. Past dates
// are accepted; historical entries are legal.
func (s *CalendarService) Create(ctx context.Context, req dto.CreateCalendarEventRequest, actor *models.JWTClaims) (*models.CalendarEvent, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar event payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid event type")
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be an RFC 3339 timestamp")
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be an RFC 3339 timestamp")
		}
		if parsed.Before(startDate) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must not precede startDate")
		}
		endDate = &parsed
	}

	event := &models.CalendarEvent{
		Title:       req.Title,
		Description: optionalString(req.Description),
		StartDate:   startDate,
		EndDate:     endDate,
		Type:        req.Type,
		CreatedBy:   &actor.UserID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create calendar event")
	}

	if s.cache != nil {
		s.cache.Delete(ctx, calendarCacheKey)
	}
	return event, nil
}
