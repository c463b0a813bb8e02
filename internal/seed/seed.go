package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/registrar-office/portal-api/internal/models"
)

type userStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type calendarStore interface {
	List(ctx context.Context) ([]models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
}

type demoUser struct {
	username   string
	password   string
	email      string
	fullName   string
	role       models.UserRole
	studentID  string
	department string
}

var demoUsers = []demoUser{
	{
		username:  "student1",
		password:  "student123",
		email:     "student1@lums.edu.pk",
		fullName:  "Ali Hassan",
		role:      models.RoleStudent,
		studentID: "2025-10-0001",
	},
	{
		username:   "instructor1",
		password:   "instructor123",
		email:      "instructor1@lums.edu.pk",
		fullName:   "Dr. Sara Khan",
		role:       models.RoleInstructor,
		department: "Computer Science",
	},
	{
		username: "admin1",
		password: "admin123",
		email:    "admin1@lums.edu.pk",
		fullName: "Registrar Office",
		role:     models.RoleAdmin,
	},
}

// Run inserts demo accounts and a starter academic calendar. It is
// idempotent: if the admin account already exists nothing is touched.
func Run(ctx context.Context, users userStore, calendar calendarStore, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := users.FindByUsername(ctx, "admin1"); err == nil {
		logger.Debug("seed skipped, demo accounts already present")
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("seed lookup: %w", err)
	}

	for _, demo := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(demo.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		user := &models.User{
			Username:     demo.username,
			PasswordHash: string(hash),
			Role:         demo.role,
			IsActive:     true,
		}
		email := demo.email
		user.Email = &email
		fullName := demo.fullName
		user.FullName = &fullName
		if demo.studentID != "" {
			studentID := demo.studentID
			user.StudentID = &studentID
		}
		if demo.department != "" {
			department := demo.department
			user.Department = &department
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", demo.username, err)
		}
		logger.Info("seeded demo account", zap.String("username", demo.username), zap.String("role", string(demo.role)))
	}

	existing, err := calendar.List(ctx)
	if err != nil {
		return fmt.Errorf("seed calendar lookup: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	year := time.Now().Year()
	events := []models.CalendarEvent{
		{
			Title:     "Spring Semester Begins",
			StartDate: time.Date(year, time.January, 13, 0, 0, 0, 0, time.UTC),
			Type:      models.CalendarEventGeneric,
		},
		{
			Title:     "Add/Drop Deadline",
			StartDate: time.Date(year, time.January, 24, 0, 0, 0, 0, time.UTC),
			Type:      models.CalendarEventDeadline,
		},
		{
			Title:     "Midterm Examinations",
			StartDate: time.Date(year, time.March, 9, 0, 0, 0, 0, time.UTC),
			Type:      models.CalendarEventExam,
		},
		{
			Title:     "Eid Holidays",
			StartDate: time.Date(year, time.March, 30, 0, 0, 0, 0, time.UTC),
			Type:      models.CalendarEventHoliday,
		},
	}
	for i := range events {
		if err := calendar.Create(ctx, &events[i]); err != nil {
			return fmt.Errorf("seed calendar event %q: %w", events[i].Title, err)
		}
	}
	logger.Info("seeded academic calendar", zap.Int("events", len(events)))
	return nil
}
