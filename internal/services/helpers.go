package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/marktrack-service/internal/events"
	"github.com/SAP-F-2025/marktrack-service/internal/metrics"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
	"github.com/SAP-F-2025/marktrack-service/internal/utils"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// publishEvent sends an event after the owning transaction committed.
// Failures are logged and counted, never returned.
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, eventType events.EventType, data any) {
	if publisher == nil {
		return
	}
	// The write already committed; a client hanging up must not drop the event
	ctx = utils.Detached(ctx)

	event, err := events.NewEvent(eventType, data)
	if err == nil {
		err = publisher.Publish(ctx, event)
	}
	if err != nil {
		metrics.EventsPublished.WithLabelValues(string(eventType), "error").Inc()
		logger.ErrorContext(ctx, "Failed to publish event", "type", eventType, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(string(eventType), "ok").Inc()
}

// rejectionReason labels lifecycle failures for metrics.
func rejectionReason(err error) string {
	var ve validator.ValidationErrors
	switch {
	case errors.Is(err, ErrInvalidRoleCode):
		return "invalid_role_code"
	case errors.Is(err, ErrRoleAlreadyAssigned):
		return "role_already_assigned"
	case errors.Is(err, ErrDuplicateStudentCode):
		return "duplicate_student_code"
	case errors.Is(err, ErrSubjectNotFound):
		return "subject_not_found"
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.As(err, &ve):
		return "validation"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	}
	return "other"
}

func recordRejection(operation string, err error) {
	metrics.LifecycleRejections.WithLabelValues(operation, rejectionReason(err)).Inc()
}

func recordTransition(user *models.User) {
	metrics.LifecycleTransitions.WithLabelValues(string(user.Role), string(user.Status)).Inc()
}

// pageBounds normalises 1-based page and size into limit and offset.
func pageBounds(page, size int) (int, int, int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size, size, (page - 1) * size
}

// parseDate reads an optional YYYY-MM-DD value, defaulting to today (UTC).
func parseDate(value *string) (time.Time, error) {
	if value == nil || *value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(validator.DateLayout, *value)
	if err != nil {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "must be a date in " + validator.DateLayout + " format",
			Value:   *value,
			Rule:    "datetime",
		}}
	}
	return t, nil
}

// activeUser loads the user and checks it holds role with status active.
func activeUser(ctx context.Context, repo repositories.Repository, userID string, role models.UserRole, action string) (*models.User, error) {
	user, err := repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("get user", err)
	}
	if user.Role != role {
		return nil, NewPermissionError(userID, "", string(role), action, "role "+string(user.Role))
	}
	if user.Status != models.StatusActive {
		return nil, NewPermissionError(userID, "", string(role), action, "profile not completed")
	}
	return user, nil
}

func activeTeacher(ctx context.Context, repo repositories.Repository, userID, action string) (*models.Teacher, error) {
	if _, err := activeUser(ctx, repo, userID, models.RoleTeacher, action); err != nil {
		return nil, err
	}
	teacher, err := repo.Teacher().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError("get teacher profile", err)
	}
	return teacher, nil
}

func activeStudent(ctx context.Context, repo repositories.Repository, userID, action string) (*models.Student, error) {
	if _, err := activeUser(ctx, repo, userID, models.RoleStudent, action); err != nil {
		return nil, err
	}
	student, err := repo.Student().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError("get student profile", err)
	}
	return student, nil
}
