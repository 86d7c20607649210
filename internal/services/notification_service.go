package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/marktrack-service/internal/events"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
)

type notificationService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewNotificationService(repo repositories.Repository, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		logger: logger,
	}
}

// ===== EVENT HANDLERS =====

// HandleMarkRecorded stores a mark notification. The notification takes the
// event id, so a redelivered event is stored once.
func (s *notificationService) HandleMarkRecorded(ctx context.Context, event *events.Event) error {
	var data events.MarkRecordedData
	if err := event.Decode(&data); err != nil {
		return err
	}

	value := data.Value
	return s.store(ctx, event, &models.Notification{
		ID:          event.ID,
		StudentID:   data.StudentID,
		TeacherID:   data.TeacherID,
		SubjectID:   data.SubjectID,
		Kind:        models.NotificationMark,
		Value:       &value,
		Description: data.Description,
		Date:        data.Date,
	})
}

func (s *notificationService) HandleAbsenceRecorded(ctx context.Context, event *events.Event) error {
	var data events.AbsenceRecordedData
	if err := event.Decode(&data); err != nil {
		return err
	}

	motivated := data.IsMotivated
	return s.store(ctx, event, &models.Notification{
		ID:          event.ID,
		StudentID:   data.StudentID,
		TeacherID:   data.TeacherID,
		SubjectID:   data.SubjectID,
		Kind:        models.NotificationAbsence,
		IsMotivated: &motivated,
		Description: data.Description,
		Date:        data.Date,
	})
}

func (s *notificationService) store(ctx context.Context, event *events.Event, n *models.Notification) error {
	n.Payload = datatypes.JSON(event.Data)

	err := s.repo.Notification().Create(ctx, n)
	switch {
	case err == nil:
		s.logger.Info("Notification stored", "notification_id", n.ID, "student_id", n.StudentID, "kind", n.Kind)
		return nil
	case errors.Is(err, repositories.ErrDuplicate):
		s.logger.Debug("Notification already stored", "notification_id", n.ID)
		return nil
	case errors.Is(err, repositories.ErrForeignKey):
		// The student or subject was removed after the event was published
		s.logger.Warn("Dropping notification for missing reference", "notification_id", n.ID, "student_id", n.StudentID, "error", err)
		return nil
	}
	return fmt.Errorf("store notification: %w", err)
}

// ===== STUDENT SIDE =====

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, page, size int) (*models.ListResponse[*models.Notification], error) {
	student, err := activeStudent(ctx, s.repo, userID, "list_notifications")
	if err != nil {
		return nil, err
	}

	page, size, limit, offset := pageBounds(page, size)
	items, total, err := s.repo.Notification().ListByStudent(ctx, student.ID, repositories.NotificationFilters{
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, storeError("list notifications", err)
	}
	return &models.ListResponse[*models.Notification]{Items: items, Total: total, Page: page, Size: size}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id, "mark_read"); err != nil {
		return err
	}
	if err := s.repo.Notification().MarkRead(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return storeError("mark notification read", err)
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id, "delete"); err != nil {
		return err
	}
	if err := s.repo.Notification().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return storeError("delete notification", err)
	}
	s.logger.Info("Notification deleted", "notification_id", id, "user_id", userID)
	return nil
}

// owned loads a notification addressed to the requesting student. Another
// student's notification reads as missing.
func (s *notificationService) owned(ctx context.Context, userID, id, action string) (*models.Notification, error) {
	student, err := activeStudent(ctx, s.repo, userID, action+"_notification")
	if err != nil {
		return nil, err
	}

	n, err := s.repo.Notification().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, storeError("get notification", err)
	}
	if n.StudentID != student.ID {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}
