package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
)

type notificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &notificationPostgreSQL{db: db}
}

func (r *notificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return handleDBError(err, "create notification")
	}
	return nil
}

func (r *notificationPostgreSQL) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, handleDBError(err, "get notification by id")
	}
	return &notification, nil
}

func (r *notificationPostgreSQL) ListByStudent(ctx context.Context, studentID string, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("student_id = ?", studentID)
	if filters.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count notifications")
	}

	query = applyPagination(query.Preload("Subject").Order("date DESC, created_at DESC"), filters.Limit, filters.Offset)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, handleDBError(err, "list notifications")
	}

	return notifications, total, nil
}

func (r *notificationPostgreSQL) MarkRead(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	return requireAffected(result, "mark notification read")
}

func (r *notificationPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Notification{})
	return requireAffected(result, "delete notification")
}
