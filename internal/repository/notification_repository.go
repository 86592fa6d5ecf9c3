package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quiz-platform/backend/internal/domain"
)

// notificationRepository implements domain.NotificationRepository using GORM
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepository{db: db}
}

// Create creates a new notification
func (r *notificationRepository) Create(notification *domain.Notification) error {
	return r.db.Create(notification).Error
}

// CreateBatch inserts a batch of notifications, used for broadcast fan-out
func (r *notificationRepository) CreateBatch(notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.CreateInBatches(&notifications, 500).Error
}

// FindByID finds a notification by its ID
func (r *notificationRepository) FindByID(id uuid.UUID) (*domain.Notification, error) {
	var notification domain.Notification
	result := r.db.Where("id = ?", id).First(&notification)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, result.Error
	}
	return &notification, nil
}

// FindByUserID returns a user's notifications, newest first
func (r *notificationRepository) FindByUserID(userID uuid.UUID) ([]domain.Notification, error) {
	var notifications []domain.Notification
	result := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications)
	return notifications, result.Error
}

// CountUnread returns the number of unread notifications for a user
func (r *notificationRepository) CountUnread(userID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)
	return count, result.Error
}

// MarkRead marks one of the user's notifications as read. The user filter
// keeps callers from touching someone else's inbox
func (r *notificationRepository) MarkRead(id, userID uuid.UUID) error {
	result := r.db.Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every notification of a user as read
func (r *notificationRepository) MarkAllRead(userID uuid.UUID) error {
	return r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// Delete deletes a notification by its ID
func (r *notificationRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&domain.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// WithContext returns a repository with the given context for tracing
func (r *notificationRepository) WithContext(ctx context.Context) domain.NotificationRepository {
	return &notificationRepository{db: r.db.WithContext(ctx)}
}
