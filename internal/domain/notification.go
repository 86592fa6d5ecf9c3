package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType categorizes notifications for frontend rendering
type NotificationType string

const (
	NotificationTypeInfo         NotificationType = "info"
	NotificationTypeResult       NotificationType = "result"
	NotificationTypeAnnouncement NotificationType = "announcement"
)

// Notification represents a message delivered to a user's inbox
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	Title     string           `json:"title" gorm:"not null"`
	TitleAr   string           `json:"title_ar"`
	Message   string           `json:"message"`
	MessageAr string           `json:"message_ar"`
	Type      NotificationType `json:"type" gorm:"type:varchar(20);not null;default:'info'"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(notification *Notification) error
	CreateBatch(notifications []Notification) error
	FindByID(id uuid.UUID) (*Notification, error)
	FindByUserID(userID uuid.UUID) ([]Notification, error)
	CountUnread(userID uuid.UUID) (int64, error)
	MarkRead(id, userID uuid.UUID) error
	MarkAllRead(userID uuid.UUID) error
	Delete(id uuid.UUID) error
}

// CreateNotificationRequest represents the data needed to send a notification
type CreateNotificationRequest struct {
	UserID    uuid.UUID        `json:"user_id" binding:"required"`
	Title     string           `json:"title" binding:"required,max=200"`
	TitleAr   string           `json:"title_ar"`
	Message   string           `json:"message"`
	MessageAr string           `json:"message_ar"`
	Type      NotificationType `json:"type" binding:"omitempty,oneof=info result announcement"`
}

// BroadcastNotificationRequest represents an announcement sent to all users
type BroadcastNotificationRequest struct {
	Title     string `json:"title" binding:"required,max=200"`
	TitleAr   string `json:"title_ar"`
	Message   string `json:"message"`
	MessageAr string `json:"message_ar"`
}
