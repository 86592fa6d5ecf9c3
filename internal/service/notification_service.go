package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/quiz-platform/backend/internal/domain"
)

// NotificationService handles user notification inboxes
type NotificationService struct {
	notificationRepo domain.NotificationRepository
	userRepo         domain.UserRepository
	tracer           trace.Tracer
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo domain.NotificationRepository,
	userRepo domain.UserRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		tracer:           tracer,
		logger:           logger,
	}
}

// GetUserNotifications returns a user's notifications, newest first
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "NotificationService.GetUserNotifications")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID.String()))
	return s.notificationRepo.FindByUserID(userID)
}

// GetUnreadCount returns the number of unread notifications for a user
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "NotificationService.GetUnreadCount")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID.String()))
	return s.notificationRepo.CountUnread(userID)
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.MarkRead")
	defer span.End()

	span.SetAttributes(attribute.String("notification.id", notificationID.String()))
	return s.notificationRepo.MarkRead(notificationID, userID)
}

// MarkAllRead marks every notification of a user as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.MarkAllRead")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID.String()))
	return s.notificationRepo.MarkAllRead(userID)
}

// CreateNotification sends a notification to a single user
func (s *NotificationService) CreateNotification(ctx context.Context, req *domain.CreateNotificationRequest) (*domain.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "NotificationService.CreateNotification")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", req.UserID.String()))

	if _, err := s.userRepo.FindByID(req.UserID); err != nil {
		return nil, err
	}

	notificationType := req.Type
	if notificationType == "" {
		notificationType = domain.NotificationTypeInfo
	}

	notification := &domain.Notification{
		UserID:    req.UserID,
		Title:     req.Title,
		TitleAr:   req.TitleAr,
		Message:   req.Message,
		MessageAr: req.MessageAr,
		Type:      notificationType,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, err
	}

	return notification, nil
}

// Broadcast fans an announcement out to every registered user
func (s *NotificationService) Broadcast(ctx context.Context, req *domain.BroadcastNotificationRequest) (int, error) {
	ctx, span := s.tracer.Start(ctx, "NotificationService.Broadcast")
	defer span.End()

	userIDs, err := s.userRepo.FindAllIDs()
	if err != nil {
		return 0, err
	}

	notifications := make([]domain.Notification, len(userIDs))
	for i, userID := range userIDs {
		notifications[i] = domain.Notification{
			UserID:    userID,
			Title:     req.Title,
			TitleAr:   req.TitleAr,
			Message:   req.Message,
			MessageAr: req.MessageAr,
			Type:      domain.NotificationTypeAnnouncement,
		}
	}

	if err := s.notificationRepo.CreateBatch(notifications); err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int("recipients", len(notifications)))
	s.logger.Info("Broadcast notification sent",
		zap.String("title", req.Title),
		zap.Int("recipients", len(notifications)),
	)

	return len(notifications), nil
}
