package service

import (
	"context"
	"fmt"
	"time"

	"bebida-express/internal/domain"
	"bebida-express/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService defines the interface for customer broadcasts
type NotificationService interface {
	Broadcast(ctx context.Context, title, message string, kind domain.NotificationType) (*domain.Notification, error)
	List(ctx context.Context) ([]domain.Notification, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	logger           *zap.Logger
	now              func() time.Time
}

// NewNotificationService creates a new instance of NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *notificationService) Broadcast(ctx context.Context, title, message string, kind domain.NotificationType) (*domain.Notification, error) {
	if kind == "" {
		kind = domain.NotificationTypeInfo
	}

	notification := &domain.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Type:      kind,
		Timestamp: s.now(),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Info("Notification broadcast",
		zap.String("notification_id", notification.ID),
		zap.String("type", string(kind)),
	)
	return notification, nil
}

// List returns every notification newest-first
func (s *notificationService) List(ctx context.Context) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
