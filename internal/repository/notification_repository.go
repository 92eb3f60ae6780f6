package repository

import (
	"context"

	"bebida-express/internal/domain"
	"bebida-express/internal/kvstore"
)

// NotificationRepository defines the interface for broadcast notifications.
// Notifications are append-only and read newest-first.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	List(ctx context.Context) ([]domain.Notification, error)
}

type notificationRepository struct {
	store kvstore.Store
	uow   UnitOfWork
}

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(store kvstore.Store) NotificationRepository {
	return &notificationRepository{store: store, uow: NewUnitOfWork(store)}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.uow.Do(ctx, []string{NotificationsKey}, func(tx *Tx) error {
		notifications, err := tx.Notifications()
		if err != nil {
			return err
		}
		return tx.PutNotifications(append([]domain.Notification{*notification}, notifications...))
	})
}

func (r *notificationRepository) List(ctx context.Context) ([]domain.Notification, error) {
	return load[domain.Notification](ctx, r.store, NotificationsKey)
}
