package domain

import "time"

// NotificationType tags a broadcast notification
type NotificationType string

const (
	NotificationTypeInfo  NotificationType = "info"
	NotificationTypePromo NotificationType = "promo"
)

// Notification is broadcast to every customer and never mutated
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
}
