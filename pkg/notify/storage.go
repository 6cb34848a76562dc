package notify

import (
	"context"
	"time"

	"github.com/dmitrymomot/courier/pkg/event"
)

// Storage persists notifications and their deliveries.
type Storage interface {
	// CreateNotification stores n together with all of its deliveries in one
	// atomic write.
	CreateNotification(ctx context.Context, n *Notification) error

	// GetNotification returns the notification with its deliveries in
	// creation order.
	GetNotification(ctx context.Context, id string) (*Notification, error)

	// ListNotifications returns notifications newest first, without deliveries.
	// Notifications created at the same instant are ordered by id, descending
	// in byte order, so pages are stable across backends.
	ListNotifications(ctx context.Context, opts ListOptions) ([]Notification, error)

	GetDelivery(ctx context.Context, id string) (*Delivery, error)

	// ListDeliveries returns the deliveries of a notification in creation order.
	ListDeliveries(ctx context.Context, notificationID string) ([]Delivery, error)

	UpdateDeliveryStatus(ctx context.Context, id string, upd DeliveryUpdate) error

	UpdateNotificationStatus(ctx context.Context, id string, status NotificationStatus, sentAt *time.Time) error
}

// ListOptions filters ListNotifications.
type ListOptions struct {
	UserID    string
	Status    NotificationStatus
	EventType event.Type
	Limit     int // 0 = no limit
	Offset    int
}

// Match reports whether n passes the filters.
func (o ListOptions) Match(n *Notification) bool {
	if o.UserID != "" && n.UserID != o.UserID {
		return false
	}
	if o.Status != "" && n.Status != o.Status {
		return false
	}
	if o.EventType != "" && n.EventType != o.EventType {
		return false
	}
	return true
}
