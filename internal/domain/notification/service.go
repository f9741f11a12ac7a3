package notification

import (
	"context"
)

// Service defines the notification service interface. Queueing is
// fire-and-forget from the caller's point of view: persistence happens
// on background workers and push delivery goes out over SSE.
type Service interface {
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error

	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error

	// Subscribe opens a live event stream for a user; the returned cleanup
	// must be called when the stream closes.
	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
