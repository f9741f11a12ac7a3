package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveRequested NotificationType = "leave_requested"
	TypeLeaveApproved  NotificationType = "leave_approved"
	TypeLeaveRejected  NotificationType = "leave_rejected"
	TypeLeaveCancelled NotificationType = "leave_cancelled"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeLeaveRequested,
		TypeLeaveApproved,
		TypeLeaveRejected,
		TypeLeaveCancelled,
	}
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Link        *string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
