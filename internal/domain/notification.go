package domain

import "time"

type NotificationType string

const (
	NotificationTypePayment    NotificationType = "payment"
	NotificationTypeWithdrawal NotificationType = "withdrawal"
	NotificationTypeEarning    NotificationType = "earning"
)

// Notification is a durable in-app notification row. Writes are best-effort:
// a failed insert never fails the financial operation that produced it.
type Notification struct {
	ID         string
	UserID     string
	Title      string
	Message    string
	Type       NotificationType
	EntityID   string
	EntityType string
	Read       bool
	CreatedAt  time.Time
}
