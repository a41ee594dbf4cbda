package domain

import "time"

// NotificationKind enumerates in-app notification categories.
type NotificationKind string

const (
	NotificationTicketComment NotificationKind = "ticket_comment"
	NotificationTicketStatus  NotificationKind = "ticket_status"
	NotificationTicketClosed  NotificationKind = "ticket_closed"
)

// Notification is an in-app message for a user. Delivery is best effort and
// never blocks or rolls back the lifecycle change that produced it.
type Notification struct {
	ID        string
	UserID    string
	CompanyID string
	Kind      NotificationKind
	Title     string
	Body      string
	Link      string
	CreatedAt time.Time
	SeenAt    *time.Time
	ReadAt    *time.Time
}
