package domain

import "time"

// AuditLog is an immutable record of a state-changing operation.
// UserID is nil for system actions such as escalation passes.
type AuditLog struct {
	ID        string
	Entity    string
	EntityID  string
	Action    string
	UserID    *string
	Data      string
	CreatedAt time.Time
}
