package domain

import "time"

// TicketComment is a thread entry on a ticket. Internal comments are
// invisible to clients.
type TicketComment struct {
	ID        string
	TicketID  string
	UserID    string
	Content   string
	Internal  bool
	CreatedAt time.Time
}

// TicketParticipant is a staff member explicitly invited to interact with a
// ticket without displacing the assignee.
type TicketParticipant struct {
	ID        string
	TicketID  string
	UserID    string
	CreatedAt time.Time
}
