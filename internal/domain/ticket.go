package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "NEW"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusWaiting    TicketStatus = "WAITING"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Valid reports whether the status belongs to the closed set.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusWaiting, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Terminal reports whether the status ends the resolution clock.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// Valid reports whether the priority belongs to the closed set.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// EvalCategory classifies the mandatory technician evaluation at close.
type EvalCategory string

const (
	EvalCategoryTechnical   EvalCategory = "TECHNICAL"
	EvalCategorySystemic    EvalCategory = "SYSTEMIC"
	EvalCategoryUser        EvalCategory = "USER"
	EvalCategoryRequest     EvalCategory = "REQUEST"
	EvalCategoryImprovement EvalCategory = "IMPROVEMENT"
	EvalCategoryOther       EvalCategory = "OTHER"
)

// Valid reports whether the evaluation category belongs to the closed set.
func (c EvalCategory) Valid() bool {
	switch c {
	case EvalCategoryTechnical, EvalCategorySystemic, EvalCategoryUser,
		EvalCategoryRequest, EvalCategoryImprovement, EvalCategoryOther:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
//
// Due timestamps, once set at creation, are only shifted by SLA pause/resume;
// status changes never reset them. SLAPausedSince is set iff SLAPaused is true.
type Ticket struct {
	ID          string
	Number      string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority

	CompanyID    string
	CreatedByID  string
	AssignedToID *string
	ContractID   *string
	CategoryID   *string
	QueueID      *string
	AssetID      *string

	SLAPlanID          *string
	DueFirstResponseAt *time.Time
	DueResolutionAt    *time.Time
	SLAPaused          bool
	SLAPausedSince     *time.Time

	FirstResponseAt *time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time

	Solution         *string
	ClosedReason     *string
	TechEvaluation   *string
	TechEvalCategory *EvalCategory

	UserRating        *int
	UserRatingComment *string
	UserRatingToken   *string
	UserRatingAt      *time.Time

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}
