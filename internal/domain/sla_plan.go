package domain

import "time"

// SLAPlan defines response and resolution targets in minutes, optionally
// scoped to a contract, a category, or a priority. A set scoping field that
// does not match a ticket's context disqualifies the plan for that ticket.
//
// Plans are snapshot-immutable from the ticket's point of view: editing a
// plan never changes due timestamps already derived from it.
type SLAPlan struct {
	ID                   string
	CompanyID            string
	Name                 string
	FirstResponseMinutes int
	ResolutionMinutes    int
	ContractID           *string
	CategoryID           *string
	Priority             *TicketPriority
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
