package dto

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// SLAPlanRequest payload for plan create/update.
type SLAPlanRequest struct {
	Name                 string                 `json:"name"`
	FirstResponseMinutes int                    `json:"first_response_minutes"`
	ResolutionMinutes    int                    `json:"resolution_minutes"`
	ContractID           *string                `json:"contract_id"`
	CategoryID           *string                `json:"category_id"`
	Priority             *domain.TicketPriority `json:"priority"`
	Active               bool                   `json:"active"`
}

// SLAPlanResponse view.
type SLAPlanResponse struct {
	ID                   string                 `json:"id"`
	Name                 string                 `json:"name"`
	FirstResponseMinutes int                    `json:"first_response_minutes"`
	ResolutionMinutes    int                    `json:"resolution_minutes"`
	ContractID           *string                `json:"contract_id"`
	CategoryID           *string                `json:"category_id"`
	Priority             *domain.TicketPriority `json:"priority"`
	Active               bool                   `json:"active"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// EscalationRunResponse reports a manual escalation pass.
type EscalationRunResponse struct {
	Escalated int       `json:"escalated"`
	RanAt     time.Time `json:"ran_at"`
}
