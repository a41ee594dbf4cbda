package sla

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// Apply snapshots the plan's targets onto the ticket: due timestamps are
// derived from the ticket's creation time and never recomputed afterwards.
// Called exactly once, at creation. A nil plan leaves the ticket untracked.
func Apply(ticket *domain.Ticket, plan *domain.SLAPlan) {
	if plan == nil {
		return
	}
	planID := plan.ID
	ticket.SLAPlanID = &planID
	firstResponse := ticket.CreatedAt.Add(time.Duration(plan.FirstResponseMinutes) * time.Minute)
	resolution := ticket.CreatedAt.Add(time.Duration(plan.ResolutionMinutes) * time.Minute)
	ticket.DueFirstResponseAt = &firstResponse
	ticket.DueResolutionAt = &resolution
}

// Pause stops the SLA clock. Pausing an already-paused ticket is a no-op.
// Returns true when the pause took effect.
func Pause(ticket *domain.Ticket, now time.Time) bool {
	if ticket.SLAPaused {
		return false
	}
	ticket.SLAPaused = true
	ticket.SLAPausedSince = &now
	return true
}

// Resume restarts the SLA clock, shifting every set due timestamp by the
// paused duration so the remaining budget is preserved rather than
// recomputed. Resuming a ticket that is not paused is a no-op.
// Returns true when the resume took effect.
func Resume(ticket *domain.Ticket, now time.Time) bool {
	if !ticket.SLAPaused {
		return false
	}
	var elapsed time.Duration
	if ticket.SLAPausedSince != nil {
		elapsed = now.Sub(*ticket.SLAPausedSince)
	}
	if ticket.DueFirstResponseAt != nil {
		shifted := ticket.DueFirstResponseAt.Add(elapsed)
		ticket.DueFirstResponseAt = &shifted
	}
	if ticket.DueResolutionAt != nil {
		shifted := ticket.DueResolutionAt.Add(elapsed)
		ticket.DueResolutionAt = &shifted
	}
	ticket.SLAPaused = false
	ticket.SLAPausedSince = nil
	return true
}
