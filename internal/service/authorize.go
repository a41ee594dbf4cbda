package service

import "github.com/spec-kit/servicedesk/internal/domain"

// Authorization predicates are pure functions over the actor, the ticket
// snapshot, and participant membership. They return allow/deny plus a reason
// so callers can surface a forbidden outcome without any transport coupling.

// ownsOrShares implements assignee exclusivity: once a ticket has an
// assignee, a tech must be that assignee or an invited participant.
// Supervisors and admins always pass.
func ownsOrShares(actor *domain.User, ticket *domain.Ticket, isParticipant bool) bool {
	if actor.Role.Elevated() {
		return true
	}
	if ticket.AssignedToID == nil {
		return true
	}
	return *ticket.AssignedToID == actor.ID || isParticipant
}

// CanComment decides whether the actor may append a comment.
func CanComment(actor *domain.User, ticket *domain.Ticket, isParticipant bool) (bool, string) {
	if actor.Role == domain.RoleClient {
		if ticket.CreatedByID != actor.ID {
			return false, "clients may only comment on their own tickets"
		}
		return true, ""
	}
	if !ownsOrShares(actor, ticket, isParticipant) {
		return false, "ticket is assigned to another technician"
	}
	return true, ""
}

// CanTransition decides whether the actor may resolve, close, or reopen.
func CanTransition(actor *domain.User, ticket *domain.Ticket, isParticipant bool) (bool, string) {
	if !actor.Role.Staff() {
		return false, "staff role required"
	}
	if !ownsOrShares(actor, ticket, isParticipant) {
		return false, "ticket is assigned to another technician"
	}
	return true, ""
}

// CanAssign decides whether the actor may set or transfer the assignee.
// Any staff member may claim an unassigned ticket; only the current assignee,
// a supervisor, or an admin may transfer an assigned one.
func CanAssign(actor *domain.User, ticket *domain.Ticket) (bool, string) {
	if !actor.Role.Staff() {
		return false, "staff role required"
	}
	if actor.Role.Elevated() {
		return true, ""
	}
	if ticket.AssignedToID == nil || *ticket.AssignedToID == actor.ID {
		return true, ""
	}
	return false, "ticket is assigned to another technician"
}

// CanManageSLA decides whether the actor may pause or resume the SLA clock.
func CanManageSLA(actor *domain.User) (bool, string) {
	if !actor.Role.Staff() {
		return false, "staff role required"
	}
	return true, ""
}

// CanManageParticipants decides whether the actor may invite or remove
// participants on the ticket.
func CanManageParticipants(actor *domain.User, ticket *domain.Ticket) (bool, string) {
	if !actor.Role.Staff() {
		return false, "staff role required"
	}
	if actor.Role.Elevated() {
		return true, ""
	}
	if ticket.AssignedToID != nil && *ticket.AssignedToID == actor.ID {
		return true, ""
	}
	return false, "only the assignee may manage participants"
}

// CanView decides whether the actor may read the ticket at all.
func CanView(actor *domain.User, ticket *domain.Ticket) (bool, string) {
	if actor.Role.Staff() {
		return true, ""
	}
	if ticket.CreatedByID != actor.ID {
		return false, "clients may only view their own tickets"
	}
	return true, ""
}
