package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/servicedesk/internal/domain"
)

func userWithRole(id string, role domain.UserRole) *domain.User {
	return &domain.User{ID: id, CompanyID: "company-1", Role: role, Active: true}
}

func assignedTicket(assignee string) *domain.Ticket {
	t := &domain.Ticket{ID: "ticket-1", CompanyID: "company-1", CreatedByID: "client-1", Status: domain.TicketStatusInProgress}
	if assignee != "" {
		t.AssignedToID = &assignee
	}
	return t
}

func TestCanTransitionExclusivity(t *testing.T) {
	cases := []struct {
		name          string
		actor         *domain.User
		assignee      string
		isParticipant bool
		want          bool
	}{
		{"client never transitions", userWithRole("client-1", domain.RoleClient), "", false, false},
		{"tech on unassigned ticket", userWithRole("tech-a", domain.RoleTech), "", false, true},
		{"assignee tech", userWithRole("tech-a", domain.RoleTech), "tech-a", false, true},
		{"other tech", userWithRole("tech-b", domain.RoleTech), "tech-a", false, false},
		{"other tech as participant", userWithRole("tech-b", domain.RoleTech), "tech-a", true, true},
		{"supervisor bypasses", userWithRole("super-1", domain.RoleSupervisor), "tech-a", false, true},
		{"admin bypasses", userWithRole("admin-1", domain.RoleAdmin), "tech-a", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, reason := CanTransition(tc.actor, assignedTicket(tc.assignee), tc.isParticipant)
			assert.Equal(t, tc.want, allowed)
			if !tc.want {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestCanCommentClientRules(t *testing.T) {
	owner := userWithRole("client-1", domain.RoleClient)
	stranger := userWithRole("client-2", domain.RoleClient)
	ticket := assignedTicket("tech-a")

	allowed, _ := CanComment(owner, ticket, false)
	assert.True(t, allowed)

	allowed, reason := CanComment(stranger, ticket, false)
	assert.False(t, allowed)
	assert.NotEmpty(t, reason)
}

func TestCanCommentTechExclusivity(t *testing.T) {
	ticket := assignedTicket("tech-a")

	allowed, _ := CanComment(userWithRole("tech-b", domain.RoleTech), ticket, false)
	assert.False(t, allowed)

	allowed, _ = CanComment(userWithRole("tech-b", domain.RoleTech), ticket, true)
	assert.True(t, allowed)

	allowed, _ = CanComment(userWithRole("tech-a", domain.RoleTech), ticket, false)
	assert.True(t, allowed)
}

func TestCanAssign(t *testing.T) {
	unassigned := assignedTicket("")
	assigned := assignedTicket("tech-a")

	allowed, _ := CanAssign(userWithRole("client-1", domain.RoleClient), unassigned)
	assert.False(t, allowed)

	allowed, _ = CanAssign(userWithRole("tech-b", domain.RoleTech), unassigned)
	assert.True(t, allowed)

	allowed, _ = CanAssign(userWithRole("tech-b", domain.RoleTech), assigned)
	assert.False(t, allowed)

	allowed, _ = CanAssign(userWithRole("tech-a", domain.RoleTech), assigned)
	assert.True(t, allowed)

	allowed, _ = CanAssign(userWithRole("super-1", domain.RoleSupervisor), assigned)
	assert.True(t, allowed)
}

func TestCanManageParticipants(t *testing.T) {
	assigned := assignedTicket("tech-a")

	allowed, _ := CanManageParticipants(userWithRole("tech-a", domain.RoleTech), assigned)
	assert.True(t, allowed)

	allowed, _ = CanManageParticipants(userWithRole("tech-b", domain.RoleTech), assigned)
	assert.False(t, allowed)

	allowed, _ = CanManageParticipants(userWithRole("admin-1", domain.RoleAdmin), assigned)
	assert.True(t, allowed)

	allowed, _ = CanManageParticipants(userWithRole("client-1", domain.RoleClient), assigned)
	assert.False(t, allowed)
}

func TestCanView(t *testing.T) {
	ticket := assignedTicket("tech-a")

	allowed, _ := CanView(userWithRole("client-1", domain.RoleClient), ticket)
	assert.True(t, allowed)

	allowed, _ = CanView(userWithRole("client-2", domain.RoleClient), ticket)
	assert.False(t, allowed)

	allowed, _ = CanView(userWithRole("tech-b", domain.RoleTech), ticket)
	assert.True(t, allowed)
}
