package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:        "tk-1",
		Status:    domain.TicketStatusNew,
		Priority:  domain.TicketPriorityMedium,
		CreatedAt: t0,
	}
}

func TestApply_SetsDueTimestampsFromCreation(t *testing.T) {
	ticket := newTicket()
	p := domain.SLAPlan{ID: "plan-1", FirstResponseMinutes: 60, ResolutionMinutes: 1440}

	Apply(ticket, &p)

	require.NotNil(t, ticket.SLAPlanID)
	assert.Equal(t, "plan-1", *ticket.SLAPlanID)
	require.NotNil(t, ticket.DueFirstResponseAt)
	require.NotNil(t, ticket.DueResolutionAt)
	assert.Equal(t, t0.Add(60*time.Minute), *ticket.DueFirstResponseAt)
	assert.Equal(t, t0.Add(1440*time.Minute), *ticket.DueResolutionAt)
}

func TestApply_Deterministic(t *testing.T) {
	p := domain.SLAPlan{ID: "plan-1", FirstResponseMinutes: 30, ResolutionMinutes: 240}

	first := newTicket()
	second := newTicket()
	Apply(first, &p)
	Apply(second, &p)

	assert.Equal(t, *first.DueFirstResponseAt, *second.DueFirstResponseAt)
	assert.Equal(t, *first.DueResolutionAt, *second.DueResolutionAt)
}

func TestApply_NilPlanLeavesTicketUntracked(t *testing.T) {
	ticket := newTicket()

	Apply(ticket, nil)

	assert.Nil(t, ticket.SLAPlanID)
	assert.Nil(t, ticket.DueFirstResponseAt)
	assert.Nil(t, ticket.DueResolutionAt)
}

func TestPauseResume_ShiftsDueTimestampsByPausedDuration(t *testing.T) {
	ticket := newTicket()
	Apply(ticket, &domain.SLAPlan{ID: "plan-1", FirstResponseMinutes: 60, ResolutionMinutes: 1440})

	pausedAt := t0.Add(10 * time.Minute)
	resumedAt := t0.Add(40 * time.Minute)

	require.True(t, Pause(ticket, pausedAt))
	assert.True(t, ticket.SLAPaused)
	require.NotNil(t, ticket.SLAPausedSince)
	assert.Equal(t, pausedAt, *ticket.SLAPausedSince)

	require.True(t, Resume(ticket, resumedAt))
	assert.False(t, ticket.SLAPaused)
	assert.Nil(t, ticket.SLAPausedSince)
	assert.Equal(t, t0.Add(90*time.Minute), *ticket.DueFirstResponseAt)
	assert.Equal(t, t0.Add(1470*time.Minute), *ticket.DueResolutionAt)
}

func TestPause_SecondCallIsNoOp(t *testing.T) {
	ticket := newTicket()

	first := t0.Add(5 * time.Minute)
	require.True(t, Pause(ticket, first))
	assert.False(t, Pause(ticket, t0.Add(20*time.Minute)))

	// The original pause timestamp must survive the second call.
	require.NotNil(t, ticket.SLAPausedSince)
	assert.Equal(t, first, *ticket.SLAPausedSince)
}

func TestResume_NotPausedIsNoOp(t *testing.T) {
	ticket := newTicket()
	Apply(ticket, &domain.SLAPlan{ID: "plan-1", FirstResponseMinutes: 60, ResolutionMinutes: 1440})
	due := *ticket.DueResolutionAt

	assert.False(t, Resume(ticket, t0.Add(time.Hour)))
	assert.Equal(t, due, *ticket.DueResolutionAt)
}

func TestResume_ShiftsOnlySetTimestamps(t *testing.T) {
	ticket := newTicket()
	// Ticket without a plan: no due timestamps, pause/resume still track state.
	require.True(t, Pause(ticket, t0))
	require.True(t, Resume(ticket, t0.Add(15*time.Minute)))

	assert.Nil(t, ticket.DueFirstResponseAt)
	assert.Nil(t, ticket.DueResolutionAt)
	assert.False(t, ticket.SLAPaused)
}
