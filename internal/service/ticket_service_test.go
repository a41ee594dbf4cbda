package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	tickets      *fakeTicketRepo
	comments     *fakeCommentRepo
	participants *fakeParticipantRepo
	plans        *fakePlanRepo
	audits       *fakeAuditRepo
	users        *fakeUserRepo
	companies    *fakeCompanyRepo
	clock        *fixedClock
	svc          *TicketService

	client     *domain.User
	otherUser  *domain.User
	techA      *domain.User
	techB      *domain.User
	supervisor *domain.User
	admin      *domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		tickets:      newFakeTicketRepo(),
		comments:     &fakeCommentRepo{},
		participants: newFakeParticipantRepo(),
		plans:        &fakePlanRepo{},
		audits:       &fakeAuditRepo{},
		companies:    newFakeCompanyRepo(&domain.Company{ID: "company-1", Name: "Acme", Active: true}),
		clock:        &fixedClock{now: t0},
	}
	env.client = &domain.User{ID: "client-1", CompanyID: "company-1", Name: "Client One", Role: domain.RoleClient, Active: true}
	env.otherUser = &domain.User{ID: "client-2", CompanyID: "company-1", Name: "Client Two", Role: domain.RoleClient, Active: true}
	env.techA = &domain.User{ID: "tech-a", CompanyID: "company-1", Name: "Tech A", Role: domain.RoleTech, Active: true}
	env.techB = &domain.User{ID: "tech-b", CompanyID: "company-1", Name: "Tech B", Role: domain.RoleTech, Active: true}
	env.supervisor = &domain.User{ID: "super-1", CompanyID: "company-1", Name: "Supervisor", Role: domain.RoleSupervisor, Active: true}
	env.admin = &domain.User{ID: "admin-1", CompanyID: "company-1", Name: "Admin", Role: domain.RoleAdmin, Active: true}
	env.users = newFakeUserRepo(env.client, env.otherUser, env.techA, env.techB, env.supervisor, env.admin)

	env.svc = NewTicketService(TicketDependencies{
		TicketRepo:      env.tickets,
		CommentRepo:     env.comments,
		ParticipantRepo: env.participants,
		PlanRepo:        env.plans,
		AuditRepo:       env.audits,
		UserRepo:        env.users,
		CompanyRepo:     env.companies,
		Tx:              noopTx{},
		Dispatcher:      events.NewInMemoryDispatcher(),
		Clock:           env.clock,
		Logger:          zap.NewNop(),
	})
	return env
}

func (env *testEnv) addPlan(t *testing.T, plan domain.SLAPlan) {
	t.Helper()
	plan.CompanyID = "company-1"
	plan.Active = true
	require.NoError(t, env.plans.Create(context.Background(), &plan))
}

func (env *testEnv) createTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := env.svc.Create(context.Background(), env.client, TicketCreateInput{
		Title:       "Printer on fire",
		Description: "The office printer is smoking.",
		Priority:    domain.TicketPriorityHigh,
	})
	require.NoError(t, err)
	return ticket
}

func (env *testEnv) stored(t *testing.T, id string) *domain.Ticket {
	t.Helper()
	ticket, err := env.tickets.GetByID(context.Background(), id)
	require.NoError(t, err)
	return ticket
}

func TestCreateAppliesSLAPlan(t *testing.T) {
	env := newTestEnv(t)
	env.addPlan(t, domain.SLAPlan{Name: "default", FirstResponseMinutes: 60, ResolutionMinutes: 1440})

	ticket := env.createTicket(t)

	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.Nil(t, ticket.AssignedToID)
	assert.True(t, strings.HasPrefix(ticket.Number, "TCK-20260310-"), ticket.Number)
	require.NotNil(t, ticket.SLAPlanID)
	require.NotNil(t, ticket.DueFirstResponseAt)
	require.NotNil(t, ticket.DueResolutionAt)
	assert.Equal(t, t0.Add(60*time.Minute), *ticket.DueFirstResponseAt)
	assert.Equal(t, t0.Add(1440*time.Minute), *ticket.DueResolutionAt)

	entries, err := env.audits.ListByEntity(context.Background(), "ticket", ticket.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "create", entries[0].Action)
}

func TestCreateWithoutMatchingPlanLeavesTicketUntracked(t *testing.T) {
	env := newTestEnv(t)
	otherContract := "contract-9"
	env.addPlan(t, domain.SLAPlan{Name: "contract only", FirstResponseMinutes: 30, ResolutionMinutes: 120, ContractID: &otherContract})

	ticket := env.createTicket(t)

	assert.Nil(t, ticket.SLAPlanID)
	assert.Nil(t, ticket.DueFirstResponseAt)
	assert.Nil(t, ticket.DueResolutionAt)
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), env.client, TicketCreateInput{Description: "no title"})
	assert.True(t, isCode(err, "VALIDATION_FAILED"))

	_, err = env.svc.Create(context.Background(), env.client, TicketCreateInput{Title: "x", Description: "y", Priority: "URGENT"})
	assert.True(t, isCode(err, "VALIDATION_FAILED"))
}

func TestAssignClaimAndTransfer(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)

	// Any tech may claim an unassigned ticket; NEW moves to IN_PROGRESS.
	updated, err := env.svc.Assign(context.Background(), env.techA, ticket.ID, AssignInput{AssigneeID: env.techA.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedToID)
	assert.Equal(t, env.techA.ID, *updated.AssignedToID)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	// A different tech cannot steal it.
	_, err = env.svc.Assign(context.Background(), env.techB, ticket.ID, AssignInput{AssigneeID: env.techB.ID})
	assert.True(t, isCode(err, "FORBIDDEN"))

	// A supervisor can transfer it.
	updated, err = env.svc.Assign(context.Background(), env.supervisor, ticket.ID, AssignInput{AssigneeID: env.techB.ID})
	require.NoError(t, err)
	assert.Equal(t, env.techB.ID, *updated.AssignedToID)
}

func TestAssignRejectsClientAndNonStaffAssignee(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)

	_, err := env.svc.Assign(context.Background(), env.client, ticket.ID, AssignInput{AssigneeID: env.techA.ID})
	assert.True(t, isCode(err, "FORBIDDEN"))

	_, err = env.svc.Assign(context.Background(), env.supervisor, ticket.ID, AssignInput{AssigneeID: env.otherUser.ID})
	assert.True(t, isCode(err, "VALIDATION_FAILED"))
}

func TestOwnershipExclusivityOnResolve(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)
	_, err := env.svc.Assign(context.Background(), env.techA, ticket.ID, AssignInput{AssigneeID: env.techA.ID})
	require.NoError(t, err)

	// Tech B is neither assignee nor participant.
	_, err = env.svc.Resolve(context.Background(), env.techB, ticket.ID, "rebooted it")
	assert.True(t, isCode(err, "FORBIDDEN"))

	// Admin bypasses exclusivity.
	resolved, err := env.svc.Resolve(context.Background(), env.admin, ticket.ID, "rebooted it")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, env.clock.now, *resolved.ResolvedAt)
}

func TestParticipantBypassesExclusivity(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)
	_, err := env.svc.Assign(context.Background(), env.techA, ticket.ID, AssignInput{AssigneeID: env.techA.ID})
	require.NoError(t, err)

	_, err = env.svc.Comment(context.Background(), env.techB, ticket.ID, CommentInput{Content: "any update?"})
	assert.True(t, isCode(err, "FORBIDDEN"))

	require.NoError(t, env.svc.AddParticipant(context.Background(), env.techA, ticket.ID, env.techB.ID))

	_, err = env.svc.Comment(context.Background(), env.techB, ticket.ID, CommentInput{Content: "any update?"})
	assert.NoError(t, err)

	// Removing the participant restores exclusivity.
	require.NoError(t, env.svc.RemoveParticipant(context.Background(), env.techA, ticket.ID, env.techB.ID))
	_, err = env.svc.Comment(context.Background(), env.techB, ticket.ID, CommentInput{Content: "still there?"})
	assert.True(t, isCode(err, "FORBIDDEN"))
}

func TestClientCommentRules(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)

	_, err := env.svc.Comment(context.Background(), env.client, ticket.ID, CommentInput{Content: "please hurry"})
	assert.NoError(t, err)

	// A different client never sees the ticket.
	_, err = env.svc.Comment(context.Background(), env.otherUser, ticket.ID, CommentInput{Content: "me too"})
	assert.True(t, isCode(err, "FORBIDDEN"))

	// Internal flag is ignored for clients.
	comment, err := env.svc.Comment(context.Background(), env.client, ticket.ID, CommentInput{Content: "note", Internal: true})
	require.NoError(t, err)
	assert.False(t, comment.Internal)
}

func TestClosedTicketRejectsComments(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)
	closeTicket(t, env, ticket.ID)

	_, err := env.svc.Comment(context.Background(), env.client, ticket.ID, CommentInput{Content: "reopen please"})
	assert.True(t, isCode(err, "INVALID_STATE"))
}

func TestStaffCommentStampsFirstResponseOnce(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)

	// Client comments never count as first response.
	_, err := env.svc.Comment(context.Background(), env.client, ticket.ID, CommentInput{Content: "hello?"})
	require.NoError(t, err)
	assert.Nil(t, env.stored(t, ticket.ID).FirstResponseAt)

	env.clock.advance(5 * time.Minute)
	firstResponse := env.clock.now
	_, err = env.svc.Comment(context.Background(), env.techA, ticket.ID, CommentInput{Content: "on it"})
	require.NoError(t, err)
	stored := env.stored(t, ticket.ID)
	require.NotNil(t, stored.FirstResponseAt)
	assert.Equal(t, firstResponse, *stored.FirstResponseAt)

	env.clock.advance(10 * time.Minute)
	_, err = env.svc.Comment(context.Background(), env.techA, ticket.ID, CommentInput{Content: "fixed"})
	require.NoError(t, err)
	stored = env.stored(t, ticket.ID)
	assert.Equal(t, firstResponse, *stored.FirstResponseAt)
}

func TestCloseRequiresEvaluation(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)

	_, err := env.svc.Close(context.Background(), env.admin, ticket.ID, CloseInput{
		Reason: "done",
	})
	assert.True(t, isCode(err, "VALIDATION_FAILED"))

	_, err = env.svc.Close(context.Background(), env.admin, ticket.ID, CloseInput{
		Reason:     "done",
		Evaluation: "faulty cable",
	})
	assert.True(t, isCode(err, "VALIDATION_FAILED"))

	// Nothing was persisted.
	assert.Equal(t, domain.TicketStatusNew, env.stored(t, ticket.ID).Status)
	assert.Empty(t, env.audits.byAction("close"))
}

func closeTicket(t *testing.T, env *testEnv, ticketID string) *domain.Ticket {
	t.Helper()
	closed, err := env.svc.Close(context.Background(), env.admin, ticketID, CloseInput{
		Reason:       "resolved remotely",
		Evaluation:   "faulty cable",
		EvalCategory: domain.EvalCategoryTechnical,
	})
	require.NoError(t, err)
	return closed
}

func TestCloseSetsFieldsAndRatingToken(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)

	closed := closeTicket(t, env, ticket.ID)

	assert.Equal(t, domain.TicketStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	require.NotNil(t, closed.ResolvedAt)
	require.NotNil(t, closed.UserRatingToken)
	assert.Len(t, *closed.UserRatingToken, 32)
	require.NotNil(t, closed.TechEvalCategory)
	assert.Equal(t, domain.EvalCategoryTechnical, *closed.TechEvalCategory)
}

func TestRateByTokenIsOneShot(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)
	closed := closeTicket(t, env, ticket.ID)
	token := *closed.UserRatingToken

	_, err := env.svc.RateByToken(context.Background(), token, 9, "")
	assert.True(t, isCode(err, "VALIDATION_FAILED"))

	rated, err := env.svc.RateByToken(context.Background(), token, 4, "quick fix")
	require.NoError(t, err)
	require.NotNil(t, rated.UserRating)
	assert.Equal(t, 4, *rated.UserRating)
	assert.Nil(t, rated.UserRatingToken)

	// The token was consumed.
	_, err = env.svc.RateByToken(context.Background(), token, 5, "")
	assert.True(t, isCode(err, "NOT_FOUND"))
}

func TestReopenClearsClosureFields(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)
	closeTicket(t, env, ticket.ID)

	reopened, err := env.svc.Reopen(context.Background(), env.admin, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, reopened.Status)
	assert.Nil(t, reopened.ClosedAt)
	assert.Nil(t, reopened.ClosedReason)
	assert.Nil(t, reopened.ResolvedAt)

	// Reopening an in-progress ticket is an invalid state.
	_, err = env.svc.Reopen(context.Background(), env.admin, ticket.ID)
	assert.True(t, isCode(err, "INVALID_STATE"))
}

func TestPauseResumePreservesRemainingBudget(t *testing.T) {
	env := newTestEnv(t)
	env.addPlan(t, domain.SLAPlan{Name: "default", FirstResponseMinutes: 60, ResolutionMinutes: 1440})
	ticket := env.createTicket(t)

	env.clock.advance(10 * time.Minute)
	paused, err := env.svc.PauseSLA(context.Background(), env.techA, ticket.ID)
	require.NoError(t, err)
	assert.True(t, paused.SLAPaused)
	require.NotNil(t, paused.SLAPausedSince)
	assert.Equal(t, t0.Add(10*time.Minute), *paused.SLAPausedSince)

	// Pausing again is a no-op and records no second audit entry.
	env.clock.advance(5 * time.Minute)
	paused2, err := env.svc.PauseSLA(context.Background(), env.techA, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(10*time.Minute), *paused2.SLAPausedSince)
	assert.Len(t, env.audits.byAction("sla_pause"), 1)

	// Resume at t0+40m: 30 minutes paused shift both deadlines by 30m.
	env.clock.advance(25 * time.Minute)
	resumed, err := env.svc.ResumeSLA(context.Background(), env.techA, ticket.ID)
	require.NoError(t, err)
	assert.False(t, resumed.SLAPaused)
	assert.Nil(t, resumed.SLAPausedSince)
	assert.Equal(t, t0.Add(90*time.Minute), *resumed.DueFirstResponseAt)
	assert.Equal(t, t0.Add(1470*time.Minute), *resumed.DueResolutionAt)

	// Resuming again is a no-op.
	_, err = env.svc.ResumeSLA(context.Background(), env.techA, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, env.audits.byAction("sla_resume"), 1)
}

func TestSLAToggleRequiresStaff(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)

	_, err := env.svc.PauseSLA(context.Background(), env.client, ticket.ID)
	assert.True(t, isCode(err, "FORBIDDEN"))
}

func TestCrossTenantTicketIsHidden(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)

	outsider := &domain.User{ID: "tech-x", CompanyID: "company-2", Role: domain.RoleTech, Active: true}
	_, err := env.svc.Get(context.Background(), outsider, ticket.ID)
	assert.True(t, isCode(err, "NOT_FOUND"))
}

func TestConcurrentUpdateSurfacesConflict(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t)

	// Simulate a concurrent writer bumping the version after our read.
	stored := env.stored(t, ticket.ID)
	stored.Version++
	env.tickets.tickets[ticket.ID] = stored

	svcTicket := *ticket
	svcTicket.Status = domain.TicketStatusInProgress
	err := env.svc.update(context.Background(), &svcTicket)
	assert.True(t, isCode(err, "CONFLICT"))
}
