package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

func isCode(err error, code string) bool { return apperrors.IsCode(err, code) }

// In-memory collaborators for exercising the services without a database.

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// noopTx runs the unit directly; the fakes mutate shared maps so there is
// nothing to commit or roll back.
type noopTx struct{}

func (noopTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTicketRepo struct {
	seq     int
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.Version = 1
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != ticket.Version {
		return repository.ErrStaleTicket
	}
	ticket.Version++
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeTicketRepo) GetByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	for _, stored := range r.tickets {
		if stored.Number == number {
			clone := *stored
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) GetByRatingToken(_ context.Context, token string) (*domain.Ticket, error) {
	for _, stored := range r.tickets {
		if stored.UserRatingToken != nil && *stored.UserRatingToken == token {
			clone := *stored
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, stored := range r.sorted() {
		if filter.CompanyID != nil && stored.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.CreatedByID != nil && stored.CreatedByID != *filter.CreatedByID {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeTicketRepo) ListOverdue(_ context.Context, now time.Time) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, stored := range r.sorted() {
		if stored.DueResolutionAt == nil || stored.ResolvedAt != nil {
			continue
		}
		if stored.DueResolutionAt.Before(now) {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) sorted() []*domain.Ticket {
	ids := make([]string, 0, len(r.tickets))
	for id := range r.tickets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]*domain.Ticket, 0, len(ids))
	for _, id := range ids {
		result = append(result, r.tickets[id])
	}
	return result
}

type fakeCommentRepo struct {
	seq      int
	comments []domain.TicketComment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string, includeInternal bool) ([]domain.TicketComment, error) {
	var result []domain.TicketComment
	for _, comment := range r.comments {
		if comment.TicketID != ticketID {
			continue
		}
		if comment.Internal && !includeInternal {
			continue
		}
		result = append(result, comment)
	}
	return result, nil
}

type fakeParticipantRepo struct {
	members map[string]bool
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{members: make(map[string]bool)}
}

func participantKey(ticketID, userID string) string { return ticketID + "|" + userID }

func (r *fakeParticipantRepo) Add(_ context.Context, participant *domain.TicketParticipant) error {
	r.members[participantKey(participant.TicketID, participant.UserID)] = true
	return nil
}

func (r *fakeParticipantRepo) Remove(_ context.Context, ticketID, userID string) error {
	key := participantKey(ticketID, userID)
	if !r.members[key] {
		return pgx.ErrNoRows
	}
	delete(r.members, key)
	return nil
}

func (r *fakeParticipantRepo) Exists(_ context.Context, ticketID, userID string) (bool, error) {
	return r.members[participantKey(ticketID, userID)], nil
}

func (r *fakeParticipantRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketParticipant, error) {
	return nil, nil
}

type fakePlanRepo struct {
	seq   int
	plans []domain.SLAPlan
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.SLAPlan) error {
	r.seq++
	plan.ID = fmt.Sprintf("plan-%d", r.seq)
	r.plans = append(r.plans, *plan)
	return nil
}

func (r *fakePlanRepo) Update(_ context.Context, plan *domain.SLAPlan) error {
	for i := range r.plans {
		if r.plans[i].ID == plan.ID {
			r.plans[i] = *plan
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakePlanRepo) GetByID(_ context.Context, id string) (*domain.SLAPlan, error) {
	for i := range r.plans {
		if r.plans[i].ID == id {
			clone := r.plans[i]
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePlanRepo) ListActiveByCompany(_ context.Context, companyID string) ([]domain.SLAPlan, error) {
	var result []domain.SLAPlan
	for _, plan := range r.plans {
		if plan.CompanyID == companyID && plan.Active {
			result = append(result, plan)
		}
	}
	return result, nil
}

type fakeAuditRepo struct {
	seq     int
	entries []domain.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.seq++
	entry.ID = fmt.Sprintf("audit-%d", r.seq)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, entity, entityID string) ([]domain.AuditLog, error) {
	var result []domain.AuditLog
	for _, entry := range r.entries {
		if entry.Entity == entity && entry.EntityID == entityID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeAuditRepo) byAction(action string) []domain.AuditLog {
	var result []domain.AuditLog
	for _, entry := range r.entries {
		if entry.Action == action {
			result = append(result, entry)
		}
	}
	return result
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByCompanyRole(_ context.Context, companyID string, role domain.UserRole) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if user.CompanyID == companyID && user.Role == role {
			result = append(result, *user)
		}
	}
	return result, nil
}

type fakeCompanyRepo struct {
	companies map[string]*domain.Company
}

func newFakeCompanyRepo(companies ...*domain.Company) *fakeCompanyRepo {
	repo := &fakeCompanyRepo{companies: make(map[string]*domain.Company)}
	for _, company := range companies {
		repo.companies[company.ID] = company
	}
	return repo
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return company, nil
}

type fakeNotificationRepo struct {
	notifications []domain.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	notification.ID = fmt.Sprintf("notification-%d", len(r.notifications)+1)
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string, at time.Time) error {
	return nil
}
