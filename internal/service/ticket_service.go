package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository"
	"github.com/spec-kit/servicedesk/internal/sla"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// TicketService coordinates the ticket lifecycle: creation with SLA
// attachment, assignment, comments, resolve/close/reopen, SLA pause/resume,
// participants, and rating. Every mutation runs read-validate-write-audit
// inside one transaction; events are published only after commit.
type TicketService struct {
	tickets      repository.TicketRepository
	comments     repository.CommentRepository
	participants repository.ParticipantRepository
	plans        repository.SLAPlanRepository
	audits       repository.AuditLogRepository
	users        repository.UserRepository
	companies    repository.CompanyRepository
	tx           repository.TxManager
	dispatcher   events.Dispatcher
	clock        sla.Clock
	logger       *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo      repository.TicketRepository
	CommentRepo     repository.CommentRepository
	ParticipantRepo repository.ParticipantRepository
	PlanRepo        repository.SLAPlanRepository
	AuditRepo       repository.AuditLogRepository
	UserRepo        repository.UserRepository
	CompanyRepo     repository.CompanyRepository
	Tx              repository.TxManager
	Dispatcher      events.Dispatcher
	Clock           sla.Clock
	Logger          *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:      deps.TicketRepo,
		comments:     deps.CommentRepo,
		participants: deps.ParticipantRepo,
		plans:        deps.PlanRepo,
		audits:       deps.AuditRepo,
		users:        deps.UserRepo,
		companies:    deps.CompanyRepo,
		tx:           deps.Tx,
		dispatcher:   deps.Dispatcher,
		clock:        deps.Clock,
		logger:       deps.Logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	ContractID  *string
	CategoryID  *string
	QueueID     *string
	AssetID     *string
}

// AssignInput describes an assignment or transfer.
type AssignInput struct {
	AssigneeID string
	Status     *domain.TicketStatus
	QueueID    *string
}

// CommentInput describes a thread entry.
type CommentInput struct {
	Content  string
	Internal bool
}

// CloseInput describes the closing payload. Evaluation and category are
// mandatory; reason is required too.
type CloseInput struct {
	Reason       string
	Evaluation   string
	EvalCategory domain.EvalCategory
	Solution     *string
}

// Create registers a new ticket, selects the best-matching SLA plan, and
// snapshots its due timestamps.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if input.Description == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}

	var ticket *domain.Ticket
	var pending []events.Event
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		company, err := s.companies.GetByID(ctx, actor.CompanyID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !company.Active {
			return apperrors.NewForbidden("company is inactive")
		}

		now := s.clock.Now()
		t := &domain.Ticket{
			Number:      generateTicketNumber(now),
			Title:       input.Title,
			Description: input.Description,
			Status:      domain.TicketStatusNew,
			Priority:    input.Priority,
			CompanyID:   actor.CompanyID,
			CreatedByID: actor.ID,
			ContractID:  input.ContractID,
			CategoryID:  input.CategoryID,
			QueueID:     input.QueueID,
			AssetID:     input.AssetID,
			CreatedAt:   now,
		}

		candidates, err := s.plans.ListActiveByCompany(ctx, actor.CompanyID)
		if err != nil {
			return apperrors.MapError(err)
		}
		plan := sla.SelectPlan(candidates, sla.Scope{
			ContractID: input.ContractID,
			CategoryID: input.CategoryID,
			Priority:   &t.Priority,
		})
		sla.Apply(t, plan)

		if err := s.tickets.Create(ctx, t); err != nil {
			return apperrors.MapError(err)
		}
		if err := s.writeAudit(ctx, t.ID, "create", &actor.ID, fmt.Sprintf("ticket %s created", t.Number)); err != nil {
			return err
		}

		pending = append(pending, s.newEvent(events.EventTicketCreated, t, &actor.ID, events.TicketCreatedPayload{
			Title:       t.Title,
			Priority:    t.Priority,
			CreatedByID: t.CreatedByID,
			SLAPlanID:   t.SLAPlanID,
		}))
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, pending)
	return ticket, nil
}

// Get returns a ticket visible to the actor.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if allowed, reason := CanView(actor, ticket); !allowed {
		return nil, apperrors.NewForbidden(reason)
	}
	return ticket, nil
}

// List returns tickets visible to the actor. Clients only ever see their own.
func (s *TicketService) List(ctx context.Context, actor *domain.User, filter repository.TicketFilter) ([]domain.Ticket, error) {
	companyID := actor.CompanyID
	filter.CompanyID = &companyID
	if actor.Role == domain.RoleClient {
		creatorID := actor.ID
		filter.CreatedByID = &creatorID
	}
	result, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Assign sets or transfers the assignee, optionally moving status and queue.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, ticketID string, input AssignInput) (*domain.Ticket, error) {
	if input.AssigneeID == "" {
		return nil, apperrors.NewValidationError("assignee is required", nil)
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
	}

	var ticket *domain.Ticket
	var pending []events.Event
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.loadScoped(ctx, actor, ticketID)
		if err != nil {
			return err
		}
		if allowed, reason := CanAssign(actor, t); !allowed {
			return apperrors.NewForbidden(reason)
		}
		if t.Status == domain.TicketStatusClosed {
			return apperrors.NewInvalidState("closed tickets cannot be assigned", string(t.Status))
		}

		assignee, err := s.users.GetByID(ctx, input.AssigneeID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if assignee.CompanyID != t.CompanyID || !assignee.Role.Staff() {
			return apperrors.NewValidationError("assignee must be a staff member of the company", nil)
		}

		oldStatus := t.Status
		assigneeID := assignee.ID
		t.AssignedToID = &assigneeID
		if input.QueueID != nil {
			t.QueueID = input.QueueID
		}
		if input.Status != nil {
			t.Status = *input.Status
		} else if t.Status == domain.TicketStatusNew {
			t.Status = domain.TicketStatusInProgress
		}

		if err := s.update(ctx, t); err != nil {
			return err
		}

		data := fmt.Sprintf("assigned to %s", assignee.Name)
		if t.Status != oldStatus {
			data += fmt.Sprintf("; status %s -> %s", oldStatus, t.Status)
		}
		if err := s.writeAudit(ctx, t.ID, "assign", &actor.ID, data); err != nil {
			return err
		}

		pending = append(pending, s.newEvent(events.EventTicketAssigned, t, &actor.ID, events.TicketAssignedPayload{
			AssignedToID: t.AssignedToID,
		}))
		if t.Status != oldStatus {
			pending = append(pending, s.newEvent(events.EventTicketStatusChanged, t, &actor.ID, events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: t.Status,
			}))
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, pending)
	return ticket, nil
}

// Comment appends a thread entry. A staff comment stamps the first-response
// timestamp once.
func (s *TicketService) Comment(ctx context.Context, actor *domain.User, ticketID string, input CommentInput) (*domain.TicketComment, error) {
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}

	var comment *domain.TicketComment
	var pending []events.Event
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.loadScoped(ctx, actor, ticketID)
		if err != nil {
			return err
		}
		if t.Status == domain.TicketStatusClosed {
			return apperrors.NewInvalidState("closed tickets do not accept comments", string(t.Status))
		}

		isParticipant, err := s.isParticipant(ctx, actor, t)
		if err != nil {
			return apperrors.MapError(err)
		}
		if allowed, reason := CanComment(actor, t, isParticipant); !allowed {
			return apperrors.NewForbidden(reason)
		}

		c := &domain.TicketComment{
			TicketID: t.ID,
			UserID:   actor.ID,
			Content:  input.Content,
			Internal: input.Internal && actor.Role.Staff(),
		}
		if err := s.comments.Create(ctx, c); err != nil {
			return apperrors.MapError(err)
		}

		if actor.Role.Staff() && t.FirstResponseAt == nil {
			now := s.clock.Now()
			t.FirstResponseAt = &now
			if err := s.update(ctx, t); err != nil {
				return err
			}
		}

		pending = append(pending, s.newEvent(events.EventTicketCommentAdded, t, &actor.ID, events.TicketCommentAddedPayload{
			CommentID:   c.ID,
			AuthorID:    actor.ID,
			Internal:    c.Internal,
			BodyPreview: preview(c.Content, 120),
		}))
		comment = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, pending)
	return comment, nil
}

// ListComments returns the thread visible to the actor. Internal comments are
// staff-only.
func (s *TicketService) ListComments(ctx context.Context, actor *domain.User, ticketID string) ([]domain.TicketComment, error) {
	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	result, err := s.comments.ListByTicket(ctx, ticket.ID, actor.Role.Staff())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Resolve moves the ticket to RESOLVED and records the solution.
func (s *TicketService) Resolve(ctx context.Context, actor *domain.User, ticketID string, solution string) (*domain.Ticket, error) {
	solution = strings.TrimSpace(solution)
	if solution == "" {
		return nil, apperrors.NewValidationError("solution is required", nil)
	}

	return s.transition(ctx, actor, ticketID, func(t *domain.Ticket) error {
		if t.Status == domain.TicketStatusResolved || t.Status == domain.TicketStatusClosed {
			return apperrors.NewInvalidState("ticket is already resolved", string(t.Status))
		}
		now := s.clock.Now()
		t.Status = domain.TicketStatusResolved
		t.ResolvedAt = &now
		t.Solution = &solution
		return nil
	}, "resolve")
}

// Close moves the ticket to CLOSED. The technician evaluation and its
// category are mandatory; a one-time rating token is generated if the ticket
// has never been rated.
func (s *TicketService) Close(ctx context.Context, actor *domain.User, ticketID string, input CloseInput) (*domain.Ticket, error) {
	input.Reason = strings.TrimSpace(input.Reason)
	input.Evaluation = strings.TrimSpace(input.Evaluation)
	if input.Reason == "" {
		return nil, apperrors.NewValidationError("closing reason is required", nil)
	}
	if input.Evaluation == "" {
		return nil, apperrors.NewValidationError("technician evaluation is required", nil)
	}
	if !input.EvalCategory.Valid() {
		return nil, apperrors.NewValidationError("invalid evaluation category", map[string]any{"category": input.EvalCategory})
	}

	return s.transition(ctx, actor, ticketID, func(t *domain.Ticket) error {
		if t.Status == domain.TicketStatusClosed {
			return apperrors.NewInvalidState("ticket is already closed", string(t.Status))
		}
		now := s.clock.Now()
		t.Status = domain.TicketStatusClosed
		t.ClosedAt = &now
		if t.ResolvedAt == nil {
			t.ResolvedAt = &now
		}
		t.ClosedReason = &input.Reason
		t.TechEvaluation = &input.Evaluation
		category := input.EvalCategory
		t.TechEvalCategory = &category
		if input.Solution != nil {
			t.Solution = input.Solution
		}
		if t.UserRatingToken == nil && t.UserRatingAt == nil {
			token, err := generateRatingToken()
			if err != nil {
				return apperrors.NewInternalError(err)
			}
			t.UserRatingToken = &token
		}
		return nil
	}, "close")
}

// Reopen moves a resolved or closed ticket back to IN_PROGRESS.
func (s *TicketService) Reopen(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, func(t *domain.Ticket) error {
		if t.Status != domain.TicketStatusResolved && t.Status != domain.TicketStatusClosed {
			return apperrors.NewInvalidState("only resolved or closed tickets can be reopened", string(t.Status))
		}
		t.Status = domain.TicketStatusInProgress
		t.ClosedAt = nil
		t.ClosedReason = nil
		t.ResolvedAt = nil
		return nil
	}, "reopen")
}

// transition runs the shared resolve/close/reopen flow: load, authorize,
// apply, persist, audit, and emit the status-change event.
func (s *TicketService) transition(ctx context.Context, actor *domain.User, ticketID string, apply func(*domain.Ticket) error, action string) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	var pending []events.Event
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.loadScoped(ctx, actor, ticketID)
		if err != nil {
			return err
		}
		isParticipant, err := s.isParticipant(ctx, actor, t)
		if err != nil {
			return apperrors.MapError(err)
		}
		if allowed, reason := CanTransition(actor, t, isParticipant); !allowed {
			return apperrors.NewForbidden(reason)
		}

		oldStatus := t.Status
		if err := apply(t); err != nil {
			return err
		}
		if err := s.update(ctx, t); err != nil {
			return err
		}
		if err := s.writeAudit(ctx, t.ID, action, &actor.ID, fmt.Sprintf("status %s -> %s", oldStatus, t.Status)); err != nil {
			return err
		}

		pending = append(pending, s.newEvent(events.EventTicketStatusChanged, t, &actor.ID, events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: t.Status,
		}))
		if t.Status == domain.TicketStatusClosed {
			token := ""
			if t.UserRatingToken != nil {
				token = *t.UserRatingToken
			}
			pending = append(pending, s.newEvent(events.EventTicketClosed, t, &actor.ID, events.TicketClosedPayload{
				ClosedReason: derefString(t.ClosedReason),
				CreatedByID:  t.CreatedByID,
				RatingToken:  token,
			}))
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, pending)
	return ticket, nil
}

// PauseSLA stops the SLA clock. Pausing an already-paused ticket is a no-op
// and leaves no audit entry.
func (s *TicketService) PauseSLA(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	return s.slaToggle(ctx, actor, ticketID, "sla_pause", func(t *domain.Ticket) bool {
		return sla.Pause(t, s.clock.Now())
	})
}

// ResumeSLA restarts the SLA clock, shifting due timestamps by the paused
// duration. Resuming a ticket that is not paused is a no-op.
func (s *TicketService) ResumeSLA(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	return s.slaToggle(ctx, actor, ticketID, "sla_resume", func(t *domain.Ticket) bool {
		return sla.Resume(t, s.clock.Now())
	})
}

func (s *TicketService) slaToggle(ctx context.Context, actor *domain.User, ticketID, action string, apply func(*domain.Ticket) bool) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.loadScoped(ctx, actor, ticketID)
		if err != nil {
			return err
		}
		if allowed, reason := CanManageSLA(actor); !allowed {
			return apperrors.NewForbidden(reason)
		}
		if t.Status == domain.TicketStatusClosed {
			return apperrors.NewInvalidState("closed tickets have no SLA clock", string(t.Status))
		}

		if !apply(t) {
			ticket = t
			return nil
		}
		if err := s.update(ctx, t); err != nil {
			return err
		}
		if err := s.writeAudit(ctx, t.ID, action, &actor.ID, ""); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// AddParticipant invites a staff member onto the ticket.
func (s *TicketService) AddParticipant(ctx context.Context, actor *domain.User, ticketID, userID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.loadScoped(ctx, actor, ticketID)
		if err != nil {
			return err
		}
		if allowed, reason := CanManageParticipants(actor, t); !allowed {
			return apperrors.NewForbidden(reason)
		}

		invited, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if invited.CompanyID != t.CompanyID || !invited.Role.Staff() {
			return apperrors.NewValidationError("participant must be a staff member of the company", nil)
		}

		if err := s.participants.Add(ctx, &domain.TicketParticipant{TicketID: t.ID, UserID: invited.ID}); err != nil {
			return apperrors.MapError(err)
		}
		return s.writeAudit(ctx, t.ID, "participant_add", &actor.ID, fmt.Sprintf("invited %s", invited.Name))
	})
}

// RemoveParticipant removes an invited staff member from the ticket.
func (s *TicketService) RemoveParticipant(ctx context.Context, actor *domain.User, ticketID, userID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.loadScoped(ctx, actor, ticketID)
		if err != nil {
			return err
		}
		if allowed, reason := CanManageParticipants(actor, t); !allowed {
			return apperrors.NewForbidden(reason)
		}
		if err := s.participants.Remove(ctx, t.ID, userID); err != nil {
			return apperrors.MapError(err)
		}
		return s.writeAudit(ctx, t.ID, "participant_remove", &actor.ID, userID)
	})
}

// RateByToken records a one-time anonymous rating using the token mailed at
// close. The token is consumed by the first successful rating.
func (s *TicketService) RateByToken(ctx context.Context, token string, rating int, comment string) (*domain.Ticket, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}

	var ticket *domain.Ticket
	var pending []events.Event
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.tickets.GetByRatingToken(ctx, token)
		if err != nil {
			return apperrors.MapError(err)
		}
		if t.Status != domain.TicketStatusClosed {
			return apperrors.NewInvalidState("only closed tickets can be rated", string(t.Status))
		}
		if t.UserRatingAt != nil {
			return apperrors.NewConflict("ticket already rated", nil)
		}

		now := s.clock.Now()
		t.UserRating = &rating
		if comment = strings.TrimSpace(comment); comment != "" {
			t.UserRatingComment = &comment
		}
		t.UserRatingAt = &now
		t.UserRatingToken = nil

		if err := s.update(ctx, t); err != nil {
			return err
		}
		if err := s.writeAudit(ctx, t.ID, "rate", nil, fmt.Sprintf("rating %d", rating)); err != nil {
			return err
		}

		pending = append(pending, s.newEvent(events.EventTicketRated, t, nil, events.TicketRatedPayload{
			Rating:  rating,
			Comment: comment,
		}))
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, pending)
	return ticket, nil
}

// ListAuditTrail returns the ticket's audit entries. Staff only.
func (s *TicketService) ListAuditTrail(ctx context.Context, actor *domain.User, ticketID string) ([]domain.AuditLog, error) {
	if !actor.Role.Staff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	ticket, err := s.loadScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	entries, err := s.audits.ListByEntity(ctx, "ticket", ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// loadScoped fetches the ticket and hides other tenants' tickets behind
// not-found.
func (s *TicketService) loadScoped(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.CompanyID != actor.CompanyID {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

// isParticipant reports whether the exclusivity bypass applies: only relevant
// for a tech who is not the assignee of an assigned ticket.
func (s *TicketService) isParticipant(ctx context.Context, actor *domain.User, ticket *domain.Ticket) (bool, error) {
	if actor.Role != domain.RoleTech {
		return false, nil
	}
	if ticket.AssignedToID == nil || *ticket.AssignedToID == actor.ID {
		return false, nil
	}
	return s.participants.Exists(ctx, ticket.ID, actor.ID)
}

func (s *TicketService) update(ctx context.Context, ticket *domain.Ticket) error {
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrStaleTicket) {
			return apperrors.NewConflict("ticket was modified concurrently, retry", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) writeAudit(ctx context.Context, ticketID, action string, userID *string, data string) error {
	entry := &domain.AuditLog{
		Entity:   "ticket",
		EntityID: ticketID,
		Action:   action,
		UserID:   userID,
		Data:     data,
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) newEvent(eventType events.EventType, ticket *domain.Ticket, actorID *string, payload interface{}) events.Event {
	return events.Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		TicketID:     ticket.ID,
		TicketNumber: ticket.Number,
		CompanyID:    ticket.CompanyID,
		ActorID:      actorID,
		Timestamp:    s.clock.Now(),
		Payload:      payload,
	}
}

// publish runs after commit. Handler failures are the handlers' problem.
func (s *TicketService) publish(ctx context.Context, pending []events.Event) {
	for _, event := range pending {
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
}

// generateTicketNumber builds the human-readable identifier
// TCK-YYYYMMDD-XXXXXX with an uppercase hex suffix.
func generateTicketNumber(now time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("TCK-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(id[:3])))
}

// generateRatingToken returns a 32-char hex token.
func generateRatingToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
