package email

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository"
)

// Listener bridges post-commit ticket events to the Mailer. All lookups and
// deliveries are best effort.
type Listener struct {
	mailer   *Mailer
	tickets  repository.TicketRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	logger   *zap.Logger
}

// NewListener creates the listener.
func NewListener(
	mailer *Mailer,
	tickets repository.TicketRepository,
	users repository.UserRepository,
	comments repository.CommentRepository,
	logger *zap.Logger,
) *Listener {
	return &Listener{mailer: mailer, tickets: tickets, users: users, comments: comments, logger: logger}
}

// RegisterHandlers subscribes to events. A nil mailer means SMTP is not
// configured and nothing is registered.
func (l *Listener) RegisterHandlers(dispatcher events.Dispatcher) {
	if l.mailer == nil || dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, l.handleCreated)
	dispatcher.Subscribe(events.EventTicketCommentAdded, l.handleCommentAdded)
	dispatcher.Subscribe(events.EventTicketStatusChanged, l.handleStatusChanged)
	dispatcher.Subscribe(events.EventTicketClosed, l.handleClosed)
}

func (l *Listener) handleCreated(ctx context.Context, event events.Event) error {
	ticket, creator, ok := l.lookup(ctx, event.TicketID)
	if !ok {
		return nil
	}
	l.mailer.SendTicketCreated(ctx, creator, ticket)
	return nil
}

func (l *Listener) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, isPayload := event.Payload.(events.TicketCommentAddedPayload)
	if !isPayload || payload.Internal {
		return nil
	}
	ticket, creator, ok := l.lookup(ctx, event.TicketID)
	if !ok {
		return nil
	}
	// The requester only gets mail about staff replies.
	if payload.AuthorID == ticket.CreatedByID {
		return nil
	}
	l.mailer.SendCommentAdded(ctx, creator, ticket, payload.BodyPreview)
	return nil
}

func (l *Listener) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, isPayload := event.Payload.(events.TicketStatusChangedPayload)
	if !isPayload {
		return nil
	}
	ticket, creator, ok := l.lookup(ctx, event.TicketID)
	if !ok {
		return nil
	}
	l.mailer.SendStatusChanged(ctx, creator, ticket, payload.OldStatus, payload.NewStatus)
	return nil
}

// handleClosed compiles the public transcript and mails it with the rating
// link.
func (l *Listener) handleClosed(ctx context.Context, event events.Event) error {
	ticket, creator, ok := l.lookup(ctx, event.TicketID)
	if !ok {
		return nil
	}
	comments, err := l.comments.ListByTicket(ctx, ticket.ID, false)
	if err != nil {
		l.logger.Warn("transcript lookup failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		comments = nil
	}

	authors := make(map[string]string, len(comments))
	for _, comment := range comments {
		if _, seen := authors[comment.UserID]; seen {
			continue
		}
		if author, err := l.users.GetByID(ctx, comment.UserID); err == nil {
			authors[comment.UserID] = author.Name
		}
	}

	l.mailer.SendTicketClosed(ctx, creator, ticket, comments, authors)
	return nil
}

func (l *Listener) lookup(ctx context.Context, ticketID string) (*domain.Ticket, string, bool) {
	t, err := l.tickets.GetByID(ctx, ticketID)
	if err != nil {
		l.logger.Warn("email skipped, ticket lookup failed", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, "", false
	}
	creator, err := l.users.GetByID(ctx, t.CreatedByID)
	if err != nil {
		l.logger.Warn("email skipped, user lookup failed", zap.String("user_id", t.CreatedByID), zap.Error(err))
		return nil, "", false
	}
	return t, creator.Email, true
}
