package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository"
)

// NotificationService turns post-commit ticket events into in-app
// notification rows. Strictly best effort: a failed write is logged and
// never surfaces to the operation that emitted the event.
type NotificationService struct {
	dispatcher    events.Dispatcher
	tickets       repository.TicketRepository
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(
	dispatcher events.Dispatcher,
	tickets repository.TicketRepository,
	notifications repository.NotificationRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		dispatcher:    dispatcher,
		tickets:       tickets,
		notifications: notifications,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleCommentAdded)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketClosed, n.handleClosed)
}

// handleCommentAdded notifies the counterpart of the author: the assignee
// when the requester wrote, the requester otherwise. Internal comments never
// reach the requester.
func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCommentAddedPayload)
	if !ok {
		return nil
	}
	ticket, err := n.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		n.logger.Warn("notification skipped, ticket lookup failed", zap.String("ticket_id", event.TicketID), zap.Error(err))
		return nil
	}

	var recipient string
	switch {
	case payload.Internal:
		if ticket.AssignedToID != nil && *ticket.AssignedToID != payload.AuthorID {
			recipient = *ticket.AssignedToID
		}
	case payload.AuthorID == ticket.CreatedByID:
		if ticket.AssignedToID != nil {
			recipient = *ticket.AssignedToID
		}
	default:
		recipient = ticket.CreatedByID
	}
	if recipient == "" {
		return nil
	}

	n.store(ctx, &domain.Notification{
		UserID:    recipient,
		CompanyID: event.CompanyID,
		Kind:      domain.NotificationTicketComment,
		Title:     fmt.Sprintf("New comment on %s", event.TicketNumber),
		Body:      payload.BodyPreview,
		Link:      "/tickets/" + event.TicketID,
	})
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	ticket, err := n.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		n.logger.Warn("notification skipped, ticket lookup failed", zap.String("ticket_id", event.TicketID), zap.Error(err))
		return nil
	}
	if event.ActorID != nil && *event.ActorID == ticket.CreatedByID {
		return nil
	}

	n.store(ctx, &domain.Notification{
		UserID:    ticket.CreatedByID,
		CompanyID: event.CompanyID,
		Kind:      domain.NotificationTicketStatus,
		Title:     fmt.Sprintf("%s is now %s", event.TicketNumber, payload.NewStatus),
		Body:      fmt.Sprintf("Status changed from %s to %s", payload.OldStatus, payload.NewStatus),
		Link:      "/tickets/" + event.TicketID,
	})
	return nil
}

func (n *NotificationService) handleClosed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketClosedPayload)
	if !ok {
		return nil
	}
	n.store(ctx, &domain.Notification{
		UserID:    payload.CreatedByID,
		CompanyID: event.CompanyID,
		Kind:      domain.NotificationTicketClosed,
		Title:     fmt.Sprintf("%s has been closed", event.TicketNumber),
		Body:      payload.ClosedReason,
		Link:      "/tickets/" + event.TicketID,
	})
	return nil
}

func (n *NotificationService) store(ctx context.Context, notification *domain.Notification) {
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Warn("notification write failed",
			zap.String("user_id", notification.UserID),
			zap.String("kind", string(notification.Kind)),
			zap.Error(err))
	}
}
