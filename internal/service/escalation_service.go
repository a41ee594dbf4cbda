package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/observability"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// EscalationService scans for tickets whose resolution deadline has passed
// without resolution and forces them into WAITING. Each matched ticket is its
// own atomic unit; one ticket failing does not block the rest of the batch.
type EscalationService struct {
	tickets    repository.TicketRepository
	audits     repository.AuditLogRepository
	tx         repository.TxManager
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewEscalationService constructs the service.
func NewEscalationService(
	tickets repository.TicketRepository,
	audits repository.AuditLogRepository,
	tx repository.TxManager,
	dispatcher events.Dispatcher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *EscalationService {
	return &EscalationService{
		tickets:    tickets,
		audits:     audits,
		tx:         tx,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// RunEscalationPass executes one breach scan at the given instant and returns
// how many tickets it transitioned. Idempotent: a ticket already in WAITING
// is left alone and gets no second audit entry.
func (s *EscalationService) RunEscalationPass(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.tickets.ListOverdue(ctx, now)
	if err != nil {
		return 0, apperrors.MapError(err)
	}

	escalated := 0
	var pending []events.Event
	for i := range overdue {
		event, changed, err := s.escalateOne(ctx, overdue[i].ID)
		if err != nil {
			s.logger.Warn("escalation failed for ticket",
				zap.String("ticket_id", overdue[i].ID),
				zap.Error(err))
			continue
		}
		if changed {
			escalated++
			pending = append(pending, event)
		}
	}

	s.metrics.RecordEscalationPass(escalated)
	s.logger.Info("escalation pass complete",
		zap.Int("overdue", len(overdue)),
		zap.Int("escalated", escalated))

	for _, event := range pending {
		_ = s.dispatcher.Publish(ctx, event)
	}
	return escalated, nil
}

// escalateOne re-reads the ticket inside its own transaction so a
// concurrently resolved ticket is skipped rather than clobbered.
func (s *EscalationService) escalateOne(ctx context.Context, ticketID string) (events.Event, bool, error) {
	var event events.Event
	changed := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		if t.ResolvedAt != nil || t.Status.Terminal() {
			return nil
		}
		if t.Status == domain.TicketStatusWaiting {
			return nil
		}

		oldStatus := t.Status
		t.Status = domain.TicketStatusWaiting
		if err := s.tickets.Update(ctx, t); err != nil {
			return err
		}

		entry := &domain.AuditLog{
			Entity:   "ticket",
			EntityID: t.ID,
			Action:   "escalate_overdue",
			UserID:   nil,
			Data:     fmt.Sprintf("status %s -> %s", oldStatus, t.Status),
		}
		if err := s.audits.Create(ctx, entry); err != nil {
			return err
		}

		event = events.Event{
			ID:           uuid.NewString(),
			Type:         events.EventTicketStatusChanged,
			TicketID:     t.ID,
			TicketNumber: t.Number,
			CompanyID:    t.CompanyID,
			Timestamp:    t.UpdatedAt,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: t.Status,
			},
		}
		changed = true
		return nil
	})
	return event, changed, err
}
