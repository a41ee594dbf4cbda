package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// ParticipantRepository tracks staff explicitly invited onto a ticket.
type ParticipantRepository interface {
	Add(ctx context.Context, participant *domain.TicketParticipant) error
	Remove(ctx context.Context, ticketID, userID string) error
	Exists(ctx context.Context, ticketID, userID string) (bool, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketParticipant, error)
}

type participantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository instantiates the repository.
func NewParticipantRepository(pool *pgxpool.Pool) ParticipantRepository {
	return &participantRepository{pool: pool}
}

func (r *participantRepository) Add(ctx context.Context, participant *domain.TicketParticipant) error {
	const query = `
        INSERT INTO ticket_participants (ticket_id, user_id)
        VALUES ($1,$2)
        ON CONFLICT (ticket_id, user_id) DO NOTHING
        RETURNING id, created_at`
	err := dbFrom(ctx, r.pool).QueryRow(ctx, query,
		participant.TicketID,
		participant.UserID,
	).Scan(&participant.ID, &participant.CreatedAt)
	if err == pgx.ErrNoRows {
		// already a participant
		return nil
	}
	return err
}

func (r *participantRepository) Remove(ctx context.Context, ticketID, userID string) error {
	const query = `DELETE FROM ticket_participants WHERE ticket_id=$1 AND user_id=$2`
	cmd, err := dbFrom(ctx, r.pool).Exec(ctx, query, ticketID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *participantRepository) Exists(ctx context.Context, ticketID, userID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM ticket_participants WHERE ticket_id=$1 AND user_id=$2)`
	var exists bool
	if err := dbFrom(ctx, r.pool).QueryRow(ctx, query, ticketID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *participantRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketParticipant, error) {
	const query = `
        SELECT id, ticket_id, user_id, created_at
        FROM ticket_participants WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketParticipant
	for rows.Next() {
		var participant domain.TicketParticipant
		if err := rows.Scan(
			&participant.ID,
			&participant.TicketID,
			&participant.UserID,
			&participant.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, participant)
	}
	return result, rows.Err()
}
