package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// ErrStaleTicket signals that an update lost an optimistic-lock race: the
// ticket row changed since it was read.
var ErrStaleTicket = errors.New("ticket modified concurrently")

// TicketFilter captures listing parameters.
type TicketFilter struct {
	CompanyID   *string
	CreatedByID *string
	AssignedTo  *string
	Unassigned  bool
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	GetByRatingToken(ctx context.Context, token string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Ticket, error)
}

const ticketColumns = `id, number, title, description, status, priority,
    company_id, created_by_id, assigned_to_id, contract_id, category_id, queue_id, asset_id,
    sla_plan_id, due_first_response_at, due_resolution_at, sla_paused, sla_paused_since,
    first_response_at, resolved_at, closed_at,
    solution, closed_reason, tech_evaluation, tech_eval_category,
    user_rating, user_rating_comment, user_rating_token, user_rating_at,
    version, created_at, updated_at`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (number, title, description, status, priority,
            company_id, created_by_id, assigned_to_id, contract_id, category_id, queue_id, asset_id,
            sla_plan_id, due_first_response_at, due_resolution_at, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING id, version, updated_at`
	return dbFrom(ctx, r.pool).QueryRow(ctx, query,
		ticket.Number,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CompanyID,
		ticket.CreatedByID,
		ticket.AssignedToID,
		ticket.ContractID,
		ticket.CategoryID,
		ticket.QueueID,
		ticket.AssetID,
		ticket.SLAPlanID,
		ticket.DueFirstResponseAt,
		ticket.DueResolutionAt,
		ticket.CreatedAt,
	).Scan(&ticket.ID, &ticket.Version, &ticket.UpdatedAt)
}

// Update writes the full mutable state guarded by the version column.
// A zero-row update after a successful read means a concurrent writer won.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, priority=$2, assigned_to_id=$3, queue_id=$4,
            due_first_response_at=$5, due_resolution_at=$6, sla_paused=$7, sla_paused_since=$8,
            first_response_at=$9, resolved_at=$10, closed_at=$11,
            solution=$12, closed_reason=$13, tech_evaluation=$14, tech_eval_category=$15,
            user_rating=$16, user_rating_comment=$17, user_rating_token=$18, user_rating_at=$19,
            version=version+1, updated_at=NOW()
        WHERE id=$20 AND version=$21`
	cmd, err := dbFrom(ctx, r.pool).Exec(ctx, query,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedToID,
		ticket.QueueID,
		ticket.DueFirstResponseAt,
		ticket.DueResolutionAt,
		ticket.SLAPaused,
		ticket.SLAPausedSince,
		ticket.FirstResponseAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.Solution,
		ticket.ClosedReason,
		ticket.TechEvaluation,
		ticket.TechEvalCategory,
		ticket.UserRating,
		ticket.UserRatingComment,
		ticket.UserRatingToken,
		ticket.UserRatingAt,
		ticket.ID,
		ticket.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStaleTicket
	}
	ticket.Version++
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE number=$1`, number)
}

func (r *ticketRepository) GetByRatingToken(ctx context.Context, token string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE user_rating_token=$1`, token)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	row := dbFrom(ctx, r.pool).QueryRow(ctx, query, arg)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("company_id=$%d", len(args)))
	}
	if filter.CreatedByID != nil {
		args = append(args, *filter.CreatedByID)
		clauses = append(clauses, fmt.Sprintf("created_by_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to_id=$%d", len(args)))
	}
	if filter.Unassigned {
		clauses = append(clauses, "assigned_to_id IS NULL")
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ListOverdue returns tickets whose resolution deadline has passed without
// resolution, ordered by deadline so the longest-breached come first.
func (r *ticketRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM tickets
        WHERE due_resolution_at IS NOT NULL AND resolved_at IS NULL AND due_resolution_at < $1
        ORDER BY due_resolution_at ASC`
	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Number,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CompanyID,
		&ticket.CreatedByID,
		&ticket.AssignedToID,
		&ticket.ContractID,
		&ticket.CategoryID,
		&ticket.QueueID,
		&ticket.AssetID,
		&ticket.SLAPlanID,
		&ticket.DueFirstResponseAt,
		&ticket.DueResolutionAt,
		&ticket.SLAPaused,
		&ticket.SLAPausedSince,
		&ticket.FirstResponseAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.Solution,
		&ticket.ClosedReason,
		&ticket.TechEvaluation,
		&ticket.TechEvalCategory,
		&ticket.UserRating,
		&ticket.UserRatingComment,
		&ticket.UserRatingToken,
		&ticket.UserRatingAt,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
