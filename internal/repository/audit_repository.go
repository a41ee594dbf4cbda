package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// AuditLogRepository stores the append-only audit trail. Entries are created
// inside the same transaction as the state change they describe and never
// mutated afterwards.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByEntity(ctx context.Context, entity, entityID string) ([]domain.AuditLog, error)
}

type auditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository instantiates the repository.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	const query = `
        INSERT INTO audit_logs (entity, entity_id, action, user_id, data)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return dbFrom(ctx, r.pool).QueryRow(ctx, query,
		entry.Entity,
		entry.EntityID,
		entry.Action,
		entry.UserID,
		entry.Data,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entity, entityID string) ([]domain.AuditLog, error) {
	const query = `
        SELECT id, entity, entity_id, action, user_id, data, created_at
        FROM audit_logs WHERE entity=$1 AND entity_id=$2 ORDER BY created_at ASC`
	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, entity, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(
			&entry.ID,
			&entry.Entity,
			&entry.EntityID,
			&entry.Action,
			&entry.UserID,
			&entry.Data,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
