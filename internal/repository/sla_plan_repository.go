package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// SLAPlanRepository is the SLA catalog.
type SLAPlanRepository interface {
	Create(ctx context.Context, plan *domain.SLAPlan) error
	Update(ctx context.Context, plan *domain.SLAPlan) error
	GetByID(ctx context.Context, id string) (*domain.SLAPlan, error)
	// ListActiveByCompany returns active plans ordered by plan id ascending.
	// The fixed order makes selector tie-breaks deterministic.
	ListActiveByCompany(ctx context.Context, companyID string) ([]domain.SLAPlan, error)
}

const slaPlanColumns = `id, company_id, name, first_response_minutes, resolution_minutes,
    contract_id, category_id, priority, active, created_at, updated_at`

type slaPlanRepository struct {
	pool *pgxpool.Pool
}

// NewSLAPlanRepository instantiates the repository.
func NewSLAPlanRepository(pool *pgxpool.Pool) SLAPlanRepository {
	return &slaPlanRepository{pool: pool}
}

func (r *slaPlanRepository) Create(ctx context.Context, plan *domain.SLAPlan) error {
	const query = `
        INSERT INTO sla_plans (company_id, name, first_response_minutes, resolution_minutes,
            contract_id, category_id, priority, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return dbFrom(ctx, r.pool).QueryRow(ctx, query,
		plan.CompanyID,
		plan.Name,
		plan.FirstResponseMinutes,
		plan.ResolutionMinutes,
		plan.ContractID,
		plan.CategoryID,
		plan.Priority,
		plan.Active,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
}

func (r *slaPlanRepository) Update(ctx context.Context, plan *domain.SLAPlan) error {
	const query = `
        UPDATE sla_plans SET name=$1, first_response_minutes=$2, resolution_minutes=$3,
            contract_id=$4, category_id=$5, priority=$6, active=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := dbFrom(ctx, r.pool).Exec(ctx, query,
		plan.Name,
		plan.FirstResponseMinutes,
		plan.ResolutionMinutes,
		plan.ContractID,
		plan.CategoryID,
		plan.Priority,
		plan.Active,
		plan.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slaPlanRepository) GetByID(ctx context.Context, id string) (*domain.SLAPlan, error) {
	query := `SELECT ` + slaPlanColumns + ` FROM sla_plans WHERE id=$1`
	var plan domain.SLAPlan
	if err := dbFrom(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&plan.ID,
		&plan.CompanyID,
		&plan.Name,
		&plan.FirstResponseMinutes,
		&plan.ResolutionMinutes,
		&plan.ContractID,
		&plan.CategoryID,
		&plan.Priority,
		&plan.Active,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *slaPlanRepository) ListActiveByCompany(ctx context.Context, companyID string) ([]domain.SLAPlan, error) {
	query := `SELECT ` + slaPlanColumns + ` FROM sla_plans WHERE company_id=$1 AND active ORDER BY id ASC`
	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLAPlan
	for rows.Next() {
		var plan domain.SLAPlan
		if err := rows.Scan(
			&plan.ID,
			&plan.CompanyID,
			&plan.Name,
			&plan.FirstResponseMinutes,
			&plan.ResolutionMinutes,
			&plan.ContractID,
			&plan.CategoryID,
			&plan.Priority,
			&plan.Active,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, plan)
	}
	return result, rows.Err()
}
