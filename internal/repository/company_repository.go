package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// CompanyRepository reads tenant records.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
}

// CatalogRepository lists the optional references a ticket can point at:
// contracts, categories, queues, and assets of a company.
type CatalogRepository interface {
	ListContracts(ctx context.Context, companyID string) ([]domain.Contract, error)
	ListCategories(ctx context.Context, companyID string) ([]domain.Category, error)
	ListQueues(ctx context.Context, companyID string) ([]domain.Queue, error)
	ListAssets(ctx context.Context, companyID string) ([]domain.Asset, error)
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository instantiates the repository.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	const query = `SELECT id, name, domain, active, created_at FROM companies WHERE id=$1`
	var company domain.Company
	if err := dbFrom(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.Domain,
		&company.Active,
		&company.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &company, nil
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository instantiates the repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) ListContracts(ctx context.Context, companyID string) ([]domain.Contract, error) {
	const query = `SELECT id, company_id, name, active, created_at FROM contracts WHERE company_id=$1 AND active ORDER BY name ASC`
	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contract
	for rows.Next() {
		var contract domain.Contract
		if err := rows.Scan(&contract.ID, &contract.CompanyID, &contract.Name, &contract.Active, &contract.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, contract)
	}
	return result, rows.Err()
}

func (r *catalogRepository) ListCategories(ctx context.Context, companyID string) ([]domain.Category, error) {
	// Global categories (company_id NULL) are visible to every tenant.
	const query = `SELECT id, company_id, name, parent_id, created_at FROM categories
        WHERE company_id IS NULL OR company_id=$1 ORDER BY name ASC`
	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.CompanyID, &category.Name, &category.ParentID, &category.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *catalogRepository) ListQueues(ctx context.Context, companyID string) ([]domain.Queue, error) {
	const query = `SELECT id, company_id, name, active, created_at FROM queues WHERE company_id=$1 AND active ORDER BY name ASC`
	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Queue
	for rows.Next() {
		var queue domain.Queue
		if err := rows.Scan(&queue.ID, &queue.CompanyID, &queue.Name, &queue.Active, &queue.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, queue)
	}
	return result, rows.Err()
}

func (r *catalogRepository) ListAssets(ctx context.Context, companyID string) ([]domain.Asset, error) {
	const query = `SELECT id, company_id, name, serial, type, active, created_at FROM assets WHERE company_id=$1 AND active ORDER BY name ASC`
	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(&asset.ID, &asset.CompanyID, &asset.Name, &asset.Serial, &asset.Type, &asset.Active, &asset.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, asset)
	}
	return result, rows.Err()
}
