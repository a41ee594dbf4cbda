package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
)

const (
	slaCacheKeyPrefix = "sla:active:"
	slaCacheTTL       = time.Minute
)

// CachedSLAPlanRepository is a read-through redis cache in front of the SLA
// catalog. Plan writes invalidate the company's cached list. Cache failures
// degrade to the underlying repository.
type CachedSLAPlanRepository struct {
	inner  SLAPlanRepository
	client *redis.Client
	logger *zap.Logger
}

// NewCachedSLAPlanRepository wraps inner with a redis cache. A nil client
// disables caching.
func NewCachedSLAPlanRepository(inner SLAPlanRepository, client *redis.Client, logger *zap.Logger) *CachedSLAPlanRepository {
	return &CachedSLAPlanRepository{inner: inner, client: client, logger: logger}
}

func (r *CachedSLAPlanRepository) Create(ctx context.Context, plan *domain.SLAPlan) error {
	if err := r.inner.Create(ctx, plan); err != nil {
		return err
	}
	r.invalidate(ctx, plan.CompanyID)
	return nil
}

func (r *CachedSLAPlanRepository) Update(ctx context.Context, plan *domain.SLAPlan) error {
	if err := r.inner.Update(ctx, plan); err != nil {
		return err
	}
	r.invalidate(ctx, plan.CompanyID)
	return nil
}

func (r *CachedSLAPlanRepository) GetByID(ctx context.Context, id string) (*domain.SLAPlan, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachedSLAPlanRepository) ListActiveByCompany(ctx context.Context, companyID string) ([]domain.SLAPlan, error) {
	if r.client == nil {
		return r.inner.ListActiveByCompany(ctx, companyID)
	}
	key := slaCacheKeyPrefix + companyID
	cached, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var plans []domain.SLAPlan
		if err := json.Unmarshal(cached, &plans); err == nil {
			return plans, nil
		}
	} else if err != redis.Nil {
		r.logger.Warn("sla cache read failed", zap.Error(err))
	}

	plans, err := r.inner.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(plans); err == nil {
		if err := r.client.Set(ctx, key, payload, slaCacheTTL).Err(); err != nil {
			r.logger.Warn("sla cache write failed", zap.Error(err))
		}
	}
	return plans, nil
}

func (r *CachedSLAPlanRepository) invalidate(ctx context.Context, companyID string) {
	if r.client == nil {
		return
	}
	if err := r.client.Del(ctx, slaCacheKeyPrefix+companyID).Err(); err != nil {
		r.logger.Warn("sla cache invalidate failed", zap.Error(err))
	}
}
