package service

import (
	"context"
	"strings"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// SLAPlanService manages the SLA catalog. Plan changes never touch existing
// tickets; due timestamps are snapshots taken at ticket creation.
type SLAPlanService struct {
	plans  repository.SLAPlanRepository
	audits repository.AuditLogRepository
	tx     repository.TxManager
}

// NewSLAPlanService constructs the service.
func NewSLAPlanService(plans repository.SLAPlanRepository, audits repository.AuditLogRepository, tx repository.TxManager) *SLAPlanService {
	return &SLAPlanService{plans: plans, audits: audits, tx: tx}
}

// SLAPlanInput describes a plan definition.
type SLAPlanInput struct {
	Name                 string
	FirstResponseMinutes int
	ResolutionMinutes    int
	ContractID           *string
	CategoryID           *string
	Priority             *domain.TicketPriority
	Active               bool
}

func (s *SLAPlanService) validate(input *SLAPlanInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}
	if input.FirstResponseMinutes <= 0 || input.ResolutionMinutes <= 0 {
		return apperrors.NewValidationError("response and resolution minutes must be positive", nil)
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
	}
	return nil
}

// Create adds a plan to the actor's company catalog.
func (s *SLAPlanService) Create(ctx context.Context, actor *domain.User, input SLAPlanInput) (*domain.SLAPlan, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	plan := &domain.SLAPlan{
		CompanyID:            actor.CompanyID,
		Name:                 input.Name,
		FirstResponseMinutes: input.FirstResponseMinutes,
		ResolutionMinutes:    input.ResolutionMinutes,
		ContractID:           input.ContractID,
		CategoryID:           input.CategoryID,
		Priority:             input.Priority,
		Active:               input.Active,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.plans.Create(ctx, plan); err != nil {
			return apperrors.MapError(err)
		}
		return s.audit(ctx, plan.ID, "create", actor.ID, plan.Name)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Update replaces a plan definition. Existing tickets keep their snapshots.
func (s *SLAPlanService) Update(ctx context.Context, actor *domain.User, planID string, input SLAPlanInput) (*domain.SLAPlan, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	var plan *domain.SLAPlan
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.plans.GetByID(ctx, planID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if existing.CompanyID != actor.CompanyID {
			return apperrors.NewNotFound("sla plan", nil)
		}

		existing.Name = input.Name
		existing.FirstResponseMinutes = input.FirstResponseMinutes
		existing.ResolutionMinutes = input.ResolutionMinutes
		existing.ContractID = input.ContractID
		existing.CategoryID = input.CategoryID
		existing.Priority = input.Priority
		existing.Active = input.Active

		if err := s.plans.Update(ctx, existing); err != nil {
			return apperrors.MapError(err)
		}
		plan = existing
		return s.audit(ctx, plan.ID, "update", actor.ID, plan.Name)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Get returns a plan of the actor's company.
func (s *SLAPlanService) Get(ctx context.Context, actor *domain.User, planID string) (*domain.SLAPlan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if plan.CompanyID != actor.CompanyID {
		return nil, apperrors.NewNotFound("sla plan", nil)
	}
	return plan, nil
}

// ListActive returns the active catalog for the actor's company.
func (s *SLAPlanService) ListActive(ctx context.Context, actor *domain.User) ([]domain.SLAPlan, error) {
	plans, err := s.plans.ListActiveByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return plans, nil
}

func (s *SLAPlanService) audit(ctx context.Context, planID, action, actorID, data string) error {
	entry := &domain.AuditLog{
		Entity:   "sla_plan",
		EntityID: planID,
		Action:   action,
		UserID:   &actorID,
		Data:     data,
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
