package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/service"
	"github.com/spec-kit/servicedesk/internal/sla"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// AdminHandler exposes the SLA catalog and the manual escalation trigger.
type AdminHandler struct {
	plans       *service.SLAPlanService
	escalations *service.EscalationService
	clock       sla.Clock
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(plans *service.SLAPlanService, escalations *service.EscalationService, clock sla.Clock) *AdminHandler {
	return &AdminHandler{plans: plans, escalations: escalations, clock: clock}
}

// CreatePlan POST /admin/sla-plans.
func (h *AdminHandler) CreatePlan(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SLAPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	plan, err := h.plans.Create(c.UserContext(), actor, planInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": planResponse(plan)})
}

// UpdatePlan PUT /admin/sla-plans/:id.
func (h *AdminHandler) UpdatePlan(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SLAPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	plan, err := h.plans.Update(c.UserContext(), actor, c.Params("id"), planInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": planResponse(plan)})
}

// GetPlan GET /admin/sla-plans/:id.
func (h *AdminHandler) GetPlan(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	plan, err := h.plans.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": planResponse(plan)})
}

// ListPlans GET /admin/sla-plans.
func (h *AdminHandler) ListPlans(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	plans, err := h.plans.ListActive(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.SLAPlanResponse, 0, len(plans))
	for i := range plans {
		items = append(items, planResponse(&plans[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RunEscalations POST /admin/escalations/run triggers a breach scan on demand.
func (h *AdminHandler) RunEscalations(c *fiber.Ctx) error {
	now := h.clock.Now()
	escalated, err := h.escalations.RunEscalationPass(c.UserContext(), now)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EscalationRunResponse{Escalated: escalated, RanAt: now}})
}

func planInput(req dto.SLAPlanRequest) service.SLAPlanInput {
	return service.SLAPlanInput{
		Name:                 req.Name,
		FirstResponseMinutes: req.FirstResponseMinutes,
		ResolutionMinutes:    req.ResolutionMinutes,
		ContractID:           req.ContractID,
		CategoryID:           req.CategoryID,
		Priority:             req.Priority,
		Active:               req.Active,
	}
}

func planResponse(plan *domain.SLAPlan) dto.SLAPlanResponse {
	return dto.SLAPlanResponse{
		ID:                   plan.ID,
		Name:                 plan.Name,
		FirstResponseMinutes: plan.FirstResponseMinutes,
		ResolutionMinutes:    plan.ResolutionMinutes,
		ContractID:           plan.ContractID,
		CategoryID:           plan.CategoryID,
		Priority:             plan.Priority,
		Active:               plan.Active,
		CreatedAt:            plan.CreatedAt,
		UpdatedAt:            plan.UpdatedAt,
	}
}
