package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/http/handlers"
	"github.com/spec-kit/servicedesk/internal/auth"
	"github.com/spec-kit/servicedesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	// Rating is reachable without a session; the token is the credential.
	app.Post("/rate/:token", cfg.Tickets.Rate)

	authed := app.Group("", cfg.AuthMiddleware.Handle)

	authed.Post("/auth/register", auth.RequireRole(domain.RoleAdmin), cfg.Auth.Register)

	tickets := authed.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/assign", auth.RequireStaff(), cfg.Tickets.Assign)
	tickets.Post("/:id/comments", cfg.Tickets.CreateComment)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)
	tickets.Post("/:id/resolve", auth.RequireStaff(), cfg.Tickets.Resolve)
	tickets.Post("/:id/close", auth.RequireStaff(), cfg.Tickets.Close)
	tickets.Post("/:id/reopen", auth.RequireStaff(), cfg.Tickets.Reopen)
	tickets.Post("/:id/sla/pause", auth.RequireStaff(), cfg.Tickets.PauseSLA)
	tickets.Post("/:id/sla/resume", auth.RequireStaff(), cfg.Tickets.ResumeSLA)
	tickets.Post("/:id/participants", auth.RequireStaff(), cfg.Tickets.AddParticipant)
	tickets.Delete("/:id/participants/:userId", auth.RequireStaff(), cfg.Tickets.RemoveParticipant)
	tickets.Get("/:id/audit", auth.RequireStaff(), cfg.Tickets.AuditTrail)

	notifications := authed.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)

	admin := authed.Group("/admin", auth.RequireElevated())
	admin.Post("/sla-plans", cfg.Admin.CreatePlan)
	admin.Get("/sla-plans", cfg.Admin.ListPlans)
	admin.Get("/sla-plans/:id", cfg.Admin.GetPlan)
	admin.Put("/sla-plans/:id", cfg.Admin.UpdatePlan)
	admin.Post("/escalations/run", cfg.Admin.RunEscalations)
}
