package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/resolvedesk/itsm-service/internal/api/http/handlers"
	"github.com/resolvedesk/itsm-service/internal/auth"
	"github.com/resolvedesk/itsm-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Technicians    *handlers.TechniciansHandler
	Tickets        *handlers.TicketsHandler
	Skills         *handlers.SkillsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Get("/profile/:id", cfg.Auth.Profile)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	adminOnly := auth.RequireRole(domain.RoleAdmin)
	staffOnly := auth.RequireRole(domain.RoleAdmin, domain.RoleTechnician)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, adminOnly)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Deactivate)
	users.Patch("/:id/reactivate", cfg.Users.Reactivate)

	technicians := app.Group("/technicians", cfg.AuthMiddleware.Handle)
	technicians.Get("/performance", staffOnly, cfg.Technicians.Performance)
	technicians.Get("/", staffOnly, cfg.Technicians.List)
	technicians.Post("/", adminOnly, cfg.Technicians.Create)
	technicians.Get("/:id", staffOnly, cfg.Technicians.Get)
	technicians.Put("/:id", adminOnly, cfg.Technicians.Update)
	technicians.Put("/:id/skills", adminOnly, cfg.Technicians.UpdateSkills)
	technicians.Put("/:id/availability", staffOnly, cfg.Technicians.SetAvailability)
	technicians.Delete("/:id", adminOnly, cfg.Technicians.Deactivate)
	technicians.Patch("/:id/reactivate", adminOnly, cfg.Technicians.Reactivate)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/user/:userID", cfg.Tickets.ListByUser)
	tickets.Get("/technician/:technicianID", staffOnly, cfg.Tickets.ListByTechnician)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", staffOnly, cfg.Tickets.Update)
	tickets.Post("/:id/assign", staffOnly, cfg.Tickets.Assign)
	tickets.Post("/:id/status", staffOnly, cfg.Tickets.ChangeStatus)
	tickets.Get("/:id/sla", staffOnly, cfg.Tickets.CheckSLA)
	tickets.Post("/:id/escalate", staffOnly, cfg.Tickets.Escalate)
	tickets.Get("/:id/worklogs", staffOnly, cfg.Tickets.ListWorkLogs)
	tickets.Post("/:id/worklogs", staffOnly, cfg.Tickets.AddWorkLog)
	tickets.Get("/:id/audit", staffOnly, cfg.Tickets.ListAudit)
	tickets.Post("/:id/feedback", cfg.Tickets.SubmitFeedback)

	skills := app.Group("/skills", cfg.AuthMiddleware.Handle)
	skills.Get("/", staffOnly, cfg.Skills.List)
	skills.Post("/", adminOnly, cfg.Skills.Create)
	skills.Get("/:id", staffOnly, cfg.Skills.Get)
	skills.Put("/:id", adminOnly, cfg.Skills.Update)
	skills.Delete("/:id", adminOnly, cfg.Skills.Deactivate)
	skills.Patch("/:id/reactivate", adminOnly, cfg.Skills.Reactivate)
}
