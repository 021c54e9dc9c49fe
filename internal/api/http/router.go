package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-identity/internal/api/http/handlers"
	"github.com/spec-kit/clinic-identity/internal/auth"
	"github.com/spec-kit/clinic-identity/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Identity       *handlers.IdentityHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	privileged := auth.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin)

	identity := app.Group("/identity")
	identity.Post("/admins", cfg.AuthMiddleware.Handle, privileged, cfg.Identity.CreateAdmin)
	identity.Post("/doctors", cfg.AuthMiddleware.HandleOptional, cfg.Identity.CreateDoctor)
	identity.Post("/patients", cfg.Identity.CreatePatient)

	identity.Get("/users/:id", cfg.Identity.GetUser)
	identity.Get("/admins/by-user/:userId", cfg.Identity.GetAdminByUser)
	identity.Get("/doctors/by-user/:userId", cfg.Identity.GetDoctorByUser)
	identity.Get("/admins/:globalId", cfg.Identity.GetAdmin)
	identity.Get("/doctors/:globalId", cfg.Identity.GetDoctor)
	identity.Get("/patients/:globalId", cfg.Identity.GetPatient)

	identity.Post("/doctors/:globalId/approve", cfg.AuthMiddleware.Handle, privileged, cfg.Identity.ApproveDoctor)
}
