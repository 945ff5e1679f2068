package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baroform/lead-service/internal/api/http/handlers"
	"github.com/baroform/lead-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Consultations  *handlers.ConsultationsHandler
	AdminLeads     *handlers.AdminLeadsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Public funnel endpoint, no session required.
	app.Post("/consultations", cfg.Consultations.Submit)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	session := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	session.Post("/logout", cfg.Auth.Logout)
	session.Get("/session", cfg.Auth.Session)
	session.Post("/password", cfg.Auth.ChangePassword)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/leads", cfg.AdminLeads.List)
	admin.Post("/leads", cfg.AdminLeads.Create)
	admin.Post("/leads/export", cfg.AdminLeads.Export)
	admin.Delete("/leads", cfg.AdminLeads.Delete)
	admin.Get("/leads/:id", cfg.AdminLeads.Get)
	admin.Patch("/leads/:id", cfg.AdminLeads.Update)
}
