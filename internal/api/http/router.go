package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration. Auth and
// AuthMiddleware are nil when authentication is disabled, leaving every
// employee route open.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Employees      *handlers.EmployeesHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Snapshot)
	}

	if cfg.Auth != nil {
		app.Post("/auth/token", cfg.Auth.IssueToken)
	}

	var guard []fiber.Handler
	if cfg.AuthMiddleware != nil {
		guard = []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin)}
	}
	protected := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guard...), h)
	}

	employees := app.Group("/employees")
	employees.Get("", cfg.Employees.ListEmployees)
	employees.Get("/:id", cfg.Employees.GetEmployee)
	employees.Post("", protected(cfg.Employees.CreateEmployee)...)
	employees.Put("/:id", protected(cfg.Employees.UpdateEmployee)...)
	employees.Delete("/:id", protected(cfg.Employees.DeleteEmployee)...)
}
