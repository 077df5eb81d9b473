package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusvoice/issue-service/internal/api/http/handlers"
	"github.com/campusvoice/issue-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Session        *handlers.SessionHandler
	Issues         *handlers.IssuesHandler
	AdminIssues    *handlers.AdminIssuesHandler
	AdminInsights  *handlers.AdminInsightsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Session.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Session.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Session.Me)

	app.Get("/dashboard", cfg.AuthMiddleware.Handle, cfg.Issues.Dashboard)

	issues := app.Group("/issues", cfg.AuthMiddleware.Handle)
	issues.Get("/", cfg.Issues.ListIssues)
	issues.Post("/", auth.RequireStudent(), cfg.Issues.CreateIssue)
	issues.Get("/:id", cfg.Issues.GetIssue)
	issues.Post("/:id/comments", cfg.Issues.AddComment)
	issues.Post("/:id/rating", auth.RequireStudent(), cfg.Issues.RateIssue)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/issues", cfg.AdminIssues.ListIssues)
	admin.Get("/issues/:id", cfg.AdminIssues.GetIssue)
	admin.Patch("/issues/:id/status", cfg.AdminIssues.UpdateStatus)
	admin.Patch("/issues/:id/priority", cfg.AdminIssues.UpdatePriority)
	admin.Post("/issues/:id/assign", cfg.AdminIssues.Assign)
	admin.Get("/analytics", cfg.AdminInsights.Analytics)
	admin.Get("/users", cfg.AdminInsights.Users)

	app.Get("/metrics", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.AdminInsights.Metrics)
}
