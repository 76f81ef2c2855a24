package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/health-gateway/internal/api/http/handlers"
	"github.com/spec-kit/health-gateway/internal/guard"
	"github.com/spec-kit/health-gateway/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Pages          *handlers.PagesHandler
	Auth           *handlers.AuthHandler
	Questionnaires *handlers.QuestionnaireHandler
	Session        *session.Middleware
}

// RegisterRoutes wires HTTP routes. Health probes sit outside the session
// middleware; everything else resolves session state first.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.Session.Handle)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", cfg.Auth.Logout)

	api := app.Group("/api")
	api.Get("/questionnaires", guard.RequireLoggedIn(), cfg.Questionnaires.List)
	api.Post("/questionnaires/submit", guard.RequireLoggedIn(), cfg.Questionnaires.Submit)

	admin := api.Group("/admin", guard.RequireAdmin())
	admin.Get("/pending", cfg.Questionnaires.Pending)
	admin.Get("/reviews", cfg.Questionnaires.AllReviews)
	admin.Get("/questionnaires/:id", cfg.Questionnaires.AdminDetail)
	admin.Post("/questionnaires/:id/review", cfg.Questionnaires.Review)

	for _, route := range guard.DefaultRoutes() {
		app.Get(route.Path, cfg.Pages.Serve)
	}

	// unmatched navigation renders NotFound
	app.Use(cfg.Pages.Serve)
}
