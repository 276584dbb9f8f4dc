package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lettersmith/newsletter-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Subscriptions *handlers.SubscriptionsHandler
	Newsletters   *handlers.NewslettersHandler
	Sessions      *handlers.SessionsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/subscriptions", cfg.Subscriptions.Subscribe)
	app.Get("/subscriptions/confirm", cfg.Subscriptions.Confirm)

	app.Post("/newsletters", cfg.Newsletters.Publish)
	app.Post("/admin/sessions", cfg.Sessions.Create)
}
