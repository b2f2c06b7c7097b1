package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dispatch-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Dispatches     *handlers.DispatchHandler
	Units          *handlers.UnitsHandler
	AuthMiddleware fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/v1", cfg.AuthMiddleware)

	v1.Get("/dispatches", cfg.Dispatches.List)
	v1.Get("/dispatches/:id", cfg.Dispatches.Get)
	v1.Post("/dispatches/:id/review", cfg.Dispatches.Review)
	v1.Post("/dispatches/:id/assign", cfg.Dispatches.Assign)
	v1.Post("/dispatches/:id/status", cfg.Dispatches.UpdateStatus)
	v1.Post("/dispatches/:id/notify", cfg.Dispatches.Notify)

	v1.Get("/units/available", cfg.Units.ListAvailable)
	v1.Get("/units/:id", cfg.Units.Get)
}
