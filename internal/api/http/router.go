package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Tickets   *handlers.TicketsHandler
	AdminGate fiber.Handler
	Metrics   http.Handler
}

// RegisterRoutes wires HTTP routes. GET /tickets checks the admin gate itself,
// because its faq and status variants are public.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	app.Post("/tickets", cfg.Tickets.CreateTicket)
	app.Get("/tickets", cfg.Tickets.GetTickets)
	app.Patch("/tickets", cfg.AdminGate, cfg.Tickets.UpdateTicket)
	app.Delete("/tickets", cfg.AdminGate, cfg.Tickets.DeleteTicket)
}
