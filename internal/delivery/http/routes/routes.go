package routes

import (
	"recruit-dash/internal/delivery/http/handler"
	"recruit-dash/internal/delivery/http/middleware"
	v1 "recruit-dash/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every handler the server mounts.
type Registry struct {
	Health         *handler.HealthHandler
	WorkflowEvents *handler.WorkflowEventsHandler
	InternalToken  string
	WS             fiber.Handler
	V1             v1.Handlers
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerInternal(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (r *Registry) registerInternal(app *fiber.App) {
	if r.WorkflowEvents == nil {
		return
	}
	internal := app.Group("/internal", middleware.InternalToken(r.InternalToken))
	internal.Post("/workflow/events", r.WorkflowEvents.Handle)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.V1)

	if r.WS != nil && r.V1.Auth != nil {
		app.Get("/ws", r.V1.Auth.Middleware(), r.WS)
	}
}
