package v1

import (
	"recruit-dash/internal/delivery/http/handler"
	"recruit-dash/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth          *middleware.AuthMiddleware
	AuthHandler   *handler.AuthHandler
	Jobs          *handler.JobsHandler
	Applicants    *handler.ApplicantsHandler
	Dashboard     *handler.DashboardHandler
	Reports       *handler.ReportsHandler
	Notifications *handler.NotificationsHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.AuthHandler != nil {
		h.AuthHandler.RegisterRoutes(r.Group("/auth"))
	}

	if h.Auth == nil {
		return
	}
	protected := r.Group("", h.Auth.Middleware())

	if h.AuthHandler != nil {
		protected.Get("/auth/me", h.AuthHandler.Me)
	}

	jobs := protected.Group("/jobs")
	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(jobs)
	}
	if h.Applicants != nil {
		h.Applicants.RegisterJobRoutes(jobs)
		h.Applicants.RegisterRoutes(protected.Group("/applicants"))
	}
	if h.Dashboard != nil {
		h.Dashboard.RegisterRoutes(protected.Group("/dashboard"))
	}
	if h.Reports != nil {
		h.Reports.RegisterRoutes(protected.Group("/reports"))
	}
	if h.Notifications != nil {
		h.Notifications.RegisterRoutes(protected.Group("/notifications"))
	}
}
