package handler

import (
	"recruit-dash/internal/delivery/http/middleware"
	"recruit-dash/internal/notify"
	"recruit-dash/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type NotificationsHandler struct {
	center *notify.Center
}

func NewNotificationsHandler(center *notify.Center) *NotificationsHandler {
	return &NotificationsHandler{center: center}
}

func (h *NotificationsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.List)
	r.Delete("/:id", h.Dismiss)
}

func (h *NotificationsHandler) List(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.center.Active())
}

func (h *NotificationsHandler) Dismiss(c fiber.Ctx) error {
	if !h.center.Dismiss(c.Params("id")) {
		return middleware.NewAppError(fiber.StatusNotFound, "Notification not found", nil, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
