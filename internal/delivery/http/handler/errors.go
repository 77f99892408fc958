package handler

import (
	"errors"
	"strconv"
	"strings"

	"recruit-dash/internal/delivery/http/middleware"
	"recruit-dash/internal/notify"
	"recruit-dash/internal/pkg/response"
	"recruit-dash/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Notifier is the slice of notify.Center the handlers push write failures to.
type Notifier interface {
	Transient(level notify.Level, msg string) notify.Notification
	Persistent(level notify.Level, msg string) notify.Notification
}

type nopNotifier struct{}

func (nopNotifier) Transient(level notify.Level, msg string) notify.Notification {
	return notify.Notification{Level: level, Message: msg}
}

func (nopNotifier) Persistent(level notify.Level, msg string) notify.Notification {
	return notify.Notification{Level: level, Message: msg}
}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// mapUsecaseError translates usecase sentinels into the HTTP vocabulary.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, message(err, "Bad request"), nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrPermissionDenied):
		return middleware.NewAppError(fiber.StatusForbidden, usecase.ErrPermissionDenied.Error(), nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, usecase.ErrJobNotFound.Error(), nil, err)
	case errors.Is(err, usecase.ErrApplicantNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, usecase.ErrApplicantNotFound.Error(), nil, err)
	case errors.Is(err, usecase.ErrReportNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, usecase.ErrReportNotFound.Error(), nil, err)
	case errors.Is(err, usecase.ErrJobHasApplicants):
		return middleware.NewAppError(fiber.StatusConflict, usecase.ErrJobHasApplicants.Error(), nil, err)
	case errors.Is(err, usecase.ErrWorkflowFailed):
		return middleware.NewAppError(fiber.StatusBadGateway, usecase.ErrWorkflowFailed.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// message exposes the detail after the sentinel for 4xx validation errors.
func message(err error, fallback string) string {
	s := err.Error()
	if i := strings.Index(s, ": "); i >= 0 && i+2 < len(s) {
		return fallback + ": " + s[i+2:]
	}
	return fallback
}

// userMessage is the text shown in a failure notification.
func userMessage(err error) string {
	var appErr *middleware.AppError
	if errors.As(err, &appErr) && (appErr.StatusCode < 500 || appErr.StatusCode == fiber.StatusBadGateway) {
		return appErr.Message
	}
	return "Something went wrong, please try again"
}

func queryBool(c fiber.Ctx, key string) (bool, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
}
