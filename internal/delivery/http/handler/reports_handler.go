package handler

import (
	"recruit-dash/internal/delivery/http/dto"
	"recruit-dash/internal/delivery/http/middleware"
	"recruit-dash/internal/domain/report"
	"recruit-dash/internal/notify"
	"recruit-dash/internal/pkg/response"
	"recruit-dash/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ReportsHandler struct {
	uc     usecase.ReportUsecase
	notify Notifier
}

func NewReportsHandler(uc usecase.ReportUsecase, n Notifier) *ReportsHandler {
	return &ReportsHandler{uc: uc, notify: orNop(n)}
}

func (h *ReportsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.List)
	r.Post("/", h.Generate)
	r.Get("/:id/download", h.Download)
}

func (h *ReportsHandler) List(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 50)
	if err != nil {
		return badRequest(err)
	}
	out, err := h.uc.List(c.Context(), limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ReportsHandler) Generate(c fiber.Ctx) error {
	var req dto.GenerateReportRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	t, err := report.ParseType(req.Type)
	if err != nil {
		return badRequest(err)
	}

	in := usecase.GenerateReportInput{JobID: req.JobID, Type: t}
	if sess, ok := middleware.SessionFrom(c); ok {
		in.CreatedBy = sess.Email
	}

	rep, err := h.uc.Generate(c.Context(), in)
	if err != nil {
		appErr := mapUsecaseError(err)
		h.notify.Transient(notify.LevelError, "Failed to generate report: "+userMessage(appErr))
		return appErr
	}
	h.notify.Transient(notify.LevelSuccess, "Report "+rep.Name+" is ready")
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, rep)
}

func (h *ReportsHandler) Download(c fiber.Ctx) error {
	rep, content, err := h.uc.Download(c.Context(), c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Attachment(c, report.ContentType, rep.Filename(), content)
}
