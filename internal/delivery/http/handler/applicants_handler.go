package handler

import (
	"time"

	"recruit-dash/internal/delivery/http/dto"
	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/notify"
	"recruit-dash/internal/pkg/response"
	"recruit-dash/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ApplicantsHandler struct {
	uc     usecase.ApplicantUsecase
	notify Notifier
}

func NewApplicantsHandler(uc usecase.ApplicantUsecase, n Notifier) *ApplicantsHandler {
	return &ApplicantsHandler{uc: uc, notify: orNop(n)}
}

// RegisterJobRoutes mounts the per-job listings under a /jobs group.
func (h *ApplicantsHandler) RegisterJobRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/:id/applicants", h.ListByJob)
	r.Get("/:id/results", h.Results)
}

func (h *ApplicantsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/:id", h.Get)
	r.Patch("/:id/status", h.UpdateStatus)
	r.Post("/:id/shortlist-toggle", h.ToggleShortlist)
	r.Put("/:id/interview", h.ScheduleInterview)
}

func (h *ApplicantsHandler) ListByJob(c fiber.Ctx) error {
	in := usecase.ListApplicantsInput{Query: c.Query("q")}

	if s := c.Query("status"); s != "" {
		st, err := candidate.ParseStatus(s)
		if err != nil {
			return badRequest(err)
		}
		in.Status = st
	}
	var err error
	if in.Ranked, err = queryBool(c, "ranked"); err != nil {
		return badRequest(err)
	}
	if in.BiasFree, err = queryBool(c, "bias_free"); err != nil {
		return badRequest(err)
	}

	views, err := h.uc.ListByJob(c.Context(), c.Params("id"), in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, views)
}

func (h *ApplicantsHandler) Results(c fiber.Ctx) error {
	biasFree, err := queryBool(c, "bias_free")
	if err != nil {
		return badRequest(err)
	}
	res, err := h.uc.Results(c.Context(), c.Params("id"), biasFree)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ApplicantsHandler) Get(c fiber.Ctx) error {
	biasFree, err := queryBool(c, "bias_free")
	if err != nil {
		return badRequest(err)
	}
	v, err := h.uc.Get(c.Context(), c.Params("id"), biasFree)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *ApplicantsHandler) UpdateStatus(c fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	st, err := candidate.ParseStatus(req.Status)
	if err != nil {
		return badRequest(err)
	}

	v, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), st)
	if err != nil {
		appErr := mapUsecaseError(err)
		h.notify.Transient(notify.LevelError, "Failed to update status: "+userMessage(appErr))
		return appErr
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *ApplicantsHandler) ToggleShortlist(c fiber.Ctx) error {
	v, err := h.uc.ToggleShortlist(c.Context(), c.Params("id"))
	if err != nil {
		appErr := mapUsecaseError(err)
		h.notify.Transient(notify.LevelError, "Failed to update shortlist: "+userMessage(appErr))
		return appErr
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *ApplicantsHandler) ScheduleInterview(c fiber.Ctx) error {
	var req dto.ScheduleInterviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	at, err := time.Parse(time.RFC3339, req.InterviewTime)
	if err != nil {
		return badRequest(err)
	}

	v, err := h.uc.ScheduleInterview(c.Context(), c.Params("id"), at, req.InterviewLink)
	if err != nil {
		appErr := mapUsecaseError(err)
		h.notify.Transient(notify.LevelError, "Failed to schedule interview: "+userMessage(appErr))
		return appErr
	}
	h.notify.Transient(notify.LevelSuccess, "Interview scheduled")
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}
