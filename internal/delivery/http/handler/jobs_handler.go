package handler

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"recruit-dash/internal/delivery/http/dto"
	"recruit-dash/internal/delivery/http/middleware"
	"recruit-dash/internal/domain/job"
	"recruit-dash/internal/infrastructure/workflow"
	"recruit-dash/internal/notify"
	"recruit-dash/internal/pkg/response"
	"recruit-dash/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	formFieldDocument = "jobDescription"
	maxDocumentBytes  = 10 << 20
)

type JobsHandler struct {
	uc     usecase.JobUsecase
	notify Notifier
}

func NewJobsHandler(uc usecase.JobUsecase, n Notifier) *JobsHandler {
	return &JobsHandler{uc: uc, notify: orNop(n)}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Patch("/:id", h.Update)
	r.Delete("/:id", h.Delete)
	r.Post("/:id/interview-pack", h.GenerateInterviewPack)
	r.Post("/:id/shortlist-email", h.SendShortlistEmail)
}

func (h *JobsHandler) List(c fiber.Ctx) error {
	jobs, err := h.uc.ListJobs(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, jobs)
}

func (h *JobsHandler) Get(c fiber.Ctx) error {
	j, err := h.uc.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

// Create takes either a JSON body or a multipart form carrying the job
// description document under jobDescription.
func (h *JobsHandler) Create(c fiber.Ctx) error {
	req, doc, err := readCreateJob(c)
	if err != nil {
		return badRequest(err)
	}

	in := usecase.CreateJobInput{
		Title:              req.Title,
		HiringManager:      req.HiringManager,
		Description:        req.Description,
		Location:           req.Location,
		ExperienceRequired: req.ExperienceRequired,
		Document:           doc,
	}
	if strings.TrimSpace(req.Status) != "" {
		st, err := job.ParseStatus(req.Status)
		if err != nil {
			return badRequest(err)
		}
		in.Status = st
	}
	if in.ClosingDate, err = dto.ParseDate(req.ClosingDate); err != nil {
		return badRequest(err)
	}
	if sess, ok := middleware.SessionFrom(c); ok {
		in.CreatedBy = sess.Email
	}

	created, err := h.uc.CreateJob(c.Context(), in)
	if err != nil {
		appErr := mapUsecaseError(err)
		h.notify.Persistent(notify.LevelError, "Failed to create job: "+userMessage(appErr))
		return appErr
	}
	h.notify.Transient(notify.LevelSuccess, fmt.Sprintf("Job %q created", created.Title))
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, created)
}

func readCreateJob(c fiber.Ctx) (dto.CreateJobRequest, *workflow.Document, error) {
	var req dto.CreateJobRequest
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.Bind().Body(&req); err != nil {
			return req, nil, err
		}
		return req, nil, nil
	}

	req = dto.CreateJobRequest{
		Title:              c.FormValue("title"),
		HiringManager:      c.FormValue("hiring_manager"),
		Status:             c.FormValue("status"),
		ClosingDate:        c.FormValue("closing_date"),
		Description:        c.FormValue("description"),
		Location:           c.FormValue("location"),
		ExperienceRequired: c.FormValue("experience_required"),
	}

	fh, err := c.FormFile(formFieldDocument)
	if err != nil {
		// the document is optional; the workflow rejects its absence and
		// the direct insert does not need it
		return req, nil, nil
	}
	if fh.Size > maxDocumentBytes {
		return req, nil, fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return req, nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes))
	if err != nil {
		return req, nil, err
	}
	return req, &workflow.Document{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func (h *JobsHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	patch, err := req.Patch()
	if err != nil {
		return badRequest(err)
	}

	j, err := h.uc.UpdateJob(c.Context(), c.Params("id"), patch)
	if err != nil {
		appErr := mapUsecaseError(err)
		h.notify.Transient(notify.LevelError, "Failed to update job: "+userMessage(appErr))
		return appErr
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobsHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.DeleteJob(c.Context(), id); err != nil {
		appErr := mapUsecaseError(err)
		if !errors.Is(err, usecase.ErrJobNotFound) {
			h.notify.Persistent(notify.LevelError, "Failed to delete job: "+userMessage(appErr))
		}
		return appErr
	}
	h.notify.Transient(notify.LevelSuccess, "Job deleted")
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"id": id})
}

func (h *JobsHandler) GenerateInterviewPack(c fiber.Ctx) error {
	res, err := h.uc.GenerateInterviewPack(c.Context(), c.Params("id"))
	if err != nil {
		appErr := mapUsecaseError(err)
		h.notify.Transient(notify.LevelError, "Failed to generate interview pack: "+userMessage(appErr))
		return appErr
	}
	h.notify.Transient(notify.LevelSuccess, "Interview pack generated")
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *JobsHandler) SendShortlistEmail(c fiber.Ctx) error {
	res, err := h.uc.SendShortlistEmail(c.Context(), c.Params("id"))
	if err != nil {
		appErr := mapUsecaseError(err)
		h.notify.Transient(notify.LevelError, "Failed to send shortlist email: "+userMessage(appErr))
		return appErr
	}
	h.notify.Transient(notify.LevelSuccess, "Shortlist email sent")
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
