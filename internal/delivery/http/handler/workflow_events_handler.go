package handler

import (
	"recruit-dash/internal/logger"
	"recruit-dash/internal/pkg/response"
	"recruit-dash/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// WorkflowEventsHandler receives completion callbacks from the external
// automation. The route is guarded by middleware.InternalToken.
type WorkflowEventsHandler struct {
	uc  usecase.WorkflowEventUsecase
	log *zap.Logger
}

func NewWorkflowEventsHandler(uc usecase.WorkflowEventUsecase, log *zap.Logger) *WorkflowEventsHandler {
	return &WorkflowEventsHandler{uc: uc, log: logger.OrNop(log).Named("webhook")}
}

func (h *WorkflowEventsHandler) Handle(c fiber.Ctx) error {
	evt, err := usecase.ParseWorkflowEvent(c.Body())
	if err != nil {
		h.log.Warn("workflow event rejected", zap.Error(err))
		return mapUsecaseError(err)
	}

	if err := h.uc.Handle(c.Context(), evt); err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Workflow event processed", fiber.Map{"type": evt.Type})
}
