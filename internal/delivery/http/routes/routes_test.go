package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recruit-dash/internal/delivery/http/handler"
	"recruit-dash/internal/delivery/http/middleware"
	v1 "recruit-dash/internal/delivery/http/routes/v1"
	"recruit-dash/internal/pkg/jwt"
	"recruit-dash/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEvents struct{ n int }

func (c *countingEvents) Handle(context.Context, usecase.WorkflowEvent) error {
	c.n++
	return nil
}

type upPinger struct{}

func (upPinger) Ping(context.Context) error { return nil }

func newTestApp(events usecase.WorkflowEventUsecase) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())

	svc := jwt.NewHMACService("a", "r", time.Minute, time.Hour)
	reg := &Registry{
		Health:         handler.NewHealthHandler(upPinger{}, upPinger{}),
		WorkflowEvents: handler.NewWorkflowEventsHandler(events, nil),
		InternalToken:  "hook-token",
		V1:             v1.Handlers{Auth: middleware.NewAuthMiddleware(svc)},
	}
	reg.Register(app)
	return app
}

func TestRegistry_InternalEventsNeedToken(t *testing.T) {
	events := &countingEvents{}
	app := newTestApp(events)
	body := `{"type":"shortlist_email_sent","job_id":"j1"}`

	req := httptest.NewRequest(http.MethodPost, "/internal/workflow/events", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, events.n)

	req = httptest.NewRequest(http.MethodPost, "/internal/workflow/events", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(middleware.HeaderInternalToken, "hook-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, events.n)
}

func TestRegistry_HealthAndMetricsArePublic(t *testing.T) {
	app := newTestApp(&countingEvents{})

	for _, path := range []string{"/health", "/metrics"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}

func TestRegistry_APIRequiresAuth(t *testing.T) {
	app := newTestApp(&countingEvents{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
