package app

import (
	"fmt"
	"strings"
	"time"

	"recruit-dash/internal/config"
	"recruit-dash/internal/delivery/http/handler"
	"recruit-dash/internal/delivery/http/middleware"
	"recruit-dash/internal/delivery/http/routes"
	v1 "recruit-dash/internal/delivery/http/routes/v1"
	"recruit-dash/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// maxBodySize leaves room for a 10MB job description plus form fields.
const maxBodySize = 12 * 1024 * 1024

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app on top of an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		BodyLimit:    maxBodySize,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	registerGlobalMiddleware(f, c.Log)
	registry := newRegistry(c)
	registry.Register(f)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(log)
	app.Use(errMw.Middleware())

	accessLog := middleware.NewAccessLogMiddleware(log)
	app.Use(accessLog.Middleware())
}

func newRegistry(c *Container) *routes.Registry {
	return &routes.Registry{
		Health:         handler.NewHealthHandler(c.DB, c.Cache),
		WorkflowEvents: handler.NewWorkflowEventsHandler(c.WorkflowEvents, c.Log),
		InternalToken:  c.Config.InternalToken,
		WS:             ws.NewHandler(c.Hub, c.Log).HandleEvents,
		V1: v1.Handlers{
			Auth:          middleware.NewAuthMiddleware(c.JWT),
			AuthHandler:   handler.NewAuthHandler(c.Auth),
			Jobs:          handler.NewJobsHandler(c.Jobs, c.Center),
			Applicants:    handler.NewApplicantsHandler(c.Applicants, c.Center),
			Dashboard:     handler.NewDashboardHandler(c.Dashboard),
			Reports:       handler.NewReportsHandler(c.Reports, c.Center),
			Notifications: handler.NewNotificationsHandler(c.Center),
		},
	}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
