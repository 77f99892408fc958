package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recruit-dash/internal/config"
	"recruit-dash/internal/database"
	dbpostgres "recruit-dash/internal/database/postgres"
	"recruit-dash/internal/database/sqldb"
	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/infrastructure/cache"
	"recruit-dash/internal/infrastructure/document"
	"recruit-dash/internal/infrastructure/mailer"
	"recruit-dash/internal/infrastructure/persistence/postgres"
	"recruit-dash/internal/infrastructure/workflow"
	"recruit-dash/internal/logger"
	"recruit-dash/internal/notify"
	"recruit-dash/internal/pkg/jwt"
	"recruit-dash/internal/repository"
	"recruit-dash/internal/usecase"
	"recruit-dash/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the server process.
type Container struct {
	Config config.Config
	Log    *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Center *notify.Center

	Recruiters *postgres.RecruiterRepository

	Auth           usecase.AuthUsecase
	Jobs           usecase.JobUsecase
	Applicants     usecase.ApplicantUsecase
	Dashboard      usecase.DashboardUsecase
	Reports        usecase.ReportUsecase
	WorkflowEvents usecase.WorkflowEventUsecase
	JWT            jwt.Service

	stopHub context.CancelFunc
}

// OpenDB connects with the driver named in cfg: pgx uses a pgxpool, postgres
// goes through database/sql and lib/pq.
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := sqldb.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "pgx", "":
		return dbpostgres.Connect(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, Log: log, DB: db}

	c.Recruiters, err = postgres.NewRecruiterRepository(ctx, db.SQLDB())
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("prepare recruiter statements: %w", err)
	}

	c.Cache = cache.NewRedis(ctx, cfg.Redis, log)

	c.Hub = ws.NewHub(log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	c.Center = notify.NewCenter(cfg.Notifications.TTL, c.Hub)

	var mail mailer.Mailer
	if cfg.Notifications.ShortlistChannel == config.ShortlistChannelSES {
		ses, err := mailer.NewSES(ctx, cfg.AWS.Region, cfg.Notifications.FromEmail, log)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("init ses: %w", err)
		}
		mail = ses
	}

	var wf workflow.Client
	if client := workflow.NewClient(cfg.Workflow, log); client != nil {
		wf = client
	} else {
		log.Warn("workflow base url not set, job creation falls back to direct inserts")
	}

	jobRepo := repository.NewPostgresJobRepository(db)
	applicantRepo := repository.NewPostgresApplicantRepository(db)
	reportRepo := repository.NewPostgresReportRepository(db)
	dashboardRepo := repository.NewPostgresDashboardRepository(db)

	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn)

	c.Auth = usecase.NewAuthUsecase(c.Recruiters, c.JWT)
	c.Jobs = usecase.NewJobUsecase(jobRepo, applicantRepo, wf, usecase.JobOptions{
		ShortlistChannel: cfg.Notifications.ShortlistChannel,
		Mailer:           mail,
		Extract:          document.ExtractText,
		Cache:            c.Cache,
		Publisher:        c.Hub,
		SendWorkers:      cfg.Notifications.SendWorkers,
		SendRate:         cfg.Notifications.SendRate,
	}, log)
	c.Applicants = usecase.NewApplicantUsecase(applicantRepo, usecase.ApplicantOptions{
		Pipeline:  candidate.NewPipeline(cfg.Pipeline.StrictTransitions),
		Cache:     c.Cache,
		Results:   c.Cache,
		Publisher: c.Hub,
	}, log)
	c.Dashboard = usecase.NewDashboardUsecase(dashboardRepo, c.Cache, cfg.Redis.TTL, log)
	c.Reports = usecase.NewReportUsecase(reportRepo, jobRepo, applicantRepo, log)
	c.WorkflowEvents = usecase.NewWorkflowEventUsecase(usecase.WorkflowEventOptions{
		Applicants: applicantRepo,
		Cache:      c.Cache,
		Guard:      c.Cache,
		Publisher:  c.Hub,
	}, log)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Center != nil {
		c.Center.Close()
	}

	var errs []error
	if c.Recruiters != nil {
		errs = append(errs, c.Recruiters.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
