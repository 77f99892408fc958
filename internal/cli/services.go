package cli

import (
	"context"
	"errors"
	"time"

	appsvc "recruit-dash/internal/app"
	"recruit-dash/internal/config"
	"recruit-dash/internal/database"
	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/repository"
	"recruit-dash/internal/usecase"

	"go.uber.org/zap"
)

// Services is the datastore-backed slice of the server the commands use.
// No cache, websocket hub or workflow client is started.
type Services struct {
	Log        *zap.Logger
	DB         database.DB
	Jobs       usecase.JobUsecase
	Applicants usecase.ApplicantUsecase
	Reports    usecase.ReportUsecase
}

type Opener func(ctx context.Context, cfg config.Config, log *zap.Logger) (*Services, error)

func OpenServices(ctx context.Context, cfg config.Config, log *zap.Logger) (*Services, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := appsvc.OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	jobs := repository.NewPostgresJobRepository(db)
	applicants := repository.NewPostgresApplicantRepository(db)
	reports := repository.NewPostgresReportRepository(db)

	return &Services{
		Log:  log,
		DB:   db,
		Jobs: usecase.NewJobUsecase(jobs, applicants, nil, usecase.JobOptions{}, log),
		Applicants: usecase.NewApplicantUsecase(applicants, usecase.ApplicantOptions{
			Pipeline: candidate.NewPipeline(cfg.Pipeline.StrictTransitions),
		}, log),
		Reports: usecase.NewReportUsecase(reports, jobs, applicants, log),
	}, nil
}

func (s *Services) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	if s.Log != nil {
		_ = s.Log.Sync()
	}
	return errors.Join(errs...)
}
