package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/domain/report"
	"recruit-dash/internal/export"
	"recruit-dash/internal/logger"
	"recruit-dash/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reportDownloadPath = "/api/v1/reports/%s/download"

type GenerateReportInput struct {
	JobID     string
	Type      report.Type
	CreatedBy string
}

type ReportUsecase interface {
	Generate(ctx context.Context, in GenerateReportInput) (report.Report, error)
	List(ctx context.Context, limit int) ([]report.Report, error)
	Download(ctx context.Context, id string) (report.Report, []byte, error)
}

type Reports struct {
	reports    repository.ReportRepository
	jobs       repository.JobRepository
	applicants repository.ApplicantRepository
	log        *zap.Logger
	now        func() time.Time
}

func NewReportUsecase(reports repository.ReportRepository, jobs repository.JobRepository, applicants repository.ApplicantRepository, log *zap.Logger) *Reports {
	return &Reports{
		reports:    reports,
		jobs:       jobs,
		applicants: applicants,
		log:        logger.OrNop(log).Named("reports"),
		now:        time.Now,
	}
}

// reportStatuses narrows which candidates a report covers; nil means all.
func reportStatuses(t report.Type) []candidate.Status {
	switch t {
	case report.TypeShortlist:
		return []candidate.Status{candidate.StatusShortlisted}
	case report.TypeInterviewPack:
		return []candidate.Status{candidate.StatusShortlisted, candidate.StatusInterview}
	default:
		return nil
	}
}

func (u *Reports) Generate(ctx context.Context, in GenerateReportInput) (report.Report, error) {
	if _, err := report.ParseType(string(in.Type)); err != nil {
		return report.Report{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	j, err := u.jobs.GetByID(ctx, strings.TrimSpace(in.JobID))
	if err != nil {
		return report.Report{}, storeErr(err, ErrJobNotFound)
	}

	recs, err := u.applicants.ListByJobAndStatus(ctx, j.ID, reportStatuses(in.Type)...)
	if err != nil {
		return report.Report{}, storeErr(err, ErrApplicantNotFound)
	}
	views := make([]candidate.View, 0, len(recs))
	for _, r := range recs {
		views = append(views, candidate.FromRecord(r))
	}
	views = candidate.MaskAll(candidate.Rank(views), in.Type == report.TypeBiasFreeComparison)

	now := u.now().UTC()
	content, err := export.Workbook(export.Input{
		Type:        in.Type,
		Job:         j,
		Candidates:  views,
		GeneratedBy: in.CreatedBy,
		GeneratedAt: now,
	})
	if err != nil {
		return report.Report{}, fmt.Errorf("%w: render report: %w", ErrInternal, err)
	}

	rep, err := u.reports.Create(ctx, report.Report{
		ID:        uuid.New(),
		JobID:     j.ID,
		Name:      export.Title(in.Type, j.Title),
		JobTitle:  j.Title,
		Type:      in.Type,
		CreatedBy: in.CreatedBy,
	}, content)
	if err != nil {
		return report.Report{}, storeErr(err, ErrReportNotFound)
	}
	rep.JobTitle = j.Title
	rep.URL = downloadURL(rep.ID)

	u.log.Info("report generated",
		zap.String("report_id", rep.ID.String()),
		zap.String("job_id", j.ID),
		zap.String("type", string(rep.Type)),
		zap.Int("candidates", len(views)),
		zap.Int("bytes", len(content)),
	)
	return rep, nil
}

func (u *Reports) List(ctx context.Context, limit int) ([]report.Report, error) {
	out, err := u.reports.List(ctx, limit)
	if err != nil {
		return nil, storeErr(err, ErrReportNotFound)
	}
	for i := range out {
		out[i].URL = downloadURL(out[i].ID)
	}
	return out, nil
}

func (u *Reports) Download(ctx context.Context, id string) (report.Report, []byte, error) {
	rid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return report.Report{}, nil, ErrReportNotFound
	}
	rep, err := u.reports.GetByID(ctx, rid)
	if err != nil {
		return report.Report{}, nil, storeErr(err, ErrReportNotFound)
	}
	content, err := u.reports.Content(ctx, rid)
	if err != nil {
		return report.Report{}, nil, storeErr(err, ErrReportNotFound)
	}
	rep.URL = downloadURL(rep.ID)
	return rep, content, nil
}

func downloadURL(id uuid.UUID) string {
	return fmt.Sprintf(reportDownloadPath, id.String())
}
