package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/infrastructure/cache"
	"recruit-dash/internal/logger"
	"recruit-dash/internal/repository"
	"recruit-dash/internal/ws"

	"go.uber.org/zap"
)

type ListApplicantsInput struct {
	Query    string
	Status   candidate.Status
	Ranked   bool
	BiasFree bool
}

// JobResults is the per-job results page: every candidate ranked, the top
// three, and the aggregates shown above them.
type JobResults struct {
	JobID        string                   `json:"job_id"`
	Total        int                      `json:"total"`
	AverageScore float64                  `json:"average_score"`
	AverageLabel string                   `json:"average_label"`
	ByStatus     map[candidate.Status]int `json:"by_status"`
	Top          []candidate.View         `json:"top"`
	Candidates   []candidate.View         `json:"candidates"`
}

type ApplicantUsecase interface {
	ListByJob(ctx context.Context, jobID string, in ListApplicantsInput) ([]candidate.View, error)
	Results(ctx context.Context, jobID string, biasFree bool) (JobResults, error)
	Get(ctx context.Context, id string, biasFree bool) (candidate.View, error)
	UpdateStatus(ctx context.Context, id string, status candidate.Status) (candidate.View, error)
	ToggleShortlist(ctx context.Context, id string) (candidate.View, error)
	ScheduleInterview(ctx context.Context, id string, at time.Time, link string) (candidate.View, error)
}

// JSONCache is the read-through surface the results page uses.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

const topCandidates = 3

type Applicants struct {
	applicants repository.ApplicantRepository
	pipeline   candidate.Pipeline
	results    JSONCache
	log        *zap.Logger
	changeNotifier
}

type ApplicantOptions struct {
	Pipeline  candidate.Pipeline
	Cache     CacheInvalidator
	Results   JSONCache
	Publisher ws.Publisher
}

func NewApplicantUsecase(applicants repository.ApplicantRepository, opts ApplicantOptions, log *zap.Logger) *Applicants {
	log = logger.OrNop(log).Named("applicants")
	return &Applicants{
		applicants:     applicants,
		pipeline:       opts.Pipeline,
		results:        opts.Results,
		log:            log,
		changeNotifier: newChangeNotifier(opts.Cache, opts.Publisher, log),
	}
}

func (u *Applicants) load(ctx context.Context, jobID string) ([]candidate.View, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	recs, err := u.applicants.ListByJob(ctx, jobID)
	if err != nil {
		return nil, storeErr(err, ErrJobNotFound)
	}
	views := make([]candidate.View, 0, len(recs))
	for _, r := range recs {
		views = append(views, candidate.FromRecord(r))
	}
	return views, nil
}

func (u *Applicants) ListByJob(ctx context.Context, jobID string, in ListApplicantsInput) ([]candidate.View, error) {
	views, err := u.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	views = candidate.Filter(views, in.Query, in.Status)
	if in.Ranked {
		views = candidate.Rank(views)
	}
	return candidate.MaskAll(views, in.BiasFree), nil
}

// Results is cached per job unmasked; masking is applied on the way out so
// both renderings share one entry.
func (u *Applicants) Results(ctx context.Context, jobID string, biasFree bool) (JobResults, error) {
	key := cache.JobKey(jobID, "results")

	var res JobResults
	hit := false
	if u.results != nil {
		ok, err := u.results.GetJSON(ctx, key, &res)
		if err != nil {
			u.log.Debug("results cache read failed", zap.String("job_id", jobID), zap.Error(err))
		}
		hit = ok
	}

	if !hit {
		views, err := u.load(ctx, jobID)
		if err != nil {
			return JobResults{}, err
		}
		ranked := candidate.Rank(views)
		avg := candidate.AverageOverall(ranked)
		res = JobResults{
			JobID:        jobID,
			Total:        len(ranked),
			AverageScore: avg,
			AverageLabel: candidate.FormatScore(avg),
			ByStatus:     candidate.CountByStatus(ranked),
			Top:          candidate.Top(ranked, topCandidates),
			Candidates:   ranked,
		}
		if u.results != nil {
			if err := u.results.SetJSON(ctx, key, res, 0); err != nil {
				u.log.Debug("results cache write failed", zap.String("job_id", jobID), zap.Error(err))
			}
		}
	}

	res.Top = candidate.MaskAll(res.Top, biasFree)
	res.Candidates = candidate.MaskAll(res.Candidates, biasFree)
	return res, nil
}

func (u *Applicants) Get(ctx context.Context, id string, biasFree bool) (candidate.View, error) {
	rec, err := u.get(ctx, id)
	if err != nil {
		return candidate.View{}, err
	}
	return candidate.Mask(candidate.FromRecord(rec), biasFree), nil
}

func (u *Applicants) get(ctx context.Context, id string) (candidate.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return candidate.Record{}, ErrApplicantNotFound
	}
	rec, err := u.applicants.GetByID(ctx, id)
	if err != nil {
		return candidate.Record{}, storeErr(err, ErrApplicantNotFound)
	}
	return rec, nil
}

// UpdateStatus writes the requested stage. Only a strict pipeline reads the
// current stage first; the default overwrites unconditionally.
func (u *Applicants) UpdateStatus(ctx context.Context, id string, status candidate.Status) (candidate.View, error) {
	if !status.Valid() {
		return candidate.View{}, fmt.Errorf("%w: %w", ErrInvalidInput, candidate.ErrUnknownStatus)
	}
	if u.pipeline.Strict() {
		cur, err := u.get(ctx, id)
		if err != nil {
			return candidate.View{}, err
		}
		if err := u.pipeline.Transition(cur.Status, status); err != nil {
			return candidate.View{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	return u.write(ctx, id, status, "status")
}

func (u *Applicants) ToggleShortlist(ctx context.Context, id string) (candidate.View, error) {
	cur, err := u.get(ctx, id)
	if err != nil {
		return candidate.View{}, err
	}
	next, err := u.pipeline.ToggleShortlist(cur.Status)
	if err != nil {
		return candidate.View{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return u.write(ctx, id, next, "shortlist")
}

func (u *Applicants) write(ctx context.Context, id string, status candidate.Status, source string) (candidate.View, error) {
	rec, err := u.applicants.UpdateStatus(ctx, id, status)
	if err != nil {
		return candidate.View{}, storeErr(err, ErrApplicantNotFound)
	}
	u.log.Info("applicant status updated",
		zap.String("applicant_id", rec.ID),
		zap.String("job_id", rec.JobID),
		zap.String("status", string(rec.Status)),
	)
	u.changed(ctx, ws.Event{Type: ws.EventApplicantUpdated, JobID: rec.JobID, ApplicantID: rec.ID, Source: source})
	return candidate.FromRecord(rec), nil
}

func (u *Applicants) ScheduleInterview(ctx context.Context, id string, at time.Time, link string) (candidate.View, error) {
	if at.IsZero() {
		return candidate.View{}, fmt.Errorf("%w: interview time is required", ErrInvalidInput)
	}
	link = strings.TrimSpace(link)
	if link != "" {
		parsed, err := url.Parse(link)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return candidate.View{}, fmt.Errorf("%w: interview link must be an http(s) url", ErrInvalidInput)
		}
	}

	rec, err := u.applicants.ScheduleInterview(ctx, strings.TrimSpace(id), at, link)
	if err != nil {
		return candidate.View{}, storeErr(err, ErrApplicantNotFound)
	}
	u.changed(ctx, ws.Event{Type: ws.EventApplicantUpdated, JobID: rec.JobID, ApplicantID: rec.ID, Source: "interview"})
	return candidate.FromRecord(rec), nil
}
