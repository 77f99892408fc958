package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"recruit-dash/internal/config"
	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/domain/job"
	"recruit-dash/internal/infrastructure/mailer"
	"recruit-dash/internal/infrastructure/workflow"
	"recruit-dash/internal/logger"
	"recruit-dash/internal/metrics"
	"recruit-dash/internal/repository"
	"recruit-dash/internal/worker"
	"recruit-dash/internal/ws"

	"go.uber.org/zap"
)

type CreateJobInput struct {
	Title              string
	HiringManager      string
	Status             job.Status
	ClosingDate        *time.Time
	Description        string
	Location           string
	ExperienceRequired string
	CreatedBy          string
	Document           *workflow.Document
}

type InterviewPackResult struct {
	Job job.Job `json:"job"`
	URL string  `json:"interview_pack_url"`
}

type ShortlistEmailResult struct {
	Channel string `json:"channel"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

type JobUsecase interface {
	CreateJob(ctx context.Context, in CreateJobInput) (job.Job, error)
	ListJobs(ctx context.Context) ([]job.Job, error)
	GetJob(ctx context.Context, id string) (job.Job, error)
	UpdateJob(ctx context.Context, id string, patch job.Patch) (job.Job, error)
	DeleteJob(ctx context.Context, id string) error
	GenerateInterviewPack(ctx context.Context, id string) (InterviewPackResult, error)
	SendShortlistEmail(ctx context.Context, id string) (ShortlistEmailResult, error)
}

// TextExtractor turns an uploaded description document into plain text.
type TextExtractor func(filename string, data []byte) (string, error)

type JobOptions struct {
	ShortlistChannel string
	Mailer           mailer.Mailer
	Extract          TextExtractor
	Cache            CacheInvalidator
	Publisher        ws.Publisher
	// SendWorkers and SendRate bound direct email delivery; SendRate is
	// messages per second, 0 for unpaced.
	SendWorkers int
	SendRate    int
}

type Jobs struct {
	jobs       repository.JobRepository
	applicants repository.ApplicantRepository
	wf         workflow.Client
	mail       mailer.Mailer
	channel    string
	extract    TextExtractor

	sendWorkers int
	sendRate    int
	log        *zap.Logger
	changeNotifier
}

func NewJobUsecase(jobs repository.JobRepository, applicants repository.ApplicantRepository, wf workflow.Client, opts JobOptions, log *zap.Logger) *Jobs {
	log = logger.OrNop(log).Named("jobs")
	channel := opts.ShortlistChannel
	if channel == "" {
		channel = config.ShortlistChannelWebhook
	}
	return &Jobs{
		jobs:           jobs,
		applicants:     applicants,
		wf:             wf,
		mail:           opts.Mailer,
		channel:        channel,
		extract:        opts.Extract,
		sendWorkers:    opts.SendWorkers,
		sendRate:       opts.SendRate,
		log:            log,
		changeNotifier: newChangeNotifier(opts.Cache, opts.Publisher, log),
	}
}

// CreateJob hands the posting to the workflow first. Any workflow failure
// falls back to exactly one datastore insert.
func (u *Jobs) CreateJob(ctx context.Context, in CreateJobInput) (job.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.HiringManager = strings.TrimSpace(in.HiringManager)
	if in.Title == "" {
		return job.Job{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = job.StatusOpen
	}
	if !in.Status.Valid() {
		return job.Job{}, fmt.Errorf("%w: %w", ErrInvalidInput, job.ErrUnknownStatus)
	}

	created, err := u.createViaWorkflow(ctx, in)
	if err != nil {
		metrics.WorkflowFallbacks.Inc()
		u.log.Warn("workflow job creation failed, inserting directly", zap.String("title", in.Title), zap.Error(err))
		created, err = u.createDirect(ctx, in)
		if err != nil {
			return job.Job{}, err
		}
	}

	u.changed(ctx, ws.Event{Type: ws.EventJobsUpdated, JobID: created.ID, Source: "create"})
	return created, nil
}

func (u *Jobs) createViaWorkflow(ctx context.Context, in CreateJobInput) (job.Job, error) {
	if u.wf == nil {
		return job.Job{}, workflow.ErrNotConfigured
	}
	details := workflow.JobDetails{
		JobTitle:      in.Title,
		HiringManager: in.HiringManager,
		Status:        string(in.Status),
	}
	if in.ClosingDate != nil {
		details.ClosingDate = in.ClosingDate.Format(time.DateOnly)
	}

	id, err := u.wf.CreateJob(ctx, details, in.Document)
	if err != nil {
		return job.Job{}, err
	}

	j, err := u.jobs.GetByID(ctx, id)
	if err == nil {
		return j, nil
	}
	if repository.CodeOf(err) != repository.CodeNotFound {
		u.log.Warn("read back of workflow job failed", zap.String("job_id", id), zap.Error(err))
	}
	// The workflow writes the row asynchronously; answer with what was sent.
	return draftJob(id, in), nil
}

func (u *Jobs) createDirect(ctx context.Context, in CreateJobInput) (job.Job, error) {
	draft := job.Draft{
		Title:              in.Title,
		HiringManager:      in.HiringManager,
		Status:             in.Status,
		ClosingDate:        in.ClosingDate,
		Description:        strings.TrimSpace(in.Description),
		Location:           strings.TrimSpace(in.Location),
		ExperienceRequired: strings.TrimSpace(in.ExperienceRequired),
		CreatedBy:          in.CreatedBy,
	}
	if draft.Description == "" && in.Document != nil && u.extract != nil {
		text, err := u.extract(in.Document.Filename, in.Document.Data)
		if err != nil {
			u.log.Warn("job description extraction failed", zap.String("filename", in.Document.Filename), zap.Error(err))
		} else {
			draft.Description = text
		}
	}

	id, err := u.jobs.Create(ctx, draft)
	if err != nil {
		return job.Job{}, storeErr(err, ErrJobNotFound)
	}

	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		u.log.Warn("read back of inserted job failed", zap.String("job_id", id), zap.Error(err))
		in.Description = draft.Description
		return draftJob(id, in), nil
	}
	return j, nil
}

func draftJob(id string, in CreateJobInput) job.Job {
	now := time.Now().UTC()
	return job.Job{
		ID:                 id,
		Title:              in.Title,
		HiringManager:      in.HiringManager,
		Status:             in.Status,
		ClosingDate:        in.ClosingDate,
		Description:        in.Description,
		Location:           in.Location,
		ExperienceRequired: in.ExperienceRequired,
		CreatedBy:          in.CreatedBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (u *Jobs) ListJobs(ctx context.Context) ([]job.Job, error) {
	out, err := u.jobs.List(ctx)
	if err != nil {
		return nil, storeErr(err, ErrJobNotFound)
	}
	return out, nil
}

func (u *Jobs) GetJob(ctx context.Context, id string) (job.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return job.Job{}, ErrJobNotFound
	}
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return job.Job{}, storeErr(err, ErrJobNotFound)
	}
	return j, nil
}

func (u *Jobs) UpdateJob(ctx context.Context, id string, patch job.Patch) (job.Job, error) {
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return job.Job{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		patch.Title = &t
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return job.Job{}, fmt.Errorf("%w: %w", ErrInvalidInput, job.ErrUnknownStatus)
	}

	j, err := u.jobs.Update(ctx, id, patch)
	if err != nil {
		return job.Job{}, storeErr(err, ErrJobNotFound)
	}
	u.changed(ctx, ws.Event{Type: ws.EventJobsUpdated, JobID: id, Source: "update"})
	return j, nil
}

// DeleteJob refuses while any applicant references the job; no delete is
// issued in that case.
func (u *Jobs) DeleteJob(ctx context.Context, id string) error {
	n, err := u.jobs.CountApplicants(ctx, id)
	if err != nil {
		return storeErr(err, ErrJobNotFound)
	}
	if n > 0 {
		return ErrJobHasApplicants
	}

	if err := u.jobs.Delete(ctx, id); err != nil {
		if repository.CodeOf(err) == repository.CodeRestricted {
			return ErrJobHasApplicants
		}
		return storeErr(err, ErrJobNotFound)
	}
	u.changed(ctx, ws.Event{Type: ws.EventJobsUpdated, JobID: id, Source: "delete"})
	return nil
}

func (u *Jobs) GenerateInterviewPack(ctx context.Context, id string) (InterviewPackResult, error) {
	if _, err := u.GetJob(ctx, id); err != nil {
		return InterviewPackResult{}, err
	}
	if u.wf == nil {
		return InterviewPackResult{}, fmt.Errorf("%w: %w", ErrWorkflowFailed, workflow.ErrNotConfigured)
	}

	pack, err := u.wf.GenerateInterviewPack(ctx, id)
	if err != nil {
		return InterviewPackResult{}, fmt.Errorf("%w: %w", ErrWorkflowFailed, err)
	}

	var j job.Job
	if pack.URL != "" {
		j, err = u.jobs.Update(ctx, id, job.Patch{InterviewPackURL: &pack.URL})
	} else {
		j, err = u.jobs.GetByID(ctx, id)
	}
	if err != nil {
		return InterviewPackResult{}, storeErr(err, ErrJobNotFound)
	}

	url := pack.URL
	if url == "" {
		url = j.InterviewPackURL
	}
	u.changed(ctx, ws.Event{Type: ws.EventJobsUpdated, JobID: id, Source: "interview_pack"})
	return InterviewPackResult{Job: j, URL: url}, nil
}

func (u *Jobs) SendShortlistEmail(ctx context.Context, id string) (ShortlistEmailResult, error) {
	if _, err := u.GetJob(ctx, id); err != nil {
		return ShortlistEmailResult{}, err
	}

	var (
		res ShortlistEmailResult
		err error
	)
	switch u.channel {
	case config.ShortlistChannelSES:
		res, err = u.sendViaSES(ctx, id)
	default:
		res = ShortlistEmailResult{Channel: config.ShortlistChannelWebhook}
		if u.wf == nil {
			err = workflow.ErrNotConfigured
		} else {
			err = u.wf.SendShortlistEmail(ctx, id)
		}
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrWorkflowFailed, err)
		}
	}
	if err != nil {
		return res, err
	}

	u.changed(ctx, ws.Event{Type: ws.EventJobsUpdated, JobID: id, Source: "shortlist_email"})
	return res, nil
}

func (u *Jobs) sendViaSES(ctx context.Context, jobID string) (ShortlistEmailResult, error) {
	res := ShortlistEmailResult{Channel: config.ShortlistChannelSES}
	if u.mail == nil {
		return res, fmt.Errorf("%w: mailer not configured", ErrWorkflowFailed)
	}

	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return res, storeErr(err, ErrJobNotFound)
	}
	recs, err := u.applicants.ListByJobAndStatus(ctx, jobID, candidate.StatusShortlisted)
	if err != nil {
		return res, storeErr(err, ErrApplicantNotFound)
	}

	tasks := make([]worker.Task, 0, len(recs))
	for _, r := range recs {
		if r.ShortlistEmailSent || strings.TrimSpace(r.Email) == "" {
			res.Skipped++
			continue
		}
		msg := shortlistMessage(j, r)
		tasks = append(tasks, worker.Task{ID: r.ID, Run: func(ctx context.Context) error {
			_, err := u.mail.Send(ctx, msg)
			return err
		}})
	}

	sent := make([]string, 0, len(tasks))
	var lastErr error
	for _, r := range worker.Do(ctx, u.sendWorkers, u.sendRate, tasks) {
		if r.Err != nil {
			res.Failed++
			lastErr = r.Err
			continue
		}
		sent = append(sent, r.ID)
	}
	sort.Strings(sent)
	res.Sent = len(sent)

	// Delivered mail is recorded even when the request went away mid-batch,
	// otherwise a retry would send it twice.
	if err := u.applicants.MarkShortlistEmailSent(context.WithoutCancel(ctx), sent); err != nil {
		u.log.Error("marking shortlist emails sent failed", zap.String("job_id", jobID), zap.Error(err))
	}
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("shortlist email interrupted after %d sent: %w", res.Sent, err)
	}
	if res.Failed > 0 && res.Sent == 0 {
		return res, fmt.Errorf("%w: %w", ErrWorkflowFailed, lastErr)
	}
	return res, nil
}

func shortlistMessage(j job.Job, r candidate.Record) mailer.Message {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = "there"
	}
	subject := fmt.Sprintf("You have been shortlisted for %s", j.Title)
	text := fmt.Sprintf(
		"Hi %s,\n\nThank you for applying for the %s role. We are pleased to let you know that you have been shortlisted.\n"+
			"Our team will be in touch shortly to arrange the next steps.\n\nKind regards,\n%s",
		name, j.Title, nonEmpty(j.HiringManager, "The hiring team"),
	)
	return mailer.Message{To: r.Email, Subject: subject, Text: text}
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
