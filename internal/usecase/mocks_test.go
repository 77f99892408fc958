package usecase

import (
	"context"
	"sync"
	"time"

	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/domain/job"
	"recruit-dash/internal/domain/report"
	"recruit-dash/internal/infrastructure/mailer"
	"recruit-dash/internal/infrastructure/workflow"
	"recruit-dash/internal/repository"
	"recruit-dash/internal/ws"

	"github.com/google/uuid"
)

type fakeJobRepo struct {
	jobs       map[string]job.Job
	applicants int
	createErr  error
	getErr     error
	deleteErr  error

	creates []job.Draft
	deletes []string
	updates []job.Patch
}

func newFakeJobRepo(jobs ...job.Job) *fakeJobRepo {
	m := make(map[string]job.Job, len(jobs))
	for _, j := range jobs {
		m[j.ID] = j
	}
	return &fakeJobRepo{jobs: m}
}

func (f *fakeJobRepo) List(context.Context) ([]job.Job, error) {
	out := make([]job.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id string) (job.Job, error) {
	if f.getErr != nil {
		return job.Job{}, f.getErr
	}
	j, ok := f.jobs[id]
	if !ok {
		return job.Job{}, &repository.StoreError{Op: "get job", Code: repository.CodeNotFound}
	}
	return j, nil
}

func (f *fakeJobRepo) Create(_ context.Context, d job.Draft) (string, error) {
	f.creates = append(f.creates, d)
	if f.createErr != nil {
		return "", f.createErr
	}
	id := "job-db-1"
	f.jobs[id] = job.Job{ID: id, Title: d.Title, HiringManager: d.HiringManager, Status: d.Status, Description: d.Description}
	return id, nil
}

func (f *fakeJobRepo) Update(_ context.Context, id string, p job.Patch) (job.Job, error) {
	f.updates = append(f.updates, p)
	j, ok := f.jobs[id]
	if !ok {
		return job.Job{}, &repository.StoreError{Op: "update job", Code: repository.CodeNotFound}
	}
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.InterviewPackURL != nil {
		j.InterviewPackURL = *p.InterviewPackURL
	}
	f.jobs[id] = j
	return j, nil
}

func (f *fakeJobRepo) CountApplicants(context.Context, string) (int, error) {
	return f.applicants, nil
}

func (f *fakeJobRepo) Delete(_ context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.jobs[id]; !ok {
		return &repository.StoreError{Op: "delete job", Code: repository.CodeNotFound}
	}
	delete(f.jobs, id)
	return nil
}

type fakeApplicantRepo struct {
	recs      []candidate.Record
	updateErr error
	listCalls int
	marked    []string
}

func (f *fakeApplicantRepo) ListByJob(_ context.Context, jobID string) ([]candidate.Record, error) {
	f.listCalls++
	out := make([]candidate.Record, 0)
	for _, r := range f.recs {
		if r.JobID == jobID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeApplicantRepo) ListAll(context.Context) ([]candidate.Record, error) {
	return f.recs, nil
}

func (f *fakeApplicantRepo) ListByJobAndStatus(ctx context.Context, jobID string, statuses ...candidate.Status) ([]candidate.Record, error) {
	all, _ := f.ListByJob(ctx, jobID)
	if len(statuses) == 0 {
		return all, nil
	}
	out := make([]candidate.Record, 0)
	for _, r := range all {
		for _, s := range statuses {
			if r.Status == s {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeApplicantRepo) find(id string) (int, bool) {
	for i, r := range f.recs {
		if r.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (f *fakeApplicantRepo) GetByID(_ context.Context, id string) (candidate.Record, error) {
	i, ok := f.find(id)
	if !ok {
		return candidate.Record{}, &repository.StoreError{Op: "get applicant", Code: repository.CodeNotFound}
	}
	return f.recs[i], nil
}

func (f *fakeApplicantRepo) UpdateStatus(_ context.Context, id string, status candidate.Status) (candidate.Record, error) {
	if f.updateErr != nil {
		return candidate.Record{}, f.updateErr
	}
	i, ok := f.find(id)
	if !ok {
		return candidate.Record{}, &repository.StoreError{Op: "update applicant status", Code: repository.CodeNotFound}
	}
	f.recs[i].Status = status
	return f.recs[i], nil
}

func (f *fakeApplicantRepo) ScheduleInterview(_ context.Context, id string, at time.Time, link string) (candidate.Record, error) {
	i, ok := f.find(id)
	if !ok {
		return candidate.Record{}, &repository.StoreError{Op: "schedule interview", Code: repository.CodeNotFound}
	}
	f.recs[i].InterviewTime = &at
	f.recs[i].InterviewLink = link
	f.recs[i].InterviewBooked = true
	return f.recs[i], nil
}

func (f *fakeApplicantRepo) MarkShortlistEmailSent(_ context.Context, ids []string) error {
	f.marked = append(f.marked, ids...)
	return nil
}

type fakeWorkflow struct {
	createID  string
	createErr error
	pack      workflow.InterviewPack
	packErr   error
	emailErr  error

	createCalls int
	emailCalls  int
}

func (f *fakeWorkflow) CreateJob(context.Context, workflow.JobDetails, *workflow.Document) (string, error) {
	f.createCalls++
	return f.createID, f.createErr
}

func (f *fakeWorkflow) GenerateInterviewPack(context.Context, string) (workflow.InterviewPack, error) {
	return f.pack, f.packErr
}

func (f *fakeWorkflow) SendShortlistEmail(context.Context, string) error {
	f.emailCalls++
	return f.emailErr
}

type fakeMailer struct {
	mu      sync.Mutex
	failFor map[string]bool
	sent    []mailer.Message
	onSend  func()
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[msg.To] {
		return "", errMailFailed
	}
	f.sent = append(f.sent, msg)
	if f.onSend != nil {
		f.onSend()
	}
	return "msg-" + msg.To, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(evt ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingInvalidator struct {
	jobIDs []string
}

func (r *recordingInvalidator) InvalidateDashboard(_ context.Context, jobID string) error {
	r.jobIDs = append(r.jobIDs, jobID)
	return nil
}

type fakeReportRepo struct {
	reports map[uuid.UUID]report.Report
	content map[uuid.UUID][]byte
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[uuid.UUID]report.Report{}, content: map[uuid.UUID][]byte{}}
}

func (f *fakeReportRepo) Create(_ context.Context, r report.Report, content []byte) (report.Report, error) {
	r.CreatedAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f.reports[r.ID] = r
	f.content[r.ID] = content
	return r, nil
}

func (f *fakeReportRepo) List(context.Context, int) ([]report.Report, error) {
	out := make([]report.Report, 0, len(f.reports))
	for _, r := range f.reports {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReportRepo) GetByID(_ context.Context, id uuid.UUID) (report.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return report.Report{}, &repository.StoreError{Op: "get report", Code: repository.CodeNotFound}
	}
	return r, nil
}

func (f *fakeReportRepo) Content(_ context.Context, id uuid.UUID) ([]byte, error) {
	b, ok := f.content[id]
	if !ok {
		return nil, &repository.StoreError{Op: "report content", Code: repository.CodeNotFound}
	}
	return b, nil
}

func applicant(id, jobID, name string, status candidate.Status, overall string) candidate.Record {
	return candidate.Record{
		ID:       id,
		JobID:    jobID,
		Name:     name,
		Email:    name + "@example.com",
		Status:   status,
		Discrete: candidate.DiscreteScores{Overall: overall},
	}
}
