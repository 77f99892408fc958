package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"recruit-dash/internal/config"
	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/domain/job"
	"recruit-dash/internal/domain/report"
	"recruit-dash/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubJobs struct {
	jobs    map[string]job.Job
	deleted []string
	delErr  error
}

func (s *stubJobs) CreateJob(context.Context, usecase.CreateJobInput) (job.Job, error) {
	return job.Job{}, errors.New("not implemented")
}

func (s *stubJobs) ListJobs(context.Context) ([]job.Job, error) { return nil, nil }

func (s *stubJobs) GetJob(_ context.Context, id string) (job.Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return job.Job{}, usecase.ErrJobNotFound
	}
	return j, nil
}

func (s *stubJobs) UpdateJob(context.Context, string, job.Patch) (job.Job, error) {
	return job.Job{}, errors.New("not implemented")
}

func (s *stubJobs) DeleteJob(_ context.Context, id string) error {
	if s.delErr != nil {
		return s.delErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubJobs) GenerateInterviewPack(context.Context, string) (usecase.InterviewPackResult, error) {
	return usecase.InterviewPackResult{}, errors.New("not implemented")
}

func (s *stubJobs) SendShortlistEmail(context.Context, string) (usecase.ShortlistEmailResult, error) {
	return usecase.ShortlistEmailResult{}, errors.New("not implemented")
}

type stubApplicants struct {
	views []candidate.View
	last  usecase.ListApplicantsInput
}

func (s *stubApplicants) ListByJob(_ context.Context, _ string, in usecase.ListApplicantsInput) ([]candidate.View, error) {
	s.last = in
	views := s.views
	if in.Ranked {
		views = candidate.Rank(views)
	}
	return candidate.MaskAll(views, in.BiasFree), nil
}

func (s *stubApplicants) Results(context.Context, string, bool) (usecase.JobResults, error) {
	return usecase.JobResults{}, nil
}

func (s *stubApplicants) Get(context.Context, string, bool) (candidate.View, error) {
	return candidate.View{}, nil
}

func (s *stubApplicants) UpdateStatus(context.Context, string, candidate.Status) (candidate.View, error) {
	return candidate.View{}, nil
}

func (s *stubApplicants) ToggleShortlist(context.Context, string) (candidate.View, error) {
	return candidate.View{}, nil
}

func (s *stubApplicants) ScheduleInterview(context.Context, string, time.Time, string) (candidate.View, error) {
	return candidate.View{}, nil
}

type stubReports struct {
	rep     report.Report
	content []byte
	input   usecase.GenerateReportInput
}

func (s *stubReports) Generate(_ context.Context, in usecase.GenerateReportInput) (report.Report, error) {
	s.input = in
	return s.rep, nil
}

func (s *stubReports) List(context.Context, int) ([]report.Report, error) { return nil, nil }

func (s *stubReports) Download(_ context.Context, id string) (report.Report, []byte, error) {
	if id != s.rep.ID.String() {
		return report.Report{}, nil, usecase.ErrReportNotFound
	}
	return s.rep, s.content, nil
}

type harness struct {
	jobs       *stubJobs
	applicants *stubApplicants
	reports    *stubReports
	confirmed  []string
	answer     bool
	out        bytes.Buffer
}

func newHarness() *harness {
	return &harness{
		jobs:       &stubJobs{jobs: map[string]job.Job{}},
		applicants: &stubApplicants{},
		reports:    &stubReports{},
	}
}

func (h *harness) run(args ...string) error {
	root := NewRootCommand(Options{
		LoadConfig: func() (config.Config, error) { return config.Config{}, nil },
		Open: func(context.Context, config.Config, *zap.Logger) (*Services, error) {
			return &Services{Log: zap.NewNop(), Jobs: h.jobs, Applicants: h.applicants, Reports: h.reports}, nil
		},
		Confirm: func(label string) (bool, error) {
			h.confirmed = append(h.confirmed, label)
			return h.answer, nil
		},
		Out: &h.out,
	})
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func view(id, name string, overall float64) candidate.View {
	return candidate.View{ID: id, Name: name, Status: candidate.StatusApplied, Scores: candidate.Scores{Overall: overall}}
}

func TestVersion(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run("version"))
	assert.Equal(t, "recruitctl version: unknown\n", h.out.String())
}

func TestRank_OrdersAndLimits(t *testing.T) {
	h := newHarness()
	h.applicants.views = []candidate.View{
		view("a1", "Alice", 70),
		view("a2", "Bob", 92),
		view("a3", "Carol", 85),
	}

	require.NoError(t, h.run("rank", "--job", "j1", "--top", "2"))
	assert.True(t, h.applicants.last.Ranked)

	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Bob")
	assert.Contains(t, lines[1], "92%")
	assert.Contains(t, lines[2], "Carol")
}

func TestRank_BiasFreeMasksNames(t *testing.T) {
	h := newHarness()
	h.applicants.views = []candidate.View{view("a1", "Alice", 70)}

	require.NoError(t, h.run("rank", "--job", "j1", "--bias-free"))
	assert.True(t, h.applicants.last.BiasFree)
	assert.NotContains(t, h.out.String(), "Alice")
}

func TestRank_RequiresJob(t *testing.T) {
	h := newHarness()
	err := h.run("rank")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--job")
}

func TestReport_WritesWorkbook(t *testing.T) {
	h := newHarness()
	h.reports.rep = report.Report{ID: uuid.New(), Name: "Shortlist"}
	h.reports.content = []byte("xlsx-bytes")
	out := filepath.Join(t.TempDir(), "r.xlsx")

	require.NoError(t, h.run("report", "--job", "j1", "--type", "interview-pack", "--out", out))
	assert.Equal(t, report.TypeInterviewPack, h.reports.input.Type)
	assert.Equal(t, "j1", h.reports.input.JobID)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "xlsx-bytes", string(b))
}

func TestReport_RejectsUnknownType(t *testing.T) {
	h := newHarness()
	err := h.run("report", "--job", "j1", "--type", "summary")
	assert.ErrorIs(t, err, report.ErrUnknownType)
}

func TestJobsDelete_ConfirmDeclined(t *testing.T) {
	h := newHarness()
	h.jobs.jobs["j1"] = job.Job{ID: "j1", Title: "Backend Engineer"}

	require.NoError(t, h.run("jobs", "delete", "j1"))
	require.Len(t, h.confirmed, 1)
	assert.Contains(t, h.confirmed[0], "Backend Engineer")
	assert.Empty(t, h.jobs.deleted)
	assert.Contains(t, h.out.String(), "aborted")
}

func TestJobsDelete_YesSkipsPrompt(t *testing.T) {
	h := newHarness()
	h.jobs.jobs["j1"] = job.Job{ID: "j1", Title: "Backend Engineer"}

	require.NoError(t, h.run("jobs", "delete", "j1", "--yes"))
	assert.Empty(t, h.confirmed)
	assert.Equal(t, []string{"j1"}, h.jobs.deleted)
}

func TestJobsDelete_SurfacesApplicantGuard(t *testing.T) {
	h := newHarness()
	h.jobs.jobs["j1"] = job.Job{ID: "j1"}
	h.jobs.delErr = usecase.ErrJobHasApplicants

	err := h.run("jobs", "delete", "j1", "-y")
	assert.ErrorIs(t, err, usecase.ErrJobHasApplicants)
}

func TestJobsDelete_UnknownJob(t *testing.T) {
	h := newHarness()
	err := h.run("jobs", "delete", "missing", "-y")
	assert.ErrorIs(t, err, usecase.ErrJobNotFound)
}
