package usecase

import (
	"bytes"
	"context"
	"testing"

	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/domain/job"
	"recruit-dash/internal/domain/report"
	"recruit-dash/internal/export"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newReports() (*Reports, *fakeReportRepo) {
	repo := newFakeReportRepo()
	jobs := newFakeJobRepo(job.Job{ID: "j1", Title: "Backend Engineer"})
	return NewReportUsecase(repo, jobs, seededApplicants(), nil), repo
}

func candidateRows(t *testing.T, content []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.CandidatesSheet)
	require.NoError(t, err)
	return rows
}

func TestReports_Generate_Shortlist(t *testing.T) {
	uc, repo := newReports()

	rep, err := uc.Generate(context.Background(), GenerateReportInput{JobID: "j1", Type: report.TypeShortlist, CreatedBy: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", rep.JobTitle)
	assert.Equal(t, "/api/v1/reports/"+rep.ID.String()+"/download", rep.URL)

	rows := candidateRows(t, repo.content[rep.ID])
	// header plus the one shortlisted candidate
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "bob")
}

func TestReports_Generate_ShortlistIsRankedShortlistedOnly(t *testing.T) {
	apps := seededApplicants()
	apps.recs = append(apps.recs, applicant("a5", "j1", "fay", candidate.StatusShortlisted, "95"))
	repo := newFakeReportRepo()
	uc := NewReportUsecase(repo, newFakeJobRepo(job.Job{ID: "j1", Title: "Backend Engineer"}), apps, nil)

	rep, err := uc.Generate(context.Background(), GenerateReportInput{JobID: "j1", Type: report.TypeShortlist})
	require.NoError(t, err)

	rows := candidateRows(t, repo.content[rep.ID])
	require.Len(t, rows, 3)
	assert.Contains(t, rows[1], "fay")
	assert.Contains(t, rows[2], "bob")
	for _, row := range rows[1:] {
		for _, name := range []string{"alice", "carol", "dave", "erin"} {
			assert.NotContains(t, row, name)
		}
	}
}

func TestReports_Generate_BiasFreeMasksNames(t *testing.T) {
	uc, repo := newReports()

	rep, err := uc.Generate(context.Background(), GenerateReportInput{JobID: "j1", Type: report.TypeBiasFreeComparison})
	require.NoError(t, err)

	rows := candidateRows(t, repo.content[rep.ID])
	require.Len(t, rows, 5)
	for _, row := range rows[1:] {
		for _, cell := range row {
			assert.NotContains(t, cell, "@example.com")
		}
	}
	assert.Contains(t, rows[1], candidate.MaskedName("a2"))
}

func TestReports_Generate_Errors(t *testing.T) {
	uc, _ := newReports()

	_, err := uc.Generate(context.Background(), GenerateReportInput{JobID: "j1", Type: "pdf"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Generate(context.Background(), GenerateReportInput{JobID: "nope", Type: report.TypeShortlist})
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestReports_ListAndDownload(t *testing.T) {
	uc, _ := newReports()
	ctx := context.Background()

	rep, err := uc.Generate(ctx, GenerateReportInput{JobID: "j1", Type: report.TypeInterviewPack})
	require.NoError(t, err)

	list, err := uc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rep.URL, list[0].URL)

	got, content, err := uc.Download(ctx, rep.ID.String())
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)
	assert.NotEmpty(t, content)

	_, _, err = uc.Download(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, _, err = uc.Download(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrReportNotFound)
}
