package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/infrastructure/cache"
	"recruit-dash/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepo struct {
	counts    repository.JobCounts
	byStatus  map[candidate.Status]int
	inputs    []candidate.Record
	pingErr   error
	countsErr error
	calls     int
}

func (f *fakeDashboardRepo) Ping(context.Context) error { return f.pingErr }

func (f *fakeDashboardRepo) GetJobCounts(context.Context) (repository.JobCounts, error) {
	f.calls++
	return f.counts, f.countsErr
}

func (f *fakeDashboardRepo) CountApplicantsByStatus(context.Context) (map[candidate.Status]int, error) {
	return f.byStatus, nil
}

func (f *fakeDashboardRepo) ListScoreInputs(context.Context) ([]candidate.Record, error) {
	return f.inputs, nil
}

func dashboardFixture() *fakeDashboardRepo {
	return &fakeDashboardRepo{
		counts: repository.JobCounts{Total: 4, Open: 3},
		byStatus: map[candidate.Status]int{
			candidate.StatusApplied:     5,
			candidate.StatusShortlisted: 2,
			candidate.StatusRejected:    1,
		},
		inputs: []candidate.Record{
			{ID: "a", Composite: []byte(`{"overall": 90}`)},
			{ID: "b", Discrete: candidate.DiscreteScores{Overall: "70"}},
			{ID: "c"},
		},
	}
}

func TestDashboard_Stats(t *testing.T) {
	uc := NewDashboardUsecase(dashboardFixture(), nil, time.Minute, nil)

	got, err := uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalJobs)
	assert.Equal(t, 3, got.OpenJobs)
	assert.Equal(t, 8, got.TotalApplicants)
	assert.Equal(t, 2, got.Shortlisted)
	assert.InDelta(t, 80, got.AverageScore, 1e-9)
	assert.Equal(t, 0, got.ByStatus["offer"])
	assert.Len(t, got.ByStatus, 5)
	assert.True(t, got.DatabaseHealthy)
	assert.False(t, got.CacheHealthy)
	assert.False(t, got.ServerTime.IsZero())
}

func TestDashboard_Stats_QueryFailure(t *testing.T) {
	repo := dashboardFixture()
	repo.countsErr = &repository.StoreError{Op: "count jobs", Code: repository.CodeUnknown, Err: errors.New("conn reset")}
	uc := NewDashboardUsecase(repo, nil, time.Minute, nil)

	_, err := uc.Stats(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestDashboard_Stats_ReadThroughCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, nil)
	repo := dashboardFixture()
	uc := NewDashboardUsecase(repo, c, time.Minute, nil)
	ctx := context.Background()

	first, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, first.CacheHealthy)
	assert.True(t, mr.Exists(cache.KeyDashboardStats))

	second, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first.TotalApplicants, second.TotalApplicants)

	require.NoError(t, c.InvalidateDashboard(ctx, ""))
	_, err = uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
