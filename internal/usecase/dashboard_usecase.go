package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"recruit-dash/internal/domain"
	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/infrastructure/cache"
	"recruit-dash/internal/logger"
	"recruit-dash/internal/repository"

	"go.uber.org/zap"
)

type DashboardUsecase interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

// StatsCache is the cache surface the dashboard reads through.
type StatsCache interface {
	JSONCache
	Ping(ctx context.Context) error
}

type Dashboard struct {
	repo  repository.DashboardRepository
	cache StatsCache
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewDashboardUsecase(repo repository.DashboardRepository, c StatsCache, ttl time.Duration, log *zap.Logger) *Dashboard {
	return &Dashboard{
		repo:  repo,
		cache: c,
		ttl:   ttl,
		log:   logger.OrNop(log).Named("dashboard"),
		now:   time.Now,
	}
}

// Stats reads every aggregate concurrently. A failure of any count query
// fails the whole call; health probes only flip their flag.
func (u *Dashboard) Stats(ctx context.Context) (domain.DashboardStats, error) {
	if u.cache != nil {
		var cached domain.DashboardStats
		ok, err := u.cache.GetJSON(ctx, cache.KeyDashboardStats, &cached)
		if err != nil {
			u.log.Debug("stats cache read failed", zap.Error(err))
		}
		if ok {
			cached.ServerTime = u.now().UTC()
			return cached, nil
		}
	}

	var (
		wg       sync.WaitGroup
		counts   repository.JobCounts
		byStatus map[candidate.Status]int
		inputs   []candidate.Record
		dbErr    error
		cacheErr error
		errs     [3]error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		counts, errs[0] = u.repo.GetJobCounts(ctx)
	}()
	go func() {
		defer wg.Done()
		byStatus, errs[1] = u.repo.CountApplicantsByStatus(ctx)
	}()
	go func() {
		defer wg.Done()
		inputs, errs[2] = u.repo.ListScoreInputs(ctx)
	}()
	go func() {
		defer wg.Done()
		dbErr = u.repo.Ping(ctx)
	}()
	go func() {
		defer wg.Done()
		if u.cache == nil {
			cacheErr = errors.New("cache disabled")
			return
		}
		cacheErr = u.cache.Ping(ctx)
	}()
	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		u.log.Error("dashboard stats failed", zap.Error(err))
		return domain.DashboardStats{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	stats := domain.DashboardStats{
		TotalJobs:       counts.Total,
		OpenJobs:        counts.Open,
		ByStatus:        make(map[string]int, len(candidate.Statuses())),
		DatabaseHealthy: dbErr == nil,
		CacheHealthy:    cacheErr == nil,
	}
	for _, st := range candidate.Statuses() {
		n := byStatus[st]
		stats.ByStatus[string(st)] = n
		stats.TotalApplicants += n
	}
	stats.Shortlisted = byStatus[candidate.StatusShortlisted]
	stats.AverageScore = averageOverall(inputs)

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cache.KeyDashboardStats, stats, u.ttl); err != nil {
			u.log.Debug("stats cache write failed", zap.Error(err))
		}
	}
	stats.ServerTime = u.now().UTC()
	return stats, nil
}

func averageOverall(recs []candidate.Record) float64 {
	var sum float64
	var n int
	for _, r := range recs {
		s := candidate.NormalizeScores(r.Composite, r.Discrete)
		if s.Overall <= 0 {
			continue
		}
		sum += s.Overall
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
