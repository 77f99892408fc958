package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"recruit-dash/internal/config"
	"recruit-dash/internal/logger"
	"recruit-dash/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	KeyDashboardStats = "dashboard:stats"
	keyPrefixJob      = "job:"
	keyPrefixEvent    = "workflow:event:"

	defaultTTL = 60 * time.Second
)

// EventKey identifies one delivery of a workflow event. It sits outside the
// job: namespace so job invalidation never clears it.
func EventKey(eventType, jobID, applicantID, occurredAt string) string {
	return keyPrefixEvent + strings.Join([]string{eventType, jobID, applicantID, occurredAt}, ":")
}

// JobKey namespaces per-job cached values.
func JobKey(jobID, suffix string) string {
	return keyPrefixJob + strings.TrimSpace(jobID) + ":" + suffix
}

// Redis is a JSON cache that degrades to a no-op when the server is
// unreachable. A nil *Redis is valid and always misses.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *Redis {
	log = logger.OrNop(log).Named("cache")
	if !cfg.Enabled {
		log.Info("redis disabled, bypassing cache")
		return &Redis{log: log}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, bypassing cache", zap.String("addr", cfg.Addr()), zap.Error(err))
		_ = client.Close()
		return &Redis{log: log}
	}

	return New(client, cfg.TTL, log)
}

// New wraps an already connected client.
func New(client *redis.Client, ttl time.Duration, log *zap.Logger) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, ttl: ttl, log: logger.OrNop(log)}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.log == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.log.Warn("redis unavailable, bypassing cache", zap.Error(err))
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		metrics.CacheLookups.WithLabelValues("bypass").Inc()
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
			return false, nil
		}
		r.warnUnavailableOnce(err)
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return false, err
	}
	if len(b) == 0 {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return false, err
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if r.isUnavailable() || len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.isUnavailable() {
		return nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if err := r.client.Del(ctx, k).Err(); err != nil {
			r.log.Warn("redis delete failed", zap.String("key", k), zap.String("pattern", pattern), zap.Error(err))
		}
	}
	return iter.Err()
}

// InvalidateDashboard drops the aggregate stats and, when jobID is set, any
// values cached for that job.
func (r *Redis) InvalidateDashboard(ctx context.Context, jobID string) error {
	if r.isUnavailable() {
		return nil
	}
	firstErr := r.Delete(ctx, KeyDashboardStats)
	if jobID = strings.TrimSpace(jobID); jobID != "" {
		if err := r.DeleteByPattern(ctx, keyPrefixJob+jobID+":*"); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ClaimOnce marks key as seen for ttl. It reports false only when the key
// was already claimed; without a server every claim succeeds.
func (r *Redis) ClaimOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if r.isUnavailable() {
		return true, nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	ok, err := r.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return true, err
	}
	return ok, nil
}
