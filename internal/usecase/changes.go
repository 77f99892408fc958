package usecase

import (
	"context"

	"recruit-dash/internal/ws"

	"go.uber.org/zap"
)

// CacheInvalidator drops cached aggregates after a write.
type CacheInvalidator interface {
	InvalidateDashboard(ctx context.Context, jobID string) error
}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateDashboard(context.Context, string) error { return nil }

// changeNotifier is embedded by every usecase that writes: it invalidates
// the dashboard cache and tells websocket clients to re-fetch.
type changeNotifier struct {
	cache CacheInvalidator
	pub   ws.Publisher
	log   *zap.Logger
}

func newChangeNotifier(cache CacheInvalidator, pub ws.Publisher, log *zap.Logger) changeNotifier {
	if cache == nil {
		cache = nopInvalidator{}
	}
	if pub == nil {
		pub = ws.NopPublisher{}
	}
	return changeNotifier{cache: cache, pub: pub, log: log}
}

func (n changeNotifier) changed(ctx context.Context, evt ws.Event) {
	if err := n.cache.InvalidateDashboard(ctx, evt.JobID); err != nil {
		n.log.Warn("cache invalidation failed", zap.String("job_id", evt.JobID), zap.Error(err))
	}
	n.pub.Publish(evt)
}
