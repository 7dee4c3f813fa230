package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type refreshable interface {
	RefreshGraph(ctx context.Context) error
	PurgeExpiredRoutes() int
}

// Refresher rebuilds the road graph on a fixed interval so queries rarely pay for a rebuild.
// a failed rebuild keeps the previous snapshot serving.
type Refresher struct {
	target   refreshable
	interval time.Duration
	log      *zap.Logger
}

func NewRefresher(target refreshable, interval time.Duration, log *zap.Logger) *Refresher {
	return &Refresher{target: target, interval: interval, log: log}
}

// Run blocks until ctx is done. it returns immediately when the interval is not positive.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("road graph refresher started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("road graph refresher stopped")
			return nil
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if err := r.target.RefreshGraph(ctx); err != nil {
		r.log.Warn("scheduled road graph refresh failed", zap.Error(err))
	}
	if n := r.target.PurgeExpiredRoutes(); n > 0 {
		r.log.Debug("expired routes purged", zap.Int("count", n))
	}
}
