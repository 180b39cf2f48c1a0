// Package worker runs the periodic background passes of the availability
// tracker.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/availability-tracker/internal/availability"
)

// StatusRecomputer is the application operation the refresher drives.
type StatusRecomputer interface {
	RecomputeAll(ctx context.Context, now time.Time) (map[string]availability.Status, error)
}

// RefresherConfig tunes the periodic status pass.
type RefresherConfig struct {
	Interval time.Duration
}

// StatusRefresher recomputes every user's status on a fixed interval.
type StatusRefresher struct {
	statuses StatusRecomputer
	logger   *slog.Logger
	cron     *cron.Cron
	cfg      RefresherConfig
	now      func() time.Time
}

// NewStatusRefresher builds the refresher. A non-positive interval falls
// back to one minute.
func NewStatusRefresher(statuses StatusRecomputer, logger *slog.Logger, cfg RefresherConfig) (*StatusRefresher, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &StatusRefresher{
		statuses: statuses,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
		now:      time.Now,
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	if _, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if _, err := r.Refresh(ctx); err != nil {
			r.logger.Error("status refresh failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to register refresh schedule %q: %w", schedule, err)
	}

	return r, nil
}

// Start launches the cron scheduler.
func (r *StatusRefresher) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("status refresher started", "interval", r.cfg.Interval)
}

// Stop waits for an in-flight pass to finish or the context to expire.
func (r *StatusRefresher) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("status refresher stopped")
}

// Refresh runs one status pass synchronously.
func (r *StatusRefresher) Refresh(ctx context.Context) (map[string]availability.Status, error) {
	if r == nil || r.statuses == nil {
		return nil, nil
	}
	return r.statuses.RecomputeAll(ctx, r.now())
}
