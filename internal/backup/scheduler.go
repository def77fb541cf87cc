// Package backup saves the state periodically and writes snapshots.
package backup

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the auto-backup period.
const DefaultInterval = 5 * time.Minute

// Saver persists the current state.
type Saver interface {
	Save(ctx context.Context) error
}

// Scheduler saves on a fixed interval while enabled reports true.
type Scheduler struct {
	saver    Saver
	enabled  func() bool
	logger   *slog.Logger
	interval time.Duration
}

// NewScheduler creates a scheduler. A nil enabled func means always on.
func NewScheduler(saver Saver, interval time.Duration, enabled func() bool, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if enabled == nil {
		enabled = func() bool { return true }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{saver: saver, enabled: enabled, logger: logger, interval: interval}
}

// Run ticks until ctx is done. Save failures are logged and the next tick
// tries again. It always returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug("auto-backup scheduler started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("auto-backup scheduler stopped")
			return nil
		case <-ticker.C:
			if !s.enabled() {
				continue
			}
			if err := s.saver.Save(ctx); err != nil {
				s.logger.Warn("auto-backup failed", "error", err)
				continue
			}
			s.logger.Debug("auto-backup saved")
		}
	}
}
