package scheduler

import (
	"context"
	"log/slog"
	"time"

	"social_watcher/internal/domain"
)

const runTimeout = 15 * time.Minute

// Runner defines the interface for watch operations.
type Runner interface {
	Run(ctx context.Context) (*domain.WatchStats, error)
}

type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the pipeline immediately, then on every interval tick. A zero
// interval means a single run.
func (s *Scheduler) Start(ctx context.Context) error {
	s.runOnce(ctx)

	if s.interval == 0 {
		s.logger.Info("single run finished")
		return nil
	}

	s.logger.Info("scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	if _, err := s.runner.Run(runCtx); err != nil {
		s.logger.Error("watch run failed", "error", err)
	}
}
