package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/ports"
)

// Scheduler wires the interval driver with the batch use case.
type Scheduler struct {
	driver ports.Scheduler
	batch  *Batch
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring batch runs.
func NewScheduler(driver ports.Scheduler, batch *Batch, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, batch: batch, logger: logger}
}

// Start registers the batch run with the provided scheduler. A failed run is
// logged and retried naturally on the next tick, since aborted comments stay
// unanalyzed.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.batch == nil {
		return nil
	}

	job := func(time.Time) {
		if _, err := s.batch.Run(ctx); err != nil && s.logger != nil {
			s.logger.Error("scheduled batch failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
