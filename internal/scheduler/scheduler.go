// Package scheduler runs the periodic usage-summary log job.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/pgulin/placebot/internal/stats"
)

// Scheduler periodically logs a usage-summary snapshot for ops
// visibility.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reporter  *stats.Reporter
	logger    *slog.Logger
	interval  time.Duration
}

// New creates a new Scheduler.
func New(reporter *stats.Reporter, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		reporter:  reporter,
		logger:    logger,
		interval:  interval,
	}
}

// Start schedules the snapshot job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		summary, err := s.reporter.Summary(ctx)
		if err != nil {
			s.logger.Warn("usage snapshot failed", "error", err)
			return
		}

		s.logger.Info("usage snapshot",
			"commands", summary.Commands,
			"feedback_total", summary.TotalFeedback,
		)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
