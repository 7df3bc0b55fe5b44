package briefing

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mokulua/kilo-data-service/internal/observability"
)

// runTimeout bounds one scheduled briefing run across all islands.
const runTimeout = 2 * time.Minute

// Scheduler fires the composer on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewScheduler registers the composer under the given cron spec
// (standard five-field format, e.g. "0 6 * * *" for 06:00 daily).
func NewScheduler(spec string, composer *Composer, logger *slog.Logger, metrics *observability.Metrics) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if err := composer.Run(ctx); err != nil {
			logger.Error("scheduled briefing run failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, logger: logger, metrics: metrics}, nil
}

// Start begins firing on schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.metrics.SchedulerRunning.Set(1)
	s.logger.Info("briefing scheduler started")
}

// Stop halts scheduling and waits for an in-progress run to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.metrics.SchedulerRunning.Set(0)
	s.logger.Info("briefing scheduler stopped")
}
