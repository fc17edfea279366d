package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// CacheSweeper drops expired reference-data entries.
type CacheSweeper interface {
	PurgeCaches() int
}

// CacheSweepJob keeps the per-wizard reference-data caches from holding expired
// entries of wizards nobody is reading from.
type CacheSweepJob struct {
	sweeper  CacheSweeper
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewCacheSweepJob(sweeper CacheSweeper, schedule string, logger *slog.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "cache_sweep_job"),
	}
}

func (j *CacheSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Cache sweep job started", "schedule", j.schedule)
	return nil
}

func (j *CacheSweepJob) Run(ctx context.Context) {
	if purged := j.sweeper.PurgeCaches(); purged > 0 {
		j.logger.DebugContext(ctx, "Expired cache entries purged", "count", purged)
	}
}

func (j *CacheSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Cache sweep job stopped")
}
