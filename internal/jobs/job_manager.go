package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
)

// Schedules are six-field cron expressions (with seconds).
type Schedules struct {
	SessionExpiry string
	CacheSweep    string
}

func DefaultSchedules() Schedules {
	return Schedules{
		SessionExpiry: "0 * * * * *",
		CacheSweep:    "0 */5 * * * *",
	}
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	sessionExpiryJob *SessionExpiryJob
	cacheSweepJob    *CacheSweepJob
}

func NewJobManager(
	expireHandler SessionExpirer,
	wizards interface {
		IdleWizards
		CacheSweeper
	},
	idleTTL time.Duration,
	clock kernel.Clock,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		sessionExpiryJob: NewSessionExpiryJob(expireHandler, wizards, idleTTL, clock, schedules.SessionExpiry, logger),
		cacheSweepJob:    NewCacheSweepJob(wizards, schedules.CacheSweep, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.sessionExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start session expiry job: %w", err)
	}

	if err := jm.cacheSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.sessionExpiryJob.Stop()
		return fmt.Errorf("failed to start cache sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs, waiting for running passes to finish.
func (jm *JobManager) StopAll() {
	jm.cacheSweepJob.Stop()
	jm.sessionExpiryJob.Stop()
}
