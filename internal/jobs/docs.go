// Package jobs provides scheduled background tasks for the order wizard.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field expressions with seconds).
//
// # Available Jobs
//
// 1. SessionExpiryJob - closes wizards idle for longer than the idle TTL and removes their stored sessions
// 2. CacheSweepJob - purges expired reference-data cache entries of every running wizard
//
// # Usage
//
//	jobManager := jobs.NewJobManager(expireHandler, sessionManager, idleTTL, clock, jobs.DefaultSchedules(), logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failed passes are logged and retried on the next tick. A failed start stops the
// jobs that were already running.
package jobs
