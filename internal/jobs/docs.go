// Package jobs provides scheduled background tasks for the order service.
//
// Jobs use github.com/robfig/cron/v3 with seconds enabled, so schedules take six
// fields ("*/30 * * * * *") or descriptors such as "@every 1m".
//
// # Available Jobs
//
//  1. MetricsReportJob - logs a metrics snapshot and updates the per-status gauges
//  2. PendingRecoveryJob - re-enqueues Pending orders that are not queued or in flight
//
// # Usage
//
//	jobManager := jobs.NewJobManager(cfg, metricsHandler, recoverHandler, metrics, logger)
//	if err := jobManager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Scheduled runs log their errors and keep the schedule. A failed startup recovery
// or an invalid schedule makes StartAll return an error.
package jobs
