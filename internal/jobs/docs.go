// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for delivery tracking.
//
// # Available Jobs
//
// 1. TrackingRefreshJob - Polls every active delivery on a configurable
// cadence and runs a tracking refresh for each, pulling the carrier's latest
// status into the local tracking record.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(refreshHandler, uowFactory, channel, "*/30 * * * * *", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failing delivery is logged and skipped; the sweep continues with the
// rest. Refreshes that commit but fail on secondary effects are logged as
// warnings, and refreshes losing a concurrent update are left for the next
// sweep.
package jobs
