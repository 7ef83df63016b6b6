package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/tracking"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	trackingRefreshJob *TrackingRefreshJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	refreshHandler commands.RefreshTrackingCommandHandler,
	uowFactory commands.TrackingUoWFactory,
	notifyChannel tracking.Channel,
	pollSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		trackingRefreshJob: NewTrackingRefreshJob(
			refreshHandler, uowFactory, notifyChannel, pollSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.trackingRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start tracking refresh job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.trackingRefreshJob.Stop()
}
