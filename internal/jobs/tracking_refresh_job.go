package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// TrackingRefreshJob polls every active delivery on a cron cadence and runs
// a tracking refresh for each. One failing delivery never blocks the rest of
// the sweep.
type TrackingRefreshJob struct {
	handler       commands.RefreshTrackingCommandHandler
	uowFactory    commands.TrackingUoWFactory
	notifyChannel tracking.Channel
	schedule      string
	cron          *cron.Cron
	logger        *slog.Logger
}

// NewTrackingRefreshJob creates the polling job. The cron spec uses the
// six-field form with seconds; notifyChannel is the channel customer
// notifications triggered by polled refreshes go out on.
func NewTrackingRefreshJob(
	handler commands.RefreshTrackingCommandHandler,
	uowFactory commands.TrackingUoWFactory,
	notifyChannel tracking.Channel,
	cronSchedule string,
	logger *slog.Logger,
) *TrackingRefreshJob {
	return &TrackingRefreshJob{
		handler:       handler,
		uowFactory:    uowFactory,
		notifyChannel: notifyChannel,
		schedule:      cronSchedule,
		cron:          cron.New(cron.WithSeconds()),
		logger:        logger.With("component", "tracking_refresh_job"),
	}
}

// Start begins polling on the configured cadence.
func (j *TrackingRefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.sweep(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tracking refresh job started", "schedule", j.schedule)
	return nil
}

// Stop stops the polling job. Sweeps already running finish.
func (j *TrackingRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Tracking refresh job stopped")
}

// sweep refreshes every active delivery once.
func (j *TrackingRefreshJob) sweep(ctx context.Context) {
	uow := j.uowFactory.Create()
	active, err := uow.ScheduleRepository().GetAllActive(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list active deliveries", "error", err)
		return
	}

	for _, delivery := range active {
		cmd, cmdErr := commands.NewRefreshTrackingCommand(delivery.ID(), j.notifyChannel, delivery.Tenant())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build refresh command",
				"schedule_id", delivery.ID(), "error", cmdErr)
			continue
		}

		handleErr := j.handler.Handle(ctx, cmd)
		switch {
		case handleErr == nil:
		case errors.Is(handleErr, commands.ErrRefreshIncomplete):
			// The refresh committed; secondary effects are already recorded
			// as incidents or failed notifications.
			j.logger.WarnContext(ctx, "Tracking refresh persisted with secondary failures",
				"schedule_id", delivery.ID(), "error", handleErr)
		case errors.Is(handleErr, errs.ErrStateConflict):
			// A concurrent refresh won; the next sweep sees its result.
			j.logger.DebugContext(ctx, "Tracking refresh lost a concurrent update",
				"schedule_id", delivery.ID())
		default:
			j.logger.ErrorContext(ctx, "Tracking refresh failed",
				"schedule_id", delivery.ID(), "error", handleErr)
		}
	}
}
