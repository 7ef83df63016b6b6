package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrRefreshIncomplete signals that the status refresh itself was persisted
// but one or more secondary actions (notification, recovery procedure, audit
// incident) failed. The tracking record is durable; callers report the
// secondary failures on their own cadence instead of retrying the refresh.
var ErrRefreshIncomplete = errors.New("tracking refresh persisted with secondary failures")

// RefreshTrackingCommandHandler handles the business logic for a tracking
// refresh: pull the carrier's view, fold it into the append-only history,
// ingest new exceptions (raising HIGH/CRITICAL ones as audit incidents),
// notify the customer on a status change, and run per-type recovery
// procedures for newly opened exceptions.
//
// A failed carrier fetch leaves the previous record untouched. Once the
// carrier payload is folded in, nothing aborts persistence: recovery and
// notification failures are collected and reported via ErrRefreshIncomplete.
type RefreshTrackingCommandHandler struct {
	uowFactory TrackingUoWFactory
	gateway    ports.CarrierGateway
	sender     ports.NotificationSender
	audit      ports.AuditSink
}

// NewRefreshTrackingCommandHandler creates a handler for tracking refreshes.
func NewRefreshTrackingCommandHandler(
	uowFactory TrackingUoWFactory,
	gateway ports.CarrierGateway,
	sender ports.NotificationSender,
	audit ports.AuditSink,
) RefreshTrackingCommandHandler {
	return RefreshTrackingCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		sender:     sender,
		audit:      audit,
	}
}

// Handle processes the refresh command.
func (h *RefreshTrackingCommandHandler) Handle(ctx context.Context, cmd RefreshTrackingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliverySchedule, err := uow.ScheduleRepository().Get(ctx, cmd.ScheduleID(), cmd.Tenant())
	if err != nil {
		return err
	}
	deliveryStatus, err := uow.StatusRepository().GetByScheduleID(ctx, cmd.ScheduleID(), cmd.Tenant())
	if err != nil {
		return err
	}
	deliveryPlan, err := uow.PlanRepository().Get(ctx, deliverySchedule.PlanID(), cmd.Tenant())
	if err != nil {
		return err
	}
	recipient := deliveryPlan.CustomerID().String()

	// A timed-out or failed carrier call leaves the previous record
	// untouched; the polling cadence retries, not this handler.
	report, err := h.gateway.FetchStatus(ctx, deliverySchedule.TrackingNumber())
	if err != nil {
		h.logIncidentFor(ctx, cmd.Tenant(), "carrier.fetch_failed", map[string]any{
			"schedule_id":     cmd.ScheduleID().String(),
			"tracking_number": deliverySchedule.TrackingNumber().String(),
			"error":           err.Error(),
		})
		return fmt.Errorf("carrier fetch for schedule %s: %w", cmd.ScheduleID(), err)
	}

	var secondary []error

	previous := deliveryStatus.CurrentStatus()
	secondary = append(secondary, h.foldUpdates(deliveryStatus, report)...)
	h.foldEstimate(deliverySchedule, deliveryStatus, report)
	h.advanceSchedule(deliverySchedule, deliveryStatus)

	opened, exceptionErrs := h.ingestExceptions(ctx, cmd, deliveryStatus, report)
	secondary = append(secondary, exceptionErrs...)

	if current := deliveryStatus.CurrentStatus(); current != previous && !deliveryStatus.WasNotifiedOf(current) {
		message := fmt.Sprintf("Your delivery %s is now %s", deliveryStatus.TrackingNumber(), current)
		if notifyErr := h.notify(ctx, cmd.NotifyChannel(), recipient, message, current, deliveryStatus); notifyErr != nil {
			secondary = append(secondary, notifyErr)
		}
	}

	// Cancellation suppresses automated recovery for open exceptions.
	if deliverySchedule.Status() != schedule.StatusCancelled {
		for _, exception := range opened {
			if recoveryErr := h.recover(ctx, cmd, deliverySchedule, deliveryStatus, exception, recipient); recoveryErr != nil {
				secondary = append(secondary, fmt.Errorf("recovery for %s: %w", exception.Type(), recoveryErr))
			}
		}
	}

	if err = uow.StatusRepository().Update(ctx, deliveryStatus); err != nil {
		return err
	}
	if err = uow.ScheduleRepository().Update(ctx, deliverySchedule); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if len(secondary) > 0 {
		return fmt.Errorf("%w: %w", ErrRefreshIncomplete, errors.Join(secondary...))
	}
	return nil
}

// foldUpdates appends the carrier's entries to history in temporal order.
// Entries the record already holds are suppressed by the aggregate; stale
// entries conflicting with a terminal or newer state are skipped and
// reported as secondary failures.
func (h *RefreshTrackingCommandHandler) foldUpdates(
	deliveryStatus *tracking.DeliveryStatus, report ports.CarrierStatusReport,
) []error {
	updates := report.Updates
	if len(updates) == 0 {
		updates = []ports.CarrierUpdate{{
			Status:     report.Status,
			Location:   report.Location,
			OccurredAt: time.Now().UTC(),
		}}
	}
	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].OccurredAt.Before(updates[j].OccurredAt)
	})

	var skipped []error
	for _, u := range updates {
		entry, err := tracking.NewStatusUpdate(u.Status, u.Location, u.Note, tracking.SourceCarrier, u.OccurredAt)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		if _, err = deliveryStatus.ApplyUpdate(entry); err != nil {
			if errors.Is(err, errs.ErrStateConflict) {
				continue
			}
			skipped = append(skipped, err)
		}
	}
	return skipped
}

func (h *RefreshTrackingCommandHandler) foldEstimate(
	deliverySchedule *schedule.DeliverySchedule,
	deliveryStatus *tracking.DeliveryStatus,
	report ports.CarrierStatusReport,
) {
	if report.EstimatedDelivery.IsZero() {
		return
	}
	_ = deliveryStatus.ReviseEstimatedDelivery(report.EstimatedDelivery)
	if !deliverySchedule.Status().IsTerminal() {
		_ = deliverySchedule.ReviseEstimatedDelivery(report.EstimatedDelivery)
	}
}

// advanceSchedule moves the schedule's state machine to match the canonical
// tracking status. Stale carrier data mapping backwards is ignored; the
// state machine rejects it and the schedule keeps its newer state.
func (h *RefreshTrackingCommandHandler) advanceSchedule(
	deliverySchedule *schedule.DeliverySchedule, deliveryStatus *tracking.DeliveryStatus,
) {
	mapped, ok := deliveryStatus.CurrentStatus().ScheduleStatus()
	if !ok || mapped == deliverySchedule.Status() {
		return
	}
	_ = deliverySchedule.AdvanceTo(mapped)
}

// ingestExceptions opens exceptions the record doesn't already have open and
// raises HIGH/CRITICAL ones as audit incidents. Returns the newly opened
// exceptions so recovery runs at most once per exception.
func (h *RefreshTrackingCommandHandler) ingestExceptions(
	ctx context.Context,
	cmd RefreshTrackingCommand,
	deliveryStatus *tracking.DeliveryStatus,
	report ports.CarrierStatusReport,
) ([]tracking.DeliveryException, []error) {
	var opened []tracking.DeliveryException
	var failures []error

	for _, reported := range report.Exceptions {
		if deliveryStatus.HasOpenExceptionOfType(reported.Type) {
			continue
		}

		exception, err := tracking.NewDeliveryException(
			kernel.NewUUID(), reported.Type, reported.Severity,
			reported.Description, tracking.SourceCarrier, reported.OccurredAt)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if err = deliveryStatus.OpenException(exception); err != nil {
			failures = append(failures, err)
			continue
		}
		opened = append(opened, exception)

		if reported.Severity.RequiresIncident() {
			if err = h.audit.LogIncident(ctx, "delivery.exception", map[string]any{
				"exception_id":    exception.ID().String(),
				"tracking_number": deliveryStatus.TrackingNumber().String(),
				"type":            exception.Type().String(),
				"severity":        exception.Severity().String(),
				"description":     exception.Description(),
			}, cmd.Tenant(), kernel.Actor("system")); err != nil {
				failures = append(failures, fmt.Errorf("audit incident for %s: %w", exception.Type(), err))
			}
		}
	}
	return opened, failures
}

// notify sends a customer message and records the attempt, failed or not.
func (h *RefreshTrackingCommandHandler) notify(
	ctx context.Context,
	channel tracking.Channel,
	recipient string,
	message string,
	about tracking.TrackingStatus,
	deliveryStatus *tracking.DeliveryStatus,
) error {
	result := tracking.NotificationSent
	_, sendErr := h.sender.Send(ctx, channel, recipient, message)
	if sendErr != nil {
		result = tracking.NotificationFailed
	}

	notification, err := tracking.NewCustomerNotification(
		kernel.NewUUID(), channel, recipient, message, about, result, time.Now().UTC())
	if err != nil {
		return err
	}
	if err = deliveryStatus.RecordNotification(notification); err != nil {
		return err
	}
	if sendErr != nil {
		return fmt.Errorf("notification send: %w", sendErr)
	}
	return nil
}

func (h *RefreshTrackingCommandHandler) logIncidentFor(
	ctx context.Context, tenant kernel.Tenant, eventName string, payload map[string]any,
) {
	_ = h.audit.LogIncident(ctx, eventName, payload, tenant, kernel.Actor("system"))
}
