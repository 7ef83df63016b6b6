package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CancelDeliveryCommandHandler handles the business logic for cancellation.
// The carrier-side shipment is cancelled first; if that fails, nothing is
// persisted and the failure is surfaced. The CANCELLED status goes through
// the same append-only history mechanism as carrier-driven updates, which is
// also what suppresses further automated recovery.
type CancelDeliveryCommandHandler struct {
	uowFactory TrackingUoWFactory
	gateway    ports.CarrierGateway
	audit      ports.AuditSink
}

// NewCancelDeliveryCommandHandler creates a handler for cancellation operations.
func NewCancelDeliveryCommandHandler(
	uowFactory TrackingUoWFactory,
	gateway ports.CarrierGateway,
	audit ports.AuditSink,
) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		audit:      audit,
	}
}

// Handle processes the cancellation command.
func (h *CancelDeliveryCommandHandler) Handle(ctx context.Context, cmd CancelDeliveryCommand) error {
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
	if deliverySchedule.Status().IsTerminal() {
		return errs.NewStateConflictError(fmt.Sprintf(
			"schedule %s is already %s", cmd.ScheduleID(), deliverySchedule.Status()))
	}

	deliveryStatus, err := uow.StatusRepository().GetByScheduleID(ctx, cmd.ScheduleID(), cmd.Tenant())
	if err != nil {
		return err
	}

	if err = h.gateway.CancelShipment(ctx, deliverySchedule.TrackingNumber()); err != nil {
		_ = h.audit.LogIncident(ctx, "carrier.cancellation_failed", map[string]any{
			"schedule_id":     cmd.ScheduleID().String(),
			"tracking_number": deliverySchedule.TrackingNumber().String(),
			"error":           err.Error(),
		}, cmd.Tenant(), cmd.Actor())
		return fmt.Errorf("carrier cancellation for schedule %s: %w", cmd.ScheduleID(), err)
	}

	if err = deliverySchedule.Cancel(); err != nil {
		return err
	}

	update, err := tracking.NewStatusUpdate(
		tracking.TrackingCancelled, nil, cmd.Reason(), tracking.SourceSystem, time.Now().UTC())
	if err != nil {
		return err
	}
	if _, err = deliveryStatus.ApplyUpdate(update); err != nil {
		return err
	}

	if err = uow.ScheduleRepository().Update(ctx, deliverySchedule); err != nil {
		return err
	}
	if err = uow.StatusRepository().Update(ctx, deliveryStatus); err != nil {
		return err
	}

	if err = h.audit.LogEvent(ctx, "delivery.cancelled", map[string]any{
		"schedule_id":     cmd.ScheduleID().String(),
		"tracking_number": deliverySchedule.TrackingNumber().String(),
		"reason":          cmd.Reason(),
	}, cmd.Tenant(), cmd.Actor()); err != nil {
		return fmt.Errorf("audit event for cancellation of %s: %w", cmd.ScheduleID(), err)
	}

	return uow.Commit(ctx)
}
