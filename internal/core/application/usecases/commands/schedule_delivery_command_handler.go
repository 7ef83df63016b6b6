package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ScheduleDeliveryCommandHandler handles the business logic for committing a
// plan to a carrier. Carrier registration happens inside the transaction
// boundary: if registration fails, nothing is persisted and no partial
// schedule is visible to readers. The initial SCHEDULED notification is
// best-effort and recorded on the tracking record either way.
type ScheduleDeliveryCommandHandler struct {
	uowFactory ScheduleUoWFactory
	origin     kernel.GeoPoint
	optimizer  ports.RouteOptimizer
	gateway    ports.CarrierGateway
	sender     ports.NotificationSender
	audit      ports.AuditSink
}

// NewScheduleDeliveryCommandHandler creates a handler for scheduling
// operations. The origin is the dispatch depot routes start from.
func NewScheduleDeliveryCommandHandler(
	uowFactory ScheduleUoWFactory,
	origin kernel.GeoPoint,
	optimizer ports.RouteOptimizer,
	gateway ports.CarrierGateway,
	sender ports.NotificationSender,
	audit ports.AuditSink,
) ScheduleDeliveryCommandHandler {
	return ScheduleDeliveryCommandHandler{
		uowFactory: uowFactory,
		origin:     origin,
		optimizer:  optimizer,
		gateway:    gateway,
		sender:     sender,
		audit:      audit,
	}
}

// Handle processes the scheduling command: resolves the plan's suggested
// carrier, generates the tracking number, obtains an optimized route,
// registers the shipment with the carrier, and opens the tracking record.
func (h *ScheduleDeliveryCommandHandler) Handle(ctx context.Context, cmd ScheduleDeliveryCommand) error {
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

	deliveryPlan, err := uow.PlanRepository().Get(ctx, cmd.PlanID(), cmd.Tenant())
	if err != nil {
		return err
	}

	if existing, lookupErr := uow.ScheduleRepository().GetByPlanID(
		ctx, cmd.PlanID(), cmd.Tenant()); lookupErr == nil && existing != nil {
		return errs.NewStateConflictError(
			fmt.Sprintf("plan %s is already scheduled as %s", cmd.PlanID(), existing.ID()))
	}

	destination := deliveryPlan.Destination().Geo()
	if destination == nil {
		return errs.NewValueIsRequiredError("destination coordinates")
	}

	route, err := h.optimizer.Optimize(ctx, h.origin, *destination, ports.RouteConstraints{
		Priority:            deliveryPlan.Priority(),
		TotalWeight:         deliveryPlan.TotalWeight(),
		SpecialRequirements: deliveryPlan.SpecialRequirements(),
	})
	if err != nil {
		h.logIncident(ctx, "route_optimizer.failed", cmd, err)
		return fmt.Errorf("route optimization for plan %s: %w", cmd.PlanID(), err)
	}

	window, err := schedule.NewTimeWindow(cmd.WindowStart(), cmd.WindowEnd())
	if err != nil {
		return err
	}

	deliverySchedule, err := schedule.NewDeliverySchedule(
		cmd.ScheduleID(),
		deliveryPlan.ID(),
		deliveryPlan.SuggestedCarrier(),
		cmd.ScheduledDate(),
		window,
		route,
		cmd.Tenant(),
	)
	if err != nil {
		return err
	}

	// Registration is idempotent by tracking number on the carrier side, so
	// a retried command re-registers the same shipment without duplicates.
	if err = h.gateway.RegisterShipment(ctx, deliverySchedule); err != nil {
		h.logIncident(ctx, "carrier.registration_failed", cmd, err)
		return fmt.Errorf("carrier registration for plan %s: %w", cmd.PlanID(), err)
	}

	deliveryStatus, err := tracking.NewDeliveryStatus(
		kernel.NewUUID(),
		deliverySchedule.ID(),
		deliverySchedule.TrackingNumber(),
		deliverySchedule.EstimatedDelivery(),
		cmd.Tenant(),
	)
	if err != nil {
		return err
	}

	h.sendInitialNotification(ctx, cmd, deliveryPlan.CustomerID(), deliverySchedule, deliveryStatus)

	if err = uow.ScheduleRepository().Add(ctx, deliverySchedule); err != nil {
		return err
	}
	if err = uow.StatusRepository().Add(ctx, deliveryStatus); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// sendInitialNotification sends the SCHEDULED message best-effort and records
// the attempt on the tracking record. A failed send never fails scheduling.
func (h *ScheduleDeliveryCommandHandler) sendInitialNotification(
	ctx context.Context,
	cmd ScheduleDeliveryCommand,
	customerID kernel.UUID,
	deliverySchedule *schedule.DeliverySchedule,
	deliveryStatus *tracking.DeliveryStatus,
) {
	message := fmt.Sprintf("Your delivery %s is scheduled for %s",
		deliverySchedule.TrackingNumber(),
		deliverySchedule.ScheduledDate().Format("2006-01-02"))

	result := tracking.NotificationSent
	if _, err := h.sender.Send(ctx, cmd.NotifyChannel(), customerID.String(), message); err != nil {
		result = tracking.NotificationFailed
	}

	notification, err := tracking.NewCustomerNotification(
		kernel.NewUUID(), cmd.NotifyChannel(), customerID.String(), message,
		tracking.TrackingScheduled, result, time.Now().UTC())
	if err != nil {
		return
	}
	_ = deliveryStatus.RecordNotification(notification)
}

func (h *ScheduleDeliveryCommandHandler) logIncident(
	ctx context.Context, eventName string, cmd ScheduleDeliveryCommand, cause error,
) {
	_ = h.audit.LogIncident(ctx, eventName, map[string]any{
		"plan_id": cmd.PlanID().String(),
		"error":   cause.Error(),
	}, cmd.Tenant(), cmd.Actor())
}
