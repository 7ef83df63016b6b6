package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/confirmation"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrConfirmationSideEffectsIncomplete signals that the confirmation record
// was created and persisted but one or more side effects (inventory update,
// feedback hand-off) failed. The confirmation itself stands.
var ErrConfirmationSideEffectsIncomplete = errors.New(
	"confirmation persisted with side-effect failures")

// ConfirmDeliveryCommandHandler handles the business logic for delivery
// confirmation. A schedule is confirmed at most once: a second call returns
// the existing record's identifier without error and without creating a
// second record. Confirming a non-delivered schedule is a state conflict.
type ConfirmDeliveryCommandHandler struct {
	uowFactory ConfirmationUoWFactory
	inventory  ports.InventoryService
	feedback   ports.FeedbackProcessor
	audit      ports.AuditSink
}

// NewConfirmDeliveryCommandHandler creates a handler for confirmation operations.
func NewConfirmDeliveryCommandHandler(
	uowFactory ConfirmationUoWFactory,
	inventory ports.InventoryService,
	feedback ports.FeedbackProcessor,
	audit ports.AuditSink,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		inventory:  inventory,
		feedback:   feedback,
		audit:      audit,
	}
}

// Handle processes the confirmation command: checks the DELIVERED
// precondition, computes performance metrics against the committed window,
// persists the confirmation, then attempts every side effect independently.
//
// Returns the identifier of the schedule's confirmation record. On a repeat
// call that is the already-stored record's ID, not the command's.
func (h *ConfirmDeliveryCommandHandler) Handle(
	ctx context.Context, cmd ConfirmDeliveryCommand,
) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	// Idempotence: the second confirm surfaces the existing record. Anything
	// other than a clean not-found aborts; falling through on an
	// infrastructure error would race a duplicate insert into the unique
	// index.
	existing, err := uow.ConfirmationRepository().GetByScheduleID(ctx, cmd.ScheduleID(), cmd.Tenant())
	switch {
	case err == nil:
		return existing.ID(), nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return kernel.UUID{}, err
	}

	deliverySchedule, err := uow.ScheduleRepository().Get(ctx, cmd.ScheduleID(), cmd.Tenant())
	if err != nil {
		return kernel.UUID{}, err
	}
	if deliverySchedule.Status() != schedule.StatusDelivered {
		return kernel.UUID{}, errs.NewStateConflictError(fmt.Sprintf(
			"schedule %s is %s, confirmation requires DELIVERED",
			cmd.ScheduleID(), deliverySchedule.Status()))
	}

	deliveryStatus, err := uow.StatusRepository().GetByScheduleID(ctx, cmd.ScheduleID(), cmd.Tenant())
	if err != nil {
		return kernel.UUID{}, err
	}

	metrics, err := confirmation.NewPerformanceMetrics(
		deliverySchedule.Window().End(),
		actualDeliveryTime(deliveryStatus),
		deliverySchedule.Route().TotalDistance(),
		deliverySchedule.Route().EstimatedDuration(),
		deliveryStatus.ExceptionCount(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	record, err := confirmation.NewDeliveryConfirmation(
		cmd.ConfirmationID(),
		deliverySchedule.ID(),
		deliveryStatus.ID(),
		cmd.Actor(),
		cmd.Items(),
		cmd.CustomerFeedback(),
		metrics,
		cmd.Tenant(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = record.AttachDeliveryNote(deliveryNoteRef(record.ID())); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.ConfirmationRepository().Add(ctx, record); err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return record.ID(), h.runSideEffects(ctx, cmd, record)
}

// runSideEffects attempts every confirmation side effect even if an earlier
// one fails. Failures are raised as audit incidents and reported together;
// none of them invalidates the persisted confirmation.
func (h *ConfirmDeliveryCommandHandler) runSideEffects(
	ctx context.Context, cmd ConfirmDeliveryCommand, record *confirmation.DeliveryConfirmation,
) error {
	var failures []error

	if err := h.inventory.ApplyDeliveredQuantities(ctx, record); err != nil {
		failures = append(failures, fmt.Errorf("inventory update: %w", err))
		h.logIncident(ctx, cmd, "confirmation.inventory_failed", err)
	}

	if record.HasCustomerFeedback() {
		if err := h.feedback.Process(ctx, record.ID(), record.CustomerFeedback(), cmd.Tenant()); err != nil {
			failures = append(failures, fmt.Errorf("feedback hand-off: %w", err))
			h.logIncident(ctx, cmd, "confirmation.feedback_failed", err)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("%w: %w", ErrConfirmationSideEffectsIncomplete, errors.Join(failures...))
	}
	return nil
}

func (h *ConfirmDeliveryCommandHandler) logIncident(
	ctx context.Context, cmd ConfirmDeliveryCommand, eventName string, cause error,
) {
	_ = h.audit.LogIncident(ctx, eventName, map[string]any{
		"confirmation_id": cmd.ConfirmationID().String(),
		"schedule_id":     cmd.ScheduleID().String(),
		"error":           cause.Error(),
	}, cmd.Tenant(), cmd.Actor())
}

// actualDeliveryTime finds when the shipment was actually delivered: the
// timestamp of the DELIVERED history entry, falling back to the newest entry.
func actualDeliveryTime(deliveryStatus *tracking.DeliveryStatus) time.Time {
	history := deliveryStatus.History()
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Status() == tracking.TrackingDelivered {
			return history[i].OccurredAt()
		}
	}
	return history[len(history)-1].OccurredAt()
}

func deliveryNoteRef(id kernel.UUID) string {
	return "DN-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:12])
}
