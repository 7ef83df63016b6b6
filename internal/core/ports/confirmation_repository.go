package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/confirmation"
	"fulfillment/internal/core/domain/model/kernel"
)

// ConfirmationRepository defines the persistence contract for delivery confirmations.
// At most one confirmation exists per schedule; the schedule column carries a
// unique index.
type ConfirmationRepository interface {
	// Add persists a new confirmation.
	Add(ctx context.Context, aggregate *confirmation.DeliveryConfirmation) error

	// Get retrieves a confirmation by its identifier within a tenant.
	Get(ctx context.Context, id kernel.UUID, tenant kernel.Tenant) (*confirmation.DeliveryConfirmation, error)

	// GetByScheduleID retrieves the confirmation for a schedule, if one exists.
	// Confirm uses this to return the existing record idempotently.
	GetByScheduleID(
		ctx context.Context, scheduleID kernel.UUID, tenant kernel.Tenant,
	) (*confirmation.DeliveryConfirmation, error)
}
