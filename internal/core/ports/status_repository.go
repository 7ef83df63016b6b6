package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tracking"
)

// StatusRepository defines the persistence contract for delivery tracking records.
// History rows are append-only; Update writes new history entries but never
// rewrites existing ones, and uses the aggregate's version for optimistic
// concurrency so concurrent refreshes cannot interleave appends.
type StatusRepository interface {
	// Add persists a new tracking record with its seed history entry.
	Add(ctx context.Context, aggregate *tracking.DeliveryStatus) error

	// Update persists new history entries, exceptions, and notifications.
	// Fails with a version conflict if the record changed since it was read.
	Update(ctx context.Context, aggregate *tracking.DeliveryStatus) error

	// Get retrieves a tracking record by its identifier within a tenant.
	Get(ctx context.Context, id kernel.UUID, tenant kernel.Tenant) (*tracking.DeliveryStatus, error)

	// GetByScheduleID retrieves the tracking record for a schedule.
	GetByScheduleID(ctx context.Context, scheduleID kernel.UUID, tenant kernel.Tenant) (*tracking.DeliveryStatus, error)
}
