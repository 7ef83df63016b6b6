package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
)

// ScheduleRepository defines the persistence contract for delivery schedule aggregates.
type ScheduleRepository interface {
	// Add persists a new schedule. The tracking number column carries a
	// unique index; a generation collision surfaces here.
	Add(ctx context.Context, aggregate *schedule.DeliverySchedule) error

	// Update persists changes to an existing schedule.
	Update(ctx context.Context, aggregate *schedule.DeliverySchedule) error

	// Get retrieves a schedule by its identifier within a tenant.
	Get(ctx context.Context, id kernel.UUID, tenant kernel.Tenant) (*schedule.DeliverySchedule, error)

	// GetByPlanID retrieves the schedule created for a plan, if any.
	// Used to reject scheduling the same plan twice.
	GetByPlanID(ctx context.Context, planID kernel.UUID, tenant kernel.Tenant) (*schedule.DeliverySchedule, error)

	// GetAllActive retrieves every schedule in a non-terminal status.
	// The tracking refresh job polls these.
	GetAllActive(ctx context.Context) ([]*schedule.DeliverySchedule, error)
}
