package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/plan"
)

// PlanRepository defines the persistence contract for delivery plan aggregates.
// Plans are immutable once created, so the contract has no update method.
type PlanRepository interface {
	// Add persists a new delivery plan with its items.
	Add(ctx context.Context, aggregate *plan.DeliveryPlan) error

	// Get retrieves a plan by its identifier within a tenant.
	Get(ctx context.Context, id kernel.UUID, tenant kernel.Tenant) (*plan.DeliveryPlan, error)

	// GetByOrderID retrieves the plan created for an order, if any.
	GetByOrderID(ctx context.Context, orderID kernel.UUID, tenant kernel.Tenant) (*plan.DeliveryPlan, error)
}
