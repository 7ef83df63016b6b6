package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/confirmation"
)

// InventoryService defines the contract for the inventory collaborator,
// which reconciles stock with what was actually delivered.
type InventoryService interface {
	// ApplyDeliveredQuantities reports per-item delivered quantities from a
	// confirmation so inventory can reconcile stock.
	ApplyDeliveredQuantities(ctx context.Context, aggregate *confirmation.DeliveryConfirmation) error
}
