package collaborators

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/confirmation"
)

// HTTPInventoryService implements InventoryService against the inventory
// system's reconciliation endpoint.
type HTTPInventoryService struct {
	client httpClient
}

// NewHTTPInventoryService creates an inventory client for the service at baseURL.
func NewHTTPInventoryService(baseURL string, timeout time.Duration) (*HTTPInventoryService, error) {
	client, err := newHTTPClient(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &HTTPInventoryService{client: client}, nil
}

type deliveredQuantitiesRequest struct {
	ConfirmationID string                 `json:"confirmation_id"`
	ScheduleID     string                 `json:"schedule_id"`
	Tenant         string                 `json:"tenant"`
	Items          []deliveredItemPayload `json:"items"`
}

type deliveredItemPayload struct {
	SKU               string `json:"sku"`
	ExpectedQuantity  int    `json:"expected_quantity"`
	DeliveredQuantity int    `json:"delivered_quantity"`
	Condition         string `json:"condition"`
}

// ApplyDeliveredQuantities reports per-item delivered quantities so inventory
// can reconcile stock.
func (s *HTTPInventoryService) ApplyDeliveredQuantities(
	ctx context.Context, aggregate *confirmation.DeliveryConfirmation,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	items := make([]deliveredItemPayload, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, deliveredItemPayload{
			SKU:               item.SKU(),
			ExpectedQuantity:  item.ExpectedQuantity(),
			DeliveredQuantity: item.DeliveredQuantity(),
			Condition:         item.Condition().String(),
		})
	}

	request := deliveredQuantitiesRequest{
		ConfirmationID: aggregate.ID().String(),
		ScheduleID:     aggregate.ScheduleID().String(),
		Tenant:         aggregate.Tenant().String(),
		Items:          items,
	}

	if err := s.client.postJSON(ctx, "/inventory/deliveries", request, nil); err != nil {
		return fmt.Errorf("apply delivered quantities: %w", err)
	}
	return nil
}
