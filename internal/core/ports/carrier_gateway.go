package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
)

// CarrierUpdate is one raw status event from a carrier's tracking feed,
// already mapped onto the canonical status enum by the adapter.
type CarrierUpdate struct {
	Status     tracking.TrackingStatus
	Location   *kernel.GeoPoint
	Note       string
	OccurredAt time.Time
}

// CarrierException is one problem report from the carrier.
type CarrierException struct {
	Type        tracking.ExceptionType
	Severity    tracking.Severity
	Description string
	OccurredAt  time.Time
}

// CarrierStatusReport is the carrier's current view of a shipment, returned
// by FetchStatus.
type CarrierStatusReport struct {
	Status            tracking.TrackingStatus
	Location          *kernel.GeoPoint
	EstimatedDelivery time.Time
	Updates           []CarrierUpdate
	Exceptions        []CarrierException
}

// CarrierGateway defines the contract for talking to external carriers.
// All calls are blocking I/O and must be issued with a bounded timeout by
// the implementation; callers see timeouts as ordinary errors.
type CarrierGateway interface {
	// RegisterShipment registers the schedule with its carrier. Registration
	// is idempotent by tracking number: retrying with the same tracking
	// number must not create a duplicate carrier-side shipment.
	RegisterShipment(ctx context.Context, aggregate *schedule.DeliverySchedule) error

	// FetchStatus pulls the carrier's current view of the shipment.
	FetchStatus(ctx context.Context, trackingNumber schedule.TrackingNumber) (CarrierStatusReport, error)

	// CancelShipment cancels the shipment on the carrier side.
	CancelShipment(ctx context.Context, trackingNumber schedule.TrackingNumber) error
}
