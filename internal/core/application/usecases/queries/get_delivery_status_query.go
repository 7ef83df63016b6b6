package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/guard"
)

var ErrGetDeliveryStatusQueryIsNotConstructed = errors.New(
	"GetDeliveryStatusQuery must be created via NewGetDeliveryStatusQuery constructor",
)

// GetDeliveryStatusQuery retrieves the customer-facing view of a delivery by
// its tracking number: the current status, estimated delivery, and how many
// exceptions are still open.
//
// Example:
//
//	query, err := NewGetDeliveryStatusQuery(trackingNumber, tenant)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetDeliveryStatusQueryHandler(db)
//
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get delivery status: %w", err)
//	}
//	fmt.Printf("Delivery %s is %s\n", view.TrackingNumber, view.CurrentStatus)
type GetDeliveryStatusQuery struct { //nolint:recvcheck //using for validation
	trackingNumber schedule.TrackingNumber
	tenant         kernel.Tenant

	guard guard.ConstructorGuard
}

// NewGetDeliveryStatusQuery creates a query for one delivery's tracking view.
func NewGetDeliveryStatusQuery(
	trackingNumber schedule.TrackingNumber,
	tenant kernel.Tenant,
) (GetDeliveryStatusQuery, error) {
	if err := trackingNumber.Validate(); err != nil {
		return GetDeliveryStatusQuery{}, err
	}
	if err := tenant.Validate(); err != nil {
		return GetDeliveryStatusQuery{}, err
	}

	return GetDeliveryStatusQuery{
		trackingNumber: trackingNumber,
		tenant:         tenant,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryStatusQueryIsNotConstructed)
}

// TrackingNumber returns the tracking number being looked up.
func (q GetDeliveryStatusQuery) TrackingNumber() schedule.TrackingNumber {
	return q.trackingNumber
}

// Tenant returns the owning tenant.
func (q GetDeliveryStatusQuery) Tenant() kernel.Tenant {
	return q.tenant
}

// GetDeliveryStatusQueryResponse is the read model for one tracked delivery.
// CurrentStatus and LastUpdateAt come from the newest history entry; the
// record itself never stores a current status.
type GetDeliveryStatusQueryResponse struct {
	ScheduleID        kernel.UUID
	TrackingNumber    schedule.TrackingNumber
	CurrentStatus     tracking.TrackingStatus
	EstimatedDelivery time.Time
	LastUpdateAt      time.Time
	LastNote          string
	OpenExceptions    int
}
