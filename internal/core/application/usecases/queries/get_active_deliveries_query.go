package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/pkg/guard"
)

var ErrGetActiveDeliveriesQueryIsNotConstructed = errors.New(
	"GetActiveDeliveriesQuery must be created via NewGetActiveDeliveriesQuery constructor",
)

// GetActiveDeliveriesQuery retrieves every delivery of a tenant that has not
// yet reached a terminal state. Dispatchers use it as their working list; the
// polling job uses the tenant-free repository variant instead.
type GetActiveDeliveriesQuery struct { //nolint:recvcheck //using for validation
	tenant kernel.Tenant

	guard guard.ConstructorGuard
}

// NewGetActiveDeliveriesQuery creates a query for a tenant's in-flight deliveries.
func NewGetActiveDeliveriesQuery(tenant kernel.Tenant) (GetActiveDeliveriesQuery, error) {
	if err := tenant.Validate(); err != nil {
		return GetActiveDeliveriesQuery{}, err
	}

	return GetActiveDeliveriesQuery{
		tenant: tenant,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveDeliveriesQueryIsNotConstructed)
}

// Tenant returns the owning tenant.
func (q GetActiveDeliveriesQuery) Tenant() kernel.Tenant {
	return q.tenant
}

// GetActiveDeliveriesQueryResponse is one in-flight delivery on the
// dispatcher's working list.
type GetActiveDeliveriesQueryResponse struct {
	ScheduleID        kernel.UUID
	PlanID            kernel.UUID
	TrackingNumber    schedule.TrackingNumber
	Carrier           string
	Status            schedule.Status
	ScheduledDate     time.Time
	EstimatedDelivery time.Time
}
