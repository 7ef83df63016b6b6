package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/plan"
	"fulfillment/internal/core/domain/model/schedule"
)

// RouteConstraints carries the shipment characteristics the optimizer may
// take into account. The optimizer's cost model is opaque to the core.
type RouteConstraints struct {
	Priority            plan.Priority
	TotalWeight         float64
	SpecialRequirements []plan.SpecialRequirement
}

// RouteOptimizer defines the contract for the external route optimization
// service. Calls are blocking I/O with a bounded timeout in the adapter.
type RouteOptimizer interface {
	// Optimize computes a delivery route from origin to destination. The
	// returned route's distance and duration are the optimizer's output and
	// are treated as given.
	Optimize(
		ctx context.Context,
		origin kernel.GeoPoint,
		destination kernel.GeoPoint,
		constraints RouteConstraints,
	) (schedule.Route, error)
}
