package collaborators

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/ports"
)

// HTTPRouteOptimizer implements RouteOptimizer against the routing service.
// The optimizer's distance and duration are carried through without being
// recomputed.
type HTTPRouteOptimizer struct {
	client httpClient
}

// NewHTTPRouteOptimizer creates an optimizer client for the service at baseURL.
func NewHTTPRouteOptimizer(baseURL string, timeout time.Duration) (*HTTPRouteOptimizer, error) {
	client, err := newHTTPClient(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &HTTPRouteOptimizer{client: client}, nil
}

type optimizeRequest struct {
	Origin              pointPayload `json:"origin"`
	Destination         pointPayload `json:"destination"`
	Priority            string       `json:"priority"`
	TotalWeight         float64      `json:"total_weight"`
	SpecialRequirements []string     `json:"special_requirements"`
}

type optimizeResponse struct {
	Waypoints       []waypointPayload `json:"waypoints"`
	TotalDistance   float64           `json:"total_distance"`
	DurationSeconds int64             `json:"duration_seconds"`
}

type pointPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type waypointPayload struct {
	Sequence         int          `json:"sequence"`
	Location         pointPayload `json:"location"`
	EstimatedArrival time.Time    `json:"estimated_arrival"`
}

// Optimize computes a delivery route from origin to destination.
func (o *HTTPRouteOptimizer) Optimize(
	ctx context.Context,
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
	constraints ports.RouteConstraints,
) (schedule.Route, error) {
	requirements := make([]string, 0, len(constraints.SpecialRequirements))
	for _, requirement := range constraints.SpecialRequirements {
		requirements = append(requirements, requirement.String())
	}

	request := optimizeRequest{
		Origin:              pointPayload{Lat: origin.Latitude(), Lon: origin.Longitude()},
		Destination:         pointPayload{Lat: destination.Latitude(), Lon: destination.Longitude()},
		Priority:            constraints.Priority.String(),
		TotalWeight:         constraints.TotalWeight,
		SpecialRequirements: requirements,
	}

	var response optimizeResponse
	if err := o.client.postJSON(ctx, "/routes/optimize", request, &response); err != nil {
		return schedule.Route{}, fmt.Errorf("optimize route: %w", err)
	}

	waypoints := make([]schedule.Waypoint, 0, len(response.Waypoints))
	for _, payload := range response.Waypoints {
		location, err := kernel.NewGeoPoint(payload.Location.Lat, payload.Location.Lon)
		if err != nil {
			return schedule.Route{}, err
		}
		waypoint, err := schedule.NewWaypoint(payload.Sequence, location, payload.EstimatedArrival)
		if err != nil {
			return schedule.Route{}, err
		}
		waypoints = append(waypoints, waypoint)
	}

	return schedule.NewRoute(
		waypoints, response.TotalDistance, time.Duration(response.DurationSeconds)*time.Second)
}
