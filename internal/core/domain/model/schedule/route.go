package schedule

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrRouteIsNotConstructed is returned when attempting to use an improperly initialized Route.
var ErrRouteIsNotConstructed = errs.NewValueIsRequiredError(
	"route must be created via NewRoute constructor")

// WaypointStatus represents the per-stop progress state within a route.
type WaypointStatus int

const (
	// WaypointPending means the stop has not been reached yet.
	WaypointPending WaypointStatus = iota + 1

	// WaypointArrived means the carrier has arrived at the stop.
	WaypointArrived

	// WaypointCompleted means the stop has been handled.
	WaypointCompleted

	// WaypointSkipped means the stop was bypassed.
	WaypointSkipped
)

// String returns the wire representation of the waypoint status.
func (s WaypointStatus) String() string {
	switch s {
	case WaypointPending:
		return "PENDING"
	case WaypointArrived:
		return "ARRIVED"
	case WaypointCompleted:
		return "COMPLETED"
	case WaypointSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// Validate checks if the WaypointStatus value is valid.
func (s WaypointStatus) Validate() error {
	if s < WaypointPending || s > WaypointSkipped {
		return errs.NewValueIsInvalidErrorWithCause("waypoint status",
			fmt.Errorf("%d is not a valid waypoint status", s))
	}
	return nil
}

// Waypoint is one stop in a delivery route with its own arrival state.
type Waypoint struct {
	sequence         int
	location         kernel.GeoPoint
	estimatedArrival time.Time
	actualArrival    *time.Time
	status           WaypointStatus
}

// NewWaypoint creates a pending waypoint.
func NewWaypoint(sequence int, location kernel.GeoPoint, estimatedArrival time.Time) (Waypoint, error) {
	if sequence < 0 {
		return Waypoint{}, errs.NewValueIsInvalidErrorWithCause("sequence",
			fmt.Errorf("%d is negative", sequence))
	}
	if err := location.Validate(); err != nil {
		return Waypoint{}, err
	}

	return Waypoint{
		sequence:         sequence,
		location:         location,
		estimatedArrival: estimatedArrival,
		status:           WaypointPending,
	}, nil
}

// RestoreWaypoint reconstructs a waypoint from persistence.
func RestoreWaypoint(
	sequence int,
	location kernel.GeoPoint,
	estimatedArrival time.Time,
	actualArrival *time.Time,
	status WaypointStatus,
) (Waypoint, error) {
	w, err := NewWaypoint(sequence, location, estimatedArrival)
	if err != nil {
		return Waypoint{}, err
	}
	if err = status.Validate(); err != nil {
		return Waypoint{}, err
	}

	w.status = status
	if actualArrival != nil {
		arrival := *actualArrival
		w.actualArrival = &arrival
	}
	return w, nil
}

// Sequence returns the waypoint's position within the route.
func (w Waypoint) Sequence() int { return w.sequence }

// Location returns the waypoint's coordinates.
func (w Waypoint) Location() kernel.GeoPoint { return w.location }

// EstimatedArrival returns the optimizer's arrival estimate.
func (w Waypoint) EstimatedArrival() time.Time { return w.estimatedArrival }

// ActualArrival returns the recorded arrival, or nil if not reached.
func (w Waypoint) ActualArrival() *time.Time { return w.actualArrival }

// Status returns the waypoint's progress state.
func (w Waypoint) Status() WaypointStatus { return w.status }

// Route is the waypoint sequence a schedule follows, with the optimizer's
// total distance and duration carried through opaquely.
//
// Invariant: waypoint sequence values are contiguous starting at 0.
type Route struct { //nolint:recvcheck //using for validation
	waypoints         []Waypoint
	totalDistance     float64
	estimatedDuration time.Duration

	isConstructed bool
}

// NewRoute creates a Route, validating that waypoint sequences are contiguous
// from the origin. Distance and duration come from the route optimizer and
// are not recomputed here.
func NewRoute(waypoints []Waypoint, totalDistance float64, estimatedDuration time.Duration) (Route, error) {
	if len(waypoints) == 0 {
		return Route{}, errs.NewValueIsRequiredError("waypoints")
	}
	if totalDistance < 0 {
		return Route{}, errs.NewValueIsInvalidErrorWithCause("total distance",
			fmt.Errorf("%g is negative", totalDistance))
	}
	if estimatedDuration < 0 {
		return Route{}, errs.NewValueIsInvalidErrorWithCause("estimated duration",
			errors.New("duration is negative"))
	}

	for i, w := range waypoints {
		if w.sequence != i {
			return Route{}, errs.NewValueIsInvalidErrorWithCause("waypoints",
				fmt.Errorf("sequence %d at position %d is not contiguous", w.sequence, i))
		}
	}

	route := Route{
		waypoints:         make([]Waypoint, len(waypoints)),
		totalDistance:     totalDistance,
		estimatedDuration: estimatedDuration,
		isConstructed:     true,
	}
	copy(route.waypoints, waypoints)
	return route, nil
}

// Validate ensures the Route was created through NewRoute.
func (r Route) Validate() error {
	if !r.isConstructed {
		return ErrRouteIsNotConstructed
	}
	return nil
}

// Waypoints returns a copy of the route's waypoints.
func (r Route) Waypoints() []Waypoint {
	waypoints := make([]Waypoint, len(r.waypoints))
	copy(waypoints, r.waypoints)
	return waypoints
}

// TotalDistance returns the optimizer's total distance for the route.
func (r Route) TotalDistance() float64 { return r.totalDistance }

// EstimatedDuration returns the optimizer's duration estimate.
func (r Route) EstimatedDuration() time.Duration { return r.estimatedDuration }
