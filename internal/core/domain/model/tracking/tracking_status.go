package tracking

import (
	"fmt"

	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/pkg/errs"
)

// TrackingStatus is the canonical customer-facing status a carrier payload is
// mapped onto. It is broader than the schedule state machine: EXCEPTION is a
// tracking-only state that does not advance the schedule.
type TrackingStatus int

const (
	// TrackingUnknown represents an invalid or undefined tracking status.
	TrackingUnknown TrackingStatus = iota

	// TrackingScheduled means the shipment is registered but not yet picked up.
	TrackingScheduled

	// TrackingPickedUp means the carrier has collected the shipment.
	TrackingPickedUp

	// TrackingInTransit means the shipment is moving through the carrier network.
	TrackingInTransit

	// TrackingOutForDelivery means the shipment is on the final leg.
	TrackingOutForDelivery

	// TrackingDelivered means the shipment has reached the customer.
	TrackingDelivered

	// TrackingException means the carrier reported a problem with the shipment.
	TrackingException

	// TrackingCancelled means the shipment was cancelled.
	TrackingCancelled
)

func getTrackingStatusStrings() map[TrackingStatus]string {
	return map[TrackingStatus]string{
		TrackingUnknown:        "UNKNOWN",
		TrackingScheduled:      "SCHEDULED",
		TrackingPickedUp:       "PICKED_UP",
		TrackingInTransit:      "IN_TRANSIT",
		TrackingOutForDelivery: "OUT_FOR_DELIVERY",
		TrackingDelivered:      "DELIVERED",
		TrackingException:      "EXCEPTION",
		TrackingCancelled:      "CANCELLED",
	}
}

func getValidTrackingStatusStrings() map[TrackingStatus]string {
	//nolint:exhaustive // TrackingUnknown is intentionally excluded as it's invalid
	return map[TrackingStatus]string{
		TrackingScheduled:      "SCHEDULED",
		TrackingPickedUp:       "PICKED_UP",
		TrackingInTransit:      "IN_TRANSIT",
		TrackingOutForDelivery: "OUT_FOR_DELIVERY",
		TrackingDelivered:      "DELIVERED",
		TrackingException:      "EXCEPTION",
		TrackingCancelled:      "CANCELLED",
	}
}

// Validate checks if the TrackingStatus value is valid.
func (s TrackingStatus) Validate() error {
	if _, ok := getValidTrackingStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("tracking status",
			fmt.Errorf("%d is not a valid tracking status", s))
	}
	return nil
}

// String returns the wire representation of the tracking status.
func (s TrackingStatus) String() string {
	if str, ok := getTrackingStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the tracking status ends the shipment's lifecycle.
func (s TrackingStatus) IsTerminal() bool {
	return s == TrackingDelivered || s == TrackingCancelled
}

// ScheduleStatus maps the tracking status onto the schedule state machine.
// EXCEPTION has no schedule counterpart: the schedule keeps its current state
// while the exception is worked, so ok is false.
func (s TrackingStatus) ScheduleStatus() (schedule.Status, bool) {
	switch s {
	case TrackingScheduled:
		return schedule.StatusScheduled, true
	case TrackingPickedUp:
		return schedule.StatusDispatched, true
	case TrackingInTransit:
		return schedule.StatusInTransit, true
	case TrackingOutForDelivery:
		return schedule.StatusOutForDelivery, true
	case TrackingDelivered:
		return schedule.StatusDelivered, true
	case TrackingCancelled:
		return schedule.StatusCancelled, true
	default:
		return schedule.StatusUnknown, false
	}
}

// TrackingStatusFromString parses a tracking status from its wire representation.
func TrackingStatusFromString(str string) (TrackingStatus, error) {
	for status, s := range getValidTrackingStatusStrings() {
		if s == str {
			return status, nil
		}
	}
	return TrackingUnknown, errs.NewValueIsInvalidErrorWithCause("tracking status",
		fmt.Errorf("%q is not a valid tracking status", str))
}
