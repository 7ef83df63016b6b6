package schedule

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery schedule.
// It implements a state machine with defined transitions to ensure
// schedules follow the correct fulfillment workflow.
//
// State transitions:
//
//	Scheduled ──> Dispatched ──> InTransit ──> OutForDelivery ──> Delivered
//	     │             │              │               │
//	     └─────────────┴──────┬───────┴───────────────┘
//	                          ├──> Failed
//	                          └──> Cancelled
//
// Delivered, Failed, and Cancelled are terminal. Transitions are driven by
// the delivery tracker; the scheduler only ever produces Scheduled.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusScheduled is the initial status once a carrier is committed.
	StatusScheduled

	// StatusDispatched indicates the carrier has picked the shipment up.
	StatusDispatched

	// StatusInTransit indicates the shipment is moving between waypoints.
	StatusInTransit

	// StatusOutForDelivery indicates the shipment is on the final leg.
	StatusOutForDelivery

	// StatusDelivered is the terminal happy-path status.
	StatusDelivered

	// StatusFailed is the terminal status for undeliverable shipments.
	StatusFailed

	// StatusCancelled is the terminal status for cancelled shipments.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:        "UNKNOWN",
		StatusScheduled:      "SCHEDULED",
		StatusDispatched:     "DISPATCHED",
		StatusInTransit:      "IN_TRANSIT",
		StatusOutForDelivery: "OUT_FOR_DELIVERY",
		StatusDelivered:      "DELIVERED",
		StatusFailed:         "FAILED",
		StatusCancelled:      "CANCELLED",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusScheduled:      "SCHEDULED",
		StatusDispatched:     "DISPATCHED",
		StatusInTransit:      "IN_TRANSIT",
		StatusOutForDelivery: "OUT_FOR_DELIVERY",
		StatusDelivered:      "DELIVERED",
		StatusFailed:         "FAILED",
		StatusCancelled:      "CANCELLED",
	}
}

// happyPathSuccessor maps each non-terminal status to the next status on the
// happy path.
func happyPathSuccessor() map[Status]Status {
	return map[Status]Status{
		StatusScheduled:      StatusDispatched,
		StatusDispatched:     StatusInTransit,
		StatusInTransit:      StatusOutForDelivery,
		StatusOutForDelivery: StatusDelivered,
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusFailed || s == StatusCancelled
}

// TransitionTo validates a transition and returns the new status.
//
// Valid transitions:
//   - One step forward on the happy path (Scheduled -> Dispatched -> InTransit
//     -> OutForDelivery -> Delivered), or several steps at once when carrier
//     polling skips intermediate states
//   - Any non-terminal status -> Failed or Cancelled
//
// Invalid transitions:
//   - Out of any terminal status
//   - Backwards along the happy path
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if err := next.Validate(); err != nil {
		return 0, err
	}

	if s.IsTerminal() {
		return 0, errs.NewStateConflictErrorWithCause("status transition",
			fmt.Errorf("%s is terminal and cannot transition to %s", s, next))
	}

	if next == StatusFailed || next == StatusCancelled {
		return next, nil
	}

	// Forward moves only; polling may legitimately skip intermediate states.
	if next > s && next <= StatusDelivered {
		return next, nil
	}

	return 0, errs.NewStateConflictErrorWithCause("status transition",
		fmt.Errorf("%s cannot transition to %s", s, next))
}

// Next returns the happy-path successor of the status, or the status itself
// when it has none.
func (s Status) Next() Status {
	if next, ok := happyPathSuccessor()[s]; ok {
		return next
	}
	return s
}

// StatusFromString parses a status from its wire representation.
func StatusFromString(str string) (Status, error) {
	for status, s := range getValidStatusStrings() {
		if s == str {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", str))
}
