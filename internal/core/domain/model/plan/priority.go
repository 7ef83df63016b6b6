package plan

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Priority represents the urgency class of a delivery plan.
// It influences carrier suggestion and scheduling but never changes after the
// plan is created.
type Priority int

const (
	// PriorityUnknown represents an invalid or undefined priority.
	// This value (0) helps catch uninitialized Priority values.
	PriorityUnknown Priority = iota

	// PriorityStandard is the default delivery urgency.
	PriorityStandard

	// PriorityExpedited requests faster-than-standard delivery.
	PriorityExpedited

	// PriorityUrgent requests next-available-slot delivery.
	PriorityUrgent

	// PrioritySameDay requests delivery on the day of scheduling.
	PrioritySameDay
)

func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityUnknown:   "UNKNOWN",
		PriorityStandard:  "STANDARD",
		PriorityExpedited: "EXPEDITED",
		PriorityUrgent:    "URGENT",
		PrioritySameDay:   "SAME_DAY",
	}
}

func getValidPriorityStrings() map[Priority]string {
	//nolint:exhaustive // PriorityUnknown is intentionally excluded as it's invalid
	return map[Priority]string{
		PriorityStandard:  "STANDARD",
		PriorityExpedited: "EXPEDITED",
		PriorityUrgent:    "URGENT",
		PrioritySameDay:   "SAME_DAY",
	}
}

// PriorityFromString parses a priority from its wire representation.
func PriorityFromString(s string) (Priority, error) {
	for priority, str := range getValidPriorityStrings() {
		if str == s {
			return priority, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("priority",
		fmt.Errorf("%q is not a valid priority", s))
}

// Validate checks if the Priority value is valid.
// Valid priorities are STANDARD, EXPEDITED, URGENT, and SAME_DAY.
func (p Priority) Validate() error {
	if _, ok := getValidPriorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

// String returns the wire representation of the priority.
// Implements fmt.Stringer and is safe on any Priority value.
func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "UNKNOWN"
}
