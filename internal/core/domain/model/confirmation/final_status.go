package confirmation

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// FinalStatus is the overall outcome recorded on a confirmation.
type FinalStatus int

const (
	// FinalUnknown represents an invalid or undefined final status.
	FinalUnknown FinalStatus = iota

	// FinalSuccess means every item arrived complete and intact.
	FinalSuccess

	// FinalPartial means something arrived, but not everything intact.
	FinalPartial

	// FinalFailed means nothing usable arrived.
	FinalFailed

	// FinalCancelled means the delivery was cancelled before completion.
	FinalCancelled
)

func getFinalStatusStrings() map[FinalStatus]string {
	//nolint:exhaustive // FinalUnknown is intentionally excluded as it's invalid
	return map[FinalStatus]string{
		FinalSuccess:   "SUCCESS",
		FinalPartial:   "PARTIAL",
		FinalFailed:    "FAILED",
		FinalCancelled: "CANCELLED",
	}
}

// Validate checks if the FinalStatus value is valid.
func (s FinalStatus) Validate() error {
	if _, ok := getFinalStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("final status",
			fmt.Errorf("%d is not a valid final status", s))
	}
	return nil
}

// String returns the wire representation of the final status.
func (s FinalStatus) String() string {
	if str, ok := getFinalStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// FinalStatusFromString parses a final status from its wire representation.
func FinalStatusFromString(str string) (FinalStatus, error) {
	for status, s := range getFinalStatusStrings() {
		if s == str {
			return status, nil
		}
	}
	return FinalUnknown, errs.NewValueIsInvalidErrorWithCause("final status",
		fmt.Errorf("%q is not a valid final status", str))
}

// DeriveFinalStatus computes the overall outcome from the per-item outcomes:
// SUCCESS when every item is complete and intact, FAILED when nothing arrived,
// PARTIAL otherwise.
func DeriveFinalStatus(items []Item) FinalStatus {
	if len(items) == 0 {
		return FinalFailed
	}

	complete := 0
	delivered := 0
	for _, item := range items {
		if item.IsComplete() {
			complete++
		}
		if item.DeliveredQuantity() > 0 {
			delivered++
		}
	}

	switch {
	case complete == len(items):
		return FinalSuccess
	case delivered == 0:
		return FinalFailed
	default:
		return FinalPartial
	}
}
