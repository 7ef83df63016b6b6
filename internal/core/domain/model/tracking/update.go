package tracking

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// UpdateSource identifies who reported a status update.
type UpdateSource int

const (
	// SourceUnknown represents an invalid or undefined source.
	SourceUnknown UpdateSource = iota

	// SourceCarrier marks updates pulled from the carrier.
	SourceCarrier

	// SourceDriver marks updates reported by the driver.
	SourceDriver

	// SourceSystem marks updates produced by the orchestrator itself.
	SourceSystem

	// SourceCustomer marks updates reported by the customer.
	SourceCustomer
)

func getUpdateSourceStrings() map[UpdateSource]string {
	//nolint:exhaustive // SourceUnknown is intentionally excluded as it's invalid
	return map[UpdateSource]string{
		SourceCarrier:  "CARRIER",
		SourceDriver:   "DRIVER",
		SourceSystem:   "SYSTEM",
		SourceCustomer: "CUSTOMER",
	}
}

// Validate checks if the UpdateSource value is valid.
func (s UpdateSource) Validate() error {
	if _, ok := getUpdateSourceStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("update source",
			fmt.Errorf("%d is not a valid update source", s))
	}
	return nil
}

// String returns the wire representation of the source.
func (s UpdateSource) String() string {
	if str, ok := getUpdateSourceStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// UpdateSourceFromString parses an update source from its wire representation.
func UpdateSourceFromString(str string) (UpdateSource, error) {
	for source, s := range getUpdateSourceStrings() {
		if s == str {
			return source, nil
		}
	}
	return SourceUnknown, errs.NewValueIsInvalidErrorWithCause("update source",
		fmt.Errorf("%q is not a valid update source", str))
}

// StatusUpdate is one immutable entry in a delivery's status history.
type StatusUpdate struct {
	status     TrackingStatus
	location   *kernel.GeoPoint
	note       string
	source     UpdateSource
	occurredAt time.Time
}

// NewStatusUpdate creates a history entry. Location is optional; occurredAt
// must be set because history ordering is temporal.
func NewStatusUpdate(
	status TrackingStatus,
	location *kernel.GeoPoint,
	note string,
	source UpdateSource,
	occurredAt time.Time,
) (StatusUpdate, error) {
	if err := status.Validate(); err != nil {
		return StatusUpdate{}, err
	}
	if err := source.Validate(); err != nil {
		return StatusUpdate{}, err
	}
	if occurredAt.IsZero() {
		return StatusUpdate{}, errs.NewValueIsRequiredError("occurred at")
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return StatusUpdate{}, err
		}
	}

	return StatusUpdate{
		status:     status,
		location:   location,
		note:       note,
		source:     source,
		occurredAt: occurredAt,
	}, nil
}

// Status returns the canonical status this entry records.
func (u StatusUpdate) Status() TrackingStatus { return u.status }

// Location returns the reported location, or nil if none was reported.
func (u StatusUpdate) Location() *kernel.GeoPoint { return u.location }

// Note returns the free-form note attached to the update.
func (u StatusUpdate) Note() string { return u.note }

// Source returns who reported the update.
func (u StatusUpdate) Source() UpdateSource { return u.source }

// OccurredAt returns when the update happened.
func (u StatusUpdate) OccurredAt() time.Time { return u.occurredAt }
