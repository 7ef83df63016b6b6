// Package carrier provides the carrier identity value object and the catalog
// of carriers the fulfillment system can hand shipments to. Carrier selection
// logic lives in the domain services package; this package only describes the
// carriers themselves.
package carrier

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrCarrierIsNotConstructed is returned when attempting to use an improperly initialized Carrier.
var ErrCarrierIsNotConstructed = errs.NewValueIsRequiredError(
	"carrier must be created via the carrier catalog or FromCode")

// Carrier is an immutable value object identifying a shipping carrier.
// The tracking prefix starts every tracking number issued for shipments
// registered with that carrier.
type Carrier struct {
	code           string
	name           string
	trackingPrefix string

	guard guard.ConstructorGuard
}

// The carrier catalog. Codes are stable identifiers used in persistence and
// in tracking numbers; selection between them is the carrier selector's job.
var (
	// SameDayExpress handles SAME_DAY priority deliveries.
	SameDayExpress = newCarrier("SDX", "SameDay Express", "SDX")

	// PriorityAir handles URGENT priority deliveries.
	PriorityAir = newCarrier("PAR", "Priority Air", "PAR")

	// AtlasFreight handles heavy shipments above the standard weight limit.
	AtlasFreight = newCarrier("ATF", "Atlas Freight", "ATF")

	// GlassGuard handles shipments requiring fragile handling.
	GlassGuard = newCarrier("GGD", "GlassGuard Logistics", "GGD")

	// MetroStandard is the default carrier for everything else.
	MetroStandard = newCarrier("MST", "Metro Standard", "MST")
)

func newCarrier(code, name, trackingPrefix string) Carrier {
	return Carrier{
		code:           code,
		name:           name,
		trackingPrefix: trackingPrefix,
		guard:          guard.NewConstructorGuard(),
	}
}

// FromCode resolves a carrier by its stable code.
// Used when reconstructing aggregates from persistence.
func FromCode(code string) (Carrier, error) {
	for _, c := range All() {
		if c.code == code {
			return c, nil
		}
	}
	return Carrier{}, errs.NewValueIsInvalidErrorWithCause("carrier code",
		fmt.Errorf("%q is not a known carrier", code))
}

// All returns every carrier in the catalog.
func All() []Carrier {
	return []Carrier{SameDayExpress, PriorityAir, AtlasFreight, GlassGuard, MetroStandard}
}

// Validate ensures the Carrier came from the catalog or FromCode.
func (c Carrier) Validate() error {
	return c.guard.Validate(ErrCarrierIsNotConstructed)
}

// Code returns the carrier's stable identifier.
func (c Carrier) Code() string {
	return c.code
}

// Name returns the carrier's display name.
func (c Carrier) Name() string {
	return c.name
}

// TrackingPrefix returns the prefix every tracking number issued for this
// carrier begins with.
func (c Carrier) TrackingPrefix() string {
	return c.trackingPrefix
}

// IsEqual compares carriers by code.
func (c Carrier) IsEqual(other Carrier) bool {
	return c.code == other.code
}

// String returns the carrier's display name.
func (c Carrier) String() string {
	return c.name
}
