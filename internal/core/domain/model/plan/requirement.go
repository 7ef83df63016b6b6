package plan

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// SpecialRequirement marks a handling constraint a shipment places on its
// carrier. The plan-level requirement set is always the union of the flags
// present on the plan's items; it is derived, never stored independently.
type SpecialRequirement int

const (
	// RequirementUnknown represents an invalid or undefined requirement.
	RequirementUnknown SpecialRequirement = iota

	// RequirementFragileHandling is derived from items flagged fragile.
	RequirementFragileHandling

	// RequirementHazardousMaterials is derived from items flagged hazardous.
	RequirementHazardousMaterials

	// RequirementTemperatureControlled is derived from items needing a cold chain.
	RequirementTemperatureControlled

	// RequirementSignatureRequired is derived from items needing a signature on delivery.
	RequirementSignatureRequired
)

func getRequirementStrings() map[SpecialRequirement]string {
	return map[SpecialRequirement]string{
		RequirementUnknown:               "UNKNOWN",
		RequirementFragileHandling:       "FRAGILE_HANDLING",
		RequirementHazardousMaterials:    "HAZARDOUS_MATERIALS",
		RequirementTemperatureControlled: "TEMPERATURE_CONTROLLED",
		RequirementSignatureRequired:     "SIGNATURE_REQUIRED",
	}
}

// Validate checks if the SpecialRequirement value is valid.
func (r SpecialRequirement) Validate() error {
	if r <= RequirementUnknown || r > RequirementSignatureRequired {
		return errs.NewValueIsInvalidErrorWithCause("special requirement",
			fmt.Errorf("%d is not a valid special requirement", r))
	}
	return nil
}

// String returns the wire representation of the requirement.
func (r SpecialRequirement) String() string {
	if str, ok := getRequirementStrings()[r]; ok {
		return str
	}
	return "UNKNOWN"
}
