package services

import (
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/plan"
)

// CarrierWeightThreshold is the aggregate weight above which a shipment is
// routed to the freight carrier.
const CarrierWeightThreshold = 30.0

// CarrierSelector is a domain service that suggests a carrier for a delivery
// plan. The rules form a fixed priority list evaluated top to bottom; the
// first match wins:
//
//  1. SAME_DAY priority           -> SameDayExpress
//  2. URGENT priority             -> PriorityAir
//  3. weight over the threshold   -> AtlasFreight
//  4. fragile handling required   -> GlassGuard
//  5. otherwise                   -> MetroStandard
//
// The rule is deterministic: the same priority, weight, and requirements
// always produce the same carrier.
type CarrierSelector struct{}

// NewCarrierSelector creates a new CarrierSelector instance.
func NewCarrierSelector() CarrierSelector {
	return CarrierSelector{}
}

// Suggest picks the carrier for the given shipment characteristics. Inputs
// are passed individually rather than as a DeliveryPlan because the selector
// runs before the plan exists; the plan records the result.
func (s CarrierSelector) Suggest(
	priority plan.Priority,
	totalWeight float64,
	requirements []plan.SpecialRequirement,
) (carrier.Carrier, error) {
	if err := priority.Validate(); err != nil {
		return carrier.Carrier{}, err
	}

	switch {
	case priority == plan.PrioritySameDay:
		return carrier.SameDayExpress, nil
	case priority == plan.PriorityUrgent:
		return carrier.PriorityAir, nil
	case totalWeight > CarrierWeightThreshold:
		return carrier.AtlasFreight, nil
	case hasRequirement(requirements, plan.RequirementFragileHandling):
		return carrier.GlassGuard, nil
	default:
		return carrier.MetroStandard, nil
	}
}

func hasRequirement(requirements []plan.SpecialRequirement, wanted plan.SpecialRequirement) bool {
	for _, r := range requirements {
		if r == wanted {
			return true
		}
	}
	return false
}
