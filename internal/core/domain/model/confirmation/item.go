package confirmation

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ItemCondition records the state an item arrived in.
type ItemCondition int

const (
	// ConditionUnknown represents an invalid or undefined condition.
	ConditionUnknown ItemCondition = iota

	// ConditionPerfect means the item arrived untouched.
	ConditionPerfect

	// ConditionGood means the item arrived with cosmetic wear only.
	ConditionGood

	// ConditionDamaged means the item arrived damaged.
	ConditionDamaged

	// ConditionMissing means the item did not arrive.
	ConditionMissing
)

func getItemConditionStrings() map[ItemCondition]string {
	//nolint:exhaustive // ConditionUnknown is intentionally excluded as it's invalid
	return map[ItemCondition]string{
		ConditionPerfect: "PERFECT",
		ConditionGood:    "GOOD",
		ConditionDamaged: "DAMAGED",
		ConditionMissing: "MISSING",
	}
}

// Validate checks if the ItemCondition value is valid.
func (c ItemCondition) Validate() error {
	if _, ok := getItemConditionStrings()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("item condition",
			fmt.Errorf("%d is not a valid item condition", c))
	}
	return nil
}

// String returns the wire representation of the condition.
func (c ItemCondition) String() string {
	if str, ok := getItemConditionStrings()[c]; ok {
		return str
	}
	return "UNKNOWN"
}

// ItemConditionFromString parses an item condition from its wire representation.
func ItemConditionFromString(str string) (ItemCondition, error) {
	for condition, s := range getItemConditionStrings() {
		if s == str {
			return condition, nil
		}
	}
	return ConditionUnknown, errs.NewValueIsInvalidErrorWithCause("item condition",
		fmt.Errorf("%q is not a valid item condition", str))
}

// Item is the per-SKU outcome of a delivery: what was expected against what
// actually arrived and in what shape.
type Item struct {
	sku               string
	expectedQuantity  int
	deliveredQuantity int
	condition         ItemCondition
}

// NewItem records the outcome for one SKU. Delivered quantity may be short of
// expected but never exceeds it.
func NewItem(sku string, expectedQuantity, deliveredQuantity int, condition ItemCondition) (Item, error) {
	if sku == "" {
		return Item{}, errs.NewValueIsRequiredError("sku")
	}
	if expectedQuantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("expected quantity",
			fmt.Errorf("%d is not positive", expectedQuantity))
	}
	if deliveredQuantity < 0 || deliveredQuantity > expectedQuantity {
		return Item{}, errs.NewValueIsOutOfRangeError(
			"delivered quantity", deliveredQuantity, 0, expectedQuantity)
	}
	if err := condition.Validate(); err != nil {
		return Item{}, err
	}
	if condition == ConditionMissing && deliveredQuantity != 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("delivered quantity",
			fmt.Errorf("missing item cannot have %d delivered", deliveredQuantity))
	}

	return Item{
		sku:               sku,
		expectedQuantity:  expectedQuantity,
		deliveredQuantity: deliveredQuantity,
		condition:         condition,
	}, nil
}

// SKU returns the item's stock keeping unit.
func (i Item) SKU() string { return i.sku }

// ExpectedQuantity returns how many units the plan shipped.
func (i Item) ExpectedQuantity() int { return i.expectedQuantity }

// DeliveredQuantity returns how many units actually arrived.
func (i Item) DeliveredQuantity() int { return i.deliveredQuantity }

// Condition returns the state the item arrived in.
func (i Item) Condition() ItemCondition { return i.condition }

// IsComplete reports whether the full expected quantity arrived intact.
func (i Item) IsComplete() bool {
	return i.deliveredQuantity == i.expectedQuantity &&
		(i.condition == ConditionPerfect || i.condition == ConditionGood)
}
