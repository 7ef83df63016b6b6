package plan

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when attempting to use an improperly initialized Item.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError(
	"plan item must be created via NewItem constructor")

// Item is an immutable value object describing one order line inside a
// delivery plan: its physical dimensions, quantity, and handling flags.
// Plan-level aggregates (weight, volume, special requirements) are computed
// from items and are never stored separately.
type Item struct { //nolint:recvcheck //using for validation
	sku         string
	description string
	quantity    int
	unitWeight  float64
	length      float64
	width       float64
	height      float64

	fragile               bool
	hazardous             bool
	temperatureControlled bool
	signatureRequired     bool
}

// ItemFlags groups the handling flags an item can carry.
type ItemFlags struct {
	Fragile               bool
	Hazardous             bool
	TemperatureControlled bool
	SignatureRequired     bool
}

// NewItem creates a plan item with validated dimensions.
// Quantity must be positive; unit weight and all three dimensions must be
// greater than zero.
func NewItem(
	sku string,
	description string,
	quantity int,
	unitWeight float64,
	length, width, height float64,
	flags ItemFlags,
) (Item, error) {
	item := Item{
		sku:                   sku,
		description:           description,
		quantity:              quantity,
		unitWeight:            unitWeight,
		length:                length,
		width:                 width,
		height:                height,
		fragile:               flags.Fragile,
		hazardous:             flags.Hazardous,
		temperatureControlled: flags.TemperatureControlled,
		signatureRequired:     flags.SignatureRequired,
	}

	if err := errors.Join(
		item.validateSKU(),
		item.validateQuantity(),
		item.validateDimensions(),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item carries a SKU and positive dimensions.
// A zero-value Item always fails here.
func (i Item) Validate() error {
	if i.sku == "" {
		return ErrItemIsNotConstructed
	}
	return errors.Join(i.validateQuantity(), i.validateDimensions())
}

// SKU returns the stock-keeping identifier of the item.
func (i Item) SKU() string {
	return i.sku
}

// Description returns the human-readable item description.
func (i Item) Description() string {
	return i.description
}

// Quantity returns the number of units shipped.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitWeight returns the weight of a single unit.
func (i Item) UnitWeight() float64 {
	return i.unitWeight
}

// Dimensions returns the length, width, and height of a single unit.
func (i Item) Dimensions() (length, width, height float64) {
	return i.length, i.width, i.height
}

// LineWeight returns unit weight multiplied by quantity.
func (i Item) LineWeight() float64 {
	return i.unitWeight * float64(i.quantity)
}

// LineVolume returns unit volume (length × width × height) multiplied by quantity.
func (i Item) LineVolume() float64 {
	return i.length * i.width * i.height * float64(i.quantity)
}

// IsFragile reports whether the item needs fragile handling.
func (i Item) IsFragile() bool {
	return i.fragile
}

// IsHazardous reports whether the item contains hazardous materials.
func (i Item) IsHazardous() bool {
	return i.hazardous
}

// IsTemperatureControlled reports whether the item needs a cold chain.
func (i Item) IsTemperatureControlled() bool {
	return i.temperatureControlled
}

// RequiresSignature reports whether delivery needs a signature for this item.
func (i Item) RequiresSignature() bool {
	return i.signatureRequired
}

// Requirements returns the special requirements this single item implies.
func (i Item) Requirements() []SpecialRequirement {
	requirements := make([]SpecialRequirement, 0, 4)
	if i.fragile {
		requirements = append(requirements, RequirementFragileHandling)
	}
	if i.hazardous {
		requirements = append(requirements, RequirementHazardousMaterials)
	}
	if i.temperatureControlled {
		requirements = append(requirements, RequirementTemperatureControlled)
	}
	if i.signatureRequired {
		requirements = append(requirements, RequirementSignatureRequired)
	}
	return requirements
}

func (i *Item) validateSKU() error {
	if i.sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	return nil
}

func (i *Item) validateQuantity() error {
	if i.quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", i.quantity))
	}
	return nil
}

func (i *Item) validateDimensions() error {
	if i.unitWeight <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit weight",
			fmt.Errorf("%g is not greater than 0", i.unitWeight))
	}
	if i.length <= 0 || i.width <= 0 || i.height <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("dimensions",
			fmt.Errorf("%gx%gx%g must all be greater than 0", i.length, i.width, i.height))
	}
	return nil
}
