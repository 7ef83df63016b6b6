package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrMoneyIsNotConstructed is returned when attempting to use an improperly initialized Money value.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via NewMoney constructor")

const currencyCodeLength = 3

// Money is an immutable value object holding a monetary amount in minor units
// (cents) together with its ISO 4217 currency code.
type Money struct { //nolint:recvcheck //using for validation
	amount   int64
	currency string

	guard guard.ConstructorGuard
}

// NewMoney creates a Money value. The amount is in minor units and must not
// be negative; the currency must be a three-letter code.
func NewMoney(amount int64, currency string) (Money, error) {
	money := Money{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		money.setAmount(amount),
		money.setCurrency(currency),
	); err != nil {
		return Money{}, err
	}

	return money, nil
}

// Validate ensures the Money value was created through NewMoney.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the amount in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the ISO 4217 currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsEqual reports whether two Money values have the same amount and currency.
func (m Money) IsEqual(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

// String returns "<amount> <currency>", amount still in minor units.
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amount, m.currency)
}

func (m *Money) setAmount(amount int64) error {
	if amount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", amount))
	}
	m.amount = amount
	return nil
}

func (m *Money) setCurrency(currency string) error {
	if len(currency) != currencyCodeLength {
		return errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter currency code", currency))
	}
	m.currency = currency
	return nil
}
