package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should create valid money value", func(t *testing.T) {
		money, err := kernel.NewMoney(12550, "EUR")

		require.NoError(t, err)
		require.NoError(t, money.Validate())
		assert.Equal(t, int64(12550), money.Amount())
		assert.Equal(t, "EUR", money.Currency())
	})

	t.Run("should accept zero amount", func(t *testing.T) {
		money, err := kernel.NewMoney(0, "USD")

		require.NoError(t, err)
		assert.Equal(t, int64(0), money.Amount())
	})

	t.Run("should fail with negative amount", func(t *testing.T) {
		_, err := kernel.NewMoney(-1, "USD")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "amount")
		assert.Contains(t, err.Error(), "-1 is negative")
	})

	t.Run("should fail with malformed currency", func(t *testing.T) {
		for _, currency := range []string{"", "EU", "EURO"} {
			_, err := kernel.NewMoney(100, currency)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "currency")
		}
	})
}

func TestMoney_Validate(t *testing.T) {
	t.Run("zero value fails validation", func(t *testing.T) {
		var money kernel.Money

		err := money.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrMoneyIsNotConstructed, err)
	})
}

func TestMoney_IsEqual(t *testing.T) {
	m1, _ := kernel.NewMoney(100, "EUR")
	m2, _ := kernel.NewMoney(100, "EUR")
	m3, _ := kernel.NewMoney(100, "USD")
	m4, _ := kernel.NewMoney(200, "EUR")

	assert.True(t, m1.IsEqual(m2))
	assert.False(t, m1.IsEqual(m3))
	assert.False(t, m1.IsEqual(m4))
}

func TestMoney_String(t *testing.T) {
	money, _ := kernel.NewMoney(12550, "EUR")

	assert.Equal(t, "12550 EUR", money.String())
}
