package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("should create address without coordinates", func(t *testing.T) {
		addr, err := kernel.NewAddress("12 Rue de Rivoli", "Paris", "75001", nil)

		require.NoError(t, err)
		require.NoError(t, addr.Validate())
		assert.Equal(t, "12 Rue de Rivoli", addr.Street())
		assert.Equal(t, "Paris", addr.City())
		assert.Equal(t, "75001", addr.PostalCode())
		assert.Nil(t, addr.Geo())
	})

	t.Run("should create address with coordinates", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(48.8566, 2.3522)

		addr, err := kernel.NewAddress("12 Rue de Rivoli", "Paris", "75001", &point)

		require.NoError(t, err)
		require.NotNil(t, addr.Geo())
		assert.True(t, addr.Geo().IsEqual(point))
	})

	t.Run("should fail with missing required fields", func(t *testing.T) {
		testCases := []struct {
			name                     string
			street, city, postalCode string
			expected                 string
		}{
			{"empty street", "", "Paris", "75001", "street"},
			{"empty city", "12 Rue de Rivoli", "", "75001", "city"},
			{"empty postal code", "12 Rue de Rivoli", "Paris", "", "postal code"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewAddress(tc.street, tc.city, tc.postalCode, nil)

				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expected)
			})
		}
	})

	t.Run("should fail with unconstructed geo point", func(t *testing.T) {
		var point kernel.GeoPoint

		_, err := kernel.NewAddress("12 Rue de Rivoli", "Paris", "75001", &point)

		require.Error(t, err)
	})
}

func TestAddress_Validate(t *testing.T) {
	t.Run("zero value fails validation", func(t *testing.T) {
		var addr kernel.Address

		err := addr.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrAddressIsNotConstructed, err)
	})
}

func TestAddress_String(t *testing.T) {
	addr, _ := kernel.NewAddress("12 Rue de Rivoli", "Paris", "75001", nil)

	assert.Equal(t, "12 Rue de Rivoli, 75001 Paris", addr.String())
}
