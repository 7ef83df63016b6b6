package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("should create point with valid coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(52.52, 13.405)

		require.NoError(t, err)
		require.NoError(t, point.Validate())
		assert.InDelta(t, 52.52, point.Latitude(), 1e-9)
		assert.InDelta(t, 13.405, point.Longitude(), 1e-9)
	})

	t.Run("should accept boundary coordinates", func(t *testing.T) {
		testCases := []struct {
			name     string
			lat, lng float64
		}{
			{"min latitude", kernel.GeoMinLatitude, 0},
			{"max latitude", kernel.GeoMaxLatitude, 0},
			{"min longitude", 0, kernel.GeoMinLongitude},
			{"max longitude", 0, kernel.GeoMaxLongitude},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tc.lat, tc.lng)
				require.NoError(t, err)
			})
		}
	})

	t.Run("should fail with latitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "latitude")
	})

	t.Run("should fail with longitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -181)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "longitude")
	})

	t.Run("should join multiple validation errors", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(100, 200)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "latitude")
		assert.Contains(t, err.Error(), "longitude")
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value fails validation", func(t *testing.T) {
		var point kernel.GeoPoint

		err := point.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, err)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	p1, _ := kernel.NewGeoPoint(10, 20)
	p2, _ := kernel.NewGeoPoint(10, 20)
	p3, _ := kernel.NewGeoPoint(10.5, 20)

	assert.True(t, p1.IsEqual(p2))
	assert.False(t, p1.IsEqual(p3))
}
