package schedule_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRoute(t *testing.T) schedule.Route {
	t.Helper()

	location, err := kernel.NewGeoPoint(52.52, 13.405)
	require.NoError(t, err)

	first, err := schedule.NewWaypoint(0, location, time.Now().Add(time.Hour))
	require.NoError(t, err)
	second, err := schedule.NewWaypoint(1, location, time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	route, err := schedule.NewRoute([]schedule.Waypoint{first, second}, 12.5, 2*time.Hour)
	require.NoError(t, err)
	return route
}

func validWindow(t *testing.T) schedule.TimeWindow {
	t.Helper()

	window, err := schedule.NewTimeWindow(
		time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return window
}

func validSchedule(t *testing.T) *schedule.DeliverySchedule {
	t.Helper()

	s, err := schedule.NewDeliverySchedule(
		kernel.NewUUID(),
		kernel.NewUUID(),
		carrier.PriorityAir,
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		validWindow(t),
		validRoute(t),
		kernel.Tenant("acme"),
	)
	require.NoError(t, err)
	return s
}

func TestNewDeliverySchedule(t *testing.T) {
	t.Run("should start scheduled with a carrier-prefixed tracking number", func(t *testing.T) {
		s := validSchedule(t)

		require.NoError(t, s.Validate())
		assert.Equal(t, schedule.StatusScheduled, s.Status())
		assert.True(t, s.TrackingNumber().HasPrefix(carrier.PriorityAir))
		assert.Equal(t, s.Window().End(), s.EstimatedDelivery())
		assert.Empty(t, s.DriverName())
		assert.False(t, s.CreatedAt().IsZero())
	})

	t.Run("should fail on invalid input", func(t *testing.T) {
		_, err := schedule.NewDeliverySchedule(
			kernel.UUID{},
			kernel.NewUUID(),
			carrier.Carrier{},
			time.Time{},
			schedule.TimeWindow{},
			schedule.Route{},
			kernel.Tenant(""),
		)

		require.Error(t, err)
	})

	t.Run("empty schedule should be invalid", func(t *testing.T) {
		var s schedule.DeliverySchedule
		assert.ErrorIs(t, s.Validate(), schedule.ErrScheduleIsNotConstructed)
	})
}

func TestRestoreDeliverySchedule(t *testing.T) {
	t.Run("should restore all fields including status and timestamps", func(t *testing.T) {
		id := kernel.NewUUID()
		planID := kernel.NewUUID()
		createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		eta := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

		s, err := schedule.RestoreDeliverySchedule(
			id,
			planID,
			carrier.AtlasFreight,
			"ATF-1756600000000000000-0BEE",
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			validWindow(t),
			eta,
			validRoute(t),
			"R. Daneel",
			"VAN-7",
			schedule.StatusInTransit,
			kernel.Tenant("acme"),
			createdAt,
		)

		require.NoError(t, err)
		assert.Equal(t, id, s.ID())
		assert.Equal(t, planID, s.PlanID())
		assert.Equal(t, schedule.StatusInTransit, s.Status())
		assert.Equal(t, eta, s.EstimatedDelivery())
		assert.Equal(t, "R. Daneel", s.DriverName())
		assert.Equal(t, "VAN-7", s.VehicleID())
		assert.Equal(t, createdAt, s.CreatedAt())
	})
}

func TestDeliverySchedule_AdvanceTo(t *testing.T) {
	t.Run("should walk the happy path to delivered", func(t *testing.T) {
		s := validSchedule(t)

		require.NoError(t, s.AdvanceTo(schedule.StatusDispatched))
		require.NoError(t, s.AdvanceTo(schedule.StatusInTransit))
		require.NoError(t, s.AdvanceTo(schedule.StatusOutForDelivery))
		require.NoError(t, s.AdvanceTo(schedule.StatusDelivered))

		assert.Equal(t, schedule.StatusDelivered, s.Status())
		assert.True(t, s.Status().IsTerminal())
	})

	t.Run("should keep its status when a transition is rejected", func(t *testing.T) {
		s := validSchedule(t)
		require.NoError(t, s.AdvanceTo(schedule.StatusInTransit))

		err := s.AdvanceTo(schedule.StatusScheduled)

		require.Error(t, err)
		assert.Equal(t, schedule.StatusInTransit, s.Status())
	})
}

func TestDeliverySchedule_CancelAndFail(t *testing.T) {
	t.Run("cancel moves to terminal cancelled", func(t *testing.T) {
		s := validSchedule(t)

		require.NoError(t, s.Cancel())
		assert.Equal(t, schedule.StatusCancelled, s.Status())
		require.Error(t, s.AdvanceTo(schedule.StatusDispatched))
	})

	t.Run("fail moves to terminal failed", func(t *testing.T) {
		s := validSchedule(t)
		require.NoError(t, s.AdvanceTo(schedule.StatusOutForDelivery))

		require.NoError(t, s.AdvanceTo(schedule.StatusFailed))
		assert.Equal(t, schedule.StatusFailed, s.Status())
		require.Error(t, s.AdvanceTo(schedule.StatusDelivered))
	})
}

func TestDeliverySchedule_AssignDriver(t *testing.T) {
	t.Run("should record driver and vehicle", func(t *testing.T) {
		s := validSchedule(t)

		require.NoError(t, s.AssignDriver("R. Daneel", "VAN-7"))
		assert.Equal(t, "R. Daneel", s.DriverName())
		assert.Equal(t, "VAN-7", s.VehicleID())
	})

	t.Run("should reject empty driver name", func(t *testing.T) {
		s := validSchedule(t)
		require.Error(t, s.AssignDriver("", "VAN-7"))
	})

	t.Run("should reject assignment on terminal schedule", func(t *testing.T) {
		s := validSchedule(t)
		require.NoError(t, s.Cancel())

		require.Error(t, s.AssignDriver("R. Daneel", "VAN-7"))
	})
}

func TestDeliverySchedule_ReviseEstimatedDelivery(t *testing.T) {
	t.Run("should replace the estimate", func(t *testing.T) {
		s := validSchedule(t)
		revised := s.EstimatedDelivery().Add(24 * time.Hour)

		require.NoError(t, s.ReviseEstimatedDelivery(revised))
		assert.Equal(t, revised, s.EstimatedDelivery())
	})

	t.Run("should reject zero estimate and terminal schedules", func(t *testing.T) {
		s := validSchedule(t)
		require.Error(t, s.ReviseEstimatedDelivery(time.Time{}))

		require.NoError(t, s.Cancel())
		require.Error(t, s.ReviseEstimatedDelivery(time.Now().Add(time.Hour)))
	})
}

func TestNewTimeWindow(t *testing.T) {
	t.Run("should reject inverted bounds", func(t *testing.T) {
		start := time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC)
		end := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

		_, err := schedule.NewTimeWindow(start, end)
		require.Error(t, err)

		_, err = schedule.NewTimeWindow(start, start)
		require.Error(t, err)
	})

	t.Run("contains is inclusive on both bounds", func(t *testing.T) {
		window := validWindow(t)

		assert.True(t, window.Contains(window.Start()))
		assert.True(t, window.Contains(window.End()))
		assert.False(t, window.Contains(window.End().Add(time.Second)))
	})
}

func TestNewRoute(t *testing.T) {
	t.Run("should reject non-contiguous waypoint sequences", func(t *testing.T) {
		location, err := kernel.NewGeoPoint(52.52, 13.405)
		require.NoError(t, err)

		first, err := schedule.NewWaypoint(0, location, time.Now())
		require.NoError(t, err)
		third, err := schedule.NewWaypoint(2, location, time.Now())
		require.NoError(t, err)

		_, err = schedule.NewRoute([]schedule.Waypoint{first, third}, 10, time.Hour)
		require.Error(t, err)
	})

	t.Run("should reject empty routes and negative figures", func(t *testing.T) {
		_, err := schedule.NewRoute(nil, 10, time.Hour)
		require.Error(t, err)

		location, err := kernel.NewGeoPoint(52.52, 13.405)
		require.NoError(t, err)
		w, err := schedule.NewWaypoint(0, location, time.Now())
		require.NoError(t, err)

		_, err = schedule.NewRoute([]schedule.Waypoint{w}, -1, time.Hour)
		require.Error(t, err)
	})

	t.Run("waypoints returns a copy", func(t *testing.T) {
		route := validRoute(t)

		waypoints := route.Waypoints()
		waypoints[0] = schedule.Waypoint{}

		assert.Equal(t, 0, route.Waypoints()[0].Sequence())
		assert.NotEqual(t, schedule.Waypoint{}, route.Waypoints()[0])
	})
}
