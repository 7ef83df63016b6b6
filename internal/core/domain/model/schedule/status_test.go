package schedule_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_TransitionTo(t *testing.T) {
	t.Run("should allow each happy path step", func(t *testing.T) {
		steps := []schedule.Status{
			schedule.StatusScheduled,
			schedule.StatusDispatched,
			schedule.StatusInTransit,
			schedule.StatusOutForDelivery,
			schedule.StatusDelivered,
		}

		for i := 0; i < len(steps)-1; i++ {
			next, err := steps[i].TransitionTo(steps[i+1])
			require.NoError(t, err)
			assert.Equal(t, steps[i+1], next)
		}
	})

	t.Run("should allow skipping intermediate states forward", func(t *testing.T) {
		next, err := schedule.StatusScheduled.TransitionTo(schedule.StatusOutForDelivery)

		require.NoError(t, err)
		assert.Equal(t, schedule.StatusOutForDelivery, next)
	})

	t.Run("should allow failing and cancelling from any non-terminal state", func(t *testing.T) {
		for _, from := range []schedule.Status{
			schedule.StatusScheduled,
			schedule.StatusDispatched,
			schedule.StatusInTransit,
			schedule.StatusOutForDelivery,
		} {
			next, err := from.TransitionTo(schedule.StatusFailed)
			require.NoError(t, err)
			assert.Equal(t, schedule.StatusFailed, next)

			next, err = from.TransitionTo(schedule.StatusCancelled)
			require.NoError(t, err)
			assert.Equal(t, schedule.StatusCancelled, next)
		}
	})

	t.Run("should reject transitions out of terminal states", func(t *testing.T) {
		for _, from := range []schedule.Status{
			schedule.StatusDelivered, schedule.StatusFailed, schedule.StatusCancelled,
		} {
			_, err := from.TransitionTo(schedule.StatusInTransit)

			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrStateConflict))
		}
	})

	t.Run("should reject backward transitions", func(t *testing.T) {
		_, err := schedule.StatusInTransit.TransitionTo(schedule.StatusDispatched)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStateConflict))
	})

	t.Run("should reject unknown statuses", func(t *testing.T) {
		_, err := schedule.StatusUnknown.TransitionTo(schedule.StatusScheduled)
		require.Error(t, err)

		_, err = schedule.StatusScheduled.TransitionTo(schedule.StatusUnknown)
		require.Error(t, err)
	})
}

func TestStatus_StringRoundTrip(t *testing.T) {
	for _, status := range []schedule.Status{
		schedule.StatusScheduled,
		schedule.StatusDispatched,
		schedule.StatusInTransit,
		schedule.StatusOutForDelivery,
		schedule.StatusDelivered,
		schedule.StatusFailed,
		schedule.StatusCancelled,
	} {
		parsed, err := schedule.StatusFromString(status.String())
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	_, err := schedule.StatusFromString("TELEPORTED")
	require.Error(t, err)
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, schedule.StatusDelivered.IsTerminal())
	assert.True(t, schedule.StatusFailed.IsTerminal())
	assert.True(t, schedule.StatusCancelled.IsTerminal())
	assert.False(t, schedule.StatusScheduled.IsTerminal())
	assert.False(t, schedule.StatusOutForDelivery.IsTerminal())
}

func TestStatus_Next(t *testing.T) {
	assert.Equal(t, schedule.StatusDispatched, schedule.StatusScheduled.Next())
	assert.Equal(t, schedule.StatusDelivered, schedule.StatusOutForDelivery.Next())
	assert.Equal(t, schedule.StatusDelivered, schedule.StatusDelivered.Next())
}
