package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	t.Run("should create tenant from non-empty identifier", func(t *testing.T) {
		tenant, err := kernel.NewTenant("acme")

		require.NoError(t, err)
		assert.Equal(t, "acme", tenant.String())
	})

	t.Run("should reject empty identifier", func(t *testing.T) {
		_, err := kernel.NewTenant("")

		require.Error(t, err)
		assert.Equal(t, kernel.ErrTenantIsRequired, err)
	})
}

func TestNewActor(t *testing.T) {
	t.Run("should create actor from non-empty identifier", func(t *testing.T) {
		actor, err := kernel.NewActor("user-42")

		require.NoError(t, err)
		assert.Equal(t, "user-42", actor.String())
	})

	t.Run("should reject empty identifier", func(t *testing.T) {
		_, err := kernel.NewActor("")

		require.Error(t, err)
		assert.Equal(t, kernel.ErrActorIsRequired, err)
	})
}
