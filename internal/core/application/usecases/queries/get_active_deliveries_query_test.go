package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetActiveDeliveriesQuery_Valid(t *testing.T) {
	query, err := queries.NewGetActiveDeliveriesQuery(kernel.Tenant("acme"))
	require.NoError(t, err)
	assert.NoError(t, query.Validate())
}

func TestNewGetActiveDeliveriesQuery_EmptyTenant(t *testing.T) {
	_, err := queries.NewGetActiveDeliveriesQuery(kernel.Tenant(""))
	require.Error(t, err)
}

func TestGetActiveDeliveriesQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetActiveDeliveriesQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetActiveDeliveriesQueryIsNotConstructed)
}
