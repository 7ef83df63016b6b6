package plan_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/plan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress("12 Rue de Rivoli", "Paris", "75001", nil)
	require.NoError(t, err)
	return addr
}

func validTotal(t *testing.T) kernel.Money {
	t.Helper()
	total, err := kernel.NewMoney(9900, "EUR")
	require.NoError(t, err)
	return total
}

func newItem(t *testing.T, sku string, quantity int, weight float64, flags plan.ItemFlags) plan.Item {
	t.Helper()
	item, err := plan.NewItem(sku, "test item", quantity, weight, 2, 3, 4, flags)
	require.NoError(t, err)
	return item
}

func newPlan(t *testing.T, items []plan.Item, priority plan.Priority) *plan.DeliveryPlan {
	t.Helper()
	p, err := plan.NewDeliveryPlan(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		validAddress(t),
		items,
		priority,
		carrier.MetroStandard,
		validTotal(t),
		"acme",
		"user-1",
	)
	require.NoError(t, err)
	return p
}

func TestNewDeliveryPlan(t *testing.T) {
	t.Run("should create valid plan", func(t *testing.T) {
		item := newItem(t, "SKU-1", 2, 10, plan.ItemFlags{})

		p := newPlan(t, []plan.Item{item}, plan.PriorityStandard)

		require.NoError(t, p.Validate())
		assert.Equal(t, plan.PriorityStandard, p.Priority())
		assert.Equal(t, kernel.Tenant("acme"), p.Tenant())
		assert.Equal(t, kernel.Actor("user-1"), p.CreatedBy())
		assert.False(t, p.CreatedAt().IsZero())
		assert.Len(t, p.Items(), 1)
	})

	t.Run("should fail without items", func(t *testing.T) {
		_, err := plan.NewDeliveryPlan(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			validAddress(t), nil, plan.PriorityStandard,
			carrier.MetroStandard, validTotal(t), "acme", "user-1")

		require.Error(t, err)
		assert.ErrorIs(t, err, plan.ErrPlanHasNoItems)
	})

	t.Run("should fail with invalid item", func(t *testing.T) {
		var invalidItem plan.Item

		_, err := plan.NewDeliveryPlan(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			validAddress(t), []plan.Item{invalidItem}, plan.PriorityStandard,
			carrier.MetroStandard, validTotal(t), "acme", "user-1")

		require.Error(t, err)
	})

	t.Run("should fail with invalid priority", func(t *testing.T) {
		item := newItem(t, "SKU-1", 1, 5, plan.ItemFlags{})

		_, err := plan.NewDeliveryPlan(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			validAddress(t), []plan.Item{item}, plan.PriorityUnknown,
			carrier.MetroStandard, validTotal(t), "acme", "user-1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "priority")
	})

	t.Run("should fail with empty tenant", func(t *testing.T) {
		item := newItem(t, "SKU-1", 1, 5, plan.ItemFlags{})

		_, err := plan.NewDeliveryPlan(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			validAddress(t), []plan.Item{item}, plan.PriorityStandard,
			carrier.MetroStandard, validTotal(t), "", "user-1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "tenant")
	})
}

func TestDeliveryPlan_Validate(t *testing.T) {
	t.Run("zero value fails validation", func(t *testing.T) {
		var p plan.DeliveryPlan

		err := p.Validate()

		require.Error(t, err)
		assert.Equal(t, plan.ErrPlanIsNotConstructed, err)
	})

	t.Run("nil plan fails validation", func(t *testing.T) {
		var p *plan.DeliveryPlan

		err := p.Validate()

		require.Error(t, err)
		assert.Equal(t, plan.ErrPlanIsNotConstructed, err)
	})
}

func TestDeliveryPlan_Aggregates(t *testing.T) {
	t.Run("weight is sum of line weights", func(t *testing.T) {
		items := []plan.Item{
			newItem(t, "SKU-1", 2, 10, plan.ItemFlags{}), // 20
			newItem(t, "SKU-2", 3, 1.5, plan.ItemFlags{}), // 4.5
		}

		p := newPlan(t, items, plan.PriorityStandard)

		assert.InDelta(t, 24.5, p.TotalWeight(), 1e-9)
	})

	t.Run("volume is sum of line volumes", func(t *testing.T) {
		// each unit is 2x3x4 = 24
		items := []plan.Item{
			newItem(t, "SKU-1", 2, 10, plan.ItemFlags{}), // 48
			newItem(t, "SKU-2", 1, 1, plan.ItemFlags{}),  // 24
		}

		p := newPlan(t, items, plan.PriorityStandard)

		assert.InDelta(t, 72, p.TotalVolume(), 1e-9)
	})

	t.Run("special requirements are union of item flags", func(t *testing.T) {
		items := []plan.Item{
			newItem(t, "SKU-1", 1, 1, plan.ItemFlags{Fragile: true}),
			newItem(t, "SKU-2", 1, 1, plan.ItemFlags{Fragile: true, SignatureRequired: true}),
			newItem(t, "SKU-3", 1, 1, plan.ItemFlags{TemperatureControlled: true}),
		}

		p := newPlan(t, items, plan.PriorityStandard)

		assert.Equal(t, []plan.SpecialRequirement{
			plan.RequirementFragileHandling,
			plan.RequirementTemperatureControlled,
			plan.RequirementSignatureRequired,
		}, p.SpecialRequirements())
	})

	t.Run("recomputation is idempotent", func(t *testing.T) {
		items := []plan.Item{newItem(t, "SKU-1", 2, 10, plan.ItemFlags{Fragile: true})}

		p := newPlan(t, items, plan.PriorityStandard)

		first := p.SpecialRequirements()
		second := p.SpecialRequirements()
		assert.Equal(t, first, second)
		assert.InDelta(t, p.TotalWeight(), p.TotalWeight(), 0)
	})

	t.Run("empty requirement set for plain items", func(t *testing.T) {
		p := newPlan(t, []plan.Item{newItem(t, "SKU-1", 1, 1, plan.ItemFlags{})}, plan.PriorityStandard)

		assert.Empty(t, p.SpecialRequirements())
		assert.False(t, p.RequiresFragileHandling())
	})
}

func TestDeliveryPlan_Items_ReturnsCopy(t *testing.T) {
	items := []plan.Item{
		newItem(t, "SKU-1", 1, 1, plan.ItemFlags{}),
		newItem(t, "SKU-2", 1, 1, plan.ItemFlags{}),
	}
	p := newPlan(t, items, plan.PriorityStandard)

	got := p.Items()
	got[0] = got[1]

	assert.Equal(t, "SKU-1", p.Items()[0].SKU())
}

func TestDeliveryPlan_IsEqual(t *testing.T) {
	item := newItem(t, "SKU-1", 1, 1, plan.ItemFlags{})
	p1 := newPlan(t, []plan.Item{item}, plan.PriorityStandard)
	p2 := newPlan(t, []plan.Item{item}, plan.PriorityStandard)

	assert.True(t, p1.IsEqual(p1))
	assert.False(t, p1.IsEqual(p2))
	assert.False(t, p1.IsEqual(nil))
}
