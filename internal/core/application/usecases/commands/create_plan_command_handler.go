package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/plan"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// CreatePlanCommandHandler handles the business logic for plan creation.
// Runs the carrier suggestion rule over the aggregated item figures and
// persists the plan together with its audit event; a failed audit event
// fails the whole call and no plan becomes visible.
type CreatePlanCommandHandler struct {
	uowFactory PlanUoWFactory
	selector   services.CarrierSelector
	audit      ports.AuditSink
}

// NewCreatePlanCommandHandler creates a handler for plan creation operations.
func NewCreatePlanCommandHandler(
	uowFactory PlanUoWFactory,
	selector services.CarrierSelector,
	audit ports.AuditSink,
) CreatePlanCommandHandler {
	return CreatePlanCommandHandler{
		uowFactory: uowFactory,
		selector:   selector,
		audit:      audit,
	}
}

// Handle processes the plan creation command.
// The suggested carrier is computed from the item aggregates before the plan
// is constructed, so the plan records the suggestion it was created with.
func (h *CreatePlanCommandHandler) Handle(ctx context.Context, cmd CreatePlanCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items := cmd.Items()
	totalWeight, requirements := aggregateItems(items)

	suggestedCarrier, err := h.selector.Suggest(cmd.Priority(), totalWeight, requirements)
	if err != nil {
		return err
	}

	deliveryPlan, err := plan.NewDeliveryPlan(
		cmd.PlanID(),
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.Destination(),
		items,
		cmd.Priority(),
		suggestedCarrier,
		cmd.Total(),
		cmd.Tenant(),
		cmd.Actor(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PlanRepository().Add(ctx, deliveryPlan); err != nil {
		return err
	}

	// A plan whose audit event was not recorded is not considered created.
	if err = h.audit.LogEvent(ctx, "delivery_plan.created", map[string]any{
		"plan_id":           deliveryPlan.ID().String(),
		"order_id":          deliveryPlan.OrderID().String(),
		"total_weight":      deliveryPlan.TotalWeight(),
		"suggested_carrier": deliveryPlan.SuggestedCarrier().Code(),
		"priority":          deliveryPlan.Priority().String(),
	}, cmd.Tenant(), cmd.Actor()); err != nil {
		return fmt.Errorf("audit event for plan %s: %w", deliveryPlan.ID(), err)
	}

	return uow.Commit(ctx)
}

func aggregateItems(items []plan.Item) (float64, []plan.SpecialRequirement) {
	var totalWeight float64
	seen := make(map[plan.SpecialRequirement]bool)
	var requirements []plan.SpecialRequirement

	for _, item := range items {
		totalWeight += item.LineWeight()
		for _, r := range item.Requirements() {
			if !seen[r] {
				seen[r] = true
				requirements = append(requirements, r)
			}
		}
	}
	return totalWeight, requirements
}
