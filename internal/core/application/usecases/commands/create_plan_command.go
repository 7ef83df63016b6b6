package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/plan"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreatePlanCommandIsNotConstructed = errors.New(
		"CreatePlanCommand must be created via NewCreatePlanCommand constructor",
	)
	ErrPlanItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// CreatePlanCommand represents a request to create a delivery plan from
// resolved order data. The caller (the order collaborator's request layer)
// has already resolved the order into shippable items.
type CreatePlanCommand struct { //nolint:recvcheck //using for validation
	planID      kernel.UUID
	orderID     kernel.UUID
	customerID  kernel.UUID
	destination kernel.Address
	items       []plan.Item
	priority    plan.Priority
	total       kernel.Money
	tenant      kernel.Tenant
	actor       kernel.Actor

	guard guard.ConstructorGuard
}

// NewCreatePlanCommand creates a command to build a delivery plan.
// Requires at least one item; all identities and the destination must be valid.
func NewCreatePlanCommand(
	planID kernel.UUID,
	orderID kernel.UUID,
	customerID kernel.UUID,
	destination kernel.Address,
	items []plan.Item,
	priority plan.Priority,
	total kernel.Money,
	tenant kernel.Tenant,
	actor kernel.Actor,
) (CreatePlanCommand, error) {
	cmd := CreatePlanCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPlanID(planID),
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setDestination(destination),
		cmd.setItems(items),
		cmd.setPriority(priority),
		cmd.setTotal(total),
		cmd.setTenant(tenant),
		cmd.setActor(actor),
	); err != nil {
		return CreatePlanCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreatePlanCommand) Validate() error {
	return c.guard.Validate(ErrCreatePlanCommandIsNotConstructed)
}

// PlanID returns the identifier the new plan will carry.
func (c CreatePlanCommand) PlanID() kernel.UUID {
	return c.planID
}

// OrderID returns the identifier of the order being planned.
func (c CreatePlanCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the identifier of the receiving customer.
func (c CreatePlanCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Destination returns the delivery destination.
func (c CreatePlanCommand) Destination() kernel.Address {
	return c.destination
}

// Items returns a copy of the shippable items.
func (c CreatePlanCommand) Items() []plan.Item {
	items := make([]plan.Item, len(c.items))
	copy(items, c.items)
	return items
}

// Priority returns the requested urgency class.
func (c CreatePlanCommand) Priority() plan.Priority {
	return c.priority
}

// Total returns the monetary total of the shipped goods.
func (c CreatePlanCommand) Total() kernel.Money {
	return c.total
}

// Tenant returns the owning tenant.
func (c CreatePlanCommand) Tenant() kernel.Tenant {
	return c.tenant
}

// Actor returns the acting user.
func (c CreatePlanCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *CreatePlanCommand) setPlanID(planID kernel.UUID) error {
	if err := planID.Validate(); err != nil {
		return err
	}
	c.planID = planID
	return nil
}

func (c *CreatePlanCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreatePlanCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *CreatePlanCommand) setDestination(destination kernel.Address) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	c.destination = destination
	return nil
}

func (c *CreatePlanCommand) setItems(items []plan.Item) error {
	if len(items) == 0 {
		return ErrPlanItemsAreRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	c.items = make([]plan.Item, len(items))
	copy(c.items, items)
	return nil
}

func (c *CreatePlanCommand) setPriority(priority plan.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	c.priority = priority
	return nil
}

func (c *CreatePlanCommand) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	c.total = total
	return nil
}

func (c *CreatePlanCommand) setTenant(tenant kernel.Tenant) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}

func (c *CreatePlanCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
