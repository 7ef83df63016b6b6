package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/confirmation"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
		"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
	)
	ErrConfirmationItemsAreRequired = errs.NewValueIsRequiredError("confirmation items")
)

// ConfirmDeliveryCommand represents a request to record the terminal
// confirmation of a delivered shipment.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	confirmationID   kernel.UUID
	scheduleID       kernel.UUID
	items            []confirmation.Item
	customerFeedback string
	tenant           kernel.Tenant
	actor            kernel.Actor

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a command to confirm a delivery.
// Customer feedback is optional; items are not.
func NewConfirmDeliveryCommand(
	confirmationID kernel.UUID,
	scheduleID kernel.UUID,
	items []confirmation.Item,
	customerFeedback string,
	tenant kernel.Tenant,
	actor kernel.Actor,
) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		customerFeedback: customerFeedback,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setConfirmationID(confirmationID),
		cmd.setScheduleID(scheduleID),
		cmd.setItems(items),
		cmd.setTenant(tenant),
		cmd.setActor(actor),
	); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// ConfirmationID returns the identifier the new confirmation will carry.
func (c ConfirmDeliveryCommand) ConfirmationID() kernel.UUID {
	return c.confirmationID
}

// ScheduleID returns the identifier of the schedule being confirmed.
func (c ConfirmDeliveryCommand) ScheduleID() kernel.UUID {
	return c.scheduleID
}

// Items returns a copy of the per-item delivery outcomes.
func (c ConfirmDeliveryCommand) Items() []confirmation.Item {
	items := make([]confirmation.Item, len(c.items))
	copy(items, c.items)
	return items
}

// CustomerFeedback returns the captured feedback, or empty.
func (c ConfirmDeliveryCommand) CustomerFeedback() string {
	return c.customerFeedback
}

// Tenant returns the owning tenant.
func (c ConfirmDeliveryCommand) Tenant() kernel.Tenant {
	return c.tenant
}

// Actor returns the confirming user.
func (c ConfirmDeliveryCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *ConfirmDeliveryCommand) setConfirmationID(confirmationID kernel.UUID) error {
	if err := confirmationID.Validate(); err != nil {
		return err
	}
	c.confirmationID = confirmationID
	return nil
}

func (c *ConfirmDeliveryCommand) setScheduleID(scheduleID kernel.UUID) error {
	if err := scheduleID.Validate(); err != nil {
		return err
	}
	c.scheduleID = scheduleID
	return nil
}

func (c *ConfirmDeliveryCommand) setItems(items []confirmation.Item) error {
	if len(items) == 0 {
		return ErrConfirmationItemsAreRequired
	}
	c.items = make([]confirmation.Item, len(items))
	copy(c.items, items)
	return nil
}

func (c *ConfirmDeliveryCommand) setTenant(tenant kernel.Tenant) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}

func (c *ConfirmDeliveryCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
