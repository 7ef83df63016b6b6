package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelDeliveryCommandIsNotConstructed = errors.New(
	"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
)

// CancelDeliveryCommand represents a request to cancel a delivery from any
// non-terminal state.
type CancelDeliveryCommand struct { //nolint:recvcheck //using for validation
	scheduleID kernel.UUID
	reason     string
	tenant     kernel.Tenant
	actor      kernel.Actor

	guard guard.ConstructorGuard
}

// NewCancelDeliveryCommand creates a command to cancel a delivery.
// The reason ends up in the tracking history, so it is required.
func NewCancelDeliveryCommand(
	scheduleID kernel.UUID,
	reason string,
	tenant kernel.Tenant,
	actor kernel.Actor,
) (CancelDeliveryCommand, error) {
	cmd := CancelDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setScheduleID(scheduleID),
		cmd.setReason(reason),
		cmd.setTenant(tenant),
		cmd.setActor(actor),
	); err != nil {
		return CancelDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}

// ScheduleID returns the identifier of the schedule to cancel.
func (c CancelDeliveryCommand) ScheduleID() kernel.UUID {
	return c.scheduleID
}

// Reason returns the stated cancellation reason.
func (c CancelDeliveryCommand) Reason() string {
	return c.reason
}

// Tenant returns the owning tenant.
func (c CancelDeliveryCommand) Tenant() kernel.Tenant {
	return c.tenant
}

// Actor returns the cancelling user.
func (c CancelDeliveryCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *CancelDeliveryCommand) setScheduleID(scheduleID kernel.UUID) error {
	if err := scheduleID.Validate(); err != nil {
		return err
	}
	c.scheduleID = scheduleID
	return nil
}

func (c *CancelDeliveryCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("cancellation reason")
	}
	c.reason = reason
	return nil
}

func (c *CancelDeliveryCommand) setTenant(tenant kernel.Tenant) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}

func (c *CancelDeliveryCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
