package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrScheduleDeliveryCommandIsNotConstructed = errors.New(
	"ScheduleDeliveryCommand must be created via NewScheduleDeliveryCommand constructor",
)

// ScheduleDeliveryCommand represents a request to commit a plan to a carrier:
// generate a tracking number, optimize a route, register the shipment, and
// open its tracking record.
type ScheduleDeliveryCommand struct { //nolint:recvcheck //using for validation
	scheduleID    kernel.UUID
	planID        kernel.UUID
	scheduledDate time.Time
	windowStart   time.Time
	windowEnd     time.Time
	notifyChannel tracking.Channel
	tenant        kernel.Tenant
	actor         kernel.Actor

	guard guard.ConstructorGuard
}

// NewScheduleDeliveryCommand creates a command to schedule a delivery. The
// window bounds are validated later by the TimeWindow constructor; here only
// presence is checked.
func NewScheduleDeliveryCommand(
	scheduleID kernel.UUID,
	planID kernel.UUID,
	scheduledDate time.Time,
	windowStart time.Time,
	windowEnd time.Time,
	notifyChannel tracking.Channel,
	tenant kernel.Tenant,
	actor kernel.Actor,
) (ScheduleDeliveryCommand, error) {
	cmd := ScheduleDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setScheduleID(scheduleID),
		cmd.setPlanID(planID),
		cmd.setScheduledDate(scheduledDate),
		cmd.setWindow(windowStart, windowEnd),
		cmd.setNotifyChannel(notifyChannel),
		cmd.setTenant(tenant),
		cmd.setActor(actor),
	); err != nil {
		return ScheduleDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ScheduleDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrScheduleDeliveryCommandIsNotConstructed)
}

// ScheduleID returns the identifier the new schedule will carry.
func (c ScheduleDeliveryCommand) ScheduleID() kernel.UUID {
	return c.scheduleID
}

// PlanID returns the identifier of the plan to schedule.
func (c ScheduleDeliveryCommand) PlanID() kernel.UUID {
	return c.planID
}

// ScheduledDate returns the date the shipment is planned for.
func (c ScheduleDeliveryCommand) ScheduledDate() time.Time {
	return c.scheduledDate
}

// WindowStart returns the opening of the delivery window.
func (c ScheduleDeliveryCommand) WindowStart() time.Time {
	return c.windowStart
}

// WindowEnd returns the closing of the delivery window.
func (c ScheduleDeliveryCommand) WindowEnd() time.Time {
	return c.windowEnd
}

// NotifyChannel returns the channel for the initial SCHEDULED notification.
func (c ScheduleDeliveryCommand) NotifyChannel() tracking.Channel {
	return c.notifyChannel
}

// Tenant returns the owning tenant.
func (c ScheduleDeliveryCommand) Tenant() kernel.Tenant {
	return c.tenant
}

// Actor returns the acting user.
func (c ScheduleDeliveryCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *ScheduleDeliveryCommand) setScheduleID(scheduleID kernel.UUID) error {
	if err := scheduleID.Validate(); err != nil {
		return err
	}
	c.scheduleID = scheduleID
	return nil
}

func (c *ScheduleDeliveryCommand) setPlanID(planID kernel.UUID) error {
	if err := planID.Validate(); err != nil {
		return err
	}
	c.planID = planID
	return nil
}

func (c *ScheduleDeliveryCommand) setScheduledDate(scheduledDate time.Time) error {
	if scheduledDate.IsZero() {
		return errs.NewValueIsRequiredError("scheduled date")
	}
	c.scheduledDate = scheduledDate
	return nil
}

func (c *ScheduleDeliveryCommand) setWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errs.NewValueIsRequiredError("delivery window")
	}
	c.windowStart = start
	c.windowEnd = end
	return nil
}

func (c *ScheduleDeliveryCommand) setNotifyChannel(channel tracking.Channel) error {
	if err := channel.Validate(); err != nil {
		return err
	}
	c.notifyChannel = channel
	return nil
}

func (c *ScheduleDeliveryCommand) setTenant(tenant kernel.Tenant) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}

func (c *ScheduleDeliveryCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
