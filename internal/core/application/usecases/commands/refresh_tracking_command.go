package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/guard"
)

var ErrRefreshTrackingCommandIsNotConstructed = errors.New(
	"RefreshTrackingCommand must be created via NewRefreshTrackingCommand constructor",
)

// RefreshTrackingCommand represents a request to pull the carrier's current
// view of a delivery and fold it into the canonical tracking record.
type RefreshTrackingCommand struct { //nolint:recvcheck //using for validation
	scheduleID    kernel.UUID
	notifyChannel tracking.Channel
	tenant        kernel.Tenant

	guard guard.ConstructorGuard
}

// NewRefreshTrackingCommand creates a command to refresh delivery tracking.
func NewRefreshTrackingCommand(
	scheduleID kernel.UUID,
	notifyChannel tracking.Channel,
	tenant kernel.Tenant,
) (RefreshTrackingCommand, error) {
	cmd := RefreshTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setScheduleID(scheduleID),
		cmd.setNotifyChannel(notifyChannel),
		cmd.setTenant(tenant),
	); err != nil {
		return RefreshTrackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RefreshTrackingCommand) Validate() error {
	return c.guard.Validate(ErrRefreshTrackingCommandIsNotConstructed)
}

// ScheduleID returns the identifier of the schedule to refresh.
func (c RefreshTrackingCommand) ScheduleID() kernel.UUID {
	return c.scheduleID
}

// NotifyChannel returns the channel for change-triggered notifications.
func (c RefreshTrackingCommand) NotifyChannel() tracking.Channel {
	return c.notifyChannel
}

// Tenant returns the owning tenant.
func (c RefreshTrackingCommand) Tenant() kernel.Tenant {
	return c.tenant
}

func (c *RefreshTrackingCommand) setScheduleID(scheduleID kernel.UUID) error {
	if err := scheduleID.Validate(); err != nil {
		return err
	}
	c.scheduleID = scheduleID
	return nil
}

func (c *RefreshTrackingCommand) setNotifyChannel(channel tracking.Channel) error {
	if err := channel.Validate(); err != nil {
		return err
	}
	c.notifyChannel = channel
	return nil
}

func (c *RefreshTrackingCommand) setTenant(tenant kernel.Tenant) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}
