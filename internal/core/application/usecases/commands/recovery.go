package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
)

const (
	// redeliveryDelay is how far a redelivery attempt is pushed out when the
	// customer was unavailable.
	redeliveryDelay = 24 * time.Hour

	// weatherDelayPush is how far the estimate moves forward on a weather delay.
	weatherDelayPush = 6 * time.Hour
)

// recover runs the recovery procedure for a newly opened exception. Recovery
// is keyed by exception type and runs synchronously within the refresh, but
// its failure never aborts the refresh itself.
//
//   - CUSTOMER_UNAVAILABLE: push the estimate out one day as a redelivery
//     attempt, notify the customer, and resolve the exception.
//   - ADDRESS_ISSUE: ask the customer to confirm the address; the exception
//     stays open so delivery is not retried until it is resolved.
//   - WEATHER_DELAY: push the estimate forward and notify; the exception
//     stays open while the carrier keeps reporting the delay.
//   - everything else: record only, no automated action.
func (h *RefreshTrackingCommandHandler) recover(
	ctx context.Context,
	cmd RefreshTrackingCommand,
	deliverySchedule *schedule.DeliverySchedule,
	deliveryStatus *tracking.DeliveryStatus,
	exception tracking.DeliveryException,
	recipient string,
) error {
	switch exception.Type() {
	case tracking.ExceptionCustomerUnavailable:
		return h.scheduleRedelivery(ctx, cmd, deliverySchedule, deliveryStatus, exception, recipient)
	case tracking.ExceptionAddressIssue:
		return h.requestAddressConfirmation(ctx, cmd, deliveryStatus, recipient)
	case tracking.ExceptionWeatherDelay:
		return h.pushEstimateForWeather(ctx, cmd, deliverySchedule, deliveryStatus, recipient)
	default:
		return nil
	}
}

func (h *RefreshTrackingCommandHandler) scheduleRedelivery(
	ctx context.Context,
	cmd RefreshTrackingCommand,
	deliverySchedule *schedule.DeliverySchedule,
	deliveryStatus *tracking.DeliveryStatus,
	exception tracking.DeliveryException,
	recipient string,
) error {
	revised := deliveryStatus.EstimatedDelivery().Add(redeliveryDelay)
	if err := deliveryStatus.ReviseEstimatedDelivery(revised); err != nil {
		return err
	}
	if !deliverySchedule.Status().IsTerminal() {
		if err := deliverySchedule.ReviseEstimatedDelivery(revised); err != nil {
			return err
		}
	}

	resolution := fmt.Sprintf("redelivery scheduled for %s", revised.Format("2006-01-02"))
	if err := deliveryStatus.ResolveException(exception.ID(), resolution, time.Now().UTC()); err != nil {
		return err
	}

	message := fmt.Sprintf("We missed you. Your delivery %s will be reattempted around %s",
		deliveryStatus.TrackingNumber(), revised.Format("2006-01-02 15:04"))
	return h.notify(ctx, cmd.NotifyChannel(), recipient, message, deliveryStatus.CurrentStatus(), deliveryStatus)
}

func (h *RefreshTrackingCommandHandler) requestAddressConfirmation(
	ctx context.Context,
	cmd RefreshTrackingCommand,
	deliveryStatus *tracking.DeliveryStatus,
	recipient string,
) error {
	message := fmt.Sprintf("There is a problem with the address for delivery %s. "+
		"Please confirm your delivery address", deliveryStatus.TrackingNumber())
	return h.notify(ctx, cmd.NotifyChannel(), recipient, message, deliveryStatus.CurrentStatus(), deliveryStatus)
}

func (h *RefreshTrackingCommandHandler) pushEstimateForWeather(
	ctx context.Context,
	cmd RefreshTrackingCommand,
	deliverySchedule *schedule.DeliverySchedule,
	deliveryStatus *tracking.DeliveryStatus,
	recipient string,
) error {
	revised := deliveryStatus.EstimatedDelivery().Add(weatherDelayPush)
	if err := deliveryStatus.ReviseEstimatedDelivery(revised); err != nil {
		return err
	}
	if !deliverySchedule.Status().IsTerminal() {
		if err := deliverySchedule.ReviseEstimatedDelivery(revised); err != nil {
			return err
		}
	}

	message := fmt.Sprintf("Your delivery %s is delayed by weather; new estimate %s",
		deliveryStatus.TrackingNumber(), revised.Format("2006-01-02 15:04"))
	return h.notify(ctx, cmd.NotifyChannel(), recipient, message, deliveryStatus.CurrentStatus(), deliveryStatus)
}
