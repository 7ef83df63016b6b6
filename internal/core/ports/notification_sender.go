package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/tracking"
)

// NotificationSender defines the contract for delivering status messages to
// customers. Sends are fire-and-forget from the orchestrator's perspective:
// a failed send never rolls back the status change that triggered it, but is
// recorded as a FAILED CustomerNotification entry.
type NotificationSender interface {
	// Send delivers a message over the given channel and returns the
	// sender's delivery receipt.
	Send(ctx context.Context, channel tracking.Channel, recipient, message string) (string, error)
}
