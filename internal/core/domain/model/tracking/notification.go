package tracking

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Channel is the medium a customer notification goes out on.
type Channel int

const (
	// ChannelUnknown represents an invalid or undefined channel.
	ChannelUnknown Channel = iota

	// ChannelSMS delivers via text message.
	ChannelSMS

	// ChannelEmail delivers via email.
	ChannelEmail

	// ChannelPush delivers via mobile push.
	ChannelPush

	// ChannelWebhook delivers to a customer-registered endpoint.
	ChannelWebhook
)

func getChannelStrings() map[Channel]string {
	//nolint:exhaustive // ChannelUnknown is intentionally excluded as it's invalid
	return map[Channel]string{
		ChannelSMS:     "SMS",
		ChannelEmail:   "EMAIL",
		ChannelPush:    "PUSH",
		ChannelWebhook: "WEBHOOK",
	}
}

// Validate checks if the Channel value is valid.
func (c Channel) Validate() error {
	if _, ok := getChannelStrings()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("channel",
			fmt.Errorf("%d is not a valid channel", c))
	}
	return nil
}

// String returns the wire representation of the channel.
func (c Channel) String() string {
	if str, ok := getChannelStrings()[c]; ok {
		return str
	}
	return "UNKNOWN"
}

// ChannelFromString parses a channel from its wire representation.
func ChannelFromString(str string) (Channel, error) {
	for channel, s := range getChannelStrings() {
		if s == str {
			return channel, nil
		}
	}
	return ChannelUnknown, errs.NewValueIsInvalidErrorWithCause("channel",
		fmt.Errorf("%q is not a valid channel", str))
}

// NotificationStatus records whether a notification actually went out.
type NotificationStatus int

const (
	// NotificationUnknown represents an invalid or undefined notification status.
	NotificationUnknown NotificationStatus = iota

	// NotificationSent means the sender acknowledged delivery.
	NotificationSent

	// NotificationFailed means the send failed. Failed sends are recorded,
	// never silently dropped.
	NotificationFailed
)

func getNotificationStatusStrings() map[NotificationStatus]string {
	//nolint:exhaustive // NotificationUnknown is intentionally excluded as it's invalid
	return map[NotificationStatus]string{
		NotificationSent:   "SENT",
		NotificationFailed: "FAILED",
	}
}

// Validate checks if the NotificationStatus value is valid.
func (s NotificationStatus) Validate() error {
	if _, ok := getNotificationStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("notification status",
			fmt.Errorf("%d is not a valid notification status", s))
	}
	return nil
}

// String returns the wire representation of the notification status.
func (s NotificationStatus) String() string {
	if str, ok := getNotificationStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// NotificationStatusFromString parses a notification status from its wire representation.
func NotificationStatusFromString(str string) (NotificationStatus, error) {
	for status, s := range getNotificationStatusStrings() {
		if s == str {
			return status, nil
		}
	}
	return NotificationUnknown, errs.NewValueIsInvalidErrorWithCause("notification status",
		fmt.Errorf("%q is not a valid notification status", str))
}

// CustomerNotification is the record of one attempted customer message,
// successful or not.
type CustomerNotification struct {
	id          kernel.UUID
	channel     Channel
	recipient   string
	message     string
	aboutStatus TrackingStatus
	status      NotificationStatus
	sentAt      time.Time
}

// NewCustomerNotification records a notification attempt about the given
// tracking status.
func NewCustomerNotification(
	id kernel.UUID,
	channel Channel,
	recipient string,
	message string,
	aboutStatus TrackingStatus,
	status NotificationStatus,
	sentAt time.Time,
) (CustomerNotification, error) {
	if err := id.Validate(); err != nil {
		return CustomerNotification{}, err
	}
	if err := channel.Validate(); err != nil {
		return CustomerNotification{}, err
	}
	if err := aboutStatus.Validate(); err != nil {
		return CustomerNotification{}, err
	}
	if err := status.Validate(); err != nil {
		return CustomerNotification{}, err
	}
	if recipient == "" {
		return CustomerNotification{}, errs.NewValueIsRequiredError("recipient")
	}
	if sentAt.IsZero() {
		return CustomerNotification{}, errs.NewValueIsRequiredError("sent at")
	}

	return CustomerNotification{
		id:          id,
		channel:     channel,
		recipient:   recipient,
		message:     message,
		aboutStatus: aboutStatus,
		status:      status,
		sentAt:      sentAt,
	}, nil
}

// ID returns the notification's unique identifier.
func (n CustomerNotification) ID() kernel.UUID { return n.id }

// Channel returns the medium the notification used.
func (n CustomerNotification) Channel() Channel { return n.channel }

// Recipient returns who the notification was addressed to.
func (n CustomerNotification) Recipient() string { return n.recipient }

// Message returns the notification body.
func (n CustomerNotification) Message() string { return n.message }

// AboutStatus returns the tracking status the notification announced.
func (n CustomerNotification) AboutStatus() TrackingStatus { return n.aboutStatus }

// Status returns whether the send succeeded.
func (n CustomerNotification) Status() NotificationStatus { return n.status }

// SentAt returns when the send was attempted.
func (n CustomerNotification) SentAt() time.Time { return n.sentAt }
