// Package notification provides the RabbitMQ adapter for customer
// notifications. Messages are published with publisher confirms so a SENT
// receipt means the broker has taken ownership of the message.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPublishNotConfirmed indicates the broker nacked or never confirmed the
// publication within the timeout.
var ErrPublishNotConfirmed = errors.New("notification publish was not confirmed by the broker")

// AMQPNotificationSender implements NotificationSender over a RabbitMQ topic
// exchange. Routing keys carry the channel ("notification.EMAIL"), so
// channel-specific consumers bind only what they deliver.
type AMQPNotificationSender struct {
	ch       *amqp.Channel
	acks     <-chan amqp.Confirmation
	exchange string
	timeout  time.Duration

	// confirms arrive in publish order; publishes are serialized so each
	// confirmation can be matched to its message.
	mu sync.Mutex
}

type notificationMessage struct {
	MessageID string    `json:"message_id"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

// NewAMQPNotificationSender opens a confirming channel on the given
// connection and declares the notification exchange.
func NewAMQPNotificationSender(
	conn *amqp.Connection, exchange string, timeout time.Duration,
) (*AMQPNotificationSender, error) {
	if exchange == "" {
		return nil, errs.NewValueIsRequiredError("exchange")
	}
	if timeout <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("timeout",
			fmt.Errorf("%s is not a positive duration", timeout))
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, err
	}

	return &AMQPNotificationSender{
		ch:       ch,
		acks:     ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		exchange: exchange,
		timeout:  timeout,
	}, nil
}

// Send publishes the message and waits for the broker's confirm. The
// returned receipt is the message ID stamped on the publication.
func (s *AMQPNotificationSender) Send(
	ctx context.Context, channel tracking.Channel, recipient, message string,
) (string, error) {
	if err := channel.Validate(); err != nil {
		return "", err
	}
	if recipient == "" {
		return "", errs.NewValueIsRequiredError("recipient")
	}
	if message == "" {
		return "", errs.NewValueIsRequiredError("message")
	}

	messageID := uuid.NewString()
	body, err := json.Marshal(notificationMessage{
		MessageID: messageID,
		Channel:   channel.String(),
		Recipient: recipient,
		Message:   message,
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	routingKey := "notification." + channel.String()
	err = s.ch.PublishWithContext(ctx, s.exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    messageID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return "", fmt.Errorf("publish notification: %w", err)
	}

	select {
	case confirmation := <-s.acks:
		if !confirmation.Ack {
			return "", ErrPublishNotConfirmed
		}
		return messageID, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrPublishNotConfirmed, ctx.Err())
	}
}

// Close releases the channel. The connection is owned by the caller.
func (s *AMQPNotificationSender) Close() error {
	return s.ch.Close()
}
