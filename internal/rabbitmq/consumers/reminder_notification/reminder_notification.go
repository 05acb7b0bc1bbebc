package remindernotification

import (
	"context"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

type Channel interface {
	Consume(
		queue, consumer string,
		autoAck, exclusive, noLocal, noWait bool,
		args amqp091.Table,
	) (<-chan amqp091.Delivery, error)
}

// Consumer delivers queued notifications with the sender. Every message is
// acknowledged: a failed delivery is logged and never retried.
type Consumer struct {
	log     logging.Logger
	channel Channel
	queue   string
	sender  reminder.Sender
}

func New(
	log logging.Logger,
	channel Channel,
	queue string,
	sender reminder.Sender,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}

	return &Consumer{log: log, channel: channel, queue: queue, sender: sender}
}

// Consume handles deliveries in a background goroutine. The returned channel
// is closed once the delivery stream ends.
func (c *Consumer) Consume(ctx context.Context) (<-chan struct{}, error) {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(ctx, "Could not start consuming.", logging.Entry("err", err))
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for delivery := range deliveries {
			c.Handle(ctx, delivery)
		}
	}()
	return done, nil
}

func (c *Consumer) Handle(ctx context.Context, delivery amqp091.Delivery) {
	defer c.Ack(ctx, delivery)

	notification := &schema.Notification{}
	if err := notification.Unmarshal(delivery.Body); err != nil {
		c.log.Error(
			ctx,
			"Could not unmarshal notification.",
			logging.Entry("err", err),
			logging.Entry("body", string(delivery.Body)),
		)
		return
	}

	c.log.Info(ctx, "Got notification.", logging.Entry("reminderID", notification.ReminderID))
	if err := c.sender.SendReminder(ctx, notification.Reminder()); err != nil {
		c.log.Error(
			ctx,
			"Could not send notification.",
			logging.Entry("reminderID", notification.ReminderID),
			logging.Entry("err", err),
		)
	}
}

func (c *Consumer) Ack(ctx context.Context, delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(ctx, "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}
