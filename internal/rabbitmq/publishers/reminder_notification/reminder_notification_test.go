package remindernotification

import (
	"context"
	"errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type published struct {
	Exchange string
	Key      string
	Msg      amqp091.Publishing
}

type fakeChannel struct {
	published []published
	err       error
}

func (c *fakeChannel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp091.Publishing,
) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, published{Exchange: exchange, Key: key, Msg: msg})
	return nil
}

func TestSendReminderPublishesNotification(t *testing.T) {
	// Setup ---
	channel := &fakeChannel{}
	publisher := NewRabbitMQ(logging.NewFakeLogger(), channel, "", "notifications")

	// Exercise ---
	err := publisher.SendReminder(context.Background(), reminder.Reminder{
		ID:          reminder.ID(1),
		Message:     "30 Hi",
		DueAt:       reminder.Timestamp(1_030),
		RecipientID: reminder.RecipientID(42),
		Sent:        true,
	})

	// Verify ---
	assert := require.New(t)
	assert.Nil(err)
	assert.Len(channel.published, 1)
	assert.Equal("", channel.published[0].Exchange)
	assert.Equal("notifications", channel.published[0].Key)
	assert.Equal("application/json", channel.published[0].Msg.ContentType)
	assert.Equal(amqp091.Persistent, channel.published[0].Msg.DeliveryMode)
	assert.JSONEq(
		`{"reminder_id":1,"message":"30 Hi","recipient_id":42,"due_at":1030}`,
		string(channel.published[0].Msg.Body),
	)
}

func TestSendReminderReturnsPublishError(t *testing.T) {
	channel := &fakeChannel{err: errors.New("channel closed")}
	log := logging.NewFakeLogger()
	publisher := NewRabbitMQ(log, channel, "", "notifications")

	err := publisher.SendReminder(context.Background(), reminder.Reminder{ID: reminder.ID(1)})

	assert := require.New(t)
	assert.ErrorIs(err, channel.err)
	assert.Equal(1, log.CountLevel(logging.ERROR))
}

func TestNilArgumentsPanic(t *testing.T) {
	assert := require.New(t)
	assert.Panics(func() { NewRabbitMQ(nil, &fakeChannel{}, "", "q") })
	assert.Panics(func() { NewRabbitMQ(logging.NewFakeLogger(), nil, "", "q") })
}
