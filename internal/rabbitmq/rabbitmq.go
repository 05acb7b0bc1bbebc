package rabbitmq

import (
	"context"
	"fmt"
	"ponger/internal/core/domain/logging"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RECONNECT_DELAY = 3 * time.Second

// Connection is an amqp.Connection that redials after the broker closes it.
type Connection struct {
	log  logging.Logger
	lock sync.RWMutex
	conn *amqp.Connection
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		return nil, fmt.Errorf("log argument must not be nil")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	connection := &Connection{conn: conn, log: log}
	go connection.reconnect(url)
	return connection, nil
}

func (c *Connection) reconnect(url string) {
	for {
		reason, ok := <-c.current().NotifyClose(make(chan *amqp.Error, 1))
		if !ok {
			c.log.Info(context.Background(), "RabbitMQ connection closed.")
			return
		}

		c.log.Warning(context.Background(), "RabbitMQ connection closed.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(RECONNECT_DELAY)

			conn, err := amqp.Dial(url)
			if err == nil {
				c.lock.Lock()
				c.conn = conn
				c.lock.Unlock()
				c.log.Info(context.Background(), "RabbitMQ reconnect success.")
				break
			}
			c.log.Error(context.Background(), "RabbitMQ reconnect failed.", logging.Entry("err", err))
		}
	}
}

func (c *Connection) current() *amqp.Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	return c.current().Close()
}

// Channel opens a channel that is recreated whenever the broker closes it.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}

	channel := &Channel{channel: ch, log: c.log}
	go func() {
		for {
			reason, ok := <-channel.current().NotifyClose(make(chan *amqp.Error, 1))
			if !ok || channel.IsClosed() {
				channel.Close()
				return
			}

			c.log.Warning(context.Background(), "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))
			for {
				time.Sleep(RECONNECT_DELAY)

				ch, err := c.current().Channel()
				if err == nil {
					if err := channel.replace(ch); err != nil {
						c.log.Error(context.Background(), "Queue redeclare failed.", logging.Entry("err", err))
					}
					c.log.Info(context.Background(), "Channel recreate success.")
					break
				}
				c.log.Error(context.Background(), "Channel recreate failed.", logging.Entry("err", err))
			}
		}
	}()

	return channel, nil
}

// amqpChannel is the part of *amqp.Channel the wrapper relies on.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	Close() error
}

type Channel struct {
	log     logging.Logger
	closed  int32
	lock    sync.RWMutex
	channel amqpChannel
	queues  []string
}

func (ch *Channel) current() amqpChannel {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	return ch.channel
}

// replace switches to a recreated channel and declares on it every queue
// declared before. A fresh broker has none of them.
func (ch *Channel) replace(next amqpChannel) error {
	ch.lock.Lock()
	defer ch.lock.Unlock()
	ch.channel = next
	for _, name := range ch.queues {
		if _, err := next.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("could not declare queue %q: %w", name, err)
		}
	}
	return nil
}

// IsClosed reports whether Close has been called.
func (ch *Channel) IsClosed() bool {
	return atomic.LoadInt32(&ch.closed) == 1
}

func (ch *Channel) Close() error {
	if !atomic.CompareAndSwapInt32(&ch.closed, 0, 1) {
		return amqp.ErrClosed
	}
	return ch.current().Close()
}

// DeclareQueue declares a durable queue. The queue is declared again each
// time the channel is recreated.
func (ch *Channel) DeclareQueue(name string) error {
	ch.lock.Lock()
	defer ch.lock.Unlock()
	if _, err := ch.channel.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return err
	}
	for _, queue := range ch.queues {
		if queue == name {
			return nil
		}
	}
	ch.queues = append(ch.queues, name)
	return nil
}

func (ch *Channel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	return ch.current().PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

// Consume returns deliveries that keep flowing across channel recreation
// until Close is called.
func (ch *Channel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)

	go func() {
		defer close(deliveries)
		for {
			d, err := ch.current().Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
			if err != nil {
				if ch.IsClosed() {
					return
				}
				ch.log.Error(context.Background(), "Consume failed.", logging.Entry("err", err))
				time.Sleep(RECONNECT_DELAY)
				continue
			}

			for msg := range d {
				deliveries <- msg
			}

			// The closed flag may be set after the delivery channel is drained.
			time.Sleep(RECONNECT_DELAY)

			if ch.IsClosed() {
				ch.log.Info(context.Background(), "Channel is closed, stop consuming.", logging.Entry("queue", queue))
				return
			}
		}
	}()

	return deliveries, nil
}
