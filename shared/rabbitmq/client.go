package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Channel is the part of *amqp.Channel the client uses, so tests can fake it.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Close() error
}

// JobHandler processes one delivery body. An error dead-letters the message.
type JobHandler func(ctx context.Context, body []byte) error

type RabbitmqClient struct {
	conn *amqp.Connection // nil when built around an injected channel
	chn  Channel
	log  *zap.Logger
}

// NewClient dials the broker and opens one channel on the connection.
func NewClient(url string, log *zap.Logger) (*RabbitmqClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	c := NewClientWithChannel(chn, log)
	c.conn = conn
	return c, nil
}

// NewClientWithChannel wraps an already open (or fake) channel.
func NewClientWithChannel(chn Channel, log *zap.Logger) *RabbitmqClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &RabbitmqClient{chn: chn, log: log}
}

// Close cleans up the channel and then the connection.
func (r *RabbitmqClient) Close() error {
	if err := r.chn.Close(); err != nil {
		return err
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// CreateQueue declares a durable queue.
func (r *RabbitmqClient) CreateQueue(queueName string) error {
	_, err := r.chn.QueueDeclare(
		queueName, // name of queue
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	return err
}

// CreateQueueWithDLQ declares deadLetter first and then queueName routed to
// it, so rejected jobs are parked instead of lost.
func (r *RabbitmqClient) CreateQueueWithDLQ(queueName, deadLetter string) error {
	if err := r.CreateQueue(deadLetter); err != nil {
		return fmt.Errorf("declare %s: %w", deadLetter, err)
	}
	_, err := r.chn.QueueDeclare(queueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": deadLetter,
	})
	if err != nil {
		return fmt.Errorf("declare %s: %w", queueName, err)
	}
	return nil
}

// Publish sends a persistent JSON message to a queue.
func (r *RabbitmqClient) Publish(ctx context.Context, queueName string, body []byte) error {
	return r.chn.PublishWithContext(
		ctx,
		"",        // default exchange
		queueName, // routing key is the queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// PublishJSON marshals v and publishes it.
func (r *RabbitmqClient) PublishJSON(ctx context.Context, queueName string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return r.Publish(ctx, queueName, b)
}

// Consume starts delivering messages from a queue with manual acks.
func (r *RabbitmqClient) Consume(queueName string) (<-chan amqp.Delivery, error) {
	if err := r.chn.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}
	msgs, err := r.chn.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Drain hands each delivery of queueName to handler until ctx is cancelled
// or the channel closes. Handled messages are acked; failed ones are
// rejected without requeue.
func (r *RabbitmqClient) Drain(ctx context.Context, queueName string, handler JobHandler) error {
	msgs, err := r.Consume(queueName)
	if err != nil {
		return err
	}
	r.log.Info("rabbitmq worker started", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq: %s delivery channel closed", queueName)
			}
			if err := handler(ctx, d.Body); err != nil {
				r.log.Warn("job failed, dead-lettering", zap.String("queue", queueName), zap.Error(err))
				if nerr := d.Nack(false, false); nerr != nil {
					r.log.Error("nack failed", zap.Error(nerr))
				}
				continue
			}
			if aerr := d.Ack(false); aerr != nil {
				r.log.Error("ack failed", zap.Error(aerr))
			}
		}
	}
}
