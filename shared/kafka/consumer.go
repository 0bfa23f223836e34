package kafka

import (
	"context"
	"time"

	skafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Reader is the subset of the segmentio reader the consumer needs.
type Reader interface {
	FetchMessage(ctx context.Context) (skafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Handler processes one message. A failed message is retried in place; later
// messages on the partition wait behind it.
type Handler func(ctx context.Context, key []byte, value []byte) error

// Consumer pulls messages for one consumer group.
type Consumer struct {
	reader       Reader
	log          *zap.Logger
	topic, group string
	// HandlerTimeout bounds a single handler call.
	HandlerTimeout time.Duration
	// RetryDelay is the pause after a fetch error and the first pause after a
	// handler error. Handler retries double it up to MaxRetryDelay.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// NewConsumer connects a reader for topic. The group id makes several
// replicas split the partitions instead of each reading everything.
func NewConsumer(brokers []string, topic, groupID string, log *zap.Logger) *Consumer {
	r := skafka.NewReader(skafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	c := NewConsumerWithReader(r, log)
	c.topic, c.group = topic, groupID
	return c
}

// NewConsumerWithReader allows injecting a test reader.
func NewConsumerWithReader(r Reader, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{reader: r, log: log, HandlerTimeout: 10 * time.Second, RetryDelay: time.Second, MaxRetryDelay: 30 * time.Second}
}

// Start runs until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, handler Handler) {
	c.log.Info("kafka consumer started", zap.String("topic", c.topic), zap.String("group", c.group))

	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn("kafka fetch failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.RetryDelay):
			}
			continue
		}

		// group offsets are cumulative: committing a later message would
		// skip this one, so it is not left behind
		if !c.handle(ctx, m, handler) {
			return
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.log.Error("kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}

// handle runs handler on m until it succeeds. It returns false only when ctx
// ends first.
func (c *Consumer) handle(ctx context.Context, m skafka.Message, handler Handler) bool {
	delay := c.RetryDelay
	for attempt := 1; ; attempt++ {
		processCtx, cancel := context.WithTimeout(ctx, c.HandlerTimeout)
		err := handler(processCtx, m.Key, m.Value)
		cancel()
		if err == nil {
			return true
		}
		c.log.Error("kafka message processing failed",
			zap.Int64("offset", m.Offset), zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		if delay *= 2; c.MaxRetryDelay > 0 && delay > c.MaxRetryDelay {
			delay = c.MaxRetryDelay
		}
	}
}

// Close disconnects from the brokers.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
