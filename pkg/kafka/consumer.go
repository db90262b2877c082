package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message. A returned error is retried;
// wrap it with backoff.Permanent to fail the message without retrying.
type Handler func(ctx context.Context, msg Message) error

// Handler retry defaults.
const (
	DefaultHandlerRetries = 3
	DefaultRetryInterval  = 500 * time.Millisecond
)

// reader is the subset of *kafkago.Reader the consumer drives.
type reader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads one topic as part of a consumer group.
type Consumer struct {
	reader     reader
	handler    Handler
	newBackOff func() backoff.BackOff
	logger     *slog.Logger
	topic      string
	group      string
}

// NewConsumer creates a Consumer for topic.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	dialer, err := cfg.dialer()
	if err != nil {
		return nil, err
	}

	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024,
		Dialer:   dialer,
	})
	c := newConsumer(r, topic, cfg.ConsumerGroup, handler, logger)
	c.newBackOff = cfg.handlerBackOff
	return c, nil
}

func newConsumer(r reader, topic, group string, handler Handler, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:     r,
		handler:    handler,
		newBackOff: Config{}.handlerBackOff,
		logger:     logger,
		topic:      topic,
		group:      group,
	}
}

// Start consumes until ctx is canceled. Messages are committed only after
// the handler succeeds. A message that still fails after the configured
// retries stops the consumer with an error and stays uncommitted, so the
// group resumes from it on the next start.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting", slog.String("topic", c.topic), slog.String("group", c.group))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopping due to context cancellation", slog.String("topic", c.topic))
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		attrs := []any{
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
		}

		if err := c.handle(ctx, m, attrs); err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping with message uncommitted", attrs...)
				return nil
			}
			return fmt.Errorf("handling %s/%d at offset %d: %w", m.Topic, m.Partition, m.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit error", append(attrs, slog.String("error", err.Error()))...)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, m kafkago.Message, attrs []any) error {
	msg := fromKafkaMessage(m)
	return backoff.RetryNotify(
		func() error { return c.handler(ctx, msg) },
		backoff.WithContext(c.newBackOff(), ctx),
		func(err error, wait time.Duration) {
			c.logger.Warn("handler error, retrying",
				append(attrs, slog.String("error", err.Error()), slog.Duration("retry_in", wait))...)
		},
	)
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}
