package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message.
type Handler func(ctx context.Context, msg Message) error

// Consumer wraps a kafka-go reader for consuming messages of one topic
// within a consumer group.
type Consumer struct {
	reader     *kafkago.Reader
	handler    Handler
	logger     *slog.Logger
	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewConsumer creates a new Consumer for the given topic with the provided handler.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	readerCfg := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024, // 10 MB
	}

	mechanism, err := cfg.saslMechanism()
	if err != nil {
		return nil, err
	}
	if cfg.TLS || mechanism != nil {
		readerCfg.Dialer = &kafkago.Dialer{
			TLS:           cfg.tlsConfig(),
			SASLMechanism: mechanism,
			DualStack:     true,
		}
	}

	return &Consumer{
		reader:     kafkago.NewReader(readerCfg),
		handler:    handler,
		logger:     logger,
		minBackoff: 500 * time.Millisecond,
		maxBackoff: 30 * time.Second,
	}, nil
}

// Start begins consuming messages. Blocks until the context is canceled.
// A message is committed only after its handler succeeds. A failing handler
// is retried with capped exponential backoff, holding back the partition,
// so delivery is at-least-once.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting", "topic", c.reader.Config().Topic, "group", c.reader.Config().GroupID)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopping due to context cancellation")
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.handleWithRetry(ctx, m); err != nil {
			c.logger.Info("consumer stopping before commit", "offset", m.Offset)
			return nil
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit error",
				"topic", m.Topic,
				"partition", m.Partition,
				"offset", m.Offset,
				"error", err,
			)
		}
	}
}

// handleWithRetry runs the handler until it succeeds. It only gives up when
// ctx is done, returning ctx's error.
func (c *Consumer) handleWithRetry(ctx context.Context, m kafkago.Message) error {
	msg := toMessage(m)
	for attempt := 0; ; attempt++ {
		err := c.handler(ctx, msg)
		if err == nil {
			return nil
		}

		wait := c.backoff(attempt)
		c.logger.Error("handler error",
			"topic", m.Topic,
			"partition", m.Partition,
			"offset", m.Offset,
			"attempt", attempt+1,
			"retry_in", wait,
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff doubles minBackoff per attempt, capped at maxBackoff.
func (c *Consumer) backoff(attempt int) time.Duration {
	wait := c.minBackoff
	for i := 0; i < attempt && wait < c.maxBackoff; i++ {
		wait *= 2
	}
	return min(wait, c.maxBackoff)
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}

func toMessage(m kafkago.Message) Message {
	msg := Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}
