package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConsumer(h Handler) *Consumer {
	return &Consumer{
		handler:    h,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		minBackoff: time.Millisecond,
		maxBackoff: 4 * time.Millisecond,
	}
}

func TestConsumer_Backoff(t *testing.T) {
	c := testConsumer(nil)

	assert.Equal(t, time.Millisecond, c.backoff(0))
	assert.Equal(t, 2*time.Millisecond, c.backoff(1))
	assert.Equal(t, 4*time.Millisecond, c.backoff(2))
	assert.Equal(t, 4*time.Millisecond, c.backoff(10), "capped")
}

func TestConsumer_HandleWithRetry(t *testing.T) {
	calls := 0
	c := testConsumer(func(_ context.Context, msg Message) error {
		calls++
		assert.Equal(t, "veh-1", string(msg.Key))
		if calls < 3 {
			return errors.New("database unavailable")
		}
		return nil
	})

	err := c.handleWithRetry(context.Background(), kafkago.Message{Key: []byte("veh-1")})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestConsumer_HandleWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	c := testConsumer(func(context.Context, Message) error {
		calls++
		cancel()
		return errors.New("database unavailable")
	})

	err := c.handleWithRetry(ctx, kafkago.Message{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
