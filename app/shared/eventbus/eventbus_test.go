package eventbus

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct {
	Value string `json:"value"`
}

func TestInMemoryPublishJSON(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus := NewInMemory(slog.New(slog.DiscardHandler))
	defer bus.Close()

	messages, err := bus.Subscriber.Subscribe(ctx, "ping.v1")
	require.NoError(t, err)

	ctx = WithCorrelationID(ctx, "corr-1")
	require.NoError(t, PublishJSON(ctx, bus.Publisher, "ping.v1", ping{Value: "hello"}))

	select {
	case msg := <-messages:
		got, err := DecodeJSON[ping](msg)
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Value)
		assert.Equal(t, "ping.v1", msg.Metadata.Get(SubjectKey))
		assert.Equal(t, "corr-1", middleware.MessageCorrelationID(msg))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestNewWithoutURLUsesInMemory(t *testing.T) {
	bus, err := New("", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	_, ok := bus.Publisher.(*gochannel.GoChannel)
	assert.True(t, ok)
	assert.NoError(t, bus.Close())
}
