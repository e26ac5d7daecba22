package sink

import (
	"context"
	"log/slog"
	"teamchat/contract"
	"teamchat/domain/event"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var topic = event.Topic{Kind: event.KindMessages, Key: "chat-1"}

func snapshot(fingerprint uint64) contract.Snapshot {
	return contract.Snapshot{Topic: topic, Fingerprint: fingerprint, At: time.Now()}
}

func TestSubscriptionSink_Skips_Identical_Snapshots(t *testing.T) {
	req := require.New(t)
	s := NewSubscriptionSink(slog.Default(), 10)
	ctx := context.Background()

	req.NoError(s.Consume(ctx, snapshot(1)))
	req.NoError(s.Consume(ctx, snapshot(1)))
	req.NoError(s.Consume(ctx, snapshot(2)))
	req.NoError(s.Consume(ctx, snapshot(1)))

	req.Len(s.Snapshots, 3)
	req.Equal(uint64(1), (<-s.Snapshots).Fingerprint)
	req.Equal(uint64(2), (<-s.Snapshots).Fingerprint)
	req.Equal(uint64(1), (<-s.Snapshots).Fingerprint)
}

func TestSubscriptionSink_Keeps_Latest_When_Reader_Is_Slow(t *testing.T) {
	req := require.New(t)
	s := NewSubscriptionSink(slog.Default(), 1)

	req.NoError(s.Consume(context.Background(), snapshot(1)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req.NoError(s.Consume(ctx, snapshot(2)))

	req.Len(s.Snapshots, 1)
	req.Equal(uint64(2), (<-s.Snapshots).Fingerprint)
}

func TestSubscriptionSink_Ignores_Deliveries_After_Close(t *testing.T) {
	req := require.New(t)
	s := NewSubscriptionSink(slog.Default(), 1)
	s.Close()
	s.Close()

	req.NoError(s.Consume(context.Background(), snapshot(1)))
	req.Empty(s.Snapshots)
	select {
	case <-s.Done():
	default:
		req.Fail("done channel should be closed")
	}
}
