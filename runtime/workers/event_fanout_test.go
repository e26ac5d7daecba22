package workers

import (
	"context"
	"errors"
	"log/slog"
	"teamchat/contract"
	"teamchat/domain"
	"teamchat/domain/event"
	"teamchat/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var messagesTopic = event.Topic{Kind: event.KindMessages, Key: "chat-1"}

func TestEventFanout_Loads_Once_And_Delivers_To_Every_Sink(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	sink1 := mocks.NewMockSnapshotSink(ctrl)
	sink2 := mocks.NewMockSnapshotSink(ctrl)

	loads := 0
	loaders := func(kind event.Kind) (contract.SnapshotLoader, bool) {
		req.Equal(event.KindMessages, kind)
		return func(_ context.Context, topic event.Topic) (any, error) {
			loads++
			return []string{"hello", topic.Key}, nil
		}, true
	}

	expected, err := Fingerprint([]string{"hello", "chat-1"})
	req.NoError(err)
	var delivered []contract.Snapshot
	capture := func(err error) func(context.Context, contract.Snapshot) error {
		return func(_ context.Context, s contract.Snapshot) error {
			delivered = append(delivered, s)
			return err
		}
	}

	registry.EXPECT().GetSinks(messagesTopic).Return([]contract.SnapshotSink{sink1, sink2})
	sink1.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(capture(nil))
	sink2.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(capture(errors.New("slow")))

	fanout := NewEventFanout(slog.Default(), nil, registry, loaders, time.Second)
	fanout.Fanout(context.Background(), event.MessagesChanged{ChatID: "chat-1"})
	req.Equal(1, loads)
	req.Len(delivered, 2)
	for _, snapshot := range delivered {
		req.Equal(messagesTopic, snapshot.Topic)
		req.Equal(expected, snapshot.Fingerprint)
	}
}

func TestEventFanout_Skips_Topics_Without_Subscribers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	registry.EXPECT().GetSinks(messagesTopic).Return(nil)

	loaders := func(kind event.Kind) (contract.SnapshotLoader, bool) {
		req.Fail("loader should not be resolved")
		return nil, false
	}
	NewEventFanout(slog.Default(), nil, registry, loaders, time.Second).
		Fanout(context.Background(), event.MessagesChanged{ChatID: "chat-1"})
}

func TestEventFanout_Load_Failure_Delivers_Nothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	sink := mocks.NewMockSnapshotSink(ctrl)
	registry.EXPECT().GetSinks(messagesTopic).Return([]contract.SnapshotSink{sink})

	loaders := func(event.Kind) (contract.SnapshotLoader, bool) {
		return func(context.Context, event.Topic) (any, error) {
			return nil, errors.New("store down")
		}, true
	}
	NewEventFanout(slog.Default(), nil, registry, loaders, time.Second).
		Fanout(context.Background(), event.MessagesChanged{ChatID: "chat-1"})
}

func TestFingerprint_Is_Content_Based(t *testing.T) {
	req := require.New(t)
	a, err := Fingerprint(map[string][]string{"👍": {"bob"}, "🎉": {"alice"}})
	req.NoError(err)
	b, err := Fingerprint(map[string][]string{"🎉": {"alice"}, "👍": {"bob"}})
	req.NoError(err)
	c, err := Fingerprint(map[string][]string{"👍": {"bob", "alice"}})
	req.NoError(err)

	req.Equal(a, b)
	req.NotEqual(a, c)
}

func TestFingerprint_Ignores_Typing_Renewals(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	first, err := Fingerprint([]domain.Typing{{ChatID: "chat-1", UserID: "bob", DisplayName: "Bob", At: now}})
	req.NoError(err)
	renewed, err := Fingerprint([]domain.Typing{{ChatID: "chat-1", UserID: "bob", DisplayName: "Bob", At: now.Add(2 * time.Second)}})
	req.NoError(err)
	other, err := Fingerprint([]domain.Typing{{ChatID: "chat-1", UserID: "carol", DisplayName: "Carol", At: now}})
	req.NoError(err)

	req.Equal(first, renewed)
	req.NotEqual(first, other)
}
