package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"teamchat/contract"
	"teamchat/domain"
	"teamchat/domain/event"
	"teamchat/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var typingTopic = event.Topic{Kind: event.KindTyping, Key: "chat-1"}

func TestSubscription_Pushes_Snapshots_Until_Cancelled(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	unsubscribed := false
	var sent []string

	subscribe := func(sink contract.SnapshotSink) (func(), error) {
		go func() {
			_ = sink.Consume(ctx, contract.Snapshot{Topic: typingTopic, Items: []domain.Typing{{UserID: "bob"}}, Fingerprint: 1})
		}()
		return func() { unsubscribed = true }, nil
	}
	render := func(s contract.Snapshot) (*[]string, error) {
		typing, err := items[domain.Typing](s)
		if err != nil {
			return nil, err
		}
		users := make([]string, 0, len(typing))
		for _, t := range typing {
			users = append(users, t.UserID)
		}
		return &users, nil
	}
	send := func(users *[]string) error {
		sent = append(sent, *users...)
		cancel()
		return nil
	}

	err := subscription(ctx, slog.Default(), StreamConfig{BufferSize: 1}, subscribe, render, send)
	req.NoError(err)
	req.Equal([]string{"bob"}, sent)
	req.True(unsubscribed)
}

func TestSubscription_Maps_Subscribe_Errors(t *testing.T) {
	req := require.New(t)
	subscribe := func(contract.SnapshotSink) (func(), error) {
		return nil, errors.ErrNotChatMember
	}
	err := subscription(context.Background(), slog.Default(), StreamConfig{BufferSize: 1}, subscribe,
		func(contract.Snapshot) (*string, error) { return nil, nil },
		func(*string) error { return nil })
	req.Equal(codes.PermissionDenied, status.Code(err))
}

func TestSubscription_Stops_When_Send_Fails(t *testing.T) {
	req := require.New(t)
	broken := stderrors.New("stream closed")
	subscribe := func(sink contract.SnapshotSink) (func(), error) {
		go func() {
			_ = sink.Consume(context.Background(), contract.Snapshot{Topic: typingTopic, Fingerprint: 1, At: time.Now()})
		}()
		return func() {}, nil
	}
	err := subscription(context.Background(), slog.Default(), StreamConfig{BufferSize: 1}, subscribe,
		func(contract.Snapshot) (*string, error) { return new(string), nil },
		func(*string) error { return broken })
	req.ErrorIs(err, broken)
}

func TestSubscription_Ends_When_Access_Is_Lost(t *testing.T) {
	subscribe := func(sink contract.SnapshotSink) (func(), error) {
		go func() {
			_ = sink.Consume(context.Background(), contract.Snapshot{Topic: typingTopic, Fingerprint: 1})
		}()
		return func() {}, nil
	}

	t.Run("a removed member gets PermissionDenied", func(t *testing.T) {
		err := subscription(context.Background(), slog.Default(), StreamConfig{BufferSize: 1}, subscribe,
			func(contract.Snapshot) (*string, error) { return nil, errors.ErrNotTeamMember },
			func(*string) error { return nil })
		require.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("a broken snapshot is Internal", func(t *testing.T) {
		err := subscription(context.Background(), slog.Default(), StreamConfig{BufferSize: 1}, subscribe,
			func(s contract.Snapshot) (*string, error) {
				_, err := items[domain.Message](contract.Snapshot{Topic: s.Topic, Items: []domain.Typing{}})
				return nil, err
			},
			func(*string) error { return nil })
		require.Equal(t, codes.Internal, status.Code(err))
	})
}

func TestItems_Rejects_Unexpected_Types(t *testing.T) {
	req := require.New(t)
	_, err := items[domain.Message](contract.Snapshot{Topic: typingTopic, Items: []domain.Typing{}})
	req.Error(err)

	empty, err := items[domain.Message](contract.Snapshot{Topic: typingTopic})
	req.NoError(err)
	req.Nil(empty)
}

func TestToMessage_Sets_EditedAt_Only_When_Edited(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	plain := toMessage(domain.Message{ID: "m1", CreatedAt: at}, 0)
	req.Nil(plain.EditedAt)
	req.False(plain.Edited)

	edited := toMessage(domain.Message{ID: "m1", CreatedAt: at, Edited: true, EditedAt: at.Add(time.Minute)}, 0)
	req.True(edited.Edited)
	req.NotNil(edited.EditedAt)
	req.True(edited.EditedAt.Equal(at.Add(time.Minute)))
}
