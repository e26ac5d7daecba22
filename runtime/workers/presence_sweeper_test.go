package workers

import (
	"context"
	"log/slog"
	"teamchat/domain/event"
	"teamchat/mocks"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

func TestPresenceSweeper_Refreshes_Watched_Typing_Topics(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	// Given two chats with a live typing subscription
	registry.EXPECT().Topics(event.KindTyping).Return([]event.Topic{
		{Kind: event.KindTyping, Key: "chat-1"},
		{Kind: event.KindTyping, Key: "chat-2"},
	})

	// Then each one is refreshed
	gomock.InOrder(
		notifier.EXPECT().Notify(gomock.Any(), event.TypingChanged{ChatID: "chat-1"}),
		notifier.EXPECT().Notify(gomock.Any(), event.TypingChanged{ChatID: "chat-2"}),
	)

	// When a sweep runs
	NewPresenceSweeper(slog.Default(), registry, notifier, time.Second).Sweep(context.Background())
}
