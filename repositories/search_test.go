package repositories

import (
	"context"
	"log/slog"
	"teamchat/domain"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func TestMessageIndex_Search_Scoped_To_Chats(t *testing.T) {
	req := require.New(t)
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	defer writer.Close()
	index := NewMessageIndex(writer, slog.Default())
	ctx := context.Background()

	deploy := newTestMessage(t, "chat-1", "alice", "the deploy is broken again", time.Now())
	lunch := newTestMessage(t, "chat-1", "bob", "lunch at noon?", time.Now())
	secret := newTestMessage(t, "chat-2", "carol", "deploy window tonight", time.Now())
	for _, m := range []domain.Message{deploy, lunch, secret} {
		req.NoError(index.Index(m))
	}

	ids, err := index.Search(ctx, []domain.ChatID{"chat-1"}, "deploy", 10)
	req.NoError(err)
	req.Equal([]domain.MessageID{deploy.ID}, ids)

	ids, err = index.Search(ctx, []domain.ChatID{"chat-1", "chat-2"}, "deploy", 10)
	req.NoError(err)
	req.ElementsMatch([]domain.MessageID{deploy.ID, secret.ID}, ids)

	req.NoError(index.Remove(deploy.ID))
	ids, err = index.Search(ctx, []domain.ChatID{"chat-1"}, "deploy", 10)
	req.NoError(err)
	req.Empty(ids)
}
