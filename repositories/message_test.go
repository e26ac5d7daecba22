package repositories

import (
	"fmt"
	"log/slog"
	"teamchat/domain"
	"teamchat/errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestMessage(t *testing.T, chatID domain.ChatID, sender, text string, at time.Time) domain.Message {
	msg, err := domain.NewMessage(chatID, sender, text, at)
	require.NoError(t, err)
	return msg
}

func Test_Record_Multiple_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	chatID := domain.ChatID("chat-1")
	at := time.Now().UTC()

	// Stored out of order, listed by creation time
	messages := []domain.Message{
		newTestMessage(t, chatID, "Bob", "second", at.Add(1*time.Minute)),
		newTestMessage(t, chatID, "Alice", "first", at),
		newTestMessage(t, chatID, "Clara", "third", at.Add(2*time.Minute)),
		newTestMessage(t, "other-chat", "Dave", "elsewhere", at),
	}
	for _, m := range messages {
		req.NoError(repository.StoreMessage(m))
	}

	fetched, err := repository.ListMessages(chatID)
	req.NoError(err)
	req.Equal([]string{"first", "second", "third"}, lo.Map(fetched, func(m domain.Message, _ int) string { return m.Text }))
	req.Equal(messages[1].ID, fetched[0].ID)
	req.Equal([]string{"Alice"}, fetched[0].ReadBy)
	req.True(at.Equal(fetched[0].CreatedAt))
	req.False(fetched[0].Edited)
	req.Empty(fetched[0].Reactions)
}

func Test_List_Messages_Keeps_Most_Recent_When_Limited(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewMessageRepository(openTestDB(t), slog.Default(), &limit)
	chatID := domain.ChatID("chat-1")
	at := time.Now().UTC()
	for i := 0; i < 3; i++ {
		req.NoError(repository.StoreMessage(newTestMessage(t, chatID, "Alice", fmt.Sprintf("m%d", i), at.Add(time.Duration(i)*time.Second))))
	}

	fetched, err := repository.ListMessages(chatID)
	req.NoError(err)
	req.Equal([]string{"m1", "m2"}, lo.Map(fetched, func(m domain.Message, _ int) string { return m.Text }))
}

func Test_Get_Messages_Pagination(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewMessageRepository(openTestDB(t), slog.Default(), &limit)
	chatID := domain.ChatID("chat-1")
	now := time.Now().UTC()
	for i := 1; i <= 5; i++ {
		req.NoError(repository.StoreMessage(newTestMessage(t, chatID, "Alice", fmt.Sprintf("Message %d", i), now.Add(time.Duration(i)*time.Minute))))
	}

	page1, cursor1, err := repository.GetMessages(chatID, nil)
	req.NoError(err)
	req.Len(page1, 2)
	req.Equal("Message 5", page1[0].Text)
	req.Equal("Message 4", page1[1].Text)
	req.NotNil(cursor1)

	page2, cursor2, err := repository.GetMessages(chatID, cursor1)
	req.NoError(err)
	req.Len(page2, 2)
	req.Equal("Message 3", page2[0].Text)
	req.Equal("Message 2", page2[1].Text)

	page3, _, err := repository.GetMessages(chatID, cursor2)
	req.NoError(err)
	req.Len(page3, 1)
	req.Equal("Message 1", page3[0].Text)
}

func Test_Update_Message_Toggle_And_Read(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	msg := newTestMessage(t, "chat-1", "alice", "hello", time.Now().UTC())
	req.NoError(repository.StoreMessage(msg))

	updated, changed, err := repository.UpdateMessage(msg.ID, func(m *domain.Message) (bool, error) {
		_, err := m.ToggleReaction("👍", "bob")
		return true, err
	})
	req.NoError(err)
	req.True(changed)
	req.Equal([]string{"bob"}, updated.Reactions["👍"])

	for i := 0; i < 2; i++ {
		_, _, err = repository.UpdateMessage(msg.ID, func(m *domain.Message) (bool, error) {
			return m.MarkRead("bob"), nil
		})
		req.NoError(err)
	}

	stored, err := repository.GetMessage(msg.ID)
	req.NoError(err)
	req.Equal([]string{"alice", "bob"}, stored.ReadBy)
	req.Equal([]string{"bob"}, stored.Reactions["👍"])
}

func Test_Update_Message_Propagates_Mutation_Error(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	msg := newTestMessage(t, "chat-1", "alice", "hello", time.Now().UTC())
	req.NoError(repository.StoreMessage(msg))

	_, _, err := repository.UpdateMessage(msg.ID, func(m *domain.Message) (bool, error) {
		return false, errors.ErrNotMessageSender
	})
	req.ErrorIs(err, errors.ErrNotMessageSender)

	_, _, err = repository.UpdateMessage("missing", func(m *domain.Message) (bool, error) { return true, nil })
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func Test_Delete_Message_Is_Permanent(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	msg := newTestMessage(t, "chat-1", "alice", "hello", time.Now().UTC())
	req.NoError(repository.StoreMessage(msg))

	deleted, err := repository.DeleteMessage(msg.ID)
	req.NoError(err)
	req.Equal(msg.ID, deleted.ID)

	_, err = repository.GetMessage(msg.ID)
	req.ErrorIs(err, errors.ErrMessageNotFound)
	listed, err := repository.ListMessages("chat-1")
	req.NoError(err)
	req.Empty(listed)

	_, err = repository.DeleteMessage(msg.ID)
	req.ErrorIs(err, errors.ErrMessageNotFound)
}
