package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"teamchat/domain"

	"github.com/blugelabs/bluge"
)

const (
	fieldChatID = "chat_id"
	fieldText   = "text"
	fieldSender = "sender_id"
)

type IMessageIndex interface {
	Index(message domain.Message) error
	Remove(id domain.MessageID) error
	Search(ctx context.Context, chatIDs []domain.ChatID, query string, limit int) ([]domain.MessageID, error)
}

// MessageIndex is the full-text index of message bodies.
// It is a secondary view: Badger stays the source of truth.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) MessageIndex {
	return MessageIndex{writer: writer, log: log}
}

// Index inserts or replaces the document of a message.
func (m MessageIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(string(message.ID)).
		AddField(bluge.NewKeywordField(fieldChatID, string(message.ChatID)).StoreValue()).
		AddField(bluge.NewKeywordField(fieldSender, message.SenderID).StoreValue()).
		AddField(bluge.NewTextField(fieldText, message.Text))
	if err := m.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index message %s: %w", message.ID, err)
	}
	return nil
}

func (m MessageIndex) Remove(id domain.MessageID) error {
	return m.writer.Delete(bluge.Identifier(id))
}

// Search matches query against the text of messages from the given chats
// and returns ids by relevance.
func (m MessageIndex) Search(ctx context.Context, chatIDs []domain.ChatID, query string, limit int) ([]domain.MessageID, error) {
	if len(chatIDs) == 0 || query == "" {
		return nil, nil
	}

	inChats := bluge.NewBooleanQuery().SetMinShould(1)
	for _, chatID := range chatIDs {
		inChats.AddShould(bluge.NewTermQuery(string(chatID)).SetField(fieldChatID))
	}
	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField(fieldText)).
		AddMust(inChats)

	reader, err := m.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.log.Warn("Closing search reader failed", "error", err)
		}
	}()

	matches, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, err
	}

	var ids []domain.MessageID
	match, err := matches.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, domain.MessageID(value))
				return false
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}
