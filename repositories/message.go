package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"teamchat/domain"
	"teamchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessage(id domain.MessageID) (domain.Message, error)
	ListMessages(chatID domain.ChatID) ([]domain.Message, error)
	GetMessages(chatID domain.ChatID, cursor *string) ([]domain.Message, *string, error)
	UpdateMessage(id domain.MessageID, mutate func(*domain.Message) (bool, error)) (domain.Message, bool, error)
	DeleteMessage(id domain.MessageID) (domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type DiskMessage struct {
	ID        string              `bson:"_id"`
	ChatID    string              `bson:"chat_id"`
	SenderID  string              `bson:"sender_id"`
	Text      string              `bson:"text"`
	Language  string              `bson:"language,omitempty"`
	CreatedAt int64               `bson:"created_at"`
	EditedAt  int64               `bson:"edited_at,omitempty"`
	Edited    bool                `bson:"edited"`
	Reactions map[string][]string `bson:"reactions"`
	ReadBy    []string            `bson:"read_by"`
}

func messageKey(m domain.Message) []byte {
	return orderedKey("msg", string(m.ChatID), m.CreatedAt, string(m.ID))
}

func messageIndex(id domain.MessageID) []byte {
	return indexKey("msg", string(id))
}

// StoreMessage persists a message under "msg:{chat}:{ts}:{id}".
// The padded timestamp keeps chronological order, the id breaks ties
// between two messages created in the same nanosecond.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	key := messageKey(message)
	return update(m.db, func(txn *badger.Txn) error {
		if err := putDocument(txn, key, fromDomainMessage(message)); err != nil {
			return err
		}
		return txn.Set(messageIndex(message.ID), key)
	})
}

func (m MessageRepository) GetMessage(id domain.MessageID) (domain.Message, error) {
	var disk DiskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		_, err := getIndexed(txn, messageIndex(id), &disk)
		return err
	})
	if stderrors.Is(err, errNotFound) {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	return toDomainMessage(disk), nil
}

// ListMessages returns the chat in creation order. When a limit is
// configured only the most recent messages are kept, still oldest first.
func (m MessageRepository) ListMessages(chatID domain.ChatID) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefixKey("msg", string(chatID)), func(_, val []byte) error {
			var disk DiskMessage
			if err := bson.Unmarshal(val, &disk); err != nil {
				return err
			}
			messages = append(messages, toDomainMessage(disk))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if m.limitMessages != nil && len(messages) > *m.limitMessages {
		messages = messages[len(messages)-*m.limitMessages:]
	}
	return messages, nil
}

// GetMessages pages backwards through history, newest first.
// The cursor is the "{ts}:{id}" part of the last key returned.
func (m MessageRepository) GetMessages(chatID domain.ChatID, cursor *string) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := prefixKey("msg", string(chatID))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Greater than any padded timestamp, reverse seek lands on the newest
			seekKey = append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		default:
			seekKey = append(append([]byte{}, prefix...), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			err := item.Value(func(val []byte) error {
				var disk DiskMessage
				if err := bson.Unmarshal(val, &disk); err != nil {
					return err
				}
				messages = append(messages, toDomainMessage(disk))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if lastKey == "" {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

// UpdateMessage is a read-modify-write of one message inside a single
// transaction. Nothing is written when mutate reports no change.
func (m MessageRepository) UpdateMessage(id domain.MessageID, mutate func(*domain.Message) (bool, error)) (domain.Message, bool, error) {
	var result domain.Message
	var changed bool
	err := update(m.db, func(txn *badger.Txn) error {
		var disk DiskMessage
		key, err := getIndexed(txn, messageIndex(id), &disk)
		if err != nil {
			return err
		}
		message := toDomainMessage(disk)
		changed, err = mutate(&message)
		if err != nil {
			return err
		}
		result = message
		if !changed {
			return nil
		}
		return putDocument(txn, key, fromDomainMessage(message))
	})
	if stderrors.Is(err, errNotFound) {
		return domain.Message{}, false, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, false, err
	}
	return result, changed, nil
}

// DeleteMessage removes the message for good, there is no tombstone.
func (m MessageRepository) DeleteMessage(id domain.MessageID) (domain.Message, error) {
	var disk DiskMessage
	err := update(m.db, func(txn *badger.Txn) error {
		key, err := getIndexed(txn, messageIndex(id), &disk)
		if err != nil {
			return err
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(messageIndex(id))
	})
	if stderrors.Is(err, errNotFound) {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	return toDomainMessage(disk), nil
}

func fromDomainMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:        string(message.ID),
		ChatID:    string(message.ChatID),
		SenderID:  message.SenderID,
		Text:      message.Text,
		Language:  message.Language,
		CreatedAt: toNano(message.CreatedAt),
		EditedAt:  toNano(message.EditedAt),
		Edited:    message.Edited,
		Reactions: message.Reactions,
		ReadBy:    message.ReadBy,
	}
}

func toDomainMessage(disk DiskMessage) domain.Message {
	reactions := disk.Reactions
	if reactions == nil {
		reactions = make(map[string][]string)
	}
	return domain.Message{
		ID:        domain.MessageID(disk.ID),
		ChatID:    domain.ChatID(disk.ChatID),
		SenderID:  disk.SenderID,
		Text:      disk.Text,
		Language:  disk.Language,
		CreatedAt: fromNano(disk.CreatedAt),
		EditedAt:  fromNano(disk.EditedAt),
		Edited:    disk.Edited,
		Reactions: reactions,
		ReadBy:    lo.Ternary(disk.ReadBy == nil, []string{}, disk.ReadBy),
	}
}
