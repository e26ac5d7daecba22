package repositories

import (
	"teamchat/domain"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
)

type ITypingRepository interface {
	SetTyping(typing domain.Typing) error
	ClearTyping(chatID domain.ChatID, userID string) error
	ListTyping(chatID domain.ChatID) ([]domain.Typing, error)
}

// TypingRepository keeps presence as Badger entries with a TTL, so a
// client that stops sending heartbeats simply disappears.
type TypingRepository struct {
	db  *badger.DB
	ttl time.Duration
}

func NewTypingRepository(db *badger.DB, ttl time.Duration) TypingRepository {
	return TypingRepository{db: db, ttl: ttl}
}

type DiskTyping struct {
	ChatID      string `bson:"chat_id"`
	UserID      string `bson:"user_id"`
	DisplayName string `bson:"display_name"`
	At          int64  `bson:"at"`
}

func typingKey(chatID domain.ChatID, userID string) []byte {
	return []byte("typing:" + string(chatID) + ":" + userID)
}

// SetTyping is an idempotent upsert keyed by (chat, user). Each call
// pushes the expiry forward.
func (r TypingRepository) SetTyping(typing domain.Typing) error {
	bytes, err := bson.Marshal(DiskTyping{
		ChatID:      string(typing.ChatID),
		UserID:      typing.UserID,
		DisplayName: typing.DisplayName,
		At:          toNano(typing.At),
	})
	if err != nil {
		return err
	}
	return update(r.db, func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(typingKey(typing.ChatID, typing.UserID), bytes).WithTTL(r.ttl))
	})
}

// ClearTyping deletes the presence record. Deleting a missing record is fine.
func (r TypingRepository) ClearTyping(chatID domain.ChatID, userID string) error {
	return update(r.db, func(txn *badger.Txn) error {
		return txn.Delete(typingKey(chatID, userID))
	})
}

func (r TypingRepository) ListTyping(chatID domain.ChatID) ([]domain.Typing, error) {
	var typing []domain.Typing
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefixKey("typing", string(chatID)), func(_, val []byte) error {
			var disk DiskTyping
			if err := bson.Unmarshal(val, &disk); err != nil {
				return err
			}
			typing = append(typing, domain.Typing{
				ChatID:      domain.ChatID(disk.ChatID),
				UserID:      disk.UserID,
				DisplayName: disk.DisplayName,
				At:          fromNano(disk.At),
			})
			return nil
		})
	})
	return typing, err
}
