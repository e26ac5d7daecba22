package repositories

import (
	stderrors "errors"
	"teamchat/domain"
	"teamchat/errors"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
)

type IChatRepository interface {
	CreateChat(chat domain.Chat) error
	GetChat(id domain.ChatID) (domain.Chat, error)
	ListChats(teamID domain.TeamID) ([]domain.Chat, error)
}

type ChatRepository struct {
	db *badger.DB
}

func NewChatRepository(db *badger.DB) ChatRepository {
	return ChatRepository{db: db}
}

type DiskChat struct {
	ID        string   `bson:"_id"`
	TeamID    string   `bson:"team_id"`
	Name      string   `bson:"name"`
	Members   []string `bson:"members"`
	CreatedBy string   `bson:"created_by"`
	CreatedAt int64    `bson:"created_at"`
}

func chatIndex(id domain.ChatID) []byte {
	return indexKey("chat", string(id))
}

// CreateChat stores the chat under "chat:{team}:{ts}:{id}" so that a team
// prefix scan lists chats by creation time, ascending.
func (r ChatRepository) CreateChat(chat domain.Chat) error {
	key := orderedKey("chat", string(chat.TeamID), chat.CreatedAt, string(chat.ID))
	return update(r.db, func(txn *badger.Txn) error {
		if err := putDocument(txn, key, fromDomainChat(chat)); err != nil {
			return err
		}
		return txn.Set(chatIndex(chat.ID), key)
	})
}

func (r ChatRepository) GetChat(id domain.ChatID) (domain.Chat, error) {
	var disk DiskChat
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := getIndexed(txn, chatIndex(id), &disk)
		return err
	})
	if stderrors.Is(err, errNotFound) {
		return domain.Chat{}, errors.ErrChatNotFound
	}
	if err != nil {
		return domain.Chat{}, err
	}
	return toDomainChat(disk), nil
}

func (r ChatRepository) ListChats(teamID domain.TeamID) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefixKey("chat", string(teamID)), func(_, val []byte) error {
			var disk DiskChat
			if err := bson.Unmarshal(val, &disk); err != nil {
				return err
			}
			chats = append(chats, toDomainChat(disk))
			return nil
		})
	})
	return chats, err
}

func fromDomainChat(chat domain.Chat) DiskChat {
	return DiskChat{
		ID:        string(chat.ID),
		TeamID:    string(chat.TeamID),
		Name:      chat.Name,
		Members:   chat.Members,
		CreatedBy: chat.CreatedBy,
		CreatedAt: toNano(chat.CreatedAt),
	}
}

func toDomainChat(disk DiskChat) domain.Chat {
	return domain.Chat{
		ID:        domain.ChatID(disk.ID),
		TeamID:    domain.TeamID(disk.TeamID),
		Name:      disk.Name,
		Members:   disk.Members,
		CreatedBy: disk.CreatedBy,
		CreatedAt: fromNano(disk.CreatedAt),
	}
}
