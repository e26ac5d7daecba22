//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"strings"
	"teamchat/domain"
	"teamchat/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(email, displayName, hashedPassword string) (domain.User, error)
	GetUserByEmail(email string) (domain.User, error)
	GetUser(id string) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

type DiskUser struct {
	ID           string   `bson:"_id"`
	Email        string   `bson:"email"`
	DisplayName  string   `bson:"display_name"`
	PasswordHash string   `bson:"password_hash"`
	Roles        []string `bson:"roles"`
	CreatedAt    int64    `bson:"created_at"`
}

func userKey(id string) []byte {
	return []byte("user:" + id)
}

func emailIndex(email string) []byte {
	return indexKey("user", "email", strings.ToLower(email))
}

// CreateUser persists an already hashed account. Emails are unique,
// compared case-insensitively.
func (u *UserRepository) CreateUser(email, displayName, hashedPassword string) (domain.User, error) {
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
		CreatedAt:    time.Now().UTC(),
	}
	err := update(u.db, func(txn *badger.Txn) error {
		if _, err := txn.Get(emailIndex(email)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := putDocument(txn, userKey(user.ID), fromDomainUser(user)); err != nil {
			return err
		}
		return txn.Set(emailIndex(email), userKey(user.ID))
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u *UserRepository) GetUserByEmail(email string) (domain.User, error) {
	var disk DiskUser
	err := u.db.View(func(txn *badger.Txn) error {
		_, err := getIndexed(txn, emailIndex(email), &disk)
		return err
	})
	return userResult(disk, err)
}

func (u *UserRepository) GetUser(id string) (domain.User, error) {
	var disk DiskUser
	err := u.db.View(func(txn *badger.Txn) error {
		return getDocument(txn, userKey(id), &disk)
	})
	return userResult(disk, err)
}

func userResult(disk DiskUser, err error) (domain.User, error) {
	if stderrors.Is(err, errNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(disk), nil
}

func fromDomainUser(user domain.User) DiskUser {
	return DiskUser{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		PasswordHash: user.PasswordHash,
		Roles:        user.Roles,
		CreatedAt:    toNano(user.CreatedAt),
	}
}

func toDomainUser(disk DiskUser) domain.User {
	return domain.User{
		ID:           disk.ID,
		Email:        disk.Email,
		DisplayName:  disk.DisplayName,
		PasswordHash: disk.PasswordHash,
		Roles:        disk.Roles,
		CreatedAt:    fromNano(disk.CreatedAt),
	}
}
