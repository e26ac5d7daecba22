package repositories

import (
	stderrors "errors"
	"teamchat/domain"
	"teamchat/errors"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
)

type IAnnouncementRepository interface {
	StoreAnnouncement(announcement domain.Announcement) error
	GetAnnouncement(id domain.AnnouncementID) (domain.Announcement, error)
	ListAnnouncements(teamID domain.TeamID) ([]domain.Announcement, error)
	DeleteAnnouncement(id domain.AnnouncementID) error
}

type AnnouncementRepository struct {
	db *badger.DB
}

func NewAnnouncementRepository(db *badger.DB) AnnouncementRepository {
	return AnnouncementRepository{db: db}
}

type DiskAnnouncement struct {
	ID        string `bson:"_id"`
	TeamID    string `bson:"team_id"`
	AuthorID  string `bson:"author_id"`
	Title     string `bson:"title"`
	Body      string `bson:"body"`
	CreatedAt int64  `bson:"created_at"`
}

func announcementIndex(id domain.AnnouncementID) []byte {
	return indexKey("ann", string(id))
}

func (r AnnouncementRepository) StoreAnnouncement(a domain.Announcement) error {
	key := orderedKey("ann", string(a.TeamID), a.CreatedAt, string(a.ID))
	return update(r.db, func(txn *badger.Txn) error {
		if err := putDocument(txn, key, DiskAnnouncement{
			ID:        string(a.ID),
			TeamID:    string(a.TeamID),
			AuthorID:  a.AuthorID,
			Title:     a.Title,
			Body:      a.Body,
			CreatedAt: toNano(a.CreatedAt),
		}); err != nil {
			return err
		}
		return txn.Set(announcementIndex(a.ID), key)
	})
}

func (r AnnouncementRepository) GetAnnouncement(id domain.AnnouncementID) (domain.Announcement, error) {
	var disk DiskAnnouncement
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := getIndexed(txn, announcementIndex(id), &disk)
		return err
	})
	if stderrors.Is(err, errNotFound) {
		return domain.Announcement{}, errors.ErrAnnouncementNotFound
	}
	if err != nil {
		return domain.Announcement{}, err
	}
	return toDomainAnnouncement(disk), nil
}

// ListAnnouncements returns the newest announcement first.
func (r AnnouncementRepository) ListAnnouncements(teamID domain.TeamID) ([]domain.Announcement, error) {
	var announcements []domain.Announcement
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefixKey("ann", string(teamID)), func(_, val []byte) error {
			var disk DiskAnnouncement
			if err := bson.Unmarshal(val, &disk); err != nil {
				return err
			}
			announcements = append([]domain.Announcement{toDomainAnnouncement(disk)}, announcements...)
			return nil
		})
	})
	return announcements, err
}

func (r AnnouncementRepository) DeleteAnnouncement(id domain.AnnouncementID) error {
	err := update(r.db, func(txn *badger.Txn) error {
		var disk DiskAnnouncement
		key, err := getIndexed(txn, announcementIndex(id), &disk)
		if err != nil {
			return err
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(announcementIndex(id))
	})
	if stderrors.Is(err, errNotFound) {
		return errors.ErrAnnouncementNotFound
	}
	return err
}

func toDomainAnnouncement(disk DiskAnnouncement) domain.Announcement {
	return domain.Announcement{
		ID:        domain.AnnouncementID(disk.ID),
		TeamID:    domain.TeamID(disk.TeamID),
		AuthorID:  disk.AuthorID,
		Title:     disk.Title,
		Body:      disk.Body,
		CreatedAt: fromNano(disk.CreatedAt),
	}
}
