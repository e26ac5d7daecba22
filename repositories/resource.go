package repositories

import (
	stderrors "errors"
	"teamchat/domain"
	"teamchat/errors"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
)

type IResourceRepository interface {
	StoreResource(resource domain.Resource) error
	GetResource(id domain.ResourceID) (domain.Resource, error)
	ListResources(teamID domain.TeamID) ([]domain.Resource, error)
	DeleteResource(id domain.ResourceID) error
}

type ResourceRepository struct {
	db *badger.DB
}

func NewResourceRepository(db *badger.DB) ResourceRepository {
	return ResourceRepository{db: db}
}

type DiskResource struct {
	ID        string `bson:"_id"`
	TeamID    string `bson:"team_id"`
	OwnerID   string `bson:"owner_id"`
	Name      string `bson:"name"`
	Path      string `bson:"path"`
	URL       string `bson:"url"`
	MimeType  string `bson:"mime_type"`
	Size      int64  `bson:"size"`
	CreatedAt int64  `bson:"created_at"`
}

func resourceIndex(id domain.ResourceID) []byte {
	return indexKey("res", string(id))
}

func (r ResourceRepository) StoreResource(res domain.Resource) error {
	key := orderedKey("res", string(res.TeamID), res.CreatedAt, string(res.ID))
	return update(r.db, func(txn *badger.Txn) error {
		if err := putDocument(txn, key, DiskResource{
			ID:        string(res.ID),
			TeamID:    string(res.TeamID),
			OwnerID:   res.OwnerID,
			Name:      res.Name,
			Path:      res.Path,
			URL:       res.URL,
			MimeType:  res.MimeType,
			Size:      res.Size,
			CreatedAt: toNano(res.CreatedAt),
		}); err != nil {
			return err
		}
		return txn.Set(resourceIndex(res.ID), key)
	})
}

func (r ResourceRepository) GetResource(id domain.ResourceID) (domain.Resource, error) {
	var disk DiskResource
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := getIndexed(txn, resourceIndex(id), &disk)
		return err
	})
	if stderrors.Is(err, errNotFound) {
		return domain.Resource{}, errors.ErrResourceNotFound
	}
	if err != nil {
		return domain.Resource{}, err
	}
	return toDomainResource(disk), nil
}

func (r ResourceRepository) ListResources(teamID domain.TeamID) ([]domain.Resource, error) {
	var resources []domain.Resource
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefixKey("res", string(teamID)), func(_, val []byte) error {
			var disk DiskResource
			if err := bson.Unmarshal(val, &disk); err != nil {
				return err
			}
			resources = append(resources, toDomainResource(disk))
			return nil
		})
	})
	return resources, err
}

func (r ResourceRepository) DeleteResource(id domain.ResourceID) error {
	err := update(r.db, func(txn *badger.Txn) error {
		var disk DiskResource
		key, err := getIndexed(txn, resourceIndex(id), &disk)
		if err != nil {
			return err
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(resourceIndex(id))
	})
	if stderrors.Is(err, errNotFound) {
		return errors.ErrResourceNotFound
	}
	return err
}

func toDomainResource(disk DiskResource) domain.Resource {
	return domain.Resource{
		ID:        domain.ResourceID(disk.ID),
		TeamID:    domain.TeamID(disk.TeamID),
		OwnerID:   disk.OwnerID,
		Name:      disk.Name,
		Path:      disk.Path,
		URL:       disk.URL,
		MimeType:  disk.MimeType,
		Size:      disk.Size,
		CreatedAt: fromNano(disk.CreatedAt),
	}
}
