package services

import (
	"context"
	"io"
	"log/slog"
	"teamchat/auth"
	"teamchat/domain"
	"teamchat/errors"
	"teamchat/repositories"
	"teamchat/storage"
	"time"
)

type IResourceService interface {
	Upload(ctx context.Context, cmd domain.UploadResourceCommand, content io.Reader) (domain.Resource, error)
	List(ctx context.Context, userID string, teamID domain.TeamID) ([]domain.Resource, error)
	Open(ctx context.Context, userID string, id domain.ResourceID) (domain.Resource, io.ReadCloser, error)
	Delete(ctx context.Context, userID string, id domain.ResourceID) error
}

// ResourceService shares files inside a team. The bytes go to the object
// store, the metadata to the resource repository.
type ResourceService struct {
	log       *slog.Logger
	teams     repositories.ITeamRepository
	resources repositories.IResourceRepository
	store     storage.IObjectStore
}

func NewResourceService(log *slog.Logger,
	teams repositories.ITeamRepository,
	resources repositories.IResourceRepository,
	store storage.IObjectStore) *ResourceService {
	return &ResourceService{log: log, teams: teams, resources: resources, store: store}
}

func (s *ResourceService) Upload(ctx context.Context, cmd domain.UploadResourceCommand, content io.Reader) (domain.Resource, error) {
	if err := auth.Validate(cmd); err != nil {
		return domain.Resource{}, err
	}
	if _, err := teamForMember(s.teams, cmd.TeamID, cmd.UserID); err != nil {
		return domain.Resource{}, err
	}
	resource, err := domain.NewResource(cmd.TeamID, cmd.UserID, cmd.Name, time.Now().UTC())
	if err != nil {
		return domain.Resource{}, err
	}

	object, err := s.store.Put(ctx, resource.Path, content)
	if err != nil {
		return domain.Resource{}, err
	}
	if object.Size == 0 {
		s.discard(resource.Path)
		return domain.Resource{}, errors.ErrEmptyResource
	}
	resource.URL = object.URL
	resource.MimeType = object.MimeType
	resource.Size = object.Size

	if err := s.resources.StoreResource(resource); err != nil {
		s.discard(resource.Path)
		return domain.Resource{}, err
	}
	s.log.Info("Resource uploaded",
		"resource_id", resource.ID,
		"team_id", resource.TeamID,
		"mime_type", resource.MimeType,
		"size", resource.Size)
	return resource, nil
}

func (s *ResourceService) List(_ context.Context, userID string, teamID domain.TeamID) ([]domain.Resource, error) {
	if _, err := teamForMember(s.teams, teamID, userID); err != nil {
		return nil, err
	}
	return s.resources.ListResources(teamID)
}

// Open returns the metadata and the content of a resource. The caller
// closes the reader.
func (s *ResourceService) Open(_ context.Context, userID string, id domain.ResourceID) (domain.Resource, io.ReadCloser, error) {
	resource, err := s.resources.GetResource(id)
	if err != nil {
		return domain.Resource{}, nil, err
	}
	if _, err := teamForMember(s.teams, resource.TeamID, userID); err != nil {
		return domain.Resource{}, nil, err
	}
	content, err := s.store.Open(resource.Path)
	if err != nil {
		return domain.Resource{}, nil, err
	}
	return resource, content, nil
}

// Delete removes a resource. Only the user who uploaded it may do it.
func (s *ResourceService) Delete(_ context.Context, userID string, id domain.ResourceID) error {
	resource, err := s.resources.GetResource(id)
	if err != nil {
		return err
	}
	if resource.OwnerID != userID {
		return errors.ErrNotOwner
	}
	if err := s.resources.DeleteResource(id); err != nil {
		return err
	}
	s.discard(resource.Path)
	return nil
}

func (s *ResourceService) discard(path string) {
	if err := s.store.Delete(path); err != nil {
		s.log.Warn("Object not deleted", "path", path, "error", err)
	}
}
