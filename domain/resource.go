package domain

import (
	"path"
	"strings"
	"teamchat/errors"
	"time"

	"github.com/google/uuid"
)

type ResourceID string

// Resource is a file shared with a team. The bytes live in the object
// store under Path, the record only keeps what is needed to list it.
type Resource struct {
	ID        ResourceID
	TeamID    TeamID
	OwnerID   string
	Name      string
	Path      string
	URL       string
	MimeType  string
	Size      int64
	CreatedAt time.Time
}

// NewResource reserves an object path for an upload: teams/{team}/{id}/{name}.
func NewResource(teamID TeamID, ownerID, name string, at time.Time) (Resource, error) {
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return Resource{}, errors.ErrEmptyName
	}
	id := ResourceID(uuid.NewString())
	return Resource{
		ID:        id,
		TeamID:    teamID,
		OwnerID:   ownerID,
		Name:      name,
		Path:      path.Join("teams", string(teamID), string(id), name),
		CreatedAt: at,
	}, nil
}
