package domain

import (
	"strings"
	"teamchat/errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type TeamID string

// Team is a named group of users. Its member list decides who can see
// the chats, announcements and resources of the team.
type Team struct {
	ID        TeamID
	Name      string
	OwnerID   string
	Members   []string
	CreatedAt time.Time
}

// NewTeam creates a team whose members always include the owner.
func NewTeam(name, ownerID string, members []string, at time.Time) (Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Team{}, errors.ErrEmptyName
	}
	return Team{
		ID:        TeamID(uuid.NewString()),
		Name:      name,
		OwnerID:   ownerID,
		Members:   lo.Uniq(append([]string{ownerID}, lo.Compact(members)...)),
		CreatedAt: at,
	}, nil
}

func (t Team) IsMember(userID string) bool {
	return lo.Contains(t.Members, userID)
}

// AddMember is an array-union on the member list.
func (t *Team) AddMember(userID string) bool {
	if userID == "" || t.IsMember(userID) {
		return false
	}
	t.Members = append(t.Members, userID)
	return true
}

// RemoveMember is an array-remove on the member list. The owner stays.
func (t *Team) RemoveMember(userID string) (bool, error) {
	if userID == t.OwnerID {
		return false, errors.ErrOwnerRemoval
	}
	if !t.IsMember(userID) {
		return false, nil
	}
	t.Members = lo.Without(t.Members, userID)
	return true, nil
}
