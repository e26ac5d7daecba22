package domain

import (
	"fmt"
	"strings"
	"teamchat/errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ChatID string

// Chat belongs to exactly one team and lives as long as the team.
// Names are not unique.
type Chat struct {
	ID        ChatID
	TeamID    TeamID
	Name      string
	Members   []string
	CreatedBy string
	CreatedAt time.Time
}

// NewChat creates a chat inside team. Without an explicit member list the
// chat gets the full team roster as it is right now. Explicit members must
// all belong to the team, and the creator is always part of the chat.
func NewChat(team Team, name, createdBy string, members []string, at time.Time) (Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Chat{}, errors.ErrEmptyName
	}
	if !team.IsMember(createdBy) {
		return Chat{}, errors.ErrNotTeamMember
	}

	roster := lo.Uniq(lo.Compact(members))
	if len(roster) == 0 {
		roster = append([]string(nil), team.Members...)
	} else {
		if outsiders := lo.Reject(roster, func(m string, _ int) bool { return team.IsMember(m) }); len(outsiders) > 0 {
			return Chat{}, fmt.Errorf("%w: %s", errors.ErrInvalidMember, strings.Join(outsiders, ", "))
		}
		if !lo.Contains(roster, createdBy) {
			roster = append([]string{createdBy}, roster...)
		}
	}

	return Chat{
		ID:        ChatID(uuid.NewString()),
		TeamID:    team.ID,
		Name:      name,
		Members:   roster,
		CreatedBy: createdBy,
		CreatedAt: at,
	}, nil
}

func (c Chat) IsMember(userID string) bool {
	return lo.Contains(c.Members, userID)
}
