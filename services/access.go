package services

import (
	"teamchat/domain"
	"teamchat/errors"
	"teamchat/repositories"

	"github.com/samber/lo"
)

// teamForMember loads a team and checks that userID belongs to it.
func teamForMember(teams repositories.ITeamRepository, teamID domain.TeamID, userID string) (domain.Team, error) {
	team, err := teams.GetTeam(teamID)
	if err != nil {
		return domain.Team{}, err
	}
	if !team.IsMember(userID) {
		return domain.Team{}, errors.ErrNotTeamMember
	}
	return team, nil
}

// chatForMember loads a chat and checks that userID belongs to it and to
// its team. A user removed from the team keeps no access to its chats.
func chatForMember(teams repositories.ITeamRepository, chats repositories.IChatRepository, chatID domain.ChatID, userID string) (domain.Chat, error) {
	if chatID == "" {
		return domain.Chat{}, errors.ErrChatNotSelected
	}
	chat, err := chats.GetChat(chatID)
	if err != nil {
		return domain.Chat{}, err
	}
	if !chat.IsMember(userID) {
		return domain.Chat{}, errors.ErrNotChatMember
	}
	if _, err := teamForMember(teams, chat.TeamID, userID); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

// VisibleChats keeps the chats userID is a member of.
func VisibleChats(chats []domain.Chat, userID string) []domain.Chat {
	return lo.Filter(chats, func(c domain.Chat, _ int) bool { return c.IsMember(userID) })
}
