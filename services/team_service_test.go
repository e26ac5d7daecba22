package services

import (
	"context"
	"teamchat/domain"
	"teamchat/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTeamService_CreateTeam(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	svc := f.teamService()

	team, err := svc.CreateTeam(ctx, domain.CreateTeamCommand{OwnerID: f.alice.ID, Name: "Platform", Members: []string{f.bob.ID}})
	req.NoError(err)
	req.Equal([]string{f.alice.ID, f.bob.ID}, team.Members)
	req.Equal([]string{"teams:" + f.alice.ID, "teams:" + f.bob.ID}, f.notifier.topics())

	_, err = svc.CreateTeam(ctx, domain.CreateTeamCommand{OwnerID: f.alice.ID, Name: "Ghosts", Members: []string{"ghost"}})
	req.ErrorIs(err, errors.ErrInvalidMember)

	_, err = svc.CreateTeam(ctx, domain.CreateTeamCommand{OwnerID: f.alice.ID, Name: " "})
	req.ErrorIs(err, errors.ErrEmptyName)

	got, err := svc.GetTeam(ctx, f.bob.ID, team.ID)
	req.NoError(err)
	req.Equal("Platform", got.Name)

	_, err = svc.GetTeam(ctx, f.carol.ID, team.ID)
	req.ErrorIs(err, errors.ErrNotTeamMember)
}

func TestTeamService_Membership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.teamService()
	team, err := svc.CreateTeam(ctx, domain.CreateTeamCommand{OwnerID: f.alice.ID, Name: "Platform"})
	require.NoError(t, err)
	f.notifier.topics()

	t.Run("only the owner adds members", func(t *testing.T) {
		req := require.New(t)
		_, err := svc.AddMember(ctx, f.bob.ID, team.ID, f.carol.ID)
		req.ErrorIs(err, errors.ErrNotOwner)

		updated, err := svc.AddMember(ctx, f.alice.ID, team.ID, f.bob.ID)
		req.NoError(err)
		req.Contains(updated.Members, f.bob.ID)
		req.Equal([]string{"teams:" + f.bob.ID}, f.notifier.topics())

		_, err = svc.AddMember(ctx, f.alice.ID, team.ID, f.bob.ID)
		req.NoError(err)
		req.Empty(f.notifier.topics(), "adding twice changes nothing")

		_, err = svc.AddMember(ctx, f.alice.ID, team.ID, "ghost")
		req.ErrorIs(err, errors.ErrInvalidMember)

		_, err = svc.AddMember(ctx, f.alice.ID, "missing", f.bob.ID)
		req.ErrorIs(err, errors.ErrTeamNotFound)
	})

	t.Run("members may leave, the owner stays", func(t *testing.T) {
		req := require.New(t)
		_, err := svc.RemoveMember(ctx, f.bob.ID, team.ID, f.alice.ID)
		req.ErrorIs(err, errors.ErrNotOwner)

		_, err = svc.RemoveMember(ctx, f.alice.ID, team.ID, f.alice.ID)
		req.ErrorIs(err, errors.ErrOwnerRemoval)

		updated, err := svc.RemoveMember(ctx, f.bob.ID, team.ID, f.bob.ID)
		req.NoError(err)
		req.Equal([]string{f.alice.ID}, updated.Members)
		req.Equal([]string{"teams:" + f.bob.ID, "chats:" + string(team.ID)}, f.notifier.topics())

		teams, err := f.teams.ListTeamsForUser(f.bob.ID)
		req.NoError(err)
		req.Empty(teams)
	})
}

func TestTeamService_Removed_Member_Loses_Chat_Access(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	team := f.team(t, f.bob.ID)
	chat := f.chat(t, team)
	chats := f.chatService(nil)

	_, err := chats.SendMessage(ctx, domain.SendMessageCommand{UserID: f.bob.ID, ChatID: chat.ID, Text: "before"})
	req.NoError(err)
	f.notifier.topics()

	_, err = f.teamService().RemoveMember(ctx, f.alice.ID, team.ID, f.bob.ID)
	req.NoError(err)
	req.Equal([]string{
		"teams:" + f.bob.ID,
		"chats:" + string(team.ID),
		"messages:" + string(chat.ID),
		"typing:" + string(chat.ID),
	}, f.notifier.topics(), "live streams of the team are refreshed")

	_, err = chats.SendMessage(ctx, domain.SendMessageCommand{UserID: f.bob.ID, ChatID: chat.ID, Text: "still here"})
	req.ErrorIs(err, errors.ErrNotTeamMember)
	_, _, err = chats.ListMessages(ctx, f.bob.ID, chat.ID, nil)
	req.ErrorIs(err, errors.ErrNotTeamMember)
	err = chats.SetTyping(ctx, domain.SetTypingCommand{UserID: f.bob.ID, ChatID: chat.ID, Typing: true})
	req.ErrorIs(err, errors.ErrNotTeamMember)
	_, err = chats.SubscribeMessages(ctx, f.bob.ID, chat.ID, nil)
	req.ErrorIs(err, errors.ErrNotTeamMember)
	req.ErrorIs(chats.RequireChatMember(f.bob.ID, chat.ID), errors.ErrNotTeamMember)

	history, _, err := chats.ListMessages(ctx, f.alice.ID, chat.ID, nil)
	req.NoError(err)
	req.Len(history, 1)
	req.NoError(chats.RequireChatMember(f.alice.ID, chat.ID))
}
