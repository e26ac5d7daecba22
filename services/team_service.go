package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"teamchat/auth"
	"teamchat/contract"
	"teamchat/domain"
	"teamchat/domain/event"
	"teamchat/errors"
	"teamchat/repositories"
	"time"

	"github.com/samber/lo"
)

type ITeamService interface {
	CreateTeam(ctx context.Context, cmd domain.CreateTeamCommand) (domain.Team, error)
	GetTeam(ctx context.Context, userID string, teamID domain.TeamID) (domain.Team, error)
	AddMember(ctx context.Context, userID string, teamID domain.TeamID, memberID string) (domain.Team, error)
	RemoveMember(ctx context.Context, userID string, teamID domain.TeamID, memberID string) (domain.Team, error)
}

type TeamService struct {
	log      *slog.Logger
	teams    repositories.ITeamRepository
	chats    repositories.IChatRepository
	users    repositories.IUserRepository
	notifier contract.Notifier
}

func NewTeamService(log *slog.Logger,
	teams repositories.ITeamRepository,
	chats repositories.IChatRepository,
	users repositories.IUserRepository,
	notifier contract.Notifier) *TeamService {
	return &TeamService{log: log, teams: teams, chats: chats, users: users, notifier: notifier}
}

// CreateTeam stores a new team owned by the caller. Every listed member
// must be a known user.
func (s *TeamService) CreateTeam(ctx context.Context, cmd domain.CreateTeamCommand) (domain.Team, error) {
	team, err := domain.NewTeam(cmd.Name, cmd.OwnerID, cmd.Members, time.Now().UTC())
	if err != nil {
		return domain.Team{}, err
	}
	if err := auth.Validate(cmd); err != nil {
		return domain.Team{}, err
	}
	for _, member := range team.Members {
		if err := s.requireUser(member); err != nil {
			return domain.Team{}, err
		}
	}
	if err := s.teams.CreateTeam(team); err != nil {
		return domain.Team{}, err
	}
	s.log.Info("Team created", "team_id", team.ID, "owner_id", team.OwnerID, "members", len(team.Members))
	s.notifyMembers(ctx, team.Members...)
	return team, nil
}

func (s *TeamService) GetTeam(_ context.Context, userID string, teamID domain.TeamID) (domain.Team, error) {
	return teamForMember(s.teams, teamID, userID)
}

// AddMember lets the owner grow the roster.
func (s *TeamService) AddMember(ctx context.Context, userID string, teamID domain.TeamID, memberID string) (domain.Team, error) {
	if err := s.requireUser(memberID); err != nil {
		return domain.Team{}, err
	}
	team, changed, err := s.teams.UpdateTeam(teamID, func(t *domain.Team) (bool, error) {
		if t.OwnerID != userID {
			return false, errors.ErrNotOwner
		}
		return t.AddMember(memberID), nil
	})
	if err != nil {
		return domain.Team{}, err
	}
	if changed {
		s.notifyMembers(ctx, memberID)
	}
	return team, nil
}

// RemoveMember is allowed to the owner, and to any member leaving the team.
// The chats of the team are refreshed so that live streams of the removed
// member are closed.
func (s *TeamService) RemoveMember(ctx context.Context, userID string, teamID domain.TeamID, memberID string) (domain.Team, error) {
	team, changed, err := s.teams.UpdateTeam(teamID, func(t *domain.Team) (bool, error) {
		if t.OwnerID != userID && memberID != userID {
			return false, errors.ErrNotOwner
		}
		return t.RemoveMember(memberID)
	})
	if err != nil {
		return domain.Team{}, err
	}
	if changed {
		s.notifyMembers(ctx, memberID)
		s.notifyChats(ctx, teamID)
	}
	return team, nil
}

func (s *TeamService) notifyChats(ctx context.Context, teamID domain.TeamID) {
	chats, err := s.chats.ListChats(teamID)
	if err != nil {
		s.log.Warn("Chats of team not refreshed", "team_id", teamID, "error", err)
		return
	}
	events := []event.DomainEvent{event.ChatsChanged{TeamID: string(teamID)}}
	for _, chat := range chats {
		events = append(events,
			event.MessagesChanged{ChatID: string(chat.ID)},
			event.TypingChanged{ChatID: string(chat.ID)})
	}
	s.notifier.Notify(ctx, events...)
}

func (s *TeamService) requireUser(userID string) error {
	if _, err := s.users.GetUser(userID); err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return fmt.Errorf("%w: %s", errors.ErrInvalidMember, userID)
		}
		return err
	}
	return nil
}

func (s *TeamService) notifyMembers(ctx context.Context, members ...string) {
	s.notifier.Notify(ctx, lo.Map(members, func(m string, _ int) event.DomainEvent {
		return event.TeamsChanged{UserID: m}
	})...)
}
