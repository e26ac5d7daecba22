package server

import (
	"context"
	"log/slog"
	"teamchat/api"
	"teamchat/domain"
	"teamchat/errors"
	"teamchat/services"
)

type TeamServer struct {
	teamService services.ITeamService
	log         *slog.Logger
}

func NewTeamServer(log *slog.Logger, teamService services.ITeamService) *TeamServer {
	return &TeamServer{teamService: teamService, log: log}
}

func (s *TeamServer) CreateTeam(ctx context.Context, req *api.CreateTeamRequest) (*api.TeamResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	team, err := s.teamService.CreateTeam(ctx, domain.CreateTeamCommand{
		OwnerID: identity.UserID,
		Name:    req.Name,
		Members: req.Members,
	})
	return teamResponse(team, err)
}

func (s *TeamServer) GetTeam(ctx context.Context, req *api.TeamRequest) (*api.TeamResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return teamResponse(s.teamService.GetTeam(ctx, identity.UserID, domain.TeamID(req.TeamID)))
}

func (s *TeamServer) AddMember(ctx context.Context, req *api.MemberRequest) (*api.TeamResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return teamResponse(s.teamService.AddMember(ctx, identity.UserID, domain.TeamID(req.TeamID), req.UserID))
}

func (s *TeamServer) RemoveMember(ctx context.Context, req *api.MemberRequest) (*api.TeamResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return teamResponse(s.teamService.RemoveMember(ctx, identity.UserID, domain.TeamID(req.TeamID), req.UserID))
}

func teamResponse(team domain.Team, err error) (*api.TeamResponse, error) {
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.TeamResponse{Team: toTeam(team, 0)}, nil
}
