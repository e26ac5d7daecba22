package server

import (
	"context"
	"log/slog"
	"teamchat/api"
	"teamchat/errors"
	"teamchat/services"
)

type AuthServer struct {
	authService services.IAuthService
	log         *slog.Logger
}

func NewAuthServer(log *slog.Logger, authService services.IAuthService) *AuthServer {
	return &AuthServer{authService: authService, log: log}
}

func (s *AuthServer) Register(_ context.Context, req *api.RegisterRequest) (*api.SessionResponse, error) {
	session, err := s.authService.Register(req.Email, req.DisplayName, req.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	s.log.Info("User registered", "user_id", session.UserID)
	return toSession(session), nil
}

func (s *AuthServer) Login(_ context.Context, req *api.LoginRequest) (*api.SessionResponse, error) {
	session, err := s.authService.Login(req.Email, req.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toSession(session), nil
}

func toSession(session services.Session) *api.SessionResponse {
	return &api.SessionResponse{
		Token:       session.Token,
		UserID:      session.UserID,
		DisplayName: session.DisplayName,
	}
}
