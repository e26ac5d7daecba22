package server

import (
	"log/slog"
	"teamchat/api"
	"teamchat/auth"
	"teamchat/services"

	sdkgrpc "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
)

// Services groups what the gRPC servers delegate to.
type Services struct {
	Auth          services.IAuthService
	Chat          services.IChatService
	Team          services.ITeamService
	Announcements services.IAnnouncementService
	Resources     services.IResourceService
}

// NewGRPCServer registers every teamchat service behind the logging and
// authentication interceptors.
func NewGRPCServer(log *slog.Logger, interceptor auth.Interceptor, streams StreamConfig, svc Services) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			sdkgrpc.UnaryLoggingInterceptor(log),
			interceptor.Unary(),
		),
		grpc.ChainStreamInterceptor(interceptor.Stream()),
	)
	api.RegisterAuthServiceServer(s, NewAuthServer(log, svc.Auth))
	api.RegisterChatServiceServer(s, NewChatServer(log, svc.Chat, streams))
	api.RegisterTeamServiceServer(s, NewTeamServer(log, svc.Team))
	api.RegisterAnnouncementServiceServer(s, NewAnnouncementServer(log, svc.Announcements, streams))
	api.RegisterResourceServiceServer(s, NewResourceServer(log, svc.Resources))
	return s
}
