package server

import (
	"context"
	"log/slog"
	"teamchat/api"
	"teamchat/contract"
	"teamchat/domain"
	"teamchat/errors"
	"teamchat/services"

	"github.com/samber/lo"
	"google.golang.org/grpc"
)

type AnnouncementServer struct {
	announcementService services.IAnnouncementService
	streams             StreamConfig
	log                 *slog.Logger
}

func NewAnnouncementServer(log *slog.Logger, announcementService services.IAnnouncementService, streams StreamConfig) *AnnouncementServer {
	return &AnnouncementServer{announcementService: announcementService, streams: streams, log: log}
}

func (s *AnnouncementServer) Post(ctx context.Context, req *api.PostAnnouncementRequest) (*api.AnnouncementResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	announcement, err := s.announcementService.Post(ctx, domain.PostAnnouncementCommand{
		UserID: identity.UserID,
		TeamID: domain.TeamID(req.TeamID),
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.AnnouncementResponse{Announcement: toAnnouncement(announcement, 0)}, nil
}

func (s *AnnouncementServer) List(ctx context.Context, req *api.TeamRequest) (*api.AnnouncementsResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	announcements, err := s.announcementService.List(ctx, identity.UserID, domain.TeamID(req.TeamID))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.AnnouncementsResponse{TeamID: req.TeamID, Announcements: lo.Map(announcements, toAnnouncement)}, nil
}

func (s *AnnouncementServer) Delete(ctx context.Context, req *api.AnnouncementRequest) (*api.Empty, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.announcementService.Delete(ctx, identity.UserID, domain.AnnouncementID(req.AnnouncementID)); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.Empty{}, nil
}

func (s *AnnouncementServer) Subscribe(req *api.TeamRequest, stream grpc.ServerStreamingServer[api.AnnouncementsResponse]) error {
	ctx := stream.Context()
	identity, err := caller(ctx)
	if err != nil {
		return err
	}
	return subscription(ctx, s.log, s.streams,
		func(sink contract.SnapshotSink) (func(), error) {
			return s.announcementService.Subscribe(ctx, identity.UserID, domain.TeamID(req.TeamID), sink)
		},
		func(snapshot contract.Snapshot) (*api.AnnouncementsResponse, error) {
			announcements, err := items[domain.Announcement](snapshot)
			if err != nil {
				return nil, err
			}
			return &api.AnnouncementsResponse{TeamID: req.TeamID, Announcements: lo.Map(announcements, toAnnouncement)}, nil
		},
		stream.Send)
}
