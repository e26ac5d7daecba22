package server

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"teamchat/api"
	"teamchat/domain"
	"teamchat/errors"
	"teamchat/services"

	"github.com/samber/lo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const downloadChunkSize = 64 * 1024

type ResourceServer struct {
	resourceService services.IResourceService
	log             *slog.Logger
}

func NewResourceServer(log *slog.Logger, resourceService services.IResourceService) *ResourceServer {
	return &ResourceServer{resourceService: resourceService, log: log}
}

// Upload reads the team and file name from the first chunk, then streams
// every chunk straight into the object store.
func (s *ResourceServer) Upload(stream grpc.ClientStreamingServer[api.UploadChunk, api.ResourceResponse]) error {
	ctx := stream.Context()
	identity, err := caller(ctx)
	if err != nil {
		return err
	}
	first, err := stream.Recv()
	if stderrors.Is(err, io.EOF) {
		return status.Error(codes.InvalidArgument, errors.ErrEmptyResource.Error())
	}
	if err != nil {
		return err
	}

	reader, writer := io.Pipe()
	go func() {
		chunk := first
		for {
			if len(chunk.Data) > 0 {
				if _, err := writer.Write(chunk.Data); err != nil {
					return
				}
			}
			next, err := stream.Recv()
			if stderrors.Is(err, io.EOF) {
				_ = writer.Close()
				return
			}
			if err != nil {
				_ = writer.CloseWithError(err)
				return
			}
			chunk = next
		}
	}()

	resource, err := s.resourceService.Upload(ctx, domain.UploadResourceCommand{
		UserID: identity.UserID,
		TeamID: domain.TeamID(first.TeamID),
		Name:   first.Name,
	}, reader)
	// Unblocks the receiving goroutine when the upload stopped early
	_ = reader.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	return stream.SendAndClose(&api.ResourceResponse{Resource: toResource(resource, 0)})
}

func (s *ResourceServer) List(ctx context.Context, req *api.TeamRequest) (*api.ResourcesResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	resources, err := s.resourceService.List(ctx, identity.UserID, domain.TeamID(req.TeamID))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.ResourcesResponse{Resources: lo.Map(resources, toResource)}, nil
}

// Download sends the metadata first, then the content in fixed size chunks.
func (s *ResourceServer) Download(req *api.ResourceRequest, stream grpc.ServerStreamingServer[api.DownloadChunk]) error {
	ctx := stream.Context()
	identity, err := caller(ctx)
	if err != nil {
		return err
	}
	resource, content, err := s.resourceService.Open(ctx, identity.UserID, domain.ResourceID(req.ResourceID))
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	defer func() {
		if err := content.Close(); err != nil {
			s.log.Warn("Closing resource failed", "resource_id", resource.ID, "error", err)
		}
	}()

	if err := stream.Send(&api.DownloadChunk{Resource: lo.ToPtr(toResource(resource, 0))}); err != nil {
		return err
	}
	buf := make([]byte, downloadChunkSize)
	for {
		n, err := content.Read(buf)
		if n > 0 {
			if sendErr := stream.Send(&api.DownloadChunk{Data: append([]byte(nil), buf[:n]...)}); sendErr != nil {
				return sendErr
			}
		}
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.MapToGRPCError(err)
		}
	}
}

func (s *ResourceServer) Delete(ctx context.Context, req *api.ResourceRequest) (*api.Empty, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.resourceService.Delete(ctx, identity.UserID, domain.ResourceID(req.ResourceID)); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.Empty{}, nil
}
