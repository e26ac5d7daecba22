package api

import (
	"context"

	"google.golang.org/grpc"
)

const (
	AnnouncementService_Post_FullMethodName      = "/teamchat.AnnouncementService/Post"
	AnnouncementService_List_FullMethodName      = "/teamchat.AnnouncementService/List"
	AnnouncementService_Delete_FullMethodName    = "/teamchat.AnnouncementService/Delete"
	AnnouncementService_Subscribe_FullMethodName = "/teamchat.AnnouncementService/Subscribe"
)

type AnnouncementServiceServer interface {
	Post(context.Context, *PostAnnouncementRequest) (*AnnouncementResponse, error)
	List(context.Context, *TeamRequest) (*AnnouncementsResponse, error)
	Delete(context.Context, *AnnouncementRequest) (*Empty, error)
	Subscribe(*TeamRequest, grpc.ServerStreamingServer[AnnouncementsResponse]) error
}

var AnnouncementService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "teamchat.AnnouncementService",
	HandlerType: (*AnnouncementServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Post", Handler: unaryHandler(AnnouncementService_Post_FullMethodName, AnnouncementServiceServer.Post)},
		{MethodName: "List", Handler: unaryHandler(AnnouncementService_List_FullMethodName, AnnouncementServiceServer.List)},
		{MethodName: "Delete", Handler: unaryHandler(AnnouncementService_Delete_FullMethodName, AnnouncementServiceServer.Delete)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Subscribe", Handler: serverStreamHandler(AnnouncementServiceServer.Subscribe), ServerStreams: true},
	},
	Metadata: "teamchat/announcement",
}

func RegisterAnnouncementServiceServer(s grpc.ServiceRegistrar, srv AnnouncementServiceServer) {
	s.RegisterService(&AnnouncementService_ServiceDesc, srv)
}

type AnnouncementServiceClient interface {
	Post(ctx context.Context, in *PostAnnouncementRequest, opts ...grpc.CallOption) (*AnnouncementResponse, error)
	List(ctx context.Context, in *TeamRequest, opts ...grpc.CallOption) (*AnnouncementsResponse, error)
	Delete(ctx context.Context, in *AnnouncementRequest, opts ...grpc.CallOption) (*Empty, error)
	Subscribe(ctx context.Context, in *TeamRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[AnnouncementsResponse], error)
}

type announcementServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAnnouncementServiceClient(cc grpc.ClientConnInterface) AnnouncementServiceClient {
	return &announcementServiceClient{cc: cc}
}

func (c *announcementServiceClient) Post(ctx context.Context, in *PostAnnouncementRequest, opts ...grpc.CallOption) (*AnnouncementResponse, error) {
	return invoke[PostAnnouncementRequest, AnnouncementResponse](ctx, c.cc, AnnouncementService_Post_FullMethodName, in, opts...)
}

func (c *announcementServiceClient) List(ctx context.Context, in *TeamRequest, opts ...grpc.CallOption) (*AnnouncementsResponse, error) {
	return invoke[TeamRequest, AnnouncementsResponse](ctx, c.cc, AnnouncementService_List_FullMethodName, in, opts...)
}

func (c *announcementServiceClient) Delete(ctx context.Context, in *AnnouncementRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[AnnouncementRequest, Empty](ctx, c.cc, AnnouncementService_Delete_FullMethodName, in, opts...)
}

func (c *announcementServiceClient) Subscribe(ctx context.Context, in *TeamRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[AnnouncementsResponse], error) {
	return openServerStream[TeamRequest, AnnouncementsResponse](ctx, c.cc, &AnnouncementService_ServiceDesc.Streams[0], AnnouncementService_Subscribe_FullMethodName, in, opts...)
}
