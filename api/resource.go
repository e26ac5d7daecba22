package api

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ResourceService_Upload_FullMethodName   = "/teamchat.ResourceService/Upload"
	ResourceService_List_FullMethodName     = "/teamchat.ResourceService/List"
	ResourceService_Download_FullMethodName = "/teamchat.ResourceService/Download"
	ResourceService_Delete_FullMethodName   = "/teamchat.ResourceService/Delete"
)

type ResourceServiceServer interface {
	Upload(grpc.ClientStreamingServer[UploadChunk, ResourceResponse]) error
	List(context.Context, *TeamRequest) (*ResourcesResponse, error)
	Download(*ResourceRequest, grpc.ServerStreamingServer[DownloadChunk]) error
	Delete(context.Context, *ResourceRequest) (*Empty, error)
}

var ResourceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "teamchat.ResourceService",
	HandlerType: (*ResourceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "List", Handler: unaryHandler(ResourceService_List_FullMethodName, ResourceServiceServer.List)},
		{MethodName: "Delete", Handler: unaryHandler(ResourceService_Delete_FullMethodName, ResourceServiceServer.Delete)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Upload", Handler: clientStreamHandler(ResourceServiceServer.Upload), ClientStreams: true},
		{StreamName: "Download", Handler: serverStreamHandler(ResourceServiceServer.Download), ServerStreams: true},
	},
	Metadata: "teamchat/resource",
}

func RegisterResourceServiceServer(s grpc.ServiceRegistrar, srv ResourceServiceServer) {
	s.RegisterService(&ResourceService_ServiceDesc, srv)
}

type ResourceServiceClient interface {
	Upload(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[UploadChunk, ResourceResponse], error)
	List(ctx context.Context, in *TeamRequest, opts ...grpc.CallOption) (*ResourcesResponse, error)
	Download(ctx context.Context, in *ResourceRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[DownloadChunk], error)
	Delete(ctx context.Context, in *ResourceRequest, opts ...grpc.CallOption) (*Empty, error)
}

type resourceServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewResourceServiceClient(cc grpc.ClientConnInterface) ResourceServiceClient {
	return &resourceServiceClient{cc: cc}
}

func (c *resourceServiceClient) Upload(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[UploadChunk, ResourceResponse], error) {
	return openClientStream[UploadChunk, ResourceResponse](ctx, c.cc, &ResourceService_ServiceDesc.Streams[0], ResourceService_Upload_FullMethodName, opts...)
}

func (c *resourceServiceClient) List(ctx context.Context, in *TeamRequest, opts ...grpc.CallOption) (*ResourcesResponse, error) {
	return invoke[TeamRequest, ResourcesResponse](ctx, c.cc, ResourceService_List_FullMethodName, in, opts...)
}

func (c *resourceServiceClient) Download(ctx context.Context, in *ResourceRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[DownloadChunk], error) {
	return openServerStream[ResourceRequest, DownloadChunk](ctx, c.cc, &ResourceService_ServiceDesc.Streams[1], ResourceService_Download_FullMethodName, in, opts...)
}

func (c *resourceServiceClient) Delete(ctx context.Context, in *ResourceRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[ResourceRequest, Empty](ctx, c.cc, ResourceService_Delete_FullMethodName, in, opts...)
}
