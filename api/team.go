package api

import (
	"context"

	"google.golang.org/grpc"
)

const (
	TeamService_CreateTeam_FullMethodName   = "/teamchat.TeamService/CreateTeam"
	TeamService_GetTeam_FullMethodName      = "/teamchat.TeamService/GetTeam"
	TeamService_AddMember_FullMethodName    = "/teamchat.TeamService/AddMember"
	TeamService_RemoveMember_FullMethodName = "/teamchat.TeamService/RemoveMember"
)

type TeamServiceServer interface {
	CreateTeam(context.Context, *CreateTeamRequest) (*TeamResponse, error)
	GetTeam(context.Context, *TeamRequest) (*TeamResponse, error)
	AddMember(context.Context, *MemberRequest) (*TeamResponse, error)
	RemoveMember(context.Context, *MemberRequest) (*TeamResponse, error)
}

var TeamService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "teamchat.TeamService",
	HandlerType: (*TeamServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateTeam", Handler: unaryHandler(TeamService_CreateTeam_FullMethodName, TeamServiceServer.CreateTeam)},
		{MethodName: "GetTeam", Handler: unaryHandler(TeamService_GetTeam_FullMethodName, TeamServiceServer.GetTeam)},
		{MethodName: "AddMember", Handler: unaryHandler(TeamService_AddMember_FullMethodName, TeamServiceServer.AddMember)},
		{MethodName: "RemoveMember", Handler: unaryHandler(TeamService_RemoveMember_FullMethodName, TeamServiceServer.RemoveMember)},
	},
	Metadata: "teamchat/team",
}

func RegisterTeamServiceServer(s grpc.ServiceRegistrar, srv TeamServiceServer) {
	s.RegisterService(&TeamService_ServiceDesc, srv)
}

type TeamServiceClient interface {
	CreateTeam(ctx context.Context, in *CreateTeamRequest, opts ...grpc.CallOption) (*TeamResponse, error)
	GetTeam(ctx context.Context, in *TeamRequest, opts ...grpc.CallOption) (*TeamResponse, error)
	AddMember(ctx context.Context, in *MemberRequest, opts ...grpc.CallOption) (*TeamResponse, error)
	RemoveMember(ctx context.Context, in *MemberRequest, opts ...grpc.CallOption) (*TeamResponse, error)
}

type teamServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTeamServiceClient(cc grpc.ClientConnInterface) TeamServiceClient {
	return &teamServiceClient{cc: cc}
}

func (c *teamServiceClient) CreateTeam(ctx context.Context, in *CreateTeamRequest, opts ...grpc.CallOption) (*TeamResponse, error) {
	return invoke[CreateTeamRequest, TeamResponse](ctx, c.cc, TeamService_CreateTeam_FullMethodName, in, opts...)
}

func (c *teamServiceClient) GetTeam(ctx context.Context, in *TeamRequest, opts ...grpc.CallOption) (*TeamResponse, error) {
	return invoke[TeamRequest, TeamResponse](ctx, c.cc, TeamService_GetTeam_FullMethodName, in, opts...)
}

func (c *teamServiceClient) AddMember(ctx context.Context, in *MemberRequest, opts ...grpc.CallOption) (*TeamResponse, error) {
	return invoke[MemberRequest, TeamResponse](ctx, c.cc, TeamService_AddMember_FullMethodName, in, opts...)
}

func (c *teamServiceClient) RemoveMember(ctx context.Context, in *MemberRequest, opts ...grpc.CallOption) (*TeamResponse, error) {
	return invoke[MemberRequest, TeamResponse](ctx, c.cc, TeamService_RemoveMember_FullMethodName, in, opts...)
}
