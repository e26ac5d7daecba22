package api

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ChatService_ListTeams_FullMethodName         = "/teamchat.ChatService/ListTeams"
	ChatService_ListChats_FullMethodName         = "/teamchat.ChatService/ListChats"
	ChatService_CreateChat_FullMethodName        = "/teamchat.ChatService/CreateChat"
	ChatService_SendMessage_FullMethodName       = "/teamchat.ChatService/SendMessage"
	ChatService_EditMessage_FullMethodName       = "/teamchat.ChatService/EditMessage"
	ChatService_DeleteMessage_FullMethodName     = "/teamchat.ChatService/DeleteMessage"
	ChatService_ToggleReaction_FullMethodName    = "/teamchat.ChatService/ToggleReaction"
	ChatService_MarkRead_FullMethodName          = "/teamchat.ChatService/MarkRead"
	ChatService_SetTyping_FullMethodName         = "/teamchat.ChatService/SetTyping"
	ChatService_ListMessages_FullMethodName      = "/teamchat.ChatService/ListMessages"
	ChatService_SearchMessages_FullMethodName    = "/teamchat.ChatService/SearchMessages"
	ChatService_SubscribeMessages_FullMethodName = "/teamchat.ChatService/SubscribeMessages"
	ChatService_SubscribeTyping_FullMethodName   = "/teamchat.ChatService/SubscribeTyping"
	ChatService_SubscribeChats_FullMethodName    = "/teamchat.ChatService/SubscribeChats"
	ChatService_SubscribeTeams_FullMethodName    = "/teamchat.ChatService/SubscribeTeams"
)

type ChatServiceServer interface {
	ListTeams(context.Context, *Empty) (*TeamsResponse, error)
	ListChats(context.Context, *ListChatsRequest) (*ChatsResponse, error)
	CreateChat(context.Context, *CreateChatRequest) (*ChatResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*MessageResponse, error)
	EditMessage(context.Context, *EditMessageRequest) (*MessageResponse, error)
	DeleteMessage(context.Context, *MessageRequest) (*Empty, error)
	ToggleReaction(context.Context, *ToggleReactionRequest) (*MessageResponse, error)
	MarkRead(context.Context, *MessageRequest) (*Empty, error)
	SetTyping(context.Context, *SetTypingRequest) (*Empty, error)
	ListMessages(context.Context, *ListMessagesRequest) (*MessagesResponse, error)
	SearchMessages(context.Context, *SearchMessagesRequest) (*MessagesResponse, error)
	SubscribeMessages(*ChatRequest, grpc.ServerStreamingServer[MessagesResponse]) error
	SubscribeTyping(*ChatRequest, grpc.ServerStreamingServer[TypingResponse]) error
	SubscribeChats(*ListChatsRequest, grpc.ServerStreamingServer[ChatsResponse]) error
	SubscribeTeams(*Empty, grpc.ServerStreamingServer[TeamsResponse]) error
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "teamchat.ChatService",
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListTeams", Handler: unaryHandler(ChatService_ListTeams_FullMethodName, ChatServiceServer.ListTeams)},
		{MethodName: "ListChats", Handler: unaryHandler(ChatService_ListChats_FullMethodName, ChatServiceServer.ListChats)},
		{MethodName: "CreateChat", Handler: unaryHandler(ChatService_CreateChat_FullMethodName, ChatServiceServer.CreateChat)},
		{MethodName: "SendMessage", Handler: unaryHandler(ChatService_SendMessage_FullMethodName, ChatServiceServer.SendMessage)},
		{MethodName: "EditMessage", Handler: unaryHandler(ChatService_EditMessage_FullMethodName, ChatServiceServer.EditMessage)},
		{MethodName: "DeleteMessage", Handler: unaryHandler(ChatService_DeleteMessage_FullMethodName, ChatServiceServer.DeleteMessage)},
		{MethodName: "ToggleReaction", Handler: unaryHandler(ChatService_ToggleReaction_FullMethodName, ChatServiceServer.ToggleReaction)},
		{MethodName: "MarkRead", Handler: unaryHandler(ChatService_MarkRead_FullMethodName, ChatServiceServer.MarkRead)},
		{MethodName: "SetTyping", Handler: unaryHandler(ChatService_SetTyping_FullMethodName, ChatServiceServer.SetTyping)},
		{MethodName: "ListMessages", Handler: unaryHandler(ChatService_ListMessages_FullMethodName, ChatServiceServer.ListMessages)},
		{MethodName: "SearchMessages", Handler: unaryHandler(ChatService_SearchMessages_FullMethodName, ChatServiceServer.SearchMessages)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "SubscribeMessages", Handler: serverStreamHandler(ChatServiceServer.SubscribeMessages), ServerStreams: true},
		{StreamName: "SubscribeTyping", Handler: serverStreamHandler(ChatServiceServer.SubscribeTyping), ServerStreams: true},
		{StreamName: "SubscribeChats", Handler: serverStreamHandler(ChatServiceServer.SubscribeChats), ServerStreams: true},
		{StreamName: "SubscribeTeams", Handler: serverStreamHandler(ChatServiceServer.SubscribeTeams), ServerStreams: true},
	},
	Metadata: "teamchat/chat",
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

type ChatServiceClient interface {
	ListTeams(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TeamsResponse, error)
	ListChats(ctx context.Context, in *ListChatsRequest, opts ...grpc.CallOption) (*ChatsResponse, error)
	CreateChat(ctx context.Context, in *CreateChatRequest, opts ...grpc.CallOption) (*ChatResponse, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	EditMessage(ctx context.Context, in *EditMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	DeleteMessage(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*Empty, error)
	ToggleReaction(ctx context.Context, in *ToggleReactionRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	MarkRead(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*Empty, error)
	SetTyping(ctx context.Context, in *SetTypingRequest, opts ...grpc.CallOption) (*Empty, error)
	ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*MessagesResponse, error)
	SearchMessages(ctx context.Context, in *SearchMessagesRequest, opts ...grpc.CallOption) (*MessagesResponse, error)
	SubscribeMessages(ctx context.Context, in *ChatRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MessagesResponse], error)
	SubscribeTyping(ctx context.Context, in *ChatRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[TypingResponse], error)
	SubscribeChats(ctx context.Context, in *ListChatsRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[ChatsResponse], error)
	SubscribeTeams(ctx context.Context, in *Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[TeamsResponse], error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc: cc}
}

func (c *chatServiceClient) ListTeams(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TeamsResponse, error) {
	return invoke[Empty, TeamsResponse](ctx, c.cc, ChatService_ListTeams_FullMethodName, in, opts...)
}

func (c *chatServiceClient) ListChats(ctx context.Context, in *ListChatsRequest, opts ...grpc.CallOption) (*ChatsResponse, error) {
	return invoke[ListChatsRequest, ChatsResponse](ctx, c.cc, ChatService_ListChats_FullMethodName, in, opts...)
}

func (c *chatServiceClient) CreateChat(ctx context.Context, in *CreateChatRequest, opts ...grpc.CallOption) (*ChatResponse, error) {
	return invoke[CreateChatRequest, ChatResponse](ctx, c.cc, ChatService_CreateChat_FullMethodName, in, opts...)
}

func (c *chatServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[SendMessageRequest, MessageResponse](ctx, c.cc, ChatService_SendMessage_FullMethodName, in, opts...)
}

func (c *chatServiceClient) EditMessage(ctx context.Context, in *EditMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[EditMessageRequest, MessageResponse](ctx, c.cc, ChatService_EditMessage_FullMethodName, in, opts...)
}

func (c *chatServiceClient) DeleteMessage(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[MessageRequest, Empty](ctx, c.cc, ChatService_DeleteMessage_FullMethodName, in, opts...)
}

func (c *chatServiceClient) ToggleReaction(ctx context.Context, in *ToggleReactionRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[ToggleReactionRequest, MessageResponse](ctx, c.cc, ChatService_ToggleReaction_FullMethodName, in, opts...)
}

func (c *chatServiceClient) MarkRead(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[MessageRequest, Empty](ctx, c.cc, ChatService_MarkRead_FullMethodName, in, opts...)
}

func (c *chatServiceClient) SetTyping(ctx context.Context, in *SetTypingRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SetTypingRequest, Empty](ctx, c.cc, ChatService_SetTyping_FullMethodName, in, opts...)
}

func (c *chatServiceClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return invoke[ListMessagesRequest, MessagesResponse](ctx, c.cc, ChatService_ListMessages_FullMethodName, in, opts...)
}

func (c *chatServiceClient) SearchMessages(ctx context.Context, in *SearchMessagesRequest, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return invoke[SearchMessagesRequest, MessagesResponse](ctx, c.cc, ChatService_SearchMessages_FullMethodName, in, opts...)
}

func (c *chatServiceClient) SubscribeMessages(ctx context.Context, in *ChatRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MessagesResponse], error) {
	return openServerStream[ChatRequest, MessagesResponse](ctx, c.cc, &ChatService_ServiceDesc.Streams[0], ChatService_SubscribeMessages_FullMethodName, in, opts...)
}

func (c *chatServiceClient) SubscribeTyping(ctx context.Context, in *ChatRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[TypingResponse], error) {
	return openServerStream[ChatRequest, TypingResponse](ctx, c.cc, &ChatService_ServiceDesc.Streams[1], ChatService_SubscribeTyping_FullMethodName, in, opts...)
}

func (c *chatServiceClient) SubscribeChats(ctx context.Context, in *ListChatsRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[ChatsResponse], error) {
	return openServerStream[ListChatsRequest, ChatsResponse](ctx, c.cc, &ChatService_ServiceDesc.Streams[2], ChatService_SubscribeChats_FullMethodName, in, opts...)
}

func (c *chatServiceClient) SubscribeTeams(ctx context.Context, in *Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[TeamsResponse], error) {
	return openServerStream[Empty, TeamsResponse](ctx, c.cc, &ChatService_ServiceDesc.Streams[3], ChatService_SubscribeTeams_FullMethodName, in, opts...)
}
