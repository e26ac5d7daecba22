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

type ChatServer struct {
	chatService services.IChatService
	streams     StreamConfig
	log         *slog.Logger
}

func NewChatServer(log *slog.Logger, chatService services.IChatService, streams StreamConfig) *ChatServer {
	return &ChatServer{chatService: chatService, streams: streams, log: log}
}

func (s *ChatServer) ListTeams(ctx context.Context, _ *api.Empty) (*api.TeamsResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.chatService.ListTeams(ctx, identity.UserID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.TeamsResponse{Teams: lo.Map(teams, toTeam)}, nil
}

func (s *ChatServer) ListChats(ctx context.Context, req *api.ListChatsRequest) (*api.ChatsResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	chats, err := s.chatService.ListChats(ctx, identity.UserID, domain.TeamID(req.TeamID))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.ChatsResponse{TeamID: req.TeamID, Chats: lo.Map(chats, toChat)}, nil
}

func (s *ChatServer) CreateChat(ctx context.Context, req *api.CreateChatRequest) (*api.ChatResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := s.chatService.CreateChat(ctx, domain.CreateChatCommand{
		UserID:  identity.UserID,
		TeamID:  domain.TeamID(req.TeamID),
		Name:    req.Name,
		Members: req.Members,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.ChatResponse{Chat: toChat(chat, 0)}, nil
}

// SendMessage returns the stored message. Subscribers of the chat, the
// sender included, also receive it through their next snapshot.
func (s *ChatServer) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.MessageResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	message, err := s.chatService.SendMessage(ctx, domain.SendMessageCommand{
		UserID: identity.UserID,
		ChatID: domain.ChatID(req.ChatID),
		Text:   req.Text,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.MessageResponse{Message: toMessage(message, 0)}, nil
}

func (s *ChatServer) EditMessage(ctx context.Context, req *api.EditMessageRequest) (*api.MessageResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	message, err := s.chatService.EditMessage(ctx, domain.EditMessageCommand{
		UserID:    identity.UserID,
		MessageID: domain.MessageID(req.MessageID),
		Text:      req.Text,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.MessageResponse{Message: toMessage(message, 0)}, nil
}

func (s *ChatServer) DeleteMessage(ctx context.Context, req *api.MessageRequest) (*api.Empty, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.chatService.DeleteMessage(ctx, identity.UserID, domain.MessageID(req.MessageID)); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.Empty{}, nil
}

func (s *ChatServer) ToggleReaction(ctx context.Context, req *api.ToggleReactionRequest) (*api.MessageResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	message, err := s.chatService.ToggleReaction(ctx, domain.ReactCommand{
		UserID:    identity.UserID,
		MessageID: domain.MessageID(req.MessageID),
		Symbol:    req.Symbol,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.MessageResponse{Message: toMessage(message, 0)}, nil
}

func (s *ChatServer) MarkRead(ctx context.Context, req *api.MessageRequest) (*api.Empty, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.chatService.MarkRead(ctx, identity.UserID, domain.MessageID(req.MessageID)); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.Empty{}, nil
}

func (s *ChatServer) SetTyping(ctx context.Context, req *api.SetTypingRequest) (*api.Empty, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	err = s.chatService.SetTyping(ctx, domain.SetTypingCommand{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		ChatID:      domain.ChatID(req.ChatID),
		Typing:      req.Typing,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.Empty{}, nil
}

func (s *ChatServer) ListMessages(ctx context.Context, req *api.ListMessagesRequest) (*api.MessagesResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	messages, cursor, err := s.chatService.ListMessages(ctx, identity.UserID, domain.ChatID(req.ChatID), req.Cursor)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.MessagesResponse{
		ChatID:   req.ChatID,
		Messages: lo.Map(messages, toMessage),
		Cursor:   cursor,
	}, nil
}

func (s *ChatServer) SearchMessages(ctx context.Context, req *api.SearchMessagesRequest) (*api.MessagesResponse, error) {
	identity, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := s.chatService.SearchMessages(ctx, identity.UserID, domain.TeamID(req.TeamID), req.Query, req.Limit)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.MessagesResponse{Messages: lo.Map(messages, toMessage)}, nil
}

// SubscribeMessages blocks until the client disconnects, pushing the full
// message list of the chat each time it changes. The stream ends with
// PermissionDenied once the caller loses access to the chat.
func (s *ChatServer) SubscribeMessages(req *api.ChatRequest, stream grpc.ServerStreamingServer[api.MessagesResponse]) error {
	ctx := stream.Context()
	identity, err := caller(ctx)
	if err != nil {
		return err
	}
	return subscription(ctx, s.log, s.streams,
		func(sink contract.SnapshotSink) (func(), error) {
			return s.chatService.SubscribeMessages(ctx, identity.UserID, domain.ChatID(req.ChatID), sink)
		},
		func(snapshot contract.Snapshot) (*api.MessagesResponse, error) {
			if err := s.chatService.RequireChatMember(identity.UserID, domain.ChatID(req.ChatID)); err != nil {
				return nil, err
			}
			messages, err := items[domain.Message](snapshot)
			if err != nil {
				return nil, err
			}
			return &api.MessagesResponse{ChatID: req.ChatID, Messages: lo.Map(messages, toMessage)}, nil
		},
		stream.Send)
}

func (s *ChatServer) SubscribeTyping(req *api.ChatRequest, stream grpc.ServerStreamingServer[api.TypingResponse]) error {
	ctx := stream.Context()
	identity, err := caller(ctx)
	if err != nil {
		return err
	}
	return subscription(ctx, s.log, s.streams,
		func(sink contract.SnapshotSink) (func(), error) {
			return s.chatService.SubscribeTyping(ctx, identity.UserID, domain.ChatID(req.ChatID), sink)
		},
		func(snapshot contract.Snapshot) (*api.TypingResponse, error) {
			if err := s.chatService.RequireChatMember(identity.UserID, domain.ChatID(req.ChatID)); err != nil {
				return nil, err
			}
			typing, err := items[domain.Typing](snapshot)
			if err != nil {
				return nil, err
			}
			return &api.TypingResponse{ChatID: req.ChatID, Typing: lo.Map(typing, toTyping)}, nil
		},
		stream.Send)
}

// SubscribeChats only ever shows the chats the caller is a member of.
func (s *ChatServer) SubscribeChats(req *api.ListChatsRequest, stream grpc.ServerStreamingServer[api.ChatsResponse]) error {
	ctx := stream.Context()
	identity, err := caller(ctx)
	if err != nil {
		return err
	}
	return subscription(ctx, s.log, s.streams,
		func(sink contract.SnapshotSink) (func(), error) {
			return s.chatService.SubscribeChats(ctx, identity.UserID, domain.TeamID(req.TeamID), sink)
		},
		func(snapshot contract.Snapshot) (*api.ChatsResponse, error) {
			if err := s.chatService.RequireTeamMember(identity.UserID, domain.TeamID(req.TeamID)); err != nil {
				return nil, err
			}
			chats, err := items[domain.Chat](snapshot)
			if err != nil {
				return nil, err
			}
			visible := services.VisibleChats(chats, identity.UserID)
			return &api.ChatsResponse{TeamID: req.TeamID, Chats: lo.Map(visible, toChat)}, nil
		},
		stream.Send)
}

func (s *ChatServer) SubscribeTeams(_ *api.Empty, stream grpc.ServerStreamingServer[api.TeamsResponse]) error {
	ctx := stream.Context()
	identity, err := caller(ctx)
	if err != nil {
		return err
	}
	return subscription(ctx, s.log, s.streams,
		func(sink contract.SnapshotSink) (func(), error) {
			return s.chatService.SubscribeTeams(ctx, identity.UserID, sink)
		},
		func(snapshot contract.Snapshot) (*api.TeamsResponse, error) {
			teams, err := items[domain.Team](snapshot)
			if err != nil {
				return nil, err
			}
			return &api.TeamsResponse{Teams: lo.Map(teams, toTeam)}, nil
		},
		stream.Send)
}
