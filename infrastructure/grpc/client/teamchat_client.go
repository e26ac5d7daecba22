package client

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"teamchat/api"

	"github.com/samber/lo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const chunkSize = 32 * 1024

// TeamchatClient is a typed client over every teamchat service. Once
// Login or Register succeeds, the session token is attached to each call.
type TeamchatClient struct {
	conn          *grpc.ClientConn
	auth          api.AuthServiceClient
	chat          api.ChatServiceClient
	teams         api.TeamServiceClient
	announcements api.AnnouncementServiceClient
	resources     api.ResourceServiceClient

	mu      sync.RWMutex
	session api.SessionResponse
}

// Dial opens a plaintext connection to target. Extra options are appended,
// which is how tests plug an in-memory dialer.
func Dial(target string, opts ...grpc.DialOption) (*TeamchatClient, error) {
	c := &TeamchatClient{}
	options := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)),
		grpc.WithChainUnaryInterceptor(c.unaryToken),
		grpc.WithChainStreamInterceptor(c.streamToken),
	}, opts...)
	conn, err := grpc.NewClient(target, options...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.auth = api.NewAuthServiceClient(conn)
	c.chat = api.NewChatServiceClient(conn)
	c.teams = api.NewTeamServiceClient(conn)
	c.announcements = api.NewAnnouncementServiceClient(conn)
	c.resources = api.NewResourceServiceClient(conn)
	return c, nil
}

func (c *TeamchatClient) Close() error {
	return c.conn.Close()
}

func (c *TeamchatClient) withToken(ctx context.Context) context.Context {
	c.mu.RLock()
	token := c.session.Token
	c.mu.RUnlock()
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func (c *TeamchatClient) unaryToken(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	return invoker(c.withToken(ctx), method, req, reply, cc, opts...)
}

func (c *TeamchatClient) streamToken(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return streamer(c.withToken(ctx), desc, cc, method, opts...)
}

// Session returns the signed-in user, empty before Login or Register.
func (c *TeamchatClient) Session() api.SessionResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *TeamchatClient) Register(ctx context.Context, email, displayName, password string) (api.SessionResponse, error) {
	res, err := c.auth.Register(ctx, &api.RegisterRequest{Email: email, DisplayName: displayName, Password: password})
	if err != nil {
		return api.SessionResponse{}, err
	}
	c.setSession(*res)
	return *res, nil
}

func (c *TeamchatClient) Login(ctx context.Context, email, password string) (api.SessionResponse, error) {
	res, err := c.auth.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return api.SessionResponse{}, err
	}
	c.setSession(*res)
	return *res, nil
}

func (c *TeamchatClient) setSession(session api.SessionResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}

// Teams

func (c *TeamchatClient) CreateTeam(ctx context.Context, name string, members []string) (api.Team, error) {
	res, err := c.teams.CreateTeam(ctx, &api.CreateTeamRequest{Name: name, Members: members})
	if err != nil {
		return api.Team{}, err
	}
	return res.Team, nil
}

func (c *TeamchatClient) GetTeam(ctx context.Context, teamID string) (api.Team, error) {
	res, err := c.teams.GetTeam(ctx, &api.TeamRequest{TeamID: teamID})
	if err != nil {
		return api.Team{}, err
	}
	return res.Team, nil
}

func (c *TeamchatClient) AddMember(ctx context.Context, teamID, userID string) (api.Team, error) {
	res, err := c.teams.AddMember(ctx, &api.MemberRequest{TeamID: teamID, UserID: userID})
	if err != nil {
		return api.Team{}, err
	}
	return res.Team, nil
}

func (c *TeamchatClient) RemoveMember(ctx context.Context, teamID, userID string) (api.Team, error) {
	res, err := c.teams.RemoveMember(ctx, &api.MemberRequest{TeamID: teamID, UserID: userID})
	if err != nil {
		return api.Team{}, err
	}
	return res.Team, nil
}

// Chats and messages

func (c *TeamchatClient) ListTeams(ctx context.Context) ([]api.Team, error) {
	res, err := c.chat.ListTeams(ctx, &api.Empty{})
	if err != nil {
		return nil, err
	}
	return res.Teams, nil
}

func (c *TeamchatClient) ListChats(ctx context.Context, teamID string) ([]api.Chat, error) {
	res, err := c.chat.ListChats(ctx, &api.ListChatsRequest{TeamID: teamID})
	if err != nil {
		return nil, err
	}
	return res.Chats, nil
}

func (c *TeamchatClient) CreateChat(ctx context.Context, teamID, name string, members []string) (api.Chat, error) {
	res, err := c.chat.CreateChat(ctx, &api.CreateChatRequest{TeamID: teamID, Name: name, Members: members})
	if err != nil {
		return api.Chat{}, err
	}
	return res.Chat, nil
}

func (c *TeamchatClient) SendMessage(ctx context.Context, chatID, text string) error {
	_, err := c.chat.SendMessage(ctx, &api.SendMessageRequest{ChatID: chatID, Text: text})
	return err
}

func (c *TeamchatClient) EditMessage(ctx context.Context, messageID, text string) error {
	_, err := c.chat.EditMessage(ctx, &api.EditMessageRequest{MessageID: messageID, Text: text})
	return err
}

func (c *TeamchatClient) DeleteMessage(ctx context.Context, messageID string) error {
	_, err := c.chat.DeleteMessage(ctx, &api.MessageRequest{MessageID: messageID})
	return err
}

func (c *TeamchatClient) ToggleReaction(ctx context.Context, messageID, symbol string) error {
	_, err := c.chat.ToggleReaction(ctx, &api.ToggleReactionRequest{MessageID: messageID, Symbol: symbol})
	return err
}

func (c *TeamchatClient) MarkRead(ctx context.Context, messageID string) error {
	_, err := c.chat.MarkRead(ctx, &api.MessageRequest{MessageID: messageID})
	return err
}

func (c *TeamchatClient) SetTyping(ctx context.Context, chatID string, typing bool) error {
	_, err := c.chat.SetTyping(ctx, &api.SetTypingRequest{ChatID: chatID, Typing: typing})
	return err
}

// ListMessages returns one history page, oldest first, and the cursor of
// the next one.
func (c *TeamchatClient) ListMessages(ctx context.Context, chatID string, cursor *string) ([]api.Message, *string, error) {
	res, err := c.chat.ListMessages(ctx, &api.ListMessagesRequest{ChatID: chatID, Cursor: cursor})
	if err != nil {
		return nil, nil, err
	}
	return res.Messages, res.Cursor, nil
}

func (c *TeamchatClient) SearchMessages(ctx context.Context, teamID, query string, limit int) ([]api.Message, error) {
	res, err := c.chat.SearchMessages(ctx, &api.SearchMessagesRequest{TeamID: teamID, Query: query, Limit: limit})
	if err != nil {
		return nil, err
	}
	return res.Messages, nil
}

func (c *TeamchatClient) WatchMessages(ctx context.Context, chatID string, onSnapshot func([]api.Message)) error {
	stream, err := c.chat.SubscribeMessages(ctx, &api.ChatRequest{ChatID: chatID})
	if err != nil {
		return err
	}
	return watch(ctx, stream, func(res *api.MessagesResponse) { onSnapshot(res.Messages) })
}

func (c *TeamchatClient) WatchTyping(ctx context.Context, chatID string, onSnapshot func([]api.Typing)) error {
	stream, err := c.chat.SubscribeTyping(ctx, &api.ChatRequest{ChatID: chatID})
	if err != nil {
		return err
	}
	return watch(ctx, stream, func(res *api.TypingResponse) { onSnapshot(res.Typing) })
}

func (c *TeamchatClient) WatchChats(ctx context.Context, teamID string, onSnapshot func([]api.Chat)) error {
	stream, err := c.chat.SubscribeChats(ctx, &api.ListChatsRequest{TeamID: teamID})
	if err != nil {
		return err
	}
	return watch(ctx, stream, func(res *api.ChatsResponse) { onSnapshot(res.Chats) })
}

func (c *TeamchatClient) WatchTeams(ctx context.Context, onSnapshot func([]api.Team)) error {
	stream, err := c.chat.SubscribeTeams(ctx, &api.Empty{})
	if err != nil {
		return err
	}
	return watch(ctx, stream, func(res *api.TeamsResponse) { onSnapshot(res.Teams) })
}

// Announcements

func (c *TeamchatClient) PostAnnouncement(ctx context.Context, teamID, title, body string) (api.Announcement, error) {
	res, err := c.announcements.Post(ctx, &api.PostAnnouncementRequest{TeamID: teamID, Title: title, Body: body})
	if err != nil {
		return api.Announcement{}, err
	}
	return res.Announcement, nil
}

func (c *TeamchatClient) ListAnnouncements(ctx context.Context, teamID string) ([]api.Announcement, error) {
	res, err := c.announcements.List(ctx, &api.TeamRequest{TeamID: teamID})
	if err != nil {
		return nil, err
	}
	return res.Announcements, nil
}

func (c *TeamchatClient) DeleteAnnouncement(ctx context.Context, announcementID string) error {
	_, err := c.announcements.Delete(ctx, &api.AnnouncementRequest{AnnouncementID: announcementID})
	return err
}

func (c *TeamchatClient) WatchAnnouncements(ctx context.Context, teamID string, onSnapshot func([]api.Announcement)) error {
	stream, err := c.announcements.Subscribe(ctx, &api.TeamRequest{TeamID: teamID})
	if err != nil {
		return err
	}
	return watch(ctx, stream, func(res *api.AnnouncementsResponse) { onSnapshot(res.Announcements) })
}

// Resources

// Upload streams content in 32KB chunks. The first chunk also carries the
// metadata, so an empty reader still sends one message.
func (c *TeamchatClient) Upload(ctx context.Context, teamID, name string, content io.Reader) (api.Resource, error) {
	stream, err := c.resources.Upload(ctx)
	if err != nil {
		return api.Resource{}, err
	}

	first := true
	buf := make([]byte, chunkSize)
	for {
		n, readErr := content.Read(buf)
		if n > 0 || first {
			chunk := &api.UploadChunk{Data: append([]byte(nil), buf[:n]...)}
			if first {
				chunk.TeamID, chunk.Name = teamID, name
				first = false
			}
			if err = stream.Send(chunk); err != nil {
				return api.Resource{}, err
			}
		}
		if stderrors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return api.Resource{}, readErr
		}
	}

	res, err := stream.CloseAndRecv()
	if err != nil {
		return api.Resource{}, err
	}
	return res.Resource, nil
}

func (c *TeamchatClient) ListResources(ctx context.Context, teamID string) ([]api.Resource, error) {
	res, err := c.resources.List(ctx, &api.TeamRequest{TeamID: teamID})
	if err != nil {
		return nil, err
	}
	return res.Resources, nil
}

// Download writes the content of a resource to w and returns its metadata.
func (c *TeamchatClient) Download(ctx context.Context, resourceID string, w io.Writer) (api.Resource, error) {
	stream, err := c.resources.Download(ctx, &api.ResourceRequest{ResourceID: resourceID})
	if err != nil {
		return api.Resource{}, err
	}
	var resource api.Resource
	for {
		chunk, err := stream.Recv()
		if stderrors.Is(err, io.EOF) {
			return resource, nil
		}
		if err != nil {
			return api.Resource{}, err
		}
		if chunk.Resource != nil {
			resource = lo.FromPtr(chunk.Resource)
		}
		if _, err = w.Write(chunk.Data); err != nil {
			return api.Resource{}, err
		}
	}
}

func (c *TeamchatClient) DeleteResource(ctx context.Context, resourceID string) error {
	_, err := c.resources.Delete(ctx, &api.ResourceRequest{ResourceID: resourceID})
	return err
}

// watch forwards every snapshot until the stream ends. Cancelling ctx is
// the normal way out and is not reported as an error.
func watch[T any](ctx context.Context, stream grpc.ServerStreamingClient[T], onSnapshot func(*T)) error {
	for {
		res, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		onSnapshot(res)
	}
}
