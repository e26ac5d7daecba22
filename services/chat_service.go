package services

import (
	"context"
	"log/slog"
	"teamchat/auth"
	"teamchat/contract"
	"teamchat/domain"
	"teamchat/domain/event"
	"teamchat/errors"
	"teamchat/moderation"
	"teamchat/repositories"
	"time"

	"github.com/samber/lo"
)

const defaultSearchLimit = 20

// IChatService is the messaging feature: teams, chats, messages, typing
// presence, reactions and read receipts. Every operation acts on behalf of
// the user id carried by the command or argument.
type IChatService interface {
	ListTeams(ctx context.Context, userID string) ([]domain.Team, error)
	ListChats(ctx context.Context, userID string, teamID domain.TeamID) ([]domain.Chat, error)
	CreateChat(ctx context.Context, cmd domain.CreateChatCommand) (domain.Chat, error)
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	EditMessage(ctx context.Context, cmd domain.EditMessageCommand) (domain.Message, error)
	DeleteMessage(ctx context.Context, userID string, id domain.MessageID) error
	ToggleReaction(ctx context.Context, cmd domain.ReactCommand) (domain.Message, error)
	MarkRead(ctx context.Context, userID string, id domain.MessageID) error
	SetTyping(ctx context.Context, cmd domain.SetTypingCommand) error
	ListMessages(ctx context.Context, userID string, chatID domain.ChatID, cursor *string) ([]domain.Message, *string, error)
	SearchMessages(ctx context.Context, userID string, teamID domain.TeamID, query string, limit int) ([]domain.Message, error)
	SubscribeMessages(ctx context.Context, userID string, chatID domain.ChatID, sink contract.SnapshotSink) (func(), error)
	SubscribeTyping(ctx context.Context, userID string, chatID domain.ChatID, sink contract.SnapshotSink) (func(), error)
	SubscribeChats(ctx context.Context, userID string, teamID domain.TeamID, sink contract.SnapshotSink) (func(), error)
	SubscribeTeams(ctx context.Context, userID string, sink contract.SnapshotSink) (func(), error)
	RequireChatMember(userID string, chatID domain.ChatID) error
	RequireTeamMember(userID string, teamID domain.TeamID) error
}

type ChatService struct {
	log        *slog.Logger
	teams      repositories.ITeamRepository
	chats      repositories.IChatRepository
	messages   repositories.IMessageRepository
	typing     repositories.ITypingRepository
	index      repositories.IMessageIndex
	moderator  moderation.IModerator
	notifier   contract.Notifier
	subscriber contract.Subscriber
}

func NewChatService(log *slog.Logger,
	teams repositories.ITeamRepository,
	chats repositories.IChatRepository,
	messages repositories.IMessageRepository,
	typing repositories.ITypingRepository,
	index repositories.IMessageIndex,
	moderator moderation.IModerator,
	notifier contract.Notifier,
	subscriber contract.Subscriber) *ChatService {
	return &ChatService{
		log:        log,
		teams:      teams,
		chats:      chats,
		messages:   messages,
		typing:     typing,
		index:      index,
		moderator:  moderator,
		notifier:   notifier,
		subscriber: subscriber,
	}
}

func (s *ChatService) ListTeams(_ context.Context, userID string) ([]domain.Team, error) {
	return s.teams.ListTeamsForUser(userID)
}

// ListChats returns the chats of the team the user takes part in, oldest first.
func (s *ChatService) ListChats(_ context.Context, userID string, teamID domain.TeamID) ([]domain.Chat, error) {
	if _, err := teamForMember(s.teams, teamID, userID); err != nil {
		return nil, err
	}
	chats, err := s.chats.ListChats(teamID)
	if err != nil {
		return nil, err
	}
	return VisibleChats(chats, userID), nil
}

func (s *ChatService) CreateChat(ctx context.Context, cmd domain.CreateChatCommand) (domain.Chat, error) {
	team, err := s.teams.GetTeam(cmd.TeamID)
	if err != nil {
		return domain.Chat{}, err
	}
	chat, err := domain.NewChat(team, cmd.Name, cmd.UserID, cmd.Members, time.Now().UTC())
	if err != nil {
		return domain.Chat{}, err
	}
	if err := auth.Validate(cmd); err != nil {
		return domain.Chat{}, err
	}
	if err := s.chats.CreateChat(chat); err != nil {
		return domain.Chat{}, err
	}
	s.log.Debug("Chat created", "chat_id", chat.ID, "team_id", team.ID, "members", len(chat.Members))
	s.notifier.Notify(ctx, event.ChatsChanged{TeamID: string(team.ID)})
	return chat, nil
}

// SendMessage appends a message and clears the typing presence of its
// sender in that chat.
func (s *ChatService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	if cmd.ChatID == "" {
		return domain.Message{}, errors.ErrChatNotSelected
	}
	if _, err := domain.NormalizeText(cmd.Text); err != nil {
		return domain.Message{}, err
	}
	if err := auth.Validate(cmd); err != nil {
		return domain.Message{}, err
	}
	if _, err := chatForMember(s.teams, s.chats, cmd.ChatID, cmd.UserID); err != nil {
		return domain.Message{}, err
	}

	verdict := s.moderator.Inspect(cmd.Text)
	message, err := domain.NewMessage(cmd.ChatID, cmd.UserID, verdict.Text, time.Now().UTC())
	if err != nil {
		return domain.Message{}, err
	}
	message.Language = verdict.Language
	if len(verdict.Words) > 0 {
		s.log.Info("Message censored", "chat_id", cmd.ChatID, "sender_id", cmd.UserID, "words", len(verdict.Words))
	}

	if err := s.messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}
	if err := s.typing.ClearTyping(cmd.ChatID, cmd.UserID); err != nil {
		s.log.Warn("Typing presence not cleared", "chat_id", cmd.ChatID, "user_id", cmd.UserID, "error", err)
	}
	s.indexMessage(message)

	s.notifier.Notify(ctx,
		event.MessagesChanged{ChatID: string(cmd.ChatID)},
		event.TypingChanged{ChatID: string(cmd.ChatID)})
	return message, nil
}

// EditMessage overwrites the text of a message. Only its sender may edit it.
func (s *ChatService) EditMessage(ctx context.Context, cmd domain.EditMessageCommand) (domain.Message, error) {
	if _, err := domain.NormalizeText(cmd.Text); err != nil {
		return domain.Message{}, err
	}
	if err := auth.Validate(cmd); err != nil {
		return domain.Message{}, err
	}
	verdict := s.moderator.Inspect(cmd.Text)

	message, _, err := s.messages.UpdateMessage(cmd.MessageID, func(m *domain.Message) (bool, error) {
		if !m.IsSender(cmd.UserID) {
			return false, errors.ErrNotMessageSender
		}
		if err := m.Edit(verdict.Text, time.Now().UTC()); err != nil {
			return false, err
		}
		m.Language = verdict.Language
		return true, nil
	})
	if err != nil {
		return domain.Message{}, err
	}
	s.indexMessage(message)
	s.notifier.Notify(ctx, event.MessagesChanged{ChatID: string(message.ChatID)})
	return message, nil
}

// DeleteMessage removes a message permanently. Only its sender may delete it.
func (s *ChatService) DeleteMessage(ctx context.Context, userID string, id domain.MessageID) error {
	message, err := s.messages.GetMessage(id)
	if err != nil {
		return err
	}
	if !message.IsSender(userID) {
		return errors.ErrNotMessageSender
	}
	if _, err := s.messages.DeleteMessage(id); err != nil {
		return err
	}
	if err := s.index.Remove(id); err != nil {
		s.log.Warn("Message not removed from search index", "message_id", id, "error", err)
	}
	s.notifier.Notify(ctx, event.MessagesChanged{ChatID: string(message.ChatID)})
	return nil
}

func (s *ChatService) ToggleReaction(ctx context.Context, cmd domain.ReactCommand) (domain.Message, error) {
	if err := auth.Validate(cmd); err != nil {
		return domain.Message{}, err
	}
	if err := s.requireMessageAccess(cmd.MessageID, cmd.UserID); err != nil {
		return domain.Message{}, err
	}
	message, _, err := s.messages.UpdateMessage(cmd.MessageID, func(m *domain.Message) (bool, error) {
		if _, err := m.ToggleReaction(cmd.Symbol, cmd.UserID); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return domain.Message{}, err
	}
	s.notifier.Notify(ctx, event.MessagesChanged{ChatID: string(message.ChatID)})
	return message, nil
}

// MarkRead adds the user to the readers of a message. Marking twice is a no-op.
func (s *ChatService) MarkRead(ctx context.Context, userID string, id domain.MessageID) error {
	if err := s.requireMessageAccess(id, userID); err != nil {
		return err
	}
	message, changed, err := s.messages.UpdateMessage(id, func(m *domain.Message) (bool, error) {
		return m.MarkRead(userID), nil
	})
	if err != nil {
		return err
	}
	if changed {
		s.notifier.Notify(ctx, event.MessagesChanged{ChatID: string(message.ChatID)})
	}
	return nil
}

func (s *ChatService) SetTyping(ctx context.Context, cmd domain.SetTypingCommand) error {
	if cmd.ChatID == "" {
		return errors.ErrChatNotSelected
	}
	if err := auth.Validate(cmd); err != nil {
		return err
	}
	if _, err := chatForMember(s.teams, s.chats, cmd.ChatID, cmd.UserID); err != nil {
		return err
	}

	var err error
	if cmd.Typing {
		err = s.typing.SetTyping(domain.Typing{
			ChatID:      cmd.ChatID,
			UserID:      cmd.UserID,
			DisplayName: cmd.DisplayName,
			At:          time.Now().UTC(),
		})
	} else {
		err = s.typing.ClearTyping(cmd.ChatID, cmd.UserID)
	}
	if err != nil {
		return err
	}
	s.notifier.Notify(ctx, event.TypingChanged{ChatID: string(cmd.ChatID)})
	return nil
}

// ListMessages pages backwards through the history of a chat.
func (s *ChatService) ListMessages(_ context.Context, userID string, chatID domain.ChatID, cursor *string) ([]domain.Message, *string, error) {
	if _, err := chatForMember(s.teams, s.chats, chatID, userID); err != nil {
		return nil, nil, err
	}
	return s.messages.GetMessages(chatID, cursor)
}

// SearchMessages runs a full-text query over the chats of a team the user
// can see. Results are ordered by relevance.
func (s *ChatService) SearchMessages(ctx context.Context, userID string, teamID domain.TeamID, query string, limit int) ([]domain.Message, error) {
	chats, err := s.ListChats(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	ids, err := s.index.Search(ctx, lo.Map(chats, func(c domain.Chat, _ int) domain.ChatID { return c.ID }), query, limit)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := s.messages.GetMessage(id)
		if err != nil {
			// Index lags behind deletes
			s.log.Debug("Search hit without message", "message_id", id, "error", err)
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (s *ChatService) SubscribeMessages(ctx context.Context, userID string, chatID domain.ChatID, sink contract.SnapshotSink) (func(), error) {
	if _, err := chatForMember(s.teams, s.chats, chatID, userID); err != nil {
		return nil, err
	}
	return s.subscriber.Subscribe(ctx, event.MessagesChanged{ChatID: string(chatID)}.Topic(), sink)
}

func (s *ChatService) SubscribeTyping(ctx context.Context, userID string, chatID domain.ChatID, sink contract.SnapshotSink) (func(), error) {
	if _, err := chatForMember(s.teams, s.chats, chatID, userID); err != nil {
		return nil, err
	}
	return s.subscriber.Subscribe(ctx, event.TypingChanged{ChatID: string(chatID)}.Topic(), sink)
}

// SubscribeChats streams every chat of the team; callers narrow the
// snapshot down with VisibleChats.
func (s *ChatService) SubscribeChats(ctx context.Context, userID string, teamID domain.TeamID, sink contract.SnapshotSink) (func(), error) {
	if _, err := teamForMember(s.teams, teamID, userID); err != nil {
		return nil, err
	}
	return s.subscriber.Subscribe(ctx, event.ChatsChanged{TeamID: string(teamID)}.Topic(), sink)
}

func (s *ChatService) SubscribeTeams(ctx context.Context, userID string, sink contract.SnapshotSink) (func(), error) {
	return s.subscriber.Subscribe(ctx, event.TeamsChanged{UserID: userID}.Topic(), sink)
}

// RequireChatMember is checked again on every snapshot of a live chat
// stream, so a member removed from the team stops receiving them.
func (s *ChatService) RequireChatMember(userID string, chatID domain.ChatID) error {
	_, err := chatForMember(s.teams, s.chats, chatID, userID)
	return err
}

func (s *ChatService) RequireTeamMember(userID string, teamID domain.TeamID) error {
	_, err := teamForMember(s.teams, teamID, userID)
	return err
}

// Loaders computes the snapshots of the topics owned by the chat service.
func (s *ChatService) Loaders() map[event.Kind]contract.SnapshotLoader {
	return map[event.Kind]contract.SnapshotLoader{
		event.KindTeams: func(_ context.Context, topic event.Topic) (any, error) {
			return s.teams.ListTeamsForUser(topic.Key)
		},
		event.KindChats: func(_ context.Context, topic event.Topic) (any, error) {
			return s.chats.ListChats(domain.TeamID(topic.Key))
		},
		event.KindMessages: func(_ context.Context, topic event.Topic) (any, error) {
			return s.messages.ListMessages(domain.ChatID(topic.Key))
		},
		event.KindTyping: func(_ context.Context, topic event.Topic) (any, error) {
			return s.typing.ListTyping(domain.ChatID(topic.Key))
		},
	}
}

func (s *ChatService) requireMessageAccess(id domain.MessageID, userID string) error {
	message, err := s.messages.GetMessage(id)
	if err != nil {
		return err
	}
	_, err = chatForMember(s.teams, s.chats, message.ChatID, userID)
	return err
}

func (s *ChatService) indexMessage(message domain.Message) {
	if err := s.index.Index(message); err != nil {
		s.log.Warn("Message not indexed", "message_id", message.ID, "error", err)
	}
}
