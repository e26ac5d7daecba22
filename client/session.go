package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"teamchat/api"
	"teamchat/errors"
	"time"

	"github.com/samber/lo"
)

// State is a copy of what the interface renders.
type State struct {
	UserID       string
	DisplayName  string
	Teams        []api.Team
	SelectedTeam string
	Chats        []api.Chat
	SelectedChat string
	Messages     []api.Message
	Typing       []api.Typing
	Notice       string
}

// subscription is the pair of live queries of the open chat.
type subscription struct {
	chatID string
	cancel context.CancelFunc
	done   sync.WaitGroup
}

type Session struct {
	backend  Backend
	log      *slog.Logger
	onChange func()

	// held from closing the open chat until the next one is installed
	selectMu sync.Mutex

	// orders presence writes against sends, see typing
	typingMu sync.Mutex
	sentAt   time.Time

	mu      sync.Mutex
	state   State
	current *subscription
	// chat id -> message ids already sent to MarkRead
	marked map[string]struct{}
}

// NewSession starts a session for an already signed-in user. onChange is
// called, without any lock held, after every state change.
func NewSession(log *slog.Logger, backend Backend, userID, displayName string, onChange func()) *Session {
	if onChange == nil {
		onChange = func() {}
	}
	return &Session{
		backend:  backend,
		log:      log,
		onChange: onChange,
		state:    State{UserID: userID, DisplayName: displayName},
		marked:   make(map[string]struct{}),
	}
}

// State returns a snapshot safe to read without locking.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Teams = append([]api.Team(nil), s.state.Teams...)
	state.Chats = append([]api.Chat(nil), s.state.Chats...)
	state.Messages = append([]api.Message(nil), s.state.Messages...)
	state.Typing = append([]api.Typing(nil), s.state.Typing...)
	return state
}

func (s *Session) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	s.mu.Unlock()
	s.onChange()
}

// notify records a human readable failure. The operation is abandoned.
func (s *Session) notify(op ActionKind, err error) {
	s.log.Warn("Action failed", "action", op, "error", err)
	s.update(func(st *State) { st.Notice = fmt.Sprintf("%s failed: %v", op, err) })
}

func (s *Session) DismissNotice() {
	s.update(func(st *State) { st.Notice = "" })
}

func (s *Session) loadTeams(ctx context.Context, _ Action) error {
	teams, err := s.backend.ListTeams(ctx)
	if err != nil {
		s.update(func(st *State) { st.Teams = nil })
		return err
	}
	s.update(func(st *State) { st.Teams = teams })
	return nil
}

// selectTeam closes the open chat, then loads the chats of the new team.
func (s *Session) selectTeam(ctx context.Context, a Action) error {
	s.closeChat(func(st *State) {
		st.SelectedChat = ""
		st.Messages = nil
		st.Typing = nil
		st.SelectedTeam = a.TeamID
		st.Chats = nil
	})
	chats, err := s.backend.ListChats(ctx, a.TeamID)
	if err != nil {
		return err
	}
	s.update(func(st *State) {
		if st.SelectedTeam == a.TeamID {
			st.Chats = chats
		}
	})
	return nil
}

// selectChat tears down the previous subscription, waiting for it to be
// gone, before opening the new one.
func (s *Session) selectChat(_ context.Context, a Action) error {
	if a.ChatID == "" {
		return nil
	}
	s.selectMu.Lock()
	defer s.selectMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{chatID: a.ChatID, cancel: cancel}
	s.swapChat(sub, func(st *State) {
		st.SelectedChat = a.ChatID
		st.Messages = nil
		st.Typing = nil
	})

	sub.done.Add(2)
	go func() {
		defer sub.done.Done()
		err := s.backend.WatchMessages(ctx, a.ChatID, func(messages []api.Message) {
			s.receiveMessages(ctx, sub, messages)
		})
		s.watchEnded(ctx, ActionSelectChat, err)
	}()
	go func() {
		defer sub.done.Done()
		err := s.backend.WatchTyping(ctx, a.ChatID, func(typing []api.Typing) {
			s.receiveTyping(sub, typing)
		})
		s.watchEnded(ctx, ActionSelectChat, err)
	}()
	return nil
}

func (s *Session) watchEnded(ctx context.Context, op ActionKind, err error) {
	if err != nil && ctx.Err() == nil {
		s.notify(op, err)
	}
}

// closeChat cancels the live queries of the open chat, if any.
func (s *Session) closeChat(mutate func(*State)) {
	s.selectMu.Lock()
	defer s.selectMu.Unlock()
	s.swapChat(nil, mutate)
}

// swapChat installs next as the open chat and applies mutate in the same
// critical section, then stops the previous subscription and waits for its
// watchers to return. Callers hold selectMu.
func (s *Session) swapChat(next *subscription, mutate func(*State)) {
	s.mu.Lock()
	prev := s.current
	s.current = next
	if mutate != nil {
		mutate(&s.state)
	}
	s.mu.Unlock()
	s.onChange()
	if prev == nil {
		return
	}
	prev.cancel()
	prev.done.Wait()
	s.log.Debug("Chat subscription closed", "chat_id", prev.chatID)
}

func (s *Session) receiveMessages(ctx context.Context, sub *subscription, messages []api.Message) {
	s.mu.Lock()
	if s.current != sub {
		s.mu.Unlock()
		return
	}
	s.state.Messages = messages
	userID := s.state.UserID
	var unread []string
	for _, m := range messages {
		if lo.Contains(m.ReadBy, userID) {
			continue
		}
		if _, ok := s.marked[m.ID]; ok {
			continue
		}
		s.marked[m.ID] = struct{}{}
		unread = append(unread, m.ID)
	}
	s.mu.Unlock()
	s.onChange()

	// Rendering a message counts as reading it
	for _, id := range unread {
		if err := s.backend.MarkRead(ctx, id); err != nil && ctx.Err() == nil {
			s.log.Debug("Mark read failed", "message_id", id, "error", err)
		}
	}
}

func (s *Session) receiveTyping(sub *subscription, typing []api.Typing) {
	s.mu.Lock()
	if s.current != sub {
		s.mu.Unlock()
		return
	}
	s.state.Typing = typing
	s.mu.Unlock()
	s.onChange()
}

func (s *Session) createChat(ctx context.Context, a Action) error {
	teamID := s.State().SelectedTeam
	if teamID == "" {
		return nil
	}
	if _, err := s.backend.CreateChat(ctx, teamID, a.Text, a.Members); err != nil {
		return err
	}
	chats, err := s.backend.ListChats(ctx, teamID)
	if err != nil {
		return err
	}
	s.update(func(st *State) {
		if st.SelectedTeam == teamID {
			st.Chats = chats
		}
	})
	return nil
}

// send ignores blank text and a missing chat selection. It waits for a
// presence write in flight, since the server clears presence on send.
func (s *Session) send(ctx context.Context, a Action) error {
	chatID := s.State().SelectedChat
	if chatID == "" || strings.TrimSpace(a.Text) == "" {
		return nil
	}
	s.typingMu.Lock()
	defer s.typingMu.Unlock()
	if a.IssuedAt.After(s.sentAt) {
		s.sentAt = a.IssuedAt
	}
	return s.backend.SendMessage(ctx, chatID, a.Text)
}

// edit and remove are only offered on the user's own messages.
func (s *Session) edit(ctx context.Context, a Action) error {
	if strings.TrimSpace(a.Text) == "" || !s.ownsMessage(a.MessageID) {
		return nil
	}
	return s.backend.EditMessage(ctx, a.MessageID, a.Text)
}

func (s *Session) remove(ctx context.Context, a Action) error {
	if !s.ownsMessage(a.MessageID) {
		return nil
	}
	return s.backend.DeleteMessage(ctx, a.MessageID)
}

func (s *Session) react(ctx context.Context, a Action) error {
	if a.MessageID == "" || strings.TrimSpace(a.Symbol) == "" {
		return nil
	}
	return s.backend.ToggleReaction(ctx, a.MessageID, a.Symbol)
}

// typing drops a start issued before the last send: reaching the server
// after the send, it would bring back the presence the send cleared.
func (s *Session) typing(on bool) handler {
	return func(ctx context.Context, a Action) error {
		chatID := s.State().SelectedChat
		if chatID == "" {
			return nil
		}
		s.typingMu.Lock()
		defer s.typingMu.Unlock()
		if on && !a.IssuedAt.IsZero() && !a.IssuedAt.After(s.sentAt) {
			s.log.Debug("Stale typing dropped", "chat_id", chatID)
			return nil
		}
		return s.backend.SetTyping(ctx, chatID, on)
	}
}

func (s *Session) leave(_ context.Context, _ Action) error {
	s.closeChat(func(st *State) {
		st.SelectedChat = ""
		st.Messages = nil
		st.Typing = nil
	})
	return nil
}

// CanModify tells whether edit and delete are offered for a message.
func (s *Session) CanModify(message api.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return message.SenderID == s.state.UserID
}

func (s *Session) ownsMessage(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := lo.Find(s.state.Messages, func(m api.Message) bool { return m.ID == id })
	return ok && m.SenderID == s.state.UserID
}

// Close releases the open chat subscription.
func (s *Session) Close() {
	s.closeChat(nil)
}

func errUnknownAction(kind ActionKind) error {
	return fmt.Errorf("%w: unknown action %q", errors.ErrInvalidCommand, kind)
}
