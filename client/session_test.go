package client

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"teamchat/api"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeBackend serves canned data and keeps track of live watchers.
type fakeBackend struct {
	mu            sync.Mutex
	teams         []api.Team
	teamsErr      error
	chats         map[string][]api.Chat
	messages      map[string][]api.Message
	sent          []string
	edited        []string
	deleted       []string
	reactions     []string
	markedRead    []string
	typing        []bool
	activeWatches int
	maxWatches    int
	watchedChats  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		chats:    make(map[string][]api.Chat),
		messages: make(map[string][]api.Message),
	}
}

func (f *fakeBackend) ListTeams(context.Context) ([]api.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teams, f.teamsErr
}

func (f *fakeBackend) ListChats(_ context.Context, teamID string) ([]api.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chats[teamID], nil
}

func (f *fakeBackend) CreateChat(_ context.Context, teamID, name string, members []string) (api.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat := api.Chat{ID: name + "-id", TeamID: teamID, Name: name, Members: members}
	f.chats[teamID] = append(f.chats[teamID], chat)
	return chat, nil
}

func (f *fakeBackend) SendMessage(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeBackend) EditMessage(_ context.Context, messageID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edited = append(f.edited, messageID)
	return nil
}

func (f *fakeBackend) DeleteMessage(_ context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeBackend) ToggleReaction(_ context.Context, messageID, symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, messageID+symbol)
	return nil
}

func (f *fakeBackend) MarkRead(_ context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedRead = append(f.markedRead, messageID)
	return nil
}

func (f *fakeBackend) SetTyping(_ context.Context, _ string, typing bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing = append(f.typing, typing)
	return nil
}

func (f *fakeBackend) WatchMessages(ctx context.Context, chatID string, onSnapshot func([]api.Message)) error {
	f.mu.Lock()
	f.activeWatches++
	f.maxWatches = max(f.maxWatches, f.activeWatches)
	f.watchedChats = append(f.watchedChats, chatID)
	snapshot := f.messages[chatID]
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.activeWatches--
		f.mu.Unlock()
	}()

	onSnapshot(snapshot)
	<-ctx.Done()
	return nil
}

func (f *fakeBackend) WatchTyping(ctx context.Context, chatID string, onSnapshot func([]api.Typing)) error {
	onSnapshot([]api.Typing{{ChatID: chatID, UserID: "bob", DisplayName: "Bob"}})
	<-ctx.Done()
	return nil
}

func (f *fakeBackend) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeWatches
}

func newTestSession(backend Backend) *Session {
	return NewSession(slog.Default(), backend, "alice", "Alice", nil)
}

func TestSession_LoadTeams(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the teams of the user", func(t *testing.T) {
		req := require.New(t)
		backend := newFakeBackend()
		backend.teams = []api.Team{{ID: "t1", Name: "Platform"}}
		session := newTestSession(backend)

		req.NoError(session.Dispatch(ctx, Action{Kind: ActionLoadTeams}))
		req.Len(session.State().Teams, 1)
		req.Empty(session.State().Notice)
	})

	t.Run("a failure leaves an empty list and a notice", func(t *testing.T) {
		req := require.New(t)
		backend := newFakeBackend()
		backend.teamsErr = stderrors.New("store unreachable")
		session := newTestSession(backend)

		req.Error(session.Dispatch(ctx, Action{Kind: ActionLoadTeams}))
		req.Empty(session.State().Teams)
		req.Contains(session.State().Notice, "store unreachable")
	})
}

func TestSession_Switching_Chats_Keeps_One_Subscription(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	backend := newFakeBackend()
	backend.chats["t1"] = []api.Chat{{ID: "c1"}, {ID: "c2"}}
	backend.messages["c1"] = []api.Message{{ID: "m1", ChatID: "c1", SenderID: "bob", ReadBy: []string{"bob"}}}
	backend.messages["c2"] = []api.Message{{ID: "m2", ChatID: "c2", SenderID: "bob", ReadBy: []string{"bob", "alice"}}}
	session := newTestSession(backend)
	defer session.Close()

	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSelectTeam, TeamID: "t1"}))
	req.Len(session.State().Chats, 2)

	for _, chatID := range []string{"c1", "c2", "c1", "c2"} {
		req.NoError(session.Dispatch(ctx, Action{Kind: ActionSelectChat, ChatID: chatID}))
		req.Eventually(func() bool {
			state := session.State()
			return len(state.Messages) == 1 && state.Messages[0].ChatID == chatID
		}, time.Second, 5*time.Millisecond)
	}
	req.Eventually(func() bool { return backend.active() == 1 }, time.Second, 5*time.Millisecond)

	backend.mu.Lock()
	req.Equal(1, backend.maxWatches, "never two message subscriptions at once")
	req.Equal([]string{"c1", "c2", "c1", "c2"}, backend.watchedChats)
	req.Contains(backend.markedRead, "m1")
	req.NotContains(backend.markedRead, "m2", "already read messages are not marked again")
	backend.mu.Unlock()

	req.NoError(session.Dispatch(ctx, Action{Kind: ActionLeave}))
	req.Equal(0, backend.active())
	req.Empty(session.State().SelectedChat)
	req.Empty(session.State().Messages)
}

func TestSession_Concurrent_Selections_Leave_One_Subscription(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	backend := newFakeBackend()
	session := newTestSession(backend)
	defer session.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 50; i++ {
		for _, chatID := range []string{"c1", "c2"} {
			wg.Add(1)
			go func(chatID string) {
				defer wg.Done()
				errs <- session.Dispatch(ctx, Action{Kind: ActionSelectChat, ChatID: chatID})
			}(chatID)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	req.Eventually(func() bool { return backend.active() == 1 }, time.Second, 5*time.Millisecond)
	backend.mu.Lock()
	req.Equal(1, backend.maxWatches, "never two message subscriptions at once")
	req.Len(backend.watchedChats, 100)
	backend.mu.Unlock()

	session.Close()
	req.Equal(0, backend.active())
}

func TestSession_Selecting_Another_Team_Closes_The_Chat(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	backend := newFakeBackend()
	backend.chats["t1"] = []api.Chat{{ID: "c1"}}
	session := newTestSession(backend)

	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSelectTeam, TeamID: "t1"}))
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSelectChat, ChatID: "c1"}))
	req.Eventually(func() bool { return backend.active() == 1 }, time.Second, 5*time.Millisecond)

	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSelectTeam, TeamID: "t2"}))
	req.Equal(0, backend.active())
	req.Empty(session.State().Chats)
	req.Empty(session.State().SelectedChat)
}

func TestSession_Send_Ignores_Invalid_Input(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	backend := newFakeBackend()
	session := newTestSession(backend)
	defer session.Close()

	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSend, Text: "no chat selected"}))
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSelectChat, ChatID: "c1"}))
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSend, Text: "  \n "}))
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSend, Text: "hello"}))

	backend.mu.Lock()
	defer backend.mu.Unlock()
	req.Equal([]string{"hello"}, backend.sent)
}

func TestSession_Only_Own_Messages_Can_Be_Modified(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	backend := newFakeBackend()
	backend.messages["c1"] = []api.Message{
		{ID: "mine", SenderID: "alice", ReadBy: []string{"alice"}},
		{ID: "theirs", SenderID: "bob", ReadBy: []string{"bob", "alice"}},
	}
	session := newTestSession(backend)
	defer session.Close()

	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSelectChat, ChatID: "c1"}))
	req.Eventually(func() bool { return len(session.State().Messages) == 2 }, time.Second, 5*time.Millisecond)

	state := session.State()
	req.True(session.CanModify(state.Messages[0]))
	req.False(session.CanModify(state.Messages[1]))

	for _, id := range []string{"mine", "theirs"} {
		req.NoError(session.Dispatch(ctx, Action{Kind: ActionEdit, MessageID: id, Text: "edited"}))
		req.NoError(session.Dispatch(ctx, Action{Kind: ActionDelete, MessageID: id}))
		req.NoError(session.Dispatch(ctx, Action{Kind: ActionReact, MessageID: id, Symbol: "👍"}))
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	req.Equal([]string{"mine"}, backend.edited)
	req.Equal([]string{"mine"}, backend.deleted)
	req.Equal([]string{"mine👍", "theirs👍"}, backend.reactions)
}

func TestSession_Typing_And_Create_Chat(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	backend := newFakeBackend()
	session := newTestSession(backend)
	defer session.Close()

	req.NoError(session.Dispatch(ctx, Action{Kind: ActionStartTyping}))
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSelectTeam, TeamID: "t1"}))
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionCreateChat, Text: "general"}))
	req.Len(session.State().Chats, 1)

	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSelectChat, ChatID: "general-id"}))
	req.Eventually(func() bool { return len(session.State().Typing) == 1 }, time.Second, 5*time.Millisecond)
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionStartTyping}))
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionStopTyping}))

	backend.mu.Lock()
	defer backend.mu.Unlock()
	req.Equal([]bool{true, false}, backend.typing)
}

func TestSession_Typing_Issued_Before_A_Send_Is_Dropped(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	backend := newFakeBackend()
	session := newTestSession(backend)
	defer session.Close()
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSelectChat, ChatID: "c1"}))

	keystroke := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	enter := keystroke.Add(time.Second)

	// The send overtakes the start typing of the last keystroke
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionSend, Text: "hello", IssuedAt: enter}))
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionStartTyping, IssuedAt: keystroke}))
	req.NoError(session.Dispatch(ctx, Action{Kind: ActionStartTyping, IssuedAt: enter.Add(time.Second)}))

	backend.mu.Lock()
	defer backend.mu.Unlock()
	req.Equal([]string{"hello"}, backend.sent)
	req.Equal([]bool{true}, backend.typing, "only the start issued after the send reaches the server")
}

func TestSession_Unknown_Action(t *testing.T) {
	req := require.New(t)
	session := newTestSession(newFakeBackend())
	req.Error(session.Dispatch(context.Background(), Action{Kind: "dance"}))
}
