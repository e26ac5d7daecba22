package ui

import (
	"context"
	"reflect"
	"sync"
	"teamchat/api"
	"teamchat/client"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu      sync.Mutex
	state   client.State
	actions []client.Action
}

func (f *fakeSession) State() client.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSession) Dispatch(_ context.Context, a client.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, a)
	return nil
}

func (f *fakeSession) CanModify(message api.Message) bool {
	return message.SenderID == f.state.UserID
}

func (f *fakeSession) DismissNotice() {}

func (f *fakeSession) kinds() []client.ActionKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	kinds := make([]client.ActionKind, 0, len(f.actions))
	for _, a := range f.actions {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

// run executes cmd and every command it produces, feeding messages back
// into the model. Batches and sequences are flattened; waiting for session
// changes is skipped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if msg == nil {
			continue
		}
		if v := reflect.ValueOf(msg); v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				if c, ok := v.Index(i).Interface().(tea.Cmd); ok {
					queue = append(queue, c)
				}
			}
			continue
		}
		if _, ok := msg.(stateChangedMsg); ok {
			continue
		}
		model, more := m.Update(msg)
		m = model.(Model)
		queue = append(queue, more)
	}
	return m
}

func key(m Model, k string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	model, cmd := m.Update(msg)
	return model.(Model), cmd
}

func newTestModel(state client.State) (Model, *fakeSession) {
	session := &fakeSession{state: state}
	_, changes := Notifier()
	return NewModel(session, changes), session
}

func TestModel_Selecting_Team_Then_Chat(t *testing.T) {
	req := require.New(t)
	m, session := newTestModel(client.State{
		UserID: "alice",
		Teams:  []api.Team{{ID: "t1", Name: "Platform"}},
	})

	m, cmd := key(m, "enter")
	m = run(t, m, cmd)
	req.Equal(paneChats, m.focus)

	session.mu.Lock()
	session.state.SelectedTeam = "t1"
	session.state.Chats = []api.Chat{{ID: "c1", Name: "general"}}
	session.mu.Unlock()
	next, _ := m.Update(stateChangedMsg{})
	m = next.(Model)

	m, cmd = key(m, "enter")
	m = run(t, m, cmd)
	req.Equal(paneInput, m.focus)
	req.Equal([]client.ActionKind{client.ActionSelectTeam, client.ActionSelectChat}, session.kinds())
	req.Equal("c1", session.actions[1].ChatID)
}

func TestModel_New_Chat_Entry_Prompts_For_A_Name(t *testing.T) {
	req := require.New(t)
	m, session := newTestModel(client.State{UserID: "alice", SelectedTeam: "t1"})
	m.setFocus(paneChats)

	m, _ = key(m, "enter")
	req.Equal(modeNewChat, m.mode)
	for _, r := range "random" {
		m, _ = key(m, string(r))
	}
	m, cmd := key(m, "enter")
	run(t, m, cmd)

	req.Equal([]client.ActionKind{client.ActionCreateChat}, session.kinds())
	req.Equal("random", session.actions[0].Text)
}

func TestModel_Typing_Then_Send(t *testing.T) {
	req := require.New(t)
	m, session := newTestModel(client.State{UserID: "alice", SelectedTeam: "t1", SelectedChat: "c1"})
	m.setFocus(paneInput)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m, cmd := key(m, "h")
	m = run(t, m, cmd)
	m, cmd = key(m, "i")
	m = run(t, m, cmd)
	m, cmd = key(m, "enter")
	m = run(t, m, cmd)

	req.Equal([]client.ActionKind{client.ActionStartTyping, client.ActionSend}, session.kinds())
	req.Equal("hi", session.actions[1].Text)
	req.Equal(now, session.actions[0].IssuedAt)
	req.Equal(now, session.actions[1].IssuedAt, "typing is ordered against the send")
	req.Empty(m.input.Value())

	// Blank input is not sent
	m, cmd = key(m, "enter")
	run(t, m, cmd)
	req.Len(session.kinds(), 2)
}

func TestModel_Edit_And_Delete_Only_Own_Messages(t *testing.T) {
	req := require.New(t)
	m, session := newTestModel(client.State{
		UserID:       "alice",
		SelectedChat: "c1",
		Messages: []api.Message{
			{ID: "theirs", SenderID: "bob", Text: "hey"},
			{ID: "mine", SenderID: "alice", Text: "hello"},
		},
	})
	m.setFocus(paneMessages)

	m, cmd := key(m, "d")
	req.Nil(cmd)
	m, _ = key(m, "e")
	req.Equal(modeSend, m.mode)

	m, _ = key(m, "down")
	m, cmd = key(m, "d")
	run(t, m, cmd)
	m, _ = key(m, "e")
	req.Equal(modeEdit, m.mode)
	req.Equal("hello", m.input.Value())
	m, _ = key(m, "!")
	m, cmd = key(m, "enter")
	run(t, m, cmd)

	req.Equal([]client.ActionKind{client.ActionDelete, client.ActionEdit}, session.kinds())
	req.Equal("hello!", session.actions[1].Text)
}

func TestModel_View_Shows_Messages_And_Presence(t *testing.T) {
	req := require.New(t)
	m, _ := newTestModel(client.State{
		UserID:       "alice",
		Teams:        []api.Team{{ID: "t1", Name: "Platform"}},
		SelectedTeam: "t1",
		Chats:        []api.Chat{{ID: "c1", Name: "general"}},
		SelectedChat: "c1",
		Messages: []api.Message{{
			ID: "m1", SenderID: "bob", Text: "hello", Edited: true,
			Reactions: map[string][]string{"👍": {"alice", "bob"}},
			ReadBy:    []string{"bob", "alice"},
		}},
		Typing: []api.Typing{{UserID: "bob", DisplayName: "Bob"}},
		Notice: "send failed: chat not found",
	})

	view := m.View()
	req.Contains(view, "Platform")
	req.Contains(view, "# general")
	req.Contains(view, newChatEntry)
	req.Contains(view, "hello (edited)")
	req.Contains(view, "👍 2")
	req.Contains(view, "seen by 1")
	req.Contains(view, "Bob is typing…")
	req.Contains(view, "send failed: chat not found")
}
