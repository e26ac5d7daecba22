// Package ui renders a client session in the terminal with bubbletea.
// Every change goes through the session; the model only keeps cursors and
// the input line.
package ui

import (
	"context"
	"strings"
	"teamchat/api"
	"teamchat/client"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Typing presence expires server side; it is renewed at most this often
// while the user keeps typing.
const typingRenewal = 2 * time.Second

const reactionSymbol = "👍"

// Session is the part of client.Session the interface drives.
type Session interface {
	State() client.State
	Dispatch(ctx context.Context, a client.Action) error
	CanModify(message api.Message) bool
	DismissNotice()
}

type pane int

const (
	paneTeams pane = iota
	paneChats
	paneMessages
	paneInput
)

// inputMode tells what enter does with the input line.
type inputMode int

const (
	modeSend inputMode = iota
	modeEdit
	modeNewChat
)

type stateChangedMsg struct{}

type actionDoneMsg struct {
	err error
}

type Model struct {
	session Session
	changes <-chan struct{}
	state   client.State

	focus         pane
	teamCursor    int
	chatCursor    int
	messageCursor int

	input       textinput.Model
	mode        inputMode
	editing     string
	typingSince time.Time
	now         func() time.Time

	width  int
	height int
}

// NewModel builds the interface. changes must receive a value after each
// session change; see Notifier.
func NewModel(session Session, changes <-chan struct{}) Model {
	input := textinput.New()
	input.Placeholder = "Write a message"
	input.CharLimit = 4000
	return Model{
		session: session,
		changes: changes,
		state:   session.State(),
		input:   input,
		now:     time.Now,
	}
}

// Notifier returns the onChange callback for client.NewSession and the
// channel to hand to NewModel. Bursts of changes collapse into one redraw.
func Notifier() (func(), <-chan struct{}) {
	changes := make(chan struct{}, 1)
	return func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}, changes
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.dispatch(client.Action{Kind: client.ActionLoadTeams}))
}

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

// dispatch runs the action off the update loop: selecting a chat waits for
// the previous subscription to end, and those callbacks redraw.
func (m Model) dispatch(a client.Action) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: m.session.Dispatch(context.Background(), a)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-6, 10)
		return m, nil
	case stateChangedMsg:
		m.refresh()
		return m, m.waitForChange()
	case actionDoneMsg:
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) refresh() {
	m.state = m.session.State()
	m.teamCursor = clamp(m.teamCursor, len(m.state.Teams))
	m.chatCursor = clamp(m.chatCursor, len(m.state.Chats)+1)
	m.messageCursor = clamp(m.messageCursor, len(m.state.Messages))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % (paneInput + 1))
		return m, nil
	case "esc":
		return m.escape()
	}
	if m.state.Notice != "" {
		m.session.DismissNotice()
	}
	if m.focus == paneInput {
		return m.handleInput(msg)
	}

	switch msg.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		return m.choose()
	case "e":
		return m.startEdit()
	case "d":
		if message, ok := m.selectedMessage(); ok && m.session.CanModify(message) {
			return m, m.dispatch(client.Action{Kind: client.ActionDelete, MessageID: message.ID})
		}
	case "r":
		if message, ok := m.selectedMessage(); ok {
			return m, m.dispatch(client.Action{Kind: client.ActionReact, MessageID: message.ID, Symbol: reactionSymbol})
		}
	}
	return m, nil
}

func (m *Model) setFocus(p pane) {
	m.focus = p
	if p == paneInput {
		m.input.Focus()
		return
	}
	m.input.Blur()
}

func (m *Model) move(delta int) {
	switch m.focus {
	case paneTeams:
		m.teamCursor = clamp(m.teamCursor+delta, len(m.state.Teams))
	case paneChats:
		m.chatCursor = clamp(m.chatCursor+delta, len(m.state.Chats)+1)
	case paneMessages:
		m.messageCursor = clamp(m.messageCursor+delta, len(m.state.Messages))
	}
}

func (m Model) choose() (tea.Model, tea.Cmd) {
	switch m.focus {
	case paneTeams:
		if m.teamCursor < len(m.state.Teams) {
			m.chatCursor = 0
			m.setFocus(paneChats)
			return m, m.dispatch(client.Action{Kind: client.ActionSelectTeam, TeamID: m.state.Teams[m.teamCursor].ID})
		}
	case paneChats:
		if m.state.SelectedTeam == "" {
			return m, nil
		}
		if m.chatCursor == len(m.state.Chats) {
			m.mode = modeNewChat
			m.input.Placeholder = "Name of the new chat"
			m.setFocus(paneInput)
			return m, nil
		}
		m.messageCursor = 0
		m.setFocus(paneInput)
		return m, m.dispatch(client.Action{Kind: client.ActionSelectChat, ChatID: m.state.Chats[m.chatCursor].ID})
	}
	return m, nil
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	message, ok := m.selectedMessage()
	if !ok || !m.session.CanModify(message) {
		return m, nil
	}
	m.mode = modeEdit
	m.editing = message.ID
	m.input.SetValue(message.Text)
	m.input.CursorEnd()
	m.setFocus(paneInput)
	return m, nil
}

func (m Model) selectedMessage() (api.Message, bool) {
	if m.focus != paneMessages || m.messageCursor >= len(m.state.Messages) {
		return api.Message{}, false
	}
	return m.state.Messages[m.messageCursor], true
}

// escape cancels an edit or a chat creation first, then leaves the chat.
func (m Model) escape() (tea.Model, tea.Cmd) {
	if m.mode != modeSend {
		m.resetInput()
		return m, nil
	}
	if m.state.SelectedChat != "" {
		stop := m.stopTyping()
		m.resetInput()
		m.setFocus(paneChats)
		return m, tea.Sequence(stop, m.dispatch(client.Action{Kind: client.ActionLeave}))
	}
	return m, nil
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		return m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode != modeSend || m.state.SelectedChat == "" {
		return m, cmd
	}
	if strings.TrimSpace(m.input.Value()) == "" {
		stop := m.stopTyping()
		m.typingSince = time.Time{}
		return m, tea.Batch(cmd, stop)
	}
	if now := m.now(); now.Sub(m.typingSince) >= typingRenewal {
		m.typingSince = now
		return m, tea.Batch(cmd, m.dispatch(client.Action{Kind: client.ActionStartTyping, IssuedAt: now}))
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	var action client.Action
	switch m.mode {
	case modeEdit:
		action = client.Action{Kind: client.ActionEdit, MessageID: m.editing, Text: text}
	case modeNewChat:
		action = client.Action{Kind: client.ActionCreateChat, Text: text}
		m.resetInput()
		m.setFocus(paneChats)
		return m, m.dispatch(action)
	default:
		action = client.Action{Kind: client.ActionSend, Text: text, IssuedAt: m.now()}
	}
	m.resetInput()
	// Sending clears presence server side.
	m.typingSince = time.Time{}
	return m, m.dispatch(action)
}

func (m Model) stopTyping() tea.Cmd {
	if m.typingSince.IsZero() {
		return nil
	}
	return m.dispatch(client.Action{Kind: client.ActionStopTyping})
}

func (m *Model) resetInput() {
	m.mode = modeSend
	m.editing = ""
	m.input.Reset()
	m.input.Placeholder = "Write a message"
	m.typingSince = time.Time{}
}

func (m Model) View() string {
	teams := renderList("Teams", teamLines(m.state.Teams), m.teamCursor, m.focus == paneTeams)
	chats := renderList("Chats", chatLines(m.state.Chats), m.chatCursor, m.focus == paneChats)

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.pane(paneTeams).Render(teams),
		m.pane(paneChats).Render(chats))
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.pane(paneMessages).Render(m.messagesView()),
		m.pane(paneInput).Render(m.input.View()))

	view := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	footer := metaStyle.Render("tab: switch pane  enter: open/send  e: edit  d: delete  r: react  esc: back  ctrl+c: quit")
	if m.state.Notice != "" {
		footer = noticeStyle.Render(m.state.Notice)
	}
	return lipgloss.JoinVertical(lipgloss.Left, view, footer)
}

func (m Model) messagesView() string {
	if m.state.SelectedChat == "" {
		return metaStyle.Render("Select a chat")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Messages"))
	for i, message := range m.state.Messages {
		b.WriteString("\n")
		line := messageLine(message, m.state.UserID)
		if m.focus == paneMessages && i == m.messageCursor {
			b.WriteString(selectedStyle.Render(line))
			continue
		}
		b.WriteString(line)
	}
	if typing := typingLine(m.state.Typing, m.state.UserID); typing != "" {
		b.WriteString("\n" + metaStyle.Render(typing))
	}
	return b.String()
}

func (m Model) pane(p pane) lipgloss.Style {
	if m.focus == p {
		return focusedPaneStyle
	}
	return paneStyle
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	return min(i, n-1)
}
