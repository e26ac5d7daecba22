package client

import (
	"context"
	"time"
)

type ActionKind string

const (
	ActionLoadTeams   ActionKind = "load teams"
	ActionSelectTeam  ActionKind = "select team"
	ActionSelectChat  ActionKind = "select chat"
	ActionCreateChat  ActionKind = "create chat"
	ActionSend        ActionKind = "send"
	ActionEdit        ActionKind = "edit"
	ActionDelete      ActionKind = "delete"
	ActionReact       ActionKind = "react"
	ActionStartTyping ActionKind = "start typing"
	ActionStopTyping  ActionKind = "stop typing"
	ActionLeave       ActionKind = "leave"
)

// Action is one user intent. Only the fields relevant to Kind are read;
// CreateChat takes the chat name from Text. IssuedAt orders typing against
// sending when both run concurrently; zero means unordered.
type Action struct {
	Kind      ActionKind
	TeamID    string
	ChatID    string
	MessageID string
	Text      string
	Symbol    string
	Members   []string
	IssuedAt  time.Time
}

type handler func(ctx context.Context, a Action) error

func (s *Session) handlers() map[ActionKind]handler {
	return map[ActionKind]handler{
		ActionLoadTeams:   s.loadTeams,
		ActionSelectTeam:  s.selectTeam,
		ActionSelectChat:  s.selectChat,
		ActionCreateChat:  s.createChat,
		ActionSend:        s.send,
		ActionEdit:        s.edit,
		ActionDelete:      s.remove,
		ActionReact:       s.react,
		ActionStartTyping: s.typing(true),
		ActionStopTyping:  s.typing(false),
		ActionLeave:       s.leave,
	}
}

// Dispatch runs one action. A failure becomes the notice of the session
// and is also returned; nothing is retried.
func (s *Session) Dispatch(ctx context.Context, a Action) error {
	h, ok := s.handlers()[a.Kind]
	if !ok {
		return errUnknownAction(a.Kind)
	}
	if err := h(ctx, a); err != nil {
		s.notify(a.Kind, err)
		return err
	}
	return nil
}
