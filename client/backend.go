// Package client holds the state of one signed-in user navigating teams,
// chats and messages. Rendering lives elsewhere; this package only turns
// user actions into backend calls and live snapshots into state.
package client

import (
	"context"
	"teamchat/api"
)

// Backend is the part of the server a session talks to.
//
// The Watch calls block, invoking onSnapshot with the full result set each
// time it changes, and return once ctx is cancelled.
type Backend interface {
	ListTeams(ctx context.Context) ([]api.Team, error)
	ListChats(ctx context.Context, teamID string) ([]api.Chat, error)
	CreateChat(ctx context.Context, teamID, name string, members []string) (api.Chat, error)
	SendMessage(ctx context.Context, chatID, text string) error
	EditMessage(ctx context.Context, messageID, text string) error
	DeleteMessage(ctx context.Context, messageID string) error
	ToggleReaction(ctx context.Context, messageID, symbol string) error
	MarkRead(ctx context.Context, messageID string) error
	SetTyping(ctx context.Context, chatID string, typing bool) error
	WatchMessages(ctx context.Context, chatID string, onSnapshot func([]api.Message)) error
	WatchTyping(ctx context.Context, chatID string, onSnapshot func([]api.Typing)) error
}
