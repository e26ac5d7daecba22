// Package event defines the change notifications raised by every write.
// An event only names the topic whose result set changed; subscribers
// always receive a freshly loaded full snapshot, never a diff.
package event

import "strings"

type Kind string

const (
	KindTeams         Kind = "teams"
	KindChats         Kind = "chats"
	KindMessages      Kind = "messages"
	KindTyping        Kind = "typing"
	KindAnnouncements Kind = "announcements"
)

// Topic identifies one live query, e.g. messages:{chat id}.
type Topic struct {
	Kind Kind
	Key  string
}

func (t Topic) String() string {
	return string(t.Kind) + ":" + t.Key
}

// ParseTopic is the inverse of Topic.String.
func ParseTopic(s string) (Topic, bool) {
	kind, key, ok := strings.Cut(s, ":")
	if !ok || kind == "" || key == "" {
		return Topic{}, false
	}
	return Topic{Kind: Kind(kind), Key: key}, true
}

type DomainEvent interface {
	Topic() Topic
}

// TeamsChanged is raised for a user whose team list changed.
type TeamsChanged struct{ UserID string }

func (e TeamsChanged) Topic() Topic { return Topic{Kind: KindTeams, Key: e.UserID} }

type ChatsChanged struct{ TeamID string }

func (e ChatsChanged) Topic() Topic { return Topic{Kind: KindChats, Key: e.TeamID} }

type MessagesChanged struct{ ChatID string }

func (e MessagesChanged) Topic() Topic { return Topic{Kind: KindMessages, Key: e.ChatID} }

type TypingChanged struct{ ChatID string }

func (e TypingChanged) Topic() Topic { return Topic{Kind: KindTyping, Key: e.ChatID} }

type AnnouncementsChanged struct{ TeamID string }

func (e AnnouncementsChanged) Topic() Topic { return Topic{Kind: KindAnnouncements, Key: e.TeamID} }

// Refreshed asks for a topic to be reloaded without any write behind it,
// used for the first snapshot of a subscription and for presence expiry.
type Refreshed struct{ Target Topic }

func (e Refreshed) Topic() Topic { return e.Target }
