// Package domain contains core concepts of the team messaging system.
// This file defines Message entities and the rules for editing, reacting
// and read receipts. No storage, network or UI logic belongs here.
package domain

import (
	"strings"
	"teamchat/errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type MessageID string

const maxReactionLength = 16

// Message is a chat message. It is appended in creation order and then
// mutated in place for edits, reactions and read receipts.
type Message struct {
	ID        MessageID
	ChatID    ChatID
	SenderID  string
	Text      string
	Language  string
	CreatedAt time.Time
	EditedAt  time.Time
	Edited    bool
	Reactions map[string][]string // symbol -> reacting user ids
	ReadBy    []string
}

// NormalizeText trims the text and rejects it when nothing is left.
func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", errors.ErrEmptyMessage
	}
	return trimmed, nil
}

// NewMessage builds a fresh message: no reactions, read by its sender only.
func NewMessage(chatID ChatID, senderID, text string, at time.Time) (Message, error) {
	if chatID == "" {
		return Message{}, errors.ErrChatNotSelected
	}
	normalized, err := NormalizeText(text)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:        MessageID(uuid.NewString()),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      normalized,
		CreatedAt: at,
		Reactions: make(map[string][]string),
		ReadBy:    []string{senderID},
	}, nil
}

func (m *Message) IsSender(userID string) bool {
	return m.SenderID == userID
}

// Edit overwrites the text. The previous text is not kept anywhere.
func (m *Message) Edit(text string, at time.Time) error {
	normalized, err := NormalizeText(text)
	if err != nil {
		return err
	}
	m.Text = normalized
	m.Edited = true
	m.EditedAt = at
	return nil
}

// ToggleReaction adds the user to the reactors of symbol when absent and
// removes them otherwise. Symbols are independent of each other, so a user
// may hold several at once. It returns true when the user was added.
func (m *Message) ToggleReaction(symbol, userID string) (bool, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" || utf8.RuneCountInString(symbol) > maxReactionLength {
		return false, errors.ErrEmptyReaction
	}
	if m.Reactions == nil {
		m.Reactions = make(map[string][]string)
	}
	reactors := m.Reactions[symbol]
	if lo.Contains(reactors, userID) {
		remaining := lo.Without(reactors, userID)
		if len(remaining) == 0 {
			delete(m.Reactions, symbol)
		} else {
			m.Reactions[symbol] = remaining
		}
		return false, nil
	}
	m.Reactions[symbol] = append(reactors, userID)
	return true, nil
}

// MarkRead adds the user to the read-by set. Calling it again is a no-op,
// the returned bool tells whether the set changed.
func (m *Message) MarkRead(userID string) bool {
	if lo.Contains(m.ReadBy, userID) {
		return false
	}
	m.ReadBy = append(m.ReadBy, userID)
	return true
}

func (m *Message) IsReadBy(userID string) bool {
	return lo.Contains(m.ReadBy, userID)
}
