package ui

import (
	"fmt"
	"sort"
	"strings"
	"teamchat/api"

	"github.com/samber/lo"
)

const newChatEntry = "+ new chat"

// The render helpers return plain lines; styling is applied by the caller
// so that tests can compare text.

func teamLines(teams []api.Team) []string {
	if len(teams) == 0 {
		return []string{"no team yet"}
	}
	return lo.Map(teams, func(t api.Team, _ int) string { return t.Name })
}

// chatLines always ends with the entry that opens the chat creation prompt.
func chatLines(chats []api.Chat) []string {
	lines := lo.Map(chats, func(c api.Chat, _ int) string { return "# " + c.Name })
	return append(lines, newChatEntry)
}

func messageLine(m api.Message, userID string) string {
	sender := m.SenderID
	if sender == userID {
		sender = "you"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", m.CreatedAt.Local().Format("15:04"), sender, m.Text)
	if m.Edited {
		b.WriteString(" (edited)")
	}
	if reactions := reactionSummary(m.Reactions); reactions != "" {
		b.WriteString("  " + reactions)
	}
	if readers := len(lo.Without(m.ReadBy, m.SenderID)); readers > 0 {
		fmt.Fprintf(&b, "  seen by %d", readers)
	}
	return b.String()
}

// reactionSummary renders "👍 2 🎉 1", symbols sorted, empty sets skipped.
func reactionSummary(reactions map[string][]string) string {
	symbols := lo.Filter(lo.Keys(reactions), func(symbol string, _ int) bool { return len(reactions[symbol]) > 0 })
	sort.Strings(symbols)
	return strings.Join(lo.Map(symbols, func(symbol string, _ int) string {
		return fmt.Sprintf("%s %d", symbol, len(reactions[symbol]))
	}), " ")
}

// typingLine names everyone typing but the current user.
func typingLine(typing []api.Typing, userID string) string {
	names := lo.FilterMap(typing, func(t api.Typing, _ int) (string, bool) {
		return t.DisplayName, t.UserID != userID
	})
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0] + " is typing…"
	case 2:
		return names[0] + " and " + names[1] + " are typing…"
	default:
		return fmt.Sprintf("%s and %d others are typing…", names[0], len(names)-1)
	}
}

func renderList(title string, lines []string, cursor int, focused bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for i, line := range lines {
		b.WriteString("\n")
		if focused && i == cursor {
			b.WriteString(selectedStyle.Render("> " + line))
			continue
		}
		b.WriteString(normalStyle.Render("  " + line))
	}
	return b.String()
}
