package server

import (
	"teamchat/api"
	"teamchat/domain"

	"github.com/samber/lo"
)

func toTeam(t domain.Team, _ int) api.Team {
	return api.Team{
		ID:        string(t.ID),
		Name:      t.Name,
		OwnerID:   t.OwnerID,
		Members:   t.Members,
		CreatedAt: t.CreatedAt,
	}
}

func toChat(c domain.Chat, _ int) api.Chat {
	return api.Chat{
		ID:        string(c.ID),
		TeamID:    string(c.TeamID),
		Name:      c.Name,
		Members:   c.Members,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
	}
}

func toMessage(m domain.Message, _ int) api.Message {
	message := api.Message{
		ID:        string(m.ID),
		ChatID:    string(m.ChatID),
		SenderID:  m.SenderID,
		Text:      m.Text,
		Language:  m.Language,
		CreatedAt: m.CreatedAt,
		Edited:    m.Edited,
		Reactions: m.Reactions,
		ReadBy:    m.ReadBy,
	}
	if m.Edited {
		message.EditedAt = lo.ToPtr(m.EditedAt)
	}
	return message
}

func toTyping(t domain.Typing, _ int) api.Typing {
	return api.Typing{
		ChatID:      string(t.ChatID),
		UserID:      t.UserID,
		DisplayName: t.DisplayName,
		At:          t.At,
	}
}

func toAnnouncement(a domain.Announcement, _ int) api.Announcement {
	return api.Announcement{
		ID:        string(a.ID),
		TeamID:    string(a.TeamID),
		AuthorID:  a.AuthorID,
		Title:     a.Title,
		Body:      a.Body,
		CreatedAt: a.CreatedAt,
	}
}

func toResource(r domain.Resource, _ int) api.Resource {
	return api.Resource{
		ID:        string(r.ID),
		TeamID:    string(r.TeamID),
		OwnerID:   r.OwnerID,
		Name:      r.Name,
		URL:       r.URL,
		MimeType:  r.MimeType,
		Size:      r.Size,
		CreatedAt: r.CreatedAt,
	}
}
