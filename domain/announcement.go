package domain

import (
	"strings"
	"teamchat/errors"
	"time"

	"github.com/google/uuid"
)

type AnnouncementID string

type Announcement struct {
	ID        AnnouncementID
	TeamID    TeamID
	AuthorID  string
	Title     string
	Body      string
	CreatedAt time.Time
}

func NewAnnouncement(teamID TeamID, authorID, title, body string, at time.Time) (Announcement, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Announcement{}, errors.ErrEmptyName
	}
	return Announcement{
		ID:        AnnouncementID(uuid.NewString()),
		TeamID:    teamID,
		AuthorID:  authorID,
		Title:     title,
		Body:      strings.TrimSpace(body),
		CreatedAt: at,
	}, nil
}
