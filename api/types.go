package api

import "time"

type Empty struct{}

type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

type Chat struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID        string              `json:"id"`
	ChatID    string              `json:"chat_id"`
	SenderID  string              `json:"sender_id"`
	Text      string              `json:"text"`
	Language  string              `json:"language,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	EditedAt  *time.Time          `json:"edited_at,omitempty"`
	Edited    bool                `json:"edited"`
	Reactions map[string][]string `json:"reactions"`
	ReadBy    []string            `json:"read_by"`
}

type Typing struct {
	ChatID      string    `json:"chat_id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	At          time.Time `json:"at"`
}

type Announcement struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Resource struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Auth

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Chat

type TeamsResponse struct {
	Teams []Team `json:"teams"`
}

type ListChatsRequest struct {
	TeamID string `json:"team_id"`
}

type ChatsResponse struct {
	TeamID string `json:"team_id"`
	Chats  []Chat `json:"chats"`
}

type CreateChatRequest struct {
	TeamID  string   `json:"team_id"`
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
}

type ChatResponse struct {
	Chat Chat `json:"chat"`
}

type SendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type EditMessageRequest struct {
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
}

type MessageRequest struct {
	MessageID string `json:"message_id"`
}

type ToggleReactionRequest struct {
	MessageID string `json:"message_id"`
	Symbol    string `json:"symbol"`
}

type MessageResponse struct {
	Message Message `json:"message"`
}

type SetTypingRequest struct {
	ChatID string `json:"chat_id"`
	Typing bool   `json:"typing"`
}

type ListMessagesRequest struct {
	ChatID string  `json:"chat_id"`
	Cursor *string `json:"cursor,omitempty"`
}

// MessagesResponse is both a history page and a live snapshot. Snapshots
// never carry a cursor.
type MessagesResponse struct {
	ChatID   string    `json:"chat_id"`
	Messages []Message `json:"messages"`
	Cursor   *string   `json:"cursor,omitempty"`
}

type SearchMessagesRequest struct {
	TeamID string `json:"team_id"`
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
}

type ChatRequest struct {
	ChatID string `json:"chat_id"`
}

type TypingResponse struct {
	ChatID string   `json:"chat_id"`
	Typing []Typing `json:"typing"`
}

// Teams

type CreateTeamRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
}

type TeamRequest struct {
	TeamID string `json:"team_id"`
}

type MemberRequest struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}

type TeamResponse struct {
	Team Team `json:"team"`
}

// Announcements

type PostAnnouncementRequest struct {
	TeamID string `json:"team_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type AnnouncementRequest struct {
	AnnouncementID string `json:"announcement_id"`
}

type AnnouncementResponse struct {
	Announcement Announcement `json:"announcement"`
}

type AnnouncementsResponse struct {
	TeamID        string         `json:"team_id"`
	Announcements []Announcement `json:"announcements"`
}

// Resources

// UploadChunk carries the metadata in the first message of the stream and
// raw bytes in every message.
type UploadChunk struct {
	TeamID string `json:"team_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Data   []byte `json:"data,omitempty"`
}

type ResourceRequest struct {
	ResourceID string `json:"resource_id"`
}

type ResourceResponse struct {
	Resource Resource `json:"resource"`
}

type ResourcesResponse struct {
	Resources []Resource `json:"resources"`
}

type DownloadChunk struct {
	Resource *Resource `json:"resource,omitempty"`
	Data     []byte    `json:"data,omitempty"`
}
