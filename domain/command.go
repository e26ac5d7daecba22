package domain

// Commands carry user intents from the transport to the services.
// Struct tags hold the shape checks (see auth.Validate), business rules
// stay in the entities.

type CreateTeamCommand struct {
	OwnerID string   `validate:"required"`
	Name    string   `validate:"required,max=80"`
	Members []string `validate:"dive,required"`
}

type CreateChatCommand struct {
	UserID  string   `validate:"required"`
	TeamID  TeamID   `validate:"required"`
	Name    string   `validate:"required,max=80"`
	Members []string `validate:"dive,required"`
}

type SendMessageCommand struct {
	UserID string `validate:"required"`
	ChatID ChatID
	Text   string `validate:"max=4000"`
}

type EditMessageCommand struct {
	UserID    string    `validate:"required"`
	MessageID MessageID `validate:"required"`
	Text      string    `validate:"max=4000"`
}

type ReactCommand struct {
	UserID    string    `validate:"required"`
	MessageID MessageID `validate:"required"`
	Symbol    string    `validate:"reaction"`
}

type SetTypingCommand struct {
	UserID      string `validate:"required"`
	DisplayName string
	ChatID      ChatID `validate:"required"`
	Typing      bool
}

type PostAnnouncementCommand struct {
	UserID string `validate:"required"`
	TeamID TeamID `validate:"required"`
	Title  string `validate:"required,max=200"`
	Body   string `validate:"max=10000"`
}

type UploadResourceCommand struct {
	UserID string `validate:"required"`
	TeamID TeamID `validate:"required"`
	Name   string `validate:"required,max=255"`
}
