package domain

import "time"

// Typing is the presence record of a user composing in a chat.
// Stopping deletes the record instead of flipping a flag, and the store
// expires it on its own when the client goes quiet.
type Typing struct {
	ChatID      ChatID
	UserID      string
	DisplayName string
	// At moves with every renewal and is left out of snapshot fingerprints,
	// so a renewal alone pushes nothing to subscribers.
	At time.Time `json:"-"`
}
