package services

import (
	"context"
	"log/slog"
	"sync"
	"teamchat/contract"
	"teamchat/domain"
	"teamchat/domain/event"
	"teamchat/moderation"
	"teamchat/repositories"
	"teamchat/storage"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (r *recordingNotifier) Notify(_ context.Context, events ...event.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

// topics drains what was recorded so far.
func (r *recordingNotifier) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	topics := lo.Map(r.events, func(e event.DomainEvent, _ int) string { return e.Topic().String() })
	r.events = nil
	return topics
}

type fixture struct {
	db            *badger.DB
	users         repositories.IUserRepository
	teams         repositories.TeamRepository
	chats         repositories.ChatRepository
	messages      repositories.IMessageRepository
	typing        repositories.TypingRepository
	announcements repositories.AnnouncementRepository
	resources     repositories.ResourceRepository
	index         repositories.MessageIndex
	store         *storage.DiskStore
	moderator     *moderation.Moderator
	notifier      *recordingNotifier

	alice, bob, carol domain.User
}

func newFixture(t *testing.T) *fixture {
	req := require.New(t)
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = writer.Close() })

	store, err := storage.NewDiskStore(t.TempDir(), "http://files.test", log)
	req.NoError(err)

	moderator, err := moderation.NewModerator([]string{"darn"}, '*', log)
	req.NoError(err)

	f := &fixture{
		db:            db,
		users:         repositories.NewUserRepository(db),
		teams:         repositories.NewTeamRepository(db),
		chats:         repositories.NewChatRepository(db),
		messages:      repositories.NewMessageRepository(db, log, nil),
		typing:        repositories.NewTypingRepository(db, time.Minute),
		announcements: repositories.NewAnnouncementRepository(db),
		resources:     repositories.NewResourceRepository(db),
		index:         repositories.NewMessageIndex(writer, log),
		store:         store,
		moderator:     moderator,
		notifier:      &recordingNotifier{},
	}
	f.alice = f.user(t, "alice@example.com", "Alice")
	f.bob = f.user(t, "bob@example.com", "Bob")
	f.carol = f.user(t, "carol@example.com", "Carol")
	return f
}

func (f *fixture) user(t *testing.T, email, name string) domain.User {
	user, err := f.users.CreateUser(email, name, "hash")
	require.NoError(t, err)
	return user
}

func (f *fixture) chatService(subscriber contract.Subscriber) *ChatService {
	return NewChatService(slog.Default(), f.teams, f.chats, f.messages, f.typing, f.index, f.moderator, f.notifier, subscriber)
}

func (f *fixture) teamService() *TeamService {
	return NewTeamService(slog.Default(), f.teams, f.chats, f.users, f.notifier)
}

// team stores a team owned by alice with the given members, bypassing events.
func (f *fixture) team(t *testing.T, members ...string) domain.Team {
	team, err := domain.NewTeam("platform", f.alice.ID, members, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, f.teams.CreateTeam(team))
	return team
}

func (f *fixture) chat(t *testing.T, team domain.Team, members ...string) domain.Chat {
	chat, err := domain.NewChat(team, "general", team.OwnerID, members, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, f.chats.CreateChat(chat))
	return chat
}
