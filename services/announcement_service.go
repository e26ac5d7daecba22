package services

import (
	"context"
	"log/slog"
	"teamchat/auth"
	"teamchat/contract"
	"teamchat/domain"
	"teamchat/domain/event"
	"teamchat/errors"
	"teamchat/repositories"
	"time"
)

type IAnnouncementService interface {
	Post(ctx context.Context, cmd domain.PostAnnouncementCommand) (domain.Announcement, error)
	List(ctx context.Context, userID string, teamID domain.TeamID) ([]domain.Announcement, error)
	Delete(ctx context.Context, userID string, id domain.AnnouncementID) error
	Subscribe(ctx context.Context, userID string, teamID domain.TeamID, sink contract.SnapshotSink) (func(), error)
}

// AnnouncementService publishes team-wide posts, newest first.
type AnnouncementService struct {
	log           *slog.Logger
	teams         repositories.ITeamRepository
	announcements repositories.IAnnouncementRepository
	notifier      contract.Notifier
	subscriber    contract.Subscriber
}

func NewAnnouncementService(log *slog.Logger,
	teams repositories.ITeamRepository,
	announcements repositories.IAnnouncementRepository,
	notifier contract.Notifier,
	subscriber contract.Subscriber) *AnnouncementService {
	return &AnnouncementService{
		log:           log,
		teams:         teams,
		announcements: announcements,
		notifier:      notifier,
		subscriber:    subscriber,
	}
}

func (s *AnnouncementService) Post(ctx context.Context, cmd domain.PostAnnouncementCommand) (domain.Announcement, error) {
	announcement, err := domain.NewAnnouncement(cmd.TeamID, cmd.UserID, cmd.Title, cmd.Body, time.Now().UTC())
	if err != nil {
		return domain.Announcement{}, err
	}
	if err := auth.Validate(cmd); err != nil {
		return domain.Announcement{}, err
	}
	if _, err := teamForMember(s.teams, cmd.TeamID, cmd.UserID); err != nil {
		return domain.Announcement{}, err
	}
	if err := s.announcements.StoreAnnouncement(announcement); err != nil {
		return domain.Announcement{}, err
	}
	s.log.Debug("Announcement posted", "announcement_id", announcement.ID, "team_id", cmd.TeamID)
	s.notifier.Notify(ctx, event.AnnouncementsChanged{TeamID: string(cmd.TeamID)})
	return announcement, nil
}

func (s *AnnouncementService) List(_ context.Context, userID string, teamID domain.TeamID) ([]domain.Announcement, error) {
	if _, err := teamForMember(s.teams, teamID, userID); err != nil {
		return nil, err
	}
	return s.announcements.ListAnnouncements(teamID)
}

// Delete removes an announcement. Only its author may do it.
func (s *AnnouncementService) Delete(ctx context.Context, userID string, id domain.AnnouncementID) error {
	announcement, err := s.announcements.GetAnnouncement(id)
	if err != nil {
		return err
	}
	if announcement.AuthorID != userID {
		return errors.ErrNotAuthor
	}
	if err := s.announcements.DeleteAnnouncement(id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, event.AnnouncementsChanged{TeamID: string(announcement.TeamID)})
	return nil
}

func (s *AnnouncementService) Subscribe(ctx context.Context, userID string, teamID domain.TeamID, sink contract.SnapshotSink) (func(), error) {
	if _, err := teamForMember(s.teams, teamID, userID); err != nil {
		return nil, err
	}
	return s.subscriber.Subscribe(ctx, event.AnnouncementsChanged{TeamID: string(teamID)}.Topic(), sink)
}

func (s *AnnouncementService) Loaders() map[event.Kind]contract.SnapshotLoader {
	return map[event.Kind]contract.SnapshotLoader{
		event.KindAnnouncements: func(_ context.Context, topic event.Topic) (any, error) {
			return s.announcements.ListAnnouncements(domain.TeamID(topic.Key))
		},
	}
}
