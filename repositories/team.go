package repositories

import (
	stderrors "errors"
	"teamchat/domain"
	"teamchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type ITeamRepository interface {
	CreateTeam(team domain.Team) error
	GetTeam(id domain.TeamID) (domain.Team, error)
	ListTeamsForUser(userID string) ([]domain.Team, error)
	UpdateTeam(id domain.TeamID, mutate func(*domain.Team) (bool, error)) (domain.Team, bool, error)
}

type TeamRepository struct {
	db *badger.DB
}

func NewTeamRepository(db *badger.DB) TeamRepository {
	return TeamRepository{db: db}
}

type DiskTeam struct {
	ID        string   `bson:"_id"`
	Name      string   `bson:"name"`
	OwnerID   string   `bson:"owner_id"`
	Members   []string `bson:"members"`
	CreatedAt int64    `bson:"created_at"`
}

func teamKey(id domain.TeamID) []byte {
	return []byte("team:" + string(id))
}

// memberIndex answers "teams whose member set contains user" with a
// prefix scan on idx:team:member:{user}:.
func memberIndex(userID string, teamID domain.TeamID) []byte {
	return indexKey("team", "member", userID, string(teamID))
}

func (r TeamRepository) CreateTeam(team domain.Team) error {
	return update(r.db, func(txn *badger.Txn) error {
		if err := putDocument(txn, teamKey(team.ID), fromDomainTeam(team)); err != nil {
			return err
		}
		for _, member := range team.Members {
			if err := txn.Set(memberIndex(member, team.ID), []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r TeamRepository) GetTeam(id domain.TeamID) (domain.Team, error) {
	var disk DiskTeam
	err := r.db.View(func(txn *badger.Txn) error {
		return getDocument(txn, teamKey(id), &disk)
	})
	if stderrors.Is(err, errNotFound) {
		return domain.Team{}, errors.ErrTeamNotFound
	}
	if err != nil {
		return domain.Team{}, err
	}
	return toDomainTeam(disk), nil
}

// ListTeamsForUser returns the teams in store order (by team id).
func (r TeamRepository) ListTeamsForUser(userID string) ([]domain.Team, error) {
	var teams []domain.Team
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := append(indexKey("team", "member", userID), ':')
		for _, key := range scanKeys(txn, prefix) {
			teamID := domain.TeamID(key[len(prefix):])
			var disk DiskTeam
			err := getDocument(txn, teamKey(teamID), &disk)
			if stderrors.Is(err, errNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			teams = append(teams, toDomainTeam(disk))
		}
		return nil
	})
	return teams, err
}

// UpdateTeam rewrites the team and keeps the member index in line with
// the new member list.
func (r TeamRepository) UpdateTeam(id domain.TeamID, mutate func(*domain.Team) (bool, error)) (domain.Team, bool, error) {
	var result domain.Team
	var changed bool
	err := update(r.db, func(txn *badger.Txn) error {
		var disk DiskTeam
		if err := getDocument(txn, teamKey(id), &disk); err != nil {
			return err
		}
		team := toDomainTeam(disk)
		before := append([]string(nil), team.Members...)
		var err error
		changed, err = mutate(&team)
		if err != nil {
			return err
		}
		result = team
		if !changed {
			return nil
		}
		added, removed := lo.Difference(team.Members, before)
		for _, member := range added {
			if err = txn.Set(memberIndex(member, id), []byte{}); err != nil {
				return err
			}
		}
		for _, member := range removed {
			if err = txn.Delete(memberIndex(member, id)); err != nil {
				return err
			}
		}
		return putDocument(txn, teamKey(id), fromDomainTeam(team))
	})
	if stderrors.Is(err, errNotFound) {
		return domain.Team{}, false, errors.ErrTeamNotFound
	}
	if err != nil {
		return domain.Team{}, false, err
	}
	return result, changed, nil
}

func fromDomainTeam(team domain.Team) DiskTeam {
	return DiskTeam{
		ID:        string(team.ID),
		Name:      team.Name,
		OwnerID:   team.OwnerID,
		Members:   team.Members,
		CreatedAt: toNano(team.CreatedAt),
	}
}

func toDomainTeam(disk DiskTeam) domain.Team {
	return domain.Team{
		ID:        domain.TeamID(disk.ID),
		Name:      disk.Name,
		OwnerID:   disk.OwnerID,
		Members:   disk.Members,
		CreatedAt: fromNano(disk.CreatedAt),
	}
}
