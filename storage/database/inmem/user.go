package inmemdb

import (
	"context"

	"github.com/trezcool/studyhub/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) index(id string) int {
	for i, usr := range repo.db.rows {
		if usr.ID == id {
			return i
		}
	}
	return -1
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, u := range repo.db.rows {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	if usr.ID == "" {
		usr.ID = repo.db.next()
	} else {
		repo.db.seen(usr.ID)
	}
	repo.db.rows = append(repo.db.rows, usr)
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]user.User, len(repo.db.rows))
	copy(users, repo.db.rows)
	return users, nil
}

func (repo *userRepository) FilterUsers(_ context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]user.User, 0, len(repo.db.rows))
	for _, usr := range repo.db.rows {
		if filter.Match(usr) {
			users = append(users, usr)
		}
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if i := repo.index(id); i >= 0 {
		return repo.db.rows[i], nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByIdentifier(_ context.Context, identifier string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.rows {
		if usr.MatchesIdentifier(identifier) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) SetUserActive(_ context.Context, id string, active bool) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	i := repo.index(id)
	if i < 0 {
		return user.User{}, user.ErrNotFound
	}
	repo.db.rows[i].IsActive = active
	return repo.db.rows[i], nil
}

func (repo *userRepository) DeleteUsersByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		if repo.index(id) < 0 {
			return user.ErrNotFound
		}
	}
	kept := repo.db.rows[:0]
	for _, usr := range repo.db.rows {
		if !contains(ids, usr.ID) {
			kept = append(kept, usr)
		}
	}
	repo.db.rows = kept
	return nil
}

func contains(ids []string, id string) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
