package inmemdb

import (
	"context"

	"github.com/trezcool/studyhub/core/announcement"
)

type announcementRepository struct {
	db *announcementTable
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{db: db.announcement}
}

func (repo *announcementRepository) QueryAnnouncements(_ context.Context) ([]announcement.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	anns := make([]announcement.Announcement, 0, len(repo.db.rows))
	for _, a := range repo.db.rows {
		a.Target = append([]string(nil), a.Target...)
		anns = append(anns, a)
	}
	return anns, nil
}

func (repo *announcementRepository) CreateAnnouncement(_ context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if a.ID == "" {
		a.ID = repo.db.next()
	} else {
		repo.db.seen(a.ID)
	}
	a.Target = append([]string(nil), a.Target...)
	repo.db.rows = append(repo.db.rows, a)
	return a, nil
}

func (repo *announcementRepository) DeleteAnnouncement(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, a := range repo.db.rows {
		if a.ID == id {
			repo.db.rows = append(repo.db.rows[:i:i], repo.db.rows[i+1:]...)
			return nil
		}
	}
	return announcement.ErrNotFound
}
