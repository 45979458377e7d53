package inmemdb

import (
	"context"

	"github.com/trezcool/studyhub/core/chat"
)

type messageRepository struct {
	db *messageTable
}

var _ chat.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *DB) chat.Repository {
	return &messageRepository{db: db.message}
}

func (repo *messageRepository) QueryMessages(_ context.Context, ch chat.Channel) ([]chat.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	msgs := make([]chat.Message, 0)
	for _, msg := range repo.db.rows {
		if msg.ChatType == ch {
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

func (repo *messageRepository) CreateMessage(_ context.Context, msg chat.Message) (chat.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if msg.ID == "" {
		msg.ID = repo.db.next()
	} else {
		repo.db.seen(msg.ID)
	}
	repo.db.rows = append(repo.db.rows, msg)
	return msg, nil
}

func (repo *messageRepository) DeleteMessage(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, msg := range repo.db.rows {
		if msg.ID == id {
			repo.db.rows = append(repo.db.rows[:i:i], repo.db.rows[i+1:]...)
			return nil
		}
	}
	return chat.ErrNotFound
}
