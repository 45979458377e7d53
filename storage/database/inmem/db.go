package inmemdb

import (
	"strconv"
	"sync"

	"github.com/trezcool/studyhub/core/announcement"
	"github.com/trezcool/studyhub/core/chat"
	"github.com/trezcool/studyhub/core/resource"
	"github.com/trezcool/studyhub/core/user"
)

// DB holds the process-lifetime collections. Each table keeps its rows in insertion order
// and hands out IDs from its own counter, so IDs are never reused after a deletion.
type (
	DB struct {
		user         *userTable
		resource     map[resource.Category]*resourceTable
		message      *messageTable
		announcement *announcementTable
	}

	pk struct {
		last int
	}

	userTable struct {
		sync.RWMutex
		pk
		rows []user.User
	}

	resourceTable struct {
		sync.RWMutex
		pk
		rows []resource.Resource
	}

	messageTable struct {
		sync.RWMutex
		pk
		rows []chat.Message
	}

	announcementTable struct {
		sync.RWMutex
		pk
		rows []announcement.Announcement
	}
)

// Open returns an empty DB.
func Open() *DB {
	db := &DB{
		user:         &userTable{},
		resource:     make(map[resource.Category]*resourceTable, len(resource.Categories)),
		message:      &messageTable{},
		announcement: &announcementTable{},
	}
	for _, c := range resource.Categories {
		db.resource[c] = &resourceTable{}
	}
	return db
}

// next returns the next ID of the table.
func (p *pk) next() string {
	p.last++
	return strconv.Itoa(p.last)
}

// seen moves the counter past id, when numeric.
func (p *pk) seen(id string) {
	if n, err := strconv.Atoi(id); err == nil && n > p.last {
		p.last = n
	}
}
