package client

import (
	"context"
	"sync"

	"github.com/trezcool/studyhub/core/optimistic"
	"github.com/trezcool/studyhub/core/resource"
)

type engagementKey struct {
	cat resource.Category
	id  string
}

type engagementState struct {
	stats      resource.Stats
	liked      bool
	bookmarked bool
}

// Engagement keeps the locally displayed stats of resources and updates them before the server confirms.
type Engagement struct {
	client *Client
	mu     sync.Mutex
	items  map[engagementKey]*engagementState
}

func (c *Client) NewEngagement() *Engagement {
	return &Engagement{client: c, items: make(map[engagementKey]*engagementState)}
}

// Track starts displaying r. Tracking a known resource resets its stats, keeping the flags.
func (e *Engagement) Track(r resource.Resource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := engagementKey{r.Category, r.ID}
	if st, ok := e.items[k]; ok {
		st.stats = r.Stats
		return
	}
	e.items[k] = &engagementState{stats: r.Stats}
}

func (e *Engagement) state(cat resource.Category, id string) *engagementState {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := engagementKey{cat, id}
	st, ok := e.items[k]
	if !ok {
		st = &engagementState{}
		e.items[k] = st
	}
	return st
}

// Stats returns the displayed stats of a resource.
func (e *Engagement) Stats(cat resource.Category, id string) resource.Stats {
	st := e.state(cat, id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return st.stats
}

func (e *Engagement) Liked(cat resource.Category, id string) bool {
	st := e.state(cat, id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return st.liked
}

func (e *Engagement) Bookmarked(cat resource.Category, id string) bool {
	st := e.state(cat, id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return st.bookmarked
}

// Like counts one like per tracker. Liking again is a no-op.
func (e *Engagement) Like(ctx context.Context, cat resource.Category, id string) error {
	st := e.state(cat, id)
	e.mu.Lock()
	if st.liked {
		e.mu.Unlock()
		return nil
	}
	st.liked = true
	st.stats.Likes++
	e.mu.Unlock()

	undo := optimistic.Guarded(&e.mu, nil, func() {
		st.liked = false
		st.stats.Likes--
	})
	return optimistic.Do(ctx, undo, func(ctx context.Context) error {
		_, err := e.client.UpdateStats(ctx, cat, id, resource.Like)
		return err
	})
}

// ToggleBookmark flips the bookmark of a resource. The server records every toggle as a bookmark.
func (e *Engagement) ToggleBookmark(ctx context.Context, cat resource.Category, id string) error {
	st := e.state(cat, id)
	flip := func() {
		st.bookmarked = !st.bookmarked
		if st.bookmarked {
			st.stats.Bookmarks++
		} else {
			st.stats.Bookmarks--
		}
	}
	// flag and counter move together under one lock
	return optimistic.Do(ctx, optimistic.Guarded(&e.mu, flip, flip), func(ctx context.Context) error {
		_, err := e.client.UpdateStats(ctx, cat, id, resource.Bookmark)
		return err
	})
}

// View records a view. The displayed stats are left as is.
func (e *Engagement) View(ctx context.Context, cat resource.Category, id string) error {
	_, err := e.client.UpdateStats(ctx, cat, id, resource.View)
	return err
}

// Download records a download and returns the resource holding the file URL.
func (e *Engagement) Download(ctx context.Context, cat resource.Category, id string) (resource.Resource, error) {
	return e.client.UpdateStats(ctx, cat, id, resource.Download)
}
