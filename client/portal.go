package client

import (
	"context"
	"strconv"

	"github.com/sendgrid/rest"

	"github.com/trezcool/studyhub/core/announcement"
	"github.com/trezcool/studyhub/core/chat"
	"github.com/trezcool/studyhub/core/resource"
	"github.com/trezcool/studyhub/core/user"
)

// Resources lists the resources of category c matching filter.
func (c *Client) Resources(ctx context.Context, cat resource.Category, filter resource.QueryFilter) ([]resource.Resource, error) {
	q := make(map[string][]string)
	for k, v := range map[string]string{
		"branch":   filter.Branch,
		"year":     filter.Year,
		"semester": filter.Semester,
		"subject":  filter.Subject,
		"search":   filter.Search,
	} {
		if v != "" {
			q[k] = []string{v}
		}
	}
	var rs []resource.Resource
	err := c.do(ctx, request{method: rest.Get, path: []string{"resources", string(cat)}, query: q, authed: true}, &rs)
	return rs, err
}

func (c *Client) Resource(ctx context.Context, cat resource.Category, id string) (resource.Resource, error) {
	var r resource.Resource
	err := c.do(ctx, request{method: rest.Get, path: []string{"resources", string(cat), id}, authed: true}, &r)
	return r, err
}

// Recent lists up to limit resources of cats (all if none), newest first. A zero limit uses the server default.
func (c *Client) Recent(ctx context.Context, limit int, cats ...resource.Category) ([]resource.Resource, error) {
	q := make(map[string][]string)
	if limit > 0 {
		q["limit"] = []string{strconv.Itoa(limit)}
	}
	for _, cat := range cats {
		q["category"] = append(q["category"], string(cat))
	}
	var rs []resource.Resource
	err := c.do(ctx, request{method: rest.Get, path: []string{"resources", "recent"}, query: q, authed: true}, &rs)
	return rs, err
}

func (c *Client) UploadResource(ctx context.Context, cat resource.Category, nr resource.NewResource) (resource.Resource, error) {
	var r resource.Resource
	err := c.do(ctx, request{method: rest.Post, path: []string{"resources", string(cat)}, body: nr, authed: true}, &r)
	return r, err
}

// UpdateStats records act on a resource and returns it with its updated stats.
func (c *Client) UpdateStats(ctx context.Context, cat resource.Category, id string, act resource.Action) (resource.Resource, error) {
	var r resource.Resource
	err := c.do(ctx, request{method: rest.Post, path: []string{"resources", string(cat), id, string(act)}, authed: true}, &r)
	return r, err
}

func (c *Client) DeleteResource(ctx context.Context, cat resource.Category, id string) error {
	return c.do(ctx, request{method: rest.Delete, path: []string{"resources", string(cat), id}, authed: true}, nil)
}

func (c *Client) Overview(ctx context.Context) ([]resource.Overview, error) {
	var ovs []resource.Overview
	err := c.do(ctx, request{method: rest.Get, path: []string{"dashboard", "overview"}, authed: true}, &ovs)
	return ovs, err
}

// Messages lists the messages of a chat channel, oldest first.
func (c *Client) Messages(ctx context.Context, ch chat.Channel) ([]chat.Message, error) {
	var msgs []chat.Message
	err := c.do(ctx, request{method: rest.Get, path: []string{"chats", string(ch)}, authed: true}, &msgs)
	return msgs, err
}

// SendMessage posts content to a chat channel as the current user.
func (c *Client) SendMessage(ctx context.Context, ch chat.Channel, content string) (chat.Message, error) {
	var msg chat.Message
	body := map[string]string{"content": content}
	err := c.do(ctx, request{method: rest.Post, path: []string{"chats", string(ch)}, body: body, authed: true}, &msg)
	return msg, err
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.do(ctx, request{method: rest.Delete, path: []string{"chats", "messages", id}, authed: true}, nil)
}

// Announcements lists the announcements targeting branch (all if empty), newest first.
func (c *Client) Announcements(ctx context.Context, branch string) ([]announcement.Announcement, error) {
	q := make(map[string][]string)
	if branch != "" {
		q["branch"] = []string{branch}
	}
	var anns []announcement.Announcement
	err := c.do(ctx, request{method: rest.Get, path: []string{"announcements"}, query: q, authed: true}, &anns)
	return anns, err
}

func (c *Client) CreateAnnouncement(ctx context.Context, na announcement.NewAnnouncement) (announcement.Announcement, error) {
	var a announcement.Announcement
	err := c.do(ctx, request{method: rest.Post, path: []string{"announcements"}, body: na, authed: true}, &a)
	return a, err
}

func (c *Client) DeleteAnnouncement(ctx context.Context, id string) error {
	return c.do(ctx, request{method: rest.Delete, path: []string{"announcements", id}, authed: true}, nil)
}

// Users lists the accounts matching filter, in creation order.
func (c *Client) Users(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	q := make(map[string][]string)
	if filter.Search != "" {
		q["search"] = []string{filter.Search}
	}
	for _, r := range filter.Roles {
		q["role"] = append(q["role"], string(r))
	}
	q["branch"] = append(q["branch"], filter.Branches...)
	if len(q["branch"]) == 0 {
		delete(q, "branch")
	}
	if filter.IsActive != nil {
		q["active"] = []string{strconv.FormatBool(*filter.IsActive)}
	}
	var users []user.User
	err := c.do(ctx, request{method: rest.Get, path: []string{"users"}, query: q, authed: true}, &users)
	return users, err
}

func (c *Client) User(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	err := c.do(ctx, request{method: rest.Get, path: []string{"users", id}, authed: true}, &usr)
	return usr, err
}

// CreateUser creates an account of any role.
func (c *Client) CreateUser(ctx context.Context, nu user.NewUser) (user.User, error) {
	var usr user.User
	err := c.do(ctx, request{method: rest.Post, path: []string{"users"}, body: nu, authed: true}, &usr)
	return usr, err
}

func (c *Client) SetUserActive(ctx context.Context, id string, active bool) (user.User, error) {
	var usr user.User
	body := map[string]bool{"isActive": active}
	err := c.do(ctx, request{method: rest.Patch, path: []string{"users", id, "active"}, body: body, authed: true}, &usr)
	return usr, err
}

// DeleteUsers deletes every account of ids, or none if one is unknown.
func (c *Client) DeleteUsers(ctx context.Context, ids ...string) error {
	if len(ids) == 1 {
		return c.do(ctx, request{method: rest.Delete, path: []string{"users", ids[0]}, authed: true}, nil)
	}
	q := map[string][]string{"id": ids}
	return c.do(ctx, request{method: rest.Delete, path: []string{"users"}, query: q, authed: true}, nil)
}
