package client

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/announcement"
	"github.com/trezcool/studyhub/core/chat"
	"github.com/trezcool/studyhub/core/resource"
	"github.com/trezcool/studyhub/core/user"
)

func TestClient_resources(t *testing.T) {
	ts, _ := newTestAPI(t)
	ctx := context.Background()
	student := newTestClient(t, ts)
	_, err := student.Login(ctx, "CS2001", password)
	require.NoError(t, err)

	rs, err := student.Resources(ctx, resource.Notes, resource.QueryFilter{Year: "2"})
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, "Data Structures and Algorithms", rs[0].Title)
	assert.Equal(t, "Database Management Systems", rs[1].Title)

	rs, err = student.Resources(ctx, resource.Videos, resource.QueryFilter{Search: "quantum"})
	require.NoError(t, err)
	require.Len(t, rs, 1)

	_, err = student.Resources(ctx, resource.Category("books"), resource.QueryFilter{})
	assert.True(t, errors.Is(err, core.ErrNotFound))

	r, err := student.UpdateStats(ctx, resource.Notes, "1", resource.View)
	require.NoError(t, err)
	assert.Equal(t, 121, r.Stats.Views)

	recent, err := student.Recent(ctx, 2, resource.Notes, resource.PYQs)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Computer Networks", recent[0].Title)
	assert.Equal(t, "Database Management Systems", recent[1].Title)

	_, err = student.UploadResource(ctx, resource.Notes, resource.NewResource{Title: "x", Branch: "y"})
	assert.True(t, errors.Is(err, core.ErrForbidden))
	_, err = student.Overview(ctx)
	assert.True(t, errors.Is(err, core.ErrForbidden))

	admin := newTestClient(t, ts)
	_, err = admin.Login(ctx, "admin@example.com", password)
	require.NoError(t, err)

	created, err := admin.UploadResource(ctx, resource.PYQs, resource.NewResource{
		Title: "Networks Final 2023", Branch: "Computer Science", FileURL: "https://example.com/cn.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "3", created.ID)
	assert.Equal(t, "Admin User", created.UploadedBy)

	got, err := student.Resource(ctx, resource.PYQs, "3")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	ovs, err := admin.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, ovs, 4)
	assert.Equal(t, 3, ovs[3].Count)

	require.NoError(t, admin.DeleteResource(ctx, resource.PYQs, "3"))
	_, err = student.Resource(ctx, resource.PYQs, "3")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestClient_chat(t *testing.T) {
	ts, _ := newTestAPI(t)
	ctx := context.Background()
	teacher := newTestClient(t, ts)
	usr, err := teacher.Login(ctx, "teacher@example.com", password)
	require.NoError(t, err)

	msgs, err := teacher.Messages(ctx, chat.StudentTeacher)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)

	_, err = teacher.Messages(ctx, chat.StudentStudent)
	assert.True(t, errors.Is(err, core.ErrForbidden))

	msg, err := teacher.SendMessage(ctx, chat.StudentTeacher, "  Office hours moved to 3pm  ")
	require.NoError(t, err)
	assert.Equal(t, "7", msg.ID)
	assert.Equal(t, "Office hours moved to 3pm", msg.Content)
	assert.Equal(t, usr.ID, msg.Sender)
	assert.Equal(t, user.RoleTeacher, msg.SenderRole)

	_, err = teacher.SendMessage(ctx, chat.StudentTeacher, "   ")
	assert.True(t, core.IsValidationError(err))

	admin := newTestClient(t, ts)
	_, err = admin.Login(ctx, "admin@example.com", password)
	require.NoError(t, err)
	require.NoError(t, admin.DeleteMessage(ctx, "7"))
	assert.True(t, errors.Is(admin.DeleteMessage(ctx, "7"), core.ErrNotFound))
}

func TestClient_announcements(t *testing.T) {
	ts, env := newTestAPI(t)
	ctx := context.Background()
	admin := newTestClient(t, ts)
	_, err := admin.Login(ctx, "admin@example.com", password)
	require.NoError(t, err)

	a, err := admin.CreateAnnouncement(ctx, announcement.NewAnnouncement{
		Title: "Library closed", Content: "The library is closed on Monday", Target: []string{"Computer Science"},
	})
	require.NoError(t, err)
	assert.Equal(t, announcement.Medium, a.Priority)
	assert.Len(t, env.Mail.SentMessages(), 1)

	anns, err := admin.Announcements(ctx, "Electrical Engineering")
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, "1", anns[0].ID)

	anns, err = admin.Announcements(ctx, "")
	require.NoError(t, err)
	require.Len(t, anns, 3)
	assert.Equal(t, a.ID, anns[0].ID)

	require.NoError(t, admin.DeleteAnnouncement(ctx, a.ID))
	assert.True(t, errors.Is(admin.DeleteAnnouncement(ctx, a.ID), core.ErrNotFound))
}

func TestClient_users(t *testing.T) {
	ts, _ := newTestAPI(t)
	ctx := context.Background()
	admin := newTestClient(t, ts)
	_, err := admin.Login(ctx, "admin@example.com", password)
	require.NoError(t, err)

	teacher, err := admin.CreateUser(ctx, user.NewUser{
		Name: "Ravi Kumar", Email: "ravi@example.com", Password: "zQ7!kx9#mw", Role: user.RoleTeacher, Department: "Physics",
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, teacher.Role)

	users, err := admin.Users(ctx, user.QueryFilter{Roles: []user.Role{user.RoleTeacher}})
	require.NoError(t, err)
	require.Len(t, users, 2)

	inactive, err := admin.SetUserActive(ctx, teacher.ID, false)
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)

	active := false
	users, err = admin.Users(ctx, user.QueryFilter{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, teacher.ID, users[0].ID)

	got, err := admin.User(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, inactive, got)

	assert.True(t, errors.Is(admin.DeleteUsers(ctx, "1", "42"), core.ErrNotFound))
	require.NoError(t, admin.DeleteUsers(ctx, "1", teacher.ID))
	users, err = admin.Users(ctx, user.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
