package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/announcement"
	"github.com/trezcool/studyhub/core/chat"
	"github.com/trezcool/studyhub/core/resource"
	"github.com/trezcool/studyhub/core/user"
)

func seededDB(t *testing.T) *DB {
	t.Helper()
	db := Open()
	require.NoError(t, db.Seed())
	return db
}

func TestSeed(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()

	users, err := NewUserRepository(db).QueryAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
	for _, usr := range users {
		assert.NoError(t, usr.CheckPassword(SeedPassword), usr.Email)
	}

	resRepo := NewResourceRepository(db)
	counts := map[resource.Category]int{resource.Notes: 3, resource.Syllabus: 2, resource.Videos: 2, resource.PYQs: 2}
	for c, n := range counts {
		rs, err := resRepo.QueryResources(ctx, c)
		require.NoError(t, err)
		assert.Len(t, rs, n, c)
	}

	msgs, err := NewMessageRepository(db).QueryMessages(ctx, chat.StudentStudent)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)

	anns, err := NewAnnouncementRepository(db).QueryAnnouncements(ctx)
	require.NoError(t, err)
	assert.Len(t, anns, 2)
}

func TestUserRepository_GetUserByIdentifier(t *testing.T) {
	db := seededDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	// same roll number as the seeded student, created later
	_, err := repo.CreateUser(ctx, user.User{Name: "Other", Email: "other@example.com", RollNo: "CS2001"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		identifier string
		wantID     string
		wantErr    error
	}{
		{name: "email", identifier: "teacher@example.com", wantID: "2"},
		{name: "email case insensitive", identifier: "ADMIN@example.com", wantID: "3"},
		{name: "phone", identifier: "1234567890", wantID: "1"},
		{name: "roll number first match wins", identifier: "cs2001", wantID: "1"},
		{name: "unknown", identifier: "nobody@example.com", wantErr: core.ErrNotFound},
		{name: "empty never matches", identifier: "", wantErr: core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := repo.GetUserByIdentifier(ctx, tt.identifier)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, usr.ID)
		})
	}
}

func TestUserRepository_CreateUser(t *testing.T) {
	db := seededDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	usr, err := repo.CreateUser(ctx, user.User{Name: "New", Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "4", usr.ID)

	_, err = repo.CreateUser(ctx, user.User{Name: "Dup", Email: "student@example.com"})
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestUserRepository_FilterUsers(t *testing.T) {
	db := seededDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.SetUserActive(ctx, "2", false)
	require.NoError(t, err)

	inactive := false
	tests := []struct {
		name    string
		filter  user.QueryFilter
		wantIDs []string
	}{
		{name: "no filter", filter: user.QueryFilter{}, wantIDs: []string{"1", "2", "3"}},
		{name: "search", filter: user.QueryFilter{Search: "jane"}, wantIDs: []string{"2"}},
		{name: "roles", filter: user.QueryFilter{Roles: []user.Role{user.RoleStudent, user.RoleAdmin}}, wantIDs: []string{"1", "3"}},
		{name: "branch", filter: user.QueryFilter{Branches: []string{"computer science"}}, wantIDs: []string{"1"}},
		{name: "inactive", filter: user.QueryFilter{IsActive: &inactive}, wantIDs: []string{"2"}},
		{name: "nothing", filter: user.QueryFilter{Search: "zzz"}, wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.FilterUsers(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(users))
			for _, usr := range users {
				ids = append(ids, usr.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestUserRepository_DeleteUsersByID(t *testing.T) {
	db := seededDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.DeleteUsersByID(ctx, "1", "42"), core.ErrNotFound)
	users, _ := repo.QueryAllUsers(ctx)
	assert.Len(t, users, 3, "nothing deleted when an id is unknown")

	require.NoError(t, repo.DeleteUsersByID(ctx, "1", "3"))
	users, _ = repo.QueryAllUsers(ctx)
	require.Len(t, users, 1)
	assert.Equal(t, "2", users[0].ID)
}

func TestResourceRepository_idsNeverReused(t *testing.T) {
	db := seededDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.DeleteResource(ctx, resource.Notes, "1"))
	r, err := repo.CreateResource(ctx, resource.Notes, resource.Resource{Title: "Compilers"})
	require.NoError(t, err)
	assert.Equal(t, "4", r.ID)

	rs, err := repo.QueryResources(ctx, resource.Notes)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, r := range rs {
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
	}

	// categories count independently
	r, err = repo.CreateResource(ctx, resource.Videos, resource.Resource{Title: "Graphs"})
	require.NoError(t, err)
	assert.Equal(t, "3", r.ID)
	assert.Equal(t, resource.Videos, r.Category)
}

func TestResourceRepository_IncrementStat(t *testing.T) {
	db := seededDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	r, err := repo.IncrementStat(ctx, resource.Notes, "1", resource.Like)
	require.NoError(t, err)
	assert.Equal(t, 46, r.Stats.Likes)
	assert.Equal(t, 120, r.Stats.Views)

	before, err := repo.IncrementStat(ctx, resource.Notes, "1", resource.Download)
	require.NoError(t, err)
	after, err := repo.IncrementStat(ctx, resource.Notes, "1", resource.Download)
	require.NoError(t, err)
	assert.Equal(t, 68, *before.Stats.Downloads, "returned copies keep their count")
	assert.Equal(t, 69, *after.Stats.Downloads)

	_, err = repo.IncrementStat(ctx, resource.Notes, "99", resource.Like)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.EqualError(t, err, "resource not found with ID: 99")

	_, err = repo.QueryResources(ctx, resource.Category("books"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestResourceRepository_queryReturnsCopy(t *testing.T) {
	db := seededDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	rs, err := repo.QueryResources(ctx, resource.Notes)
	require.NoError(t, err)
	rs[0].Title = "changed"

	r, err := repo.GetResource(ctx, resource.Notes, rs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Data Structures and Algorithms", r.Title)
}

func TestMessageRepository(t *testing.T) {
	db := seededDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	msg, err := repo.CreateMessage(ctx, chat.Message{Content: "hello", ChatType: chat.StudentTeacher})
	require.NoError(t, err)
	assert.Equal(t, "7", msg.ID)

	require.NoError(t, repo.DeleteMessage(ctx, "4"))
	assert.ErrorIs(t, repo.DeleteMessage(ctx, "4"), core.ErrNotFound)

	msgs, err := repo.QueryMessages(ctx, chat.StudentTeacher)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
	assert.Equal(t, "7", msgs[len(msgs)-1].ID)
}

func TestAnnouncementRepository(t *testing.T) {
	db := seededDB(t)
	repo := NewAnnouncementRepository(db)
	ctx := context.Background()

	target := []string{"Mechanical"}
	a, err := repo.CreateAnnouncement(ctx, announcement.Announcement{Title: "Lab", Target: target})
	require.NoError(t, err)
	assert.Equal(t, "3", a.ID)
	target[0] = "changed"

	anns, err := repo.QueryAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, anns, 3)
	assert.Equal(t, []string{"Mechanical"}, anns[2].Target)

	require.NoError(t, repo.DeleteAnnouncement(ctx, "1"))
	assert.ErrorIs(t, repo.DeleteAnnouncement(ctx, "1"), core.ErrNotFound)
}
