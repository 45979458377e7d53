package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/chat"
	"github.com/trezcool/studyhub/core/user"
	"github.com/trezcool/studyhub/testutil"
)

func TestService_Messages(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	tests := []struct {
		channel chat.Channel
		wantIDs []string
	}{
		{channel: chat.StudentStudent, wantIDs: []string{"1", "2", "3"}},
		{channel: chat.StudentTeacher, wantIDs: []string{"4", "5", "6"}},
		{channel: "teacher-teacher", wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.channel), func(t *testing.T) {
			msgs, err := env.Chats.Messages(ctx, tt.channel)
			require.NoError(t, err)
			ids := make([]string, 0, len(msgs))
			for _, msg := range msgs {
				assert.Equal(t, tt.channel, msg.ChatType)
				ids = append(ids, msg.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestService_Send(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	before := time.Now().UTC()
	msg, err := env.Chats.Send(ctx, chat.NewMessage{
		Content:    "  Is the lab open today?  ",
		Sender:     "1",
		SenderName: "John Student",
		SenderRole: user.RoleStudent,
		ChatType:   chat.StudentTeacher,
	})
	require.NoError(t, err)
	assert.Equal(t, "7", msg.ID)
	assert.Equal(t, "Is the lab open today?", msg.Content)
	assert.False(t, msg.Timestamp.Before(before))

	stamp := time.Date(2023, 10, 13, 9, 0, 0, 0, time.FixedZone("IST", 19800))
	msg, err = env.Chats.Send(ctx, chat.NewMessage{Content: "hi", Sender: "1", ChatType: chat.StudentStudent, Timestamp: stamp})
	require.NoError(t, err)
	assert.Equal(t, "8", msg.ID)
	assert.True(t, stamp.Equal(msg.Timestamp))
	assert.Equal(t, time.UTC, msg.Timestamp.Location())

	msgs, err := env.Chats.Messages(ctx, chat.StudentTeacher)
	require.NoError(t, err)
	assert.Equal(t, "7", msgs[len(msgs)-1].ID, "appended last")
}

func TestService_Send_invalid(t *testing.T) {
	env := testutil.NewEnv(t)

	tests := []struct {
		name string
		nm   chat.NewMessage
	}{
		{name: "blank content", nm: chat.NewMessage{Content: "   ", Sender: "1", ChatType: chat.StudentStudent}},
		{name: "no sender", nm: chat.NewMessage{Content: "hi", ChatType: chat.StudentStudent}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Chats.Send(context.Background(), tt.nm)
			assert.True(t, core.IsValidationError(err))
			assert.EqualError(t, err, "message content and sender are required")
		})
	}
}

func TestService_Delete(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Chats.Delete(ctx, "2"))
	assert.ErrorIs(t, env.Chats.Delete(ctx, "2"), chat.ErrNotFound)

	msgs, err := env.Chats.Messages(ctx, chat.StudentStudent)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	msg, err := env.Chats.Send(ctx, chat.NewMessage{Content: "again", Sender: "1", ChatType: chat.StudentStudent})
	require.NoError(t, err)
	assert.Equal(t, "7", msg.ID, "ids are never reused")
}
