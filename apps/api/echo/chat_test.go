package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core/chat"
	"github.com/trezcool/studyhub/core/user"
)

func Test_chatApi(t *testing.T) {
	s, env := newTestServer(t)
	ctx := context.Background()
	studentToken, student := login(t, s, "student@example.com")
	teacherToken, _ := login(t, s, "teacher@example.com")
	adminToken, _ := login(t, s, "admin@example.com")

	studentChat, err := env.Chats.Messages(ctx, chat.StudentStudent)
	require.NoError(t, err)
	list := func(msgs []chat.Message) []byte {
		objs := make([]interface{}, 0, len(msgs))
		for _, m := range msgs {
			objs = append(objs, m)
		}
		return marchallList(t, objs...)
	}

	runHTTPTests(t, s, []httpTest{
		{name: "student reads", path: "/api/chats/student-student", token: studentToken, wantData: list(studentChat)},
		{name: "teacher cannot read student chat", path: "/api/chats/student-student", token: teacherToken, wantCode: http.StatusForbidden},
		{name: "admin reads", path: "/api/chats/student-student", token: adminToken, wantData: list(studentChat)},
		{name: "admin cannot post", method: http.MethodPost, path: "/api/chats/student-student", token: adminToken,
			body: []byte(`{"content":"hi"}`), wantCode: http.StatusForbidden},
		{name: "blank message", method: http.MethodPost, path: "/api/chats/student-teacher", token: studentToken,
			body: []byte(`{"content":"  "}`), wantCode: http.StatusBadRequest},
	})

	// the sender is always the session user
	body := []byte(`{"content":"When is the quiz?","sender":"2","senderName":"Jane Teacher"}`)
	req, rec := newAuthRequest(http.MethodPost, "/api/chats/student-teacher", studentToken, body)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var msg chat.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, "7", msg.ID)
	assert.Equal(t, student.ID, msg.Sender)
	assert.Equal(t, student.Name, msg.SenderName)
	assert.Equal(t, user.RoleStudent, msg.SenderRole)
	assert.Equal(t, chat.StudentTeacher, msg.ChatType)

	runHTTPTests(t, s, []httpTest{
		{name: "student cannot delete", method: http.MethodDelete, path: "/api/chats/messages/7", token: studentToken, wantCode: http.StatusForbidden},
		{name: "admin deletes", method: http.MethodDelete, path: "/api/chats/messages/7", token: adminToken, wantCode: http.StatusNoContent},
		{name: "already deleted", method: http.MethodDelete, path: "/api/chats/messages/7", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "message not found"})},
		{name: "unknown channel", path: "/api/chats/teacher-teacher", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "unknown chat channel"})},
	})
}
