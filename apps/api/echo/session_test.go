package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core/user"
	"github.com/trezcool/studyhub/storage/database/inmem"
)

func Test_authApi_login(t *testing.T) {
	s, env := newTestServer(t)
	ctx := context.Background()

	student, err := env.Users.GetByID(ctx, "1")
	require.NoError(t, err)

	tests := []struct {
		httpTest
		wantUser *user.User
	}{
		{
			httpTest: httpTest{
				name: "by email", body: marchallObj(t, user.Credentials{Identifier: "student@example.com", Password: inmemdb.SeedPassword}),
			},
			wantUser: &student,
		},
		{
			httpTest: httpTest{
				name: "by roll number", body: marchallObj(t, user.Credentials{Identifier: "CS2001", Password: inmemdb.SeedPassword}),
			},
			wantUser: &student,
		},
		{
			httpTest: httpTest{
				name: "missing fields", body: []byte(`{}`), wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, map[string]interface{}{
					"error":  "email/phone/roll no and password are required",
					"fields": map[string]string{"identifier": "this field is required", "password": "this field is required"},
				}),
			},
		},
		{
			httpTest: httpTest{
				name: "unknown user", body: marchallObj(t, user.Credentials{Identifier: "ghost", Password: "x"}),
				wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "user not found"}),
			},
		},
		{
			httpTest: httpTest{
				name: "wrong password", body: marchallObj(t, user.Credentials{Identifier: "teacher@example.com", Password: "x"}),
				wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid password"}),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/login", tt.body)
			s.ServeHTTP(rec, req)

			if tt.wantUser == nil {
				checkCodeAndData(t, tt.httpTest, rec)
				return
			}
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var resp TokenResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantUser.ID, resp.User.ID)
			assert.NotContains(t, rec.Body.String(), "password")

			claims := new(Claims)
			_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(env.Conf.SecretKey), nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser.ID, claims.Subject)
			assert.Equal(t, user.RoleStudent, claims.Role)
			assert.NotEmpty(t, claims.SessionID())
		})
	}
}

func Test_authApi_register(t *testing.T) {
	s, env := newTestServer(t)

	body := marchallObj(t, user.NewUser{
		Name: "Asha Verma", Email: "asha@example.com", Password: "zQ7!kx9#mw",
		Role: user.RoleAdmin, RollNo: "CS2042", Branch: "Computer Science",
	})
	req, rec := newRequest(http.MethodPost, "/api/auth/register", body)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "4", resp.User.ID)
	assert.Equal(t, user.RoleStudent, resp.User.Role)
	assert.Len(t, env.Mail.SentMessages(), 1)

	// the new session is usable right away
	req, rec = newAuthRequest(http.MethodGet, "/api/auth/me", resp.Token)
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodPost, "/api/auth/register", body)
	s.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "email already registered"})}, rec)
}

func Test_authApi_session(t *testing.T) {
	s, env := newTestServer(t)
	token, usr := login(t, s, "teacher@example.com")

	runHTTPTests(t, s, []httpTest{
		{name: "me without token", path: "/api/auth/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "me with bad token", path: "/api/auth/me", token: "nope", wantCode: http.StatusUnauthorized},
		{name: "me", path: "/api/auth/me", token: token, wantData: marchallObj(t, usr)},
		{name: "logout", method: http.MethodPost, path: "/api/auth/logout", token: token, wantCode: http.StatusNoContent},
		{
			name: "token of a closed session", path: "/api/auth/me", token: token,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "session expired"}),
		},
	})

	// deactivation closes open sessions
	token, _ = login(t, s, "student@example.com")
	_, err := env.Users.SetActive(context.Background(), "1", false)
	require.NoError(t, err)
	runHTTPTests(t, s, []httpTest{
		{
			name: "deactivated", path: "/api/resources/notes", token: token,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "session closed", path: "/api/resources/notes", token: token, wantCode: http.StatusUnauthorized},
	})
}

func Test_authApi_refreshToken(t *testing.T) {
	s, _ := newTestServer(t)
	token, usr := login(t, s, "admin@example.com")

	req, rec := newAuthRequest(http.MethodPost, "/api/auth/token-refresh", token)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, usr.ID, resp.User.ID)

	// same session
	req, rec = newAuthRequest(http.MethodPost, "/api/auth/logout", resp.Token)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	req, rec = newAuthRequest(http.MethodGet, "/api/auth/me", token)
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_authApi_refreshExpired(t *testing.T) {
	s, env := newTestServer(t)
	_, usr := login(t, s, "admin@example.com")

	// a token chain started long ago, on a live session
	sid := "old-session"
	_, err := env.Users.Login(context.Background(), sid, user.Credentials{Identifier: usr.Email, Password: inmemdb.SeedPassword})
	require.NoError(t, err)
	origIat := time.Now().Add(-env.Conf.Server.JWTRefreshExpirationDelta - time.Minute).Unix()
	token, err := s.auth.generateToken(s.auth.userClaims(usr, sid, origIat))
	require.NoError(t, err)

	runHTTPTests(t, s, []httpTest{{
		name: "refresh expired", method: http.MethodPost, path: "/api/auth/token-refresh", token: token,
		wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
	}})
}
