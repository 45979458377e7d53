package client

import (
	"net/http/httptest"
	"testing"

	echoapi "github.com/trezcool/studyhub/apps/api/echo"
	"github.com/trezcool/studyhub/core/authz"
	"github.com/trezcool/studyhub/core/session"
	"github.com/trezcool/studyhub/storage/database/inmem"
	"github.com/trezcool/studyhub/storage/session/memstore"
	"github.com/trezcool/studyhub/testutil"
)

const password = inmemdb.SeedPassword

// newTestAPI serves the API of a fresh seeded env.
func newTestAPI(t *testing.T) (*httptest.Server, *testutil.Env) {
	t.Helper()
	env := testutil.NewEnv(t)
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		t.Fatalf("newTestAPI(): %v", err)
	}
	s := echoapi.NewServer(env.Conf, env.Logger, &echoapi.Deps{
		Users:         env.Users,
		Resources:     env.Resources,
		Chats:         env.Chats,
		Announcements: env.Announcements,
		Enforcer:      enforcer,
	})
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		ts.Close()
		_ = s.Close()
	})
	return ts, env
}

func newTestClient(t *testing.T, ts *httptest.Server, store ...session.Store) *Client {
	t.Helper()
	var st session.Store = memstore.New()
	if len(store) > 0 {
		st = store[0]
	}
	return New(ts.URL+"/", st, WithHTTPClient(ts.Client()))
}
