// Package authz decides which role may call which API route.
package authz

import (
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/user"
)

// rbacModel matches a role against a request path (keyMatch2 patterns) and method (regex).
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

var policy = []string{
	// member is the group every role belongs to
	"g, student, member",
	"g, teacher, member",
	"g, admin, member",

	// every authenticated user
	"p, member, /api/auth/*, (GET)|(POST)",
	"p, member, /api/resources/recent, GET",
	"p, member, /api/resources/:category, GET",
	"p, member, /api/resources/:category/:id, GET",
	"p, member, /api/resources/:category/:id/:action, POST",
	"p, member, /api/announcements, GET",

	// chat channels
	"p, student, /api/chats/student-student, (GET)|(POST)",
	"p, student, /api/chats/student-teacher, (GET)|(POST)",
	"p, teacher, /api/chats/student-teacher, (GET)|(POST)",

	// admin portal
	"p, admin, /api/resources/:category, POST",
	"p, admin, /api/resources/:category/:id, DELETE",
	"p, admin, /api/dashboard/overview, GET",
	"p, admin, /api/chats/:channel, GET",
	"p, admin, /api/chats/messages/:id, DELETE",
	"p, admin, /api/announcements, POST",
	"p, admin, /api/announcements/:id, DELETE",
	"p, admin, /api/users, (GET)|(POST)|(DELETE)",
	"p, admin, /api/users/:id, (GET)|(DELETE)",
	"p, admin, /api/users/:id/active, PATCH",
}

type Enforcer struct {
	enforcer *casbin.Enforcer
}

// NewEnforcer compiles the role policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, errors.Wrap(err, "loading rbac model")
	}
	adapter := stringadapter.NewAdapter(strings.Join(policy, "\n"))
	e, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, errors.Wrap(err, "creating enforcer")
	}
	return &Enforcer{enforcer: e}, nil
}

// Allowed reports whether role may call `method path`.
func (e *Enforcer) Allowed(role user.Role, path, method string) (bool, error) {
	ok, err := e.enforcer.Enforce(string(role), path, method)
	return ok, errors.Wrap(err, "enforcing policy")
}
