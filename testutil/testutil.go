// Package testutil wires the services on a fresh in-memory database for tests.
package testutil

import (
	"context"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/announcement"
	"github.com/trezcool/studyhub/core/chat"
	"github.com/trezcool/studyhub/core/resource"
	"github.com/trezcool/studyhub/core/user"
	emailsvc "github.com/trezcool/studyhub/services/email"
	"github.com/trezcool/studyhub/storage/database/inmem"
	"github.com/trezcool/studyhub/storage/session/memstore"
)

// Env holds every service of the app, sharing one seeded in-memory database.
type Env struct {
	Conf       *core.Config
	DB         *inmemdb.DB
	Validate   *validator.Validate
	Translator ut.Translator
	Mail       *emailsvc.Mock
	Logger     *Logger
	Sessions   *memstore.Store

	Users         *user.Service
	Resources     *resource.Service
	Chats         *chat.Service
	Announcements *announcement.Service
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	announcement.InitValidators(validate, translator)
	return validate, translator
}

// NewEnv returns an Env on a seeded database.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	db := inmemdb.Open()
	if err := db.Seed(); err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}

	env := &Env{
		Conf:     core.NewTestConfig(),
		DB:       db,
		Logger:   new(Logger),
		Sessions: memstore.New(),
	}
	env.Validate, env.Translator = NewValidator()
	env.Mail = emailsvc.NewMock(env.Conf)

	env.Users = user.NewService(inmemdb.NewUserRepository(db), env.Sessions, env.Mail, env.Validate, env.Translator, env.Conf)
	env.Resources = resource.NewService(inmemdb.NewResourceRepository(db), env.Validate, env.Translator, env.Conf)
	env.Chats = chat.NewService(inmemdb.NewMessageRepository(db), env.Validate, env.Translator, env.Conf)
	env.Announcements = announcement.NewService(
		inmemdb.NewAnnouncementRepository(db), env.Users, env.Mail, env.Validate, env.Translator, env.Logger, env.Conf,
	)
	return env
}

// CreateUser adds a user straight to the repository, bypassing the password policy.
func CreateUser(t *testing.T, env *Env, usr user.User, pwd string) user.User {
	t.Helper()
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := inmemdb.NewUserRepository(env.DB).CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
