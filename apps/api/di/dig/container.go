package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/studyhub/apps/api/echo"
	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/announcement"
	"github.com/trezcool/studyhub/core/authz"
	"github.com/trezcool/studyhub/core/chat"
	"github.com/trezcool/studyhub/core/resource"
	"github.com/trezcool/studyhub/core/session"
	"github.com/trezcool/studyhub/core/user"
	emailsvc "github.com/trezcool/studyhub/services/email"
	logsvc "github.com/trezcool/studyhub/services/logger"
	"github.com/trezcool/studyhub/storage/database/inmem"
	"github.com/trezcool/studyhub/storage/session/filestore"
	"github.com/trezcool/studyhub/storage/session/memstore"
	"github.com/trezcool/studyhub/storage/session/redisstore"
)

// SessionCloser releases the session backend.
type SessionCloser func() error

// DepsParam gathers the services exposed by the API server.
type DepsParam struct {
	dig.In
	Users         *user.Service
	Resources     *resource.Service
	Chats         *chat.Service
	Announcements *announcement.Service
	Enforcer      *authz.Enforcer
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDB(conf *core.Config, logger core.Logger) *inmemdb.DB {
	db := inmemdb.Open()
	if conf.Seed {
		if err := db.Seed(); err != nil {
			logger.Fatal(fmt.Sprintf("seeding database: %v", err), err)
		}
	}
	return db
}

func newSessionStore(conf *core.Config, logger core.Logger) (session.Store, SessionCloser) {
	noop := func() error { return nil }

	switch conf.Session.Backend {
	case core.SessionFile:
		store, err := filestore.New(conf.Session.Dir)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening session store: %v", err), err)
		}
		return store, noop
	case core.SessionRedis:
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		store, err := redisstore.Open(ctx, conf.Session.RedisAddr)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening session store: %v", err), err)
		}
		return store, store.Close
	default:
		return memstore.New(), noop
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	announcement.InitValidators(validate, translator)
	return validate, translator
}

func newAnnouncementService(
	repo announcement.Repository,
	users *user.Service,
	mailSvc core.EmailService,
	validate *validator.Validate,
	translator ut.Translator,
	logger core.Logger,
	conf *core.Config,
) *announcement.Service {
	return announcement.NewService(repo, users, mailSvc, validate, translator, logger, conf)
}

func newServer(conf *core.Config, logger core.Logger, p DepsParam) *echoapi.Server {
	return echoapi.NewServer(conf, logger, &echoapi.Deps{
		Users:         p.Users,
		Resources:     p.Resources,
		Chats:         p.Chats,
		Announcements: p.Announcements,
		Enforcer:      p.Enforcer,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDB))
	must(c.Provide(newSessionStore))
	must(c.Provide(newEmailService))
	must(c.Provide(newValidator))
	must(c.Provide(inmemdb.NewUserRepository))
	must(c.Provide(inmemdb.NewResourceRepository))
	must(c.Provide(inmemdb.NewMessageRepository))
	must(c.Provide(inmemdb.NewAnnouncementRepository))
	must(c.Provide(user.NewService))
	must(c.Provide(resource.NewService))
	must(c.Provide(chat.NewService))
	must(c.Provide(newAnnouncementService))
	must(c.Provide(authz.NewEnforcer))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
