package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/announcement"
	"github.com/trezcool/studyhub/core/authz"
	"github.com/trezcool/studyhub/core/chat"
	"github.com/trezcool/studyhub/core/resource"
	"github.com/trezcool/studyhub/core/user"
)

// Deps are the services exposed by the API.
type Deps struct {
	Users         *user.Service
	Resources     *resource.Service
	Chats         *chat.Service
	Announcements *announcement.Service
	Enforcer      *authz.Enforcer
}

type Server struct {
	conf     *core.Config
	logger   core.Logger
	app      *echo.Echo
	auth     *auth
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(conf *core.Config, logger core.Logger, deps *Deps) *Server {
	s := &Server{
		conf:     conf,
		logger:   logger,
		app:      echo.New(),
		auth:     newAuth(conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup(deps)
	return s
}

func (s *Server) setup(deps *Deps) {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.SignalShutdown)
	s.app.Debug = s.conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	authed := []echo.MiddlewareFunc{
		s.auth.jwt(),
		sessionMiddleware(deps.Users),
		rbacMiddleware(deps.Enforcer),
	}

	registerAuthAPI(api, authed, s.auth, deps.Users)
	registerResourceAPI(api, authed, deps.Resources)
	registerChatAPI(api, authed, deps.Chats)
	registerAnnouncementAPI(api, authed, deps.Announcements)
	registerUserAPI(api, authed, deps.Users)
}

// Start listens on the configured host. Listening errors are sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the owner of the server to shut it down.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to StudyHub API!")
}
