package user

import (
	"context"
	"net/mail"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/session"
)

// simulated latencies
const (
	loginDelay    = 800 * time.Millisecond
	registerDelay = 1000 * time.Millisecond
	logoutDelay   = 300 * time.Millisecond
	currentDelay  = 300 * time.Millisecond
)

var (
	// errors
	ErrNotFound           = core.NewError(core.ErrNotFound, "user not found")
	ErrEmailExists        = core.NewError(core.ErrConflict, "email already registered")
	ErrInvalidPassword    = core.NewError(core.ErrInvalidCredentials, "invalid password")
	ErrAccountDeactivated = core.NewError(core.ErrForbidden, "account deactivated")
	ErrSessionExpired     = core.NewError(core.ErrInvalidCredentials, "session expired")

	errCredentialsRequired = errors.New("email/phone/roll no and password are required")
	errInvalidUser         = errors.New("invalid user data")
)

type Repository interface {
	// CreateUser assigns a new ID to usr and appends it.
	// It fails with ErrEmailExists if another user has the same email.
	CreateUser(ctx context.Context, usr User) (User, error)
	QueryAllUsers(ctx context.Context) ([]User, error)
	// FilterUsers applies AND operation on available QueryFilter fields, in insertion order.
	FilterUsers(ctx context.Context, filter QueryFilter) ([]User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	// GetUserByIdentifier returns the first user, in insertion order, whose email, phone or roll number is identifier.
	GetUserByIdentifier(ctx context.Context, identifier string) (User, error)
	SetUserActive(ctx context.Context, id string, active bool) (User, error)
	DeleteUsersByID(ctx context.Context, ids ...string) error
}

// Service owns the users and the sessions of the authenticated ones.
// Every session is a slot of the session store keyed by a session ID.
type Service struct {
	repo       Repository
	sessions   session.Store
	sessionTTL time.Duration
	mailSvc    core.EmailService
	validate   *validator.Validate
	translator ut.Translator
	latency    *core.Latency
}

func NewService(
	repo Repository,
	sessions session.Store,
	mailSvc core.EmailService,
	validate *validator.Validate,
	translator ut.Translator,
	conf *core.Config,
) *Service {
	return &Service{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: conf.Session.TTL,
		mailSvc:    mailSvc,
		validate:   validate,
		translator: translator,
		latency:    core.NewLatency(conf),
	}
}

func (svc *Service) slot(sid string) *session.Slot {
	return session.NewSlot(svc.sessions, sid, svc.sessionTTL)
}

// Login authenticates the user identified by email, phone or roll number and opens the session `sid`.
// Nothing is persisted on failure.
func (svc *Service) Login(ctx context.Context, sid string, cred Credentials) (User, error) {
	if err := svc.latency.Wait(ctx, loginDelay); err != nil {
		return User{}, err
	}

	cred.Clean()
	if err := svc.validate.Struct(cred); err != nil {
		return User{}, core.TranslateValidation(err, svc.translator, errCredentialsRequired.Error())
	}

	usr, err := svc.repo.GetUserByIdentifier(ctx, cred.Identifier)
	if err != nil {
		return User{}, err
	}
	if err = usr.CheckPassword(cred.Password); err != nil {
		return User{}, ErrInvalidPassword
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}

	if err = svc.slot(sid).Save(ctx, usr); err != nil {
		return User{}, err
	}
	return usr, nil
}

// Register creates a student account and opens the session `sid` for it.
func (svc *Service) Register(ctx context.Context, sid string, nu NewUser) (User, error) {
	if err := svc.latency.Wait(ctx, registerDelay); err != nil {
		return User{}, err
	}

	nu.Role = RoleStudent
	usr, err := svc.create(ctx, nu)
	if err != nil {
		return User{}, err
	}
	if err = svc.slot(sid).Save(ctx, usr); err != nil {
		return User{}, err
	}

	svc.sendWelcomeMail(usr)
	return usr, nil
}

// Logout closes the session `sid`. Closing a closed session is a no-op.
func (svc *Service) Logout(ctx context.Context, sid string) error {
	if err := svc.latency.Wait(ctx, logoutDelay); err != nil {
		return err
	}
	return svc.slot(sid).Clear(ctx)
}

// CurrentUser returns the user of the session `sid`, or nil when there is none.
func (svc *Service) CurrentUser(ctx context.Context, sid string) (*User, error) {
	if err := svc.latency.Wait(ctx, currentDelay); err != nil {
		return nil, err
	}
	var usr User
	ok, err := svc.slot(sid).Load(ctx, &usr)
	if err != nil || !ok {
		return nil, err
	}
	return &usr, nil
}

// Authenticate returns the up to date user of the session `sid`, without simulated latency.
// The session of a deleted or deactivated user is closed.
func (svc *Service) Authenticate(ctx context.Context, sid string) (User, error) {
	slot := svc.slot(sid)
	var sess User
	ok, err := slot.Load(ctx, &sess)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrSessionExpired
	}

	usr, err := svc.repo.GetUserByID(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			_ = slot.Clear(ctx)
			return User{}, ErrSessionExpired
		}
		return User{}, err
	}
	if !usr.IsActive {
		_ = slot.Clear(ctx)
		return User{}, ErrAccountDeactivated
	}
	return usr, nil
}

// RefreshSession saves the up to date user in the session `sid`, restarting its ttl.
func (svc *Service) RefreshSession(ctx context.Context, sid string) (User, error) {
	usr, err := svc.Authenticate(ctx, sid)
	if err != nil {
		return User{}, err
	}
	if err = svc.slot(sid).Save(ctx, usr); err != nil {
		return User{}, err
	}
	return usr, nil
}

// Create creates a user of any role.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if nu.Role == "" {
		nu.Role = RoleStudent
	}
	return svc.create(ctx, nu)
}

func (svc *Service) create(ctx context.Context, nu NewUser) (User, error) {
	nu.Clean()
	// a taken email is a conflict whatever else is wrong with nu
	if nu.Email != "" {
		existing, err := svc.repo.GetUserByIdentifier(ctx, nu.Email)
		switch {
		case err == nil && existing.Email == nu.Email:
			return User{}, ErrEmailExists
		case err != nil && !errors.Is(err, core.ErrNotFound):
			return User{}, err
		}
	}
	if err := svc.validate.Struct(nu); err != nil {
		return User{}, core.TranslateValidation(err, svc.translator, errInvalidUser.Error())
	}

	usr := User{
		Name:       nu.Name,
		Email:      nu.Email,
		Phone:      nu.Phone,
		Role:       nu.Role,
		RollNo:     nu.RollNo,
		Branch:     nu.Branch,
		Department: nu.Department,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]User, error) {
	filter.Clean()
	return svc.repo.FilterUsers(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

// SetActive activates or deactivates an account. Deactivated users cannot log in.
func (svc *Service) SetActive(ctx context.Context, id string, active bool) (User, error) {
	return svc.repo.SetUserActive(ctx, id, active)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}

func (svc *Service) sendWelcomeMail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome to StudyHub",
		TemplateName: "welcome",
		TemplateData: usr,
	})
}
