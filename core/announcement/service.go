package announcement

import (
	"context"
	"net/mail"
	"sort"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/user"
)

// simulated latencies
const (
	listDelay   = 500 * time.Millisecond
	createDelay = 800 * time.Millisecond
	deleteDelay = 500 * time.Millisecond
)

var (
	priorityTag  = "priority"
	priorityText = "priority must be one of low, medium, high"

	// errors
	ErrNotFound = core.NewError(core.ErrNotFound, "announcement not found")

	errInvalidAnnouncement = errors.New("title and content are required")
)

// InitValidators registers the announcement validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(priorityTag, func(fl validator.FieldLevel) bool {
		return Priority(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, priorityTag, priorityText)
}

type Repository interface {
	// QueryAnnouncements returns all announcements in insertion order.
	QueryAnnouncements(ctx context.Context) ([]Announcement, error)
	CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error
}

// Recipients finds the users an announcement is mailed to.
type Recipients interface {
	Query(ctx context.Context, filter user.QueryFilter) ([]user.User, error)
}

type Service struct {
	repo       Repository
	recipients Recipients
	mailSvc    core.EmailService
	validate   *validator.Validate
	translator ut.Translator
	latency    *core.Latency
	logger     core.Logger
}

func NewService(
	repo Repository,
	recipients Recipients,
	mailSvc core.EmailService,
	validate *validator.Validate,
	translator ut.Translator,
	logger core.Logger,
	conf *core.Config,
) *Service {
	return &Service{
		repo:       repo,
		recipients: recipients,
		mailSvc:    mailSvc,
		validate:   validate,
		translator: translator,
		latency:    core.NewLatency(conf),
		logger:     logger,
	}
}

// List returns the announcements matching filter, newest first.
func (svc *Service) List(ctx context.Context, filter QueryFilter) ([]Announcement, error) {
	if err := svc.latency.Wait(ctx, listDelay); err != nil {
		return nil, err
	}
	all, err := svc.repo.QueryAnnouncements(ctx)
	if err != nil {
		return nil, err
	}

	filter.Branch = core.CleanString(filter.Branch)
	anns := make([]Announcement, 0, len(all))
	for _, a := range all {
		if filter.Branch == "" || a.IsFor(filter.Branch) {
			anns = append(anns, a)
		}
	}
	sort.SliceStable(anns, func(i, j int) bool { return anns[i].CreatedAt.After(anns[j].CreatedAt) })
	return anns, nil
}

// Create publishes an announcement and mails it to the active students it targets.
func (svc *Service) Create(ctx context.Context, na NewAnnouncement) (Announcement, error) {
	if err := svc.latency.Wait(ctx, createDelay); err != nil {
		return Announcement{}, err
	}

	na.Clean()
	if err := svc.validate.Struct(na); err != nil {
		return Announcement{}, core.TranslateValidation(err, svc.translator, errInvalidAnnouncement.Error())
	}

	a, err := svc.repo.CreateAnnouncement(ctx, Announcement{
		Title:     na.Title,
		Content:   na.Content,
		Target:    na.Target,
		Priority:  na.Priority,
		CreatedBy: na.CreatedBy,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Announcement{}, err
	}

	if err = svc.mail(ctx, a); err != nil {
		// the announcement is published anyway
		svc.logger.Error("mailing announcement", errors.Wrap(err, "mailing announcement"), map[string]interface{}{"id": a.ID})
	}
	return a, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.latency.Wait(ctx, deleteDelay); err != nil {
		return err
	}
	return svc.repo.DeleteAnnouncement(ctx, id)
}

type mailData struct {
	Name     string
	Title    string
	Content  string
	Priority Priority
}

func (svc *Service) mail(ctx context.Context, a Announcement) error {
	if svc.mailSvc == nil || svc.recipients == nil {
		return nil
	}

	active := true
	filter := user.QueryFilter{Roles: []user.Role{user.RoleStudent}, IsActive: &active}
	if !a.IsForAll() {
		filter.Branches = a.Target
	}
	students, err := svc.recipients.Query(ctx, filter)
	if err != nil {
		return err
	}

	msgs := make([]*core.EmailMessage, 0, len(students))
	for _, s := range students {
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: s.Name, Address: s.Email}},
			Subject:      a.Title,
			TemplateName: "announcement",
			TemplateData: mailData{Name: s.Name, Title: a.Title, Content: a.Content, Priority: a.Priority},
		})
	}
	svc.mailSvc.SendMessages(msgs...)
	return nil
}
