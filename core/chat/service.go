package chat

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
)

// simulated latencies
const (
	messagesDelay = 700 * time.Millisecond
	sendDelay     = 500 * time.Millisecond
	deleteDelay   = 500 * time.Millisecond
)

var (
	// errors
	ErrNotFound = core.NewError(core.ErrNotFound, "message not found")

	errContentSenderRequired = errors.New("message content and sender are required")
)

type Repository interface {
	// QueryMessages returns the messages of ch in append order.
	QueryMessages(ctx context.Context, ch Channel) ([]Message, error)
	// CreateMessage assigns the next sequential ID to msg and appends it.
	CreateMessage(ctx context.Context, msg Message) (Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

// Service owns the chat log.
type Service struct {
	repo       Repository
	validate   *validator.Validate
	translator ut.Translator
	latency    *core.Latency
}

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator, conf *core.Config) *Service {
	return &Service{
		repo:       repo,
		validate:   validate,
		translator: translator,
		latency:    core.NewLatency(conf),
	}
}

// Messages returns the messages of ch in the order they were sent.
func (svc *Service) Messages(ctx context.Context, ch Channel) ([]Message, error) {
	if err := svc.latency.Wait(ctx, messagesDelay); err != nil {
		return nil, err
	}
	return svc.repo.QueryMessages(ctx, ch)
}

func (svc *Service) Send(ctx context.Context, nm NewMessage) (Message, error) {
	if err := svc.latency.Wait(ctx, sendDelay); err != nil {
		return Message{}, err
	}

	nm.Clean()
	if err := svc.validate.Struct(nm); err != nil {
		return Message{}, core.TranslateValidation(err, svc.translator, errContentSenderRequired.Error())
	}

	ts := nm.Timestamp.UTC()
	if nm.Timestamp.IsZero() {
		ts = time.Now().UTC()
	}
	return svc.repo.CreateMessage(ctx, Message{
		Content:    nm.Content,
		Sender:     nm.Sender,
		SenderName: nm.SenderName,
		SenderRole: nm.SenderRole,
		ChatType:   nm.ChatType,
		Timestamp:  ts,
	})
}

// Delete removes a message for good.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.latency.Wait(ctx, deleteDelay); err != nil {
		return err
	}
	return svc.repo.DeleteMessage(ctx, id)
}
