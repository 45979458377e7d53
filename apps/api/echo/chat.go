package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/chat"
)

type chatApi struct {
	svc *chat.Service
}

func registerChatAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *chat.Service) {
	api := chatApi{svc: svc}

	cg := g.Group("/chats", authed...)
	cg.GET("/:channel", api.messages)
	cg.POST("/:channel", api.send)
	cg.DELETE("/messages/:id", api.destroy)
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

func channel(ctx echo.Context) (chat.Channel, error) {
	ch := chat.Channel(ctx.Param("channel"))
	if !ch.IsKnown() {
		return "", errUnknownChannel
	}
	return ch, nil
}

func (api *chatApi) messages(ctx echo.Context) error {
	ch, err := channel(ctx)
	if err != nil {
		return err
	}
	msgs, err := api.svc.Messages(ctx.Request().Context(), ch)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}
	return ctx.JSON(http.StatusOK, msgs)
}

// send posts as the context user. The sender fields of the body are ignored.
func (api *chatApi) send(ctx echo.Context) error {
	ch, err := channel(ctx)
	if err != nil {
		return err
	}
	var data SendMessageRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SendMessageRequest")
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	msg, err := api.svc.Send(ctx.Request().Context(), chat.NewMessage{
		Content:    data.Content,
		Sender:     usr.ID,
		SenderName: usr.Name,
		SenderRole: usr.Role,
		ChatType:   ch,
	})
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *chatApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting message")
	}
	return ctx.NoContent(http.StatusNoContent)
}
