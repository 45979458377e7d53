package emailsvc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/mail"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core"
)

type welcomeData struct {
	Name  string
	Email string
}

func welcomeMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: "Asha Verma", Address: "asha@example.com"}},
		Subject:      "Welcome",
		TemplateName: "welcome",
		TemplateData: welcomeData{Name: "Asha Verma", Email: "asha@example.com"},
	}
}

func TestConsoleService_sendMessage(t *testing.T) {
	conf := core.NewTestConfig()
	var out bytes.Buffer
	svc := NewConsoleService(conf, nil)
	svc.out = &out

	tests := []struct {
		name     string
		msg      *core.EmailMessage
		wantSent bool
	}{
		{name: "templated", msg: welcomeMessage(), wantSent: true},
		{name: "plain body", msg: &core.EmailMessage{To: []mail.Address{{Address: "a@example.com"}}, BodyStr: "hi"}, wantSent: true},
		{name: "no recipients", msg: &core.EmailMessage{BodyStr: "hi"}, wantSent: false},
		{name: "no content", msg: &core.EmailMessage{To: []mail.Address{{Address: "a@example.com"}}}, wantSent: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			sent, err := svc.sendMessage(tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSent, sent)
			assert.Equal(t, tt.wantSent, out.Len() > 0)
		})
	}
}

func TestConsoleService_format(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewConsoleService(conf, nil)
	msg := welcomeMessage()
	require.NoError(t, msg.Render())

	body, err := svc.format(*msg)
	require.NoError(t, err)
	assert.Contains(t, body, "Subject: ["+conf.AppName+"] Welcome\r\n")
	assert.Contains(t, body, `To: "Asha Verma" <asha@example.com>`)
	assert.Contains(t, body, "text/html")
	assert.Contains(t, body, "Hello Asha Verma,")
	assert.NotContains(t, body, "CC:")
}

func TestMock(t *testing.T) {
	svc := NewMock(core.NewTestConfig())
	svc.SendMessages(welcomeMessage(), &core.EmailMessage{BodyStr: "nobody"})

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "Sign in with asha@example.com")
	assert.NotEmpty(t, sent[0].HTMLContent)

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}

func TestSendgridService_send(t *testing.T) {
	conf := core.NewTestConfig()
	conf.SendgridApiKey = "sg-key"
	svc := NewSendgridService(conf, nil)

	var got rest.Request
	status := http.StatusAccepted
	apiFunc = func(req rest.Request) (*rest.Response, error) {
		got = req
		return &rest.Response{StatusCode: status}, nil
	}
	defer func() { apiFunc = sendgridAPI }()

	require.NoError(t, svc.sendMessage(welcomeMessage()))
	assert.Equal(t, http.MethodPost, string(got.Method))
	assert.Equal(t, host+endpoint, got.BaseURL)
	assert.Equal(t, "Bearer sg-key", got.Headers["Authorization"])

	var payload struct {
		Personalizations []struct {
			To      []struct{ Email string } `json:"to"`
			Subject string                   `json:"subject"`
		} `json:"personalizations"`
		Content []struct {
			Type string `json:"type"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(got.Body, &payload))
	require.Len(t, payload.Personalizations, 1)
	assert.Equal(t, "asha@example.com", payload.Personalizations[0].To[0].Email)
	assert.Equal(t, "["+conf.AppName+"] Welcome", payload.Personalizations[0].Subject)
	assert.Len(t, payload.Content, 2)

	status = http.StatusUnauthorized
	assert.Error(t, svc.sendMessage(welcomeMessage()))
}
