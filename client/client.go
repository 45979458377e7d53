// Package client talks to the StudyHub API and keeps the authenticated session in a local slot.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/session"
	"github.com/trezcool/studyhub/core/user"
)

// Session is the record persisted in the local slot.
type Session struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type Client struct {
	baseURL    string
	http       *rest.Client
	sessionTTL time.Duration
	slot       *session.Slot
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = &rest.Client{HTTPClient: hc} }
}

// WithSessionTTL expires the local session after ttl.
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *Client) { c.sessionTTL = ttl }
}

// New returns a client of the API at baseURL keeping its session under session.DefaultKey in store.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &rest.Client{HTTPClient: http.DefaultClient},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.slot = session.NewSlot(store, session.DefaultKey, c.sessionTTL)
	return c
}

// APIError is a non 2xx response. It unwraps to the matching core error kind.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return core.ErrNotFound
	case http.StatusConflict:
		return core.ErrConflict
	case http.StatusUnauthorized:
		return core.ErrInvalidCredentials
	case http.StatusForbidden:
		return core.ErrForbidden
	case http.StatusGatewayTimeout:
		return context.DeadlineExceeded
	}
	return nil
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func decodeError(resp *rest.Response) error {
	var body errorBody
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	if resp.StatusCode != http.StatusBadRequest {
		return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
	}

	names := make([]string, 0, len(body.Fields))
	for name := range body.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	flds := make([]core.FieldError, 0, len(names))
	for _, name := range names {
		flds = append(flds, core.FieldError{Field: name, Error: body.Fields[name]})
	}
	return core.NewValidationError(errors.New(body.Error), flds...)
}

type request struct {
	method rest.Method
	path   []string
	query  url.Values
	body   interface{}
	authed bool
}

// do sends req and decodes the JSON response into dest (if not nil).
// An authenticated request rejected with 401 clears the local session.
func (c *Client) do(ctx context.Context, req request, dest interface{}) error {
	r := rest.Request{
		Method:  req.method,
		BaseURL: c.baseURL + "/api/" + path.Join(req.path...),
		Headers: map[string]string{"Accept": "application/json"},
	}
	if len(req.query) > 0 {
		r.BaseURL += "?" + req.query.Encode()
	}
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return errors.Wrap(err, "marshalling request body")
		}
		r.Body = data
		r.Headers["Content-Type"] = "application/json"
	}
	if req.authed {
		sess, err := c.Session(ctx)
		if err != nil {
			return err
		}
		if sess == nil {
			return &APIError{StatusCode: http.StatusUnauthorized, Message: "user not authenticated"}
		}
		r.Headers["Authorization"] = "Bearer " + sess.Token
	}

	resp, err := c.send(ctx, r)
	if err != nil {
		return errors.Wrapf(err, "%s %s", r.Method, r.BaseURL)
	}
	if resp.StatusCode >= 300 {
		if req.authed && resp.StatusCode == http.StatusUnauthorized {
			_ = c.slot.Clear(ctx)
		}
		return decodeError(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return errors.Wrap(json.Unmarshal([]byte(resp.Body), dest), "decoding response")
}

func (c *Client) send(ctx context.Context, r rest.Request) (*rest.Response, error) {
	hreq, err := rest.BuildRequestObject(r)
	if err != nil {
		return nil, err
	}
	hresp, err := c.http.MakeRequest(hreq.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return rest.BuildResponse(hresp)
}

// Session returns the locally persisted session, or nil when logged out.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	var sess Session
	ok, err := c.slot.Load(ctx, &sess)
	if err != nil || !ok {
		return nil, err
	}
	return &sess, nil
}

func (c *Client) openSession(ctx context.Context, req request) (user.User, error) {
	var sess Session
	if err := c.do(ctx, req, &sess); err != nil {
		return user.User{}, err
	}
	if err := c.slot.Save(ctx, sess); err != nil {
		return user.User{}, err
	}
	return sess.User, nil
}

// Login authenticates with an email, phone number or roll number. A failed login keeps the current session.
func (c *Client) Login(ctx context.Context, identifier, password string) (user.User, error) {
	return c.openSession(ctx, request{
		method: rest.Post,
		path:   []string{"auth", "login"},
		body:   user.Credentials{Identifier: identifier, Password: password},
	})
}

// Register signs up a student and logs it in.
func (c *Client) Register(ctx context.Context, nu user.NewUser) (user.User, error) {
	return c.openSession(ctx, request{method: rest.Post, path: []string{"auth", "register"}, body: nu})
}

// RefreshToken exchanges the current token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) (user.User, error) {
	return c.openSession(ctx, request{method: rest.Post, path: []string{"auth", "token-refresh"}, authed: true})
}

// Logout closes the session on the server and forgets it locally, even when the server already dropped it.
func (c *Client) Logout(ctx context.Context) error {
	sess, err := c.Session(ctx)
	if err != nil || sess == nil {
		return err
	}
	err = c.do(ctx, request{method: rest.Post, path: []string{"auth", "logout"}, authed: true}, nil)
	if err != nil && !errors.Is(err, core.ErrInvalidCredentials) {
		return err
	}
	return c.slot.Clear(ctx)
}

// CurrentUser returns the locally persisted user without a round-trip, or nil when logged out.
func (c *Client) CurrentUser(ctx context.Context) (*user.User, error) {
	sess, err := c.Session(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	return &sess.User, nil
}

// Me fetches the user of the session from the server and updates the local record.
func (c *Client) Me(ctx context.Context) (user.User, error) {
	var usr user.User
	if err := c.do(ctx, request{method: rest.Get, path: []string{"auth", "me"}, authed: true}, &usr); err != nil {
		return user.User{}, err
	}
	sess, err := c.Session(ctx)
	if err != nil || sess == nil {
		return usr, err
	}
	sess.User = usr
	return usr, c.slot.Save(ctx, sess)
}
