package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"support-console/internal/app"
	"support-console/internal/core"
)

var _ app.ApplicationService = (*Client)(nil)

// Login posts form-encoded credentials.
func (c *Client) Login(ctx context.Context, req app.LoginRequest) (*app.SessionResult, error) {
	form := url.Values{}
	form.Set("username", req.Email)
	form.Set("password", req.Password)

	var out app.SessionResult
	if err := c.sendForm(ctx, "/auth/login", form, &out); err != nil {
		return nil, err
	}
	return checkSession(&out)
}

func (c *Client) Register(ctx context.Context, req app.RegisterRequest) (*app.SessionResult, error) {
	var out app.SessionResult
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return checkSession(&out)
}

func (c *Client) GoogleLoginURL(callbackURL, state string) string {
	q := url.Values{}
	q.Set("redirect_uri", callbackURL)
	q.Set("state", state)
	return c.baseURL + "/auth/google?" + q.Encode()
}

func (c *Client) Me(ctx context.Context) (*core.User, error) {
	var u core.User
	if err := c.getJSON(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	if !u.Role.Valid() {
		return nil, fmt.Errorf("backend returned user with unknown role %q", u.Role)
	}
	return &u, nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.sendJSON(ctx, http.MethodPost, "/auth/password-reset/request", map[string]string{"email": email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.sendJSON(ctx, http.MethodPost, "/auth/password-reset/confirm", map[string]string{
		"token":    token,
		"password": password,
	}, nil)
}

var errNoSession = errors.New("backend response carried no session")

func checkSession(s *app.SessionResult) (*app.SessionResult, error) {
	if s.Token == "" || s.User == nil {
		return nil, errNoSession
	}
	if !s.User.Role.Valid() {
		return nil, fmt.Errorf("backend returned user with unknown role %q", s.User.Role)
	}
	return s, nil
}

// DecodeCallback reads the token the backend hands back after Google sign-in:
// ?token=<token>&state=<state>. Any user the query carries is ignored; the caller
// resolves the identity with Me so it is never taken from the URL.
func DecodeCallback(q url.Values) (string, error) {
	if msg := q.Get("error"); msg != "" {
		return "", &APIError{Status: http.StatusUnauthorized, Message: msg}
	}
	token := q.Get("token")
	if token == "" {
		return "", errNoSession
	}
	return token, nil
}
