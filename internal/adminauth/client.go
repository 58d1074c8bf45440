// Package adminauth logs the shop owner into the backend and keeps the
// resulting access token in the visitor's session.
package adminauth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/wolfman30/barbershop-booking-site/internal/backend"
)

const (
	MessageLoginFailed  = "Bejelentkezés sikertelen"
	MessageSignupFailed = "Admin létrehozása sikertelen"
	MessageSessionCheck = "A munkamenet ellenőrzése sikertelen"
)

// User is the authenticated admin as reported by the backend.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Doer is the transport used by Client; *backend.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, call backend.Call, out interface{}) error
}

// Client talks to the backend's admin endpoints.
type Client struct {
	backend Doer
}

// NewClient wraps a backend transport.
func NewClient(b Doer) *Client {
	return &Client{backend: b}
}

var credentialStatuses = map[int]error{
	http.StatusBadRequest:   backend.ErrInvalidCredentials,
	http.StatusUnauthorized: backend.ErrInvalidCredentials,
	http.StatusForbidden:    backend.ErrInvalidCredentials,
}

// Login exchanges e-mail and password for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var sess Session
	err := c.backend.Do(ctx, backend.Call{
		Op:          "admin_login",
		Method:      http.MethodPost,
		Path:        "/admin/login",
		Body:        map[string]string{"email": strings.TrimSpace(email), "password": password},
		Fallback:    MessageLoginFailed,
		StatusKinds: credentialStatuses,
	}, &sess)
	if err != nil {
		return nil, fmt.Errorf("admin login: %w", err)
	}
	if sess.AccessToken == "" {
		return nil, &backend.Error{
			Kind:    backend.ErrInvalidCredentials,
			Op:      "admin_login",
			Message: MessageLoginFailed,
			Err:     fmt.Errorf("login response carried no access token"),
		}
	}
	return &sess, nil
}

// ValidateToken checks a stored token against the backend. Any error means
// the token must be discarded.
func (c *Client) ValidateToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, &backend.Error{Kind: backend.ErrAuthExpired, Op: "admin_session", Message: backend.MessageAuthExpired}
	}
	var resp struct {
		User User `json:"user"`
	}
	err := c.backend.Do(ctx, backend.Call{
		Op:       "admin_session",
		Method:   http.MethodGet,
		Path:     "/admin/session",
		Token:    token,
		Fallback: MessageSessionCheck,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	return &resp.User, nil
}

// SignupFirstAdmin creates the owner account. Whether a second admin may be
// created is decided by the backend.
func (c *Client) SignupFirstAdmin(ctx context.Context, name, email, password string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.backend.Do(ctx, backend.Call{
		Op:     "admin_signup",
		Method: http.MethodPost,
		Path:   "/admin/signup",
		Body: map[string]string{
			"name":     strings.TrimSpace(name),
			"email":    strings.TrimSpace(email),
			"password": password,
		},
		Fallback: MessageSignupFailed,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("admin signup: %w", err)
	}
	return &resp.User, nil
}
