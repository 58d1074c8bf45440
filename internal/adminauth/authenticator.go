package adminauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

// TokenStore persists the admin access token for one visitor.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// ProvisionFlag records whether the first admin account exists.
type ProvisionFlag interface {
	MarkProvisioned(ctx context.Context) error
	Provisioned(ctx context.Context) (bool, error)
}

// API is the subset of Client used by Authenticator.
type API interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	ValidateToken(ctx context.Context, token string) (*User, error)
	SignupFirstAdmin(ctx context.Context, name, email, password string) (*User, error)
}

// ErrNoToken is returned by Restore when the visitor never logged in.
var ErrNoToken = errors.New("adminauth: no stored token")

// Authenticator ties the backend auth calls to token persistence.
type Authenticator struct {
	api    API
	flag   ProvisionFlag
	logger *logging.Logger
}

// NewAuthenticator builds an Authenticator. flag may be nil.
func NewAuthenticator(api API, flag ProvisionFlag, logger *logging.Logger) *Authenticator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Authenticator{api: api, flag: flag, logger: logger}
}

// Login authenticates and stores the token on success. A failed login leaves
// the store untouched.
func (a *Authenticator) Login(ctx context.Context, store TokenStore, email, password string) (*User, error) {
	sess, err := a.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := store.Set(ctx, sess.AccessToken); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	a.logger.Info("admin logged in", "email", sess.User.Email)
	return &sess.User, nil
}

// Restore validates the stored token and clears it on any failure.
func (a *Authenticator) Restore(ctx context.Context, store TokenStore) (*User, error) {
	token, err := store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return nil, ErrNoToken
	}
	user, err := a.api.ValidateToken(ctx, token)
	if err != nil {
		a.logger.Warn("stored admin token rejected", "error", err)
		if clearErr := store.Clear(ctx); clearErr != nil {
			a.logger.Error("failed to clear admin token", "error", clearErr)
		}
		return nil, err
	}
	return user, nil
}

// Logout forgets the stored token.
func (a *Authenticator) Logout(ctx context.Context, store TokenStore) error {
	return store.Clear(ctx)
}

// Provision creates the first admin and hides the setup page from then on.
func (a *Authenticator) Provision(ctx context.Context, name, email, password string) (*User, error) {
	user, err := a.api.SignupFirstAdmin(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if a.flag != nil {
		if err := a.flag.MarkProvisioned(ctx); err != nil {
			a.logger.Error("failed to record admin provisioning", "error", err)
		}
	}
	a.logger.Info("first admin provisioned", "email", user.Email)
	return user, nil
}

// SetupPending reports whether the setup page should still be offered.
func (a *Authenticator) SetupPending(ctx context.Context) (bool, error) {
	if a.flag == nil {
		return true, nil
	}
	done, err := a.flag.Provisioned(ctx)
	if err != nil {
		return false, fmt.Errorf("check provisioning: %w", err)
	}
	return !done, nil
}
