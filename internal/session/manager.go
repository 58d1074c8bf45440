package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

// CookieName is the name of the session cookie.
const CookieName = "barbershop_session"

// Session is one visitor's loaded state.
type Session struct {
	ID string
	*Data
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(kind, message, detail string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message, Detail: detail})
}

// PopFlashes returns and clears queued messages.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// Manager loads and saves sessions for HTTP requests.
type Manager struct {
	store  Store
	codec  *CookieCodec
	ttl    time.Duration
	secure bool
	logger *logging.Logger
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Store        Store
	Codec        *CookieCodec
	TTL          time.Duration
	SecureCookie bool
	Logger       *logging.Logger
}

// NewManager builds a Manager over the given store and cookie codec.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{store: opts.Store, codec: opts.Codec, ttl: ttl, secure: opts.SecureCookie, logger: logger}
}

// Store exposes the underlying store for flags and locks.
func (m *Manager) Store() Store {
	return m.store
}

// Load returns the visitor's session, starting a new one when the cookie is
// missing, invalid or points at an expired session.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	if c, err := r.Cookie(CookieName); err == nil {
		id, decodeErr := m.codec.Decode(c.Value)
		if decodeErr == nil {
			data, getErr := m.store.Get(ctx, id)
			switch {
			case getErr == nil:
				return &Session{ID: id, Data: data}, nil
			case !errors.Is(getErr, ErrNotFound):
				return nil, getErr
			}
		} else {
			m.logger.Debug("discarding invalid session cookie", "error", decodeErr)
		}
	}
	return &Session{ID: uuid.NewString(), Data: &Data{}}, nil
}

// Cookie builds the cookie that refers to s.
func (m *Manager) Cookie(s *Session) (*http.Cookie, error) {
	value, err := m.codec.Encode(s.ID, m.ttl)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Save persists s and refreshes its expiry.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if err := m.store.Put(ctx, s.ID, s.Data, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Tokens returns the admin token store backed by s.
func (m *Manager) Tokens(s *Session) *TokenStore {
	return &TokenStore{manager: m, session: s}
}

type ctxKey struct{}

// NewContext attaches s to ctx.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by the session middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}
