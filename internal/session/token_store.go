package session

import (
	"context"
	"time"
)

// TokenStore keeps the admin access token in a visitor's session. Writes are
// persisted immediately.
type TokenStore struct {
	manager *Manager
	session *Session
}

func (t *TokenStore) Get(context.Context) (string, error) {
	return t.session.Token, nil
}

func (t *TokenStore) Set(ctx context.Context, token string) error {
	t.session.Token = token
	return t.manager.Save(ctx, t.session)
}

// Clear drops the token together with the cached booking board.
func (t *TokenStore) Clear(ctx context.Context) error {
	t.session.Token = ""
	t.session.Bookings = nil
	t.session.BookingsFetchedAt = time.Time{}
	return t.manager.Save(ctx, t.session)
}
