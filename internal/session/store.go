// Package session keeps per-visitor UI state on the server: the admin access
// token, the wizard draft, the cached booking board and pending flash
// messages. The browser only holds a signed session id.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
	"github.com/wolfman30/barbershop-booking-site/internal/wizard"
)

// ErrNotFound is returned by Store.Get for unknown or expired sessions.
var ErrNotFound = errors.New("session: not found")

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot message rendered on the next page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Data is everything remembered about one visitor.
type Data struct {
	Token             string             `json:"token,omitempty"`
	Wizard            *wizard.State      `json:"wizard,omitempty"`
	Bookings          []bookings.Booking `json:"bookings,omitempty"`
	BookingsFetchedAt time.Time          `json:"bookingsFetchedAt,omitempty"`
	Flashes           []Flash            `json:"flashes,omitempty"`
}

// Store persists session data and a few process-wide flags.
type Store interface {
	Get(ctx context.Context, id string) (*Data, error)
	Put(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error

	MarkProvisioned(ctx context.Context) error
	Provisioned(ctx context.Context) (bool, error)

	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}
