// Package review implements the admin area: loading the booking board,
// deciding pending bookings and deleting bookings behind a confirmation.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfman30/barbershop-booking-site/internal/adminauth"
	"github.com/wolfman30/barbershop-booking-site/internal/backend"
	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
	"github.com/wolfman30/barbershop-booking-site/internal/observability/metrics"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

// ConfirmDeleteMessage is the question shown before a deletion.
const ConfirmDeleteMessage = "Biztosan törölni szeretnéd ezt a foglalást?"

var (
	ErrNotAuthenticated     = errors.New("review: not authenticated")
	ErrConfirmationRequired = errors.New("review: deletion not confirmed")
	ErrInvalidTransition    = errors.New("review: booking is not pending")
	ErrNotFound             = errors.New("review: booking not on board")
)

// BookingAPI is the subset of the booking client used by the admin area.
type BookingAPI interface {
	ListBookings(ctx context.Context, token string) ([]bookings.Booking, error)
	SetBookingStatus(ctx context.Context, token, id string, status bookings.Status) (*bookings.Booking, error)
	DeleteBooking(ctx context.Context, token, id string) error
}

// Notifier is told when a customer's booking was decided.
type Notifier interface {
	BookingStatusChanged(ctx context.Context, b bookings.Booking)
}

// Reviewer performs admin actions against a Board.
type Reviewer struct {
	api          BookingAPI
	notifier     Notifier
	metrics      *metrics.BookingMetrics
	logger       *logging.Logger
	pollInterval time.Duration
	now          func() time.Time
}

// Options configures a Reviewer.
type Options struct {
	API          BookingAPI
	Notifier     Notifier
	Metrics      *metrics.BookingMetrics
	Logger       *logging.Logger
	PollInterval time.Duration
}

// NewReviewer builds a Reviewer. A zero PollInterval refetches on every load.
func NewReviewer(opts Options) *Reviewer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Reviewer{
		api:          opts.API,
		notifier:     opts.Notifier,
		metrics:      opts.Metrics,
		logger:       logger,
		pollInterval: opts.PollInterval,
		now:          time.Now,
	}
}

// PollInterval is how long a loaded board is reused.
func (r *Reviewer) PollInterval() time.Duration {
	return r.pollInterval
}

func (r *Reviewer) token(ctx context.Context, tokens adminauth.TokenStore) (string, error) {
	token, err := tokens.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// expire clears the token when err says the backend no longer accepts it.
func (r *Reviewer) expire(ctx context.Context, tokens adminauth.TokenStore, err error) {
	if !errors.Is(err, backend.ErrAuthExpired) {
		return
	}
	r.logger.Warn("admin token expired, clearing")
	if clearErr := tokens.Clear(ctx); clearErr != nil {
		r.logger.Error("failed to clear admin token", "error", clearErr)
	}
}

// Load fills board from the backend. A fresh board is reused unless force
// is set.
func (r *Reviewer) Load(ctx context.Context, tokens adminauth.TokenStore, board *Board, force bool) error {
	token, err := r.token(ctx, tokens)
	if err != nil {
		return err
	}
	if !force && !board.Stale(r.now(), r.pollInterval) {
		return nil
	}
	list, err := r.api.ListBookings(ctx, token)
	if err != nil {
		r.expire(ctx, tokens, err)
		r.metrics.ObserveAdminAction("load", "failed")
		return err
	}
	board.Bookings = list
	board.FetchedAt = r.now()
	r.metrics.ObserveAdminAction("load", "ok")
	return nil
}

// Approve accepts a pending booking.
func (r *Reviewer) Approve(ctx context.Context, tokens adminauth.TokenStore, board *Board, id string) (*bookings.Booking, error) {
	return r.decide(ctx, tokens, board, id, bookings.StatusApproved)
}

// Reject declines a pending booking.
func (r *Reviewer) Reject(ctx context.Context, tokens adminauth.TokenStore, board *Board, id string) (*bookings.Booking, error) {
	return r.decide(ctx, tokens, board, id, bookings.StatusRejected)
}

// decide updates exactly one record of the local copy from the response;
// the board is not refetched.
func (r *Reviewer) decide(ctx context.Context, tokens adminauth.TokenStore, board *Board, id string, status bookings.Status) (*bookings.Booking, error) {
	action := string(status)
	token, err := r.token(ctx, tokens)
	if err != nil {
		return nil, err
	}
	local, ok := board.Find(id)
	if !ok {
		return nil, ErrNotFound
	}
	if !local.Status.CanTransition(status) {
		return nil, ErrInvalidTransition
	}

	updated, err := r.api.SetBookingStatus(ctx, token, id, status)
	if err != nil {
		r.expire(ctx, tokens, err)
		r.metrics.ObserveAdminAction(action, "failed")
		return nil, err
	}
	result := *updated
	if result.ID == "" {
		result = local
		result.Status = updated.Status
	}
	if result.Status == "" {
		result.Status = status
	}
	board.Replace(result)
	r.metrics.ObserveAdminAction(action, "ok")
	r.logger.Info("booking decided", "booking_id", id, "status", result.Status)

	if r.notifier != nil {
		if result.Email == "" {
			result.Email = local.Email
		}
		r.notifier.BookingStatusChanged(ctx, result)
	}
	return &result, nil
}

// Delete removes a booking once confirmed and then refetches the board. If
// the refetch fails only the deleted id is dropped locally.
func (r *Reviewer) Delete(ctx context.Context, tokens adminauth.TokenStore, board *Board, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	token, err := r.token(ctx, tokens)
	if err != nil {
		return err
	}
	if err := r.api.DeleteBooking(ctx, token, id); err != nil {
		r.expire(ctx, tokens, err)
		r.metrics.ObserveAdminAction("delete", "failed")
		return err
	}
	r.metrics.ObserveAdminAction("delete", "ok")
	r.logger.Info("booking deleted", "booking_id", id)

	list, err := r.api.ListBookings(ctx, token)
	if err != nil {
		r.logger.Warn("refetch after delete failed", "booking_id", id, "error", err)
		r.expire(ctx, tokens, err)
		board.Remove(id)
		return nil
	}
	board.Bookings = list
	board.FetchedAt = r.now()
	return nil
}
