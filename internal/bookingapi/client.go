// Package bookingapi is the typed client for the backend's booking endpoints.
package bookingapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wolfman30/barbershop-booking-site/internal/backend"
	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
)

// Visitor-facing fallbacks used when the backend gives no reason.
const (
	MessageSubmitFailed = "Foglalás rögzítése sikertelen"
	MessageListFailed   = "Foglalások betöltése sikertelen"
	MessageStatusFailed = "Státusz frissítése sikertelen"
	MessageDeleteFailed = "Foglalás törlése sikertelen"
)

// Doer is the transport used by Client; *backend.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, call backend.Call, out interface{}) error
}

// Client creates, lists and mutates bookings.
type Client struct {
	backend Doer
}

// New wraps a backend transport.
func New(b Doer) *Client {
	return &Client{backend: b}
}

// CreateBooking submits a new booking with the public key. The payload never
// carries a status; a missing status in the response means pending.
func (c *Client) CreateBooking(ctx context.Context, req bookings.Request) (*bookings.Booking, error) {
	var resp struct {
		Booking *bookings.Booking `json:"booking"`
	}
	err := c.backend.Do(ctx, backend.Call{
		Op:       "create_booking",
		Method:   http.MethodPost,
		Path:     "/bookings",
		Body:     req,
		Kind:     backend.ErrSubmission,
		Fallback: MessageSubmitFailed,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	b := resp.Booking
	if b == nil {
		b = &bookings.Booking{
			Service: req.Service, Date: req.Date, Time: req.Time,
			Name: req.Name, Email: req.Email, Phone: req.Phone, Notes: req.Notes,
		}
	}
	b.Normalize()
	return b, nil
}

// ListBookings returns every booking visible to the admin token.
func (c *Client) ListBookings(ctx context.Context, token string) ([]bookings.Booking, error) {
	var resp struct {
		Bookings []bookings.Booking `json:"bookings"`
	}
	err := c.backend.Do(ctx, backend.Call{
		Op:       "list_bookings",
		Method:   http.MethodGet,
		Path:     "/bookings",
		Token:    token,
		Fallback: MessageListFailed,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	for i := range resp.Bookings {
		resp.Bookings[i].Normalize()
	}
	return resp.Bookings, nil
}

// SetBookingStatus moves a booking to approved or rejected. Any other status
// is refused before a request is made.
func (c *Client) SetBookingStatus(ctx context.Context, token, id string, status bookings.Status) (*bookings.Booking, error) {
	if !status.Terminal() {
		return nil, &backend.Error{
			Kind:    backend.ErrStatusUpdate,
			Op:      "set_booking_status",
			Message: MessageStatusFailed,
			Err:     fmt.Errorf("status %q cannot be set", status),
		}
	}
	var resp struct {
		Booking *bookings.Booking `json:"booking"`
	}
	err := c.backend.Do(ctx, backend.Call{
		Op:       "set_booking_status",
		Method:   http.MethodPut,
		Path:     "/bookings/" + url.PathEscape(id),
		Token:    token,
		Body:     map[string]bookings.Status{"status": status},
		Kind:     backend.ErrStatusUpdate,
		Fallback: MessageStatusFailed,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("set booking status: %w", err)
	}
	if resp.Booking == nil {
		return nil, &backend.Error{
			Kind:    backend.ErrStatusUpdate,
			Op:      "set_booking_status",
			Message: MessageStatusFailed,
			Err:     fmt.Errorf("response for %s carried no booking", id),
		}
	}
	return resp.Booking, nil
}

// DeleteBooking removes a booking permanently.
func (c *Client) DeleteBooking(ctx context.Context, token, id string) error {
	err := c.backend.Do(ctx, backend.Call{
		Op:       "delete_booking",
		Method:   http.MethodDelete,
		Path:     "/bookings/" + url.PathEscape(id),
		Token:    token,
		Kind:     backend.ErrDeletion,
		Fallback: MessageDeleteFailed,
	}, nil)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}
