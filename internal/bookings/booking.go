// Package bookings holds the booking entity as exchanged with the managed
// backend, the fixed service catalog and the status rules shared by the
// public wizard and the admin review area.
package bookings

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further status change is possible.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether a booking in status s may move to next.
// Only pending bookings can be decided, and only to approved or rejected.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && next.Terminal()
}

// ParseDecision validates an admin decision value.
func ParseDecision(v string) (Status, error) {
	st := Status(v)
	if !st.Terminal() {
		return "", fmt.Errorf("bookings: %q is not a valid decision", v)
	}
	return st, nil
}

// Booking is the backend's record of a submitted appointment request.
type Booking struct {
	ID        string     `json:"id"`
	Service   string     `json:"service"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Notes     string     `json:"notes"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Normalize sets the status the backend omits on freshly created records.
func (b *Booking) Normalize() {
	if b.Status == "" {
		b.Status = StatusPending
	}
}

// Request is the public create-booking payload. It deliberately has no
// status: the backend always starts bookings as pending.
type Request struct {
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}
