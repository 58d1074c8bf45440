package review

import (
	"time"

	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
)

// Board is the admin's cached copy of the backend's booking set.
type Board struct {
	Bookings  []bookings.Booking
	FetchedAt time.Time
}

// Groups partitions the board by status, preserving order.
func (b *Board) Groups() bookings.Groups {
	return bookings.Partition(b.Bookings)
}

// Find returns the local copy of id.
func (b *Board) Find(id string) (bookings.Booking, bool) {
	for _, bk := range b.Bookings {
		if bk.ID == id {
			return bk, true
		}
	}
	return bookings.Booking{}, false
}

// Replace swaps the record with the same id; other records are untouched.
func (b *Board) Replace(updated bookings.Booking) {
	for i := range b.Bookings {
		if b.Bookings[i].ID == updated.ID {
			b.Bookings[i] = updated
			return
		}
	}
}

// Remove drops id from the local copy.
func (b *Board) Remove(id string) {
	kept := b.Bookings[:0]
	for _, bk := range b.Bookings {
		if bk.ID != id {
			kept = append(kept, bk)
		}
	}
	b.Bookings = kept
}

// Stale reports whether the board must be refetched.
func (b *Board) Stale(now time.Time, interval time.Duration) bool {
	if b.FetchedAt.IsZero() {
		return true
	}
	return interval <= 0 || now.Sub(b.FetchedAt) >= interval
}
