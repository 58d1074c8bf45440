package bookings

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on the wire and in forms.
const DateLayout = "2006-01-02"

// Service is a bookable catalog entry.
type Service struct {
	ID       string
	Name     string
	Price    string
	Duration string
	Disabled bool
}

// Catalog is the fixed list of services and time slots offered by the shop.
type Catalog struct {
	Services  []Service
	TimeSlots []string
}

// DefaultCatalog returns the shop's current offering. Only the haircut is
// bookable; the other services are announced but not yet available.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Services: []Service{
			{ID: "haircut", Name: "Férfi Hajvágás", Price: "Ingyenes", Duration: "30 perc"},
			{ID: "beard", Name: "Szakáll Formázás", Price: "Hamarosan", Duration: "20 perc", Disabled: true},
			{ID: "combo", Name: "Hajvágás + Szakáll", Price: "Hamarosan", Duration: "45 perc", Disabled: true},
		},
		TimeSlots: HalfHourSlots(9, 18),
	}
}

// HalfHourSlots lists HH:MM slots every 30 minutes in [fromHour, toHour).
func HalfHourSlots(fromHour, toHour int) []string {
	var slots []string
	for h := fromHour; h < toHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}

// Service looks up a service by id.
func (c *Catalog) Service(id string) (Service, bool) {
	for _, s := range c.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// Bookable reports whether id names an enabled service.
func (c *Catalog) Bookable(id string) bool {
	s, ok := c.Service(id)
	return ok && !s.Disabled
}

// ServiceName returns the display name sent to the backend for id, falling
// back to the id itself for unknown entries.
func (c *Catalog) ServiceName(id string) string {
	if s, ok := c.Service(id); ok {
		return s.Name
	}
	return id
}

// HasSlot reports whether slot is one of the offered times.
func (c *Catalog) HasSlot(slot string) bool {
	for _, s := range c.TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// ParseDate validates a YYYY-MM-DD date that is not before today in loc.
func ParseDate(value string, now time.Time) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("bookings: invalid date %q", value)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return time.Time{}, fmt.Errorf("bookings: date %s is in the past", value)
	}
	return d, nil
}
