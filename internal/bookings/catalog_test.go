package bookings

import (
	"testing"
	"time"
)

func TestDefaultCatalogSlots(t *testing.T) {
	c := DefaultCatalog()
	if len(c.TimeSlots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(c.TimeSlots))
	}
	if c.TimeSlots[0] != "09:00" || c.TimeSlots[len(c.TimeSlots)-1] != "17:30" {
		t.Fatalf("unexpected slot range %s..%s", c.TimeSlots[0], c.TimeSlots[len(c.TimeSlots)-1])
	}
	if !c.HasSlot("10:30") || c.HasSlot("18:00") || c.HasSlot("10:15") {
		t.Fatalf("slot membership is wrong")
	}
}

func TestCatalogBookable(t *testing.T) {
	c := DefaultCatalog()
	cases := map[string]bool{"haircut": true, "beard": false, "combo": false, "shave": false}
	for id, want := range cases {
		if got := c.Bookable(id); got != want {
			t.Errorf("Bookable(%q) = %v, want %v", id, got, want)
		}
	}
	if name := c.ServiceName("haircut"); name != "Férfi Hajvágás" {
		t.Fatalf("unexpected service name %q", name)
	}
	if name := c.ServiceName("unknown"); name != "unknown" {
		t.Fatalf("expected id fallback, got %q", name)
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 4, 0, 0, time.UTC)
	if _, err := ParseDate("2026-03-01", now); err != nil {
		t.Fatalf("today must be accepted: %v", err)
	}
	if _, err := ParseDate("2026-03-02", now); err != nil {
		t.Fatalf("future date must be accepted: %v", err)
	}
	if _, err := ParseDate("2026-02-28", now); err == nil {
		t.Fatalf("expected past date to be rejected")
	}
	if _, err := ParseDate("2026-02-30", now); err == nil {
		t.Fatalf("expected invalid calendar date to be rejected")
	}
}
