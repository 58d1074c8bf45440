package bookings

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseDecision(t *testing.T) {
	if st, err := ParseDecision("approved"); err != nil || st != StatusApproved {
		t.Fatalf("expected approved, got %q %v", st, err)
	}
	if _, err := ParseDecision("pending"); err == nil {
		t.Fatalf("pending is not a decision")
	}
	if _, err := ParseDecision("cancelled"); err == nil {
		t.Fatalf("unknown status must be rejected")
	}
}

func TestPartitionPreservesOrder(t *testing.T) {
	list := []Booking{
		{ID: "a", Status: StatusPending},
		{ID: "b", Status: StatusApproved},
		{ID: "c", Status: StatusPending},
		{ID: "d", Status: StatusRejected},
		{ID: "e", Status: ""},
	}
	g := Partition(list)
	if len(g.Pending) != 3 || g.Pending[0].ID != "a" || g.Pending[1].ID != "c" || g.Pending[2].ID != "e" {
		t.Fatalf("unexpected pending group %+v", g.Pending)
	}
	if len(g.Approved) != 1 || g.Approved[0].ID != "b" {
		t.Fatalf("unexpected approved group %+v", g.Approved)
	}
	if len(g.Rejected) != 1 || g.Rejected[0].ID != "d" {
		t.Fatalf("unexpected rejected group %+v", g.Rejected)
	}
	if g.Total() != len(list) {
		t.Fatalf("expected total %d, got %d", len(list), g.Total())
	}
}
