package bookings

// Groups is a status partition of a booking list, preserving input order.
type Groups struct {
	Pending  []Booking
	Approved []Booking
	Rejected []Booking
}

// Partition splits list by status. Bookings with an unknown status are
// treated as pending so they stay visible for a decision.
func Partition(list []Booking) Groups {
	var g Groups
	for _, b := range list {
		switch b.Status {
		case StatusApproved:
			g.Approved = append(g.Approved, b)
		case StatusRejected:
			g.Rejected = append(g.Rejected, b)
		default:
			g.Pending = append(g.Pending, b)
		}
	}
	return g
}

// Total returns the number of bookings across all groups.
func (g Groups) Total() int {
	return len(g.Pending) + len(g.Approved) + len(g.Rejected)
}
