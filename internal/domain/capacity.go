package domain

// Capacity policy: pure decision logic over an event's attendee list.
// Serial numbers are append-only and monotonic; leaving never renumbers
// the remaining attendees, so gaps are expected.

// NextSerialNumber returns the ordinal for the next attendee: 1 for an
// empty list, otherwise one past the highest serial ever still present.
// A rejoin after leaving therefore always gets a fresh, higher number.
func NextSerialNumber(attendees []*Attendee) int {
	max := 0
	for _, a := range attendees {
		if a.SerialNumber > max {
			max = a.SerialNumber
		}
	}
	return max + 1
}

// IsFull reports whether an event at the given occupancy has no free slot.
func IsFull(attendeeCount, capacity int) bool {
	return attendeeCount >= capacity
}

// ValidateCapacityChange rejects a proposed capacity below the current
// attendee count. The returned *CapacityError carries the count so the
// host can correct the input.
func ValidateCapacityChange(attendeeCount, proposedCapacity int) error {
	if proposedCapacity < attendeeCount {
		return &CapacityError{Attendees: attendeeCount}
	}
	return nil
}
