package domain

import (
	"context"
	"time"
)

// Attendee is one user's membership entry in one event. Name and Mail are
// snapshots of the user's profile at join time; later profile edits do not
// update existing attendee records.
// swagger:model Attendee
type Attendee struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Mail         string    `json:"mail"`
	SerialNumber int       `json:"serial_number"`
	JoinedAt     time.Time `json:"joined_at"`
}

// NewAttendee returns an Attendee snapshot for the given user. SerialNumber
// is assigned by the repository inside the join transaction.
func NewAttendee(userID, name, mail string, joinedAt time.Time) *Attendee {
	return &Attendee{
		UserID:   userID,
		Name:     name,
		Mail:     mail,
		JoinedAt: joinedAt,
	}
}

// MembershipService defines attendee-facing operations on events.
type MembershipService interface {
	// Join adds the caller to the event's attendee list. Fails with
	// ErrNotFound, ErrUserNotFound, ErrAlreadyJoined, or ErrEventFull.
	Join(ctx context.Context, eventID, callerID string) (*Event, error)
	// Leave removes the caller from the event's attendee list. Fails with
	// ErrNotFound or ErrNotJoined.
	Leave(ctx context.Context, eventID, callerID string) (*Event, error)
	// ListAttendees returns the event's attendees in join order.
	ListAttendees(ctx context.Context, eventID string) ([]*Attendee, error)
	// ListAttendingEvents returns the events the user currently attends.
	ListAttendingEvents(ctx context.Context, userID string) ([]*Event, error)
}
