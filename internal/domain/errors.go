package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyJoined      = errors.New("already joined this event")
	ErrNotJoined          = errors.New("not joined this event")
	ErrEventFull          = errors.New("event is full")
)

// CapacityError is returned when a host tries to lower an event's capacity
// below the current attendee count. It carries the count so callers can
// report it back to the host.
type CapacityError struct {
	Attendees int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity cannot be less than the current number of attendees (%d)", e.Attendees)
}
