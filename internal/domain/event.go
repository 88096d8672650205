package domain

import (
	"context"
	"time"
)

// Category classifies an event. Unknown values are rejected at the edge;
// an empty category defaults to CategoryOther.
type Category string

// Event categories.
const (
	CategoryConference Category = "Conference"
	CategoryWorkshop   Category = "Workshop"
	CategoryMeetup     Category = "Meetup"
	CategoryParty      Category = "Party"
	CategorySports     Category = "Sports"
	CategoryMusic      Category = "Music"
	CategoryOther      Category = "Other"
)

// AllCategories is the filter sentinel meaning "no category filtering".
const AllCategories = "All Categories"

// Categories lists every valid category.
var Categories = []Category{
	CategoryConference,
	CategoryWorkshop,
	CategoryMeetup,
	CategoryParty,
	CategorySports,
	CategoryMusic,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Event is the aggregate owning capacity, host identity, and the ordered
// attendee list. All capacity and membership invariants are enforced at
// this boundary.
//
// Date and Time are stored as text exactly as entered; the "date" sort
// order is therefore plain string comparison.
// swagger:model Event
type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Location    string      `json:"location"`
	Category    Category    `json:"category"`
	Capacity    int         `json:"capacity"`
	Image       string      `json:"image,omitempty"`
	HostID      string      `json:"host_id"`
	Attendees   []*Attendee `json:"attendees"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the
// repository on create. An empty category defaults to CategoryOther.
func NewEvent(title, description, date, timeOfDay, location string, category Category, capacity int, image, hostID string, createdAt, updatedAt time.Time) *Event {
	if category == "" {
		category = CategoryOther
	}
	return &Event{
		Title:       title,
		Description: description,
		Date:        date,
		Time:        timeOfDay,
		Location:    location,
		Category:    category,
		Capacity:    capacity,
		Image:       image,
		HostID:      hostID,
		Attendees:   []*Attendee{},
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// HasAttendee reports whether the user is currently on the attendee list.
func (e *Event) HasAttendee(userID string) bool {
	for _, a := range e.Attendees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// SortOrder selects the ordering of event listings.
type SortOrder string

// Supported sort orders. SortRecency is the default.
const (
	SortRecency           SortOrder = "recency"
	SortDate              SortOrder = "date"
	SortPopularity        SortOrder = "popularity"
	SortRemainingCapacity SortOrder = "remainingCapacity"
)

// Valid reports whether s is a known sort order.
func (s SortOrder) Valid() bool {
	switch s {
	case SortRecency, SortDate, SortPopularity, SortRemainingCapacity:
		return true
	}
	return false
}

// EventFilter narrows and orders event listings. Category is an exact
// match; empty or AllCategories means no category filtering. Search is a
// case-insensitive substring match against title, description, or
// location. An empty Sort means SortRecency.
type EventFilter struct {
	Category string
	Search   string
	Sort     SortOrder
}

// EventUpdate carries a partial edit of an event's descriptive fields.
// Nil pointers leave the field unchanged. A non-nil empty Image removes
// the stored image.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Location    *string
	Category    *Category
	Capacity    *int
	Image       *string
}

// EventRepository defines event storage. AddAttendee, RemoveAttendee, and
// Update must apply as atomic read-check-write cycles against the
// persisted aggregate: implementations lock the event row for the
// duration of the transaction so that concurrent joins on the last free
// slot can never both succeed.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	ListByHostID(ctx context.Context, hostID string) ([]*Event, error)
	ListByAttendeeID(ctx context.Context, userID string) ([]*Event, error)
	// Update applies upd to the event, validating the capacity change
	// against the current attendee count before any field is written.
	// A rejected capacity change leaves the event untouched and returns
	// *CapacityError.
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	// AddAttendee appends att to the event's attendee list, assigning its
	// SerialNumber. Fails with ErrAlreadyJoined before ErrEventFull.
	AddAttendee(ctx context.Context, eventID string, att *Attendee) (*Event, error)
	// RemoveAttendee removes the user's attendee record. Remaining records
	// keep their serial numbers.
	RemoveAttendee(ctx context.Context, eventID, userID string) (*Event, error)
}

// EventService defines host- and listing-facing event operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	// UpdateEvent applies a host edit. Fails with ErrForbidden if the
	// caller is not the host, before any validation runs.
	UpdateEvent(ctx context.Context, eventID, callerID string, upd EventUpdate) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	ListHostedEvents(ctx context.Context, hostID string) ([]*Event, error)
}
